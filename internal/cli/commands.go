package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Masterminds/semver/v3"
	"github.com/fatih/color"
	"github.com/forpus/forpus/internal/common/apperrors"
	"github.com/forpus/forpus/internal/common/logtrace"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	// Global flags
	jsonOutput  bool
	configFile  string
	debugOutput bool
)

var ErrAlreadyHandled = errors.New("already handled")

var okLabel = color.New(color.FgGreen)
var errorLabel = color.New(color.FgRed)

// logOutput receives the log lines of the CLI.
var logOutput io.Writer = os.Stderr

// cliVersion is overwritten at build time with -ldflags "-X ...cliVersion=v1.2.3".
var cliVersion = "v0.1.0"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "forpus [command] [flags]",
	Short: "Forpus CLI - A command line interface for the Forpus market data API",
	Long: `Forpus CLI is a command line interface for the Forpus market data API.
It lets you list, create, update and delete securities, security types,
frequencies, price types, prices, time weights and time volumes, and query
prices of a security.

Examples:
  # Point the CLI at the API and store your credentials
  forpus config --server https://forpus.example.com/api/v1 --user me@example.com --password secret

  # List all securities
  forpus list securities

  # Create resources from a file
  forpus create -f securities.yaml

  # Delete a price
  forpus delete price/42

  # Query the last 10 closing prices of a security
  forpus prices --security 1 --price-type 2 --limit 10`,
	PersistentPreRunE: preRunHandlePersistents,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	// Set up persistent flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "", "", "Path to configuration file to override default")
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&debugOutput, "debug", "", false, "Log requests and responses to stderr")

	// Add commands
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newLoginCmd())
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SilenceErrors = true // Prevent Cobra from printing the error
	rootCmd.SilenceUsage = true  // Prevent Cobra from printing usage on error

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if errors.Is(err, ErrAlreadyHandled) {
			os.Exit(1)
		}
		kv := errorFields(err)
		if jsonOutput {
			printJSON(kv)
		} else {
			errorLabel.Fprintf(os.Stderr, "Error: %v\n", kv["error"])
		}
		os.Exit(1)
	}
}

// errorFields describes err for output. With --debug the causes attached to
// the error are listed too, and the status code of API errors is reported
// when there is one.
func errorFields(err error) map[string]any {
	kv := map[string]any{
		"error": err.Error(),
	}
	var appErr apperrors.Error
	if !errors.As(err, &appErr) {
		return kv
	}
	if debugOutput {
		kv["error"] = err.Error() + strings.TrimPrefix(appErr.ErrorAll(), appErr.Error())
	}
	if code := appErr.StatusCode(); code != 0 {
		kv["status"] = code
	}
	return kv
}

// initLogging writes JSON log lines with --json and console lines otherwise.
func initLogging() {
	level := zerolog.WarnLevel.String()
	if debugOutput {
		level = zerolog.DebugLevel.String()
	}
	if jsonOutput {
		logtrace.InitLogger(logOutput, level)
	} else {
		logtrace.InitConsoleLogger(logOutput, level)
	}
}

// preRunHandlePersistents sets up logging and loads the configuration before command execution
func preRunHandlePersistents(cmd *cobra.Command, args []string) error {
	initLogging()

	if configFile == "" {
		var err error
		configFile, err = GetDefaultConfigPath()
		if err != nil {
			return err
		}
	}

	if cmd.Name() == "version" {
		return nil
	}
	cfg, err := LoadConfig(configFile)
	if err != nil {
		return err
	}
	config = cfg
	return nil
}

// newVersionCmd creates and returns a new version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of forpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := semver.NewVersion(cliVersion)
			if err != nil {
				return fmt.Errorf("invalid CLI version %q: %w", cliVersion, err)
			}

			if jsonOutput {
				kv := map[string]string{
					"version":        "v" + v.String(),
					"config_version": ConfigVersion,
					"config_file":    configFile,
				}
				printJSON(kv)
			} else {
				cmd.Printf("forpus CLI v%s\n", v.String())
				cmd.Printf("Config format: %s\n", ConfigVersion)
				cmd.Printf("Config file: %s\n", configFile)
			}
			return nil
		},
	}
}

// printJSON prints the given value as JSON to stdout
func printJSON(data any) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(jsonData))
}
