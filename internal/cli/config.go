package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default name of the config file
const DefaultConfigFile = "config.yaml"

// ConfigVersion is the format version written to new config files.
const ConfigVersion = "0.1.0"

// supportedConfigVersions is the range of config formats this CLI reads.
const supportedConfigVersions = "^0.1"

var configValidator = validator.New(validator.WithRequiredStructEnabled())

// Config represents the configuration for the Forpus CLI.
// It contains the API location, the credentials and the last token issued.
type Config struct {
	// Version of the configuration file format
	Version string `yaml:"version" toml:"version"`
	// ServerURL is the API root, e.g. https://forpus.example.com/api/v1
	ServerURL string `yaml:"server_url,omitempty" toml:"server_url,omitempty" validate:"omitempty,url"`
	// User is the e-mail used to authenticate
	User string `yaml:"user,omitempty" toml:"user,omitempty" validate:"omitempty,email"`
	// Password is the password for authentication (stored for convenience)
	Password string `yaml:"password,omitempty" toml:"password,omitempty"`
	// Token is the last token issued by the API
	Token string `yaml:"token,omitempty" toml:"token,omitempty"`
	// Insecure disables TLS certificate verification
	Insecure bool `yaml:"insecure,omitempty" toml:"insecure,omitempty"`
}

var config *Config

// GetDefaultConfigPath returns the default path for the config file
// It uses the OS-specific config directory (e.g., ~/.config/forpus on Linux)
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "forpus", DefaultConfigFile), nil
}

func isTOML(file string) bool {
	return strings.EqualFold(filepath.Ext(file), ".toml")
}

// LoadConfig loads the configuration from the specified file. A missing file
// yields an empty configuration so that credentials can come from the
// environment instead.
func LoadConfig(file string) (*Config, error) {
	if file == "" {
		return nil, errors.New("file path cannot be empty")
	}

	data, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{Version: ConfigVersion}, nil
		}
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}

	var c Config
	if isTOML(file) {
		err = toml.Unmarshal(data, &c)
	} else {
		err = yaml.Unmarshal(data, &c)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to parse config file: %w", err)
	}

	c.ServerURL = MorphServer(c.ServerURL)
	if err := c.ValidateConfig(); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetConfig returns the current configuration
func GetConfig() *Config {
	return config
}

// WriteConfig writes the configuration to the specified file, as TOML when
// the file name ends in .toml and as YAML otherwise.
func (cfg *Config) WriteConfig(file string) error {
	if file == "" {
		return errors.New("file path cannot be empty")
	}

	err := os.MkdirAll(filepath.Dir(file), 0o700)
	if err != nil {
		return fmt.Errorf("unable to create config directory: %w", err)
	}

	var data []byte
	if isTOML(file) {
		var buf bytes.Buffer
		err = toml.NewEncoder(&buf).Encode(cfg)
		data = buf.Bytes()
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to generate configuration: %w", err)
	}

	err = os.WriteFile(file, data, os.FileMode(0600))
	if err != nil {
		return fmt.Errorf("unable to write config file: %w", err)
	}

	return nil
}

// ValidateConfig checks the format version and the field formats.
func (cfg *Config) ValidateConfig() error {
	if cfg.Version == "" {
		return errors.New("config version is required")
	}
	v, err := semver.NewVersion(cfg.Version)
	if err != nil {
		return fmt.Errorf("invalid config version %q: %w", cfg.Version, err)
	}
	constraint, err := semver.NewConstraint(supportedConfigVersions)
	if err != nil {
		return err
	}
	if !constraint.Check(v) {
		return fmt.Errorf("unsupported config version %s, expected %s", cfg.Version, supportedConfigVersions)
	}
	if err := configValidator.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Print prints the configuration in a human-readable format, masking secrets
func (cfg *Config) Print() {
	fmt.Printf("Server: %s\n", valueOrDefault(cfg.ServerURL, "(default)"))
	fmt.Printf("User: %s\n", valueOrDefault(cfg.User, "(from environment)"))
	fmt.Printf("Password: %s\n", mask(cfg.Password))
	fmt.Printf("Token: %s\n", mask(cfg.Token))
	if cfg.Insecure {
		fmt.Println("TLS verification: disabled")
	}
}

func valueOrDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func mask(secret string) string {
	if secret == "" {
		return "(not set)"
	}
	return "********"
}

// MorphServer ensures the server URL is properly formatted
// Adds https:// prefix if missing and removes trailing slashes
func MorphServer(server string) string {
	if server == "" {
		return server
	}

	// Remove any trailing slashes
	server = strings.TrimRight(server, "/")

	// Add https:// if no protocol is specified
	if !strings.HasPrefix(server, "http://") && !strings.HasPrefix(server, "https://") {
		server = "https://" + server
	}

	return server
}

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long: `Manage CLI configuration settings like the API location and credentials.

Examples:
  # Store the API location and credentials
  forpus config --server https://forpus.example.com/api/v1 --user me@example.com --password secret

  # Keep the password out of the config file and read it from FORPUSAPI_PASSWORD
  forpus config --user me@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		if !flags.Changed("server") && !flags.Changed("user") && !flags.Changed("password") && !flags.Changed("insecure") {
			return cmd.Help()
		}
		cfg := GetConfig()
		if cfg == nil {
			cfg = &Config{}
		}
		if flags.Changed("server") {
			server, _ := flags.GetString("server")
			cfg.ServerURL = MorphServer(server)
		}
		if flags.Changed("user") {
			cfg.User, _ = flags.GetString("user")
		}
		if flags.Changed("password") {
			cfg.Password, _ = flags.GetString("password")
		}
		if flags.Changed("insecure") {
			cfg.Insecure, _ = flags.GetBool("insecure")
		}
		return setConfig(cfg)
	},
}

// configClearCmd represents the config clear command
var configClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the stored token",
	Long: `Clear the stored authentication token. The next command authenticates again
with the configured credentials.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		cfg.Token = ""
		// Note: We don't clear Password here as it is needed for future logins

		if err := cfg.WriteConfig(configFile); err != nil {
			return fmt.Errorf("failed to save config: %v", err)
		}

		if jsonOutput {
			printJSON(map[string]int{"result": 1})
		} else {
			fmt.Println("Token cleared")
		}
		return nil
	},
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if jsonOutput {
			printJSON(map[string]any{
				"config_file": configFile,
				"version":     cfg.Version,
				"server_url":  cfg.ServerURL,
				"user":        cfg.User,
				"password":    mask(cfg.Password),
				"token":       mask(cfg.Token),
				"insecure":    cfg.Insecure,
			})
			return nil
		}
		fmt.Printf("Config file: %s\n", configFile)
		cfg.Print()
		return nil
	},
}

func init() {
	// Add flags to config command
	configCmd.Flags().String("server", "", "Set the API URL (e.g., https://forpus.example.com/api/v1)")
	configCmd.Flags().String("user", "", "Set the user e-mail")
	configCmd.Flags().String("password", "", "Set the password")
	configCmd.Flags().Bool("insecure", false, "Skip TLS certificate verification")

	configCmd.AddCommand(configClearCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

// setConfig validates and stores the configuration in the config file.
// Changing any setting drops the stored token.
func setConfig(cfg *Config) error {
	cfg.Version = ConfigVersion
	cfg.Token = ""
	if err := cfg.ValidateConfig(); err != nil {
		return err
	}

	if err := cfg.WriteConfig(configFile); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if jsonOutput {
		printJSON(map[string]string{
			"server":      cfg.ServerURL,
			"user":        cfg.User,
			"config_file": configFile,
		})
	} else {
		fmt.Printf("Server configured: %s\n", valueOrDefault(cfg.ServerURL, "(default)"))
		fmt.Printf("User configured: %s\n", valueOrDefault(cfg.User, "(from environment)"))
		fmt.Printf("Config file: %s\n", configFile)
	}

	return nil
}
