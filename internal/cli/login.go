package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newLoginCmd creates and returns a new login command
func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with the Forpus API",
		Long: `Login to the Forpus API to obtain an authentication token.
This command authenticates with the configured credentials and stores the
token in your configuration file. Other commands log in on their own when the
stored token is missing or has expired.

Credentials are read from the configuration file, or from FORPUSAPI_USER and
FORPUSAPI_PASSWORD in the environment or a .env file.

Example:
  forpus login --password=mypassword
  forpus login  # uses the password from the config file`,
		RunE: runLogin,
	}

	cmd.Flags().String("password", "", "Password for authentication")
	return cmd
}

// runLogin handles the login command execution
func runLogin(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("no configuration loaded")
	}

	if passwd, _ := cmd.Flags().GetString("password"); passwd != "" {
		if cfg.User == "" {
			return fmt.Errorf("no user configured. Use \"forpus config --user\" first")
		}
		cfg.Password = passwd
	}

	client, err := newAPIClient(cfg)
	if err != nil {
		return err
	}
	if err := client.Authenticate(cmd.Context()); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	cfg.Token = client.Token()
	if err := cfg.WriteConfig(configFile); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	if jsonOutput {
		printJSON(map[string]any{
			"status":  "success",
			"message": "Login successful",
			"user":    client.User(),
		})
	} else {
		okLabel.Println("✓ Login successful")
		fmt.Printf("Logged in as: %s\n", client.User())
	}

	return nil
}
