package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/forpus/forpus/pkg/forpus"
	"github.com/spf13/cobra"
)

var (
	// Create command flags
	ignoreErrors bool
)

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:   "create [RESOURCE_TYPE] -f FILENAME [flags]",
	Short: "Create resources from a file",
	Long: `Create resources from a YAML or JSON file. A file may hold several documents
separated by '---'. The resource of each document is determined by its single
top-level key:

  security:
    name: PETR4
    security_type_id: 1

Recognized keys: security, security_type, frequency, price_type, price,
time_weight, time_volume. When RESOURCE_TYPE is given every document is sent to
that resource and may omit the key. Values of the form {{ .ENV.VAR }} are taken
from the environment or a .env file in the current directory.

Examples:
  # Create the securities listed in a file
  forpus create -f securities.yaml

  # Create a price type from an unwrapped document
  forpus create price-type -f close.yaml

  # Keep going when a document is rejected
  forpus create -f prices.yaml -i`,
	Args: cobra.MaximumNArgs(1),
	RunE: createResource,
}

// createResource handles the creation of resources from a file
func createResource(cmd *cobra.Command, args []string) error {
	filename, err := cmd.Flags().GetString("filename")
	if err != nil {
		return err
	}
	if filename == "" {
		return fmt.Errorf("filename is required")
	}

	var forced forpus.Resource
	if len(args) == 1 {
		forced, err = ParseResource(args[0])
		if err != nil {
			return err
		}
	}

	payloads, err := LoadPayloadsFromMultiYAMLFile(filename, forced)
	if err != nil {
		return err
	}
	if len(payloads) == 0 {
		return fmt.Errorf("no documents found in %s", filename)
	}

	var statusValues []map[string]any
	defer func() {
		printCreateStatus(statusValues)
	}()

	return withClient(cmd.Context(), func(ctx context.Context, c *forpus.Client) error {
		for i, payload := range payloads {
			kv, err := handleCreateResource(ctx, c, payload)
			if err != nil {
				statusValues = append(statusValues, map[string]any{
					"resource": string(payload.Resource),
					"document": i + 1,
					"created":  false,
					"error":    err.Error(),
				})
				if !ignoreErrors {
					return ErrAlreadyHandled
				}
				continue
			}
			kv["document"] = i + 1
			statusValues = append(statusValues, kv)
		}
		return nil
	})
}

func handleCreateResource(ctx context.Context, c *forpus.Client, payload Payload) (map[string]any, error) {
	resp, err := c.Create(ctx, payload.Resource, payload.JSON)
	if err != nil {
		return nil, err
	}
	if err := apiError(resp); err != nil {
		return nil, err
	}

	kv := map[string]any{
		"resource": string(payload.Resource),
		"created":  true,
	}
	if id := resp.Get(payload.Resource.Key() + ".id"); id.Exists() {
		kv["id"] = id.Int()
	} else if id := resp.Get("id"); id.Exists() {
		kv["id"] = id.Int()
	}
	return kv, nil
}

func printCreateStatus(statusValues []map[string]any) {
	if len(statusValues) == 0 {
		return
	}
	if jsonOutput {
		printJSON(statusValues)
		return
	}
	for _, status := range statusValues {
		if created, _ := status["created"].(bool); created {
			okLabel.Fprintf(os.Stdout, "[OK] ")
			if id, ok := status["id"]; ok {
				fmt.Fprintf(os.Stdout, "Created: %s/%v\n", status["resource"], id)
			} else {
				fmt.Fprintf(os.Stdout, "Created: %s (document %v)\n", status["resource"], status["document"])
			}
			continue
		}
		out := os.Stderr
		if ignoreErrors {
			out = os.Stdout
		}
		errorLabel.Fprintf(out, "[ERROR] ")
		fmt.Fprintf(out, "%s: document %v: %s\n", status["resource"], status["document"], status["error"])
	}
}

// init initializes the create command with its flags and adds it to the root command
func init() {
	createCmd.Flags().StringP("filename", "f", "", "Filename to use to create the resources")
	createCmd.MarkFlagRequired("filename")
	createCmd.Flags().BoolVarP(&ignoreErrors, "ignore-errors", "i", false, "Ignore errors and continue with the next document")

	rootCmd.AddCommand(createCmd)
}
