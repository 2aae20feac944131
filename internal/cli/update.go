package cli

import (
	"context"
	"fmt"

	"github.com/forpus/forpus/pkg/forpus"
	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"
)

var (
	// Update command flags
	updateID int64
)

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update RESOURCE_TYPE -f FILENAME [--id ID] [flags]",
	Short: "Update a resource from a file",
	Long: `Update a resource from a YAML or JSON file. The document is sent as is, wrapped
in the resource key when it is not already. The id of the resource is read from
<key>.id, or set with --id.

Examples:
  # Rename a security
  forpus update security -f security.yaml

  # Update the price with id 42
  forpus update price -f price.yaml --id 42`,
	Args: cobra.ExactArgs(1),
	RunE: updateResource,
}

// updateResource handles updating a resource from a file
func updateResource(cmd *cobra.Command, args []string) error {
	r, err := ParseResource(args[0])
	if err != nil {
		return err
	}

	filename, err := cmd.Flags().GetString("filename")
	if err != nil {
		return err
	}
	if filename == "" {
		return fmt.Errorf("filename is required")
	}

	payload, err := LoadPayloadFromFile(filename)
	if err != nil {
		return err
	}
	payload, err = preparePayload(r, payload, updateID)
	if err != nil {
		return err
	}

	return withClient(cmd.Context(), func(ctx context.Context, c *forpus.Client) error {
		resp, err := c.Update(ctx, r, payload)
		if err != nil {
			return err
		}
		if err := apiError(resp); err != nil {
			return err
		}
		id, _ := forpus.PayloadID(r, payload)
		if jsonOutput {
			printJSON(map[string]any{"resource": string(r), "id": id, "updated": true, "value": resp.Value})
		} else {
			okLabel.Printf("[OK] ")
			fmt.Printf("Updated: %s/%d\n", r, id)
		}
		return nil
	})
}

// preparePayload wraps the document in the resource key and sets its id when id is not zero.
func preparePayload(r forpus.Resource, payload []byte, id int64) ([]byte, error) {
	payload, err := wrapPayload(r, payload)
	if err != nil {
		return nil, err
	}
	if id != 0 {
		payload, err = sjson.SetBytes(payload, r.Key()+".id", id)
		if err != nil {
			return nil, fmt.Errorf("unable to set id: %v", err)
		}
	}
	return payload, nil
}

// init initializes the update command with its flags and adds it to the root command
func init() {
	updateCmd.Flags().StringP("filename", "f", "", "Filename holding the updated resource")
	updateCmd.MarkFlagRequired("filename")
	updateCmd.Flags().Int64Var(&updateID, "id", 0, "Id of the resource to update, overrides the id in the file")

	rootCmd.AddCommand(updateCmd)
}
