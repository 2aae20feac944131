package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/forpus/forpus/pkg/forpus"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete RESOURCE_TYPE/ID [flags]",
	Short: "Delete a resource by type and id",
	Long: `Delete a resource by type and id. The format is RESOURCE_TYPE/ID.

Examples:
  # Delete a security
  forpus delete security/12

  # Delete a time volume
  forpus delete tv/3`,
	Args: cobra.ExactArgs(1),
	RunE: deleteResource,
}

// parseResourceRef splits RESOURCE_TYPE/ID into its resource and id.
func parseResourceRef(ref string) (forpus.Resource, int64, error) {
	parts := strings.SplitN(ref, "/", 2)
	if len(parts) != 2 {
		return "", 0, fmt.Errorf("invalid resource format. Expected <resourceType>/<id>")
	}
	r, err := ParseResource(parts[0])
	if err != nil {
		return "", 0, err
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || id <= 0 {
		return "", 0, fmt.Errorf("invalid id: %s", parts[1])
	}
	return r, id, nil
}

// deleteResource handles the deletion of a resource by type and id
func deleteResource(cmd *cobra.Command, args []string) error {
	r, id, err := parseResourceRef(args[0])
	if err != nil {
		return err
	}

	return withClient(cmd.Context(), func(ctx context.Context, c *forpus.Client) error {
		resp, err := c.Remove(ctx, r, id)
		if err != nil {
			return err
		}
		if err := apiError(resp); err != nil {
			return err
		}
		if jsonOutput {
			printJSON(map[string]any{"resource": string(r), "id": id, "deleted": true})
		} else {
			fmt.Printf("Successfully deleted %s/%d\n", r, id)
		}
		return nil
	})
}

// init adds the delete command to the root command
func init() {
	rootCmd.AddCommand(deleteCmd)
}
