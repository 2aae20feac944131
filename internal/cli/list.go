package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/forpus/forpus/pkg/forpus"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list RESOURCE_TYPE [flags]",
	Short: "List resources of a specific type",
	Long: `List resources of a specific type. Supported resource types include:
  - securities (security, sec)
  - security-types (security-type, st)
  - frequencies (frequency, freq)
  - price-types (price-type, pt)
  - prices (price)
  - time-weights (time-weight, tw)
  - time-volumes (time-volume, tv)

Examples:
  # List all securities
  forpus list securities

  # List price types in JSON format
  forpus list pt -j`,
	Args: cobra.ExactArgs(1),
	RunE: listResources,
}

// listResources handles listing resources of a specific type
func listResources(cmd *cobra.Command, args []string) error {
	r, err := ParseResource(args[0])
	if err != nil {
		return err
	}

	return withClient(cmd.Context(), func(ctx context.Context, c *forpus.Client) error {
		resp, err := c.List(ctx, r)
		if err != nil {
			return err
		}
		if err := apiError(resp); err != nil {
			return err
		}
		return printResourceList(os.Stdout, r, resp)
	})
}

// init initializes the list command and adds it to the root command
func init() {
	rootCmd.AddCommand(listCmd)
}

// printResourceList formats and prints resources in either JSON or human-readable format
func printResourceList(w io.Writer, r forpus.Resource, resp *forpus.Response) error {
	if jsonOutput {
		printJSON(map[string]any{
			"result": 1,
			"value":  resp.Value,
		})
		return nil
	}
	return printResourceListHumanReadable(w, r, resp)
}

// resourceTitle renders a resource path as a heading, e.g. "Security Types".
func resourceTitle(r forpus.Resource) string {
	return cases.Title(language.English).String(strings.ReplaceAll(r.Path(), "_", " "))
}

// printResourceListHumanReadable prints one line per item: its id and a short summary
func printResourceListHumanReadable(w io.Writer, r forpus.Resource, resp *forpus.Response) error {
	fmt.Fprintf(w, "%s:\n", resourceTitle(r))

	items := gjson.ParseBytes(resp.Raw)
	if !items.IsArray() {
		// The list may come wrapped in the resource path, e.g. {"securities": [...]}
		items = resp.Get(r.Path())
	}
	if !items.IsArray() {
		fmt.Fprintf(w, "Raw response: %s\n", string(resp.Raw))
		return nil
	}

	items.ForEach(func(_, item gjson.Result) bool {
		fmt.Fprintf(w, "- %s\n", summarizeItem(item))
		return true
	})
	return nil
}

// summaryFields are tried in order to describe an item in one line.
var summaryFields = []string{"name", "symbol", "description", "date", "value"}

func summarizeItem(item gjson.Result) string {
	id := item.Get("id")
	for _, f := range summaryFields {
		if v := item.Get(f); v.Exists() {
			if id.Exists() {
				return fmt.Sprintf("%s: %s", id.String(), v.String())
			}
			return v.String()
		}
	}
	if id.Exists() {
		return id.String()
	}
	return item.Raw
}
