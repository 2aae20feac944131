package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/forpus/forpus/pkg/forpus"
	"github.com/spf13/cobra"
)

var (
	// Prices command flags
	pricesSecurity  int64
	pricesPriceType int64
	pricesFrom      string
	pricesTo        string
	pricesLimit     int
	pricesOrder     string
)

// pricesCmd represents the prices command
var pricesCmd = &cobra.Command{
	Use:   "prices --security ID --price-type ID [flags]",
	Short: "Query prices of a security",
	Long: `Query prices of a security and price type. Dates use the yyyy-mm-dd format.
Unset options are left to the server, which returns up to 1000 prices in
descending date order.

Examples:
  # Last 10 prices of security 1 with price type 2
  forpus prices --security 1 --price-type 2 --limit 10

  # Prices of January 2017, oldest first
  forpus prices --security 1 --price-type 2 --from 2017-01-01 --to 2017-01-31 --order asc`,
	Args: cobra.NoArgs,
	RunE: queryPrices,
}

// priceFilterFromFlags builds the filter from the command line flags.
func priceFilterFromFlags() (forpus.PriceFilter, error) {
	f := forpus.PriceFilter{
		SecurityID:  pricesSecurity,
		PriceTypeID: pricesPriceType,
		Limit:       pricesLimit,
		Order:       pricesOrder,
	}
	var err error
	if pricesFrom != "" {
		if f.StartDate, err = time.Parse(forpus.DateLayout, pricesFrom); err != nil {
			return f, fmt.Errorf("invalid --from date %q, expected yyyy-mm-dd", pricesFrom)
		}
	}
	if pricesTo != "" {
		if f.EndDate, err = time.Parse(forpus.DateLayout, pricesTo); err != nil {
			return f, fmt.Errorf("invalid --to date %q, expected yyyy-mm-dd", pricesTo)
		}
	}
	return f, nil
}

// queryPrices handles the prices command
func queryPrices(cmd *cobra.Command, args []string) error {
	f, err := priceFilterFromFlags()
	if err != nil {
		return err
	}

	return withClient(cmd.Context(), func(ctx context.Context, c *forpus.Client) error {
		resp, err := c.FilterPrices(ctx, f)
		if err != nil {
			return err
		}
		if err := apiError(resp); err != nil {
			return err
		}
		return printResourceList(os.Stdout, forpus.Prices, resp)
	})
}

// init initializes the prices command with its flags and adds it to the root command
func init() {
	pricesCmd.Flags().Int64Var(&pricesSecurity, "security", 0, "Security id")
	pricesCmd.Flags().Int64Var(&pricesPriceType, "price-type", 0, "Price type id")
	pricesCmd.Flags().StringVar(&pricesFrom, "from", "", "First date (yyyy-mm-dd)")
	pricesCmd.Flags().StringVar(&pricesTo, "to", "", "Last date (yyyy-mm-dd)")
	pricesCmd.Flags().IntVar(&pricesLimit, "limit", 0, "Maximum number of prices")
	pricesCmd.Flags().StringVar(&pricesOrder, "order", "", "Date order, asc or desc")
	pricesCmd.MarkFlagRequired("security")
	pricesCmd.MarkFlagRequired("price-type")

	rootCmd.AddCommand(pricesCmd)
}
