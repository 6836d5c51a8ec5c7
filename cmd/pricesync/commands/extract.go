package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/maltedev/fba-price-sync/internal/app"
	"github.com/maltedev/fba-price-sync/internal/condition"
	"github.com/maltedev/fba-price-sync/internal/parser"
	"github.com/spf13/cobra"
)

var extractURL string

func init() {
	extractCmd.Flags().StringVar(&extractURL, "url", "", "URL the page was saved from, used in error messages.")
	rootCmd.AddCommand(extractCmd)
}

var extractCmd = &cobra.Command{
	Use:   "extract <offer-page.html>",
	Short: "Prints the fulfilled offers found in a saved offer-listing page.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		html, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		url := extractURL
		if url == "" {
			url = "file://" + args[0]
		}

		src, err := parser.NewHTMLSource(url, string(html), app.OfferSelectors(cfg))
		if err != nil {
			return err
		}

		offers, err := parser.Extract(src)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "#\tPRICE\tCONDITION\tINDEX")
		for i, offer := range offers {
			index := "?"
			if idx, err := condition.MapToIndex(offer.Condition); err == nil {
				index = fmt.Sprint(int(idx))
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i, offer.Price, offer.Condition, index)
		}
		return w.Flush()
	},
}
