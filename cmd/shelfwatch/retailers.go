package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shelfwatch/shelfwatch/internal/cli"
)

func retailersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "retailers",
		Short: "List tracked retailers and their stats",
		RunE:  runRetailers,
	}
}

func runRetailers(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApp()
	if err != nil {
		return err
	}

	if err := a.aggregator.SyncRetailers(ctx); err != nil {
		return err
	}

	fmt.Println(cli.FormatTitle("Tracked retailers"))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tNAME\tPOSITION\tACTIVE\tPRODUCTS\tIN STOCK\tAVG PRICE\tLAST SCRAPE")
	for _, r := range a.selection.Retailers() {
		active := "no"
		if r.Active {
			active = "yes"
		}
		products, inStock, avgPrice, lastScrape := "-", "-", "-", "-"
		if st, ok := a.selection.StatsFor(r.Code); ok {
			products = fmt.Sprintf("%d", st.ProductCount)
			inStock = fmt.Sprintf("%d", st.InStockCount)
			avgPrice = fmt.Sprintf("%.2f", st.AvgPrice)
			if !st.LastScrapedAt.IsZero() {
				lastScrape = st.LastScrapedAt.Format("2006-01-02 15:04")
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Code, r.Name, r.MarketPosition, active, products, inStock, avgPrice, lastScrape)
	}
	return w.Flush()
}
