package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"allyshop/internal/catalog"
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List the configured product catalog",
	Long: `Displays every configured product with price and stock level.
Useful for debugging configuration issues.

Output is TSV format suitable for piping to other tools.`,
	RunE: runProducts,
}

func init() {
	rootCmd.AddCommand(productsCmd)
}

func runProducts(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	fmt.Fprintf(os.Stderr, "Config source: %s\n", GetConfigSource())
	fmt.Fprintf(os.Stderr, "Products configured: %d\n\n", len(cfg.Products))

	if len(cfg.Products) == 0 {
		fmt.Fprintln(os.Stderr, "ERROR: No products configured!")
		return nil
	}

	cat := catalog.New(cfg.Products)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK\tRATING")

	for _, p := range cat.All() {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s원\t%d\t%.1f\n",
			p.ID,
			p.Name,
			p.Category,
			catalog.FormatPrice(p.Price),
			p.Stock,
			p.Rating,
		)
	}

	w.Flush()
	return nil
}
