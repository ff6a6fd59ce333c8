package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/lead-radar/internal/model"
)

var catalogFormat string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Load and merge the configured listing sources",
	Long: `Fetches every configured source, normalizes records, and prints the
deduplicated catalog. Sources are merged in config order; the first source
to contribute a host wins.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		merger := newMerger(cfg)
		listings := merger.Load(cmd.Context())

		switch catalogFormat {
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(listings)
		default:
			printCatalogTable(listings)
			return nil
		}
	},
}

func printCatalogTable(listings []model.Listing) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "HOST\tNAME\tTIERS\tSIZE\tTAGS")
	for _, l := range listings {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			l.Host, l.Name,
			strings.Join(l.Tiers, ","),
			l.DerivedSize(),
			strings.Join(l.Tags, ","),
		)
	}
	w.Flush()
	fmt.Printf("\n%d listings\n", len(listings))
}

func init() {
	catalogCmd.Flags().StringVar(&catalogFormat, "format", "table", "output format (table|json)")
	rootCmd.AddCommand(catalogCmd)
}
