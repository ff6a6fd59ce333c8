package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/lead-radar/internal/catalog"
	"github.com/sells-group/lead-radar/internal/model"
	"github.com/sells-group/lead-radar/internal/prefs"
	"github.com/sells-group/lead-radar/internal/scoring"
)

var (
	scoreBuyer       string
	scorePrefsFile   string
	scoreSignalsFile string
	scoreJSON        bool
)

var scoreCmd = &cobra.Command{
	Use:   "score <host>",
	Short: "Score one catalog host for a buyer",
	Long: `Loads the catalog, resolves the buyer's preferences, and prints the
score breakdown for one host.

Examples:
  # Score with default preferences
  lead-radar score acme-lighting.com --buyer north-nl

  # Apply a preference patch and external signals first
  lead-radar score acme-lighting.com --buyer north-nl \
    --prefs-file patch.json --signals-file signals.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		host := catalog.CanonicalHost(args[0])
		if host == "" {
			return eris.Errorf("invalid host %q", args[0])
		}

		merger := newMerger(cfg)
		listing, ok := merger.Find(cmd.Context(), host)
		if !ok {
			return eris.Errorf("host %q not in catalog", host)
		}

		prefStore := prefs.NewStore()
		if scorePrefsFile != "" {
			var patch prefs.Patch
			if err := readJSONFile(scorePrefsFile, &patch); err != nil {
				return err
			}
			if _, err := prefStore.Set(scoreBuyer, patch); err != nil {
				return err
			}
		}

		var sig *model.Signals
		if scoreSignalsFile != "" {
			sig = &model.Signals{}
			if err := readJSONFile(scoreSignalsFile, sig); err != nil {
				return err
			}
		}

		engine := scoring.NewEngine(scoring.NewProvider(thresholdsFromConfig(cfg.Scoring)))
		b := engine.Score(listing, prefStore.Get(scoreBuyer), sig)

		if scoreJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(b)
		}

		fmt.Printf("%s  total=%d (fit=%d intent=%d recency=%d)  %s\n",
			b.Host, b.Total, b.Fit, b.Intent, b.Recency, b.Classification)
		for _, reason := range b.Reasons {
			fmt.Printf("  - %s\n", reason)
		}
		return nil
	},
}

func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "read %s", path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return eris.Wrapf(err, "parse %s", path)
	}
	return nil
}

func init() {
	f := scoreCmd.Flags()
	f.StringVar(&scoreBuyer, "buyer", "default", "buyer preference key")
	f.StringVar(&scorePrefsFile, "prefs-file", "", "JSON preference patch to apply before scoring")
	f.StringVar(&scoreSignalsFile, "signals-file", "", "JSON external signals file")
	f.BoolVar(&scoreJSON, "json", false, "emit the full breakdown as JSON")
	rootCmd.AddCommand(scoreCmd)
}
