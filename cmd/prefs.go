package main

import (
	"net/http"
	"net/url"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/lead-radar/internal/prefs"
)

var prefsPatchFile string

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Inspect and patch buyer preferences on a running server",
}

var prefsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print the resolved preferences for a buyer key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return callAPI(cmd.Context(), http.MethodGet, "/api/buyers/"+url.PathEscape(args[0])+"/preferences", nil)
	},
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <key>",
	Short: "Apply a preference patch from a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if prefsPatchFile == "" {
			return eris.New("--file is required")
		}
		var patch prefs.Patch
		if err := readJSONFile(prefsPatchFile, &patch); err != nil {
			return err
		}
		return callAPI(cmd.Context(), http.MethodPatch, "/api/buyers/"+url.PathEscape(args[0])+"/preferences", patch)
	},
}

func init() {
	prefsSetCmd.Flags().StringVar(&prefsPatchFile, "file", "", "JSON patch file")
	prefsCmd.AddCommand(prefsGetCmd, prefsSetCmd)
	rootCmd.AddCommand(prefsCmd)
}
