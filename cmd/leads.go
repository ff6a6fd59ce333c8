package main

import (
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
)

var (
	leadsTemperature string
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Inspect and mutate lead lifecycle state on a running server",
}

var leadsSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print store-wide lead counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return callAPI(cmd.Context(), http.MethodGet, "/api/leads/summary", nil)
	},
}

var leadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List leads, optionally filtered by temperature",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "/api/leads"
		if leadsTemperature != "" {
			path += "?temperature=" + url.QueryEscape(leadsTemperature)
		}
		return callAPI(cmd.Context(), http.MethodGet, path, nil)
	},
}

var leadsPromoteCmd = &cobra.Command{
	Use:   "promote <host>",
	Short: "Promote a lead and mark it saved",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var body any
		if leadsTemperature != "" {
			body = map[string]string{"temperature": leadsTemperature}
		}
		return callAPI(cmd.Context(), http.MethodPost, "/api/leads/"+url.PathEscape(args[0])+"/promote", body)
	},
}

var leadsResetCmd = &cobra.Command{
	Use:   "reset <host>",
	Short: "Force a lead back to cold",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return callAPI(cmd.Context(), http.MethodPost, "/api/leads/"+url.PathEscape(args[0])+"/reset", nil)
	},
}

var leadsTouchCmd = &cobra.Command{
	Use:   "touch <host>",
	Short: "Reset a lead's idle clock at its current temperature",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return callAPI(cmd.Context(), http.MethodPost, "/api/leads/"+url.PathEscape(args[0])+"/touch", nil)
	},
}

func init() {
	leadsListCmd.Flags().StringVar(&leadsTemperature, "temperature", "", "filter by temperature (hot|warm|cold)")
	leadsPromoteCmd.Flags().StringVar(&leadsTemperature, "temperature", "", "target temperature (default hot)")
	leadsCmd.AddCommand(leadsSummaryCmd, leadsListCmd, leadsPromoteCmd, leadsResetCmd, leadsTouchCmd)
	rootCmd.AddCommand(leadsCmd)
}
