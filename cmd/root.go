package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lead-radar/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "lead-radar",
	Short: "Lead scoring over merged reseller catalogs",
	Long:  "Merges reseller listing feeds into a deduplicated catalog, resolves per-buyer preferences, scores fit and intent, and tracks lead temperature over time.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
