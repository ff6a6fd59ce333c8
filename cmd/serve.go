package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lead-radar/internal/config"
	"github.com/sells-group/lead-radar/internal/leads"
	"github.com/sells-group/lead-radar/internal/prefs"
	"github.com/sells-group/lead-radar/internal/scoring"
	"github.com/sells-group/lead-radar/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		merger := newMerger(cfg)
		prefStore := prefs.NewStore()
		engine := scoring.NewEngine(scoring.NewProvider(thresholdsFromConfig(cfg.Scoring)))
		leadStore := leads.NewStore(decayFromConfig(cfg.Lifecycle))

		// Warm the catalog before accepting traffic.
		listings := merger.Load(ctx)
		zap.L().Info("catalog warmed", zap.Int("listings", len(listings)))

		sweeper := leads.NewSweeper(leadStore, time.Duration(cfg.Lifecycle.SweepIntervalSecs)*time.Second)
		go sweeper.Run(ctx)

		handler := server.New(merger, prefStore, engine, leadStore, server.Options{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			RatePerSec:     cfg.Server.RatePerSec,
			RateBurst:      cfg.Server.RateBurst,
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: handler,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func thresholdsFromConfig(c config.ScoringConfig) scoring.Thresholds {
	return scoring.Thresholds{
		Hot: scoring.ThresholdTriple{
			MinTotal:  c.Hot.MinTotal,
			MinIntent: c.Hot.MinIntent,
			MaxDays:   c.Hot.MaxDays,
		},
		Warm: scoring.ThresholdTriple{
			MinTotal:  c.Warm.MinTotal,
			MinIntent: c.Warm.MinIntent,
			MaxDays:   c.Warm.MaxDays,
		},
	}
}

func decayFromConfig(c config.LifecycleConfig) leads.DecayConfig {
	return leads.DecayConfig{
		HotIdle:  time.Duration(c.HotIdleHours) * time.Hour,
		WarmIdle: time.Duration(c.WarmIdleHours) * time.Hour,
		ColdTTL:  time.Duration(c.ColdTTLMinutes) * time.Minute,
	}
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
