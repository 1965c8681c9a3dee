package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/deragabu/cursorstream/internal/config"
	"github.com/deragabu/cursorstream/pkg/client"
	"github.com/deragabu/cursorstream/pkg/cursor"
	"github.com/deragabu/cursorstream/pkg/sink"
)

func watchCmd() *cobra.Command {
	var (
		url         string
		outputDir   string
		configPath  string
		metricsAddr string
		dpr         float64
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Connect to an agent and save received cursor frames",
		Long: `Watch connects to a cursor stream, follows connection state and cursor
changes, and writes every visible cursor bitmap into the output
directory as cursor_<timestamp>.<ext>. The connection reconnects with
backoff until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFrom(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("url") {
				cfg.Endpoint = url
			}
			if cmd.Flags().Changed("output") {
				cfg.OutputDir = outputDir
			}
			if cmd.Flags().Changed("metrics-addr") {
				cfg.MetricsAddr = metricsAddr
			}
			if cmd.Flags().Changed("dpr") {
				cfg.DevicePixelRatio = dpr
			}
			return runWatch(cfg)
		},
	}

	cmd.Flags().StringVarP(&url, "url", "u", config.DefaultEndpoint, "WebSocket URL of the cursor stream")
	cmd.Flags().StringVarP(&outputDir, "output", "o", config.DefaultOutputDir, "Directory for received cursor frames")
	cmd.Flags().StringVarP(&configPath, "config", "c", config.ConfigFileName, "Path to the configuration file")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9100)")
	cmd.Flags().Float64Var(&dpr, "dpr", 0, "Device pixel ratio to announce to the server")

	return cmd
}

func runWatch(cfg *config.Config) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	frames, err := sink.NewDir(cfg.OutputDir)
	if err != nil {
		return err
	}

	var metrics *client.Metrics
	if cfg.MetricsAddr != "" {
		metrics = client.NewMetrics()
		r := chi.NewRouter()
		r.Handle("/metrics", promhttp.Handler())
		go func() {
			if err := http.ListenAndServe(cfg.MetricsAddr, r); err != nil {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		logger.Info("serving metrics", "addr", cfg.MetricsAddr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := client.New(client.Config{
		URL:               cfg.Endpoint,
		DevicePixelRatio:  cfg.DevicePixelRatio,
		HeartbeatTimeout:  config.Duration(cfg.HeartbeatTimeout, client.DefaultHeartbeatTimeout),
		BackoffBase:       config.Duration(cfg.Backoff.Base, client.DefaultBackoffBase),
		BackoffMax:        config.Duration(cfg.Backoff.Max, client.DefaultBackoffMax),
		BackoffResetAfter: config.Duration(cfg.Backoff.ResetAfter, client.DefaultBackoffResetAfter),
		Logger:            logger,
		Metrics:           metrics,
		Handlers: client.Handlers{
			OnSnapshot: func(snap *cursor.Snapshot) {
				switch snap.State {
				case cursor.StateVisible:
					if err := frames.Store(ctx, snap); err != nil {
						logger.Error("saving frame", "error", err)
						return
					}
					logger.Info("cursor",
						"id", snap.CursorID,
						"size", fmt.Sprintf("%dx%d", snap.Width, snap.Height),
						"hotspot", fmt.Sprintf("(%d,%d)", snap.HotspotX, snap.HotspotY),
						"bytes", len(snap.Image))
				case cursor.StateHidden:
					logger.Info("cursor hidden")
				}
			},
			OnError: func(err error) {
				logger.Warn("stream error", "error", err)
			},
		},
	})
	if err != nil {
		return err
	}

	if err := c.Start(ctx); err != nil {
		return err
	}
	logger.Info("watching cursor stream", "url", cfg.Endpoint, "output", cfg.OutputDir)

	<-ctx.Done()
	logger.Info("shutting down")
	if err := c.Stop(); err != nil {
		logger.Warn("shutdown", "error", err)
	}
	return nil
}
