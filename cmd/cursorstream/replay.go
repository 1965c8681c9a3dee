package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/deragabu/cursorstream/pkg/replay"
)

func replayCmd() *cobra.Command {
	var (
		addr      string
		interval  time.Duration
		heartbeat time.Duration
		once      bool
	)

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Serve a synthetic cursor session for local development",
		Long: `Replay runs a local WebSocket server that streams a built-in cursor
session with heartbeats, so the watch command (or any other client) can
be exercised without a real agent. Prometheus metrics are exposed at
/metrics and a liveness probe at /healthz.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

			recording, err := replay.SampleRecording()
			if err != nil {
				return err
			}

			srv := replay.New(replay.Config{
				Recording:         recording,
				FrameInterval:     interval,
				HeartbeatInterval: heartbeat,
				Loop:              !once,
				Logger:            logger,
			})
			return srv.ListenAndServe(addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "127.0.0.1:9000", "Address to listen on")
	cmd.Flags().DurationVar(&interval, "interval", replay.DefaultFrameInterval, "Delay between recorded frames")
	cmd.Flags().DurationVar(&heartbeat, "heartbeat", 30*time.Second, "Heartbeat interval")
	cmd.Flags().BoolVar(&once, "once", false, "Play the recording a single time instead of looping")

	return cmd
}
