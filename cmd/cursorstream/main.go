package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cursorstream",
		Short: "Client tooling for the deragabu cursor stream",
		Long: `cursorstream connects to a deragabu agent's cursor stream: a persistent
WebSocket over which the agent pushes the current mouse cursor (bitmap,
hotspot, visibility) interleaved with heartbeats.

Commands:

  • watch   — connect to an agent, follow the cursor, save frames
  • replay  — serve a synthetic cursor session for local development
  • version — print build information`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		watchCmd(),
		replayCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
