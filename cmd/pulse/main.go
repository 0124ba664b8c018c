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
		Use:   "pulse",
		Short: "Fine-grained reactive state for Go",
		Long: `Pulse is a fine-grained reactive dataflow engine.

Signals hold state, memos derive from it lazily, and effects run side
effects when their dependencies change. The pulse command ships the
supporting tooling:

  • bench — propagation latency across signal/memo graphs
  • demo  — a live counter served over WebSocket`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		benchCmd(),
		demoCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("pulse %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
