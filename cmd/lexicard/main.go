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
		Use:   "lexicard",
		Short: "Client toolkit for the sentence-building card game",
		Long: `Lexicard is the network client for the sentence-building card game.

It speaks the gateway wire protocol (length-prefixed binary envelopes)
and provides:

  • connect    — log in, join the gateway, and stream game events
  • serve-mock — run an in-memory login service and gateway
  • version    — print build information`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		connectCmd(),
		serveMockCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
