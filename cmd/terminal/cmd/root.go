package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "terminal",
	Short: "A paper/live trading terminal backend for the Kotak Neo broker",
	Long: `Terminal is the server side of a single-user trading terminal.

It provides:
  - Paper trading with simulated order execution against live prices
  - Live order routing through the broker REST API
  - A push feed consumer for quotes, market depth, and order updates
  - An HTTP API and websocket push channel for terminal clients
  - Order validation limits and a session journal`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
