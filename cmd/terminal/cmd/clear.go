package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Reset paper trading data on a running terminal",
	Long: `Clear all paper orders, positions, and holdings on a running
terminal server through its API.

Example:
  terminal clear --addr http://localhost:8000`,
	RunE: runClear,
}

var clearAddr string

func init() {
	rootCmd.AddCommand(clearCmd)
	clearCmd.Flags().StringVar(&clearAddr, "addr", "http://localhost:8000", "terminal server address")
}

func runClear(cmd *cobra.Command, args []string) error {
	resp, err := http.Post(clearAddr+"/api/paper/clear", "application/json", nil)
	if err != nil {
		return fmt.Errorf("clear paper data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("clear paper data: server answered %s", resp.Status)
	}
	fmt.Println("Paper trading data cleared")
	return nil
}
