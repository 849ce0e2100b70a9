package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "dev"

var noColor bool

var rootCmd = &cobra.Command{
	Use:   "fittrack",
	Short: "FitTrack — chat-driven analytics over your Apple Health database",
	Long: `FitTrack answers questions about your health metrics, builds chart
specifications, and summarizes your local Apple Health database.

The serve command starts the HTTP API and an MCP server on stdio; the
other commands talk to a running server.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       version,
}

func main() {
	// A .env next to the binary may carry FITTRACK_* overrides.
	godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(configCmd)
}
