package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dharun235/FitTrackAI/internal/config"
	"github.com/Dharun235/FitTrackAI/internal/store"
)

// --- status ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show FitTrack system status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			printError("config error: %v", err)
			return nil
		}

		serverURL := fmt.Sprintf("http://127.0.0.1:%d", cfg.Server.Port)
		client := &http.Client{Timeout: 2 * time.Second}

		resp, err := client.Get(serverURL + "/health")
		if err != nil {
			printStatus("Server", "stopped")
		} else {
			resp.Body.Close()
			if resp.StatusCode == 200 {
				printStatus("Server", "running on port %d", cfg.Server.Port)
			} else {
				printStatus("Server", "error (HTTP %d)", resp.StatusCode)
			}
		}

		ollamaResp, err := client.Get(cfg.Ollama.BaseURL + "/api/version")
		if err != nil {
			printStatus("Ollama", "not running")
		} else {
			ollamaResp.Body.Close()
			printStatus("Ollama", "running at %s", cfg.Ollama.BaseURL)
		}
		printStatus("Model", "%s", cfg.Ollama.Model)

		// Show table counts if the server is up.
		if resp != nil && resp.StatusCode == 200 {
			sumResp, err := client.Get(serverURL + "/api/data_summary")
			if err == nil {
				var sum store.Summary
				if json.NewDecoder(sumResp.Body).Decode(&sum) == nil {
					printStatus("Tables", "%d", sum.TotalTables)
				}
				sumResp.Body.Close()
			}
		}

		printStatus("Database", "%s", cfg.Database.Path)
		return nil
	},
}

// --- tables ---

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List health data tables with row counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/api/data_summary")
		if err != nil {
			return err
		}

		var sum store.Summary
		if err := decodeJSON(resp, &sum); err != nil {
			return err
		}

		if sum.TotalTables == 0 {
			fmt.Println("No tables found.")
			return nil
		}

		for _, tbl := range sum.Tables {
			fmt.Printf("%s  %d records\n", colorize(colorBold, tbl.Name), tbl.RowCount)
			fmt.Printf("  %s\n", strings.Join(tbl.Columns, ", "))
		}
		return nil
	},
}

// --- ask ---

var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Ask the assistant a question",
	Long: `Ask the assistant a question about your health data.

Examples:
  fittrack ask "analyze my sleep patterns"
  fittrack ask "show me my steps"
  fittrack ask --json "plot my calories"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		message := strings.Join(args, " ")
		asJSON, _ := cmd.Flags().GetBool("json")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/api/chat", map[string]string{"message": message})
		if err != nil {
			return err
		}

		var result struct {
			Text string          `json:"text"`
			Kind string          `json:"kind"`
			Plot json.RawMessage `json:"plot,omitempty"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		fmt.Println(result.Text)
		if result.Kind == "plot" && len(result.Plot) > 0 {
			fmt.Println()
			fmt.Println(colorize(colorCyan, "(chart spec attached; rerun with --json to see it)"))
		}
		return nil
	},
}

func init() {
	askCmd.Flags().Bool("json", false, "print the full response as JSON")
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		for _, info := range config.ShowAll(cfg) {
			fmt.Printf("%s = %s\n", colorize(colorBold, info.Key), info.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := config.SetKey(key, value); err != nil {
			return fmt.Errorf("%w (valid keys: %s)", err, strings.Join(config.ValidKeys(), ", "))
		}
		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
