package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/Dharun235/FitTrackAI/internal/api"
	"github.com/Dharun235/FitTrackAI/internal/assistant"
	"github.com/Dharun235/FitTrackAI/internal/config"
	"github.com/Dharun235/FitTrackAI/internal/ollama"
	"github.com/Dharun235/FitTrackAI/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the FitTrack server (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		mcpStdio, _ := cmd.Flags().GetBool("mcp")
		return runServer(mcpStdio)
	},
}

func init() {
	serveCmd.Flags().Bool("mcp", false, "also serve MCP tools on stdio")
}

func runServer(mcpStdio bool) error {
	fmt.Fprintf(os.Stderr, "fittrack version %s\n", version)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Initialize structured logging.
	logLevel := slog.LevelInfo
	if strings.EqualFold(cfg.Log.Level, "debug") {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Open the health database read-only.
	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: closing database: %v\n", err)
		}
	}()
	slog.Info("database opened", "path", cfg.Database.Path, "tables", len(st.ListTables(ctx)))

	// Detect Ollama. The assistant works without it; general health
	// questions just fall back to canned answers.
	opts := []assistant.Option{}
	if cfg.Ollama.Enabled {
		client := ollama.New(cfg.Ollama.BaseURL)
		if client.IsRunning(ctx) {
			if !client.HasModel(ctx, cfg.Ollama.Model) {
				printWarning("Ollama is running but model %q is not pulled; health questions use canned answers", cfg.Ollama.Model)
			} else {
				opts = append(opts, assistant.WithLLM(client, cfg.Ollama.Model, cfg.LLMTimeout()))
				slog.Info("ollama detected", "base_url", cfg.Ollama.BaseURL, "model", cfg.Ollama.Model)
			}
		} else {
			printWarning("Ollama not reachable at %s; health questions use canned answers", cfg.Ollama.BaseURL)
		}
	}

	a := assistant.New(st, opts...)

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: api.NewHandler(a),
	}

	// Optionally serve MCP tools on stdio in a goroutine.
	if mcpStdio {
		stdioSrv := server.NewStdioServer(api.NewMCPServer(a))
		go func() {
			if err := stdioSrv.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("MCP stdio server error", "error", err)
			}
		}()
		slog.Info("MCP server started (stdio transport)")
	}

	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(os.Stderr, "fittrack listening on %s\n", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(os.Stderr, "shutting down...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
