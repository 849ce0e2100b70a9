// Package api exposes the assistant over HTTP and MCP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Dharun235/FitTrackAI/internal/assistant"
	"github.com/Dharun235/FitTrackAI/internal/metrics"
)

const maxRequestBodySize = 1 << 20 // 1MB

// NewHandler returns the HTTP handler for the assistant API.
func NewHandler(a *assistant.Assistant) http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger)

	r.Get("/health", handleHealth)
	r.Post("/api/chat", handleChat(a))
	r.Post("/api/plot", handlePlot(a))
	r.Get("/api/data_summary", handleDataSummary(a))

	return r
}

type loggerKey struct{}

// requestLogger tags each request with an ID, echoes it in the
// X-Request-ID response header, and logs method, path and duration at
// debug level. The request-scoped logger is reachable from handler
// contexts via reqLogger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New().String()
		w.Header().Set("X-Request-ID", id)
		log := slog.With("request_id", id)
		r = r.WithContext(context.WithValue(r.Context(), loggerKey{}, log))

		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug("request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// reqLogger returns the request-scoped logger, or the default logger when
// the middleware did not run.
func reqLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message string `json:"message"`
}

func handleChat(a *assistant.Assistant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		resp, err := a.HandleMessage(r.Context(), req.Message)
		if err != nil {
			if errors.Is(err, assistant.ErrEmptyMessage) {
				httpError(w, http.StatusBadRequest, "invalid_request_error", "message is required")
				return
			}
			reqLogger(r.Context()).Error("handling message failed", "error", err)
			httpError(w, http.StatusInternalServerError, "api_error", "handling message: %v", err)
			return
		}

		writeJSON(w, resp)
	}
}

// PlotRequest is the body of POST /api/plot.
type PlotRequest struct {
	PlotType string `json:"plot_type"`
	Table    string `json:"table,omitempty"`
	XColumn  string `json:"x_column,omitempty"`
	YColumn  string `json:"y_column,omitempty"`
}

func handlePlot(a *assistant.Assistant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req PlotRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.PlotType == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "plot_type is required")
			return
		}

		resp, err := a.GeneratePlot(r.Context(), req.PlotType, req.Table, metrics.PlotOptions{
			XColumn: req.XColumn,
			YColumn: req.YColumn,
		})
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
			return
		}

		writeJSON(w, resp)
	}
}

func handleDataSummary(a *assistant.Assistant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sum, err := a.Summary(r.Context())
		if err != nil {
			reqLogger(r.Context()).Error("summarizing database failed", "error", err)
			httpError(w, http.StatusInternalServerError, "api_error", "summarizing database: %v", err)
			return
		}
		writeJSON(w, sum)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
