package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Dharun235/FitTrackAI/internal/assistant"
	"github.com/Dharun235/FitTrackAI/internal/metrics"
)

// NewMCPServer creates an MCP server exposing the assistant's tools.
func NewMCPServer(a *assistant.Assistant) *server.MCPServer {
	s := server.NewMCPServer(
		"fittrack",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions("FitTrack — analytics over a local Apple Health database: metric analysis, chart specs, and data summaries."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("list_tables",
			mcp.WithDescription("List the metric tables available in the health database."),
		),
		mcpListTables(a),
	)

	s.AddTool(
		mcp.NewTool("analyze_metric",
			mcp.WithDescription("Produce a text analysis report for one metric. Leave metric empty for the cross-metric trends report."),
			mcp.WithString("metric", mcp.Description("One of: steps, sleep, calories, distance")),
		),
		mcpAnalyzeMetric(a),
	)

	s.AddTool(
		mcp.NewTool("generate_plot",
			mcp.WithDescription("Build a chart specification for a named plot type."),
			mcp.WithString("plot_type", mcp.Description("One of: daily_steps, sleep_analysis, calories_burned, distance_walked, flights_climbed, walking_metrics, custom"), mcp.Required()),
			mcp.WithString("table", mcp.Description("Source table, required for custom plots")),
			mcp.WithString("x_column", mcp.Description("X column for custom plots")),
			mcp.WithString("y_column", mcp.Description("Y column for custom plots")),
		),
		mcpGeneratePlot(a),
	)

	s.AddTool(
		mcp.NewTool("data_summary",
			mcp.WithDescription("Summarize every table in the health database: names, row counts, columns."),
		),
		mcpDataSummary(a),
	)

	return s
}

func mcpListTables(a *assistant.Assistant) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tables := a.Tables(ctx)
		if tables == nil {
			tables = []string{}
		}
		b, err := json.Marshal(tables)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal tables: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpAnalyzeMetric(a *assistant.Assistant) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		metric := req.GetString("metric", "")
		resp := a.AnalyzeMetric(ctx, metric)
		if resp.Err != "" {
			return mcpError(resp.Text), nil
		}
		return mcpText(resp.Text), nil
	}
}

func mcpGeneratePlot(a *assistant.Assistant) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		plotType, err := req.RequireString("plot_type")
		if err != nil {
			return mcpError("plot_type is required"), nil
		}
		table := req.GetString("table", "")
		opts := metrics.PlotOptions{
			XColumn: req.GetString("x_column", ""),
			YColumn: req.GetString("y_column", ""),
		}

		resp, err := a.GeneratePlot(ctx, plotType, table, opts)
		if err != nil {
			return mcpError(err.Error()), nil
		}
		if resp.Plot == nil {
			return mcpError(resp.Text), nil
		}
		b, err := json.Marshal(resp.Plot)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal plot: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpDataSummary(a *assistant.Assistant) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sum, err := a.Summary(ctx)
		if err != nil {
			return mcpError(fmt.Sprintf("summarizing database: %v", err)), nil
		}
		b, err := json.Marshal(sum)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal summary: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
