// Package intent classifies free-text messages into assistant intents.
// Classification is a single pass over an ordered rule table; there is no
// multi-turn state.
package intent

import "strings"

// Kind is the classified purpose of a message.
type Kind int

const (
	Unknown Kind = iota
	Plot
	Analysis
	DataSummary
	MetricQuestion
	HealthQuestion
	CustomPlot
)

func (k Kind) String() string {
	switch k {
	case Plot:
		return "plot"
	case Analysis:
		return "analysis"
	case DataSummary:
		return "data_summary"
	case MetricQuestion:
		return "metric_question"
	case HealthQuestion:
		return "health_question"
	case CustomPlot:
		return "custom_plot"
	default:
		return "unknown"
	}
}

// Metric names used across the assistant.
const (
	MetricSteps    = "steps"
	MetricSleep    = "sleep"
	MetricCalories = "calories"
	MetricDistance = "distance"
	MetricFlights  = "flights"
	MetricWalking  = "walking"
)

// Intent is the classification result. Metric is set for plot/analysis/
// metric-question intents when a metric keyword matched; Table is set for
// custom-plot intents when a table name matched.
type Intent struct {
	Kind   Kind
	Metric string
	Table  string
}

type rule struct {
	kind     Kind
	keywords []string
}

// rules is evaluated in order, first match wins. The order is load-bearing:
// a message with both a visualization and an analysis keyword is a plot
// request.
var rules = []rule{
	{Plot, []string{"plot", "chart", "graph", "visualize", "show"}},
	{Analysis, []string{"analyze", "analysis", "insights", "trends", "patterns"}},
	{DataSummary, []string{"data", "table", "summary", "info", "what"}},
	{MetricQuestion, []string{"steps", "sleep", "calories", "distance", "flights"}},
	{HealthQuestion, []string{"health", "fitness", "activity", "performance"}},
	{CustomPlot, []string{"custom", "specific", "particular"}},
}

// plotMetrics resolves the target metric for plot requests, in order.
// Unmatched messages default to steps.
var plotMetrics = []struct {
	keywords []string
	metric   string
}{
	{[]string{"step"}, MetricSteps},
	{[]string{"sleep"}, MetricSleep},
	{[]string{"calorie"}, MetricCalories},
	{[]string{"distance"}, MetricDistance},
	{[]string{"flight"}, MetricFlights},
	{[]string{"walking", "speed", "steadiness"}, MetricWalking},
}

// analysisMetrics resolves the target for analysis and bare metric
// questions; walking has no text analysis, and "trend"/"pattern" alone
// routes to the cross-metric trends report (empty metric).
var analysisMetrics = []struct {
	keywords []string
	metric   string
}{
	{[]string{"step"}, MetricSteps},
	{[]string{"sleep"}, MetricSleep},
	{[]string{"calorie"}, MetricCalories},
	{[]string{"distance"}, MetricDistance},
}

// Classify examines the lowercased message against the rule table.
// tables is the full list of known table names, used only for custom-plot
// resolution; passing nil is safe.
func Classify(message string, tables []string) Intent {
	msg := strings.ToLower(message)

	for _, r := range rules {
		if !containsAny(msg, r.keywords) {
			continue
		}
		intent := Intent{Kind: r.kind}
		switch r.kind {
		case Plot:
			intent.Metric = resolvePlotMetric(msg)
		case Analysis, MetricQuestion:
			intent.Metric = resolveAnalysisMetric(msg)
		case CustomPlot:
			intent.Table = MatchTable(msg, tables)
		}
		return intent
	}
	return Intent{Kind: Unknown}
}

func containsAny(msg string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	return false
}

func resolvePlotMetric(msg string) string {
	for _, m := range plotMetrics {
		if containsAny(msg, m.keywords) {
			return m.metric
		}
	}
	return MetricSteps
}

func resolveAnalysisMetric(msg string) string {
	for _, m := range analysisMetrics {
		if containsAny(msg, m.keywords) {
			return m.metric
		}
	}
	return ""
}

// MatchTable returns the first table whose "daily"-stripped,
// underscore-to-space name appears in the lowercased message.
func MatchTable(msg string, tables []string) string {
	for _, table := range tables {
		name := strings.ToLower(table)
		name = strings.ReplaceAll(name, "daily", "")
		name = strings.ReplaceAll(name, "_", " ")
		name = strings.TrimSpace(name)
		if name != "" && strings.Contains(msg, name) {
			return table
		}
	}
	return ""
}
