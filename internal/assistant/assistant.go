// Package assistant routes chat messages through intent classification to
// the store, metrics, composer and plot packages, and optionally to a local
// LLM for open-ended health questions.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Dharun235/FitTrackAI/internal/composer"
	"github.com/Dharun235/FitTrackAI/internal/intent"
	"github.com/Dharun235/FitTrackAI/internal/metrics"
	"github.com/Dharun235/FitTrackAI/internal/ollama"
	"github.com/Dharun235/FitTrackAI/internal/plot"
	"github.com/Dharun235/FitTrackAI/internal/store"
)

// ErrEmptyMessage is returned for blank chat messages.
var ErrEmptyMessage = errors.New("message is empty")

// Response kinds.
const (
	KindText = "text"
	KindPlot = "plot"
)

// Response is the envelope returned for every handled message. Kind tells
// the client whether Plot is populated. Err carries the underlying failure
// for requests that degraded to a friendly text answer.
type Response struct {
	Text string     `json:"text"`
	Kind string     `json:"kind"`
	Plot *plot.Spec `json:"plot,omitempty"`
	Err  string     `json:"error,omitempty"`
}

// Chatter is the LLM surface the assistant needs. *ollama.Client satisfies
// it; tests substitute a mock.
type Chatter interface {
	Chat(ctx context.Context, model string, messages []ollama.Message) (string, error)
}

// Assistant answers health-data questions over a read-only store.
type Assistant struct {
	store   *store.Store
	plots   *plot.Builder
	llm     Chatter
	model   string
	timeout time.Duration
	rng     *rand.Rand
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithLLM enables LLM answers for general health questions. The timeout
// bounds each chat call; on error or timeout the assistant falls back to
// the canned answer pool.
func WithLLM(c Chatter, model string, timeout time.Duration) Option {
	return func(a *Assistant) {
		a.llm = c
		a.model = model
		a.timeout = timeout
	}
}

// WithRand pins the random source used for canned health answers.
func WithRand(rng *rand.Rand) Option {
	return func(a *Assistant) {
		a.rng = rng
	}
}

// New creates an Assistant over the given store.
func New(s *store.Store, opts ...Option) *Assistant {
	a := &Assistant{
		store:   s,
		plots:   plot.NewBuilder(s),
		timeout: 15 * time.Second,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// HandleMessage classifies a message and produces the response. The only
// hard error is ErrEmptyMessage; data-availability failures degrade to a
// friendly text response with Err set.
func (a *Assistant) HandleMessage(ctx context.Context, message string) (Response, error) {
	if strings.TrimSpace(message) == "" {
		return Response{}, ErrEmptyMessage
	}

	it := intent.Classify(message, a.store.ListTables(ctx))

	switch it.Kind {
	case intent.Plot:
		return a.metricPlot(ctx, it.Metric), nil
	case intent.Analysis:
		return a.analysis(ctx, it.Metric), nil
	case intent.DataSummary:
		return a.dataSummary(ctx), nil
	case intent.MetricQuestion:
		if it.Metric == "" {
			return textResponse(composer.MetricMenu()), nil
		}
		return a.analysis(ctx, it.Metric), nil
	case intent.HealthQuestion:
		return a.healthQuestion(ctx, message), nil
	case intent.CustomPlot:
		if it.Table == "" {
			return textResponse(composer.CustomPlotHint()), nil
		}
		return a.customPlot(ctx, it.Table), nil
	default:
		return textResponse(composer.HelpText()), nil
	}
}

// GeneratePlot builds a named plot directly, bypassing classification.
// Used by the plot endpoint and the MCP generate_plot tool.
func (a *Assistant) GeneratePlot(ctx context.Context, plotType, table string, opts metrics.PlotOptions) (Response, error) {
	spec, err := a.plots.Build(ctx, plotType, table, opts)
	if err != nil {
		if errors.Is(err, plot.ErrUnknownType) {
			return Response{}, err
		}
		return errorResponse(err), nil
	}
	return plotResponse(spec, fmt.Sprintf("Here's your %s chart!", spec.Title)), nil
}

// AnalyzeMetric produces the text analysis for a named metric, bypassing
// classification. An empty metric yields the cross-metric trends report.
func (a *Assistant) AnalyzeMetric(ctx context.Context, metric string) Response {
	return a.analysis(ctx, metric)
}

// Summary exposes the database overview for the summary endpoint and tools.
func (a *Assistant) Summary(ctx context.Context) (store.Summary, error) {
	return a.store.Summary(ctx)
}

// Tables lists the known table names.
func (a *Assistant) Tables(ctx context.Context) []string {
	return a.store.ListTables(ctx)
}

var plotTypeByMetric = map[string]string{
	intent.MetricSteps:    plot.TypeDailySteps,
	intent.MetricSleep:    plot.TypeSleepAnalysis,
	intent.MetricCalories: plot.TypeCaloriesBurned,
	intent.MetricDistance: plot.TypeDistanceWalked,
	intent.MetricFlights:  plot.TypeFlightsClimbed,
	intent.MetricWalking:  plot.TypeWalkingMetrics,
}

var plotCaptions = map[string]string{
	intent.MetricSteps:    "Here's your daily step count with a 7-day moving average!",
	intent.MetricSleep:    "Here's your sleep duration, color-coded by quality!",
	intent.MetricCalories: "Here's your calorie burn breakdown!",
	intent.MetricDistance: "Here's your daily walking and running distance!",
	intent.MetricFlights:  "Here's your flights climbed, shaded by intensity!",
	intent.MetricWalking:  "Here are your walking speed and steadiness trends!",
}

func (a *Assistant) metricPlot(ctx context.Context, metric string) Response {
	spec, err := a.plots.Build(ctx, plotTypeByMetric[metric], "", metrics.PlotOptions{})
	if err != nil {
		return errorResponse(err)
	}
	return plotResponse(spec, plotCaptions[metric])
}

func (a *Assistant) customPlot(ctx context.Context, table string) Response {
	spec, err := a.plots.Build(ctx, plot.TypeCustom, table, metrics.PlotOptions{})
	if err != nil {
		return errorResponse(err)
	}
	return plotResponse(spec, fmt.Sprintf("Here's a custom plot of your %s data!", table))
}

func (a *Assistant) analysis(ctx context.Context, metric string) Response {
	switch metric {
	case intent.MetricSteps:
		st, err := a.seriesStats(ctx, "DailyStepCount")
		if err != nil {
			return errorResponse(err)
		}
		if st == nil {
			return noDataResponse()
		}
		return textResponse(composer.StepsReport(*st))

	case intent.MetricSleep:
		series, err := a.store.FetchSeries(ctx, "DailySleepSummary")
		if err != nil {
			return errorResponse(err)
		}
		hours := metrics.SleepHours(series)
		st, err := metrics.Analyze(hours)
		if err != nil {
			return noDataResponse()
		}
		return textResponse(composer.SleepReport(st, metrics.QualityCounts(hours)))

	case intent.MetricCalories:
		active, err := a.seriesStats(ctx, "DailyActiveCalories")
		if err != nil {
			return errorResponse(err)
		}
		basal, err := a.seriesStats(ctx, "DailyBasalCalories")
		if err != nil {
			return errorResponse(err)
		}
		if active == nil && basal == nil {
			return noDataResponse()
		}
		return textResponse(composer.CaloriesReport(active, basal))

	case intent.MetricDistance:
		st, err := a.seriesStats(ctx, "DailyDistanceWalkRun")
		if err != nil {
			return errorResponse(err)
		}
		if st == nil {
			return noDataResponse()
		}
		return textResponse(composer.DistanceReport(*st))

	default:
		return a.generalTrends(ctx)
	}
}

// generalTrends builds the cross-metric trends report from whichever of
// steps, sleep and active calories have data. The three tables are fetched
// concurrently; each goroutine writes its own slot.
func (a *Assistant) generalTrends(ctx context.Context) Response {
	var steps, sleep, active *metrics.Stats

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		steps, err = a.seriesStats(gCtx, "DailyStepCount")
		return err
	})
	g.Go(func() error {
		series, err := a.store.FetchSeries(gCtx, "DailySleepSummary")
		if err != nil {
			if errors.Is(err, store.ErrTableNotFound) {
				return nil
			}
			return err
		}
		if st, err := metrics.Analyze(metrics.SleepHours(series)); err == nil {
			sleep = &st
		}
		return nil
	})
	g.Go(func() error {
		var err error
		active, err = a.seriesStats(gCtx, "DailyActiveCalories")
		return err
	})
	if err := g.Wait(); err != nil {
		return errorResponse(err)
	}

	var lines []composer.TrendLine
	if steps != nil {
		lines = append(lines, composer.TrendLine{
			Label: "Steps", Recent: steps.RecentMean, Early: steps.EarlyMean, Digits: 0,
		})
	}
	if sleep != nil {
		lines = append(lines, composer.TrendLine{
			Label: "Sleep", Recent: sleep.RecentMean, Early: sleep.EarlyMean, Unit: "h", Digits: 1,
		})
	}
	if active != nil {
		lines = append(lines, composer.TrendLine{
			Label: "Active Calories", Recent: active.RecentMean, Early: active.EarlyMean, Digits: 0,
		})
	}

	if len(lines) == 0 {
		return noDataResponse()
	}
	return textResponse(composer.TrendsReport(lines))
}

func (a *Assistant) dataSummary(ctx context.Context) Response {
	sum, err := a.store.Summary(ctx)
	if err != nil {
		return errorResponse(err)
	}
	if sum.TotalTables == 0 {
		return noDataResponse()
	}
	return textResponse(composer.SummaryReport(sum))
}

// healthQuestion answers open-ended questions with the LLM when one is
// configured, falling back to the canned pool on any failure.
func (a *Assistant) healthQuestion(ctx context.Context, message string) Response {
	if a.llm == nil {
		return textResponse(composer.HealthAnswer(a.rng))
	}

	llmCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	system := "You are a friendly health data assistant. Answer briefly and concretely."
	if sum, err := a.store.Summary(llmCtx); err == nil && sum.TotalTables > 0 {
		system += "\n\nThe user's database contains:\n" + composer.SummaryReport(sum)
	}

	text, err := a.llm.Chat(llmCtx, a.model, []ollama.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: message},
	})
	if err != nil || strings.TrimSpace(text) == "" {
		slog.Warn("llm answer unavailable, using canned response", "error", err)
		return textResponse(composer.HealthAnswer(a.rng))
	}
	return textResponse(text)
}

// seriesStats fetches a table and analyzes it. A missing table or empty
// series yields (nil, nil) so callers can degrade per-metric.
func (a *Assistant) seriesStats(ctx context.Context, table string) (*metrics.Stats, error) {
	series, err := a.store.FetchSeries(ctx, table)
	if err != nil {
		if errors.Is(err, store.ErrTableNotFound) {
			return nil, nil
		}
		return nil, err
	}
	st, err := metrics.Analyze(series)
	if err != nil {
		return nil, nil
	}
	return &st, nil
}

func textResponse(text string) Response {
	return Response{Text: text, Kind: KindText}
}

func plotResponse(spec *plot.Spec, caption string) Response {
	return Response{Text: caption, Kind: KindPlot, Plot: spec}
}

func noDataResponse() Response {
	return Response{
		Text: "I don't have enough data for that yet. Try asking for a data summary to see what's available!",
		Kind: KindText,
	}
}

func errorResponse(err error) Response {
	text := "Sorry, I couldn't access your health data right now. Please try again."
	switch {
	case errors.Is(err, store.ErrTableNotFound):
		text = "I don't have that data in your health database. Ask for a data summary to see what's available!"
	case errors.Is(err, metrics.ErrColumnNotFound):
		text = "That table doesn't have the column you asked for. Ask for a data summary to see its columns!"
	case errors.Is(err, plot.ErrNoData), errors.Is(err, metrics.ErrEmptySeries), errors.Is(err, metrics.ErrNoNumericData):
		text = "I don't have enough data for that yet. Try asking for a data summary to see what's available!"
	}
	return Response{Text: text, Kind: KindText, Err: err.Error()}
}
