package plot

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Dharun235/FitTrackAI/internal/metrics"
	"github.com/Dharun235/FitTrackAI/internal/store"
)

// Plot type names accepted by Build.
const (
	TypeDailySteps     = "daily_steps"
	TypeSleepAnalysis  = "sleep_analysis"
	TypeCaloriesBurned = "calories_burned"
	TypeDistanceWalked = "distance_walked"
	TypeFlightsClimbed = "flights_climbed"
	TypeWalkingMetrics = "walking_metrics"
	TypeCustom         = "custom"
)

// Builder fetches metric series and produces chart specs. Each shape
// function below is pure; Builder only adds the data access.
type Builder struct {
	store *store.Store
}

// NewBuilder creates a Builder over the given store.
func NewBuilder(s *store.Store) *Builder {
	return &Builder{store: s}
}

// Build produces the spec for a named plot type. For TypeCustom, table
// names the source table and opts may pin the x/y columns.
func (b *Builder) Build(ctx context.Context, plotType, table string, opts metrics.PlotOptions) (*Spec, error) {
	switch plotType {
	case TypeDailySteps:
		series, err := b.store.FetchSeries(ctx, "DailyStepCount")
		if err != nil {
			return nil, err
		}
		return Steps(series)
	case TypeSleepAnalysis:
		series, err := b.store.FetchSeries(ctx, "DailySleepSummary")
		if err != nil {
			return nil, err
		}
		return Sleep(series)
	case TypeCaloriesBurned:
		active, basal, err := b.fetchPair(ctx, "DailyActiveCalories", "DailyBasalCalories")
		if err != nil {
			return nil, err
		}
		return Calories(active, basal)
	case TypeDistanceWalked:
		series, err := b.store.FetchSeries(ctx, "DailyDistanceWalkRun")
		if err != nil {
			return nil, err
		}
		return Distance(series)
	case TypeFlightsClimbed:
		series, err := b.store.FetchSeries(ctx, "DailyFlightsClimbed")
		if err != nil {
			return nil, err
		}
		return Flights(series)
	case TypeWalkingMetrics:
		speed, steadiness, err := b.fetchPair(ctx, "DailyWalkingSpeed", "DailyWalkingSteadiness")
		if err != nil {
			return nil, err
		}
		return Walking(speed, steadiness)
	case TypeCustom:
		tbl, err := b.store.FetchTable(ctx, table, 0)
		if err != nil {
			return nil, err
		}
		return Custom(tbl, opts)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, plotType)
	}
}

// fetchPair fetches two metric tables concurrently. A missing table is
// treated as an empty series so multi-source charts degrade to the subset
// that exists.
func (b *Builder) fetchPair(ctx context.Context, first, second string) (store.Series, store.Series, error) {
	var a, c store.Series
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		a, err = b.store.FetchSeries(gCtx, first)
		return ignoreNotFound(err)
	})
	g.Go(func() error {
		var err error
		c, err = b.store.FetchSeries(gCtx, second)
		return ignoreNotFound(err)
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return a, c, nil
}

// Only absence is recoverable; storage failures propagate.
func ignoreNotFound(err error) error {
	if errors.Is(err, store.ErrTableNotFound) {
		return nil
	}
	return err
}

// Steps builds the daily-step chart: raw values plus a dashed 7-day
// moving average on the same axes.
func Steps(series store.Series) (*Spec, error) {
	if len(series) == 0 {
		return nil, ErrNoData
	}
	dates := series.Dates()
	return &Spec{
		Type:  TypeDailySteps,
		Title: "Daily Step Count",
		Traces: []Trace{
			{
				Kind: KindLine,
				Name: "Daily Steps",
				X:    dates,
				Y:    series.Values(),
				Line: &Line{Color: colorPrimary, Width: 2},
			},
			{
				Kind: KindLine,
				Name: "7-Day Average",
				X:    dates,
				Y:    metrics.MovingAverage(series, metrics.TrendWindow),
				Line: &Line{Color: colorSecondary, Width: 3, Dash: "dash"},
			},
		},
		Layout: Layout{
			Title:  "Daily Step Count with 7-Day Moving Average",
			XAxis:  "Date",
			YAxis:  "Steps",
			Height: chartHeight,
		},
	}, nil
}

// Sleep builds the sleep chart: one bar per night in hours, colored by
// quality bucket.
func Sleep(minutes store.Series) (*Spec, error) {
	if len(minutes) == 0 {
		return nil, ErrNoData
	}
	hours := metrics.SleepHours(minutes)
	colors := make([]string, len(hours))
	for i, p := range hours {
		colors[i] = qualityColors[string(metrics.QualityForHours(p.Value))]
	}
	return &Spec{
		Type:  TypeSleepAnalysis,
		Title: "Daily Sleep Duration",
		Traces: []Trace{
			{
				Kind:   KindBar,
				Name:   "Sleep Hours",
				X:      hours.Dates(),
				Y:      hours.Values(),
				Colors: colors,
			},
		},
		Layout: Layout{
			Title:  "Daily Sleep Duration with Quality Indicators",
			XAxis:  "Date",
			YAxis:  "Hours",
			Height: chartHeight,
		},
	}, nil
}

// Calories builds the calorie chart from whichever of the active and basal
// series are non-empty; when both are present, their date-joined sum is
// added as a third trace.
func Calories(active, basal store.Series) (*Spec, error) {
	if len(active) == 0 && len(basal) == 0 {
		return nil, ErrNoData
	}
	spec := &Spec{
		Type:  TypeCaloriesBurned,
		Title: "Daily Calories Burned",
		Layout: Layout{
			Title:  "Daily Calories Burned",
			XAxis:  "Date",
			YAxis:  "Calories",
			Height: chartHeight,
		},
	}
	if len(active) > 0 {
		spec.Traces = append(spec.Traces, Trace{
			Kind: KindLine,
			Name: "Active Calories",
			X:    active.Dates(),
			Y:    active.Values(),
			Line: &Line{Color: colorActive, Width: 2},
		})
	}
	if len(basal) > 0 {
		spec.Traces = append(spec.Traces, Trace{
			Kind: KindLine,
			Name: "Basal Calories",
			X:    basal.Dates(),
			Y:    basal.Values(),
			Line: &Line{Color: colorBasal, Width: 2},
		})
	}
	if len(active) > 0 && len(basal) > 0 {
		combined := metrics.CombineByDate(active, basal)
		if len(combined) > 0 {
			spec.Traces = append(spec.Traces, Trace{
				Kind: KindLine,
				Name: "Total Calories",
				X:    combined.Dates(),
				Y:    combined.Values(),
				Line: &Line{Color: colorTotal, Width: 3},
			})
		}
	}
	return spec, nil
}

// Distance builds a single line of daily distance values.
func Distance(series store.Series) (*Spec, error) {
	if len(series) == 0 {
		return nil, ErrNoData
	}
	return &Spec{
		Type:  TypeDistanceWalked,
		Title: "Daily Distance Walked/Run",
		Traces: []Trace{
			{
				Kind: KindLine,
				Name: "Daily Distance",
				X:    series.Dates(),
				Y:    series.Values(),
				Line: &Line{Color: colorPrimary, Width: 2},
			},
		},
		Layout: Layout{
			Title:  "Daily Distance Walked/Run",
			XAxis:  "Date",
			YAxis:  "Distance (km)",
			Height: chartHeight,
		},
	}, nil
}

// Flights builds a bar chart with per-bar color keyed to value intensity.
func Flights(series store.Series) (*Spec, error) {
	if len(series) == 0 {
		return nil, ErrNoData
	}
	return &Spec{
		Type:  TypeFlightsClimbed,
		Title: "Daily Flights Climbed",
		Traces: []Trace{
			{
				Kind:   KindBar,
				Name:   "Flights",
				X:      series.Dates(),
				Y:      series.Values(),
				Colors: intensityColors(series.Values()),
			},
		},
		Layout: Layout{
			Title:  "Daily Flights Climbed",
			XAxis:  "Date",
			YAxis:  "Flights",
			Height: chartHeight,
		},
	}, nil
}

// intensityColors maps each value onto the fixed 5-step ramp by its
// position between the series min and max. A flat series uses the middle
// step so the output stays deterministic.
func intensityColors(values []float64) []string {
	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	colors := make([]string, len(values))
	for i, v := range values {
		idx := 2
		if max > min {
			idx = int((v - min) / (max - min) * float64(len(intensityRamp)-1))
			if idx >= len(intensityRamp) {
				idx = len(intensityRamp) - 1
			}
		}
		colors[i] = intensityRamp[idx]
	}
	return colors
}

// Walking builds the walking-metrics chart: speed on the left axis,
// steadiness on an independent right axis.
func Walking(speed, steadiness store.Series) (*Spec, error) {
	if len(speed) == 0 && len(steadiness) == 0 {
		return nil, ErrNoData
	}
	spec := &Spec{
		Type:  TypeWalkingMetrics,
		Title: "Walking Metrics",
		Layout: Layout{
			Title:  "Walking Metrics Over Time",
			XAxis:  "Date",
			YAxis:  "Walking Speed",
			YAxis2: "Walking Steadiness",
			Height: chartHeight,
		},
	}
	if len(speed) > 0 {
		spec.Traces = append(spec.Traces, Trace{
			Kind: KindLine,
			Name: "Walking Speed",
			X:    speed.Dates(),
			Y:    speed.Values(),
			Line: &Line{Color: colorPrimary, Width: 2},
		})
	}
	if len(steadiness) > 0 {
		spec.Traces = append(spec.Traces, Trace{
			Kind:  KindLine,
			Name:  "Walking Steadiness",
			X:     steadiness.Dates(),
			Y:     steadiness.Values(),
			Line:  &Line{Color: colorSecondary, Width: 2},
			YAxis: "y2",
		})
	}
	return spec, nil
}

// Custom builds a chart for an arbitrary table using the column-selection
// rules: scatter for tables with two or more numeric columns, line
// otherwise.
func Custom(tbl *store.Table, opts metrics.PlotOptions) (*Spec, error) {
	if len(tbl.Rows) == 0 {
		return nil, ErrNoData
	}
	sel, err := metrics.SelectColumns(tbl, opts)
	if err != nil {
		return nil, err
	}

	kind := KindLine
	verb := "over"
	if sel.Scatter {
		kind = KindScatter
		verb = "vs"
	}
	title := fmt.Sprintf("%s - %s %s %s", tbl.Name, sel.Y, verb, sel.X)

	return &Spec{
		Type:  TypeCustom,
		Title: title,
		Traces: []Trace{
			{
				Kind: kind,
				Name: sel.Y,
				X:    tbl.Strings(sel.X),
				Y:    tbl.Floats(sel.Y),
			},
		},
		Layout: Layout{
			Title:  title,
			XAxis:  sel.X,
			YAxis:  sel.Y,
			Height: chartHeight,
		},
	}, nil
}
