// Package metrics computes derived statistics over metric time series.
// Everything here is a pure function: inputs are ordered (date, value)
// records, outputs are freshly computed per call, nothing is cached.
package metrics

import (
	"errors"

	"github.com/Dharun235/FitTrackAI/internal/store"
)

// ErrEmptySeries is returned when a statistic is requested over zero points.
// Statistics refuse to compute rather than produce NaN.
var ErrEmptySeries = errors.New("no data points in series")

// TrendWindow is the number of points in the recent/early trend windows.
const TrendWindow = 7

// Stats holds the derived statistics for one series.
type Stats struct {
	Count      int
	Mean       float64
	Max        float64
	Min        float64
	Sum        float64
	RecentMean float64 // mean of the last min(TrendWindow, N) points
	EarlyMean  float64 // mean of the first min(TrendWindow, N) points
	TrendDelta float64 // RecentMean - EarlyMean; positive means improving
}

// Analyze computes Stats for a series. Empty series yield ErrEmptySeries.
func Analyze(s store.Series) (Stats, error) {
	if len(s) == 0 {
		return Stats{}, ErrEmptySeries
	}

	st := Stats{
		Count: len(s),
		Max:   s[0].Value,
		Min:   s[0].Value,
	}
	for _, p := range s {
		st.Sum += p.Value
		if p.Value > st.Max {
			st.Max = p.Value
		}
		if p.Value < st.Min {
			st.Min = p.Value
		}
	}
	st.Mean = st.Sum / float64(st.Count)

	w := TrendWindow
	if w > len(s) {
		w = len(s)
	}
	st.RecentMean = mean(s[len(s)-w:])
	st.EarlyMean = mean(s[:w])
	st.TrendDelta = st.RecentMean - st.EarlyMean

	return st, nil
}

func mean(s store.Series) float64 {
	var sum float64
	for _, p := range s {
		sum += p.Value
	}
	return sum / float64(len(s))
}

// MovingAverage computes the left-to-right moving average with the given
// window. The output has the same length as the input; for index i before
// the window fills, the average is taken over the prefix [0..i], so element
// 0 always equals the first raw value.
func MovingAverage(s store.Series, window int) []float64 {
	if len(s) == 0 || window <= 0 {
		return nil
	}
	out := make([]float64, len(s))
	var sum float64
	for i, p := range s {
		sum += p.Value
		n := i + 1
		if n > window {
			sum -= s[i-window].Value
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// Scale returns a copy of the series with every value multiplied by factor.
// Used to convert sleep minutes to hours.
func Scale(s store.Series, factor float64) store.Series {
	out := make(store.Series, len(s))
	for i, p := range s {
		out[i] = store.Point{Date: p.Date, Value: p.Value * factor}
	}
	return out
}
