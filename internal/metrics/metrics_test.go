package metrics

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/Dharun235/FitTrackAI/internal/store"
)

func mkSeries(values ...float64) store.Series {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := make(store.Series, len(values))
	for i, v := range values {
		s[i] = store.Point{Date: start.AddDate(0, 0, i), Value: v}
	}
	return s
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAnalyze_EmptySeries(t *testing.T) {
	_, err := Analyze(nil)
	if !errors.Is(err, ErrEmptySeries) {
		t.Errorf("Analyze(nil) err = %v, want ErrEmptySeries", err)
	}
}

func TestAnalyze_Basic(t *testing.T) {
	st, err := Analyze(mkSeries(2, 4, 6))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if st.Count != 3 || !almostEqual(st.Mean, 4) || st.Max != 6 || st.Min != 2 || st.Sum != 12 {
		t.Errorf("Stats = %+v", st)
	}
}

// TestAnalyze_ShortSeriesWindows: for N < 7 both window means use all N points,
// so the trend delta is zero.
func TestAnalyze_ShortSeriesWindows(t *testing.T) {
	st, err := Analyze(mkSeries(1, 2, 3))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !almostEqual(st.RecentMean, 2) || !almostEqual(st.EarlyMean, 2) {
		t.Errorf("window means = %v/%v, want 2/2", st.RecentMean, st.EarlyMean)
	}
	if !almostEqual(st.TrendDelta, 0) {
		t.Errorf("TrendDelta = %v, want 0", st.TrendDelta)
	}
}

// TestAnalyze_TrendWindows: for N >= 7 each window mean covers exactly 7 points.
func TestAnalyze_TrendWindows(t *testing.T) {
	// First 7 points are 100, last 7 are 200, with a spacer in between.
	values := []float64{100, 100, 100, 100, 100, 100, 100, 150, 200, 200, 200, 200, 200, 200, 200}
	st, err := Analyze(mkSeries(values...))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !almostEqual(st.EarlyMean, 100) {
		t.Errorf("EarlyMean = %v, want 100", st.EarlyMean)
	}
	if !almostEqual(st.RecentMean, 200) {
		t.Errorf("RecentMean = %v, want 200", st.RecentMean)
	}
	if !almostEqual(st.TrendDelta, 100) {
		t.Errorf("TrendDelta = %v, want 100", st.TrendDelta)
	}
}

func TestMovingAverage_LengthAndFirstElement(t *testing.T) {
	s := mkSeries(10, 20, 30, 40, 50, 60, 70, 80, 90, 100)
	ma := MovingAverage(s, 7)
	if len(ma) != len(s) {
		t.Fatalf("len(ma) = %d, want %d", len(ma), len(s))
	}
	if !almostEqual(ma[0], 10) {
		t.Errorf("ma[0] = %v, want first raw value 10", ma[0])
	}
}

func TestMovingAverage_PartialPrefix(t *testing.T) {
	s := mkSeries(1, 2, 3, 4, 5, 6, 7, 8)
	ma := MovingAverage(s, 7)

	// Index 2 averages the prefix [0..2].
	if !almostEqual(ma[2], 2) {
		t.Errorf("ma[2] = %v, want 2", ma[2])
	}
	// Index 6 is the first full window: mean(1..7) = 4.
	if !almostEqual(ma[6], 4) {
		t.Errorf("ma[6] = %v, want 4", ma[6])
	}
	// Index 7 slides the window: mean(2..8) = 5.
	if !almostEqual(ma[7], 5) {
		t.Errorf("ma[7] = %v, want 5", ma[7])
	}
}

func TestMovingAverage_Empty(t *testing.T) {
	if ma := MovingAverage(nil, 7); ma != nil {
		t.Errorf("MovingAverage(nil) = %v, want nil", ma)
	}
}

func TestScale(t *testing.T) {
	s := Scale(mkSeries(60, 120), 1.0/60.0)
	if !almostEqual(s[0].Value, 1) || !almostEqual(s[1].Value, 2) {
		t.Errorf("Scale = %v", s.Values())
	}
}
