package metrics

import (
	"testing"
	"time"

	"github.com/Dharun235/FitTrackAI/internal/store"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestCombineByDate(t *testing.T) {
	active := store.Series{
		{Date: day(1), Value: 300},
		{Date: day(2), Value: 250},
	}
	basal := store.Series{
		{Date: day(1), Value: 1500},
		{Date: day(2), Value: 1480},
	}

	combined := CombineByDate(active, basal)
	if len(combined) != 2 {
		t.Fatalf("len(combined) = %d, want 2", len(combined))
	}
	if combined[0].Value != 1800 || combined[1].Value != 1730 {
		t.Errorf("combined values = %v, want [1800 1730]", combined.Values())
	}
}

// Dates present in only one series are excluded from the join.
func TestCombineByDate_PartialOverlap(t *testing.T) {
	a := store.Series{
		{Date: day(1), Value: 10},
		{Date: day(2), Value: 20},
		{Date: day(4), Value: 40},
	}
	b := store.Series{
		{Date: day(2), Value: 2},
		{Date: day(3), Value: 3},
		{Date: day(4), Value: 4},
	}

	combined := CombineByDate(a, b)
	if len(combined) != 2 {
		t.Fatalf("len(combined) = %d, want 2", len(combined))
	}
	if !combined[0].Date.Equal(day(2)) || combined[0].Value != 22 {
		t.Errorf("combined[0] = %+v, want day 2 value 22", combined[0])
	}
	if !combined[1].Date.Equal(day(4)) || combined[1].Value != 44 {
		t.Errorf("combined[1] = %+v, want day 4 value 44", combined[1])
	}
}

func TestCombineByDate_Disjoint(t *testing.T) {
	a := store.Series{{Date: day(1), Value: 1}}
	b := store.Series{{Date: day(2), Value: 2}}
	if combined := CombineByDate(a, b); len(combined) != 0 {
		t.Errorf("disjoint combine = %v, want empty", combined)
	}
}
