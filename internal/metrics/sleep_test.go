package metrics

import "testing"

// Boundary values have closed lower bounds: 8.0 -> Excellent, 7.0 -> Good,
// 6.0 -> Fair.
func TestQualityForHours_Boundaries(t *testing.T) {
	cases := []struct {
		hours float64
		want  Quality
	}{
		{9.5, QualityExcellent},
		{8.0, QualityExcellent},
		{7.9, QualityGood},
		{7.0, QualityGood},
		{6.5, QualityFair},
		{6.0, QualityFair},
		{5.99, QualityPoor},
		{0, QualityPoor},
	}
	for _, c := range cases {
		if got := QualityForHours(c.hours); got != c.want {
			t.Errorf("QualityForHours(%v) = %s, want %s", c.hours, got, c.want)
		}
	}
}

func TestSleepHours(t *testing.T) {
	hours := SleepHours(mkSeries(480, 360))
	if hours[0].Value != 8 || hours[1].Value != 6 {
		t.Errorf("SleepHours = %v, want [8 6]", hours.Values())
	}
}

func TestQualityCounts(t *testing.T) {
	counts := QualityCounts(mkSeries(8.5, 8, 7.5, 6.5, 5))
	want := map[Quality]int{
		QualityExcellent: 2,
		QualityGood:      1,
		QualityFair:      1,
		QualityPoor:      1,
	}
	for q, n := range want {
		if counts[q] != n {
			t.Errorf("counts[%s] = %d, want %d", q, counts[q], n)
		}
	}
}
