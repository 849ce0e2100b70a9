package metrics

import "github.com/Dharun235/FitTrackAI/internal/store"

// Quality is the discrete sleep-duration category for one night.
type Quality string

const (
	QualityExcellent Quality = "Excellent"
	QualityGood      Quality = "Good"
	QualityFair      Quality = "Fair"
	QualityPoor      Quality = "Poor"
)

// MinutesPerHour converts stored sleep minutes to hours.
const MinutesPerHour = 60.0

// QualityForHours buckets a night by hours slept. Lower bounds are closed:
// exactly 8h is Excellent, exactly 7h is Good, exactly 6h is Fair.
func QualityForHours(hours float64) Quality {
	switch {
	case hours >= 8:
		return QualityExcellent
	case hours >= 7:
		return QualityGood
	case hours >= 6:
		return QualityFair
	default:
		return QualityPoor
	}
}

// SleepHours converts a minutes series to hours.
func SleepHours(minutes store.Series) store.Series {
	return Scale(minutes, 1.0/MinutesPerHour)
}

// QualityCounts tallies nights per quality bucket for an hours series.
func QualityCounts(hours store.Series) map[Quality]int {
	counts := make(map[Quality]int, 4)
	for _, p := range hours {
		counts[QualityForHours(p.Value)]++
	}
	return counts
}
