package metrics

import "github.com/Dharun235/FitTrackAI/internal/store"

// CombineByDate inner-joins two sorted series on date, summing the values.
// Dates present in only one input are excluded. Both inputs are assumed
// sorted ascending with unique dates, which the store guarantees.
func CombineByDate(a, b store.Series) store.Series {
	var out store.Series
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].Date.Before(b[j].Date):
			i++
		case b[j].Date.Before(a[i].Date):
			j++
		default:
			out = append(out, store.Point{Date: a[i].Date, Value: a[i].Value + b[j].Value})
			i++
			j++
		}
	}
	return out
}
