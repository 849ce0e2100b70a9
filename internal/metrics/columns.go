package metrics

import (
	"errors"
	"fmt"

	"github.com/Dharun235/FitTrackAI/internal/store"
)

// ErrNoNumericData is returned when a table has no numeric column to plot.
var ErrNoNumericData = errors.New("no numeric columns found for plotting")

// ErrColumnNotFound is returned when an explicitly requested column does
// not exist in the table.
var ErrColumnNotFound = errors.New("column not found in table")

// PlotOptions carries explicit column choices for custom-table plots.
// Empty fields fall back to the defaulting rules in SelectColumns.
type PlotOptions struct {
	XColumn string
	YColumn string
}

// Selection is the resolved x/y column pair and chart kind for a table.
type Selection struct {
	X       string
	Y       string
	Scatter bool // scatter when the table has two or more numeric columns
}

// SelectColumns resolves which columns of an arbitrary table to plot.
// Explicit options win; otherwise x defaults to the table's first column
// and y to its first numeric column. Tables with at least two numeric
// columns default to a scatter, everything else to a line over x.
func SelectColumns(t *store.Table, opts PlotOptions) (Selection, error) {
	var numeric []string
	for _, c := range t.Columns {
		if c.Kind == store.KindNumeric {
			numeric = append(numeric, c.Name)
		}
	}
	if len(numeric) == 0 {
		return Selection{}, ErrNoNumericData
	}

	sel := Selection{
		X:       t.Columns[0].Name,
		Y:       numeric[0],
		Scatter: len(numeric) >= 2,
	}
	if opts.XColumn != "" {
		if !hasColumn(t, opts.XColumn) {
			return Selection{}, fmt.Errorf("x column %q: %w", opts.XColumn, ErrColumnNotFound)
		}
		sel.X = opts.XColumn
	}
	if opts.YColumn != "" {
		if !hasColumn(t, opts.YColumn) {
			return Selection{}, fmt.Errorf("y column %q: %w", opts.YColumn, ErrColumnNotFound)
		}
		sel.Y = opts.YColumn
	}
	return sel, nil
}

func hasColumn(t *store.Table, name string) bool {
	for _, c := range t.Columns {
		if c.Name == name {
			return true
		}
	}
	return false
}
