package store

import (
	"errors"
	"time"
)

// ErrTableNotFound is returned when a requested table does not exist.
var ErrTableNotFound = errors.New("table not found")

// ErrUnavailable wraps storage-level failures (unreachable file, corrupt
// schema) so callers never see raw driver errors.
var ErrUnavailable = errors.New("health data unavailable")

// Kind is the semantic type of a table column.
type Kind string

const (
	KindDate    Kind = "date"
	KindNumeric Kind = "numeric"
	KindText    Kind = "text"
)

// Point is a single dated metric value.
type Point struct {
	Date  time.Time
	Value float64
}

// Series is an ordered sequence of dated values for one metric,
// sorted ascending by date.
type Series []Point

// Values returns the raw values in series order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}

// Dates returns the ISO dates in series order.
func (s Series) Dates() []string {
	out := make([]string, len(s))
	for i, p := range s {
		out[i] = p.Date.Format("2006-01-02")
	}
	return out
}

// Column describes one table column and its inferred kind.
type Column struct {
	Name string
	Kind Kind
}

// Table is a generic fetched table: column metadata plus rows of values
// aligned with Columns. Cell values are string or float64 (NULLs become
// empty string / 0 per kind).
type Table struct {
	Name    string
	Columns []Column
	Rows    [][]any
}

// ColumnIndex returns the index of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Strings returns the column's values rendered as strings.
func (t *Table) Strings(name string) []string {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = cellString(row[idx])
	}
	return out
}

// Floats returns the column's values as float64; non-numeric cells are 0.
func (t *Table) Floats(name string) []float64 {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	out := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		if f, ok := row[idx].(float64); ok {
			out[i] = f
		}
	}
	return out
}

// TableInfo is the shape returned by Describe: column names plus row count.
type TableInfo struct {
	Name     string   `json:"name"`
	RowCount int      `json:"record_count"`
	Columns  []string `json:"columns"`
}

// Summary describes the whole database.
type Summary struct {
	TotalTables int         `json:"total_tables"`
	Tables      []TableInfo `json:"tables"`
}
