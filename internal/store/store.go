package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"time"

	_ "modernc.org/sqlite"
)

// metricColumns maps each known daily metric table to its value column.
// Unregistered tables fall back to the first numeric non-date column.
var metricColumns = map[string]string{
	"DailyStepCount":         "total_value",
	"DailySleepSummary":      "sleep_minutes",
	"DailyActiveCalories":    "total_value",
	"DailyBasalCalories":     "total_value",
	"DailyDistanceWalkRun":   "total_value",
	"DailyFlightsClimbed":    "total_value",
	"DailyWalkingSpeed":      "avg_value",
	"DailyWalkingSteadiness": "avg_value",
	"DailyWalkingAsymmetry":  "avg_value",
}

// ValueColumn returns the registered value column for a metric table.
func ValueColumn(table string) (string, bool) {
	col, ok := metricColumns[table]
	return col, ok
}

// Store provides read-only access to the pre-populated health database.
// It never writes; ingestion is owned by an external pipeline.
type Store struct {
	db *sql.DB
}

// Open opens the SQLite database at path. Pass ":memory:" for an
// in-memory database (used by tests, which seed fixtures through DB).
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: pinging database: %v", ErrUnavailable, err)
	}

	// Limit to single connection to avoid "database is locked" errors.
	db.SetMaxOpenConns(1)

	// Set busy timeout so concurrent readers wait briefly instead of failing.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: setting busy timeout: %v", ErrUnavailable, err)
	}

	return &Store{db: db}, nil
}

// DB exposes the underlying handle for test fixtures.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ListTables returns all table names in ascending name order. It fails
// closed: on any storage error it logs a warning and returns nil.
func (s *Store) ListTables(ctx context.Context) []string {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		slog.Warn("listing tables failed", "error", err)
		return nil
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			slog.Warn("scanning table name failed", "error", err)
			return nil
		}
		names = append(names, n)
	}
	if err := rows.Err(); err != nil {
		slog.Warn("listing tables failed", "error", err)
		return nil
	}
	return names
}

// tableExists resolves name against sqlite_master. Table names reach SQL by
// interpolation (identifiers cannot be placeholders), so every entry point
// validates through here first.
func (s *Store) tableExists(ctx context.Context, name string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name = ?", name).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("%w: checking table %s: %v", ErrUnavailable, name, err)
	}
	return count > 0, nil
}

// FetchSeries returns the (date, value) series for a metric table, sorted
// ascending by date. Rows with unparseable dates are skipped. Duplicate
// dates follow a last-occurrence-wins policy: the store preserves row order
// within a date, and the final row for that date is kept.
func (s *Store) FetchSeries(ctx context.Context, table string) (Series, error) {
	return s.fetchSeries(ctx, table, 0)
}

// FetchSeriesLimit returns at most limit points. Used for quick sample
// inspection, not analytics.
func (s *Store) FetchSeriesLimit(ctx context.Context, table string, limit int) (Series, error) {
	return s.fetchSeries(ctx, table, limit)
}

func (s *Store) fetchSeries(ctx context.Context, table string, limit int) (Series, error) {
	ok, err := s.tableExists(ctx, table)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}

	valueCol, registered := metricColumns[table]
	if !registered {
		t, err := s.fetchTable(ctx, table, limit)
		if err != nil {
			return nil, err
		}
		valueCol = firstNumericColumn(t)
		if valueCol == "" {
			return Series{}, nil
		}
		return seriesFromTable(t, valueCol), nil
	}

	query := fmt.Sprintf(`SELECT "date", %q FROM %q`, valueCol, table)
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying %s: %v", ErrUnavailable, table, err)
	}
	defer rows.Close()

	var series Series
	for rows.Next() {
		var date, value any
		if err := rows.Scan(&date, &value); err != nil {
			return nil, fmt.Errorf("%w: scanning %s: %v", ErrUnavailable, table, err)
		}
		d, ok := parseDate(cellString(date))
		if !ok {
			continue
		}
		v, ok := cellFloat(value)
		if !ok {
			continue
		}
		series = append(series, Point{Date: d, Value: v})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrUnavailable, table, err)
	}

	return normalize(series), nil
}

// normalize sorts ascending by date and collapses duplicate dates,
// keeping the last occurrence.
func normalize(series Series) Series {
	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})
	out := series[:0]
	for _, p := range series {
		if n := len(out); n > 0 && out[n-1].Date.Equal(p.Date) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return out
}

func seriesFromTable(t *Table, valueCol string) Series {
	dateIdx := -1
	for i, c := range t.Columns {
		if c.Kind == KindDate {
			dateIdx = i
			break
		}
	}
	if dateIdx < 0 {
		return Series{}
	}
	valIdx := t.ColumnIndex(valueCol)

	var series Series
	for _, row := range t.Rows {
		d, ok := parseDate(cellString(row[dateIdx]))
		if !ok {
			continue
		}
		v, ok := cellFloat(row[valIdx])
		if !ok {
			continue
		}
		series = append(series, Point{Date: d, Value: v})
	}
	return normalize(series)
}

func firstNumericColumn(t *Table) string {
	for _, c := range t.Columns {
		if c.Kind == KindNumeric {
			return c.Name
		}
	}
	return ""
}

// FetchTable returns up to limit rows of an arbitrary table with per-column
// kind inference. Pass limit <= 0 to fetch all rows.
func (s *Store) FetchTable(ctx context.Context, table string, limit int) (*Table, error) {
	ok, err := s.tableExists(ctx, table)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}
	return s.fetchTable(ctx, table, limit)
}

func (s *Store) fetchTable(ctx context.Context, table string, limit int) (*Table, error) {
	query := fmt.Sprintf(`SELECT * FROM %q`, table)
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying %s: %v", ErrUnavailable, table, err)
	}
	defer rows.Close()

	colNames, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: columns of %s: %v", ErrUnavailable, table, err)
	}

	var raw [][]any
	for rows.Next() {
		cells := make([]any, len(colNames))
		ptrs := make([]any, len(colNames))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("%w: scanning %s: %v", ErrUnavailable, table, err)
		}
		raw = append(raw, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrUnavailable, table, err)
	}

	t := &Table{Name: table, Columns: make([]Column, len(colNames))}
	for i, name := range colNames {
		t.Columns[i] = Column{Name: name, Kind: inferKind(name, raw, i)}
	}
	for _, cells := range raw {
		row := make([]any, len(cells))
		for i, cell := range cells {
			if t.Columns[i].Kind == KindNumeric {
				f, _ := cellFloat(cell)
				row[i] = f
			} else {
				row[i] = cellString(cell)
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// inferKind classifies a column from its scanned values: all-numeric wins,
// then all-parseable-dates, then text. Empty columns named "date" are
// still dates so schema-only inspection stays stable.
func inferKind(name string, raw [][]any, idx int) Kind {
	numeric, dates, seen := true, true, false
	for _, row := range raw {
		cell := row[idx]
		if cell == nil {
			continue
		}
		seen = true
		if _, ok := cellFloat(cell); !ok {
			numeric = false
		}
		if _, ok := parseDate(cellString(cell)); !ok {
			dates = false
		}
		if !numeric && !dates {
			return KindText
		}
	}
	if !seen {
		if name == "date" {
			return KindDate
		}
		return KindText
	}
	if numeric {
		return KindNumeric
	}
	if dates {
		return KindDate
	}
	return KindText
}

// Describe returns column names and row count for a table.
func (s *Store) Describe(ctx context.Context, table string) (TableInfo, error) {
	ok, err := s.tableExists(ctx, table)
	if err != nil {
		return TableInfo{}, err
	}
	if !ok {
		return TableInfo{}, fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%q)`, table))
	if err != nil {
		return TableInfo{}, fmt.Errorf("%w: describing %s: %v", ErrUnavailable, table, err)
	}
	defer rows.Close()

	info := TableInfo{Name: table}
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt any
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return TableInfo{}, fmt.Errorf("%w: describing %s: %v", ErrUnavailable, table, err)
		}
		info.Columns = append(info.Columns, name)
	}
	if err := rows.Err(); err != nil {
		return TableInfo{}, fmt.Errorf("%w: describing %s: %v", ErrUnavailable, table, err)
	}

	if err := s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %q`, table)).Scan(&info.RowCount); err != nil {
		return TableInfo{}, fmt.Errorf("%w: counting %s: %v", ErrUnavailable, table, err)
	}
	return info, nil
}

// Summary describes every table in the database. Tables that fail to
// describe are skipped with a warning, matching the fail-open posture of
// the summary path.
func (s *Store) Summary(ctx context.Context) (Summary, error) {
	names := s.ListTables(ctx)
	sum := Summary{TotalTables: len(names)}
	for _, name := range names {
		info, err := s.Describe(ctx, name)
		if err != nil {
			slog.Warn("describing table failed", "table", name, "error", err)
			continue
		}
		sum.Tables = append(sum.Tables, info)
	}
	return sum, nil
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func cellString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case time.Time:
		return val.Format("2006-01-02")
	default:
		return fmt.Sprintf("%v", val)
	}
}

func cellFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case int64:
		return float64(val), true
	case float64:
		return val, true
	default:
		return 0, false
	}
}
