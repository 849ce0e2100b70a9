// Package plot builds declarative chart specifications from metric series.
// A Spec is independent of any rendering technology; the transport layer
// serializes it as-is.
package plot

import "errors"

// ErrNoData is returned when every source series for a chart is empty.
var ErrNoData = errors.New("no data available for chart")

// ErrUnknownType is returned for unrecognized plot type names.
var ErrUnknownType = errors.New("unknown plot type")

// TraceKind selects how a trace is rendered.
type TraceKind string

const (
	KindLine    TraceKind = "line"
	KindBar     TraceKind = "bar"
	KindScatter TraceKind = "scatter"
)

// Line carries style hints for a line trace.
type Line struct {
	Color string `json:"color,omitempty"`
	Width int    `json:"width,omitempty"`
	Dash  string `json:"dash,omitempty"`
}

// Trace is one plotted sequence. X and Y are index-aligned.
type Trace struct {
	Kind   TraceKind `json:"kind"`
	Name   string    `json:"name"`
	X      []string  `json:"x"`
	Y      []float64 `json:"y"`
	Line   *Line     `json:"line,omitempty"`
	Colors []string  `json:"colors,omitempty"` // per-point colors for bar traces
	YAxis  string    `json:"yaxis,omitempty"`  // "y2" for the right-hand axis
}

// Layout holds chart-level presentation.
type Layout struct {
	Title  string `json:"title"`
	XAxis  string `json:"xaxis_title,omitempty"`
	YAxis  string `json:"yaxis_title,omitempty"`
	YAxis2 string `json:"yaxis2_title,omitempty"`
	Height int    `json:"height"`
}

// Spec is a complete chart specification. Immutable once built.
type Spec struct {
	Type   string  `json:"type"`
	Title  string  `json:"title"`
	Traces []Trace `json:"traces"`
	Layout Layout  `json:"layout"`
}

const chartHeight = 400

// Fixed palette, carried over from the web UI theme.
const (
	colorPrimary   = "#667eea"
	colorSecondary = "#764ba2"
	colorActive    = "#ff6b6b"
	colorBasal     = "#4ecdc4"
	colorTotal     = "#45b7d1"
)

// qualityColors keys sleep bars by quality bucket.
var qualityColors = map[string]string{
	"Excellent": "#28a745",
	"Good":      "#17a2b8",
	"Fair":      "#ffc107",
	"Poor":      "#dc3545",
}

// intensityRamp is a fixed 5-step viridis-style ramp for value-intensity bars.
var intensityRamp = [5]string{"#440154", "#3b528b", "#21918c", "#5ec962", "#fde725"}
