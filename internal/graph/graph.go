// Package graph turns percentage time series into terminal glyph rows.
//
// Each character cell carries two consecutive samples, each quantized to five
// levels within the value band owned by the cell's row. A graph of height H
// splits 0-100 into H equal bands, top row first. Rendering is pure: the same
// input always yields the same rows, and degenerate sizes yield empty output
// instead of an error, so the UI can call it freely during resizes.
package graph

import (
	"math"
	"strings"
)

// Spec describes the target area and glyph style of one graph.
type Spec struct {
	Width    int
	Height   int
	Symbol   Symbol
	Inverted bool
}

// Render draws data (oldest first, percentage scaled) into Height rows of at
// most Width cells. Only the newest 2*Width samples are drawn.
func Render(data []float64, spec Spec) []string {
	if spec.Height <= 0 {
		return []string{}
	}
	rows := make([]string, spec.Height)
	if spec.Width <= 0 || len(data) == 0 {
		return rows
	}

	start := 0
	if len(data) > 2*spec.Width {
		start = len(data) - 2*spec.Width
	}

	builders := make([]strings.Builder, spec.Height)
	for i := start; i < len(data); i += 2 {
		v1 := data[i]
		v2 := v1
		if i+1 < len(data) {
			v2 = data[i+1]
		}
		for h := 0; h < spec.Height; h++ {
			low, high := Band(h, spec.Height)
			builders[h].WriteString(glyph(spec.Symbol, spec.Inverted, Level(v1, low, high), Level(v2, low, high)))
		}
	}

	for h := range builders {
		rows[h] = builders[h].String()
	}
	return rows
}

// Band returns the value range [low, high] drawn by row h of a graph with the
// given height. Row 0 is the top band.
func Band(h, height int) (low, high float64) {
	if height <= 1 {
		return 0, 100
	}
	high = 100 * float64(height-h) / float64(height)
	low = 100 * float64(height-h-1) / float64(height)
	return low, high
}

// Level quantizes value to 0..4 within [low, high]. Any positive value maps to
// at least 1 so small readings stay visible.
func Level(value, low, high float64) int {
	v := clamp(value)
	floor := 0
	if v > 0 {
		floor = 1
	}

	switch {
	case v >= high:
		return 4
	case v <= low:
		return floor
	}

	idx := int(math.Round((v - low) / (high - low) * 4))
	if idx < floor {
		return floor
	}
	if idx > 4 {
		return 4
	}
	return idx
}

// clamp bounds v to [0, 100]; NaN becomes 0.
func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
