package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/rtop/internal/graph"
)

// graphStyle decides how each row of a graph is colored.
type graphStyle struct {
	// Solid colors every row the same. When empty, rows take a heat
	// gradient from the band they draw against warning/critical.
	solid    lipgloss.Color
	warning  float64
	critical float64
}

// renderGraph draws h into a width x height area. Rows shorter than width
// (early in a run, or after a resize) are right aligned so the newest sample
// always sits at the right edge. An inverted graph is also flipped
// vertically so it hangs from its top edge, mirroring the graph above it.
func (s Styles) renderGraph(h *History, width, height int, symbol graph.Symbol, inverted bool, gs graphStyle) []string {
	if h == nil || width <= 0 || height <= 0 {
		return nil
	}
	rows := graph.Render(h.Snapshot(), graph.Spec{
		Width:    width,
		Height:   height,
		Symbol:   symbol,
		Inverted: inverted,
	})

	if inverted {
		for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
			rows[i], rows[j] = rows[j], rows[i]
		}
	}

	out := make([]string, len(rows))
	for i, row := range rows {
		if pad := width - lipgloss.Width(row); pad > 0 {
			row = strings.Repeat(" ", pad) + row
		}
		out[i] = s.Color(s.rowColor(i, height, inverted, gs)).Render(row)
	}
	return out
}

func (s Styles) rowColor(row, height int, inverted bool, gs graphStyle) lipgloss.Color {
	if gs.solid != "" {
		return gs.solid
	}
	// Flipped graphs draw the lowest band on their first row.
	band := row
	if inverted {
		band = height - 1 - row
	}
	_, high := graph.Band(band, height)
	return s.MetricColor(high, gs.warning, gs.critical)
}

// renderMeter draws a fixed-width bar colored by value.
func (s Styles) renderMeter(value float64, width int, warning, critical float64) string {
	return s.Color(s.MetricColor(value, warning, critical)).Render(graph.TieredMeter(value, width))
}
