package graph

import "strings"

const (
	meterFull  = "■"
	meterHalf  = "▪"
	meterEmpty = "░"
)

// Meter renders a single-row bar of width cells with only filled cells.
func Meter(value float64, width int) string {
	if width <= 0 {
		return ""
	}
	return strings.Repeat(meterFull, filled(value, width))
}

// SegmentedMeter renders a bar that pads the unfilled part with empty cells,
// so the result is always width cells wide.
func SegmentedMeter(value float64, width int) string {
	if width <= 0 {
		return ""
	}
	n := filled(value, width)
	return strings.Repeat(meterFull, n) + strings.Repeat(meterEmpty, width-n)
}

// TieredMeter is like SegmentedMeter but spends one half cell on the
// remainder when at least half a cell is left over.
func TieredMeter(value float64, width int) string {
	if width <= 0 {
		return ""
	}
	exact := float64(width) * clamp(value) / 100
	n := int(exact)
	var b strings.Builder
	b.WriteString(strings.Repeat(meterFull, n))
	if n < width && exact-float64(n) >= 0.5 {
		b.WriteString(meterHalf)
		n++
	}
	b.WriteString(strings.Repeat(meterEmpty, width-n))
	return b.String()
}

func filled(value float64, width int) int {
	n := int(float64(width) * clamp(value) / 100)
	if n > width {
		return width
	}
	return n
}
