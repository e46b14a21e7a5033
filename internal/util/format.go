package util

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Bytes formats a byte count with binary units ("1.5 GiB").
func Bytes(n uint64) string {
	return humanize.IBytes(n)
}

// Rate formats a bytes-per-second value ("12 MiB/s").
func Rate(bytesPerSec float64) string {
	if bytesPerSec < 0 || math.IsNaN(bytesPerSec) {
		bytesPerSec = 0
	}
	return humanize.IBytes(uint64(bytesPerSec)) + "/s"
}

// ParseBytes parses a human byte size such as "1 MiB" or "500kB".
func ParseBytes(s string) (uint64, error) {
	return humanize.ParseBytes(s)
}

// Percent formats a percentage with one decimal.
func Percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// Count formats an integer with thousands separators.
func Count(n int64) string {
	return humanize.Comma(n)
}

// Uptime renders a duration as "3d 4h 12m", dropping leading zero units.
func Uptime(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	total := int64(d.Minutes())
	days := total / (24 * 60)
	hours := (total / 60) % 24
	mins := total % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if days > 0 || hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	parts = append(parts, fmt.Sprintf("%dm", mins))
	return strings.Join(parts, " ")
}
