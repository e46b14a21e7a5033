package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPluralize(t *testing.T) {
	assert.Equal(t, "cores", Pluralize(0, "core", "cores"))
	assert.Equal(t, "core", Pluralize(1, "core", "cores"))
	assert.Equal(t, "cores", Pluralize(8, "core", "cores"))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "firefox", 10, "firefox"},
		{"exact", "firefox", 7, "firefox"},
		{"cut", "firefox-bin", 6, "firef…"},
		{"zero width", "firefox", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.in, tt.width))
		})
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"block", "block", 0},
		{"brail", "braille", 2},
		{"kitten", "sitting", 3},
	}

	for _, tt := range tests {
		t.Run(tt.a+"->"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.expected, LevenshteinDistance(tt.a, tt.b))
		})
	}
}

func TestSuggestSimilar(t *testing.T) {
	themes := []string{"cyan", "synthwave", "mono", "green"}

	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"typo", "synthwav", []string{"synthwave"}},
		{"case insensitive", "CYAN", []string{"cyan"}},
		{"no close match", "solarized", nil},
		{"empty input", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SuggestSimilar(tt.input, themes, 2))
		})
	}
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "1.0 KiB", Bytes(1024))
	assert.Equal(t, "0 B/s", Rate(-5))
	assert.Equal(t, "1.0 MiB/s", Rate(1<<20))
	assert.Equal(t, "42.5%", Percent(42.5))
	assert.Equal(t, "1,234,567", Count(1234567))

	n, err := ParseBytes("1 MiB")
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<20), n)
}

func TestUptime(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{30 * time.Second, "30s"},
		{5 * time.Minute, "5m"},
		{2*time.Hour + 3*time.Minute, "2h 3m"},
		{3*24*time.Hour + 5*time.Minute, "3d 0h 5m"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Uptime(tt.in))
		})
	}
}
