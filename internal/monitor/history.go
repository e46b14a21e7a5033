package monitor

import (
	"errors"
	"math"
)

// DefaultHistorySize spans one minute at a 1s cadence, plus the current sample.
const DefaultHistorySize = 61

// ErrInvalidCapacity is returned when a history is created with capacity < 1.
var ErrInvalidCapacity = errors.New("history capacity must be at least 1")

// History is a fixed-capacity sample window for one channel. It is always
// full: construction seeds every slot with the fill value and each Push
// evicts the oldest sample. History is not safe for concurrent use; only the
// owning monitor's Update pushes into it.
type History struct {
	data []float64
	head int // next write position, which is also the oldest sample
}

// NewHistory creates a history of the given capacity filled with fill.
func NewHistory(capacity int, fill float64) (*History, error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	data := make([]float64, capacity)
	for i := range data {
		data[i] = fill
	}
	return &History{data: data}, nil
}

// newHistories creates n zero-filled histories of the same capacity.
func newHistories(n, capacity int) ([]*History, error) {
	out := make([]*History, n)
	for i := range out {
		h, err := NewHistory(capacity, 0)
		if err != nil {
			return nil, err
		}
		out[i] = h
	}
	return out, nil
}

// Push appends value, evicting the oldest sample. NaN and infinities are
// stored as 0.
func (h *History) Push(value float64) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		value = 0
	}
	h.data[h.head] = value
	h.head = (h.head + 1) % len(h.data)
}

// Snapshot returns a copy of all samples, oldest first.
func (h *History) Snapshot() []float64 {
	return h.Last(len(h.data))
}

// Last returns a copy of the newest n samples, oldest first. n is capped at
// the capacity.
func (h *History) Last(n int) []float64 {
	size := len(h.data)
	if n <= 0 {
		return []float64{}
	}
	if n > size {
		n = size
	}
	out := make([]float64, n)
	start := (h.head - n + size) % size
	for i := 0; i < n; i++ {
		out[i] = h.data[(start+i)%size]
	}
	return out
}

// Latest returns the most recently pushed sample (or the fill value).
func (h *History) Latest() float64 {
	return h.data[(h.head-1+len(h.data))%len(h.data)]
}

// Cap returns the fixed number of samples held.
func (h *History) Cap() int {
	return len(h.data)
}
