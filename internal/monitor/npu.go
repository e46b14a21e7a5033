package monitor

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// NPUMonitor derives accelerator utilization from busy-time counters: the
// busy time gained between two updates divided by the wall time between them.
type NPUMonitor struct {
	src      NPUSource
	size     int
	now      func() time.Time
	util     []*History
	names    []string
	prev     map[int]time.Duration
	prevAt   time.Time
	current  []float64
	disabled bool
}

// NewNPUMonitor creates an NPU monitor. A nil source disables it.
func NewNPUMonitor(src NPUSource, size int) (*NPUMonitor, error) {
	if size < 1 {
		return nil, ErrInvalidCapacity
	}
	return &NPUMonitor{
		src:      src,
		size:     size,
		now:      time.Now,
		prev:     make(map[int]time.Duration),
		disabled: src == nil,
	}, nil
}

// Update reads busy counters.
func (m *NPUMonitor) Update(ctx context.Context) error {
	if m.disabled {
		return nil
	}
	npus, err := m.src.ReadNPUs(ctx)
	if errors.Is(err, ErrUnavailable) || (err == nil && len(npus) == 0) {
		m.disabled = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("read npus: %w", err)
	}
	now := m.now()
	wall := now.Sub(m.prevAt)
	primed := !m.prevAt.IsZero()

	for len(m.util) < len(npus) {
		h, err := NewHistory(m.size, 0)
		if err != nil {
			return err
		}
		m.util = append(m.util, h)
		m.names = append(m.names, "")
		m.current = append(m.current, 0)
	}

	for i, n := range npus {
		m.names[i] = n.Name
		last, seen := m.prev[n.Index]
		m.prev[n.Index] = n.Busy
		if !primed || !seen || wall <= 0 || n.Busy < last {
			continue
		}
		pct := float64(n.Busy-last) / float64(wall) * 100
		if pct > 100 {
			pct = 100
		}
		m.current[i] = pct
		m.util[i].Push(pct)
	}
	m.prevAt = now
	return nil
}

// Available reports whether an accelerator was found.
func (m *NPUMonitor) Available() bool { return !m.disabled }

// Count returns the number of accelerators seen.
func (m *NPUMonitor) Count() int { return len(m.util) }

// Name returns the name of accelerator i.
func (m *NPUMonitor) Name(i int) string {
	if i < 0 || i >= len(m.names) {
		return ""
	}
	return m.names[i]
}

// Utilization returns the history of accelerator i.
func (m *NPUMonitor) Utilization(i int) (*History, bool) {
	if i < 0 || i >= len(m.util) {
		return nil, false
	}
	return m.util[i], true
}

// Current returns the newest utilization of accelerator i.
func (m *NPUMonitor) Current(i int) float64 {
	if i < 0 || i >= len(m.current) {
		return 0
	}
	return m.current[i]
}
