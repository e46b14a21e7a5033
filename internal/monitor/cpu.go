package monitor

import (
	"context"
	"fmt"
)

// CPUMonitor tracks aggregate and per-core utilization.
type CPUMonitor struct {
	src      CPUSource
	size     int
	total    *History
	cores    []*History
	latest   CPUReading
	hasValue bool
}

// NewCPUMonitor creates a CPU monitor whose histories hold size samples.
func NewCPUMonitor(src CPUSource, size int) (*CPUMonitor, error) {
	total, err := NewHistory(size, 0)
	if err != nil {
		return nil, err
	}
	return &CPUMonitor{src: src, size: size, total: total}, nil
}

// Update takes one CPU sample.
func (m *CPUMonitor) Update(ctx context.Context) error {
	r, err := m.src.ReadCPU(ctx)
	if err != nil {
		return fmt.Errorf("read cpu: %w", err)
	}

	for len(m.cores) < len(r.PerCore) {
		h, err := NewHistory(m.size, 0)
		if err != nil {
			return err
		}
		m.cores = append(m.cores, h)
	}

	m.total.Push(r.Total)
	for i, v := range r.PerCore {
		m.cores[i].Push(v)
	}
	m.latest = r
	m.hasValue = true
	return nil
}

// Total returns the aggregate history.
func (m *CPUMonitor) Total() *History { return m.total }

// Cores returns per-core histories, indexed by core number.
func (m *CPUMonitor) Cores() []*History { return m.cores }

// Latest returns the most recent reading and whether one exists.
func (m *CPUMonitor) Latest() (CPUReading, bool) { return m.latest, m.hasValue }
