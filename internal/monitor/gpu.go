package monitor

import (
	"context"
	"errors"
	"fmt"
)

// GPUMonitor tracks utilization and memory per GPU. A nil source or one
// reporting ErrUnavailable leaves the monitor disabled.
type GPUMonitor struct {
	src      GPUSource
	size     int
	util     []*History
	mem      []*History
	latest   []GPUReading
	disabled bool
}

// NewGPUMonitor creates a GPU monitor.
func NewGPUMonitor(src GPUSource, size int) (*GPUMonitor, error) {
	if size < 1 {
		return nil, ErrInvalidCapacity
	}
	return &GPUMonitor{src: src, size: size, disabled: src == nil}, nil
}

// Update queries the vendor tool.
func (m *GPUMonitor) Update(ctx context.Context) error {
	if m.disabled {
		return nil
	}
	gpus, err := m.src.ReadGPUs(ctx)
	if errors.Is(err, ErrUnavailable) {
		m.disabled = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s gpus: %w", m.src.Vendor(), err)
	}

	for len(m.util) < len(gpus) {
		hs, err := newHistories(2, m.size)
		if err != nil {
			return err
		}
		m.util = append(m.util, hs[0])
		m.mem = append(m.mem, hs[1])
	}
	for i, g := range gpus {
		m.util[i].Push(g.Utilization)
		m.mem[i].Push(g.MemoryPercent())
	}
	m.latest = gpus
	return nil
}

// Available reports whether GPU data can be collected.
func (m *GPUMonitor) Available() bool { return !m.disabled }

// Vendor names the active vendor tool, or "" when disabled.
func (m *GPUMonitor) Vendor() string {
	if m.src == nil {
		return ""
	}
	return m.src.Vendor()
}

// GPUs returns the latest readings.
func (m *GPUMonitor) GPUs() []GPUReading { return m.latest }

// Utilization returns the utilization history of GPU i.
func (m *GPUMonitor) Utilization(i int) (*History, bool) {
	if i < 0 || i >= len(m.util) {
		return nil, false
	}
	return m.util[i], true
}

// Memory returns the memory-percent history of GPU i.
func (m *GPUMonitor) Memory(i int) (*History, bool) {
	if i < 0 || i >= len(m.mem) {
		return nil, false
	}
	return m.mem[i], true
}
