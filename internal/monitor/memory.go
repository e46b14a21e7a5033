package monitor

import (
	"context"
	"fmt"
)

// MemoryMonitor tracks RAM and swap usage as percentages.
type MemoryMonitor struct {
	src    MemorySource
	ram    *History
	swap   *History
	latest MemoryReading
}

// NewMemoryMonitor creates a memory monitor whose histories hold size samples.
func NewMemoryMonitor(src MemorySource, size int) (*MemoryMonitor, error) {
	hs, err := newHistories(2, size)
	if err != nil {
		return nil, err
	}
	return &MemoryMonitor{src: src, ram: hs[0], swap: hs[1]}, nil
}

// Update takes one memory sample.
func (m *MemoryMonitor) Update(ctx context.Context) error {
	r, err := m.src.ReadMemory(ctx)
	if err != nil {
		return fmt.Errorf("read memory: %w", err)
	}
	m.ram.Push(r.UsedPercent())
	m.swap.Push(r.SwapPercent())
	m.latest = r
	return nil
}

// RAM returns the RAM usage history.
func (m *MemoryMonitor) RAM() *History { return m.ram }

// Swap returns the swap usage history.
func (m *MemoryMonitor) Swap() *History { return m.swap }

// Latest returns the most recent reading.
func (m *MemoryMonitor) Latest() MemoryReading { return m.latest }
