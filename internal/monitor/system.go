package monitor

import (
	"context"
	"fmt"
)

// SystemMonitor holds host identity and uptime. It keeps no history.
type SystemMonitor struct {
	src    SystemSource
	latest SystemReading
}

// NewSystemMonitor creates a system monitor.
func NewSystemMonitor(src SystemSource) *SystemMonitor {
	return &SystemMonitor{src: src}
}

// Update refreshes host information.
func (m *SystemMonitor) Update(ctx context.Context) error {
	r, err := m.src.ReadSystem(ctx)
	if err != nil {
		return fmt.Errorf("read system: %w", err)
	}
	m.latest = r
	return nil
}

// Latest returns the newest reading.
func (m *SystemMonitor) Latest() SystemReading { return m.latest }
