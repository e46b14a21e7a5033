package monitor

import (
	"context"
	"errors"
	"fmt"
)

// BatteryMonitor tracks charge level.
type BatteryMonitor struct {
	src      BatterySource
	charge   *History
	latest   BatteryReading
	present  bool
	disabled bool
}

// NewBatteryMonitor creates a battery monitor. A nil source disables it.
func NewBatteryMonitor(src BatterySource, size int) (*BatteryMonitor, error) {
	h, err := NewHistory(size, 0)
	if err != nil {
		return nil, err
	}
	return &BatteryMonitor{src: src, charge: h, disabled: src == nil}, nil
}

// Update reads the battery.
func (m *BatteryMonitor) Update(ctx context.Context) error {
	if m.disabled {
		return nil
	}
	r, err := m.src.ReadBattery(ctx)
	if errors.Is(err, ErrUnavailable) {
		m.disabled = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("read battery: %w", err)
	}
	m.charge.Push(r.Percent)
	m.latest = r
	m.present = true
	return nil
}

// Latest returns the newest reading and whether a battery has been read.
func (m *BatteryMonitor) Latest() (BatteryReading, bool) { return m.latest, m.present }

// Charge returns the charge-level history.
func (m *BatteryMonitor) Charge() *History { return m.charge }

// Available reports whether a battery can be read.
func (m *BatteryMonitor) Available() bool { return !m.disabled }
