package monitor

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// TemperatureMonitor tracks sensor readings and their average. Celsius maps
// directly onto the 0-100 graph scale.
type TemperatureMonitor struct {
	src      TemperatureSource
	size     int
	average  *History
	sensors  map[string]*History
	latest   []SensorReading
	disabled bool
}

// NewTemperatureMonitor creates a temperature monitor.
func NewTemperatureMonitor(src TemperatureSource, size int) (*TemperatureMonitor, error) {
	avg, err := NewHistory(size, 0)
	if err != nil {
		return nil, err
	}
	return &TemperatureMonitor{
		src:     src,
		size:    size,
		average: avg,
		sensors: make(map[string]*History),
	}, nil
}

// Update reads all sensors. Sensors reporting 0 °C or less are ignored.
func (m *TemperatureMonitor) Update(ctx context.Context) error {
	if m.disabled {
		return nil
	}
	readings, err := m.src.ReadTemperatures(ctx)
	if errors.Is(err, ErrUnavailable) {
		m.disabled = true
		return nil
	}
	if err != nil && len(readings) == 0 {
		return fmt.Errorf("read temperatures: %w", err)
	}

	valid := readings[:0:0]
	var sum float64
	for _, r := range readings {
		if r.Celsius <= 0 {
			continue
		}
		valid = append(valid, r)
		sum += r.Celsius

		h, ok := m.sensors[r.Name]
		if !ok {
			h, err = NewHistory(m.size, 0)
			if err != nil {
				return err
			}
			m.sensors[r.Name] = h
		}
		h.Push(r.Celsius)
	}
	sort.Slice(valid, func(i, j int) bool { return valid[i].Name < valid[j].Name })

	if len(valid) > 0 {
		m.average.Push(sum / float64(len(valid)))
	}
	m.latest = valid
	return nil
}

// Average returns the history of the mean sensor temperature.
func (m *TemperatureMonitor) Average() *History { return m.average }

// Sensor returns one sensor's history.
func (m *TemperatureMonitor) Sensor(name string) (*History, bool) {
	h, ok := m.sensors[name]
	return h, ok
}

// Sensors returns the latest readings sorted by name.
func (m *TemperatureMonitor) Sensors() []SensorReading { return m.latest }

// Max returns the hottest current reading.
func (m *TemperatureMonitor) Max() (SensorReading, bool) {
	if len(m.latest) == 0 {
		return SensorReading{}, false
	}
	hottest := m.latest[0]
	for _, r := range m.latest[1:] {
		if r.Celsius > hottest.Celsius {
			hottest = r
		}
	}
	return hottest, true
}

// Available reports whether the machine exposes any sensors.
func (m *TemperatureMonitor) Available() bool { return !m.disabled }
