package config

import (
	"os"
	"time"

	"github.com/rileyhilliard/rtop/internal/graph"
	"github.com/rileyhilliard/rtop/internal/monitor"
)

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// Cadences returns the refresh cadence of every category.
func (c *Config) Cadences() monitor.Cadences {
	r := c.RefreshRates
	return monitor.Cadences{
		monitor.CategoryCPU:         ms(r.CPU),
		monitor.CategoryMemory:      ms(r.Memory),
		monitor.CategoryNetwork:     ms(r.Network),
		monitor.CategoryTemperature: ms(r.Temp),
		monitor.CategoryGPU:         ms(r.GPU),
		monitor.CategoryNPU:         ms(r.NPU),
		monitor.CategoryBattery:     ms(r.Battery),
		monitor.CategorySystem:      ms(r.System),
		monitor.CategoryDisk:        ms(r.Disk),
		monitor.CategoryProcess:     ms(r.Process),
	}
}

// Enabled reports which optional categories the display settings keep.
func (c *Config) Enabled() map[monitor.Category]bool {
	d := c.Display
	return map[monitor.Category]bool{
		monitor.CategoryTemperature: d.ShowTemperature,
		monitor.CategoryNetwork:     d.ShowNetwork,
		monitor.CategoryDisk:        d.ShowDisk,
		monitor.CategoryGPU:         d.ShowGPU,
		monitor.CategoryNPU:         d.ShowNPU,
		monitor.CategoryBattery:     d.ShowBattery,
	}
}

// Policy returns the scheduler's last-fired policy.
func (c *Config) Policy() monitor.Policy {
	if c.Scheduler.FixedPhase {
		return monitor.PolicyFixedPhase
	}
	return monitor.PolicyDrift
}

// MonitorThresholds converts the thresholds section for the dashboard.
func (c *Config) MonitorThresholds() monitor.Thresholds {
	th := c.Thresholds
	return monitor.Thresholds{
		CPUWarning:     th.CPU.Warning,
		CPUCritical:    th.CPU.Critical,
		MemoryWarning:  th.Memory.Warning,
		MemoryCritical: th.Memory.Critical,
		TempWarning:    th.Temperature.Warning,
		TempCritical:   th.Temperature.Critical,
		DiskWarning:    th.DiskWarning,
	}
}

// Symbol returns the configured graph glyph family. Invalid names fall
// back to braille; Validate reports them.
func (c *Config) Symbol() graph.Symbol {
	s, _ := graph.ParseSymbol(c.Colors.GraphSymbol)
	return s
}

// MonitorOptions builds monitor options. The rate floor applies to both
// network and disk throughput graphs.
func (c *Config) MonitorOptions() (monitor.Options, error) {
	floor, err := rateFloor(c.Network.RateFloor)
	if err != nil {
		return monitor.Options{}, err
	}
	return monitor.Options{
		HistorySize: c.Display.HistorySize,
		Network: monitor.NetworkOptions{
			RateFloor:    float64(floor),
			PingHosts:    c.Network.PingHosts,
			PingTimeout:  c.Network.PingTimeout,
			PingInterval: c.Network.PingInterval,
		},
		DiskFloor: float64(floor),
		Process: monitor.ProcessOptions{
			MaxRows:    c.Display.MaxProcesses,
			ShowKernel: c.Display.ShowKernelProcesses,
			ShowSelf:   c.Display.ShowSelf,
			SelfPID:    int32(os.Getpid()),
		},
	}, nil
}

// LogInterval returns the metrics log cadence.
func (c *Config) LogInterval() time.Duration { return ms(c.Export.LogInterval) }
