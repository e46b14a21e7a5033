package monitor

import (
	"time"
)

// Sources bundles the data sources behind every monitor. Optional sources
// (GPU, NPU, Battery, Pinger) may be nil.
type Sources struct {
	CPU         CPUSource
	Memory      MemorySource
	Network     NetworkSource
	Pinger      Pinger
	Disk        DiskSource
	Temperature TemperatureSource
	GPU         GPUSource
	NPU         NPUSource
	Battery     BatterySource
	System      SystemSource
	Process     ProcessSource
}

// Options configures monitor construction.
type Options struct {
	HistorySize int
	Network     NetworkOptions
	DiskFloor   float64
	Process     ProcessOptions
}

// Monitors owns one monitor per category.
type Monitors struct {
	CPU         *CPUMonitor
	Memory      *MemoryMonitor
	Network     *NetworkMonitor
	Disk        *DiskMonitor
	Temperature *TemperatureMonitor
	GPU         *GPUMonitor
	NPU         *NPUMonitor
	Battery     *BatteryMonitor
	System      *SystemMonitor
	Process     *ProcessMonitor
}

// NewMonitors builds every monitor from its source.
func NewMonitors(src Sources, opts Options) (*Monitors, error) {
	size := opts.HistorySize
	if size == 0 {
		size = DefaultHistorySize
	}

	var m Monitors
	var err error
	if m.CPU, err = NewCPUMonitor(src.CPU, size); err != nil {
		return nil, err
	}
	if m.Memory, err = NewMemoryMonitor(src.Memory, size); err != nil {
		return nil, err
	}
	if m.Network, err = NewNetworkMonitor(src.Network, src.Pinger, size, opts.Network); err != nil {
		return nil, err
	}
	if m.Disk, err = NewDiskMonitor(src.Disk, size, opts.DiskFloor); err != nil {
		return nil, err
	}
	if m.Temperature, err = NewTemperatureMonitor(src.Temperature, size); err != nil {
		return nil, err
	}
	if m.GPU, err = NewGPUMonitor(src.GPU, size); err != nil {
		return nil, err
	}
	if m.NPU, err = NewNPUMonitor(src.NPU, size); err != nil {
		return nil, err
	}
	if m.Battery, err = NewBatteryMonitor(src.Battery, size); err != nil {
		return nil, err
	}
	m.System = NewSystemMonitor(src.System)
	m.Process = NewProcessMonitor(src.Process, opts.Process)
	return &m, nil
}

// Cadences maps categories to refresh intervals.
type Cadences map[Category]time.Duration

// Register adds every monitor to s in the fixed evaluation order. Categories
// missing from cadences, or switched off in enabled, are skipped.
func (m *Monitors) Register(s *Scheduler, cadences Cadences, enabled map[Category]bool) error {
	order := []struct {
		c Category
		u Updater
	}{
		{CategoryCPU, m.CPU},
		{CategoryMemory, m.Memory},
		{CategoryNetwork, m.Network},
		{CategoryTemperature, m.Temperature},
		{CategoryGPU, m.GPU},
		{CategoryNPU, m.NPU},
		{CategoryBattery, m.Battery},
		{CategorySystem, m.System},
		{CategoryDisk, m.Disk},
		{CategoryProcess, m.Process},
	}
	for _, e := range order {
		d, ok := cadences[e.c]
		if !ok {
			continue
		}
		if on, listed := enabled[e.c]; listed && !on {
			continue
		}
		if err := s.Register(e.c, d, e.u); err != nil {
			return err
		}
	}
	return nil
}
