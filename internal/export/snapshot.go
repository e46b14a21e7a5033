// Package export captures point-in-time metric snapshots and writes them
// as JSON, YAML or CSV, either once on demand or as a running CSV log.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rileyhilliard/rtop/internal/logger"
	"github.com/rileyhilliard/rtop/internal/monitor"
)

// DefaultTopProcesses is how many processes a snapshot lists.
const DefaultTopProcesses = 10

// SampleGap separates the two samples taken before a one-shot export, so
// rates and CPU percentages cover a real interval.
const SampleGap = 500 * time.Millisecond

// Snapshot is every current reading at one moment.
type Snapshot struct {
	Timestamp   time.Time      `json:"timestamp" yaml:"timestamp"`
	SessionID   string         `json:"session_id" yaml:"session_id"`
	CPU         CPUStats       `json:"cpu" yaml:"cpu"`
	Memory      MemoryStats    `json:"memory" yaml:"memory"`
	Network     NetworkStats   `json:"network" yaml:"network"`
	Disks       []DiskStats    `json:"disks" yaml:"disks"`
	Processes   []ProcessStats `json:"processes" yaml:"processes"`
	Temperature *TempStats     `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	GPUs        []GPUStats     `json:"gpus,omitempty" yaml:"gpus,omitempty"`
	Battery     *BatteryStats  `json:"battery,omitempty" yaml:"battery,omitempty"`
	System      SystemStats    `json:"system" yaml:"system"`
}

// CPUStats holds aggregate and per-core utilization in percent.
type CPUStats struct {
	Cores       []CoreStats `json:"cores" yaml:"cores"`
	Average     float64     `json:"average" yaml:"average"`
	LoadAverage [3]float64  `json:"load_average" yaml:"load_average"`
}

// CoreStats is one logical core.
type CoreStats struct {
	ID    int     `json:"id" yaml:"id"`
	Usage float64 `json:"usage" yaml:"usage"`
}

// MemoryStats are in bytes, percentages in percent.
type MemoryStats struct {
	Total       uint64  `json:"total" yaml:"total"`
	Used        uint64  `json:"used" yaml:"used"`
	Available   uint64  `json:"available" yaml:"available"`
	Percent     float64 `json:"percent" yaml:"percent"`
	SwapTotal   uint64  `json:"swap_total" yaml:"swap_total"`
	SwapUsed    uint64  `json:"swap_used" yaml:"swap_used"`
	SwapPercent float64 `json:"swap_percent" yaml:"swap_percent"`
}

// NetworkStats sums every non-loopback interface.
type NetworkStats struct {
	Interface   string  `json:"interface,omitempty" yaml:"interface,omitempty"`
	Received    uint64  `json:"received" yaml:"received"`
	Transmitted uint64  `json:"transmitted" yaml:"transmitted"`
	RxRate      float64 `json:"rx_rate" yaml:"rx_rate"`
	TxRate      float64 `json:"tx_rate" yaml:"tx_rate"`
	// LatencyMs is omitted until a ping has answered.
	LatencyMs *float64 `json:"latency_ms,omitempty" yaml:"latency_ms,omitempty"`
}

// DiskStats is one mounted filesystem.
type DiskStats struct {
	Name       string  `json:"name" yaml:"name"`
	MountPoint string  `json:"mount_point" yaml:"mount_point"`
	FSType     string  `json:"fs_type,omitempty" yaml:"fs_type,omitempty"`
	Total      uint64  `json:"total" yaml:"total"`
	Available  uint64  `json:"available" yaml:"available"`
	Percent    float64 `json:"percent" yaml:"percent"`
}

// ProcessStats is one row of the process list.
type ProcessStats struct {
	PID           int32   `json:"pid" yaml:"pid"`
	Name          string  `json:"name" yaml:"name"`
	User          string  `json:"user,omitempty" yaml:"user,omitempty"`
	CPU           float64 `json:"cpu" yaml:"cpu"`
	Memory        uint64  `json:"memory" yaml:"memory"`
	MemoryPercent float64 `json:"memory_percent" yaml:"memory_percent"`
}

// TempStats are in °C.
type TempStats struct {
	Sensors []SensorStats `json:"sensors" yaml:"sensors"`
	Average float64       `json:"average" yaml:"average"`
	Max     float64       `json:"max" yaml:"max"`
}

// SensorStats is one temperature sensor.
type SensorStats struct {
	Name        string  `json:"name" yaml:"name"`
	Temperature float64 `json:"temperature" yaml:"temperature"`
}

// GPUStats is one GPU.
type GPUStats struct {
	Index         int     `json:"index" yaml:"index"`
	Name          string  `json:"name" yaml:"name"`
	Vendor        string  `json:"vendor" yaml:"vendor"`
	Utilization   float64 `json:"utilization" yaml:"utilization"`
	MemoryPercent float64 `json:"memory_percent" yaml:"memory_percent"`
	Temperature   float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
}

// BatteryStats is the system battery.
type BatteryStats struct {
	Percent          float64 `json:"percent" yaml:"percent"`
	State            string  `json:"state" yaml:"state"`
	RemainingMinutes int     `json:"remaining_minutes,omitempty" yaml:"remaining_minutes,omitempty"`
}

// SystemStats identifies the host.
type SystemStats struct {
	Hostname    string     `json:"hostname" yaml:"hostname"`
	OS          string     `json:"os" yaml:"os"`
	Kernel      string     `json:"kernel" yaml:"kernel"`
	Uptime      uint64     `json:"uptime" yaml:"uptime"` // seconds
	LoadAverage [3]float64 `json:"load_average" yaml:"load_average"`
}

// NewSessionID returns an id tying together every snapshot of one run.
func NewSessionID() string {
	return uuid.NewString()
}

// Capture builds a snapshot from the monitors' latest readings. topN limits
// the process list; zero uses DefaultTopProcesses.
func Capture(mons *monitor.Monitors, now time.Time, sessionID string, topN int) Snapshot {
	if topN <= 0 {
		topN = DefaultTopProcesses
	}
	s := Snapshot{Timestamp: now.UTC(), SessionID: sessionID}

	cpu, _ := mons.CPU.Latest()
	s.CPU.Average = cpu.Total
	s.CPU.LoadAverage = cpu.LoadAvg
	for i, u := range cpu.PerCore {
		s.CPU.Cores = append(s.CPU.Cores, CoreStats{ID: i, Usage: u})
	}

	mem := mons.Memory.Latest()
	s.Memory = MemoryStats{
		Total:       mem.Total,
		Used:        mem.Used,
		Available:   mem.Available,
		Percent:     mem.UsedPercent(),
		SwapTotal:   mem.SwapTotal,
		SwapUsed:    mem.SwapUsed,
		SwapPercent: mem.SwapPercent(),
	}

	net := mons.Network
	s.Network.Interface = net.ActiveInterface()
	s.Network.Received, s.Network.Transmitted = net.Totals()
	s.Network.RxRate, s.Network.TxRate = net.Rates()
	if d, ok := net.LastLatency(); ok {
		ms := float64(d) / float64(time.Millisecond)
		s.Network.LatencyMs = &ms
	}

	s.Disks = []DiskStats{}
	for _, d := range mons.Disk.Disks() {
		s.Disks = append(s.Disks, DiskStats{
			Name:       d.Device,
			MountPoint: d.Mount,
			FSType:     d.FSType,
			Total:      d.Total,
			Available:  d.Free,
			Percent:    d.Percent,
		})
	}

	s.Processes = []ProcessStats{}
	for i, p := range mons.Process.Rows() {
		if i == topN {
			break
		}
		s.Processes = append(s.Processes, ProcessStats{
			PID:           p.PID,
			Name:          p.Name,
			User:          p.User,
			CPU:           p.CPU,
			Memory:        p.RSS,
			MemoryPercent: p.MemPercent,
		})
	}

	if sensors := mons.Temperature.Sensors(); len(sensors) > 0 {
		t := &TempStats{Average: mons.Temperature.Average().Latest()}
		for _, r := range sensors {
			t.Sensors = append(t.Sensors, SensorStats{Name: r.Name, Temperature: r.Celsius})
		}
		if hot, ok := mons.Temperature.Max(); ok {
			t.Max = hot.Celsius
		}
		s.Temperature = t
	}

	for _, g := range mons.GPU.GPUs() {
		gs := GPUStats{
			Index:         g.Index,
			Name:          g.Name,
			Vendor:        g.Vendor,
			Utilization:   g.Utilization,
			MemoryPercent: g.MemoryPercent(),
		}
		if g.Temperature >= 0 {
			gs.Temperature = g.Temperature
		}
		s.GPUs = append(s.GPUs, gs)
	}

	if b, ok := mons.Battery.Latest(); ok {
		s.Battery = &BatteryStats{
			Percent:          b.Percent,
			State:            string(b.State),
			RemainingMinutes: int(b.Remaining / time.Minute),
		}
	}

	sys := mons.System.Latest()
	s.System = SystemStats{
		Hostname:    sys.Hostname,
		OS:          sys.OS,
		Kernel:      sys.Kernel,
		Uptime:      uint64(sys.Uptime / time.Second),
		LoadAverage: cpu.LoadAvg,
	}
	if sys.Platform != "" {
		s.System.OS = sys.Platform
	}
	return s
}

// updateOrder is the order Sample refreshes monitors in, matching the
// dashboard's evaluation order.
func updateOrder(mons *monitor.Monitors) []struct {
	name string
	u    monitor.Updater
} {
	return []struct {
		name string
		u    monitor.Updater
	}{
		{"cpu", mons.CPU},
		{"memory", mons.Memory},
		{"network", mons.Network},
		{"temperature", mons.Temperature},
		{"gpu", mons.GPU},
		{"npu", mons.NPU},
		{"battery", mons.Battery},
		{"system", mons.System},
		{"disk", mons.Disk},
		{"process", mons.Process},
	}
}

// Sample refreshes every monitor twice, gap apart, so the second pass has
// a previous reading to compute rates from. Individual monitor failures
// are logged and skipped; only cancellation is returned.
func Sample(ctx context.Context, mons *monitor.Monitors, gap time.Duration, log logger.Logger) error {
	if log == nil {
		log = logger.Noop()
	}
	for pass := 0; pass < 2; pass++ {
		if pass > 0 {
			timer := time.NewTimer(gap)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
		for _, e := range updateOrder(mons) {
			if err := e.u.Update(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Debug("export sample %s: %v", e.name, err)
			}
		}
	}
	return nil
}

// Summary is a one-line description of a snapshot for command output.
func (s Snapshot) Summary() string {
	return fmt.Sprintf("%s cpu %.1f%% mem %.1f%% %d disks %d processes",
		s.System.Hostname, s.CPU.Average, s.Memory.Percent, len(s.Disks), len(s.Processes))
}
