package monitor

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable is returned by a source when the hardware or vendor tool it
// reads from does not exist on this machine. Monitors disable themselves on it.
var ErrUnavailable = errors.New("source unavailable")

// CPUReading is one CPU sample.
type CPUReading struct {
	Total   float64   // aggregate utilization, percent
	PerCore []float64 // per logical core, percent
	LoadAvg [3]float64
}

// CPUSource reads CPU utilization.
type CPUSource interface {
	ReadCPU(ctx context.Context) (CPUReading, error)
}

// MemoryReading is one memory sample, in bytes.
type MemoryReading struct {
	Total     uint64
	Used      uint64
	Available uint64
	Cached    uint64
	SwapTotal uint64
	SwapUsed  uint64
}

// UsedPercent returns used RAM as a percentage of total.
func (r MemoryReading) UsedPercent() float64 { return percentOf(r.Used, r.Total) }

// SwapPercent returns used swap as a percentage of total.
func (r MemoryReading) SwapPercent() float64 { return percentOf(r.SwapUsed, r.SwapTotal) }

// MemorySource reads RAM and swap usage.
type MemorySource interface {
	ReadMemory(ctx context.Context) (MemoryReading, error)
}

// NetCounters holds cumulative byte counters for one interface.
type NetCounters struct {
	Interface string
	RxBytes   uint64
	TxBytes   uint64
}

// NetworkSource reads per-interface byte counters.
type NetworkSource interface {
	ReadNetwork(ctx context.Context) ([]NetCounters, error)
}

// Pinger measures round-trip latency to a host. Implementations must give
// up after timeout.
type Pinger interface {
	Ping(ctx context.Context, host string, timeout time.Duration) (time.Duration, error)
}

// DiskUsage describes one mounted filesystem.
type DiskUsage struct {
	Mount   string
	Device  string
	FSType  string
	Total   uint64
	Used    uint64
	Free    uint64
	Percent float64
}

// DiskIO holds cumulative byte counters summed over all block devices.
type DiskIO struct {
	ReadBytes  uint64
	WriteBytes uint64
}

// DiskSource reads filesystem usage and block-device counters.
type DiskSource interface {
	ReadDisks(ctx context.Context) ([]DiskUsage, error)
	ReadDiskIO(ctx context.Context) (DiskIO, error)
}

// SensorReading is one temperature sensor, in °C.
type SensorReading struct {
	Name     string
	Celsius  float64
	High     float64
	Critical float64
}

// TemperatureSource reads hardware sensors.
type TemperatureSource interface {
	ReadTemperatures(ctx context.Context) ([]SensorReading, error)
}

// GPUReading is one GPU sample. Optional fields are negative when unknown.
type GPUReading struct {
	Index       int
	Name        string
	Vendor      string
	Utilization float64
	MemoryUsed  uint64
	MemoryTotal uint64
	Temperature float64
	PowerWatts  float64
	ClockMHz    int
	FanPercent  float64
}

// MemoryPercent returns used GPU memory as a percentage of total.
func (g GPUReading) MemoryPercent() float64 {
	return percentOf(g.MemoryUsed, g.MemoryTotal)
}

// GPUSource reads GPU utilization from a vendor tool.
type GPUSource interface {
	Vendor() string
	ReadGPUs(ctx context.Context) ([]GPUReading, error)
}

// NPUReading holds the cumulative busy time of one accelerator.
type NPUReading struct {
	Index int
	Name  string
	Busy  time.Duration
}

// NPUSource reads accelerator busy counters.
type NPUSource interface {
	ReadNPUs(ctx context.Context) ([]NPUReading, error)
}

// BatteryState is the charging state reported by the power supply.
type BatteryState string

const (
	BatteryCharging    BatteryState = "Charging"
	BatteryDischarging BatteryState = "Discharging"
	BatteryFull        BatteryState = "Full"
	BatteryEmpty       BatteryState = "Empty"
	BatteryUnknown     BatteryState = "Unknown"
)

// BatteryReading is one battery sample. Remaining is zero when unknown.
type BatteryReading struct {
	Percent    float64
	State      BatteryState
	Remaining  time.Duration
	PowerWatts float64
}

// BatterySource reads the primary battery.
type BatterySource interface {
	ReadBattery(ctx context.Context) (BatteryReading, error)
}

// SystemReading describes the host.
type SystemReading struct {
	Hostname string
	OS       string
	Platform string
	Kernel   string
	Arch     string
	Uptime   time.Duration
	Procs    uint64
}

// SystemSource reads host information.
type SystemSource interface {
	ReadSystem(ctx context.Context) (SystemReading, error)
}

// ProcessInfo is one process row.
type ProcessInfo struct {
	PID        int32
	PPID       int32
	Name       string
	User       string
	State      string
	Command    string
	CPU        float64
	MemPercent float64
	RSS        uint64
	Threads    int32
	Kernel     bool
}

// ProcessSource lists processes and delivers signals.
type ProcessSource interface {
	ReadProcesses(ctx context.Context) ([]ProcessInfo, error)
	Signal(ctx context.Context, pid int32, sig Signal) error
}

func percentOf(used, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return float64(used) / float64(total) * 100
}
