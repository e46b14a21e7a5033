package export

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/rtop/internal/monitor"
)

var t0 = time.Date(2026, 2, 4, 20, 0, 0, 0, time.UTC)

type staticHost struct {
	cpuReads int
	temps    []monitor.SensorReading
}

func (h *staticHost) ReadCPU(context.Context) (monitor.CPUReading, error) {
	h.cpuReads++
	return monitor.CPUReading{Total: 27.85, PerCore: []float64{25.5, 30.2}, LoadAvg: [3]float64{1.5, 1.2, 0.9}}, nil
}

func (h *staticHost) ReadMemory(context.Context) (monitor.MemoryReading, error) {
	return monitor.MemoryReading{
		Total: 16_000_000_000, Used: 8_000_000_000, Available: 8_000_000_000,
		SwapTotal: 8_000_000_000, SwapUsed: 1_000_000_000,
	}, nil
}

func (h *staticHost) ReadNetwork(context.Context) ([]monitor.NetCounters, error) {
	return []monitor.NetCounters{{Interface: "eth0", RxBytes: 1_000_000, TxBytes: 500_000}}, nil
}

func (h *staticHost) ReadDisks(context.Context) ([]monitor.DiskUsage, error) {
	return []monitor.DiskUsage{{Mount: "/", Device: "nvme0n1", FSType: "ext4", Total: 500, Used: 250, Free: 250, Percent: 50}}, nil
}

func (h *staticHost) ReadDiskIO(context.Context) (monitor.DiskIO, error) {
	return monitor.DiskIO{}, nil
}

func (h *staticHost) ReadTemperatures(context.Context) ([]monitor.SensorReading, error) {
	if h.temps == nil {
		return nil, monitor.ErrUnavailable
	}
	return h.temps, nil
}

func (h *staticHost) ReadSystem(context.Context) (monitor.SystemReading, error) {
	return monitor.SystemReading{Hostname: "test-host", OS: "linux", Platform: "ubuntu", Kernel: "6.5.0", Uptime: 24 * time.Hour}, nil
}

type staticProcs []monitor.ProcessInfo

func (p staticProcs) ReadProcesses(context.Context) ([]monitor.ProcessInfo, error) { return p, nil }

func (p staticProcs) Signal(context.Context, int32, monitor.Signal) error { return nil }

type staticBattery struct{}

func (staticBattery) ReadBattery(context.Context) (monitor.BatteryReading, error) {
	return monitor.BatteryReading{Percent: 77, State: monitor.BatteryDischarging, Remaining: 192 * time.Minute}, nil
}

func procs(n int) staticProcs {
	out := make(staticProcs, n)
	for i := range out {
		out[i] = monitor.ProcessInfo{PID: int32(100 + i), Name: "worker", User: "alice", CPU: float64(n - i), RSS: 1 << 20, MemPercent: 0.5}
	}
	return out
}

// newMonitors returns sampled monitors over static sources.
func newMonitors(t *testing.T, host *staticHost, withBattery bool) *monitor.Monitors {
	t.Helper()
	src := monitor.Sources{
		CPU:         host,
		Memory:      host,
		Network:     host,
		Disk:        host,
		Temperature: host,
		System:      host,
		Process:     procs(15),
	}
	if withBattery {
		src.Battery = staticBattery{}
	}
	mons, err := monitor.NewMonitors(src, monitor.Options{HistorySize: 10, Process: monitor.ProcessOptions{ShowSelf: true}})
	require.NoError(t, err)
	require.NoError(t, Sample(context.Background(), mons, 0, nil))
	return mons
}
