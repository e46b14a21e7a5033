package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rileyhilliard/rtop/internal/exec"
	"github.com/rileyhilliard/rtop/internal/logger"
	"github.com/rileyhilliard/rtop/internal/monitor"
)

type staticHost struct{}

func (staticHost) ReadCPU(context.Context) (monitor.CPUReading, error) {
	return monitor.CPUReading{Total: 12.5, PerCore: []float64{10, 15}, LoadAvg: [3]float64{0.5, 0.4, 0.3}}, nil
}

func (staticHost) ReadMemory(context.Context) (monitor.MemoryReading, error) {
	return monitor.MemoryReading{Total: 8 << 30, Used: 2 << 30, Available: 6 << 30}, nil
}

func (staticHost) ReadNetwork(context.Context) ([]monitor.NetCounters, error) {
	return []monitor.NetCounters{{Interface: "eth0", RxBytes: 4096, TxBytes: 2048}}, nil
}

func (staticHost) ReadDisks(context.Context) ([]monitor.DiskUsage, error) {
	return []monitor.DiskUsage{{Mount: "/", Device: "sda1", FSType: "ext4", Total: 100, Used: 40, Free: 60, Percent: 40}}, nil
}

func (staticHost) ReadDiskIO(context.Context) (monitor.DiskIO, error) {
	return monitor.DiskIO{}, nil
}

func (staticHost) ReadTemperatures(context.Context) ([]monitor.SensorReading, error) {
	return nil, monitor.ErrUnavailable
}

func (staticHost) ReadSystem(context.Context) (monitor.SystemReading, error) {
	return monitor.SystemReading{Hostname: "test-host", OS: "linux", Kernel: "6.8.0", Uptime: time.Hour}, nil
}

type staticProcs []monitor.ProcessInfo

func (p staticProcs) ReadProcesses(context.Context) ([]monitor.ProcessInfo, error) { return p, nil }

func (p staticProcs) Signal(context.Context, int32, monitor.Signal) error { return nil }

func staticSources(exec.Runner, logger.Logger) monitor.Sources {
	h := staticHost{}
	procs := make(staticProcs, 15)
	for i := range procs {
		procs[i] = monitor.ProcessInfo{PID: int32(200 + i), Name: "job", User: "bob", CPU: float64(i), RSS: 1 << 20}
	}
	return monitor.Sources{CPU: h, Memory: h, Network: h, Disk: h, Temperature: h, System: h, Process: procs}
}

// testOptions isolates a command run from the real home directory and
// terminal.
func testOptions(t *testing.T) *options {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", home+"/.config")
	t.Setenv("NO_COLOR", "")

	o := defaultOptions()
	o.detect = staticSources
	o.isTerminal = func() bool { return false }
	o.confirm = func(string) (bool, error) {
		t.Fatal("unexpected prompt")
		return false, nil
	}
	return o
}

// run executes the command tree with args and returns everything printed.
func run(o *options, args ...string) (string, error) {
	root := newRootCmd(o)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}
