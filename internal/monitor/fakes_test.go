package monitor

import (
	"context"
	"errors"
	"time"
)

var errFake = errors.New("fake failure")

type fakeCPU struct {
	readings []CPUReading
	err      error
	n        int
}

func (f *fakeCPU) ReadCPU(ctx context.Context) (CPUReading, error) {
	if f.err != nil {
		return CPUReading{}, f.err
	}
	r := f.readings[f.n%len(f.readings)]
	f.n++
	return r, nil
}

type fakeMemory struct {
	r   MemoryReading
	err error
}

func (f *fakeMemory) ReadMemory(ctx context.Context) (MemoryReading, error) { return f.r, f.err }

type fakeNetwork struct {
	counters [][]NetCounters
	n        int
}

func (f *fakeNetwork) ReadNetwork(ctx context.Context) ([]NetCounters, error) {
	c := f.counters[min(f.n, len(f.counters)-1)]
	f.n++
	return c, nil
}

type fakePinger struct {
	latency map[string]time.Duration
	calls   []string
}

func (f *fakePinger) Ping(ctx context.Context, host string, timeout time.Duration) (time.Duration, error) {
	f.calls = append(f.calls, host)
	if d, ok := f.latency[host]; ok {
		return d, nil
	}
	return 0, errors.New("timeout")
}

type fakeDisk struct {
	disks []DiskUsage
	io    []DiskIO
	ioErr error
	n     int
}

func (f *fakeDisk) ReadDisks(ctx context.Context) ([]DiskUsage, error) {
	out := make([]DiskUsage, len(f.disks))
	copy(out, f.disks)
	return out, nil
}

func (f *fakeDisk) ReadDiskIO(ctx context.Context) (DiskIO, error) {
	if f.ioErr != nil {
		return DiskIO{}, f.ioErr
	}
	r := f.io[min(f.n, len(f.io)-1)]
	f.n++
	return r, nil
}

type fakeTemps struct {
	readings []SensorReading
	err      error
}

func (f *fakeTemps) ReadTemperatures(ctx context.Context) ([]SensorReading, error) {
	return f.readings, f.err
}

type fakeGPU struct {
	gpus []GPUReading
	err  error
}

func (f *fakeGPU) Vendor() string { return "NVIDIA" }
func (f *fakeGPU) ReadGPUs(ctx context.Context) ([]GPUReading, error) {
	return f.gpus, f.err
}

type fakeNPU struct {
	busy []time.Duration
	err  error
	n    int
}

func (f *fakeNPU) ReadNPUs(ctx context.Context) ([]NPUReading, error) {
	if f.err != nil {
		return nil, f.err
	}
	b := f.busy[min(f.n, len(f.busy)-1)]
	f.n++
	return []NPUReading{{Index: 0, Name: "accel0", Busy: b}}, nil
}

type fakeBattery struct {
	r   BatteryReading
	err error
}

func (f *fakeBattery) ReadBattery(ctx context.Context) (BatteryReading, error) { return f.r, f.err }

type fakeSystem struct{ r SystemReading }

func (f *fakeSystem) ReadSystem(ctx context.Context) (SystemReading, error) { return f.r, nil }

type sentSignal struct {
	pid int32
	sig Signal
}

type fakeProcesses struct {
	procs []ProcessInfo
	sent  []sentSignal
	err   error
}

func (f *fakeProcesses) ReadProcesses(ctx context.Context) ([]ProcessInfo, error) {
	return f.procs, f.err
}

func (f *fakeProcesses) Signal(ctx context.Context, pid int32, sig Signal) error {
	f.sent = append(f.sent, sentSignal{pid, sig})
	return f.err
}

// clock returns a now func stepping through the given millisecond offsets.
func clock(ms ...int) func() time.Time {
	i := 0
	return func() time.Time {
		t := at(ms[min(i, len(ms)-1)])
		i++
		return t
	}
}

func fakeSources() Sources {
	return Sources{
		CPU:         &fakeCPU{readings: []CPUReading{{Total: 25, PerCore: []float64{10, 40}, LoadAvg: [3]float64{0.5, 0.4, 0.3}}}},
		Memory:      &fakeMemory{r: MemoryReading{Total: 1000, Used: 250, SwapTotal: 100, SwapUsed: 10}},
		Network:     &fakeNetwork{counters: [][]NetCounters{{{Interface: "eth0", RxBytes: 0, TxBytes: 0}}}},
		Disk:        &fakeDisk{disks: []DiskUsage{{Mount: "/", Percent: 40}}, io: []DiskIO{{}}},
		Temperature: &fakeTemps{readings: []SensorReading{{Name: "cpu", Celsius: 50}}},
		System:      &fakeSystem{r: SystemReading{Hostname: "box", OS: "linux"}},
		Process:     &fakeProcesses{procs: []ProcessInfo{{PID: 1, Name: "init"}}},
	}
}
