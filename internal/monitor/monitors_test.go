package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/rtop/internal/logger"
)

func TestCPUMonitor(t *testing.T) {
	src := &fakeCPU{readings: []CPUReading{
		{Total: 10, PerCore: []float64{5, 15}},
		{Total: 30, PerCore: []float64{20, 40}},
	}}
	m, err := NewCPUMonitor(src, 4)
	require.NoError(t, err)

	_, ok := m.Latest()
	assert.False(t, ok)

	require.NoError(t, m.Update(context.Background()))
	require.NoError(t, m.Update(context.Background()))

	assert.Equal(t, []float64{0, 0, 10, 30}, m.Total().Snapshot())
	require.Len(t, m.Cores(), 2)
	assert.Equal(t, []float64{0, 0, 15, 40}, m.Cores()[1].Snapshot())

	r, ok := m.Latest()
	assert.True(t, ok)
	assert.Equal(t, 30.0, r.Total)
}

func TestCPUMonitor_FailureKeepsHistory(t *testing.T) {
	src := &fakeCPU{readings: []CPUReading{{Total: 50}}}
	m, err := NewCPUMonitor(src, 3)
	require.NoError(t, err)
	require.NoError(t, m.Update(context.Background()))

	src.err = errFake
	require.ErrorIs(t, m.Update(context.Background()), errFake)
	assert.Equal(t, []float64{0, 0, 50}, m.Total().Snapshot())
}

func TestCPUMonitor_InvalidSize(t *testing.T) {
	_, err := NewCPUMonitor(&fakeCPU{}, 0)
	assert.ErrorIs(t, err, ErrInvalidCapacity)
}

func TestMemoryMonitor(t *testing.T) {
	src := &fakeMemory{r: MemoryReading{Total: 8 << 30, Used: 2 << 30, SwapTotal: 0}}
	m, err := NewMemoryMonitor(src, 2)
	require.NoError(t, err)

	require.NoError(t, m.Update(context.Background()))
	assert.Equal(t, 25.0, m.RAM().Latest())
	assert.Equal(t, 0.0, m.Swap().Latest(), "no swap is 0%")
	assert.Equal(t, uint64(8<<30), m.Latest().Total)
}

func TestNetworkMonitor_RatesSkipLoopback(t *testing.T) {
	src := &fakeNetwork{counters: [][]NetCounters{
		{{Interface: "lo", RxBytes: 0}, {Interface: "eth0", RxBytes: 1000, TxBytes: 500}, {Interface: "wlan0", RxBytes: 0}},
		{{Interface: "lo", RxBytes: 1 << 30}, {Interface: "eth0", RxBytes: 3000, TxBytes: 1500}, {Interface: "wlan0", RxBytes: 100}},
	}}
	m, err := NewNetworkMonitor(src, nil, 3, NetworkOptions{RateFloor: 4000})
	require.NoError(t, err)
	m.now = clock(0, 1000)

	ctx := context.Background()
	require.NoError(t, m.Update(ctx))
	require.NoError(t, m.Update(ctx))

	rx, tx := m.Rates()
	assert.Equal(t, 2100.0, rx)
	assert.Equal(t, 1000.0, tx)
	assert.Equal(t, "eth0", m.ActiveInterface())

	totalRx, totalTx := m.Totals()
	assert.Equal(t, uint64(3100), totalRx)
	assert.Equal(t, uint64(1500), totalTx)

	assert.InDelta(t, 52.5, m.Rx().Latest(), 1e-9)
	assert.InDelta(t, 25.0, m.Tx().Latest(), 1e-9)
}

func TestNetworkMonitor_PingFirstHostWins(t *testing.T) {
	src := &fakeNetwork{counters: [][]NetCounters{{{Interface: "eth0"}}}}
	pinger := &fakePinger{latency: map[string]time.Duration{"1.1.1.1": 20 * time.Millisecond}}
	m, err := NewNetworkMonitor(src, pinger, 3, NetworkOptions{
		PingHosts:    []string{"8.8.8.8", "1.1.1.1"},
		PingInterval: 3 * time.Second,
	})
	require.NoError(t, err)
	m.now = clock(0, 1000, 3000)

	ctx := context.Background()
	require.NoError(t, m.Update(ctx))
	assert.Equal(t, []string{"8.8.8.8", "1.1.1.1"}, pinger.calls)

	d, ok := m.LastLatency()
	assert.True(t, ok)
	assert.Equal(t, 20*time.Millisecond, d)
	assert.InDelta(t, 2.0, m.Latency().Latest(), 1e-9)

	require.NoError(t, m.Update(ctx))
	assert.Len(t, pinger.calls, 2, "not pinged before the interval")

	require.NoError(t, m.Update(ctx))
	assert.Len(t, pinger.calls, 4)
}

func TestNetworkMonitor_PingAllFail(t *testing.T) {
	src := &fakeNetwork{counters: [][]NetCounters{{{Interface: "eth0"}}}}
	pinger := &fakePinger{}
	m, err := NewNetworkMonitor(src, pinger, 2, NetworkOptions{PingHosts: []string{"10.0.0.1"}})
	require.NoError(t, err)

	require.NoError(t, m.Update(context.Background()))
	_, ok := m.LastLatency()
	assert.False(t, ok)
}

func TestDiskMonitor(t *testing.T) {
	src := &fakeDisk{
		disks: []DiskUsage{{Mount: "/home", Percent: 70}, {Mount: "/", Percent: 40}},
		io:    []DiskIO{{ReadBytes: 0, WriteBytes: 0}, {ReadBytes: 2048, WriteBytes: 1024}},
	}
	m, err := NewDiskMonitor(src, 3, 2048)
	require.NoError(t, err)
	m.now = clock(0, 1000)

	ctx := context.Background()
	require.NoError(t, m.Update(ctx))
	require.NoError(t, m.Update(ctx))

	require.Len(t, m.Disks(), 2)
	assert.Equal(t, "/", m.Disks()[0].Mount, "sorted by mount")

	h, ok := m.Usage("/home")
	require.True(t, ok)
	assert.Equal(t, []float64{0, 70, 70}, h.Snapshot())

	read, write := m.Rates()
	assert.Equal(t, 2048.0, read)
	assert.Equal(t, 1024.0, write)
	assert.Equal(t, 100.0, m.Read().Latest())
	assert.Equal(t, 50.0, m.Write().Latest())
}

func TestDiskMonitor_IOFailureKeepsUsage(t *testing.T) {
	src := &fakeDisk{disks: []DiskUsage{{Mount: "/", Percent: 10}}, ioErr: errFake}
	m, err := NewDiskMonitor(src, 2, 0)
	require.NoError(t, err)

	require.ErrorIs(t, m.Update(context.Background()), errFake)
	h, ok := m.Usage("/")
	require.True(t, ok)
	assert.Equal(t, 10.0, h.Latest())
}

func TestTemperatureMonitor(t *testing.T) {
	src := &fakeTemps{readings: []SensorReading{
		{Name: "nvme", Celsius: 40},
		{Name: "cpu", Celsius: 60},
		{Name: "bogus", Celsius: 0},
	}}
	m, err := NewTemperatureMonitor(src, 2)
	require.NoError(t, err)

	require.NoError(t, m.Update(context.Background()))
	assert.Equal(t, 50.0, m.Average().Latest())
	require.Len(t, m.Sensors(), 2)
	assert.Equal(t, "cpu", m.Sensors()[0].Name)

	hottest, ok := m.Max()
	require.True(t, ok)
	assert.Equal(t, "cpu", hottest.Name)

	_, ok = m.Sensor("bogus")
	assert.False(t, ok)
}

func TestTemperatureMonitor_Unavailable(t *testing.T) {
	m, err := NewTemperatureMonitor(&fakeTemps{err: ErrUnavailable}, 2)
	require.NoError(t, err)

	require.NoError(t, m.Update(context.Background()))
	assert.False(t, m.Available())
	require.NoError(t, m.Update(context.Background()))
}

func TestTemperatureMonitor_PartialFailureKeepsReadings(t *testing.T) {
	src := &fakeTemps{readings: []SensorReading{{Name: "cpu", Celsius: 55}}, err: errFake}
	m, err := NewTemperatureMonitor(src, 2)
	require.NoError(t, err)

	require.NoError(t, m.Update(context.Background()))
	assert.Equal(t, 55.0, m.Average().Latest())
}

func TestGPUMonitor(t *testing.T) {
	src := &fakeGPU{gpus: []GPUReading{
		{Index: 0, Name: "A", Utilization: 80, MemoryUsed: 1, MemoryTotal: 4},
		{Index: 1, Name: "B", Utilization: 10, MemoryUsed: 0, MemoryTotal: 0},
	}}
	m, err := NewGPUMonitor(src, 3)
	require.NoError(t, err)
	assert.True(t, m.Available())
	assert.Equal(t, "NVIDIA", m.Vendor())

	require.NoError(t, m.Update(context.Background()))
	u, ok := m.Utilization(0)
	require.True(t, ok)
	assert.Equal(t, 80.0, u.Latest())
	mem, ok := m.Memory(0)
	require.True(t, ok)
	assert.Equal(t, 25.0, mem.Latest())
	mem, _ = m.Memory(1)
	assert.Equal(t, 0.0, mem.Latest())

	_, ok = m.Utilization(5)
	assert.False(t, ok)
}

func TestGPUMonitor_Disabled(t *testing.T) {
	m, err := NewGPUMonitor(nil, 3)
	require.NoError(t, err)
	assert.False(t, m.Available())
	assert.Equal(t, "", m.Vendor())
	require.NoError(t, m.Update(context.Background()))

	m, err = NewGPUMonitor(&fakeGPU{err: ErrUnavailable}, 3)
	require.NoError(t, err)
	require.NoError(t, m.Update(context.Background()))
	assert.False(t, m.Available())

	m, err = NewGPUMonitor(&fakeGPU{err: errFake}, 3)
	require.NoError(t, err)
	assert.ErrorIs(t, m.Update(context.Background()), errFake)
	assert.True(t, m.Available(), "transient errors keep the monitor on")
}

func TestNPUMonitor_BusyDelta(t *testing.T) {
	src := &fakeNPU{busy: []time.Duration{0, 250 * time.Millisecond, 1250 * time.Millisecond}}
	m, err := NewNPUMonitor(src, 3)
	require.NoError(t, err)
	m.now = clock(0, 1000, 2000)

	ctx := context.Background()
	require.NoError(t, m.Update(ctx))
	assert.Equal(t, 1, m.Count())
	assert.Equal(t, "accel0", m.Name(0))

	require.NoError(t, m.Update(ctx))
	assert.InDelta(t, 25.0, m.Current(0), 1e-9)

	require.NoError(t, m.Update(ctx))
	assert.Equal(t, 100.0, m.Current(0))

	h, ok := m.Utilization(0)
	require.True(t, ok)
	assert.Equal(t, []float64{0, 25, 100}, h.Snapshot())
}

func TestNPUMonitor_Unavailable(t *testing.T) {
	m, err := NewNPUMonitor(&fakeNPU{err: ErrUnavailable}, 2)
	require.NoError(t, err)
	require.NoError(t, m.Update(context.Background()))
	assert.False(t, m.Available())

	m, err = NewNPUMonitor(nil, 2)
	require.NoError(t, err)
	assert.False(t, m.Available())
}

func TestBatteryMonitor(t *testing.T) {
	src := &fakeBattery{r: BatteryReading{Percent: 77, State: BatteryDischarging, Remaining: 90 * time.Minute}}
	m, err := NewBatteryMonitor(src, 2)
	require.NoError(t, err)

	_, ok := m.Latest()
	assert.False(t, ok)

	require.NoError(t, m.Update(context.Background()))
	r, ok := m.Latest()
	require.True(t, ok)
	assert.Equal(t, BatteryDischarging, r.State)
	assert.Equal(t, 77.0, m.Charge().Latest())

	src.err = ErrUnavailable
	require.NoError(t, m.Update(context.Background()))
	assert.False(t, m.Available())
}

func TestSystemMonitor(t *testing.T) {
	m := NewSystemMonitor(&fakeSystem{r: SystemReading{Hostname: "box", Uptime: time.Hour}})
	require.NoError(t, m.Update(context.Background()))
	assert.Equal(t, "box", m.Latest().Hostname)
}

func TestNewMonitors_RegisterOrder(t *testing.T) {
	ms, err := NewMonitors(fakeSources(), Options{HistorySize: 5})
	require.NoError(t, err)

	s := NewScheduler(t0, WithLogger(logger.Noop()))
	cadences := Cadences{
		CategoryProcess:     2 * time.Second,
		CategoryCPU:         time.Second,
		CategoryDisk:        2 * time.Second,
		CategoryMemory:      time.Second,
		CategoryNetwork:     time.Second,
		CategoryTemperature: time.Second,
		CategoryGPU:         time.Second,
		CategorySystem:      time.Second,
	}
	require.NoError(t, ms.Register(s, cadences, map[Category]bool{CategoryTemperature: false}))

	assert.Equal(t, []Category{
		CategoryCPU, CategoryMemory, CategoryNetwork, CategoryGPU,
		CategorySystem, CategoryDisk, CategoryProcess,
	}, s.Categories())

	fired := s.Tick(context.Background(), at(2000))
	assert.Len(t, fired, 7)
	assert.Equal(t, 25.0, ms.CPU.Total().Latest())
	assert.Equal(t, "box", ms.System.Latest().Hostname)
	assert.Equal(t, 1, ms.Process.Total())
}

func TestNewMonitors_InvalidSize(t *testing.T) {
	_, err := NewMonitors(fakeSources(), Options{HistorySize: -1})
	assert.ErrorIs(t, err, ErrInvalidCapacity)
}
