// Package sources implements the monitor readers against the running host:
// gopsutil for kernel counters, vendor tools for GPUs, and sysfs or pmset
// for accelerators and batteries.
package sources

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/sensors"

	"github.com/rileyhilliard/rtop/internal/monitor"
)

// Host reads CPU, memory, network, disk, sensor and host information through
// gopsutil.
type Host struct{}

var (
	_ monitor.CPUSource         = Host{}
	_ monitor.MemorySource      = Host{}
	_ monitor.NetworkSource     = Host{}
	_ monitor.DiskSource        = Host{}
	_ monitor.TemperatureSource = Host{}
	_ monitor.SystemSource      = Host{}
)

// ReadCPU implements monitor.CPUSource. Percentages are measured since the
// previous call; the first call after start reports zero.
func (Host) ReadCPU(ctx context.Context) (monitor.CPUReading, error) {
	total, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return monitor.CPUReading{}, fmt.Errorf("cpu percent: %w", err)
	}
	perCore, err := cpu.PercentWithContext(ctx, 0, true)
	if err != nil {
		return monitor.CPUReading{}, fmt.Errorf("per-core cpu percent: %w", err)
	}

	r := monitor.CPUReading{PerCore: perCore}
	if len(total) > 0 {
		r.Total = total[0]
	}
	// Load average does not exist on Windows.
	if avg, err := load.AvgWithContext(ctx); err == nil {
		r.LoadAvg = [3]float64{avg.Load1, avg.Load5, avg.Load15}
	}
	return r, nil
}

// ReadMemory implements monitor.MemorySource.
func (Host) ReadMemory(ctx context.Context) (monitor.MemoryReading, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return monitor.MemoryReading{}, fmt.Errorf("virtual memory: %w", err)
	}
	r := monitor.MemoryReading{
		Total:     vm.Total,
		Used:      vm.Used,
		Available: vm.Available,
		Cached:    vm.Cached,
	}
	if sw, err := mem.SwapMemoryWithContext(ctx); err == nil {
		r.SwapTotal = sw.Total
		r.SwapUsed = sw.Used
	}
	return r, nil
}

// ReadNetwork implements monitor.NetworkSource.
func (Host) ReadNetwork(ctx context.Context) ([]monitor.NetCounters, error) {
	stats, err := net.IOCountersWithContext(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("network counters: %w", err)
	}
	out := make([]monitor.NetCounters, 0, len(stats))
	for _, s := range stats {
		out = append(out, monitor.NetCounters{
			Interface: s.Name,
			RxBytes:   s.BytesRecv,
			TxBytes:   s.BytesSent,
		})
	}
	return out, nil
}

// pseudoFilesystems are never shown as disks.
var pseudoFilesystems = map[string]bool{
	"autofs": true, "binfmt_misc": true, "cgroup": true, "cgroup2": true,
	"configfs": true, "debugfs": true, "devfs": true, "devpts": true,
	"devtmpfs": true, "fusectl": true, "hugetlbfs": true, "mqueue": true,
	"nsfs": true, "overlay": true, "proc": true, "pstore": true,
	"securityfs": true, "squashfs": true, "sysfs": true, "tmpfs": true,
	"tracefs": true, "bpf": true, "efivarfs": true, "nullfs": true,
}

// ReadDisks implements monitor.DiskSource. Pseudo and zero-sized
// filesystems are skipped, as are repeated mounts of one device.
func (Host) ReadDisks(ctx context.Context) ([]monitor.DiskUsage, error) {
	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil && len(parts) == 0 {
		return nil, fmt.Errorf("list partitions: %w", err)
	}

	seen := make(map[string]bool)
	var out []monitor.DiskUsage
	for _, p := range parts {
		if pseudoFilesystems[p.Fstype] || seen[p.Device] {
			continue
		}
		if runtime.GOOS == "darwin" && strings.HasPrefix(p.Mountpoint, "/System/Volumes/") {
			continue
		}
		u, err := disk.UsageWithContext(ctx, p.Mountpoint)
		if err != nil || u.Total == 0 {
			continue
		}
		seen[p.Device] = true
		out = append(out, monitor.DiskUsage{
			Mount:   p.Mountpoint,
			Device:  p.Device,
			FSType:  p.Fstype,
			Total:   u.Total,
			Used:    u.Used,
			Free:    u.Free,
			Percent: u.UsedPercent,
		})
	}
	return out, nil
}

// ReadDiskIO implements monitor.DiskSource.
func (Host) ReadDiskIO(ctx context.Context) (monitor.DiskIO, error) {
	counters, err := disk.IOCountersWithContext(ctx)
	if err != nil {
		return monitor.DiskIO{}, fmt.Errorf("disk counters: %w", err)
	}
	var io monitor.DiskIO
	for _, c := range counters {
		io.ReadBytes += c.ReadBytes
		io.WriteBytes += c.WriteBytes
	}
	return io, nil
}

// ReadTemperatures implements monitor.TemperatureSource. Hosts exposing no
// readable sensors report monitor.ErrUnavailable. Partial failures return the
// readings gathered alongside the error.
func (Host) ReadTemperatures(ctx context.Context) ([]monitor.SensorReading, error) {
	temps, err := sensors.TemperaturesWithContext(ctx)
	out := make([]monitor.SensorReading, 0, len(temps))
	for _, t := range temps {
		out = append(out, monitor.SensorReading{
			Name:     t.SensorKey,
			Celsius:  t.Temperature,
			High:     t.High,
			Critical: t.Critical,
		})
	}
	if len(out) == 0 {
		if err != nil {
			return nil, fmt.Errorf("%w: %v", monitor.ErrUnavailable, err)
		}
		return nil, monitor.ErrUnavailable
	}
	return out, err
}

// ReadSystem implements monitor.SystemSource.
func (Host) ReadSystem(ctx context.Context) (monitor.SystemReading, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return monitor.SystemReading{}, fmt.Errorf("host info: %w", err)
	}
	platform := info.Platform
	if info.PlatformVersion != "" {
		platform += " " + info.PlatformVersion
	}
	return monitor.SystemReading{
		Hostname: info.Hostname,
		OS:       info.OS,
		Platform: strings.TrimSpace(platform),
		Kernel:   info.KernelVersion,
		Arch:     info.KernelArch,
		Uptime:   time.Duration(info.Uptime) * time.Second,
		Procs:    info.Procs,
	}, nil
}
