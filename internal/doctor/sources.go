package doctor

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/rileyhilliard/rtop/internal/monitor"
	"github.com/rileyhilliard/rtop/internal/util"
)

// ProbeTimeout bounds a single source probe.
const ProbeTimeout = 3 * time.Second

// SourceCheck reads a metric source once. Required sources fail when they
// cannot be read; optional ones only warn, since most hosts lack some
// hardware.
type SourceCheck struct {
	Label    string
	Optional bool
	Hint     string
	// Probe is nil when no source was detected. It returns a short detail
	// for the report.
	Probe func(ctx context.Context) (string, error)
}

func (c *SourceCheck) Name() string     { return "source_" + c.Label }
func (c *SourceCheck) Category() string { return CategorySources }

func (c *SourceCheck) Run(ctx context.Context) CheckResult {
	if c.Probe == nil {
		return c.missing(c.Label + " not detected")
	}

	ctx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()
	detail, err := c.Probe(ctx)
	switch {
	case stderrors.Is(err, monitor.ErrUnavailable):
		return c.missing(c.Label + " not available on this host")
	case err != nil:
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("%s read failed: %v", c.Label, err),
			Suggestion: c.Hint,
		}
	}

	msg := c.Label
	if detail != "" {
		msg += ": " + detail
	}
	return CheckResult{Name: c.Name(), Status: StatusPass, Message: msg}
}

func (c *SourceCheck) missing(msg string) CheckResult {
	status := StatusFail
	if c.Optional {
		status = StatusWarn
	}
	return CheckResult{Name: c.Name(), Status: status, Message: msg, Suggestion: c.Hint}
}

// NewSourceChecks returns one check per metric source. Latency is probed
// against the first of pingHosts.
func NewSourceChecks(src monitor.Sources, pingHosts []string, pingTimeout time.Duration) []Check {
	checks := []Check{
		&SourceCheck{Label: "cpu", Probe: probeOf(src.CPU, func(ctx context.Context, s monitor.CPUSource) (string, error) {
			r, err := s.ReadCPU(ctx)
			return count(len(r.PerCore), "core", "cores"), err
		})},
		&SourceCheck{Label: "memory", Probe: probeOf(src.Memory, func(ctx context.Context, s monitor.MemorySource) (string, error) {
			r, err := s.ReadMemory(ctx)
			return util.Bytes(r.Total) + " total", err
		})},
		&SourceCheck{Label: "network", Probe: probeOf(src.Network, func(ctx context.Context, s monitor.NetworkSource) (string, error) {
			r, err := s.ReadNetwork(ctx)
			return count(len(r), "interface", "interfaces"), err
		})},
		&SourceCheck{Label: "disk", Probe: probeOf(src.Disk, func(ctx context.Context, s monitor.DiskSource) (string, error) {
			r, err := s.ReadDisks(ctx)
			return count(len(r), "filesystem", "filesystems"), err
		})},
		&SourceCheck{Label: "system", Probe: probeOf(src.System, func(ctx context.Context, s monitor.SystemSource) (string, error) {
			r, err := s.ReadSystem(ctx)
			return r.Hostname, err
		})},
		&SourceCheck{Label: "process", Hint: "Some processes may need elevated permissions to read", Probe: probeOf(src.Process, func(ctx context.Context, s monitor.ProcessSource) (string, error) {
			r, err := s.ReadProcesses(ctx)
			return count(len(r), "process", "processes"), err
		})},
		&SourceCheck{Label: "temperature", Optional: true, Hint: "Install lm-sensors or load your platform's hwmon drivers", Probe: probeOf(src.Temperature, func(ctx context.Context, s monitor.TemperatureSource) (string, error) {
			r, err := s.ReadTemperatures(ctx)
			if err == nil && len(r) == 0 {
				err = monitor.ErrUnavailable
			}
			return count(len(r), "sensor", "sensors"), err
		})},
		&SourceCheck{Label: "gpu", Optional: true, Hint: "Install nvidia-smi or rocm-smi to monitor GPUs", Probe: probeOf(src.GPU, func(ctx context.Context, s monitor.GPUSource) (string, error) {
			r, err := s.ReadGPUs(ctx)
			return s.Vendor() + ", " + count(len(r), "GPU", "GPUs"), err
		})},
		&SourceCheck{Label: "npu", Optional: true, Hint: "NPUs are read from /sys/class/accel on Linux", Probe: probeOf(src.NPU, func(ctx context.Context, s monitor.NPUSource) (string, error) {
			r, err := s.ReadNPUs(ctx)
			return count(len(r), "NPU", "NPUs"), err
		})},
		&SourceCheck{Label: "battery", Optional: true, Probe: probeOf(src.Battery, func(ctx context.Context, s monitor.BatterySource) (string, error) {
			r, err := s.ReadBattery(ctx)
			return fmt.Sprintf("%.0f%% %s", r.Percent, r.State), err
		})},
	}

	latency := &SourceCheck{Label: "latency", Optional: true, Hint: "Install ping or set network.ping_hosts"}
	if src.Pinger != nil && len(pingHosts) > 0 {
		host := pingHosts[0]
		latency.Probe = func(ctx context.Context) (string, error) {
			rtt, err := src.Pinger.Ping(ctx, host, pingTimeout)
			if err != nil {
				return "", fmt.Errorf("ping %s: %w", host, err)
			}
			return fmt.Sprintf("%s in %s", host, rtt.Round(100*time.Microsecond)), nil
		}
	}
	return append(checks, latency)
}

// probeOf wraps read as a probe, or returns nil when the source is missing.
func probeOf[S any](s S, read func(context.Context, S) (string, error)) func(context.Context) (string, error) {
	if any(s) == nil {
		return nil
	}
	return func(ctx context.Context) (string, error) {
		detail, err := read(ctx, s)
		if err != nil {
			return "", err
		}
		return detail, nil
	}
}

func count(n int, singular, plural string) string {
	return fmt.Sprintf("%d %s", n, util.Pluralize(n, singular, plural))
}
