package sources

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rileyhilliard/rtop/internal/monitor"
	"github.com/rileyhilliard/rtop/internal/monitor/parsers"
)

// DefaultAccelRoot is where Linux exposes compute accelerators.
const DefaultAccelRoot = "/sys/class/accel"

// NPU reads accelerator busy counters from the accel sysfs class.
type NPU struct {
	root string
}

var _ monitor.NPUSource = (*NPU)(nil)

// NewNPU reads accelerators under root.
func NewNPU(root string) *NPU { return &NPU{root: root} }

// ReadNPUs implements monitor.NPUSource. Devices without a busy counter are
// skipped; no usable device is monitor.ErrUnavailable.
func (n *NPU) ReadNPUs(ctx context.Context) ([]monitor.NPUReading, error) {
	entries, err := os.ReadDir(n.root)
	if os.IsNotExist(err) {
		return nil, monitor.ErrUnavailable
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", n.root, err)
	}

	var out []monitor.NPUReading
	for _, e := range entries {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		idx, ok := accelIndex(e.Name())
		if !ok {
			continue
		}
		dev := filepath.Join(n.root, e.Name(), "device")
		raw, err := os.ReadFile(filepath.Join(dev, "npu_busy_time_us"))
		if err != nil {
			continue
		}
		busy, err := parsers.ParseNPUBusyTime(string(raw))
		if err != nil {
			return nil, err
		}
		out = append(out, monitor.NPUReading{Index: idx, Name: npuName(dev, e.Name()), Busy: busy})
	}
	if len(out) == 0 {
		return nil, monitor.ErrUnavailable
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

func accelIndex(name string) (int, bool) {
	rest, ok := strings.CutPrefix(name, "accel")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	return n, err == nil
}

// npuName names a device after its kernel driver, e.g. "intel_vpu".
func npuName(dev, fallback string) string {
	link, err := os.Readlink(filepath.Join(dev, "driver"))
	if err != nil {
		return fallback
	}
	return filepath.Base(link)
}
