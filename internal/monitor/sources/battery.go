package sources

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rileyhilliard/rtop/internal/exec"
	"github.com/rileyhilliard/rtop/internal/monitor"
	"github.com/rileyhilliard/rtop/internal/monitor/parsers"
)

// DefaultPowerSupplyRoot is where Linux exposes batteries.
const DefaultPowerSupplyRoot = "/sys/class/power_supply"

// SysfsBattery reads the first battery under a power_supply directory.
type SysfsBattery struct {
	root string
}

var _ monitor.BatterySource = (*SysfsBattery)(nil)

// NewSysfsBattery reads batteries under root.
func NewSysfsBattery(root string) *SysfsBattery { return &SysfsBattery{root: root} }

// ReadBattery implements monitor.BatterySource.
func (b *SysfsBattery) ReadBattery(_ context.Context) (monitor.BatteryReading, error) {
	matches, err := filepath.Glob(filepath.Join(b.root, "*", "uevent"))
	if err != nil {
		return monitor.BatteryReading{}, fmt.Errorf("glob power supplies: %w", err)
	}
	sort.Strings(matches)
	for _, path := range matches {
		raw, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if !strings.Contains(string(raw), "POWER_SUPPLY_TYPE=Battery") {
			continue
		}
		r, err := parsers.ParseBatteryUevent(string(raw))
		if errors.Is(err, monitor.ErrUnavailable) {
			continue
		}
		return r, err
	}
	return monitor.BatteryReading{}, monitor.ErrUnavailable
}

// PmsetBattery reads the internal battery of a Mac.
type PmsetBattery struct {
	runner exec.Runner
}

var _ monitor.BatterySource = (*PmsetBattery)(nil)

// NewPmsetBattery returns a pmset-backed battery source.
func NewPmsetBattery(runner exec.Runner) *PmsetBattery { return &PmsetBattery{runner: runner} }

// ReadBattery implements monitor.BatterySource.
func (b *PmsetBattery) ReadBattery(ctx context.Context) (monitor.BatteryReading, error) {
	out, err := exec.Output(ctx, b.runner, "pmset", "-g", "batt")
	if errors.Is(err, exec.ErrNotFound) {
		return monitor.BatteryReading{}, monitor.ErrUnavailable
	}
	if err != nil {
		return monitor.BatteryReading{}, err
	}
	return parsers.ParsePmsetBatt(string(out))
}
