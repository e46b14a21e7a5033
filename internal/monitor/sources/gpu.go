package sources

import (
	"context"
	"errors"
	"fmt"

	"github.com/rileyhilliard/rtop/internal/exec"
	"github.com/rileyhilliard/rtop/internal/monitor"
	"github.com/rileyhilliard/rtop/internal/monitor/parsers"
)

// GPU reads GPUs through a vendor command line tool.
type GPU struct {
	vendor string
	tool   string
	args   []string
	parse  func(string) ([]monitor.GPUReading, error)
	runner exec.Runner
}

var _ monitor.GPUSource = (*GPU)(nil)

// NewNvidiaGPU reads NVIDIA GPUs with nvidia-smi at path.
func NewNvidiaGPU(runner exec.Runner, path string) *GPU {
	return &GPU{vendor: "NVIDIA", tool: path, args: parsers.NvidiaSMIArgs(), parse: parsers.ParseNvidiaSMI, runner: runner}
}

// NewAMDGPU reads AMD GPUs with rocm-smi at path.
func NewAMDGPU(runner exec.Runner, path string) *GPU {
	return &GPU{vendor: "AMD", tool: path, args: parsers.RocmSMIArgs(), parse: parsers.ParseRocmSMI, runner: runner}
}

// Vendor implements monitor.GPUSource.
func (g *GPU) Vendor() string { return g.vendor }

// ReadGPUs implements monitor.GPUSource. A missing tool or driver, or a
// tool reporting no devices, is monitor.ErrUnavailable.
func (g *GPU) ReadGPUs(ctx context.Context) ([]monitor.GPUReading, error) {
	out, err := exec.Output(ctx, g.runner, g.tool, g.args...)
	if errors.Is(err, exec.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", g.tool, monitor.ErrUnavailable)
	}
	if err != nil {
		return nil, err
	}
	gpus, err := g.parse(string(out))
	if err != nil {
		return nil, err
	}
	if len(gpus) == 0 {
		return nil, monitor.ErrUnavailable
	}
	return gpus, nil
}

// DetectGPU returns the first vendor whose tool is installed, or nil.
// NVIDIA is preferred when both are present.
func DetectGPU(runner exec.Runner) *GPU {
	if path, ok := exec.LookPath("nvidia-smi"); ok {
		return NewNvidiaGPU(runner, path)
	}
	if path, ok := exec.LookPath("rocm-smi"); ok {
		return NewAMDGPU(runner, path)
	}
	return nil
}
