package sources

import (
	"runtime"

	"github.com/rileyhilliard/rtop/internal/exec"
	"github.com/rileyhilliard/rtop/internal/logger"
	"github.com/rileyhilliard/rtop/internal/monitor"
)

// Detect builds the readers available on this machine. Categories whose
// hardware cannot be read at all are left nil so their monitors stay
// disabled from the start.
func Detect(runner exec.Runner, log logger.Logger) monitor.Sources {
	if runner == nil {
		runner = exec.Local{}
	}
	if log == nil {
		log = logger.Default()
	}

	h := Host{}
	src := monitor.Sources{
		CPU:         h,
		Memory:      h,
		Network:     h,
		Disk:        h,
		Temperature: h,
		System:      h,
		Process:     NewProcesses(),
	}

	if p := NewPing(runner); p != nil {
		src.Pinger = p
	} else {
		log.Debug("ping not found, latency disabled")
	}

	if g := DetectGPU(runner); g != nil {
		log.Debug("using %s GPU tool %s", g.Vendor(), g.tool)
		src.GPU = g
	}

	switch runtime.GOOS {
	case "linux":
		src.NPU = NewNPU(DefaultAccelRoot)
		src.Battery = NewSysfsBattery(DefaultPowerSupplyRoot)
	case "darwin":
		src.Battery = NewPmsetBattery(runner)
	}
	return src
}
