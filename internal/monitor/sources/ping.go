package sources

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/rileyhilliard/rtop/internal/exec"
	"github.com/rileyhilliard/rtop/internal/monitor"
	"github.com/rileyhilliard/rtop/internal/monitor/parsers"
)

// Ping measures latency by running the system ping with a single probe.
type Ping struct {
	runner exec.Runner
	path   string
	goos   string
}

var _ monitor.Pinger = (*Ping)(nil)

// NewPing returns a pinger, or nil when no ping binary is installed.
func NewPing(runner exec.Runner) *Ping {
	path, ok := exec.LookPath("ping")
	if !ok {
		return nil
	}
	return &Ping{runner: runner, path: path, goos: runtime.GOOS}
}

// Ping implements monitor.Pinger.
func (p *Ping) Ping(ctx context.Context, host string, timeout time.Duration) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout+500*time.Millisecond)
	defer cancel()

	out, err := exec.Output(ctx, p.runner, p.path, p.args(host, timeout)...)
	if errors.Is(err, exec.ErrNotFound) {
		return 0, monitor.ErrUnavailable
	}
	if err != nil {
		return 0, fmt.Errorf("ping %s: %w", host, err)
	}
	return parsers.ParsePingLatency(string(out))
}

// args builds a single-probe invocation. -W takes seconds on Linux and
// milliseconds on macOS and the BSDs.
func (p *Ping) args(host string, timeout time.Duration) []string {
	switch p.goos {
	case "windows":
		return []string{"-n", "1", "-w", strconv.FormatInt(timeout.Milliseconds(), 10), host}
	case "linux":
		secs := int(timeout.Round(time.Second) / time.Second)
		if secs < 1 {
			secs = 1
		}
		return []string{"-c", "1", "-W", strconv.Itoa(secs), host}
	default:
		return []string{"-c", "1", "-W", strconv.FormatInt(timeout.Milliseconds(), 10), host}
	}
}
