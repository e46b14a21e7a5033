//go:build windows

package sources

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/rileyhilliard/rtop/internal/monitor"
)

// Windows can only terminate processes.
func sendSignal(ctx context.Context, p *process.Process, sig monitor.Signal) error {
	switch sig {
	case monitor.SignalTerm, monitor.SignalKill:
		if err := p.KillWithContext(ctx); err != nil {
			return fmt.Errorf("terminate %d: %w", p.Pid, err)
		}
		return nil
	}
	return fmt.Errorf("%s is not supported on Windows", sig)
}
