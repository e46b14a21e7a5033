//go:build !windows

package sources

import (
	"context"
	"fmt"
	"syscall"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/rileyhilliard/rtop/internal/monitor"
)

func systemSignal(sig monitor.Signal) (syscall.Signal, bool) {
	switch sig {
	case monitor.SignalTerm:
		return syscall.SIGTERM, true
	case monitor.SignalKill:
		return syscall.SIGKILL, true
	case monitor.SignalInt:
		return syscall.SIGINT, true
	case monitor.SignalHup:
		return syscall.SIGHUP, true
	case monitor.SignalQuit:
		return syscall.SIGQUIT, true
	case monitor.SignalStop:
		return syscall.SIGSTOP, true
	case monitor.SignalCont:
		return syscall.SIGCONT, true
	case monitor.SignalUsr1:
		return syscall.SIGUSR1, true
	case monitor.SignalUsr2:
		return syscall.SIGUSR2, true
	}
	return 0, false
}

func sendSignal(ctx context.Context, p *process.Process, sig monitor.Signal) error {
	s, ok := systemSignal(sig)
	if !ok {
		return fmt.Errorf("unsupported signal %d", int(sig))
	}
	if err := p.SendSignalWithContext(ctx, s); err != nil {
		return fmt.Errorf("send %s to %d: %w", sig, p.Pid, err)
	}
	return nil
}
