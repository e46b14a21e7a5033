package sources

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/rileyhilliard/rtop/internal/monitor"
)

// Processes lists processes through gopsutil. Handles are kept between
// reads so CPU percentages are measured over the refresh interval.
type Processes struct {
	mu    sync.Mutex
	cache map[int32]*procEntry
}

type procEntry struct {
	proc    *process.Process
	name    string
	user    string
	command string
	ppid    int32
}

var _ monitor.ProcessSource = (*Processes)(nil)

// NewProcesses returns a process source.
func NewProcesses() *Processes {
	return &Processes{cache: make(map[int32]*procEntry)}
}

// ReadProcesses implements monitor.ProcessSource. Processes that exit while
// being read are dropped silently.
func (s *Processes) ReadProcesses(ctx context.Context) ([]monitor.ProcessInfo, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	live := make(map[int32]bool, len(procs))
	out := make([]monitor.ProcessInfo, 0, len(procs))
	for _, p := range procs {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		e, ok := s.cache[p.Pid]
		if !ok {
			e = newProcEntry(ctx, p)
			s.cache[p.Pid] = e
		}
		live[p.Pid] = true

		info, ok := e.read(ctx)
		if !ok {
			continue
		}
		out = append(out, info)
	}

	for pid := range s.cache {
		if !live[pid] {
			delete(s.cache, pid)
		}
	}
	return out, nil
}

// newProcEntry reads the fields that do not change over a process lifetime.
func newProcEntry(ctx context.Context, p *process.Process) *procEntry {
	e := &procEntry{proc: p}
	e.name, _ = p.NameWithContext(ctx)
	e.user, _ = p.UsernameWithContext(ctx)
	e.ppid, _ = p.PpidWithContext(ctx)
	if cmd, err := p.CmdlineWithContext(ctx); err == nil {
		e.command = cmd
	}
	// Windows reports usernames as DOMAIN\user.
	if i := strings.LastIndexByte(e.user, '\\'); i >= 0 {
		e.user = e.user[i+1:]
	}
	return e
}

func (e *procEntry) read(ctx context.Context) (monitor.ProcessInfo, bool) {
	p := e.proc
	cpuPct, err := p.PercentWithContext(ctx, 0)
	if err != nil {
		return monitor.ProcessInfo{}, false
	}
	info := monitor.ProcessInfo{
		PID:     p.Pid,
		PPID:    e.ppid,
		Name:    e.name,
		User:    e.user,
		Command: e.command,
		CPU:     cpuPct,
		Kernel:  isKernelThread(p.Pid, e.ppid, e.command),
	}
	if pct, err := p.MemoryPercentWithContext(ctx); err == nil {
		info.MemPercent = float64(pct)
	}
	if mi, err := p.MemoryInfoWithContext(ctx); err == nil && mi != nil {
		info.RSS = mi.RSS
	}
	if n, err := p.NumThreadsWithContext(ctx); err == nil {
		info.Threads = n
	}
	if st, err := p.StatusWithContext(ctx); err == nil && len(st) > 0 {
		info.State = st[0]
	}
	return info, true
}

// isKernelThread reports Linux kernel threads: kthreadd and its children,
// which have no command line.
func isKernelThread(pid, ppid int32, command string) bool {
	if runtime.GOOS != "linux" {
		return false
	}
	return pid == 2 || ppid == 2 || (pid > 1 && ppid == 0 && command == "")
}

// Signal implements monitor.ProcessSource.
func (s *Processes) Signal(ctx context.Context, pid int32, sig monitor.Signal) error {
	if pid == int32(os.Getpid()) && (sig == monitor.SignalStop || sig == monitor.SignalKill) {
		return fmt.Errorf("refusing to send %s to rtop itself", sig)
	}
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return fmt.Errorf("process %d: %w", pid, err)
	}
	return sendSignal(ctx, p, sig)
}
