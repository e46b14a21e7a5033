package monitor

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// SortOrder determines how the process list is ordered.
type SortOrder int

const (
	SortByCPU SortOrder = iota
	SortByMemory
	SortByPID
	SortByName
	SortByUser
)

// String returns a human-readable sort order name.
func (s SortOrder) String() string {
	switch s {
	case SortByCPU:
		return "cpu"
	case SortByMemory:
		return "memory"
	case SortByPID:
		return "pid"
	case SortByName:
		return "name"
	case SortByUser:
		return "user"
	default:
		return "unknown"
	}
}

// Signal is a signal deliverable to a process.
type Signal int

const (
	SignalTerm Signal = iota
	SignalKill
	SignalInt
	SignalHup
	SignalQuit
	SignalStop
	SignalCont
	SignalUsr1
	SignalUsr2
)

// Signals lists every signal in menu order.
var Signals = []Signal{SignalTerm, SignalKill, SignalInt, SignalHup, SignalQuit, SignalStop, SignalCont, SignalUsr1, SignalUsr2}

// String returns the signal name without the SIG prefix.
func (s Signal) String() string {
	switch s {
	case SignalTerm:
		return "TERM"
	case SignalKill:
		return "KILL"
	case SignalInt:
		return "INT"
	case SignalHup:
		return "HUP"
	case SignalQuit:
		return "QUIT"
	case SignalStop:
		return "STOP"
	case SignalCont:
		return "CONT"
	case SignalUsr1:
		return "USR1"
	case SignalUsr2:
		return "USR2"
	default:
		return fmt.Sprintf("signal(%d)", int(s))
	}
}

// Description explains what the signal does.
func (s Signal) Description() string {
	switch s {
	case SignalTerm:
		return "Graceful termination"
	case SignalKill:
		return "Force kill (cannot be ignored)"
	case SignalInt:
		return "Interrupt from keyboard"
	case SignalHup:
		return "Hangup / reload configuration"
	case SignalQuit:
		return "Quit with core dump"
	case SignalStop:
		return "Pause the process (cannot be ignored)"
	case SignalCont:
		return "Resume a stopped process"
	case SignalUsr1:
		return "User-defined signal 1"
	case SignalUsr2:
		return "User-defined signal 2"
	default:
		return ""
	}
}

// ProcessOptions configures filtering of the process list.
type ProcessOptions struct {
	MaxRows     int  // 0 means unlimited
	ShowKernel  bool // include kernel threads
	ShowSelf    bool // include this process
	SelfPID     int32
	InitialSort SortOrder
}

// ProcessRow is a process as displayed, with its depth in tree view.
type ProcessRow struct {
	ProcessInfo
	Depth int
}

// ProcessMonitor keeps the latest process list and the user's view of it.
type ProcessMonitor struct {
	src     ProcessSource
	opts    ProcessOptions
	all     []ProcessInfo
	order   SortOrder
	reverse bool
	tree    bool
	filter  *regexp.Regexp
}

// NewProcessMonitor creates a process monitor.
func NewProcessMonitor(src ProcessSource, opts ProcessOptions) *ProcessMonitor {
	return &ProcessMonitor{src: src, opts: opts, order: opts.InitialSort}
}

// Update re-reads the process table.
func (m *ProcessMonitor) Update(ctx context.Context) error {
	procs, err := m.src.ReadProcesses(ctx)
	if err != nil {
		return fmt.Errorf("read processes: %w", err)
	}
	m.all = procs
	return nil
}

// SetSort changes the sort order. Choosing the active order again flips the
// direction.
func (m *ProcessMonitor) SetSort(order SortOrder) {
	if m.order == order {
		m.reverse = !m.reverse
		return
	}
	m.order = order
	m.reverse = false
}

// Sort returns the sort order and whether it is reversed.
func (m *ProcessMonitor) Sort() (SortOrder, bool) { return m.order, m.reverse }

// ToggleReverse flips the sort direction.
func (m *ProcessMonitor) ToggleReverse() { m.reverse = !m.reverse }

// ToggleTree switches between flat and tree view.
func (m *ProcessMonitor) ToggleTree() { m.tree = !m.tree }

// Tree reports whether tree view is on.
func (m *ProcessMonitor) Tree() bool { return m.tree }

// SetFilter matches rows by name, command or user. Plain text is matched
// case-insensitively; an invalid regular expression is an error and leaves
// the previous filter in place. An empty pattern clears the filter.
func (m *ProcessMonitor) SetFilter(pattern string) error {
	if pattern == "" {
		m.filter = nil
		return nil
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return fmt.Errorf("invalid filter %q: %w", pattern, err)
	}
	m.filter = re
	return nil
}

// Filter returns the active filter pattern.
func (m *ProcessMonitor) Filter() string {
	if m.filter == nil {
		return ""
	}
	return strings.TrimPrefix(m.filter.String(), "(?i)")
}

// Total returns the number of processes before filtering.
func (m *ProcessMonitor) Total() int { return len(m.all) }

// Rows returns the visible process list: filtered, sorted, optionally arranged
// as a tree, and capped at MaxRows.
func (m *ProcessMonitor) Rows() []ProcessRow {
	visible := make([]ProcessInfo, 0, len(m.all))
	for _, p := range m.all {
		if m.hidden(p) {
			continue
		}
		visible = append(visible, p)
	}
	m.sortProcs(visible)

	var rows []ProcessRow
	if m.tree {
		rows = buildTree(visible)
	} else {
		rows = make([]ProcessRow, len(visible))
		for i, p := range visible {
			rows[i] = ProcessRow{ProcessInfo: p}
		}
	}

	if m.opts.MaxRows > 0 && len(rows) > m.opts.MaxRows {
		rows = rows[:m.opts.MaxRows]
	}
	return rows
}

func (m *ProcessMonitor) hidden(p ProcessInfo) bool {
	if p.Kernel && !m.opts.ShowKernel {
		return true
	}
	if !m.opts.ShowSelf && m.opts.SelfPID != 0 && p.PID == m.opts.SelfPID {
		return true
	}
	if m.filter != nil {
		return !m.filter.MatchString(p.Name) && !m.filter.MatchString(p.Command) && !m.filter.MatchString(p.User)
	}
	return false
}

func (m *ProcessMonitor) sortProcs(procs []ProcessInfo) {
	less := func(a, b ProcessInfo) bool {
		switch m.order {
		case SortByMemory:
			if a.MemPercent != b.MemPercent {
				return a.MemPercent > b.MemPercent
			}
		case SortByPID:
			return a.PID < b.PID
		case SortByName:
			if an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name); an != bn {
				return an < bn
			}
		case SortByUser:
			if a.User != b.User {
				return a.User < b.User
			}
		default:
			if a.CPU != b.CPU {
				return a.CPU > b.CPU
			}
		}
		return a.PID < b.PID
	}
	sort.SliceStable(procs, func(i, j int) bool {
		if m.reverse {
			return less(procs[j], procs[i])
		}
		return less(procs[i], procs[j])
	})
}

// buildTree orders procs depth-first under their parents, keeping the given
// sibling order. Processes whose parent is not in the list are roots.
func buildTree(procs []ProcessInfo) []ProcessRow {
	present := make(map[int32]bool, len(procs))
	for _, p := range procs {
		present[p.PID] = true
	}
	children := make(map[int32][]ProcessInfo)
	var roots []ProcessInfo
	for _, p := range procs {
		if p.PPID != p.PID && present[p.PPID] {
			children[p.PPID] = append(children[p.PPID], p)
		} else {
			roots = append(roots, p)
		}
	}

	rows := make([]ProcessRow, 0, len(procs))
	visited := make(map[int32]bool, len(procs))
	var walk func(p ProcessInfo, depth int)
	walk = func(p ProcessInfo, depth int) {
		if visited[p.PID] {
			return
		}
		visited[p.PID] = true
		rows = append(rows, ProcessRow{ProcessInfo: p, Depth: depth})
		for _, c := range children[p.PID] {
			walk(c, depth+1)
		}
	}
	for _, r := range roots {
		walk(r, 0)
	}
	// Cycles have no root; emit them flat.
	for _, p := range procs {
		walk(p, 0)
	}
	return rows
}

// Find returns the process with the given PID from the latest update.
func (m *ProcessMonitor) Find(pid int32) (ProcessInfo, bool) {
	for _, p := range m.all {
		if p.PID == pid {
			return p, true
		}
	}
	return ProcessInfo{}, false
}

// Signal delivers sig to pid.
func (m *ProcessMonitor) Signal(ctx context.Context, pid int32, sig Signal) error {
	if pid <= 0 {
		return fmt.Errorf("invalid pid %d", pid)
	}
	return m.src.Signal(ctx, pid, sig)
}
