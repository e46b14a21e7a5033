package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/rtop/internal/graph"
	"github.com/rileyhilliard/rtop/internal/logger"
)

// DefaultTickInterval is how often the dashboard asks the scheduler which
// categories are due. It bounds input latency, not refresh cadence.
const DefaultTickInterval = 50 * time.Millisecond

// LayoutMode is the responsive layout picked from the terminal width.
type LayoutMode int

const (
	// LayoutMinimal stacks every panel in one column without per-core detail.
	LayoutMinimal LayoutMode = iota
	// LayoutStandard puts CPU and memory side by side.
	LayoutStandard
	// LayoutWide adds a third column for sensors and accelerators.
	LayoutWide
)

// Width breakpoints for layout modes.
const (
	BreakpointStandard = 100
	BreakpointWide     = 160
)

// ModelConfig carries display settings into the dashboard.
type ModelConfig struct {
	Theme        string
	Colors       bool
	Symbol       graph.Symbol
	Thresholds   Thresholds
	MirrorUpload bool
	// Duration quits the dashboard after it has run this long. Zero runs
	// until the user quits.
	Duration     time.Duration
	TickInterval time.Duration
	Now          func() time.Time
	Log          logger.Logger
}

// Model is the Bubble Tea model for the dashboard. Every monitor is read
// and updated on the Bubble Tea goroutine only.
type Model struct {
	cfg    ModelConfig
	ctx    context.Context
	mons   *Monitors
	sched  *Scheduler
	keys   KeyMap
	styles Styles
	help   help.Model

	width  int
	height int
	page   Page
	symbol graph.Symbol

	showHelp bool
	helpView viewport.Model

	table       table.Model
	rows        []ProcessRow
	filterInput textinput.Model
	filtering   bool
	confirm     *ProcessInfo
	signalMenu  bool
	signalIdx   int
	status      string

	started  time.Time
	lastTick time.Time
	quitting bool
}

// tickMsg drives the scheduler.
type tickMsg time.Time

// NewModel creates the dashboard. ctx is passed to every monitor update;
// cancelling it quits the dashboard on the next tick.
func NewModel(ctx context.Context, mons *Monitors, sched *Scheduler, cfg ModelConfig) Model {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Log == nil {
		cfg.Log = logger.Default()
	}

	styles := NewStyles(cfg.Theme, cfg.Colors)

	fi := textinput.New()
	fi.Prompt = "/"
	fi.Placeholder = "regex on name, command or user"
	fi.CharLimit = 128

	tbl := table.New(
		table.WithColumns(processColumns(80)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	tbl.SetStyles(tableStyles(styles))

	return Model{
		cfg:         cfg,
		ctx:         ctx,
		mons:        mons,
		sched:       sched,
		keys:        DefaultKeyMap(),
		styles:      styles,
		help:        help.New(),
		symbol:      cfg.Symbol,
		helpView:    viewport.New(60, 10),
		table:       tbl,
		filterInput: fi,
		started:     cfg.Now(),
	}
}

// Init forces every category due and starts the tick loop.
func (m Model) Init() tea.Cmd {
	m.sched.Reset()
	return func() tea.Msg { return tickMsg(m.cfg.Now()) }
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if handled, cmd := m.HandleKeyMsg(msg); handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case tickMsg:
		return m, m.tick()
	}
	return m, nil
}

// tick runs due monitors synchronously and schedules the next tick.
func (m *Model) tick() tea.Cmd {
	if m.quitting {
		return nil
	}
	if m.ctx.Err() != nil {
		return m.quit()
	}
	now := m.cfg.Now()
	if m.cfg.Duration > 0 && now.Sub(m.started) >= m.cfg.Duration {
		m.cfg.Log.Info("run duration %s reached", m.cfg.Duration)
		return m.quit()
	}

	m.lastTick = now
	for _, c := range m.sched.Tick(m.ctx, now) {
		if c == CategoryProcess {
			m.refreshProcessTable()
		}
	}
	return tea.Tick(m.cfg.TickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.renderDashboard()
}

func (m *Model) quit() tea.Cmd {
	m.quitting = true
	return tea.Quit
}

// Page returns the page on screen.
func (m Model) Page() Page { return m.page }

// Symbol returns the glyph family graphs are drawn with.
func (m Model) Symbol() graph.Symbol { return m.symbol }

// Status returns the last action message shown in the footer.
func (m Model) Status() string { return m.status }

// Quitting reports whether the dashboard is shutting down.
func (m Model) Quitting() bool { return m.quitting }

// LayoutMode returns the layout for the current terminal width.
func (m Model) LayoutMode() LayoutMode {
	switch {
	case m.width >= BreakpointWide:
		return LayoutWide
	case m.width >= BreakpointStandard:
		return LayoutStandard
	default:
		return LayoutMinimal
	}
}

func (m *Model) resize() {
	m.table.SetColumns(processColumns(m.width))
	m.table.SetWidth(m.width)
	h := m.height - 8
	if h < 3 {
		h = 3
	}
	m.table.SetHeight(h)
	m.refreshHelp()
}

func (m *Model) selectedProcess() (ProcessInfo, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.rows) {
		return ProcessInfo{}, false
	}
	return m.rows[i].ProcessInfo, true
}

func (m *Model) sendSignal(p ProcessInfo, sig Signal) {
	if err := m.mons.Process.Signal(m.ctx, p.PID, sig); err != nil {
		m.status = fmt.Sprintf("%s to %d failed: %v", sig, p.PID, err)
		m.cfg.Log.Warn("%s", m.status)
		return
	}
	m.status = fmt.Sprintf("sent %s to %d (%s)", sig, p.PID, p.Name)
	m.cfg.Log.Info("%s", m.status)
}

func (m *Model) scrollProcesses(msg tea.KeyMsg) {
	m.table, _ = m.table.Update(msg)
}
