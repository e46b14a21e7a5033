package monitor

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Page is one screen of the dashboard.
type Page int

const (
	PageOverview Page = iota
	PageProcesses
	PageNetwork
	PageStorage
)

// Pages lists every page in tab order.
var Pages = []Page{PageOverview, PageProcesses, PageNetwork, PageStorage}

func (p Page) String() string {
	switch p {
	case PageOverview:
		return "Overview"
	case PageProcesses:
		return "Processes"
	case PageNetwork:
		return "Network"
	case PageStorage:
		return "Storage"
	default:
		return "Overview"
	}
}

// KeyMap holds every dashboard binding. It implements help.KeyMap.
type KeyMap struct {
	Quit      key.Binding
	Back      key.Binding
	Pause     key.Binding
	Refresh   key.Binding
	Help      key.Binding
	Symbol    key.Binding
	Faster    key.Binding
	Slower    key.Binding
	Overview  key.Binding
	Processes key.Binding
	Network   key.Binding
	Storage   key.Binding

	SortCPU    key.Binding
	SortMemory key.Binding
	SortPID    key.Binding
	SortName   key.Binding
	SortUser   key.Binding
	Reverse    key.Binding
	Tree       key.Binding
	Filter     key.Binding
	Kill       key.Binding
	Signal     key.Binding

	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding

	Confirm key.Binding
	Cancel  key.Binding
	Accept  key.Binding
}

// DefaultKeyMap returns the stock bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close / quit")),
		Pause:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause")),
		Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh now")),
		Help:      key.NewBinding(key.WithKeys("h", "?"), key.WithHelp("h/?", "help")),
		Symbol:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "graph symbol")),
		Faster:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "refresh faster")),
		Slower:    key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "refresh slower")),
		Overview:  key.NewBinding(key.WithKeys("f2", "1"), key.WithHelp("F2/1", "overview")),
		Processes: key.NewBinding(key.WithKeys("f3", "2"), key.WithHelp("F3/2", "processes")),
		Network:   key.NewBinding(key.WithKeys("f4", "3"), key.WithHelp("F4/3", "network")),
		Storage:   key.NewBinding(key.WithKeys("f5", "4"), key.WithHelp("F5/4", "storage")),

		SortCPU:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "sort by cpu")),
		SortMemory: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "sort by memory")),
		SortPID:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "sort by pid")),
		SortName:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "sort by name")),
		SortUser:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "sort by user")),
		Reverse:    key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reverse sort")),
		Tree:       key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "tree view")),
		Filter:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Kill:       key.NewBinding(key.WithKeys("k"), key.WithHelp("k", "kill process")),
		Signal:     key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "send signal")),

		Up:       key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:     key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
		Home:     key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "first")),
		End:      key.NewBinding(key.WithKeys("end"), key.WithHelp("end", "last")),

		Confirm: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
		Cancel:  key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "no")),
		Accept:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Pause, k.Refresh, k.Help, k.Overview, k.Processes, k.Network, k.Storage}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Quit, k.Back, k.Pause, k.Refresh, k.Help, k.Symbol, k.Faster, k.Slower},
		{k.Overview, k.Processes, k.Network, k.Storage},
		{k.SortCPU, k.SortMemory, k.SortPID, k.SortName, k.SortUser, k.Reverse},
		{k.Tree, k.Filter, k.Kill, k.Signal},
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Home, k.End},
	}
}

// HandleKeyMsg processes keyboard input. Modal states (help, filter entry,
// kill confirmation, signal menu) take the key first. Returns whether the
// key was handled.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	keys := m.keys

	switch {
	case m.confirm != nil:
		return true, m.handleConfirmKey(msg)
	case m.signalMenu:
		return true, m.handleSignalKey(msg)
	case m.filtering:
		return true, m.handleFilterKey(msg)
	case m.showHelp:
		switch {
		case key.Matches(msg, keys.Help, keys.Back):
			m.showHelp = false
		case key.Matches(msg, keys.Quit):
			return true, m.quit()
		default:
			var cmd tea.Cmd
			m.helpView, cmd = m.helpView.Update(msg)
			return true, cmd
		}
		return true, nil
	}

	switch {
	case key.Matches(msg, keys.Quit, keys.Back):
		return true, m.quit()
	case key.Matches(msg, keys.Help):
		m.showHelp = true
		m.refreshHelp()
	case key.Matches(msg, keys.Pause):
		m.sched.TogglePause()
	case key.Matches(msg, keys.Refresh):
		m.sched.Reset()
	case key.Matches(msg, keys.Symbol):
		m.symbol = m.symbol.Next()
	case key.Matches(msg, keys.Faster):
		m.scaleCadence(1, 2)
	case key.Matches(msg, keys.Slower):
		m.scaleCadence(2, 1)
	case key.Matches(msg, keys.Overview):
		m.page = PageOverview
	case key.Matches(msg, keys.Processes):
		m.page = PageProcesses
	case key.Matches(msg, keys.Network):
		m.page = PageNetwork
	case key.Matches(msg, keys.Storage):
		m.page = PageStorage
	default:
		return m.handleProcessKey(msg)
	}
	return true, nil
}

// Bounds for the faster and slower keys.
const (
	MinCadence = 100 * time.Millisecond
	MaxCadence = time.Minute
)

// scaleCadence multiplies every dashboard category's cadence by num/den,
// clamped to [MinCadence, MaxCadence]. The export log keeps its interval.
func (m *Model) scaleCadence(num, den int64) {
	for _, c := range m.sched.Categories() {
		if c == CategoryExport {
			continue
		}
		d, _ := m.sched.Cadence(c)
		next := min(max(time.Duration(int64(d)*num/den), MinCadence), MaxCadence)
		if err := m.sched.SetCadence(c, next); err != nil {
			m.cfg.Log.Warn("cadence %s: %v", c, err)
		}
	}
	m.status = "refresh every " + formatCadence(m.cadence(CategoryCPU))
	m.cfg.Log.Debug("%s", m.status)
}

// handleProcessKey covers sorting, filtering, signals and scrolling, which
// act on the process list from any page.
func (m *Model) handleProcessKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	keys := m.keys
	procs := m.mons.Process

	switch {
	case key.Matches(msg, keys.SortCPU):
		procs.SetSort(SortByCPU)
	case key.Matches(msg, keys.SortMemory):
		procs.SetSort(SortByMemory)
	case key.Matches(msg, keys.SortPID):
		procs.SetSort(SortByPID)
	case key.Matches(msg, keys.SortName):
		procs.SetSort(SortByName)
	case key.Matches(msg, keys.SortUser):
		procs.SetSort(SortByUser)
	case key.Matches(msg, keys.Reverse):
		procs.ToggleReverse()
	case key.Matches(msg, keys.Tree):
		procs.ToggleTree()
	case key.Matches(msg, keys.Filter):
		m.filtering = true
		m.filterInput.SetValue(procs.Filter())
		m.filterInput.CursorEnd()
		return true, m.filterInput.Focus()
	case key.Matches(msg, keys.Kill):
		if p, ok := m.selectedProcess(); ok {
			m.confirm = &p
		}
	case key.Matches(msg, keys.Signal):
		if _, ok := m.selectedProcess(); ok {
			m.signalMenu = true
			m.signalIdx = 0
		}
	case key.Matches(msg, keys.Up, keys.Down, keys.PageUp, keys.PageDown, keys.Home, keys.End):
		m.scrollProcesses(msg)
		return true, nil
	default:
		return false, nil
	}
	m.refreshProcessTable()
	return true, nil
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		p := *m.confirm
		m.confirm = nil
		m.sendSignal(p, SignalTerm)
	case key.Matches(msg, m.keys.Cancel):
		m.confirm = nil
	}
	return nil
}

func (m *Model) handleSignalKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.signalIdx > 0 {
			m.signalIdx--
		}
	case key.Matches(msg, m.keys.Down):
		if m.signalIdx < len(Signals)-1 {
			m.signalIdx++
		}
	case key.Matches(msg, m.keys.Accept):
		m.signalMenu = false
		if p, ok := m.selectedProcess(); ok {
			m.sendSignal(p, Signals[m.signalIdx])
		}
	case key.Matches(msg, m.keys.Back, m.keys.Quit):
		m.signalMenu = false
	}
	return nil
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		m.filtering = false
		m.filterInput.Blur()
		if err := m.mons.Process.SetFilter(m.filterInput.Value()); err != nil {
			m.status = "invalid filter: " + err.Error()
		} else {
			m.status = ""
		}
		m.refreshProcessTable()
		return nil
	case tea.KeyEsc:
		m.filtering = false
		m.filterInput.Blur()
		return nil
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	return cmd
}
