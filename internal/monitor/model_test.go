package monitor

import (
	"context"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/rtop/internal/graph"
	"github.com/rileyhilliard/rtop/internal/logger"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

type modelFixture struct {
	model Model
	clock *testClock
	procs *fakeProcesses
	log   *logger.BufferLogger
}

func newTestModel(t *testing.T, ctx context.Context, cfg ModelConfig) *modelFixture {
	t.Helper()
	src := fakeSources()
	procs := &fakeProcesses{procs: sampleProcs()}
	src.Process = procs

	mons, err := NewMonitors(src, Options{HistorySize: 20})
	require.NoError(t, err)

	clk := &testClock{now: t0}
	buf := logger.NewBufferLogger()
	sched := NewScheduler(t0, WithLogger(buf))
	cadences := Cadences{}
	for _, c := range []Category{CategoryCPU, CategoryMemory, CategoryNetwork, CategoryTemperature,
		CategoryGPU, CategoryNPU, CategoryBattery, CategorySystem, CategoryDisk, CategoryProcess} {
		cadences[c] = time.Second
	}
	require.NoError(t, mons.Register(sched, cadences, nil))

	cfg.Now = clk.Now
	cfg.Log = buf
	cfg.Thresholds = DefaultThresholds()
	return &modelFixture{model: NewModel(ctx, mons, sched, cfg), clock: clk, procs: procs, log: buf}
}

func (f *modelFixture) send(msg tea.Msg) tea.Cmd {
	next, cmd := f.model.Update(msg)
	f.model = next.(Model)
	return cmd
}

func (f *modelFixture) start() {
	f.model.Init()
	f.send(tickMsg(f.clock.now))
}

func (f *modelFixture) press(keys ...string) {
	for _, k := range keys {
		f.send(keyMsg(k))
	}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "f3":
		return tea.KeyMsg{Type: tea.KeyF3}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestModel_FirstTickSamplesEverything(t *testing.T) {
	f := newTestModel(t, context.Background(), ModelConfig{})
	f.start()

	assert.InDelta(t, 25.0, f.model.mons.CPU.Total().Latest(), 1e-9)
	assert.InDelta(t, 25.0, f.model.mons.Memory.RAM().Latest(), 1e-9)
	assert.Equal(t, "box", f.model.mons.System.Latest().Hostname)
	require.NotEmpty(t, f.model.rows)
	assert.Equal(t, int32(300), f.model.rows[0].PID, "highest cpu first")
}

func TestModel_TickHonorsCadence(t *testing.T) {
	f := newTestModel(t, context.Background(), ModelConfig{})
	f.start()
	fired, _ := f.model.sched.LastFired(CategoryCPU)
	assert.Equal(t, t0, fired)

	f.clock.now = t0.Add(500 * time.Millisecond)
	f.send(tickMsg(f.clock.now))
	fired, _ = f.model.sched.LastFired(CategoryCPU)
	assert.Equal(t, t0, fired, "not due yet")

	f.clock.now = t0.Add(time.Second)
	f.send(tickMsg(f.clock.now))
	fired, _ = f.model.sched.LastFired(CategoryCPU)
	assert.Equal(t, t0.Add(time.Second), fired)
}

func TestModel_DurationDeadline(t *testing.T) {
	f := newTestModel(t, context.Background(), ModelConfig{Duration: 2 * time.Second})
	f.start()

	f.clock.now = t0.Add(1999 * time.Millisecond)
	cmd := f.send(tickMsg(f.clock.now))
	assert.False(t, f.model.Quitting())
	assert.NotNil(t, cmd)

	f.clock.now = t0.Add(2 * time.Second)
	cmd = f.send(tickMsg(f.clock.now))
	assert.True(t, f.model.Quitting())
	assert.True(t, isQuit(cmd))
	assert.Empty(t, f.model.View())
}

func TestModel_CancelledContextQuits(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	f := newTestModel(t, ctx, ModelConfig{})
	f.start()

	cancel()
	cmd := f.send(tickMsg(f.clock.now))
	assert.True(t, isQuit(cmd))
}

func TestModel_QuitKeys(t *testing.T) {
	for _, k := range []string{"q", "esc"} {
		t.Run(k, func(t *testing.T) {
			f := newTestModel(t, context.Background(), ModelConfig{})
			f.start()
			assert.True(t, isQuit(f.send(keyMsg(k))))
		})
	}

	f := newTestModel(t, context.Background(), ModelConfig{})
	assert.True(t, isQuit(f.send(tea.KeyMsg{Type: tea.KeyCtrlC})))
}

func TestModel_PauseAndRefresh(t *testing.T) {
	f := newTestModel(t, context.Background(), ModelConfig{})
	f.start()

	f.press("space")
	assert.True(t, f.model.sched.Paused())
	f.clock.now = t0.Add(5 * time.Second)
	f.send(tickMsg(f.clock.now))
	fired, _ := f.model.sched.LastFired(CategoryCPU)
	assert.Equal(t, t0, fired, "paused scheduler does not fire")
	assert.Contains(t, f.model.View(), "paused")

	f.press("space")
	f.press("r")
	f.clock.now = t0.Add(5100 * time.Millisecond)
	f.send(tickMsg(f.clock.now))
	fired, _ = f.model.sched.LastFired(CategoryCPU)
	assert.Equal(t, f.clock.now, fired)
}

func TestModel_CadenceKeys(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want time.Duration
	}{
		{"faster halves", []string{"+"}, 500 * time.Millisecond},
		{"equals is faster", []string{"="}, 500 * time.Millisecond},
		{"slower doubles", []string{"-"}, 2 * time.Second},
		{"clamped at minimum", []string{"+", "+", "+", "+", "+"}, MinCadence},
		{"clamped at maximum", []string{"-", "-", "-", "-", "-", "-", "-"}, MaxCadence},
		{"round trip", []string{"+", "-"}, time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestModel(t, context.Background(), ModelConfig{})
			require.NoError(t, f.model.sched.Register(CategoryExport, 10*time.Second,
				UpdaterFunc(func(context.Context) error { return nil })))
			f.start()

			f.press(tt.keys...)
			for _, c := range []Category{CategoryCPU, CategoryDisk, CategoryProcess} {
				got, ok := f.model.sched.Cadence(c)
				require.True(t, ok)
				assert.Equal(t, tt.want, got, c)
			}
			export, _ := f.model.sched.Cadence(CategoryExport)
			assert.Equal(t, 10*time.Second, export)
			assert.Equal(t, "refresh every "+formatCadence(tt.want), f.model.Status())
		})
	}
}

func TestModel_PagesAndSymbol(t *testing.T) {
	f := newTestModel(t, context.Background(), ModelConfig{Symbol: graph.Braille})
	f.start()

	tests := []struct {
		key  string
		want Page
	}{
		{"2", PageProcesses},
		{"3", PageNetwork},
		{"4", PageStorage},
		{"1", PageOverview},
		{"f3", PageProcesses},
	}
	for _, tt := range tests {
		f.press(tt.key)
		assert.Equal(t, tt.want, f.model.Page(), "key %s", tt.key)
	}

	f.press("g")
	assert.Equal(t, graph.Block, f.model.Symbol())
	f.press("g", "g")
	assert.Equal(t, graph.Braille, f.model.Symbol())
}

func TestModel_SortKeys(t *testing.T) {
	f := newTestModel(t, context.Background(), ModelConfig{})
	f.start()

	f.press("p")
	order, rev := f.model.mons.Process.Sort()
	assert.Equal(t, SortByPID, order)
	assert.False(t, rev)
	assert.Equal(t, int32(1), f.model.rows[0].PID)

	f.press("R")
	_, rev = f.model.mons.Process.Sort()
	assert.True(t, rev)
	assert.Equal(t, int32(400), f.model.rows[0].PID)

	f.press("t")
	assert.True(t, f.model.mons.Process.Tree())
}

func TestModel_KillConfirm(t *testing.T) {
	f := newTestModel(t, context.Background(), ModelConfig{})
	f.start()

	f.press("k")
	require.NotNil(t, f.model.confirm)
	assert.Contains(t, f.model.View(), "Send TERM to 300")

	f.press("n")
	assert.Nil(t, f.model.confirm)
	assert.Empty(t, f.procs.sent)

	f.press("k", "y")
	assert.Equal(t, []sentSignal{{300, SignalTerm}}, f.procs.sent)
	assert.Contains(t, f.model.Status(), "sent TERM to 300")
}

func TestModel_SignalMenu(t *testing.T) {
	f := newTestModel(t, context.Background(), ModelConfig{})
	f.start()

	f.press("down")
	f.press("K")
	require.True(t, f.model.signalMenu)
	assert.Contains(t, f.model.View(), "USR1")

	f.press("down", "down", "enter")
	assert.False(t, f.model.signalMenu)
	assert.Equal(t, []sentSignal{{400, SignalInt}}, f.procs.sent)
}

func TestModel_SignalFailureShowsStatus(t *testing.T) {
	f := newTestModel(t, context.Background(), ModelConfig{})
	f.start()
	f.procs.err = errFake

	f.press("k", "y")
	assert.Contains(t, f.model.Status(), "failed")
	assert.True(t, f.log.HasLevel("warn"))
}

func TestModel_Filter(t *testing.T) {
	f := newTestModel(t, context.Background(), ModelConfig{})
	f.start()

	f.press("/")
	require.True(t, f.model.filtering)
	f.press("f", "i", "r", "e", "enter")
	assert.False(t, f.model.filtering)
	assert.Equal(t, "fire", f.model.mons.Process.Filter())
	require.Len(t, f.model.rows, 1)
	assert.Equal(t, int32(300), f.model.rows[0].PID)

	f.press("/", "(", "enter")
	assert.Contains(t, f.model.Status(), "invalid filter")
}

func TestModel_Help(t *testing.T) {
	f := newTestModel(t, context.Background(), ModelConfig{})
	f.send(tea.WindowSizeMsg{Width: 100, Height: 60})
	f.start()

	f.press("?")
	require.True(t, f.model.showHelp)
	view := f.model.View()
	assert.Contains(t, view, "Keyboard Shortcuts")
	assert.Contains(t, view, "pause")

	f.press("q")
	assert.True(t, f.model.Quitting(), "quit works from help")

	f = newTestModel(t, context.Background(), ModelConfig{})
	f.start()
	f.press("h", "esc")
	assert.False(t, f.model.showHelp)
	assert.False(t, f.model.Quitting())
}

func TestModel_ViewAcrossLayouts(t *testing.T) {
	tests := []struct {
		width int
		want  LayoutMode
	}{
		{80, LayoutMinimal},
		{120, LayoutStandard},
		{200, LayoutWide},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("width %d", tt.width), func(t *testing.T) {
			f := newTestModel(t, context.Background(), ModelConfig{MirrorUpload: true})
			f.send(tea.WindowSizeMsg{Width: tt.width, Height: 50})
			f.start()

			assert.Equal(t, tt.want, f.model.LayoutMode())
			view := f.model.View()
			for _, want := range []string{"rtop", "box", "CPU", "Memory", "Network", "Disks", "Processes", "Firefox"} {
				assert.Contains(t, view, want)
			}
		})
	}
}

func TestModel_OtherPagesRender(t *testing.T) {
	f := newTestModel(t, context.Background(), ModelConfig{})
	f.send(tea.WindowSizeMsg{Width: 120, Height: 40})
	f.start()

	f.press("2")
	assert.Contains(t, f.model.View(), "COMMAND")
	f.press("3")
	assert.Contains(t, f.model.View(), "Latency")
	f.press("4")
	assert.Contains(t, f.model.View(), "Filesystems")
}
