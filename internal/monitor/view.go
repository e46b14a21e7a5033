package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/rtop/internal/util"
)

const defaultWidth = 80

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	if m.showHelp {
		return m.renderHelpOverlay()
	}

	var body string
	switch m.page {
	case PageProcesses:
		body = m.renderProcessPage()
	case PageNetwork:
		body = m.renderNetworkPage()
	case PageStorage:
		body = m.renderStoragePage()
	default:
		body = m.renderOverview()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	out := b.String()
	if dialog := m.renderDialog(); dialog != "" {
		out = lipgloss.JoinVertical(lipgloss.Left, out, dialog)
	}
	return out
}

func (m Model) viewWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}

// renderHeader shows the host, uptime and battery.
func (m Model) renderHeader() string {
	sys := m.mons.System.Latest()
	s := m.styles

	parts := []string{s.Title.Render("rtop")}
	if sys.Hostname != "" {
		parts = append(parts, s.Value.Render(sys.Hostname))
	}
	if sys.Platform != "" {
		parts = append(parts, s.Label.Render(sys.Platform))
	}
	if sys.Uptime > 0 {
		parts = append(parts, s.Label.Render("up "+util.Uptime(sys.Uptime)))
	}
	if b, ok := m.mons.Battery.Latest(); ok {
		parts = append(parts, m.renderBattery(b))
	}
	if m.sched.Paused() {
		parts = append(parts, s.Paused.Render("PAUSED"))
	}
	return s.Header.Render(strings.Join(parts, s.Muted.Render(" | ")))
}

func (m Model) renderBattery(b BatteryReading) string {
	icon := "BAT"
	switch b.State {
	case BatteryCharging:
		icon = "CHG"
	case BatteryFull:
		icon = "AC"
	}
	text := fmt.Sprintf("%s %.0f%%", icon, b.Percent)
	if b.Remaining > 0 {
		text += " " + util.Uptime(b.Remaining)
	}
	// Low charge is the bad end, so the scale is flipped.
	return m.styles.Metric(text, 100-b.Percent, 70, 85)
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, len(Pages))
	for i, p := range Pages {
		label := fmt.Sprintf("%d %s", i+1, p)
		if p == m.page {
			tabs = append(tabs, m.styles.TabOn.Render(label))
		} else {
			tabs = append(tabs, m.styles.Tab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// renderFooter shows the status message or key hints, and the refresh state.
func (m Model) renderFooter() string {
	s := m.styles
	left := m.status
	if m.filtering {
		left = m.filterInput.View()
	} else if left == "" {
		left = m.help.ShortHelpView(m.keys.ShortHelp())
	}

	state := "every " + formatCadence(m.cadence(CategoryCPU))
	if m.sched.Paused() {
		state = s.Paused.Render("paused")
	}
	right := s.Muted.Render(fmt.Sprintf("%s | %s | %s", m.symbol, m.sched.Policy(), state))

	gap := m.viewWidth() - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return s.Footer.Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) cadence(c Category) time.Duration {
	d, _ := m.sched.Cadence(c)
	return d
}

func formatCadence(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	if d%time.Second == 0 {
		return fmt.Sprintf("%ds", int(d/time.Second))
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// renderOverview lays panels out according to the terminal width.
func (m Model) renderOverview() string {
	w := m.viewWidth()
	switch m.LayoutMode() {
	case LayoutWide:
		col := w / 3
		left := lipgloss.JoinVertical(lipgloss.Left, m.cpuPanel(col, 8), m.memoryPanel(col, 4))
		mid := lipgloss.JoinVertical(lipgloss.Left, m.networkPanel(col, 4), m.diskPanel(col))
		right := lipgloss.JoinVertical(lipgloss.Left, m.acceleratorPanels(w-2*col)...)
		top := lipgloss.JoinHorizontal(lipgloss.Top, left, mid, right)
		return lipgloss.JoinVertical(lipgloss.Left, top, m.topProcessesPanel(w, 8))
	case LayoutStandard:
		half := w / 2
		top := lipgloss.JoinHorizontal(lipgloss.Top, m.cpuPanel(half, 6), m.memoryPanel(w-half, 4))
		midPanels := append([]string{m.networkPanel(half, 3)}, m.acceleratorPanels(w-half)...)
		mid := lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.JoinVertical(lipgloss.Left, midPanels[0], m.diskPanel(half)),
			lipgloss.JoinVertical(lipgloss.Left, midPanels[1:]...))
		return lipgloss.JoinVertical(lipgloss.Left, top, mid, m.topProcessesPanel(w, 5))
	default:
		panels := []string{m.cpuPanel(w, 4), m.memoryPanel(w, 2), m.networkPanel(w, 2)}
		panels = append(panels, m.acceleratorPanels(w)...)
		panels = append(panels, m.diskPanel(w), m.topProcessesPanel(w, 5))
		return lipgloss.JoinVertical(lipgloss.Left, panels...)
	}
}

func (m Model) cpuPanel(width, graphHeight int) string {
	s, th := m.styles, m.cfg.Thresholds
	inner := width - 4
	reading, _ := m.mons.CPU.Latest()

	lines := s.renderGraph(m.mons.CPU.Total(), inner, graphHeight, m.symbol, false,
		graphStyle{warning: th.CPUWarning, critical: th.CPUCritical})

	if m.LayoutMode() != LayoutMinimal {
		lines = append(lines, m.coreMeters(reading.PerCore, inner)...)
	}
	lines = append(lines, s.Label.Render(fmt.Sprintf("load %.2f %.2f %.2f",
		reading.LoadAvg[0], reading.LoadAvg[1], reading.LoadAvg[2])))

	value := s.Metric(util.Percent(reading.Total), reading.Total, th.CPUWarning, th.CPUCritical)
	return s.Panel("CPU", value, lines, width)
}

// coreMeters lays per-core meters out in as many columns as fit.
func (m Model) coreMeters(cores []float64, inner int) []string {
	const cellWidth = 22
	if len(cores) == 0 || inner < cellWidth {
		return nil
	}
	th := m.cfg.Thresholds
	cols := inner / cellWidth
	var lines []string
	for i := 0; i < len(cores); i += cols {
		var cells []string
		for j := i; j < i+cols && j < len(cores); j++ {
			label := m.styles.Label.Render(fmt.Sprintf("%-4s", fmt.Sprintf("C%d", j)))
			pct := m.styles.Metric(fmt.Sprintf("%4.0f%%", cores[j]), cores[j], th.CPUWarning, th.CPUCritical)
			cells = append(cells, label+m.styles.renderMeter(cores[j], 10, th.CPUWarning, th.CPUCritical)+pct+"  ")
		}
		lines = append(lines, strings.Join(cells, ""))
	}
	return lines
}

func (m Model) memoryPanel(width, graphHeight int) string {
	s, th := m.styles, m.cfg.Thresholds
	inner := width - 4
	mem := m.mons.Memory.Latest()
	ramPct := percentOf(mem.Used, mem.Total)

	lines := s.renderGraph(m.mons.Memory.RAM(), inner, graphHeight, m.symbol, false,
		graphStyle{warning: th.MemoryWarning, critical: th.MemoryCritical})
	lines = append(lines,
		s.Label.Render("used  ")+s.Value.Render(util.Bytes(mem.Used)+" / "+util.Bytes(mem.Total)),
		s.Label.Render("avail ")+s.Value.Render(util.Bytes(mem.Available))+s.Label.Render("  cached ")+s.Value.Render(util.Bytes(mem.Cached)),
	)
	if mem.SwapTotal > 0 {
		swapPct := percentOf(mem.SwapUsed, mem.SwapTotal)
		meterWidth := inner - 20
		if meterWidth < 5 {
			meterWidth = 5
		}
		lines = append(lines, s.Label.Render("swap  ")+
			s.renderMeter(swapPct, meterWidth, th.MemoryWarning, th.MemoryCritical)+
			s.Value.Render(" "+util.Percent(swapPct)))
	}

	value := s.Metric(util.Percent(ramPct), ramPct, th.MemoryWarning, th.MemoryCritical)
	return s.Panel("Memory", value, lines, width)
}

func (m Model) networkPanel(width, graphHeight int) string {
	s := m.styles
	inner := width - 4
	net := m.mons.Network
	rxRate, txRate := net.Rates()
	rxTotal, txTotal := net.Totals()
	theme := s.Theme()

	var lines []string
	lines = append(lines, s.Color(theme.Download).Render("▼ "+util.Rate(rxRate))+s.Label.Render("  total "+util.Bytes(rxTotal)))
	lines = append(lines, s.renderGraph(net.Rx(), inner, graphHeight, m.symbol, false, graphStyle{solid: theme.Download})...)
	lines = append(lines, s.renderGraph(net.Tx(), inner, graphHeight, m.symbol, m.cfg.MirrorUpload, graphStyle{solid: theme.Upload})...)
	lines = append(lines, s.Color(theme.Upload).Render("▲ "+util.Rate(txRate))+s.Label.Render("  total "+util.Bytes(txTotal)))
	lines = append(lines, m.latencyLine())

	title := "Network"
	if iface := net.ActiveInterface(); iface != "" {
		title += " " + iface
	}
	rxCeil, _ := net.Ceilings()
	return s.Panel(title, s.Muted.Render("scale "+util.Rate(rxCeil)), lines, width)
}

func (m Model) latencyLine() string {
	d, ok := m.mons.Network.LastLatency()
	if !ok {
		return m.styles.Label.Render("ping  ") + m.styles.Muted.Render("n/a")
	}
	ms := float64(d) / float64(time.Millisecond)
	return m.styles.Label.Render("ping  ") + m.styles.Metric(fmt.Sprintf("%.1f ms", ms), ms, 100, 300)
}

// acceleratorPanels renders sensors, GPUs, NPUs and battery, skipping any
// the machine does not have.
func (m Model) acceleratorPanels(width int) []string {
	var panels []string
	if p := m.temperaturePanel(width); p != "" {
		panels = append(panels, p)
	}
	if p := m.gpuPanel(width); p != "" {
		panels = append(panels, p)
	}
	if p := m.npuPanel(width); p != "" {
		panels = append(panels, p)
	}
	if len(panels) == 0 {
		panels = append(panels, m.systemPanel(width))
	}
	return panels
}

func (m Model) temperaturePanel(width int) string {
	temps := m.mons.Temperature
	sensors := temps.Sensors()
	if !temps.Available() || len(sensors) == 0 {
		return ""
	}
	s, th := m.styles, m.cfg.Thresholds
	inner := width - 4
	nameWidth := inner / 2
	meterWidth := inner - nameWidth - 8
	if meterWidth < 3 {
		meterWidth = 3
	}

	lines := make([]string, 0, len(sensors))
	for _, r := range sensors {
		lines = append(lines, s.Label.Render(fmt.Sprintf("%-*s", nameWidth, util.Truncate(r.Name, nameWidth-1)))+
			s.renderMeter(r.Celsius, meterWidth, th.TempWarning, th.TempCritical)+
			s.Metric(fmt.Sprintf("%5.0f°C", r.Celsius), r.Celsius, th.TempWarning, th.TempCritical))
	}
	hottest, _ := temps.Max()
	return s.Panel("Sensors", s.Metric(fmt.Sprintf("%.0f°C", hottest.Celsius), hottest.Celsius, th.TempWarning, th.TempCritical), lines, width)
}

func (m Model) gpuPanel(width int) string {
	gpus := m.mons.GPU
	if !gpus.Available() || len(gpus.GPUs()) == 0 {
		return ""
	}
	s, th := m.styles, m.cfg.Thresholds
	inner := width - 4

	var lines []string
	for i, g := range gpus.GPUs() {
		lines = append(lines, s.Value.Render(util.Truncate(fmt.Sprintf("%d %s", g.Index, g.Name), inner)))
		if h, ok := gpus.Utilization(i); ok {
			lines = append(lines, s.renderGraph(h, inner, 2, m.symbol, false,
				graphStyle{warning: th.CPUWarning, critical: th.CPUCritical})...)
		}
		detail := fmt.Sprintf("util %s  mem %s / %s", util.Percent(g.Utilization), util.Bytes(g.MemoryUsed), util.Bytes(g.MemoryTotal))
		if g.Temperature >= 0 {
			detail += fmt.Sprintf("  %.0f°C", g.Temperature)
		}
		if g.PowerWatts >= 0 {
			detail += fmt.Sprintf("  %.0fW", g.PowerWatts)
		}
		lines = append(lines, s.Label.Render(util.Truncate(detail, inner)))
	}
	return s.Panel("GPU", s.Muted.Render(gpus.Vendor()), lines, width)
}

func (m Model) npuPanel(width int) string {
	npus := m.mons.NPU
	if !npus.Available() || npus.Count() == 0 {
		return ""
	}
	s, th := m.styles, m.cfg.Thresholds
	inner := width - 4

	var lines []string
	for i := 0; i < npus.Count(); i++ {
		cur := npus.Current(i)
		lines = append(lines, s.Value.Render(npus.Name(i))+"  "+
			s.Metric(util.Percent(cur), cur, th.CPUWarning, th.CPUCritical))
		if h, ok := npus.Utilization(i); ok {
			lines = append(lines, s.renderGraph(h, inner, 2, m.symbol, false,
				graphStyle{warning: th.CPUWarning, critical: th.CPUCritical})...)
		}
	}
	return s.Panel("NPU", "", lines, width)
}

func (m Model) systemPanel(width int) string {
	s := m.styles
	sys := m.mons.System.Latest()
	lines := []string{
		s.Label.Render("os     ") + s.Value.Render(sys.OS+" "+sys.Arch),
		s.Label.Render("kernel ") + s.Value.Render(sys.Kernel),
		s.Label.Render("procs  ") + s.Value.Render(util.Count(int64(sys.Procs))),
	}
	return s.Panel("System", "", lines, width)
}

func (m Model) diskPanel(width int) string {
	s, th := m.styles, m.cfg.Thresholds
	inner := width - 4
	disks := m.mons.Disk.Disks()
	mountWidth := inner / 3
	meterWidth := inner - mountWidth - 8
	if meterWidth < 3 {
		meterWidth = 3
	}

	lines := make([]string, 0, len(disks)+1)
	for _, d := range disks {
		lines = append(lines, s.Label.Render(fmt.Sprintf("%-*s", mountWidth, util.Truncate(d.Mount, mountWidth-1)))+
			s.renderMeter(d.Percent, meterWidth, th.DiskWarning, 95)+
			s.Metric(fmt.Sprintf("%6s", util.Percent(d.Percent)), d.Percent, th.DiskWarning, 95))
	}
	read, write := m.mons.Disk.Rates()
	lines = append(lines, s.Label.Render("io  ")+s.Value.Render("r "+util.Rate(read)+"  w "+util.Rate(write)))
	return s.Panel("Disks", s.Muted.Render(util.Pluralize(len(disks), "mount", "mounts")), lines, width)
}

func (m Model) topProcessesPanel(width, n int) string {
	s := m.styles
	inner := width - 4
	rows := m.mons.Process.Rows()
	if len(rows) > n {
		rows = rows[:n]
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, s.Muted.Render(fmt.Sprintf("%7s  %-10s %6s %6s  %s", "PID", "USER", "CPU%", "MEM%", "NAME")))
	for _, r := range rows {
		line := fmt.Sprintf("%7d  %-10s %6.1f %6.1f  %s", r.PID, util.Truncate(r.User, 10), r.CPU, r.MemPercent, r.Name)
		lines = append(lines, s.Value.Render(util.Truncate(line, inner)))
	}
	order, rev := m.mons.Process.Sort()
	label := "by " + order.String()
	if rev {
		label += " (rev)"
	}
	return s.Panel("Processes", s.Muted.Render(label), lines, width)
}

// renderNetworkPage gives the network graphs the full screen.
func (m Model) renderNetworkPage() string {
	w := m.viewWidth()
	h := (m.height - 16) / 2
	if h < 3 {
		h = 3
	}
	s := m.styles
	inner := w - 4
	latency := s.renderGraph(m.mons.Network.Latency(), inner, 3, m.symbol, false,
		graphStyle{warning: 10, critical: 30})
	latency = append(latency, m.latencyLine())
	return lipgloss.JoinVertical(lipgloss.Left,
		m.networkPanel(w, h),
		s.Panel("Latency", "", latency, w),
	)
}

// renderStoragePage shows disk usage history and throughput.
func (m Model) renderStoragePage() string {
	w := m.viewWidth()
	s, th := m.styles, m.cfg.Thresholds
	inner := w - 4
	theme := s.Theme()

	read, write := m.mons.Disk.Rates()
	io := []string{s.Color(theme.Download).Render("read  " + util.Rate(read))}
	io = append(io, s.renderGraph(m.mons.Disk.Read(), inner, 3, m.symbol, false, graphStyle{solid: theme.Download})...)
	io = append(io, s.renderGraph(m.mons.Disk.Write(), inner, 3, m.symbol, m.cfg.MirrorUpload, graphStyle{solid: theme.Upload})...)
	io = append(io, s.Color(theme.Upload).Render("write "+util.Rate(write)))

	var usage []string
	for _, d := range m.mons.Disk.Disks() {
		usage = append(usage, s.Value.Render(fmt.Sprintf("%s  %s  %s", d.Mount, d.Device, d.FSType))+
			s.Label.Render(fmt.Sprintf("  %s free of %s", util.Bytes(d.Free), util.Bytes(d.Total))))
		if h, ok := m.mons.Disk.Usage(d.Mount); ok {
			usage = append(usage, s.renderGraph(h, inner, 1, m.symbol, false,
				graphStyle{warning: th.DiskWarning, critical: 95})...)
		}
	}
	if len(usage) == 0 {
		usage = append(usage, s.Muted.Render("no disks"))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		s.Panel("Disk I/O", "", io, w),
		s.Panel("Filesystems", "", usage, w),
	)
}
