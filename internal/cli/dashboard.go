package cli

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/rtop/internal/config"
	"github.com/rileyhilliard/rtop/internal/errors"
	"github.com/rileyhilliard/rtop/internal/exec"
	"github.com/rileyhilliard/rtop/internal/export"
	"github.com/rileyhilliard/rtop/internal/monitor"
)

// buildMonitors detects the host's sources and creates every monitor.
func buildMonitors(o *options, cfg *config.Config) (*monitor.Monitors, error) {
	src := o.detect(exec.Local{}, o.log)
	opts, err := cfg.MonitorOptions()
	if err != nil {
		return nil, err
	}
	mons, err := monitor.NewMonitors(src, opts)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Can't create monitors",
			"Check display.history_size in your config")
	}
	return mons, nil
}

// buildScheduler registers every enabled monitor, then the metrics log when
// export logging is on. The log is nil otherwise.
func buildScheduler(cfg *config.Config, mons *monitor.Monitors, o *options, start time.Time, session string) (*monitor.Scheduler, *export.MetricsLog, error) {
	sched := monitor.NewScheduler(start, monitor.WithPolicy(cfg.Policy()), monitor.WithLogger(o.log))
	if err := mons.Register(sched, cfg.Cadences(), cfg.Enabled()); err != nil {
		return nil, nil, err
	}

	if !cfg.Export.EnableLogging {
		return sched, nil, nil
	}
	mlog := export.NewMetricsLog(cfg.Export.LogPath, mons, session, o.log)
	if err := sched.Register(monitor.CategoryExport, cfg.LogInterval(), mlog); err != nil {
		return nil, nil, err
	}
	return sched, mlog, nil
}

// applyColorProfile forces plain output when colors are off.
func applyColorProfile(cfg *config.Config) {
	if !cfg.Colors.EnableColors {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

func runDashboard(cmd *cobra.Command, o *options) error {
	cfg, path, err := o.loadConfig()
	if err != nil {
		return err
	}
	if !o.isTerminal() {
		return errors.New(errors.ErrTerminal,
			"rtop needs an interactive terminal",
			"Use 'rtop export' to capture metrics from scripts and pipes")
	}
	if o.exportPath != "" {
		// Reject a bad format before the dashboard starts.
		if _, err := resolveFormat(o.exportFormat, o.exportPath); err != nil {
			return err
		}
	}
	applyColorProfile(cfg)
	if path != "" {
		o.log.Info("using config %s", path)
	}

	ctx := cmd.Context()
	mons, err := buildMonitors(o, cfg)
	if err != nil {
		return err
	}
	session := export.NewSessionID()
	start := time.Now()
	sched, mlog, err := buildScheduler(cfg, mons, o, start, session)
	if err != nil {
		return err
	}

	model := monitor.NewModel(ctx, mons, sched, monitor.ModelConfig{
		Theme:        cfg.Colors.Theme,
		Colors:       cfg.Colors.EnableColors,
		Symbol:       cfg.Symbol(),
		Thresholds:   cfg.MonitorThresholds(),
		MirrorUpload: cfg.Display.MirrorUpload,
		Duration:     o.duration,
		Log:          o.log,
	})

	o.log.Info("dashboard starting (session %s, policy %s)", session, cfg.Policy())
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrTerminal, "Dashboard failed", "Check the log with --log for details")
	}
	o.log.Info("dashboard stopped after %s", time.Since(start).Round(time.Second))
	if mlog != nil {
		cmd.Printf("Appended %d rows to %s\n", mlog.Rows(), mlog.Path())
	}

	if o.exportPath != "" {
		format, _ := resolveFormat(o.exportFormat, o.exportPath)
		snap := export.Capture(mons, time.Now(), session, export.DefaultTopProcesses)
		if err := export.WriteFile(o.exportPath, snap, format); err != nil {
			return err
		}
		cmd.Printf("Wrote %s snapshot to %s\n", format, o.exportPath)
	}
	return nil
}
