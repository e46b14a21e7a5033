package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rileyhilliard/rtop/internal/config"
	"github.com/rileyhilliard/rtop/internal/errors"
	"github.com/rileyhilliard/rtop/internal/exec"
	"github.com/rileyhilliard/rtop/internal/graph"
	"github.com/rileyhilliard/rtop/internal/logger"
	"github.com/rileyhilliard/rtop/internal/monitor"
	"github.com/rileyhilliard/rtop/internal/monitor/sources"
	"github.com/rileyhilliard/rtop/internal/util"
)

// options holds every flag plus the seams tests replace.
type options struct {
	// Global flags
	configPath string
	logPath    string
	verbose    int
	noColor    bool

	// Dashboard flags
	interval       time.Duration
	minimal        bool
	symbol         string
	theme          string
	duration       time.Duration
	exportPath     string
	exportFormat   string
	generateConfig bool
	force          bool

	detect     func(exec.Runner, logger.Logger) monitor.Sources
	isTerminal func() bool
	confirm    func(title string) (bool, error)
	log        logger.Logger
	logCloser  io.Closer
}

func defaultOptions() *options {
	return &options{
		detect: sources.Detect,
		isTerminal: func() bool {
			return term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
		},
		confirm: confirmPrompt,
		log:     logger.Noop(),
	}
}

// overrides collects the flags that take precedence over the config file.
func (o *options) overrides() config.Overrides {
	return config.Overrides{
		Interval: o.interval,
		Minimal:  o.minimal,
		NoColor:  o.noColor || os.Getenv("NO_COLOR") != "",
		Symbol:   o.symbol,
		Theme:    o.theme,
	}
}

// loadConfig loads the config file (or defaults), applies flag overrides and
// validates the result.
func (o *options) loadConfig() (*config.Config, string, error) {
	cfg, path, err := config.LoadOrDefault(o.configPath)
	if err != nil {
		return nil, "", err
	}
	o.overrides().Apply(cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// setupLogging installs the file logger when --log or -v is given. The
// dashboard owns the terminal, so only subcommands (console true) may log to
// stderr, and only when RTOP_DEBUG is set.
func (o *options) setupLogging(console bool) error {
	path := o.logPath
	if path == "" && o.verbose > 0 {
		path = config.Expand("${HOME}/.local/state/rtop/rtop.log")
	}
	if path == "" {
		o.log = logger.Noop()
		if console && os.Getenv(logger.DebugEnv) != "" {
			o.log = logger.NewEnvLogger("[rtop]")
		}
		logger.SetDefault(o.log)
		return nil
	}

	log, closer, err := logger.OpenFile(config.ExpandTilde(path), logger.LevelFromVerbosity(o.verbose))
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Can't open log file "+path,
			"Check the --log path and its permissions")
	}
	o.log, o.logCloser = log, closer
	logger.SetDefault(log)
	return nil
}

func (o *options) close() {
	if o.logCloser != nil {
		o.logCloser.Close()
		o.logCloser = nil
	}
}

// newRootCmd builds the full command tree.
func newRootCmd(o *options) *cobra.Command {
	root := &cobra.Command{
		Use:   "rtop",
		Short: "A terminal system monitor",
		Long: `rtop shows CPU, memory, network, disk, temperature, GPU, NPU, battery
and process activity in a single terminal dashboard.

Each category refreshes on its own cadence (see 'rtop show-config').

Keyboard shortcuts:
  F2-F5 / 1-4  Switch page (overview, processes, network, storage)
  space        Pause / resume
  r            Refresh now
  g            Cycle graph symbols
  + / -        Refresh faster / slower
  c m p n u    Sort processes by cpu, memory, pid, name, user
  / k K        Filter, kill, send signal
  h / ?        Help
  q / Esc      Quit

Examples:
  rtop
  rtop --interval 500ms --symbol block
  rtop --minimal --no-color
  rtop --duration 30s --export run.json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.setupLogging(cmd.HasParent())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			o.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.generateConfig {
				return initConfig(cmd, o, o.force)
			}
			return runDashboard(cmd, o)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&o.configPath, "config", "c", "", "config file (default "+config.DefaultPath()+")")
	pf.StringVar(&o.logPath, "log", "", "write a debug log to this file")
	pf.CountVarP(&o.verbose, "verbose", "v", "log more detail (repeatable; implies a log file)")
	pf.BoolVar(&o.noColor, "no-color", false, "disable colors (also honors NO_COLOR)")

	f := root.Flags()
	f.DurationVarP(&o.interval, "interval", "i", 0, "refresh interval for fast categories (e.g. 500ms, 2s)")
	f.BoolVar(&o.minimal, "minimal", false, "lower refresh rates to reduce overhead")
	f.StringVar(&o.symbol, "symbol", "", "graph symbols: "+strings.Join(graph.SymbolNames(), ", "))
	f.StringVar(&o.theme, "theme", "", "color theme: "+strings.Join(monitor.ThemeNames(), ", "))
	f.DurationVarP(&o.duration, "duration", "d", 0, "quit after this long (e.g. 30s)")
	f.StringVar(&o.exportPath, "export", "", "write a snapshot to this file when the dashboard exits")
	f.StringVar(&o.exportFormat, "format", "", "export format: json, yaml, csv (default from file extension)")
	f.BoolVar(&o.generateConfig, "generate-config", false, "write the default config file and exit")
	f.BoolVar(&o.force, "force", false, "with --generate-config, overwrite an existing file")

	root.AddCommand(
		newShowConfigCmd(o),
		newInitConfigCmd(o),
		newSetConfigCmd(o),
		newExportCmd(o),
		newDoctorCmd(o),
		newVersionCmd(),
		newCompletionCmd(),
	)
	return root
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	o := defaultOptions()
	root := newRootCmd(o)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := root.ExecuteContext(ctx)
	stop()
	o.close()

	if err != nil {
		fmt.Fprint(os.Stderr, formatError(root, err))
		os.Exit(errors.ExitCode(err))
	}
}

// formatError renders err for the terminal, suggesting the closest command
// for typos.
func formatError(root *cobra.Command, err error) string {
	if isUnknownCommandError(err) {
		msg := "Error: " + err.Error() + "\n"
		if name := extractUnknownCommand(err); name != "" {
			var names []string
			for _, c := range root.Commands() {
				names = append(names, c.Name())
			}
			if similar := util.SuggestSimilar(name, names, 2); len(similar) > 0 {
				msg += fmt.Sprintf("\n  Did you mean '%s'?\n", similar[0])
			}
		}
		return msg + "  Run 'rtop --help' for usage.\n"
	}

	if errors.CodeOf(err) != "" {
		return err.Error() + "\n"
	}
	return "Error: " + err.Error() + "\n"
}

func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag")
}

// extractUnknownCommand pulls the command name out of cobra's
// `unknown command "foo" for "rtop"` message.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.Index(msg, `"`)
	if start == -1 {
		return ""
	}
	end := strings.Index(msg[start+1:], `"`)
	if end == -1 {
		return ""
	}
	return msg[start+1 : start+1+end]
}
