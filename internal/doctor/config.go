package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rileyhilliard/rtop/internal/config"
	"github.com/rileyhilliard/rtop/internal/errors"
)

// ConfigFileCheck loads and validates the config file.
type ConfigFileCheck struct {
	ConfigPath string // Explicit path, or empty to use the default location
}

func (c *ConfigFileCheck) Name() string     { return "config_file" }
func (c *ConfigFileCheck) Category() string { return CategoryConfig }

func (c *ConfigFileCheck) Run(context.Context) CheckResult {
	path, err := config.Find(c.ConfigPath)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Config file not found: %s", c.ConfigPath),
			Suggestion: "Check the --config path or run 'rtop init-config'",
		}
	}
	if path == "" {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusPass,
			Message:    "No config file, using built-in defaults",
			Suggestion: "Run 'rtop init-config' to create " + config.DefaultPath(),
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Failed to load %s", path),
			Suggestion: errors.Headline(err),
		}
	}
	if err := config.Validate(cfg); err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Invalid config in %s", path),
			Suggestion: errors.Headline(err),
		}
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: "Config file: " + path,
	}
}

// MetricsLogCheck verifies the metrics log directory can be written when
// logging is enabled.
type MetricsLogCheck struct {
	Path string
}

func (c *MetricsLogCheck) Name() string     { return "metrics_log" }
func (c *MetricsLogCheck) Category() string { return CategoryConfig }

func (c *MetricsLogCheck) Run(context.Context) CheckResult {
	dir := filepath.Dir(c.Path)
	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: fmt.Sprintf("Metrics log %s (directory created on first write)", c.Path),
		}
	case err != nil:
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Can't access %s: %v", dir, err),
			Suggestion: "Pick another export.log_path",
		}
	case !info.IsDir():
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("%s is not a directory", dir),
			Suggestion: "Pick another export.log_path",
		}
	}

	probe, err := os.CreateTemp(dir, ".rtop-doctor-*")
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Can't write to %s", dir),
			Suggestion: "Fix the directory permissions or pick another export.log_path",
		}
	}
	probe.Close()
	os.Remove(probe.Name())

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: "Metrics log: " + c.Path,
	}
}

// NewConfigChecks returns the CONFIG checks. The metrics log check is only
// included when cfg enables logging.
func NewConfigChecks(configPath string, cfg *config.Config) []Check {
	checks := []Check{&ConfigFileCheck{ConfigPath: configPath}}
	if cfg != nil && cfg.Export.EnableLogging {
		checks = append(checks, &MetricsLogCheck{Path: cfg.Export.LogPath})
	}
	return checks
}
