package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rileyhilliard/rtop/internal/errors"
	"github.com/rileyhilliard/rtop/internal/graph"
	"github.com/rileyhilliard/rtop/internal/monitor"
	"github.com/rileyhilliard/rtop/internal/util"
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but rtop only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade rtop, or regenerate the file with 'rtop init-config --force'")
	}

	if err := validateRefreshRates(cfg.RefreshRates); err != nil {
		return err
	}
	if err := validateColors(cfg.Colors); err != nil {
		return err
	}
	if err := validateDisplay(cfg.Display); err != nil {
		return err
	}
	if err := validateThresholds(cfg.Thresholds); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(),
			"Warning levels must be below critical levels, both within 0-100.")
	}
	if err := validateNetwork(cfg.Network); err != nil {
		return err
	}
	return validateExport(cfg.Export)
}

func validateRefreshRates(r RefreshRates) error {
	rates := []struct {
		key string
		ms  int
	}{
		{"cpu", r.CPU},
		{"memory", r.Memory},
		{"network", r.Network},
		{"temp", r.Temp},
		{"gpu", r.GPU},
		{"npu", r.NPU},
		{"battery", r.Battery},
		{"system", r.System},
		{"disk", r.Disk},
		{"process", r.Process},
	}
	for _, rate := range rates {
		if rate.ms <= 0 {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("refresh_rates.%s must be a positive number of milliseconds, got %d", rate.key, rate.ms),
				"Use something like 1000 for once a second.")
		}
	}
	return nil
}

func validateColors(c ColorsConfig) error {
	if _, ok := monitor.Themes[c.Theme]; !ok {
		return unknownValue("colors.theme", c.Theme, monitor.ThemeNames())
	}
	if _, err := graph.ParseSymbol(c.GraphSymbol); err != nil {
		return unknownValue("colors.graph_symbol", c.GraphSymbol, graph.SymbolNames())
	}
	return nil
}

// unknownValue builds an error for an enum value, suggesting the closest
// valid names when the input looks like a typo.
func unknownValue(key, got string, valid []string) error {
	suggestion := "Valid values: " + strings.Join(valid, ", ")
	if similar := util.SuggestSimilar(got, valid, 3); len(similar) > 0 {
		suggestion = fmt.Sprintf("Did you mean '%s'? %s", similar[0], suggestion)
	}
	return errors.New(errors.ErrConfig, fmt.Sprintf("Unknown %s '%s'", key, got), suggestion)
}

func validateDisplay(d DisplayConfig) error {
	if d.HistorySize < 1 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("display.history_size must be at least 1, got %d", d.HistorySize),
			"The default keeps 61 samples.")
	}
	if d.MaxProcesses < 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("display.max_processes can't be negative, got %d", d.MaxProcesses),
			"Use 0 to show every process.")
	}
	return nil
}

func validateThresholds(th Thresholds) error {
	levels := []struct {
		key string
		l   Level
	}{
		{"thresholds.cpu", th.CPU},
		{"thresholds.memory", th.Memory},
		{"thresholds.temperature", th.Temperature},
	}
	for _, lv := range levels {
		if lv.l.Warning < 0 || lv.l.Critical > 100 {
			return fmt.Errorf("%s must be within 0-100 (warning %g, critical %g)", lv.key, lv.l.Warning, lv.l.Critical)
		}
		if lv.l.Warning > lv.l.Critical {
			return fmt.Errorf("%s warning (%g) is above critical (%g)", lv.key, lv.l.Warning, lv.l.Critical)
		}
	}
	if th.DiskWarning < 0 || th.DiskWarning > 100 {
		return fmt.Errorf("thresholds.disk_warning must be within 0-100, got %g", th.DiskWarning)
	}
	return nil
}

func validateNetwork(n NetworkConfig) error {
	if len(n.PingHosts) > 0 {
		if n.PingTimeout <= 0 {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("network.ping_timeout must be positive, got %s", n.PingTimeout),
				"Use a duration like '1s' or '500ms'.")
		}
		if n.PingInterval <= 0 {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("network.ping_interval must be positive, got %s", n.PingInterval),
				"Use a duration like '3s'.")
		}
	}
	for _, h := range n.PingHosts {
		if strings.TrimSpace(h) == "" || strings.HasPrefix(h, "-") {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("network.ping_hosts has an invalid entry %q", h),
				"Use a hostname or IP address.")
		}
	}
	if _, err := rateFloor(n.RateFloor); err != nil {
		return err
	}
	return nil
}

// rateFloor parses network.rate_floor into bytes per second.
func rateFloor(s string) (uint64, error) {
	v, err := util.ParseBytes(strings.TrimSuffix(strings.TrimSpace(s), "/s"))
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("network.rate_floor '%s' isn't a byte size", s),
			"Use a size like '1MiB' or '500kB'.")
	}
	if v == 0 {
		return 0, errors.New(errors.ErrConfig,
			"network.rate_floor must be above zero",
			"Use a size like '1MiB'.")
	}
	return v, nil
}

func validateExport(e ExportConfig) error {
	if !e.EnableLogging {
		return nil
	}
	if strings.TrimSpace(e.LogPath) == "" {
		return errors.New(errors.ErrConfig,
			"export.enable_logging is on but export.log_path is empty",
			"Set export.log_path to a CSV file, or turn logging off.")
	}
	if e.LogInterval <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("export.log_interval must be a positive number of milliseconds, got %d", e.LogInterval),
			"Use something like 5000 for every five seconds.")
	}
	return nil
}

// knownKeys lists every dotted key the config understands.
func knownKeys() []string {
	keys := newViper().AllKeys()
	sort.Strings(keys)
	return keys
}

// checkUnknownKeys rejects keys in the file that rtop doesn't read, which
// are almost always typos.
func checkUnknownKeys(fileKeys []string) error {
	known := knownKeys()
	set := make(map[string]bool, len(known))
	for _, k := range known {
		set[k] = true
	}

	sort.Strings(fileKeys)
	for _, k := range fileKeys {
		if set[k] {
			continue
		}
		suggestion := "Run 'rtop show-config' to see every supported key."
		if similar := util.SuggestSimilar(k, known, 3); len(similar) > 0 {
			suggestion = fmt.Sprintf("Did you mean '%s'?", similar[0])
		}
		return errors.New(errors.ErrConfig, fmt.Sprintf("Unknown config key '%s'", k), suggestion)
	}
	return nil
}
