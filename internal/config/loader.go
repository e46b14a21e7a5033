package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/rtop/internal/errors"
	"github.com/spf13/viper"
)

const (
	// GlobalConfigDir is the directory, relative to the user config root,
	// holding the config file.
	GlobalConfigDir = "rtop"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix prefixes environment overrides, e.g. RTOP_COLORS_THEME.
	EnvPrefix = "RTOP"
)

// DefaultPath returns $XDG_CONFIG_HOME/rtop/config.yaml, falling back to
// ~/.config/rtop/config.yaml.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, GlobalConfigDir, GlobalConfigFile)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", GlobalConfigDir, GlobalConfigFile)
}

// Find locates the config file:
// 1. Explicit path (from --config flag), which must exist
// 2. The default path, if it exists
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		path := ExpandTilde(explicit)
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct, or run 'rtop init-config' to create one")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return path, nil
	}

	if path := DefaultPath(); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}

// Load reads config from the specified path. Keys missing from the file
// keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'rtop init-config' to create a config file, or specify one with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is readable")
	}
	return parse(data, path)
}

// parse decodes YAML config data. source names the data in errors.
func parse(data []byte, source string) (*Config, error) {
	v := newViper()
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to parse "+source,
			"Check the file is valid YAML")
	}
	if err := checkUnknownKeys(v.AllKeys()); err != nil {
		return nil, err
	}
	return parseConfig(v, source)
}

// LoadOrDefault loads the config found for explicit, or returns defaults
// (with environment overrides applied) if there is none. The returned path
// is empty when defaults were used.
func LoadOrDefault(explicit string) (*Config, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}

	if path == "" {
		cfg, err := parseConfig(newViper(), "environment")
		return cfg, "", err
	}

	cfg, err := Load(path)
	return cfg, path, err
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, DefaultConfig())
	return v
}

// parseConfig converts viper config to our Config struct. Defaults are
// registered with viper, so unset keys and env overrides both resolve there.
func parseConfig(v *viper.Viper, source string) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+source)
	}

	cfg.Export.LogPath = ExpandTilde(Expand(cfg.Export.LogPath))
	return &cfg, nil
}

// setDefaults registers every key so unmarshalling and AutomaticEnv see it.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("version", d.Version)

	r := d.RefreshRates
	v.SetDefault("refresh_rates.cpu", r.CPU)
	v.SetDefault("refresh_rates.memory", r.Memory)
	v.SetDefault("refresh_rates.network", r.Network)
	v.SetDefault("refresh_rates.temp", r.Temp)
	v.SetDefault("refresh_rates.gpu", r.GPU)
	v.SetDefault("refresh_rates.npu", r.NPU)
	v.SetDefault("refresh_rates.battery", r.Battery)
	v.SetDefault("refresh_rates.system", r.System)
	v.SetDefault("refresh_rates.disk", r.Disk)
	v.SetDefault("refresh_rates.process", r.Process)

	v.SetDefault("colors.theme", d.Colors.Theme)
	v.SetDefault("colors.enable_colors", d.Colors.EnableColors)
	v.SetDefault("colors.graph_symbol", d.Colors.GraphSymbol)

	dp := d.Display
	v.SetDefault("display.show_temperature", dp.ShowTemperature)
	v.SetDefault("display.show_network", dp.ShowNetwork)
	v.SetDefault("display.show_disk", dp.ShowDisk)
	v.SetDefault("display.show_gpu", dp.ShowGPU)
	v.SetDefault("display.show_npu", dp.ShowNPU)
	v.SetDefault("display.show_battery", dp.ShowBattery)
	v.SetDefault("display.max_processes", dp.MaxProcesses)
	v.SetDefault("display.show_kernel_processes", dp.ShowKernelProcesses)
	v.SetDefault("display.show_self", dp.ShowSelf)
	v.SetDefault("display.history_size", dp.HistorySize)
	v.SetDefault("display.mirror_upload", dp.MirrorUpload)

	th := d.Thresholds
	v.SetDefault("thresholds.cpu.warning", th.CPU.Warning)
	v.SetDefault("thresholds.cpu.critical", th.CPU.Critical)
	v.SetDefault("thresholds.memory.warning", th.Memory.Warning)
	v.SetDefault("thresholds.memory.critical", th.Memory.Critical)
	v.SetDefault("thresholds.temperature.warning", th.Temperature.Warning)
	v.SetDefault("thresholds.temperature.critical", th.Temperature.Critical)
	v.SetDefault("thresholds.disk_warning", th.DiskWarning)

	v.SetDefault("network.ping_hosts", d.Network.PingHosts)
	v.SetDefault("network.ping_timeout", d.Network.PingTimeout)
	v.SetDefault("network.ping_interval", d.Network.PingInterval)
	v.SetDefault("network.rate_floor", d.Network.RateFloor)

	v.SetDefault("scheduler.fixed_phase", d.Scheduler.FixedPhase)

	v.SetDefault("export.enable_logging", d.Export.EnableLogging)
	v.SetDefault("export.log_path", d.Export.LogPath)
	v.SetDefault("export.log_interval", d.Export.LogInterval)
}
