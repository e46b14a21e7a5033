// Package config loads, validates and writes the rtop configuration file.
package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete config.yaml file.
type Config struct {
	Version      int             `yaml:"version" mapstructure:"version"`
	RefreshRates RefreshRates    `yaml:"refresh_rates" mapstructure:"refresh_rates"`
	Colors       ColorsConfig    `yaml:"colors" mapstructure:"colors"`
	Display      DisplayConfig   `yaml:"display" mapstructure:"display"`
	Thresholds   Thresholds      `yaml:"thresholds" mapstructure:"thresholds"`
	Network      NetworkConfig   `yaml:"network" mapstructure:"network"`
	Scheduler    SchedulerConfig `yaml:"scheduler" mapstructure:"scheduler"`
	Export       ExportConfig    `yaml:"export" mapstructure:"export"`
}

// RefreshRates are per-category cadences in milliseconds.
type RefreshRates struct {
	CPU     int `yaml:"cpu" mapstructure:"cpu"`
	Memory  int `yaml:"memory" mapstructure:"memory"`
	Network int `yaml:"network" mapstructure:"network"`
	Temp    int `yaml:"temp" mapstructure:"temp"`
	GPU     int `yaml:"gpu" mapstructure:"gpu"`
	NPU     int `yaml:"npu" mapstructure:"npu"`
	Battery int `yaml:"battery" mapstructure:"battery"`
	System  int `yaml:"system" mapstructure:"system"`
	Disk    int `yaml:"disk" mapstructure:"disk"`
	Process int `yaml:"process" mapstructure:"process"`
}

// ColorsConfig controls the palette and graph glyphs.
type ColorsConfig struct {
	// Theme is one of the built-in palettes: cyan, synthwave, green, mono.
	Theme string `yaml:"theme" mapstructure:"theme"`

	// EnableColors turns off every color when false.
	EnableColors bool `yaml:"enable_colors" mapstructure:"enable_colors"`

	// GraphSymbol is braille, block or tty.
	GraphSymbol string `yaml:"graph_symbol" mapstructure:"graph_symbol"`
}

// DisplayConfig decides which panels are shown and how much they hold.
type DisplayConfig struct {
	ShowTemperature     bool `yaml:"show_temperature" mapstructure:"show_temperature"`
	ShowNetwork         bool `yaml:"show_network" mapstructure:"show_network"`
	ShowDisk            bool `yaml:"show_disk" mapstructure:"show_disk"`
	ShowGPU             bool `yaml:"show_gpu" mapstructure:"show_gpu"`
	ShowNPU             bool `yaml:"show_npu" mapstructure:"show_npu"`
	ShowBattery         bool `yaml:"show_battery" mapstructure:"show_battery"`
	MaxProcesses        int  `yaml:"max_processes" mapstructure:"max_processes"`
	ShowKernelProcesses bool `yaml:"show_kernel_processes" mapstructure:"show_kernel_processes"`
	ShowSelf            bool `yaml:"show_self" mapstructure:"show_self"`

	// HistorySize is the number of samples each graph keeps.
	HistorySize int `yaml:"history_size" mapstructure:"history_size"`

	// MirrorUpload draws the upload graph hanging below the download graph.
	MirrorUpload bool `yaml:"mirror_upload" mapstructure:"mirror_upload"`
}

// Level is a warning/critical pair in percent (or °C for temperature).
type Level struct {
	Warning  float64 `yaml:"warning" mapstructure:"warning"`
	Critical float64 `yaml:"critical" mapstructure:"critical"`
}

// Thresholds color metrics by severity.
type Thresholds struct {
	CPU         Level   `yaml:"cpu" mapstructure:"cpu"`
	Memory      Level   `yaml:"memory" mapstructure:"memory"`
	Temperature Level   `yaml:"temperature" mapstructure:"temperature"`
	DiskWarning float64 `yaml:"disk_warning" mapstructure:"disk_warning"`
}

// NetworkConfig controls throughput scaling and latency probes.
type NetworkConfig struct {
	// PingHosts are tried in order; the first that answers is recorded.
	PingHosts    []string      `yaml:"ping_hosts" mapstructure:"ping_hosts"`
	PingTimeout  time.Duration `yaml:"ping_timeout" mapstructure:"ping_timeout"`
	PingInterval time.Duration `yaml:"ping_interval" mapstructure:"ping_interval"`

	// RateFloor is the lowest autoscale ceiling for throughput graphs, as a
	// byte quantity per second such as "1MiB" or "500 kB".
	RateFloor string `yaml:"rate_floor" mapstructure:"rate_floor"`
}

// SchedulerConfig selects how the refresh scheduler keeps time.
type SchedulerConfig struct {
	// FixedPhase keeps fires on a fixed grid instead of restarting each
	// cadence from the actual fire time.
	FixedPhase bool `yaml:"fixed_phase" mapstructure:"fixed_phase"`
}

// ExportConfig controls the background metrics log.
type ExportConfig struct {
	EnableLogging bool   `yaml:"enable_logging" mapstructure:"enable_logging"`
	LogPath       string `yaml:"log_path" mapstructure:"log_path"`
	// LogInterval is in milliseconds.
	LogInterval int `yaml:"log_interval" mapstructure:"log_interval"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		RefreshRates: RefreshRates{
			CPU:     1000,
			Memory:  1000,
			Network: 1000,
			Temp:    1000,
			GPU:     1000,
			NPU:     1000,
			Battery: 2000,
			System:  1000,
			Disk:    2000,
			Process: 2000,
		},
		Colors: ColorsConfig{
			Theme:        "cyan",
			EnableColors: true,
			GraphSymbol:  "braille",
		},
		Display: DisplayConfig{
			ShowTemperature: true,
			ShowNetwork:     true,
			ShowDisk:        true,
			ShowGPU:         true,
			ShowNPU:         true,
			ShowBattery:     true,
			MaxProcesses:    20,
			ShowSelf:        true,
			HistorySize:     61,
			MirrorUpload:    true,
		},
		Thresholds: Thresholds{
			CPU:         Level{Warning: 60, Critical: 80},
			Memory:      Level{Warning: 70, Critical: 90},
			Temperature: Level{Warning: 65, Critical: 80},
			DiskWarning: 80,
		},
		Network: NetworkConfig{
			PingHosts:    []string{"8.8.8.8", "1.1.1.1"},
			PingTimeout:  time.Second,
			PingInterval: 3 * time.Second,
			RateFloor:    "1MiB",
		},
		Export: ExportConfig{
			LogPath:     "~/.local/share/rtop/metrics.csv",
			LogInterval: 5000,
		},
	}
}
