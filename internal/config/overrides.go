package config

import "time"

// Overrides are command-line flags that take precedence over the file.
// Zero values leave the config untouched.
type Overrides struct {
	// Interval replaces the fast cadences (cpu, memory, network, temp, gpu,
	// npu, system).
	Interval time.Duration
	// Minimal trades refresh rate for lower overhead.
	Minimal bool
	NoColor bool
	Symbol  string
	Theme   string
}

// Apply folds o into cfg. Minimal is applied before Interval, so an
// explicit --interval still wins for the fast categories.
func (o Overrides) Apply(cfg *Config) {
	r := &cfg.RefreshRates
	if o.Minimal {
		r.CPU, r.Memory = 2000, 2000
		r.Disk, r.Process = 5000, 5000
	}
	if o.Interval > 0 {
		n := int(o.Interval / time.Millisecond)
		r.CPU, r.Memory, r.Network, r.Temp = n, n, n, n
		r.GPU, r.NPU, r.System = n, n, n
	}
	if o.NoColor {
		cfg.Colors.EnableColors = false
	}
	if o.Symbol != "" {
		cfg.Colors.GraphSymbol = o.Symbol
	}
	if o.Theme != "" {
		cfg.Colors.Theme = o.Theme
	}
}
