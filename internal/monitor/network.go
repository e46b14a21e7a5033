package monitor

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// NetworkOptions configures a NetworkMonitor.
type NetworkOptions struct {
	RateFloor    float64 // bytes/s
	PingHosts    []string
	PingTimeout  time.Duration
	PingInterval time.Duration
}

// NetworkMonitor tracks receive and transmit rates summed across
// non-loopback interfaces, plus ping latency.
type NetworkMonitor struct {
	src    NetworkSource
	pinger Pinger
	opts   NetworkOptions
	now    func() time.Time

	rx, tx   *counterRate
	totalRx  uint64
	totalTx  uint64
	active   string
	perIface map[string]NetCounters

	latency     *History // percent of one second
	lastLatency time.Duration
	pingOK      bool
	lastPing    time.Time
}

// NewNetworkMonitor creates a network monitor. pinger may be nil to disable
// latency checks.
func NewNetworkMonitor(src NetworkSource, pinger Pinger, size int, opts NetworkOptions) (*NetworkMonitor, error) {
	rx, err := newCounterRate(size, opts.RateFloor)
	if err != nil {
		return nil, err
	}
	tx, err := newCounterRate(size, opts.RateFloor)
	if err != nil {
		return nil, err
	}
	latency, err := NewHistory(size, 0)
	if err != nil {
		return nil, err
	}
	if opts.PingTimeout <= 0 {
		opts.PingTimeout = time.Second
	}
	if opts.PingInterval <= 0 {
		opts.PingInterval = 3 * time.Second
	}
	return &NetworkMonitor{
		src:      src,
		pinger:   pinger,
		opts:     opts,
		now:      time.Now,
		rx:       rx,
		tx:       tx,
		latency:  latency,
		perIface: make(map[string]NetCounters),
	}, nil
}

// Update reads interface counters and, once per ping interval, measures
// latency.
func (m *NetworkMonitor) Update(ctx context.Context) error {
	counters, err := m.src.ReadNetwork(ctx)
	if err != nil {
		return fmt.Errorf("read network: %w", err)
	}
	now := m.now()

	var rx, tx uint64
	var busiest uint64
	active := ""
	for _, c := range counters {
		if isLoopback(c.Interface) {
			continue
		}
		rx += c.RxBytes
		tx += c.TxBytes

		prev, seen := m.perIface[c.Interface]
		var moved uint64
		if seen && c.RxBytes >= prev.RxBytes && c.TxBytes >= prev.TxBytes {
			moved = (c.RxBytes - prev.RxBytes) + (c.TxBytes - prev.TxBytes)
		}
		if active == "" || moved > busiest {
			active, busiest = c.Interface, moved
		}
		m.perIface[c.Interface] = c
	}

	m.rx.observe(rx, now)
	m.tx.observe(tx, now)
	m.totalRx, m.totalTx = rx, tx
	if active != "" {
		m.active = active
	}

	m.maybePing(ctx, now)
	return nil
}

func (m *NetworkMonitor) maybePing(ctx context.Context, now time.Time) {
	if m.pinger == nil || len(m.opts.PingHosts) == 0 {
		return
	}
	if !m.lastPing.IsZero() && now.Sub(m.lastPing) < m.opts.PingInterval {
		return
	}
	m.lastPing = now

	for _, host := range m.opts.PingHosts {
		d, err := m.pinger.Ping(ctx, host, m.opts.PingTimeout)
		if err == nil {
			m.lastLatency, m.pingOK = d, true
			m.latency.Push(float64(d) / float64(time.Second) * 100)
			return
		}
	}
	m.pingOK = false
	m.latency.Push(0)
}

func isLoopback(name string) bool {
	return name == "lo" || strings.HasPrefix(name, "lo0") || strings.HasPrefix(strings.ToLower(name), "loopback")
}

// Rx returns the receive history, scaled to the current receive ceiling.
func (m *NetworkMonitor) Rx() *History { return m.rx.History() }

// Tx returns the transmit history, scaled to the current transmit ceiling.
func (m *NetworkMonitor) Tx() *History { return m.tx.History() }

// Rates returns the newest receive and transmit rates in bytes/s.
func (m *NetworkMonitor) Rates() (rx, tx float64) { return m.rx.Rate(), m.tx.Rate() }

// Ceilings returns the full-scale rates of the two graphs.
func (m *NetworkMonitor) Ceilings() (rx, tx float64) { return m.rx.Ceiling(), m.tx.Ceiling() }

// Totals returns the cumulative byte counters.
func (m *NetworkMonitor) Totals() (rx, tx uint64) { return m.totalRx, m.totalTx }

// ActiveInterface returns the interface that moved the most bytes last update.
func (m *NetworkMonitor) ActiveInterface() string { return m.active }

// Latency returns the latency history (percent of one second).
func (m *NetworkMonitor) Latency() *History { return m.latency }

// LastLatency returns the newest ping result and whether it succeeded.
func (m *NetworkMonitor) LastLatency() (time.Duration, bool) { return m.lastLatency, m.pingOK }
