package monitor

import "time"

// DefaultRateFloor is the smallest full-scale value for byte-rate graphs.
const DefaultRateFloor = 1 << 20

// counterRate turns a cumulative byte counter into a per-second rate and
// keeps a percentage-scaled history of it. The full scale is the peak raw
// rate still inside the history window, never below floor.
type counterRate struct {
	raw    *History // bytes/s
	scaled *History // percent of ceiling
	floor  float64
	last   uint64
	lastAt time.Time
	primed bool
}

func newCounterRate(capacity int, floor float64) (*counterRate, error) {
	raw, err := NewHistory(capacity, 0)
	if err != nil {
		return nil, err
	}
	scaled, err := NewHistory(capacity, 0)
	if err != nil {
		return nil, err
	}
	if floor <= 0 {
		floor = DefaultRateFloor
	}
	return &counterRate{raw: raw, scaled: scaled, floor: floor}, nil
}

// observe records a counter value taken at now. The first observation only
// primes the counter. A counter that goes backwards (interface reset) counts
// as zero traffic.
func (c *counterRate) observe(value uint64, now time.Time) {
	if !c.primed {
		c.last, c.lastAt, c.primed = value, now, true
		return
	}
	elapsed := now.Sub(c.lastAt).Seconds()
	var rate float64
	if value >= c.last && elapsed > 0 {
		rate = float64(value-c.last) / elapsed
	}
	c.last, c.lastAt = value, now

	c.raw.Push(rate)
	c.scaled.Push(rate / c.ceiling() * 100)
}

// ceiling returns the current full-scale rate.
func (c *counterRate) ceiling() float64 {
	peak := c.floor
	for _, v := range c.raw.Snapshot() {
		if v > peak {
			peak = v
		}
	}
	return peak
}

// Rate returns the newest bytes/s value.
func (c *counterRate) Rate() float64 { return c.raw.Latest() }

// Ceiling returns the full-scale bytes/s value of the graph.
func (c *counterRate) Ceiling() float64 { return c.ceiling() }

// History returns the percentage-scaled history.
func (c *counterRate) History() *History { return c.scaled }
