package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/rileyhilliard/rtop/internal/logger"
)

// Category names a group of channels refreshed together.
type Category string

// Categories in their default evaluation order.
const (
	CategoryCPU         Category = "cpu"
	CategoryMemory      Category = "memory"
	CategoryNetwork     Category = "network"
	CategoryTemperature Category = "temperature"
	CategoryGPU         Category = "gpu"
	CategoryNPU         Category = "npu"
	CategoryBattery     Category = "battery"
	CategorySystem      Category = "system"
	CategoryDisk        Category = "disk"
	CategoryProcess     Category = "process"
	CategoryExport      Category = "export"
)

// Updater refreshes one category. Implementations bound their own blocking
// time; the scheduler never interrupts an update.
type Updater interface {
	Update(ctx context.Context) error
}

// UpdaterFunc adapts a function to Updater.
type UpdaterFunc func(ctx context.Context) error

// Update calls f(ctx).
func (f UpdaterFunc) Update(ctx context.Context) error { return f(ctx) }

// Policy decides how last-fired times advance after a fire.
type Policy int

const (
	// PolicyDrift records the actual fire time, so a late tick pushes every
	// later fire back. Missed cadences are never caught up.
	PolicyDrift Policy = iota
	// PolicyFixedPhase advances by exactly one cadence, keeping fires on the
	// original phase. If that still leaves a full cadence behind, the phase
	// resyncs to now instead of bursting.
	PolicyFixedPhase
)

func (p Policy) String() string {
	if p == PolicyFixedPhase {
		return "fixed-phase"
	}
	return "drift"
}

type entry struct {
	category Category
	cadence  time.Duration
	last     time.Time
	force    bool
	updater  Updater
}

// Scheduler decides on each loop tick which categories are due and runs
// their updaters synchronously, in registration order. It has no timer of
// its own; the caller drives it with Tick.
type Scheduler struct {
	entries []*entry
	index   map[Category]*entry
	start   time.Time
	paused  bool
	policy  Policy
	log     logger.Logger
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithPolicy selects the last-fired policy.
func WithPolicy(p Policy) SchedulerOption {
	return func(s *Scheduler) { s.policy = p }
}

// WithLogger sets where swallowed update failures are reported.
func WithLogger(l logger.Logger) SchedulerOption {
	return func(s *Scheduler) { s.log = l }
}

// NewScheduler creates a scheduler whose categories count elapsed time from
// start.
func NewScheduler(start time.Time, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		index:  make(map[Category]*entry),
		start:  start,
		policy: PolicyDrift,
		log:    logger.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register appends a category. Registration order is evaluation order.
func (s *Scheduler) Register(c Category, cadence time.Duration, u Updater) error {
	if _, ok := s.index[c]; ok {
		return fmt.Errorf("category %q already registered", c)
	}
	if cadence <= 0 {
		return fmt.Errorf("category %q: cadence must be positive, got %s", c, cadence)
	}
	if u == nil {
		return fmt.Errorf("category %q: nil updater", c)
	}
	e := &entry{category: c, cadence: cadence, last: s.start, updater: u}
	s.entries = append(s.entries, e)
	s.index[c] = e
	return nil
}

// Tick fires every due category and returns them in evaluation order.
// A category is due once now - last >= cadence. Update errors are logged at
// debug level and otherwise ignored; the category still counts as fired so a
// failing source is retried one cadence later rather than every tick.
// A cancelled ctx stops evaluation before the next category.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) []Category {
	if s.paused {
		return nil
	}

	var fired []Category
	for _, e := range s.entries {
		if ctx.Err() != nil {
			break
		}
		if !e.force && now.Sub(e.last) < e.cadence {
			continue
		}

		if err := e.updater.Update(ctx); err != nil {
			s.log.Debug("%s update failed: %v", e.category, err)
		}
		s.advance(e, now)
		fired = append(fired, e.category)
	}
	return fired
}

func (s *Scheduler) advance(e *entry, now time.Time) {
	if s.policy == PolicyFixedPhase && !e.force {
		e.last = e.last.Add(e.cadence)
		if now.Sub(e.last) >= e.cadence {
			e.last = now
		}
	} else {
		e.last = now
	}
	e.force = false
}

// Reset makes every category due on the next unpaused tick.
func (s *Scheduler) Reset() {
	for _, e := range s.entries {
		e.force = true
	}
}

// SetPaused suppresses or re-enables firing. Last-fired times are untouched,
// so resuming simply re-evaluates elapsed time.
func (s *Scheduler) SetPaused(paused bool) {
	s.paused = paused
}

// TogglePause flips the paused state and returns the new value.
func (s *Scheduler) TogglePause() bool {
	s.paused = !s.paused
	return s.paused
}

// Paused reports whether firing is suppressed.
func (s *Scheduler) Paused() bool {
	return s.paused
}

// SetCadence changes a category's cadence. The next due check uses it.
func (s *Scheduler) SetCadence(c Category, cadence time.Duration) error {
	e, ok := s.index[c]
	if !ok {
		return fmt.Errorf("unknown category %q", c)
	}
	if cadence <= 0 {
		return fmt.Errorf("category %q: cadence must be positive, got %s", c, cadence)
	}
	e.cadence = cadence
	return nil
}

// Cadence returns a category's cadence.
func (s *Scheduler) Cadence(c Category) (time.Duration, bool) {
	e, ok := s.index[c]
	if !ok {
		return 0, false
	}
	return e.cadence, true
}

// LastFired returns when a category last fired (the start time if never).
func (s *Scheduler) LastFired(c Category) (time.Time, bool) {
	e, ok := s.index[c]
	if !ok {
		return time.Time{}, false
	}
	return e.last, true
}

// Categories returns the registered categories in evaluation order.
func (s *Scheduler) Categories() []Category {
	out := make([]Category, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.category
	}
	return out
}

// Policy returns the active policy.
func (s *Scheduler) Policy() Policy {
	return s.policy
}
