// Package doctor diagnoses why parts of the dashboard stay empty: a bad
// config file, metric sources the host cannot provide, or missing helper
// tools.
package doctor

import (
	"context"
	"fmt"
	"sync"

	"github.com/rileyhilliard/rtop/internal/util"
)

// Check categories, in report order.
const (
	CategoryConfig  = "CONFIG"
	CategorySources = "SOURCES"
	CategoryTools   = "TOOLS"
)

// CategoryOrder is the order categories appear in a report.
var CategoryOrder = []string{CategoryConfig, CategorySources, CategoryTools}

// CheckStatus represents the result status of a check.
type CheckStatus int

const (
	StatusPass CheckStatus = iota
	StatusWarn
	StatusFail
)

// String returns a human-readable status string.
func (s CheckStatus) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusWarn:
		return "warn"
	case StatusFail:
		return "fail"
	default:
		return "unknown"
	}
}

// MarshalText renders the status as its name in JSON reports.
func (s CheckStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// CheckResult contains the outcome of running a check.
type CheckResult struct {
	Name       string      `json:"name"`
	Status     CheckStatus `json:"status"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
}

// Check defines the interface for diagnostic checks.
type Check interface {
	// Name returns the check's identifier.
	Name() string

	// Category returns the check's category (CONFIG, SOURCES or TOOLS).
	Category() string

	// Run executes the check and returns the result.
	Run(ctx context.Context) CheckResult
}

// Run executes checks with at most workers running at once and returns the
// results in the order of checks. workers < 1 runs them one at a time.
func Run(ctx context.Context, checks []Check, workers int) Results {
	if workers < 1 {
		workers = 1
	}
	results := make(Results, len(checks))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, check := range checks {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, c Check) {
			defer func() {
				<-sem
				wg.Done()
			}()
			results[idx] = c.Run(ctx)
		}(i, check)
	}

	wg.Wait()
	return results
}

// Results is the outcome of one doctor run.
type Results []CheckResult

// Count returns how many results have status s.
func (r Results) Count(s CheckStatus) int {
	n := 0
	for _, res := range r {
		if res.Status == s {
			n++
		}
	}
	return n
}

// Failed reports whether any check failed.
func (r Results) Failed() bool { return r.Count(StatusFail) > 0 }

// Clean reports whether every check passed.
func (r Results) Clean() bool { return r.Count(StatusPass) == len(r) }

// Summary is the one-line verdict printed under a report.
func (r Results) Summary() string {
	issues := len(r) - r.Count(StatusPass)
	if issues == 0 {
		return "Everything looks good"
	}
	return fmt.Sprintf("%d %s found", issues, util.Pluralize(issues, "issue", "issues"))
}
