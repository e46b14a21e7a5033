package sources

import (
	"context"
	"strings"

	"github.com/rileyhilliard/rtop/internal/exec"
)

type call struct {
	name string
	args []string
}

// fakeRunner returns canned results keyed by command name.
type fakeRunner struct {
	results map[string]exec.Result
	errs    map[string]error
	calls   []call
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (exec.Result, error) {
	f.calls = append(f.calls, call{name: name, args: args})
	if err := f.errs[name]; err != nil {
		return exec.Result{ExitCode: -1}, err
	}
	return f.results[name], nil
}

func (f *fakeRunner) lastArgs() string {
	if len(f.calls) == 0 {
		return ""
	}
	return strings.Join(f.calls[len(f.calls)-1].args, " ")
}
