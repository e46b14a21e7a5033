// Package exec runs the vendor tools rtop samples (nvidia-smi, rocm-smi,
// ping, pmset) and classifies their failures.
package exec

import (
	"bytes"
	"context"
	stderrors "errors"
	"os/exec"
	"time"

	"github.com/rileyhilliard/rtop/internal/errors"
)

// DefaultTimeout bounds a single tool invocation when the caller's context
// carries no deadline.
const DefaultTimeout = 5 * time.Second

// Result is the captured outcome of one command.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Runner executes a command without a shell and captures its output.
// A non-zero exit is reported through Result.ExitCode, not err.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// Local runs commands on this machine.
type Local struct {
	// Timeout overrides DefaultTimeout. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Run implements Runner.
func (l Local) Run(ctx context.Context, name string, args ...string) (Result, error) {
	if _, ok := ctx.Deadline(); !ok {
		timeout := l.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if runErr == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if stderrors.As(runErr, &exitErr) && ctx.Err() == nil {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	res.ExitCode = -1
	if stderrors.Is(runErr, exec.ErrNotFound) {
		return res, ErrNotFound
	}
	if ctx.Err() != nil {
		return res, ctx.Err()
	}
	return res, errors.WrapWithCode(runErr, errors.ErrCollect,
		"Couldn't run "+name,
		"Make sure the tool is installed and executable.")
}

// Output runs name and returns stdout, converting a non-zero exit into an
// error that carries the tool's stderr.
func Output(ctx context.Context, r Runner, name string, args ...string) ([]byte, error) {
	res, err := r.Run(ctx, name, args...)
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return res.Stdout, HandleExitError(name, string(res.Stderr), res.ExitCode)
	}
	return res.Stdout, nil
}
