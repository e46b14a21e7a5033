package doctor

import (
	"context"
	"runtime"
	"strings"

	"github.com/rileyhilliard/rtop/internal/exec"
)

// ToolCheck looks for any one of several external tools. Missing tools
// only warn: the features that need them are simply hidden.
type ToolCheck struct {
	Label   string
	Purpose string
	Tools   []string
	Hint    string

	// LookPath defaults to exec.LookPath.
	LookPath func(string) (string, bool)
}

func (c *ToolCheck) Name() string     { return "tool_" + c.Label }
func (c *ToolCheck) Category() string { return CategoryTools }

func (c *ToolCheck) Run(context.Context) CheckResult {
	look := c.LookPath
	if look == nil {
		look = exec.LookPath
	}
	for _, tool := range c.Tools {
		if path, ok := look(tool); ok {
			return CheckResult{
				Name:    c.Name(),
				Status:  StatusPass,
				Message: tool + " (" + path + ") for " + c.Purpose,
			}
		}
	}
	return CheckResult{
		Name:       c.Name(),
		Status:     StatusWarn,
		Message:    strings.Join(c.Tools, " / ") + " not found, " + c.Purpose + " disabled",
		Suggestion: c.Hint,
	}
}

// NewToolChecks returns the TOOLS checks for this platform.
func NewToolChecks() []Check {
	checks := []Check{
		&ToolCheck{Label: "ping", Purpose: "network latency", Tools: []string{"ping"},
			Hint: "Install iputils-ping (Linux)"},
		&ToolCheck{Label: "gpu", Purpose: "GPU metrics", Tools: []string{"nvidia-smi", "rocm-smi"},
			Hint: "Install the NVIDIA driver utilities or ROCm"},
	}
	if runtime.GOOS == "darwin" {
		checks = append(checks, &ToolCheck{Label: "pmset", Purpose: "battery status", Tools: []string{"pmset"}})
	}
	return checks
}
