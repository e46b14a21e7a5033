package exec

import (
	stderrors "errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rileyhilliard/rtop/internal/errors"
)

// ErrNotFound reports that a tool is not installed.
var ErrNotFound = stderrors.New("command not found")

// commandNotFoundPatterns match shell and driver messages for a missing
// binary or a tool that cannot reach its driver.
var commandNotFoundPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\S+): command not found`),
	regexp.MustCompile(`(?i)(\S+): not found`),
	regexp.MustCompile(`(?i)(\S+): No such file or directory`),
}

var driverMissingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)NVIDIA-SMI has failed`),
	regexp.MustCompile(`(?i)couldn't communicate with the NVIDIA driver`),
	regexp.MustCompile(`(?i)No AMD GPUs specified`),
	regexp.MustCompile(`(?i)amdgpu driver.*not (loaded|initialized)`),
}

// IsCommandNotFound reports whether exit code and stderr describe a missing
// command, returning its name when one can be extracted.
func IsCommandNotFound(stderr string, exitCode int) (string, bool) {
	if exitCode != 127 {
		return "", false
	}
	for _, pattern := range commandNotFoundPatterns {
		if m := pattern.FindStringSubmatch(stderr); len(m) > 1 {
			return m[1], true
		}
	}
	return "", true
}

// IsDriverMissing reports whether a vendor tool ran but found no device.
func IsDriverMissing(stderr string) bool {
	for _, pattern := range driverMissingPatterns {
		if pattern.MatchString(stderr) {
			return true
		}
	}
	return false
}

// HandleExitError converts a failed invocation into an error. Missing tools
// and drivers wrap ErrNotFound so callers can disable the category.
func HandleExitError(name, stderr string, exitCode int) error {
	if _, ok := IsCommandNotFound(stderr, exitCode); ok || IsDriverMissing(stderr) {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}

	msg := strings.TrimSpace(stderr)
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	if msg == "" {
		msg = "no output"
	}
	return errors.New(errors.ErrCollect,
		fmt.Sprintf("%s exited with status %d: %s", name, exitCode, msg),
		"Run the tool by hand to see the full error.")
}
