package exec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCommandNotFound(t *testing.T) {
	tests := []struct {
		name     string
		stderr   string
		exitCode int
		wantCmd  string
		wantOK   bool
	}{
		{"bash", "bash: nvidia-smi: command not found", 127, "nvidia-smi", true},
		{"sh", "sh: 1: rocm-smi: not found", 127, "rocm-smi", true},
		{"no name", "something odd", 127, "", true},
		{"other exit", "bash: ping: command not found", 1, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, ok := IsCommandNotFound(tt.stderr, tt.exitCode)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantCmd, cmd)
		})
	}
}

func TestIsDriverMissing(t *testing.T) {
	assert.True(t, IsDriverMissing("NVIDIA-SMI has failed because it couldn't communicate with the NVIDIA driver."))
	assert.True(t, IsDriverMissing("WARNING: No AMD GPUs specified"))
	assert.False(t, IsDriverMissing("permission denied"))
}

func TestHandleExitError(t *testing.T) {
	err := HandleExitError("nvidia-smi", "NVIDIA-SMI has failed because it couldn't communicate with the NVIDIA driver.", 9)
	assert.ErrorIs(t, err, ErrNotFound)

	err = HandleExitError("ping", "", 127)
	assert.ErrorIs(t, err, ErrNotFound)

	err = HandleExitError("pmset", "first line\nsecond line", 1)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "first line")
	assert.NotContains(t, err.Error(), "second line")
}
