package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletion(t *testing.T) {
	tests := []struct {
		shell string
		want  string
	}{
		{"bash", "# bash completion for rtop"},
		{"zsh", "#compdef rtop"},
		{"fish", "complete -c rtop"},
		{"powershell", "Register-ArgumentCompleter"},
	}
	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			out, err := run(testOptions(t), "completion", tt.shell)
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}

	t.Run("unknown shell", func(t *testing.T) {
		_, err := run(testOptions(t), "completion", "tcsh")
		require.Error(t, err)
	})
}
