package sources

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/rtop/internal/exec"
	"github.com/rileyhilliard/rtop/internal/monitor"
)

func TestGPU_ReadNvidia(t *testing.T) {
	r := &fakeRunner{results: map[string]exec.Result{
		"nvidia-smi": {Stdout: []byte("0, RTX 4090, 55, 4096, 24564, 60, 300, 2500, 40\n")},
	}}
	g := NewNvidiaGPU(r, "nvidia-smi")

	gpus, err := g.ReadGPUs(context.Background())
	require.NoError(t, err)
	require.Len(t, gpus, 1)
	assert.Equal(t, "RTX 4090", gpus[0].Name)
	assert.Equal(t, "NVIDIA", g.Vendor())
	assert.Contains(t, r.lastArgs(), "--format=csv,noheader,nounits")
}

func TestGPU_ReadAMD(t *testing.T) {
	r := &fakeRunner{results: map[string]exec.Result{
		"rocm-smi": {Stdout: []byte(`{"card0": {"GPU use (%)": "12", "Card series": "Radeon"}}`)},
	}}
	g := NewAMDGPU(r, "rocm-smi")

	gpus, err := g.ReadGPUs(context.Background())
	require.NoError(t, err)
	require.Len(t, gpus, 1)
	assert.InDelta(t, 12.0, gpus[0].Utilization, 0.001)
	assert.Equal(t, "AMD", g.Vendor())
	assert.Contains(t, r.lastArgs(), "--json")
}

func TestGPU_Unavailable(t *testing.T) {
	tests := []struct {
		name   string
		runner *fakeRunner
	}{
		{"tool missing", &fakeRunner{errs: map[string]error{"nvidia-smi": exec.ErrNotFound}}},
		{"driver missing", &fakeRunner{results: map[string]exec.Result{
			"nvidia-smi": {ExitCode: 9, Stderr: []byte("NVIDIA-SMI has failed because it couldn't communicate with the NVIDIA driver.")},
		}}},
		{"no devices", &fakeRunner{results: map[string]exec.Result{"nvidia-smi": {}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewNvidiaGPU(tt.runner, "nvidia-smi").ReadGPUs(context.Background())
			assert.ErrorIs(t, err, monitor.ErrUnavailable)
		})
	}
}

func TestGPU_ToolFailure(t *testing.T) {
	r := &fakeRunner{results: map[string]exec.Result{
		"nvidia-smi": {ExitCode: 1, Stderr: []byte("Unknown Error")},
	}}
	_, err := NewNvidiaGPU(r, "nvidia-smi").ReadGPUs(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, monitor.ErrUnavailable)
}
