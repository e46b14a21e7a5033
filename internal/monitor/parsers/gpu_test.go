package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNvidiaSMI(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		wantLen int
		wantErr bool
	}{
		{name: "empty output", output: "", wantLen: 0},
		{name: "single gpu", output: "0, NVIDIA GeForce RTX 3080, 45, 2048, 10240, 65, 220.5, 1710, 30\n", wantLen: 1},
		{
			name: "two gpus",
			output: "0, NVIDIA A100, 98, 32768, 40960, 78, 350, 1410, [N/A]\n" +
				"1, NVIDIA A100, 12, 1024, 40960, 41, 60, 210, [N/A]\n",
			wantLen: 2,
		},
		{name: "too few fields", output: "0, NVIDIA, 45, 2048", wantErr: true},
		{name: "bad utilization", output: "0, NVIDIA, abc, 2048, 10240, 65, 220, 1710, 30", wantErr: true},
		{name: "bad memory", output: "0, NVIDIA, 45, lots, 10240, 65, 220, 1710, 30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gpus, err := ParseNvidiaSMI(tt.output)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, gpus, tt.wantLen)
		})
	}
}

func TestParseNvidiaSMI_Fields(t *testing.T) {
	gpus, err := ParseNvidiaSMI("0, NVIDIA GeForce RTX 3080, 45, 2048, 10240, 65, 220.5, 1710, 30")
	require.NoError(t, err)
	require.Len(t, gpus, 1)

	g := gpus[0]
	assert.Equal(t, 0, g.Index)
	assert.Equal(t, "NVIDIA GeForce RTX 3080", g.Name)
	assert.Equal(t, "NVIDIA", g.Vendor)
	assert.InDelta(t, 45.0, g.Utilization, 0.001)
	assert.Equal(t, uint64(2048*1024*1024), g.MemoryUsed)
	assert.Equal(t, uint64(10240*1024*1024), g.MemoryTotal)
	assert.InDelta(t, 65.0, g.Temperature, 0.001)
	assert.InDelta(t, 220.5, g.PowerWatts, 0.001)
	assert.Equal(t, 1710, g.ClockMHz)
	assert.InDelta(t, 30.0, g.FanPercent, 0.001)
	assert.InDelta(t, 20.0, g.MemoryPercent(), 0.001)
}

func TestParseNvidiaSMI_MissingSensors(t *testing.T) {
	gpus, err := ParseNvidiaSMI("1, Tesla T4, 5, 100, 15360, [N/A], [Not Supported], [N/A], [N/A]")
	require.NoError(t, err)
	require.Len(t, gpus, 1)

	g := gpus[0]
	assert.Equal(t, 1, g.Index)
	assert.InDelta(t, -1.0, g.Temperature, 0.001)
	assert.InDelta(t, -1.0, g.PowerWatts, 0.001)
	assert.Equal(t, -1, g.ClockMHz)
	assert.InDelta(t, -1.0, g.FanPercent, 0.001)
}

func TestNvidiaSMIArgs(t *testing.T) {
	args := NvidiaSMIArgs()
	require.Len(t, args, 2)
	assert.Contains(t, args[0], NvidiaSMIQuery)
	assert.Equal(t, "--format=csv,noheader,nounits", args[1])
}

const rocmSample = `{
  "card1": {
    "GPU use (%)": "7",
    "VRAM Total Memory (B)": "17163091968",
    "VRAM Total Used Memory (B)": "1073741824",
    "Temperature (Sensor junction) (C)": "55.0",
    "Temperature (Sensor edge) (C)": "48.0",
    "Average Graphics Package Power (W)": "35.0",
    "Card series": "Navi 21 [Radeon RX 6800]"
  },
  "card0": {
    "GPU use (%)": "93",
    "VRAM Total Memory (B)": "8589934592",
    "VRAM Total Used Memory (B)": "4294967296",
    "Temperature (Sensor junction) (C)": "80.0"
  },
  "system": {"Driver version": "6.2.4"}
}`

func TestParseRocmSMI(t *testing.T) {
	gpus, err := ParseRocmSMI(rocmSample)
	require.NoError(t, err)
	require.Len(t, gpus, 2)

	assert.Equal(t, 0, gpus[0].Index, "cards sorted by index")
	assert.Equal(t, "AMD GPU", gpus[0].Name)
	assert.InDelta(t, 93.0, gpus[0].Utilization, 0.001)
	assert.InDelta(t, 50.0, gpus[0].MemoryPercent(), 0.001)
	assert.InDelta(t, 80.0, gpus[0].Temperature, 0.001)
	assert.InDelta(t, -1.0, gpus[0].PowerWatts, 0.001)

	assert.Equal(t, 1, gpus[1].Index)
	assert.Equal(t, "Navi 21 [Radeon RX 6800]", gpus[1].Name)
	assert.Equal(t, "AMD", gpus[1].Vendor)
	assert.InDelta(t, 48.0, gpus[1].Temperature, 0.001, "edge sensor preferred")
	assert.InDelta(t, 35.0, gpus[1].PowerWatts, 0.001)
}

func TestParseRocmSMI_Errors(t *testing.T) {
	gpus, err := ParseRocmSMI("  ")
	require.NoError(t, err)
	assert.Empty(t, gpus)

	_, err = ParseRocmSMI("not json")
	assert.Error(t, err)
}
