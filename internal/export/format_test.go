package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/rtop/internal/errors"
)

func testSnapshot() Snapshot {
	latency := 14.2
	return Snapshot{
		Timestamp: t0,
		SessionID: "abc",
		CPU:       CPUStats{Cores: []CoreStats{{0, 25.5}, {1, 30.2}}, Average: 27.85, LoadAverage: [3]float64{1.5, 1.2, 0.9}},
		Memory:    MemoryStats{Total: 16, Used: 8, Available: 8, Percent: 50, SwapTotal: 8, SwapUsed: 1, SwapPercent: 12.5},
		Network:   NetworkStats{Interface: "eth0", Received: 1000, Transmitted: 500, RxRate: 1024.5, TxRate: 512.3, LatencyMs: &latency},
		Disks:     []DiskStats{{Name: "nvme0n1", MountPoint: "/", Total: 500, Available: 250, Percent: 50}},
		Processes: []ProcessStats{{PID: 1234, Name: "test_process", CPU: 10.5, Memory: 1000000, MemoryPercent: 0.01}},
		System:    SystemStats{Hostname: "test-host", OS: "Linux", Kernel: "6.5.0", Uptime: 86400, LoadAverage: [3]float64{1.5, 1.2, 0.9}},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr string
	}{
		{"json", FormatJSON, ""},
		{"JSON", FormatJSON, ""},
		{" yaml ", FormatYAML, ""},
		{"yml", FormatYAML, ""},
		{"csv", FormatCSV, ""},
		{"jsn", "", "Did you mean 'json'?"},
		{"xml", "", "Did you mean 'yaml'?"},
		{"parquet", "", "Use one of: json, yaml, csv"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrInput))
			var e *errors.Error
			require.ErrorAs(t, err, &e)
			assert.Contains(t, e.Suggestion, tt.wantErr)
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatCSV, FormatFromPath("/tmp/m.csv"))
	assert.Equal(t, FormatYAML, FormatFromPath("m.yml"))
	assert.Equal(t, FormatJSON, FormatFromPath("m.json"))
	assert.Equal(t, FormatJSON, FormatFromPath("metrics"))
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, testSnapshot(), FormatJSON))

	var got Snapshot
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, testSnapshot(), got)
	assert.Contains(t, buf.String(), `"timestamp": "2026-02-04T20:00:00Z"`)
	assert.NotContains(t, buf.String(), "battery", "absent sections are omitted")
}

func TestWrite_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, testSnapshot(), FormatYAML))

	var doc map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "abc", doc["session_id"])
	assert.Contains(t, buf.String(), "hostname: test-host")
}

func TestWrite_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, testSnapshot(), FormatCSV))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, CSVHeader, records[0])

	row := map[string]string{}
	for i, col := range CSVHeader {
		row[col] = records[1][i]
	}
	assert.Equal(t, "2026-02-04T20:00:00Z", row["timestamp"])
	assert.Equal(t, "27.85", row["cpu_avg"])
	assert.Equal(t, "50.00", row["memory_percent"])
	assert.Equal(t, "14.20", row["latency_ms"])
	assert.Equal(t, "", row["max_temp"])
	assert.Equal(t, "86400", row["uptime"])
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, testSnapshot(), Format("xml"))
	assert.True(t, errors.IsCode(err, errors.ErrInput))
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "snap.json")
	require.NoError(t, WriteFile(path, testSnapshot(), FormatJSON))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{"))

	err = WriteFile(filepath.Join(path, "nested"), testSnapshot(), FormatJSON)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrExport))
}
