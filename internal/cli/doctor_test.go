package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/rtop/internal/errors"
)

func TestDoctorJSON(t *testing.T) {
	out, err := run(testOptions(t), "doctor", "--json")
	require.NoError(t, err)

	var report struct {
		Categories []struct {
			Name    string `json:"name"`
			Results []struct {
				Name   string `json:"name"`
				Status string `json:"status"`
			} `json:"results"`
		} `json:"categories"`
		Summary struct {
			Fail int `json:"fail"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.NotEmpty(t, report.Categories)
	assert.Equal(t, "CONFIG", report.Categories[0].Name)
	assert.Zero(t, report.Summary.Fail)

	status := map[string]string{}
	for _, c := range report.Categories {
		for _, r := range c.Results {
			status[r.Name] = r.Status
		}
	}
	assert.Equal(t, "pass", status["source_cpu"])
	assert.Equal(t, "warn", status["source_temperature"])
	assert.Equal(t, "warn", status["source_gpu"])
}

func TestDoctorReportsBrokenConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rtop.yaml")
	require.NoError(t, os.WriteFile(path, []byte("refresh_rates:\n  cpu: -5\n"), 0o644))

	out, err := run(testOptions(t), "doctor", "--config", path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCollect))
	assert.Contains(t, out, "Invalid config in "+path)
	assert.Contains(t, out, "cpu: 2 cores")
}
