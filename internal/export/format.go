package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/rtop/internal/errors"
	"github.com/rileyhilliard/rtop/internal/util"
)

// Format is an export file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// Formats lists the supported formats.
var Formats = []Format{FormatJSON, FormatYAML, FormatCSV}

func formatNames() []string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return names
}

// ParseFormat maps a flag value to a Format. "yml" is accepted for YAML.
func ParseFormat(name string) (Format, error) {
	switch n := strings.ToLower(strings.TrimSpace(name)); n {
	case "json", "yaml", "csv":
		return Format(n), nil
	case "yml":
		return FormatYAML, nil
	}
	suggestion := "Use one of: " + strings.Join(formatNames(), ", ")
	if similar := util.SuggestSimilar(name, formatNames(), 2); len(similar) > 0 {
		suggestion = fmt.Sprintf("Did you mean '%s'?", similar[0])
	}
	return "", errors.New(errors.ErrInput, fmt.Sprintf("Unknown export format '%s'", name), suggestion)
}

// FormatFromPath picks a format from the file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	if f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), ".")); err == nil {
		return f
	}
	return FormatJSON
}

// CSVHeader is the column list of CSV exports and the metrics log.
var CSVHeader = []string{
	"timestamp", "session_id",
	"cpu_avg", "memory_percent", "swap_percent",
	"network_rx_rate", "network_tx_rate", "latency_ms",
	"max_temp", "battery_percent",
	"uptime", "load_1m", "load_5m", "load_15m",
}

// CSVRecord flattens s into one row matching CSVHeader. Readings that are
// not available are left empty.
func (s Snapshot) CSVRecord() []string {
	f2 := func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

	latency, temp, battery := "", "", ""
	if s.Network.LatencyMs != nil {
		latency = f2(*s.Network.LatencyMs)
	}
	if s.Temperature != nil {
		temp = f2(s.Temperature.Max)
	}
	if s.Battery != nil {
		battery = f2(s.Battery.Percent)
	}

	return []string{
		s.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
		s.SessionID,
		f2(s.CPU.Average),
		f2(s.Memory.Percent),
		f2(s.Memory.SwapPercent),
		f2(s.Network.RxRate),
		f2(s.Network.TxRate),
		latency,
		temp,
		battery,
		strconv.FormatUint(s.System.Uptime, 10),
		f2(s.System.LoadAverage[0]),
		f2(s.System.LoadAverage[1]),
		f2(s.System.LoadAverage[2]),
	}
}

// Write encodes s to w in the given format.
func Write(w io.Writer, s Snapshot, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write(CSVHeader); err != nil {
			return err
		}
		if err := cw.Write(s.CSVRecord()); err != nil {
			return err
		}
		cw.Flush()
		return cw.Error()
	default:
		_, err := ParseFormat(string(format))
		return err
	}
}

// WriteFile writes s to path, replacing any existing file.
func WriteFile(path string, s Snapshot, format Format) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.WrapWithCode(err, errors.ErrExport,
				"Can't create export directory",
				"Check permissions on "+dir)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrExport,
			"Can't create export file "+path,
			"Check the path and its permissions")
	}
	if err := Write(f, s, format); err != nil {
		f.Close()
		return errors.WrapWithCode(err, errors.ErrExport, "Failed to write "+string(format)+" export", "")
	}
	if err := f.Close(); err != nil {
		return errors.WrapWithCode(err, errors.ErrExport, "Failed to write export file "+path, "")
	}
	return nil
}
