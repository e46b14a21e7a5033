// Package parsers decodes the output of external tools and sysfs
// attributes into monitor readings.
package parsers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rileyhilliard/rtop/internal/monitor"
)

// NvidiaSMIQuery is the field list ParseNvidiaSMI expects, in order.
const NvidiaSMIQuery = "index,name,utilization.gpu,memory.used,memory.total,temperature.gpu,power.draw,clocks.current.graphics,fan.speed"

// NvidiaSMIArgs returns the nvidia-smi arguments producing ParseNvidiaSMI input.
func NvidiaSMIArgs() []string {
	return []string{"--query-gpu=" + NvidiaSMIQuery, "--format=csv,noheader,nounits"}
}

const mib = 1024 * 1024

// ParseNvidiaSMI parses one line per GPU of nvidia-smi CSV output, e.g.
//
//	0, NVIDIA GeForce RTX 3080, 45, 2048, 10240, 65, 220.5, 1710, 30
//
// Fields reported as "[N/A]" or "[Not Supported]" are left at -1 (or 0 for
// utilization and memory). Empty output yields no GPUs and no error.
func ParseNvidiaSMI(output string) ([]monitor.GPUReading, error) {
	var gpus []monitor.GPUReading
	scanner := bufio.NewScanner(strings.NewReader(output))
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		fields := strings.Split(text, ",")
		if len(fields) < 9 {
			return nil, fmt.Errorf("nvidia-smi line %d has %d fields, expected 9", line, len(fields))
		}
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}

		g := monitor.GPUReading{
			Index:       len(gpus),
			Name:        fields[1],
			Vendor:      "NVIDIA",
			Temperature: -1,
			PowerWatts:  -1,
			ClockMHz:    -1,
			FanPercent:  -1,
		}
		if v, ok, err := optFloat(fields[0]); err != nil {
			return nil, fmt.Errorf("gpu index %q: %w", fields[0], err)
		} else if ok {
			g.Index = int(v)
		}
		if v, ok, err := optFloat(fields[2]); err != nil {
			return nil, fmt.Errorf("gpu utilization %q: %w", fields[2], err)
		} else if ok {
			g.Utilization = v
		}
		if v, ok, err := optFloat(fields[3]); err != nil {
			return nil, fmt.Errorf("gpu memory used %q: %w", fields[3], err)
		} else if ok {
			g.MemoryUsed = uint64(v) * mib
		}
		if v, ok, err := optFloat(fields[4]); err != nil {
			return nil, fmt.Errorf("gpu memory total %q: %w", fields[4], err)
		} else if ok {
			g.MemoryTotal = uint64(v) * mib
		}
		// Sensors that a card lacks are not an error.
		if v, ok, _ := optFloat(fields[5]); ok {
			g.Temperature = v
		}
		if v, ok, _ := optFloat(fields[6]); ok {
			g.PowerWatts = v
		}
		if v, ok, _ := optFloat(fields[7]); ok {
			g.ClockMHz = int(v)
		}
		if v, ok, _ := optFloat(fields[8]); ok {
			g.FanPercent = v
		}
		gpus = append(gpus, g)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan nvidia-smi output: %w", err)
	}
	return gpus, nil
}

// optFloat parses a numeric field. ok is false for placeholders such as
// "[N/A]" and empty fields.
func optFloat(s string) (v float64, ok bool, err error) {
	if s == "" || strings.HasPrefix(s, "[") || strings.EqualFold(s, "N/A") {
		return 0, false, nil
	}
	v, err = strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

// RocmSMIArgs returns the rocm-smi arguments producing ParseRocmSMI input.
func RocmSMIArgs() []string {
	return []string{"--showuse", "--showmeminfo", "vram", "--showtemp", "--showpower", "--showproductname", "--json"}
}

// ParseRocmSMI parses `rocm-smi --json` output. Cards are keyed "card0",
// "card1", ...; the "system" entry is ignored. Key names vary between ROCm
// releases, so values are matched by substring.
func ParseRocmSMI(output string) ([]monitor.GPUReading, error) {
	output = strings.TrimSpace(output)
	if output == "" {
		return nil, nil
	}

	var doc map[string]map[string]string
	if err := json.Unmarshal([]byte(output), &doc); err != nil {
		return nil, fmt.Errorf("decode rocm-smi json: %w", err)
	}

	cards := make([]string, 0, len(doc))
	for k := range doc {
		if strings.HasPrefix(k, "card") {
			cards = append(cards, k)
		}
	}
	sort.Slice(cards, func(i, j int) bool { return cardIndex(cards[i]) < cardIndex(cards[j]) })

	gpus := make([]monitor.GPUReading, 0, len(cards))
	for _, card := range cards {
		fields := doc[card]
		g := monitor.GPUReading{
			Index:       cardIndex(card),
			Name:        "AMD GPU",
			Vendor:      "AMD",
			Temperature: -1,
			PowerWatts:  -1,
			ClockMHz:    -1,
			FanPercent:  -1,
		}
		for key, raw := range fields {
			v, ok, _ := optFloat(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
			switch {
			case key == "Card series" || key == "Card Series":
				if raw != "" {
					g.Name = raw
				}
			case !ok:
			case strings.HasPrefix(key, "GPU use"):
				g.Utilization = v
			case strings.Contains(key, "VRAM Total Used Memory"):
				g.MemoryUsed = uint64(v)
			case strings.Contains(key, "VRAM Total Memory"):
				g.MemoryTotal = uint64(v)
			case strings.HasPrefix(key, "Temperature") && strings.Contains(key, "edge"):
				g.Temperature = v
			case strings.HasPrefix(key, "Temperature") && g.Temperature < 0:
				g.Temperature = v
			case strings.Contains(key, "Power") && strings.Contains(key, "(W)"):
				g.PowerWatts = v
			}
		}
		gpus = append(gpus, g)
	}
	return gpus, nil
}

func cardIndex(key string) int {
	n, err := strconv.Atoi(strings.TrimPrefix(key, "card"))
	if err != nil {
		return 1 << 30
	}
	return n
}
