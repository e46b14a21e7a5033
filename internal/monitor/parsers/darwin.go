package parsers

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rileyhilliard/rtop/internal/monitor"
)

var pmsetBattery = regexp.MustCompile(`(\d+)%;\s*([^;]+);\s*(\S+)?`)

// ParsePmsetBatt parses `pmset -g batt` output, e.g.
//
//	Now drawing from 'Battery Power'
//	 -InternalBattery-0 (id=4653155)	77%; discharging; 3:12 remaining present: true
//
// Machines without a battery report no InternalBattery line.
func ParsePmsetBatt(output string) (monitor.BatteryReading, error) {
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, "InternalBattery") {
			continue
		}
		m := pmsetBattery.FindStringSubmatch(line)
		if m == nil {
			return monitor.BatteryReading{}, fmt.Errorf("unrecognised pmset battery line: %q", strings.TrimSpace(line))
		}
		pct, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return monitor.BatteryReading{}, fmt.Errorf("parse battery percent %q: %w", m[1], err)
		}

		r := monitor.BatteryReading{Percent: pct}
		switch state := strings.TrimSpace(m[2]); state {
		case "charging", "finishing charge":
			r.State = monitor.BatteryCharging
		case "discharging":
			r.State = monitor.BatteryDischarging
		case "charged":
			r.State = monitor.BatteryFull
		default:
			r.State = monitor.BatteryUnknown
		}
		r.Remaining = parseClock(m[3])
		return r, nil
	}
	return monitor.BatteryReading{}, monitor.ErrUnavailable
}

// parseClock parses "h:mm"; anything else is zero.
func parseClock(s string) time.Duration {
	h, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0
	}
	hours, err1 := strconv.Atoi(h)
	mins, err2 := strconv.Atoi(mm)
	if err1 != nil || err2 != nil {
		return 0
	}
	return time.Duration(hours)*time.Hour + time.Duration(mins)*time.Minute
}
