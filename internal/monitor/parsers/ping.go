package parsers

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var pingTime = regexp.MustCompile(`time[=<]\s*([0-9.]+)\s*ms`)

// ParsePingLatency extracts the round-trip time from single-probe ping
// output on Linux or macOS ("64 bytes from 1.1.1.1: icmp_seq=1 ttl=57 time=14.2 ms").
func ParsePingLatency(output string) (time.Duration, error) {
	m := pingTime.FindStringSubmatch(output)
	if m == nil {
		return 0, fmt.Errorf("no reply time in ping output")
	}
	ms, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("parse ping time %q: %w", m[1], err)
	}
	return time.Duration(ms * float64(time.Millisecond)), nil
}
