package parsers

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rileyhilliard/rtop/internal/monitor"
)

// ParseBatteryUevent parses /sys/class/power_supply/BAT*/uevent.
// Energy values are in µWh and µW; charge values in µAh and µA and are
// converted with the reported voltage.
func ParseBatteryUevent(uevent string) (monitor.BatteryReading, error) {
	vals := make(map[string]string)
	scanner := bufio.NewScanner(strings.NewReader(uevent))
	for scanner.Scan() {
		key, val, ok := strings.Cut(strings.TrimSpace(scanner.Text()), "=")
		if !ok {
			continue
		}
		vals[strings.TrimPrefix(key, "POWER_SUPPLY_")] = val
	}
	if err := scanner.Err(); err != nil {
		return monitor.BatteryReading{}, fmt.Errorf("scan battery uevent: %w", err)
	}
	if vals["PRESENT"] == "0" {
		return monitor.BatteryReading{}, monitor.ErrUnavailable
	}

	num := func(key string) float64 {
		v, err := strconv.ParseFloat(vals[key], 64)
		if err != nil {
			return 0
		}
		return v
	}

	r := monitor.BatteryReading{State: batteryState(vals["STATUS"])}

	energyNow, energyFull, power := num("ENERGY_NOW"), num("ENERGY_FULL"), num("POWER_NOW")
	if energyNow == 0 && num("CHARGE_NOW") > 0 {
		volts := num("VOLTAGE_NOW") / 1e6
		energyNow = num("CHARGE_NOW") * volts
		energyFull = num("CHARGE_FULL") * volts
		power = num("CURRENT_NOW") * volts
	}

	if capacity, ok := vals["CAPACITY"]; ok {
		v, err := strconv.ParseFloat(capacity, 64)
		if err != nil {
			return monitor.BatteryReading{}, fmt.Errorf("parse battery capacity %q: %w", capacity, err)
		}
		r.Percent = v
	} else if energyFull > 0 {
		r.Percent = energyNow / energyFull * 100
	} else {
		return monitor.BatteryReading{}, fmt.Errorf("battery uevent has no capacity")
	}

	if power > 0 {
		r.PowerWatts = power / 1e6
		var hours float64
		switch r.State {
		case monitor.BatteryDischarging:
			hours = energyNow / power
		case monitor.BatteryCharging:
			if energyFull > energyNow {
				hours = (energyFull - energyNow) / power
			}
		}
		r.Remaining = time.Duration(hours * float64(time.Hour)).Round(time.Minute)
	}
	return r, nil
}

func batteryState(status string) monitor.BatteryState {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "charging":
		return monitor.BatteryCharging
	case "discharging":
		return monitor.BatteryDischarging
	case "full", "charged":
		return monitor.BatteryFull
	case "empty":
		return monitor.BatteryEmpty
	default:
		return monitor.BatteryUnknown
	}
}

// ParseNPUBusyTime parses the accel driver's npu_busy_time_us attribute.
func ParseNPUBusyTime(content string) (time.Duration, error) {
	us, err := strconv.ParseUint(strings.TrimSpace(content), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse npu busy time %q: %w", strings.TrimSpace(content), err)
	}
	return time.Duration(us) * time.Microsecond, nil
}
