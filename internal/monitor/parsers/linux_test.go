package parsers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/rtop/internal/monitor"
)

func TestParseBatteryUevent(t *testing.T) {
	tests := []struct {
		name      string
		uevent    string
		wantPct   float64
		wantState monitor.BatteryState
		wantLeft  time.Duration
		wantWatts float64
		wantErr   error
	}{
		{
			name: "discharging with energy counters",
			uevent: `POWER_SUPPLY_NAME=BAT0
POWER_SUPPLY_STATUS=Discharging
POWER_SUPPLY_PRESENT=1
POWER_SUPPLY_POWER_NOW=10000000
POWER_SUPPLY_ENERGY_FULL=50000000
POWER_SUPPLY_ENERGY_NOW=25000000
POWER_SUPPLY_CAPACITY=50`,
			wantPct:   50,
			wantState: monitor.BatteryDischarging,
			wantLeft:  150 * time.Minute,
			wantWatts: 10,
		},
		{
			name: "charging with charge counters",
			uevent: `POWER_SUPPLY_STATUS=Charging
POWER_SUPPLY_PRESENT=1
POWER_SUPPLY_VOLTAGE_NOW=10000000
POWER_SUPPLY_CURRENT_NOW=2000000
POWER_SUPPLY_CHARGE_FULL=4000000
POWER_SUPPLY_CHARGE_NOW=3000000`,
			wantPct:   75,
			wantState: monitor.BatteryCharging,
			wantLeft:  30 * time.Minute,
			wantWatts: 20,
		},
		{
			name:      "full without power draw",
			uevent:    "POWER_SUPPLY_STATUS=Full\nPOWER_SUPPLY_CAPACITY=100\n",
			wantPct:   100,
			wantState: monitor.BatteryFull,
		},
		{
			name:    "not present",
			uevent:  "POWER_SUPPLY_PRESENT=0\n",
			wantErr: monitor.ErrUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseBatteryUevent(tt.uevent)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.wantPct, r.Percent, 0.001)
			assert.Equal(t, tt.wantState, r.State)
			assert.Equal(t, tt.wantLeft, r.Remaining)
			assert.InDelta(t, tt.wantWatts, r.PowerWatts, 0.001)
		})
	}
}

func TestParseBatteryUevent_NoCapacity(t *testing.T) {
	_, err := ParseBatteryUevent("POWER_SUPPLY_STATUS=Unknown\n")
	assert.Error(t, err)

	_, err = ParseBatteryUevent("POWER_SUPPLY_CAPACITY=lots\n")
	assert.Error(t, err)
}

func TestParseNPUBusyTime(t *testing.T) {
	d, err := ParseNPUBusyTime("1500000\n")
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, d)

	_, err = ParseNPUBusyTime("busy")
	assert.Error(t, err)
}
