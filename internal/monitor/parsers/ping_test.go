package parsers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePingLatency(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		want    time.Duration
		wantErr bool
	}{
		{
			name:   "linux",
			output: "PING 1.1.1.1 (1.1.1.1) 56(84) bytes of data.\n64 bytes from 1.1.1.1: icmp_seq=1 ttl=57 time=14.2 ms\n",
			want:   14200 * time.Microsecond,
		},
		{
			name:   "macos",
			output: "64 bytes from 8.8.8.8: icmp_seq=0 ttl=116 time=9.871 ms\n",
			want:   9871 * time.Microsecond,
		},
		{
			name:   "sub millisecond",
			output: "64 bytes from 10.0.0.1: icmp_seq=1 ttl=64 time<1 ms\n",
			want:   time.Millisecond,
		},
		{
			name:    "timeout",
			output:  "1 packets transmitted, 0 received, 100% packet loss\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePingLatency(tt.output)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, float64(tt.want), float64(got), float64(time.Microsecond))
		})
	}
}
