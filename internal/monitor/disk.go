package monitor

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// DiskMonitor tracks per-mount usage and aggregate read/write rates.
type DiskMonitor struct {
	src   DiskSource
	size  int
	now   func() time.Time
	usage map[string]*History
	disks []DiskUsage
	read  *counterRate
	write *counterRate
}

// NewDiskMonitor creates a disk monitor. rateFloor is the smallest full
// scale for the read/write graphs, in bytes/s.
func NewDiskMonitor(src DiskSource, size int, rateFloor float64) (*DiskMonitor, error) {
	read, err := newCounterRate(size, rateFloor)
	if err != nil {
		return nil, err
	}
	write, err := newCounterRate(size, rateFloor)
	if err != nil {
		return nil, err
	}
	return &DiskMonitor{
		src:   src,
		size:  size,
		now:   time.Now,
		usage: make(map[string]*History),
		read:  read,
		write: write,
	}, nil
}

// Update reads filesystem usage and I/O counters. A failure of the I/O
// counters alone does not discard the usage sample.
func (m *DiskMonitor) Update(ctx context.Context) error {
	disks, err := m.src.ReadDisks(ctx)
	if err != nil {
		return fmt.Errorf("read disks: %w", err)
	}
	sort.Slice(disks, func(i, j int) bool { return disks[i].Mount < disks[j].Mount })

	for _, d := range disks {
		h, ok := m.usage[d.Mount]
		if !ok {
			h, err = NewHistory(m.size, 0)
			if err != nil {
				return err
			}
			m.usage[d.Mount] = h
		}
		h.Push(d.Percent)
	}
	m.disks = disks

	io, err := m.src.ReadDiskIO(ctx)
	if err != nil {
		return fmt.Errorf("read disk io: %w", err)
	}
	now := m.now()
	m.read.observe(io.ReadBytes, now)
	m.write.observe(io.WriteBytes, now)
	return nil
}

// Disks returns the latest filesystems, sorted by mount point.
func (m *DiskMonitor) Disks() []DiskUsage { return m.disks }

// Usage returns the usage history for a mount point.
func (m *DiskMonitor) Usage(mount string) (*History, bool) {
	h, ok := m.usage[mount]
	return h, ok
}

// Read returns the read-rate history, scaled to its ceiling.
func (m *DiskMonitor) Read() *History { return m.read.History() }

// Write returns the write-rate history, scaled to its ceiling.
func (m *DiskMonitor) Write() *History { return m.write.History() }

// Rates returns the newest read and write rates in bytes/s.
func (m *DiskMonitor) Rates() (read, write float64) { return m.read.Rate(), m.write.Rate() }
