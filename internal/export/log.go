package export

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rileyhilliard/rtop/internal/errors"
	"github.com/rileyhilliard/rtop/internal/logger"
	"github.com/rileyhilliard/rtop/internal/monitor"
)

// MetricsLog appends one CSV row per update to a file. It is registered
// with the scheduler under monitor.CategoryExport, so it runs after every
// monitor that fired in the same tick.
type MetricsLog struct {
	path    string
	mons    *monitor.Monitors
	session string
	now     func() time.Time
	log     logger.Logger
	open    func(path string) (io.WriteCloser, int64, error)
	rows    int
}

// NewMetricsLog creates a log writing to path. The file and its directory
// are created on first write; an existing file is appended to.
func NewMetricsLog(path string, mons *monitor.Monitors, session string, log logger.Logger) *MetricsLog {
	if log == nil {
		log = logger.Noop()
	}
	return &MetricsLog{
		path:    path,
		mons:    mons,
		session: session,
		now:     time.Now,
		log:     log,
		open:    openAppend,
	}
}

// openAppend opens path for appending and returns its current size.
func openAppend(path string) (io.WriteCloser, int64, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, 0, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	return f, info.Size(), nil
}

// Update appends the current snapshot as one row, writing the header first
// when the file is new or empty.
func (l *MetricsLog) Update(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrExport, "Can't create metrics log directory", "Check export.log_path")
	}

	f, size, err := l.open(l.path)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrExport, "Can't open metrics log "+l.path, "Check export.log_path")
	}

	if err := l.append(f, size == 0); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.WrapWithCode(err, errors.ErrExport, "Failed to close metrics log "+l.path, "")
	}

	l.rows++
	if l.rows == 1 {
		l.log.Info("metrics log started at %s (session %s)", l.path, l.session)
	}
	return nil
}

func (l *MetricsLog) append(w io.Writer, header bool) error {
	cw := csv.NewWriter(w)
	if header {
		if err := cw.Write(CSVHeader); err != nil {
			return err
		}
	}
	snap := Capture(l.mons, l.now(), l.session, 1)
	if err := cw.Write(snap.CSVRecord()); err != nil {
		return err
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.WrapWithCode(err, errors.ErrExport, "Failed to append to metrics log", "")
	}
	return nil
}

// Rows returns how many rows this log has appended.
func (l *MetricsLog) Rows() int { return l.rows }

// Path returns the file being written.
func (l *MetricsLog) Path() string { return l.path }
