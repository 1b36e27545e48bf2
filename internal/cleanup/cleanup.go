// Package cleanup removes aged artifacts from the downloads directory so
// retired downloads do not accumulate on disk.
package cleanup

import (
	"context"
	"log/slog"
	"time"

	"github.com/1nis/Downloadix/internal/platform"
)

// Defaults match the retention policy of the download API: artifacts are
// kept for one hour after they land on disk.
const (
	DefaultInterval = time.Hour
	DefaultMaxAge   = time.Hour
)

// Janitor periodically deletes files older than MaxAge from the downloads
// directory. Deletion failures are logged and never abort the loop.
type Janitor struct {
	Dir      func() string // resolved per sweep; the folder is a mutable setting
	Interval time.Duration
	MaxAge   time.Duration
	Logger   *slog.Logger
}

// Run sweeps at the configured interval until ctx is cancelled.
func (j *Janitor) Run(ctx context.Context) {
	interval := j.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.Sweep(time.Now())
		case <-ctx.Done():
			return
		}
	}
}

// Sweep deletes aged files once.
func (j *Janitor) Sweep(now time.Time) {
	maxAge := j.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}

	dir := j.Dir()
	for _, path := range platform.RemoveFilesOlderThan(dir, maxAge, now) {
		j.Logger.Warn("could not remove aged file", "path", path)
	}
}
