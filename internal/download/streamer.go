package download

import (
	"context"
	"time"

	"github.com/1nis/Downloadix/internal/model"
	"github.com/1nis/Downloadix/internal/registry"
)

// DefaultPollInterval is how often the streamer re-reads job state.
const DefaultPollInterval = 500 * time.Millisecond

// Report is one streamed snapshot of a job, shaped for SSE clients.
type Report struct {
	Status model.JobStatus `json:"status"`
	model.ProgressSnapshot
	Filename string `json:"filename,omitempty"`
	Title    string `json:"title,omitempty"`
	Platform string `json:"platform,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Streamer emits periodic job snapshots to subscribers by polling the
// registry. Polling decouples worker execution from transport lifetime: a
// slow or absent subscriber never backpressures the worker.
type Streamer struct {
	registry *registry.Registry
	interval time.Duration
}

// NewStreamer creates a streamer polling at the given interval;
// a non-positive interval selects DefaultPollInterval.
func NewStreamer(reg *registry.Registry, interval time.Duration) *Streamer {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Streamer{registry: reg, interval: interval}
}

// Subscribe returns a channel of snapshots for the job. One snapshot is
// emitted per poll interval while the job is live; exactly one terminal
// snapshot ends the stream. An unknown job id yields a single not_found
// report. The channel closes when the stream ends or ctx is cancelled.
// Intermediate states may be skipped between polls; only delivery of the
// terminal snapshot is guaranteed.
func (s *Streamer) Subscribe(ctx context.Context, jobID string) <-chan Report {
	ch := make(chan Report, 1)

	go func() {
		defer close(ch)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			job, err := s.registry.Get(jobID)
			if err != nil {
				select {
				case ch <- Report{Status: model.JobStatusNotFound, Error: "Download not found"}:
				case <-ctx.Done():
				}
				return
			}

			select {
			case ch <- reportFromJob(&job):
			case <-ctx.Done():
				return
			}

			if job.Status.IsTerminal() {
				return
			}

			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch
}

func reportFromJob(job *model.Job) Report {
	return Report{
		Status:           job.Status,
		ProgressSnapshot: job.Progress,
		Filename:         job.Filename(),
		Title:            job.Title,
		Platform:         job.Platform,
		Error:            job.Error,
	}
}
