package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/1nis/Downloadix/internal/format"
	"github.com/1nis/Downloadix/internal/model"
	"github.com/1nis/Downloadix/internal/platform"
	"github.com/1nis/Downloadix/internal/registry"
)

// Worker owns the lifetime of one backend invocation per job. It relays
// backend progress into registry updates, observes the job's cancel signal,
// and resolves the job to a terminal state on every exit path. A worker
// failure never escapes its own goroutine.
type Worker struct {
	Registry     *registry.Registry
	Backend      Backend
	DownloadsDir func() string
	Logger       *slog.Logger
}

// Run executes the job to completion. It is meant to be spawned on its own
// goroutine right after the job is created.
func (w *Worker) Run(jobID string, req model.JobRequest, signal *registry.CancelSignal) {
	dir := w.DownloadsDir()

	// Cancelled before any backend work began: no backend call is made.
	if signal.Requested() {
		w.finish(jobID, model.JobStatusCancelled, registry.TransitionPayload{})
		return
	}

	// The artifact prefix is distinct from the job id so concurrent jobs
	// cannot collide and the backend may pick any extension.
	prefix := uuid.NewString()
	outputTemplate := filepath.Join(dir, prefix+".%(ext)s")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-signal.Done():
			cancel()
		case <-done:
		}
	}()

	sawTransfer := false
	sawFinish := false
	lastPercent := float64(0)
	onProgress := func(event ProgressEvent) {
		// Cancellation is observed at callback boundaries: once the signal
		// is set the payload is no longer processed, and the cancelled
		// context unwinds the backend call.
		if signal.Requested() {
			return
		}

		switch event.Stage {
		case StageFinished:
			if !sawFinish {
				sawFinish = true
				_ = w.Registry.Transition(jobID, model.JobStatusProcessing, registry.TransitionPayload{})
			}
		default:
			if !sawTransfer {
				sawTransfer = true
				_ = w.Registry.Transition(jobID, model.JobStatusDownloading, registry.TransitionPayload{})
			}
			snap := snapshotFromEvent(event, lastPercent)
			lastPercent = snap.Percent
			_ = w.Registry.UpdateProgress(jobID, snap)
		}
	}

	result, err := w.Backend.Fetch(ctx, FetchRequest{
		URL:            req.URL,
		FormatID:       req.FormatID,
		AudioOnly:      req.AudioOnly,
		OutputTemplate: outputTemplate,
		Headers:        platform.RequestHeaders(req.Platform),
	}, onProgress)

	if signal.Requested() || errors.Is(err, context.Canceled) {
		platform.RemoveFilesByPrefix(dir, prefix)
		w.finish(jobID, model.JobStatusCancelled, registry.TransitionPayload{})
		w.Logger.Info("job cancelled", "job", jobID)
		return
	}
	if err != nil {
		platform.RemoveFilesByPrefix(dir, prefix)
		w.finish(jobID, model.JobStatusError, registry.TransitionPayload{
			Error: fmt.Sprintf("Download failed: %s", err),
		})
		w.Logger.Warn("job failed", "job", jobID, "err", err.Error())
		return
	}

	artifact := platform.FindFileByPrefix(dir, prefix)
	if artifact == "" {
		platform.RemoveFilesByPrefix(dir, prefix)
		w.finish(jobID, model.JobStatusError, registry.TransitionPayload{
			Error: "Download failed",
		})
		return
	}

	title := result.Title
	if title == "" {
		title = req.Title
	}
	if title == "" {
		title = "video"
	}
	name := platform.SanitizeFilename(title) + filepath.Ext(artifact)

	w.finish(jobID, model.JobStatusCompleted, registry.TransitionPayload{
		Result: &model.ResultFile{Path: artifact, Name: name},
	})
	w.Logger.Info("job completed", "job", jobID, "file", name)
}

// finish applies a terminal transition. The transition can legitimately be
// rejected if the job raced to another terminal state; the job stays
// terminal either way.
func (w *Worker) finish(jobID string, status model.JobStatus, payload registry.TransitionPayload) {
	if err := w.Registry.Transition(jobID, status, payload); err != nil {
		w.Logger.Debug("terminal transition rejected", "job", jobID, "status", status, "err", err.Error())
	}
}

// snapshotFromEvent builds a progress snapshot with display strings. The
// percent holds its previous value when the backend does not know the total
// size yet.
func snapshotFromEvent(event ProgressEvent, lastPercent float64) model.ProgressSnapshot {
	percent := lastPercent
	if event.TotalBytes > 0 {
		percent = float64(event.DownloadedBytes) / float64(event.TotalBytes) * 100
	}

	return model.ProgressSnapshot{
		DownloadedBytes: event.DownloadedBytes,
		TotalBytes:      event.TotalBytes,
		Speed:           event.Speed,
		ETASeconds:      event.ETASeconds,
		Percent:         percent,
		DownloadedStr:   format.Bytes(event.DownloadedBytes),
		TotalStr:        format.Bytes(event.TotalBytes),
		SpeedStr:        format.Speed(event.Speed),
		ETAStr:          format.ETA(event.ETASeconds),
	}
}
