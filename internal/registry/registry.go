package registry

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/1nis/Downloadix/internal/model"
)

// TransitionPayload carries the data attached to a terminal transition.
type TransitionPayload struct {
	Result *model.ResultFile // required for JobStatusCompleted
	Error  string            // required for JobStatusError
}

type record struct {
	job    model.Job
	signal *CancelSignal
}

// Registry is the authoritative map from job id to job record. It is the
// only component that structurally changes the set of live jobs. All methods
// are safe for concurrent use; reads return copies, so a caller never
// observes a partially applied update.
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]*record
}

// New creates an empty registry
func New() *Registry {
	return &Registry{jobs: make(map[string]*record)}
}

// Create allocates a fresh id, inserts a job in the starting state together
// with its cancel signal, and returns both. Spawning the worker is the
// caller's responsibility.
func (r *Registry) Create(req model.JobRequest) (model.Job, *CancelSignal) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := &record{
		job: model.Job{
			ID:        uuid.NewString(),
			Status:    model.JobStatusStarting,
			Title:     req.Title,
			Platform:  req.Platform,
			AudioOnly: req.AudioOnly,
			CreatedAt: time.Now(),
		},
		signal: NewCancelSignal(),
	}
	r.jobs[rec.job.ID] = rec

	return copyJob(&rec.job), rec.signal
}

// Get returns a snapshot of the job, or ErrNotFound.
func (r *Registry) Get(id string) (model.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, exists := r.jobs[id]
	if !exists {
		return model.Job{}, fmt.Errorf("getting job %s: %w", id, ErrNotFound)
	}
	return copyJob(&rec.job), nil
}

// List returns snapshots of all registered jobs in creation order.
func (r *Registry) List() []model.Job {
	r.mu.RLock()
	defer r.mu.RUnlock()

	jobs := make([]model.Job, 0, len(r.jobs))
	for _, rec := range r.jobs {
		jobs = append(jobs, copyJob(&rec.job))
	}
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.Before(jobs[j].CreatedAt)
	})
	return jobs
}

// UpdateProgress replaces the job's progress snapshot. Updates on terminal
// jobs are rejected with ErrInvalidState. Regressing byte counts are dropped
// so readers observe a monotonically non-decreasing transfer.
func (r *Registry) UpdateProgress(id string, snap model.ProgressSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, exists := r.jobs[id]
	if !exists {
		return fmt.Errorf("updating progress of job %s: %w", id, ErrNotFound)
	}
	if rec.job.Status.IsTerminal() {
		return fmt.Errorf("updating progress of %s job %s: %w", rec.job.Status, id, ErrInvalidState)
	}
	if snap.DownloadedBytes < rec.job.Progress.DownloadedBytes {
		return nil
	}

	rec.job.Progress = snap
	return nil
}

// Transition moves the job to the next status, applying the payload. It
// rejects transitions out of terminal states and edges not present in the
// state machine.
func (r *Registry) Transition(id string, next model.JobStatus, payload TransitionPayload) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, exists := r.jobs[id]
	if !exists {
		return fmt.Errorf("transitioning job %s: %w", id, ErrNotFound)
	}
	if !allowedTransition(rec.job.Status, next) {
		return fmt.Errorf("transitioning job %s from %s to %s: %w",
			id, rec.job.Status, next, ErrInvalidState)
	}

	rec.job.Status = next
	switch next {
	case model.JobStatusCompleted:
		rec.job.Result = payload.Result
		rec.job.Progress.Percent = 100
	case model.JobStatusError:
		rec.job.Error = payload.Error
	}
	return nil
}

// RequestCancel flips the job's cancel signal and optimistically marks the
// job cancelling. It is idempotent and a no-op on terminal jobs; actual
// termination happens when the worker observes the signal.
func (r *Registry) RequestCancel(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, exists := r.jobs[id]
	if !exists {
		return fmt.Errorf("cancelling job %s: %w", id, ErrNotFound)
	}

	rec.signal.Request()
	if !rec.job.Status.IsTerminal() {
		rec.job.Status = model.JobStatusCancelling
	}
	return nil
}

// Remove deletes a terminal job from the registry. Removing a live job is a
// programming error and fails with ErrInvalidState.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, exists := r.jobs[id]
	if !exists {
		return fmt.Errorf("removing job %s: %w", id, ErrNotFound)
	}
	if !rec.job.Status.IsTerminal() {
		return fmt.Errorf("removing %s job %s: %w", rec.job.Status, id, ErrInvalidState)
	}

	delete(r.jobs, id)
	return nil
}

// RetireTerminal removes every terminal job and returns history entries for
// them, newest first, stamped with now. Removal and snapshot happen under
// one lock, so a job is never observed half-retired.
func (r *Registry) RetireTerminal(now time.Time) []model.HistoryEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	var retired []*model.Job
	for id, rec := range r.jobs {
		if rec.job.Status.IsTerminal() {
			job := copyJob(&rec.job)
			retired = append(retired, &job)
			delete(r.jobs, id)
		}
	}
	sort.Slice(retired, func(i, j int) bool {
		return retired[i].CreatedAt.After(retired[j].CreatedAt)
	})

	entries := make([]model.HistoryEntry, 0, len(retired))
	for _, job := range retired {
		entries = append(entries, model.NewHistoryEntry(job, now))
	}
	return entries
}

// allowedTransition implements the per-job state machine. Terminal states
// are absorbing; downloading is only entered from starting, processing only
// from an active transfer.
func allowedTransition(from, to model.JobStatus) bool {
	if from.IsTerminal() {
		return false
	}
	switch to {
	case model.JobStatusDownloading:
		return from == model.JobStatusStarting
	case model.JobStatusProcessing:
		return from == model.JobStatusStarting || from == model.JobStatusDownloading
	case model.JobStatusCancelling, model.JobStatusCompleted,
		model.JobStatusError, model.JobStatusCancelled:
		return true
	default:
		return false
	}
}

func copyJob(job *model.Job) model.Job {
	out := *job
	if job.Result != nil {
		result := *job.Result
		out.Result = &result
	}
	return out
}
