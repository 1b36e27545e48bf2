package model

// JobStatus represents the status of a download job
type JobStatus string

const (
	// JobStatusStarting means the job was created but the backend has not
	// reported any progress yet
	JobStatusStarting JobStatus = "starting"

	// JobStatusDownloading means the transfer is in progress
	JobStatusDownloading JobStatus = "downloading"

	// JobStatusProcessing means the transfer finished and post-processing
	// (merge, audio extraction) is running
	JobStatusProcessing JobStatus = "processing"

	// JobStatusCancelling means cancellation was requested but the worker
	// has not observed it yet
	JobStatusCancelling JobStatus = "cancelling"

	// JobStatusCompleted means the job finished successfully
	JobStatusCompleted JobStatus = "completed"

	// JobStatusError means the job failed with an error
	JobStatusError JobStatus = "error"

	// JobStatusCancelled means the job was cancelled by the user
	JobStatusCancelled JobStatus = "cancelled"

	// JobStatusNotFound is never stored in the registry; it is streamed to
	// subscribers of an unknown job id
	JobStatusNotFound JobStatus = "not_found"
)

// String returns the string representation of JobStatus
func (js JobStatus) String() string {
	return string(js)
}

// IsActive returns true if the job is in a non-terminal state
func (js JobStatus) IsActive() bool {
	return js == JobStatusStarting || js == JobStatusDownloading ||
		js == JobStatusProcessing || js == JobStatusCancelling
}

// IsTerminal returns true if the job reached an absorbing state (completed,
// error, or cancelled). No transitions are allowed out of a terminal state.
func (js JobStatus) IsTerminal() bool {
	return js == JobStatusCompleted || js == JobStatusError || js == JobStatusCancelled
}
