package registry

import "errors"

var (
	// ErrNotFound is returned when no job exists for the given id.
	ErrNotFound = errors.New("job not found")

	// ErrInvalidState is returned when an operation is not legal for the
	// job's current status, such as transitioning out of a terminal state
	// or removing a live job.
	ErrInvalidState = errors.New("invalid job state")
)
