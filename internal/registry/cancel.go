package registry

import "sync"

// CancelSignal is a one-way cooperative cancellation flag shared between the
// cancellation API and the worker executing a job. Once requested it never
// resets.
type CancelSignal struct {
	once sync.Once
	ch   chan struct{}
}

// NewCancelSignal returns an unset signal.
func NewCancelSignal() *CancelSignal {
	return &CancelSignal{ch: make(chan struct{})}
}

// Request flips the signal. Safe to call from any goroutine, any number of
// times.
func (s *CancelSignal) Request() {
	s.once.Do(func() { close(s.ch) })
}

// Requested reports whether cancellation has been requested.
func (s *CancelSignal) Requested() bool {
	select {
	case <-s.ch:
		return true
	default:
		return false
	}
}

// Done returns a channel closed when cancellation is requested, for use in
// select statements.
func (s *CancelSignal) Done() <-chan struct{} {
	return s.ch
}
