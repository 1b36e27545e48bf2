package registry

// Package registry implements the in-memory job registry: the authoritative,
// concurrency-safe record of every live download job, its progress, its
// cancel signal, and its state machine. Jobs are process-lifetime entities;
// nothing here persists across restarts.
