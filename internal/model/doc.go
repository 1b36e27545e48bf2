package model

// Package model defines domain data structures shared across the app:
// download jobs, progress snapshots, history entries, and status enums.
// Structures are designed for direct JSON serialization to API clients and
// explicit state transitions.
