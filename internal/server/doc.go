package server

// Package server exposes the HTTP control surface: job creation and
// cancellation, SSE progress streaming, job listing, history, artifact and
// thumbnail delivery, and settings. Transport concerns live here; job
// semantics live in registry and download.
