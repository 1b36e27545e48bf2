package platform

// Package platform contains source-platform detection for media URLs and
// filesystem glue: artifact lookup by prefix, partial-file cleanup, filename
// sanitization, and aged-file removal.
