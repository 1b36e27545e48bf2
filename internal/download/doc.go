package download

// Package download implements the core download pipeline built on top of
// yt-dlp (via github.com/lrstanley/go-ytdlp): the backend abstraction, the
// per-job worker with cooperative cancellation, and the polling progress
// streamer.
