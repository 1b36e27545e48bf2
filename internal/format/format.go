// Package format converts raw transfer counters (bytes, seconds, rates) into
// human-readable display strings. All functions are pure.
package format

import "fmt"

// Size units
const (
	KB = 1024
	MB = 1024 * KB
	GB = 1024 * MB
)

// Time units
const (
	SecondsPerHour   = 3600
	SecondsPerMinute = 60
)

// Placeholder strings for unknown values
const (
	UnknownETA      = "--:--"
	UnknownDuration = "N/A"
)

// Bytes formats a byte count as a human-readable size ("1.50 MB").
// Non-positive values render as "0 B".
func Bytes(n int64) string {
	switch {
	case n <= 0:
		return "0 B"
	case n >= GB:
		return fmt.Sprintf("%.2f GB", float64(n)/GB)
	case n >= MB:
		return fmt.Sprintf("%.2f MB", float64(n)/MB)
	case n >= KB:
		return fmt.Sprintf("%.2f KB", float64(n)/KB)
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// Speed formats a transfer rate in bytes per second ("1.2 MB/s").
// Non-positive values render as "0 B/s".
func Speed(bytesPerSec float64) string {
	switch {
	case bytesPerSec <= 0:
		return "0 B/s"
	case bytesPerSec >= MB:
		return fmt.Sprintf("%.1f MB/s", bytesPerSec/MB)
	case bytesPerSec >= KB:
		return fmt.Sprintf("%.1f KB/s", bytesPerSec/KB)
	default:
		return fmt.Sprintf("%.0f B/s", bytesPerSec)
	}
}

// ETA formats a remaining-time estimate in seconds as M:SS, or H:MM:SS for
// estimates of an hour or more. Unknown estimates render as "--:--".
func ETA(seconds int) string {
	if seconds <= 0 {
		return UnknownETA
	}
	if seconds >= SecondsPerHour {
		hours := seconds / SecondsPerHour
		minutes := (seconds % SecondsPerHour) / SecondsPerMinute
		secs := seconds % SecondsPerMinute
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	minutes := seconds / SecondsPerMinute
	secs := seconds % SecondsPerMinute
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// Duration formats a media duration in seconds as M:SS or H:MM:SS.
// Negative durations render as "N/A".
func Duration(seconds int) string {
	if seconds < 0 {
		return UnknownDuration
	}
	hours := seconds / SecondsPerHour
	minutes := (seconds % SecondsPerHour) / SecondsPerMinute
	secs := seconds % SecondsPerMinute
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}
