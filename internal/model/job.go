package model

import "time"

// JobRequest holds the immutable request metadata captured when a job is
// created.
type JobRequest struct {
	URL       string
	FormatID  string
	Title     string
	Platform  string
	AudioOnly bool
}

// ProgressSnapshot is a point-in-time read of a job's transfer counters,
// together with precomputed display strings for clients.
type ProgressSnapshot struct {
	DownloadedBytes int64   `json:"downloaded_bytes"`
	TotalBytes      int64   `json:"total_bytes"`
	Speed           float64 `json:"speed"` // bytes per second
	ETASeconds      int     `json:"eta"`
	Percent         float64 `json:"percent"` // 0 to 100

	DownloadedStr string `json:"downloaded_str"`
	TotalStr      string `json:"total_str"`
	SpeedStr      string `json:"speed_str"`
	ETAStr        string `json:"eta_str"`
}

// ResultFile references the artifact produced by a completed job.
type ResultFile struct {
	Path string // absolute path on disk
	Name string // sanitized display filename offered to the client
}

// Job represents a single tracked download job
type Job struct {
	ID        string
	Status    JobStatus
	Title     string
	Platform  string
	AudioOnly bool
	Progress  ProgressSnapshot
	Result    *ResultFile // set if and only if Status == JobStatusCompleted
	Error     string      // set if and only if Status == JobStatusError
	CreatedAt time.Time
}

// Filename returns the display filename of the result, or "" while the job
// has not completed.
func (j *Job) Filename() string {
	if j.Result == nil {
		return ""
	}
	return j.Result.Name
}

// HistoryEntry is an immutable snapshot of a retired job's final outcome
type HistoryEntry struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Platform    string    `json:"platform"`
	Status      JobStatus `json:"status"`
	TotalStr    string    `json:"total_str"`
	Filename    string    `json:"filename,omitempty"`
	CompletedAt string    `json:"completed_at"`
	Error       string    `json:"error,omitempty"`
}

// HistoryTimeFormat is the timestamp layout stamped on history entries.
const HistoryTimeFormat = "2006-01-02 15:04:05"

// NewHistoryEntry builds a history entry from a terminal job, stamped with
// the given time.
func NewHistoryEntry(job *Job, now time.Time) HistoryEntry {
	return HistoryEntry{
		ID:          job.ID,
		Title:       job.Title,
		Platform:    job.Platform,
		Status:      job.Status,
		TotalStr:    job.Progress.TotalStr,
		Filename:    job.Filename(),
		CompletedAt: now.Format(HistoryTimeFormat),
		Error:       job.Error,
	}
}

// FormatOption is one selectable quality for a probed media URL
type FormatOption struct {
	Quality  string `json:"quality"`
	FormatID string `json:"format_id"`
	Height   int    `json:"-"`
}

// MediaInfo is the metadata returned by probing a URL without downloading
type MediaInfo struct {
	Title     string         `json:"title"`
	Thumbnail string         `json:"thumbnail"`
	Duration  string         `json:"duration"`
	Platform  string         `json:"platform"`
	Uploader  string         `json:"uploader"`
	Formats   []FormatOption `json:"formats"`
}
