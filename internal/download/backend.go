package download

import (
	"context"
	"strings"
)

// Stage identifies the phase a backend progress event belongs to
type Stage string

const (
	// StageDownloading means bytes are still being transferred
	StageDownloading Stage = "downloading"

	// StageFinished means the transfer is done and post-processing (merge,
	// audio extraction) may still run
	StageFinished Stage = "finished"
)

// ProgressEvent is one periodic status update emitted by the backend while a
// fetch is running.
type ProgressEvent struct {
	Stage           Stage
	DownloadedBytes int64
	TotalBytes      int64
	Speed           float64 // bytes per second, 0 if unknown
	ETASeconds      int     // 0 if unknown
}

// FetchRequest describes one backend invocation.
type FetchRequest struct {
	URL            string
	FormatID       string            // yt-dlp format selector, ignored when AudioOnly
	AudioOnly      bool              // extract mp3 audio instead of video
	OutputTemplate string            // yt-dlp output template with %(ext)s placeholder
	Headers        map[string]string // extra HTTP headers, may be nil
}

// FetchResult is the final metadata reported by a successful fetch.
type FetchResult struct {
	Title string
}

// ProbeFormat is one raw format advertised by the source.
type ProbeFormat struct {
	FormatID string
	Height   int // 0 when the format has no video stream
}

// ProbeResult is the metadata obtained by probing a URL without downloading.
type ProbeResult struct {
	Title           string
	Thumbnail       string
	DurationSeconds int // -1 if unknown
	Uploader        string
	Formats         []ProbeFormat
}

// Backend is the external media-fetch collaborator. Implementations perform
// extraction and download/transcode, invoking onProgress with periodic
// status events, and must honor ctx cancellation.
type Backend interface {
	Fetch(ctx context.Context, req FetchRequest, onProgress func(ProgressEvent)) (*FetchResult, error)
	Probe(ctx context.Context, url string, headers map[string]string) (*ProbeResult, error)
}

// FailureKind classifies backend failures for clearer user messaging.
type FailureKind int

const (
	FailureGeneric FailureKind = iota
	FailurePrivateContent
	FailureUnavailableContent
	FailureLoginRequired
)

// ClassifyFailure inspects a backend error message and returns the failure
// subcase. The backend reports these conditions only as message text, so
// matching on it is the best signal available.
func ClassifyFailure(err error) FailureKind {
	if err == nil {
		return FailureGeneric
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "Private video"):
		return FailurePrivateContent
	case strings.Contains(msg, "Video unavailable"):
		return FailureUnavailableContent
	case strings.Contains(strings.ToLower(msg), "login"):
		return FailureLoginRequired
	default:
		return FailureGeneric
	}
}

// UserMessage renders a backend failure as a message suitable for clients.
func UserMessage(err error) string {
	switch ClassifyFailure(err) {
	case FailurePrivateContent:
		return "This video is private"
	case FailureUnavailableContent:
		return "This video is unavailable"
	case FailureLoginRequired:
		return "This content requires login"
	default:
		return "Could not fetch video info: " + err.Error()
	}
}
