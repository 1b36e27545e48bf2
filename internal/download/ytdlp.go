package download

import (
	"context"
	"fmt"
	"time"

	"github.com/lrstanley/go-ytdlp"
)

// Progress callback interval requested from yt-dlp
const progressInterval = 500 * time.Millisecond

// Audio extraction settings for audio-only jobs
const (
	audioFormat    = "mp3"
	audioQuality   = "192K"
	audioSelector  = "bestaudio/best"
	mergeContainer = "mp4"
)

// YTDLPBackend drives the yt-dlp binary via go-ytdlp.
type YTDLPBackend struct{}

var _ Backend = (*YTDLPBackend)(nil)

// NewYTDLPBackend creates the backend adapter
func NewYTDLPBackend() *YTDLPBackend {
	return &YTDLPBackend{}
}

// Fetch downloads the media behind url into the request's output template,
// relaying yt-dlp progress updates to onProgress. It returns once the
// subprocess exits; cancelling ctx tears the subprocess down.
func (b *YTDLPBackend) Fetch(ctx context.Context, req FetchRequest, onProgress func(ProgressEvent)) (*FetchResult, error) {
	dl := ytdlp.New().
		Quiet().
		NoWarnings().
		Output(req.OutputTemplate)

	if req.AudioOnly {
		dl = dl.Format(audioSelector).
			ExtractAudio().
			AudioFormat(audioFormat).
			AudioQuality(audioQuality)
	} else {
		dl = dl.Format(req.FormatID).
			MergeOutputFormat(mergeContainer)
	}

	for key, value := range req.Headers {
		dl = dl.AddHeaders(key + ":" + value)
	}

	dl.ProgressFunc(progressInterval, func(update ytdlp.ProgressUpdate) {
		onProgress(eventFromUpdate(&update))
	})

	result, err := dl.Run(ctx, req.URL)
	if err != nil {
		return nil, err
	}

	fetched := &FetchResult{}
	if info, err := result.GetExtractedInfo(); err == nil && len(info) > 0 {
		if info[0].Title != nil {
			fetched.Title = *info[0].Title
		}
	}
	return fetched, nil
}

// Probe extracts metadata for url without downloading anything.
func (b *YTDLPBackend) Probe(ctx context.Context, url string, headers map[string]string) (*ProbeResult, error) {
	dl := ytdlp.New().
		Quiet().
		NoWarnings().
		SkipDownload().
		DumpSingleJSON()

	for key, value := range headers {
		dl = dl.AddHeaders(key + ":" + value)
	}

	result, err := dl.Run(ctx, url)
	if err != nil {
		return nil, err
	}

	info, err := result.GetExtractedInfo()
	if err != nil {
		return nil, fmt.Errorf("extracting media info: %w", err)
	}
	if len(info) == 0 {
		return nil, fmt.Errorf("no media info returned for %s", url)
	}
	return probedFromInfo(info[0]), nil
}

// probedFromInfo flattens yt-dlp's extracted metadata, whose fields are all
// optional pointers, into the probe result.
func probedFromInfo(info *ytdlp.ExtractedInfo) *ProbeResult {
	probed := &ProbeResult{DurationSeconds: -1}
	if info.Title != nil {
		probed.Title = *info.Title
	}
	if info.Thumbnail != nil {
		probed.Thumbnail = *info.Thumbnail
	}
	if info.Duration != nil {
		probed.DurationSeconds = int(*info.Duration)
	}
	if info.Uploader != nil {
		probed.Uploader = *info.Uploader
	}
	for _, f := range info.Formats {
		if f == nil {
			continue
		}
		var probeFormat ProbeFormat
		if f.FormatID != nil {
			probeFormat.FormatID = *f.FormatID
		}
		if f.Height != nil {
			probeFormat.Height = int(*f.Height)
		}
		probed.Formats = append(probed.Formats, probeFormat)
	}
	return probed
}

// eventFromUpdate maps a yt-dlp progress update onto the backend event.
// Speed is derived from elapsed time since yt-dlp does not report it in
// machine-readable form.
func eventFromUpdate(update *ytdlp.ProgressUpdate) ProgressEvent {
	event := ProgressEvent{
		Stage:           StageDownloading,
		DownloadedBytes: int64(update.DownloadedBytes),
		TotalBytes:      int64(update.TotalBytes),
	}

	switch update.Status {
	case ytdlp.ProgressStatusFinished, ytdlp.ProgressStatusPostProcessing:
		event.Stage = StageFinished
	}

	if !update.Started.IsZero() {
		elapsed := time.Since(update.Started)
		if elapsed.Seconds() > 0 {
			event.Speed = float64(update.DownloadedBytes) / elapsed.Seconds()
		}
	}

	if eta := update.ETA(); eta > 0 {
		event.ETASeconds = int(eta.Seconds())
	}

	return event
}
