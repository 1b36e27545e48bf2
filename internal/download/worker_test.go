package download

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1nis/Downloadix/internal/model"
	"github.com/1nis/Downloadix/internal/registry"
)

// fakeBackend scripts a sequence of progress events and a final outcome.
type fakeBackend struct {
	events       []ProgressEvent
	afterEvent   func(i int) // invoked after each event is delivered
	result       *FetchResult
	err          error
	makeArtifact string // extension of the artifact to drop, "" for none
	makePartial  bool   // also drop a .part file
	calls        int
	lastRequest  FetchRequest
}

func (f *fakeBackend) Fetch(ctx context.Context, req FetchRequest, onProgress func(ProgressEvent)) (*FetchResult, error) {
	f.calls++
	f.lastRequest = req

	for i, event := range f.events {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		onProgress(event)
		if f.afterEvent != nil {
			f.afterEvent(i)
		}
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	base := strings.TrimSuffix(req.OutputTemplate, ".%(ext)s")
	if f.makePartial {
		if err := os.WriteFile(base+".mp4.part", []byte("partial"), 0644); err != nil {
			return nil, err
		}
	}
	if f.makeArtifact != "" {
		if err := os.WriteFile(base+"."+f.makeArtifact, []byte("media"), 0644); err != nil {
			return nil, err
		}
	}
	return f.result, f.err
}

func (f *fakeBackend) Probe(ctx context.Context, url string, headers map[string]string) (*ProbeResult, error) {
	return nil, errors.New("not implemented")
}

func newWorker(t *testing.T, backend Backend) (*Worker, *registry.Registry, string) {
	t.Helper()
	dir := t.TempDir()
	reg := registry.New()
	return &Worker{
		Registry:     reg,
		Backend:      backend,
		DownloadsDir: func() string { return dir },
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, reg, dir
}

func TestWorker_CompletedDownload(t *testing.T) {
	backend := &fakeBackend{
		events: []ProgressEvent{
			{Stage: StageDownloading, DownloadedBytes: 50, TotalBytes: 200},
			{Stage: StageDownloading, DownloadedBytes: 200, TotalBytes: 200},
			{Stage: StageFinished},
		},
		result:       &FetchResult{Title: `My<Clip>: "Best" Moments`},
		makeArtifact: "mp4",
	}
	worker, reg, _ := newWorker(t, backend)

	req := model.JobRequest{URL: "https://youtu.be/a", FormatID: "best", Platform: "youtube"}
	job, signal := reg.Create(req)

	var percents []float64
	backend.afterEvent = func(int) {
		snapshot, err := reg.Get(job.ID)
		require.NoError(t, err)
		percents = append(percents, snapshot.Progress.Percent)
	}

	worker.Run(job.ID, req, signal)

	got, err := reg.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusCompleted, got.Status)
	assert.Equal(t, float64(100), got.Progress.Percent)
	assert.Empty(t, got.Error)
	require.NotNil(t, got.Result)
	assert.Equal(t, `MyClip Best Moments.mp4`, got.Result.Name)
	assert.FileExists(t, got.Result.Path)

	require.Len(t, percents, 3)
	assert.Equal(t, float64(25), percents[0])
	assert.Equal(t, float64(100), percents[1])
}

func TestWorker_CancelBeforeStart(t *testing.T) {
	backend := &fakeBackend{}
	worker, reg, _ := newWorker(t, backend)

	req := model.JobRequest{URL: "https://youtu.be/a", Platform: "youtube"}
	job, signal := reg.Create(req)

	require.NoError(t, reg.RequestCancel(job.ID))
	worker.Run(job.ID, req, signal)

	got, err := reg.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusCancelled, got.Status)
	assert.Nil(t, got.Result)
	assert.Zero(t, backend.calls, "no backend call is made for a pre-cancelled job")
}

func TestWorker_CancelMidTransfer(t *testing.T) {
	backend := &fakeBackend{
		events: []ProgressEvent{
			{Stage: StageDownloading, DownloadedBytes: 50, TotalBytes: 200},
			{Stage: StageDownloading, DownloadedBytes: 80, TotalBytes: 200},
		},
		makePartial: true,
	}
	worker, reg, dir := newWorker(t, backend)

	req := model.JobRequest{URL: "https://youtu.be/a", Platform: "youtube"}
	job, signal := reg.Create(req)

	backend.afterEvent = func(i int) {
		if i == 0 {
			require.NoError(t, reg.RequestCancel(job.ID))
			snapshot, err := reg.Get(job.ID)
			require.NoError(t, err)
			assert.Equal(t, model.JobStatusCancelling, snapshot.Status)
		}
	}

	worker.Run(job.ID, req, signal)

	got, err := reg.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusCancelled, got.Status)
	assert.Nil(t, got.Result)

	// the second event arrived after the cancel request and must not have
	// been processed
	assert.Equal(t, int64(50), got.Progress.DownloadedBytes)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "partial artifacts must be cleaned up")
}

func TestWorker_BackendFailure(t *testing.T) {
	backend := &fakeBackend{
		err:         errors.New("ERROR: Video unavailable. This content is not available"),
		makePartial: true,
	}
	worker, reg, dir := newWorker(t, backend)

	req := model.JobRequest{URL: "https://youtu.be/a", Platform: "youtube"}
	job, signal := reg.Create(req)

	worker.Run(job.ID, req, signal)

	got, err := reg.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusError, got.Status)
	assert.Nil(t, got.Result)
	assert.Contains(t, got.Error, "Video unavailable")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "partial artifacts must be cleaned up on failure")
}

func TestWorker_MissingArtifact(t *testing.T) {
	backend := &fakeBackend{result: &FetchResult{Title: "Gone"}, makePartial: true}
	worker, reg, dir := newWorker(t, backend)

	req := model.JobRequest{URL: "https://youtu.be/a", Platform: "youtube"}
	job, signal := reg.Create(req)

	worker.Run(job.ID, req, signal)

	got, err := reg.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusError, got.Status)
	assert.Equal(t, "Download failed", got.Error)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "leftover partials must be cleaned up")
}

func TestWorker_AudioOnlyRequest(t *testing.T) {
	backend := &fakeBackend{
		result:       &FetchResult{Title: "Song"},
		makeArtifact: "mp3",
	}
	worker, reg, _ := newWorker(t, backend)

	req := model.JobRequest{URL: "https://youtu.be/a", Platform: "tiktok", AudioOnly: true}
	job, signal := reg.Create(req)

	worker.Run(job.ID, req, signal)

	assert.True(t, backend.lastRequest.AudioOnly)
	assert.Contains(t, backend.lastRequest.Headers, "User-Agent")
	assert.True(t, strings.HasSuffix(backend.lastRequest.OutputTemplate, ".%(ext)s"))
	assert.NotContains(t, filepath.Base(backend.lastRequest.OutputTemplate), job.ID,
		"artifact prefix must differ from the job id")

	got, err := reg.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusCompleted, got.Status)
	assert.Equal(t, "Song.mp3", got.Result.Name)
}
