package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/1nis/Downloadix/internal/download"
	"github.com/1nis/Downloadix/internal/format"
	"github.com/1nis/Downloadix/internal/model"
	"github.com/1nis/Downloadix/internal/platform"
	"github.com/1nis/Downloadix/internal/registry"
)

// Quality options below this height are not offered to clients
const minFormatHeight = 360

type startRequest struct {
	URL       string `json:"url"`
	Format    string `json:"format"`
	Title     string `json:"title"`
	AudioOnly bool   `json:"audio_only"`
}

type thumbnailRequest struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

type settingsRequest struct {
	DownloadFolder string `json:"download_folder"`
}

// jobSummary is one row of the active-downloads listing.
type jobSummary struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Platform      string          `json:"platform"`
	Status        model.JobStatus `json:"status"`
	Percent       float64         `json:"percent"`
	SpeedStr      string          `json:"speed_str"`
	ETAStr        string          `json:"eta_str"`
	DownloadedStr string          `json:"downloaded_str"`
	TotalStr      string          `json:"total_str"`
	Error         string          `json:"error,omitempty"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleInfo(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL is required"})
		return
	}

	plat := platform.Detect(url)
	if plat == platform.PlatformUnknown {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Unsupported platform. Use YouTube, X/Twitter, TikTok, or Instagram URLs.",
		})
		return
	}

	var headers map[string]string
	if plat == platform.PlatformInstagram {
		headers = platform.RequestHeaders(plat)
	}

	probed, err := s.backend.Probe(c.Request.Context(), url, headers)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": download.UserMessage(err)})
		return
	}

	title := probed.Title
	if title == "" {
		title = "Unknown"
	}
	uploader := probed.Uploader
	if uploader == "" {
		uploader = "Unknown"
	}

	c.JSON(http.StatusOK, model.MediaInfo{
		Title:     title,
		Thumbnail: probed.Thumbnail,
		Duration:  format.Duration(probed.DurationSeconds),
		Platform:  plat,
		Uploader:  uploader,
		Formats:   qualityOptions(plat, probed.Formats),
	})
}

// qualityOptions dedupes the probed formats by height, keeps heights the UI
// can offer, and sorts best first. YouTube needs a combining selector since
// its high-resolution formats carry no audio.
func qualityOptions(plat string, formats []download.ProbeFormat) []model.FormatOption {
	seen := make(map[string]struct{})
	var options []model.FormatOption

	for _, f := range formats {
		if f.Height < minFormatHeight {
			continue
		}
		quality := fmt.Sprintf("%dp", f.Height)
		if _, dup := seen[quality]; dup {
			continue
		}
		seen[quality] = struct{}{}

		formatID := f.FormatID
		if plat == platform.PlatformYouTube {
			formatID = fmt.Sprintf("bestvideo[height<=%d]+bestaudio/best[height<=%d]", f.Height, f.Height)
		}
		if formatID == "" {
			formatID = "best"
		}
		options = append(options, model.FormatOption{
			Quality:  quality,
			FormatID: formatID,
			Height:   f.Height,
		})
	}

	sort.Slice(options, func(i, j int) bool {
		return options[i].Height > options[j].Height
	})

	if len(options) == 0 {
		options = []model.FormatOption{{Quality: "best", FormatID: "best"}}
	}
	return options
}

func (s *Server) handleStart(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	if req.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL is required"})
		return
	}

	plat := platform.Detect(req.URL)
	if plat == platform.PlatformUnknown {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported platform"})
		return
	}
	if req.Format == "" {
		req.Format = "best"
	}
	if req.Title == "" {
		req.Title = "Unknown"
	}

	jobReq := model.JobRequest{
		URL:       req.URL,
		FormatID:  req.Format,
		Title:     req.Title,
		Platform:  plat,
		AudioOnly: req.AudioOnly,
	}
	job, signal := s.registry.Create(jobReq)
	go s.worker.Run(job.ID, jobReq, signal)

	c.JSON(http.StatusOK, gin.H{
		"download_id": job.ID,
		"title":       job.Title,
		"platform":    job.Platform,
		"audio_only":  job.AudioOnly,
	})
}

func (s *Server) handleCancel(c *gin.Context) {
	if err := s.registry.RequestCancel(c.Param("id")); err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Download not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Download cancellation requested"})
}

func (s *Server) handleProgress(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	reports := s.streamer.Subscribe(c.Request.Context(), c.Param("id"))
	c.Stream(func(w io.Writer) bool {
		report, ok := <-reports
		if !ok {
			return false
		}
		data, err := json.Marshal(report)
		if err != nil {
			return false
		}
		fmt.Fprintf(w, "data: %s\n\n", data)
		return true
	})
}

func (s *Server) handleList(c *gin.Context) {
	jobs := s.registry.List()
	summaries := make([]jobSummary, 0, len(jobs))
	for i := range jobs {
		job := &jobs[i]
		summaries = append(summaries, jobSummary{
			ID:            job.ID,
			Title:         job.Title,
			Platform:      job.Platform,
			Status:        job.Status,
			Percent:       job.Progress.Percent,
			SpeedStr:      orDefault(job.Progress.SpeedStr, "0 B/s"),
			ETAStr:        orDefault(job.Progress.ETAStr, format.UnknownETA),
			DownloadedStr: orDefault(job.Progress.DownloadedStr, "0 B"),
			TotalStr:      orDefault(job.Progress.TotalStr, "0 B"),
			Error:         job.Error,
		})
	}
	c.JSON(http.StatusOK, summaries)
}

func (s *Server) handleClear(c *gin.Context) {
	entries := s.registry.RetireTerminal(time.Now())
	s.history.Add(entries...)
	c.JSON(http.StatusOK, gin.H{"cleared": len(entries)})
}

func (s *Server) handleHistory(c *gin.Context) {
	c.JSON(http.StatusOK, s.history.List())
}

func (s *Server) handleHistoryClear(c *gin.Context) {
	s.history.Clear()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleFile(c *gin.Context) {
	job, err := s.registry.Get(c.Param("id"))
	if err != nil || job.Result == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}
	if _, err := os.Stat(job.Result.Path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File no longer exists"})
		return
	}
	c.FileAttachment(job.Result.Path, job.Result.Name)
}

func (s *Server) handleThumbnail(c *gin.Context) {
	var req thumbnailRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Thumbnail URL is required"})
		return
	}
	if req.Title == "" {
		req.Title = "thumbnail"
	}

	httpReq, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, req.URL, nil)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to download thumbnail: " + err.Error()})
		return
	}
	httpReq.Header.Set("User-Agent", platform.BrowserUserAgent)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to download thumbnail: " + err.Error()})
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Failed to download thumbnail: unexpected status %d", resp.StatusCode),
		})
		return
	}

	name := platform.SanitizeFilename(req.Title) + "_thumbnail" + thumbnailExtension(resp.Header.Get("Content-Type"))
	path := filepath.Join(s.settings.DownloadFolder(), name)

	out, err := os.Create(path)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred: " + err.Error()})
		return
	}
	_, copyErr := io.Copy(out, resp.Body)
	closeErr := out.Close()
	if copyErr != nil || closeErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while saving the thumbnail"})
		return
	}

	c.FileAttachment(path, name)
}

func thumbnailExtension(contentType string) string {
	switch {
	case strings.Contains(contentType, "png"):
		return ".png"
	case strings.Contains(contentType, "webp"):
		return ".webp"
	case strings.Contains(contentType, "gif"):
		return ".gif"
	default:
		return ".jpg"
	}
}

func (s *Server) handleGetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, s.settings.Snapshot())
}

func (s *Server) handleUpdateSettings(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	if req.DownloadFolder != "" {
		if err := s.settings.SetDownloadFolder(req.DownloadFolder); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, s.settings.Snapshot())
}

// handleLegacyDownload performs a blocking download and serves the artifact
// in one request. Kept for backward compatibility with old clients; new
// clients use /download/start plus the progress stream.
func (s *Server) handleLegacyDownload(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL is required"})
		return
	}
	plat := platform.Detect(url)
	if plat == platform.PlatformUnknown {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported platform"})
		return
	}

	formatID := c.DefaultQuery("format", "best")
	dir := s.settings.DownloadFolder()
	prefix := uuid.NewString()

	result, err := s.backend.Fetch(c.Request.Context(), download.FetchRequest{
		URL:            url,
		FormatID:       formatID,
		OutputTemplate: filepath.Join(dir, prefix+".%(ext)s"),
		Headers:        platform.RequestHeaders(plat),
	}, func(download.ProgressEvent) {})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Download failed: " + err.Error()})
		return
	}

	artifact := platform.FindFileByPrefix(dir, prefix)
	if artifact == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Download failed"})
		return
	}

	title := result.Title
	if title == "" {
		title = "video"
	}
	c.FileAttachment(artifact, platform.SanitizeFilename(title)+filepath.Ext(artifact))
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
