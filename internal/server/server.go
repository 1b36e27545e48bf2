package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/1nis/Downloadix/internal/config"
	"github.com/1nis/Downloadix/internal/download"
	"github.com/1nis/Downloadix/internal/history"
	"github.com/1nis/Downloadix/internal/registry"
)

// thumbnailFetchTimeout bounds server-side thumbnail downloads.
const thumbnailFetchTimeout = 30 * time.Second

// Server wires the job registry, worker, streamer, and history store behind
// the HTTP API.
type Server struct {
	registry   *registry.Registry
	history    *history.Store
	streamer   *download.Streamer
	worker     *download.Worker
	backend    download.Backend
	settings   *config.Settings
	logger     *slog.Logger
	httpClient *http.Client
}

// New assembles a server around the given backend and settings.
func New(settings *config.Settings, backend download.Backend, logger *slog.Logger) *Server {
	reg := registry.New()

	return &Server{
		registry: reg,
		history:  history.NewStore(),
		streamer: download.NewStreamer(reg, download.DefaultPollInterval),
		worker: &download.Worker{
			Registry:     reg,
			Backend:      backend,
			DownloadsDir: settings.DownloadFolder,
			Logger:       logger,
		},
		backend:    backend,
		settings:   settings,
		logger:     logger,
		httpClient: &http.Client{Timeout: thumbnailFetchTimeout},
	}
}

// Registry exposes the job registry, mainly for the cleanup wiring and
// tests.
func (s *Server) Registry() *registry.Registry {
	return s.registry
}

// Routes builds the API router.
func (s *Server) Routes() *gin.Engine {
	r := gin.Default()
	r.Use(CORSMiddleware())
	r.Use(RateLimitMiddleware(s.settings.RateLimit(), s.settings.RateBurst()))

	api := r.Group("/api")
	{
		api.GET("/health", s.handleHealth)
		api.GET("/info", s.handleInfo)
		api.GET("/settings", s.handleGetSettings)
		api.POST("/settings", s.handleUpdateSettings)

		// legacy synchronous endpoint
		api.GET("/download", s.handleLegacyDownload)

		dl := api.Group("/download")
		{
			dl.POST("/start", s.handleStart)
			dl.POST("/cancel/:id", s.handleCancel)
			dl.GET("/progress/:id", s.handleProgress)
			dl.GET("/list", s.handleList)
			dl.POST("/clear", s.handleClear)
			dl.GET("/history", s.handleHistory)
			dl.POST("/history/clear", s.handleHistoryClear)
			dl.GET("/file/:id", s.handleFile)
			dl.POST("/thumbnail", s.handleThumbnail)
		}
	}
	return r
}
