package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/devils-eye/youtube-transcript-downloader/internal/handler"
	"github.com/devils-eye/youtube-transcript-downloader/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Channel    *handler.ChannelHandler
	Transcript *handler.TranscriptHandler
	Process    *handler.ProcessHandler
	Settings   *handler.SettingsHandler
	Quota      *handler.QuotaHandler
	Download   *handler.DownloadHandler
	Health     *handler.HealthHandler
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, corsOrigins string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(middleware.NewCORS(corsOrigins))
	app.Use(handler.MetricsMiddleware())

	// Health and metrics (before API group)
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	// Rate limits: channel resolution and processing are expensive against
	// the YouTube quota, language lookups are cheap and batched by clients.
	channelLimiter := middleware.NewChannelRateLimiter()
	processLimiter := middleware.NewProcessRateLimiter()
	languageLimiter := middleware.NewLanguageRateLimiter()

	// API routes
	api := app.Group("/api")

	// Channel resolution
	api.Post("/channel", h.Channel.Lookup, channelLimiter.Handler())

	// Transcript routes
	api.Get("/languages/:videoId", h.Transcript.Languages, languageLimiter.Handler())
	api.Get("/transcript/:videoId", h.Transcript.Get, languageLimiter.Handler())

	// Processing task routes
	api.Post("/process-transcripts", h.Process.Start, processLimiter.Handler())
	api.Get("/task/:taskId", h.Process.Status)
	api.Post("/task/:taskId/cancel", h.Process.Cancel)

	// Settings routes
	api.Get("/output-dir", h.Settings.GetOutputDir)
	api.Post("/output-dir", h.Settings.SetOutputDir)
	api.Get("/api-key", h.Settings.GetAPIKeyStatus)
	api.Post("/api-key", h.Settings.SetAPIKey)

	// Quota route
	api.Get("/quota", h.Quota.Get)

	// Download route
	api.Get("/download/*", h.Download.Get)
}
