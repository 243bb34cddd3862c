package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3"

	"github.com/devils-eye/youtube-transcript-downloader/internal/config"
	"github.com/devils-eye/youtube-transcript-downloader/internal/handler"
	"github.com/devils-eye/youtube-transcript-downloader/internal/middleware"
	"github.com/devils-eye/youtube-transcript-downloader/internal/quota"
	"github.com/devils-eye/youtube-transcript-downloader/internal/router"
	"github.com/devils-eye/youtube-transcript-downloader/internal/task"
	"github.com/devils-eye/youtube-transcript-downloader/internal/transcript"
	"github.com/devils-eye/youtube-transcript-downloader/internal/youtube"
)

func main() {
	cfg := config.Load()
	middleware.InitLogger(cfg.LogLevel, "transcript-downloader")

	ctx := context.Background()

	tracker, err := quota.Open(cfg.DataDir)
	if err != nil {
		log.Fatalf("failed to open quota ledger: %v", err)
	}
	defer tracker.Close()

	ytClient, err := youtube.New(ctx, cfg.YouTubeAPIKey, tracker)
	if err != nil {
		log.Fatalf("failed to create YouTube client: %v", err)
	}

	cache := transcript.NewCache(cfg.RedisURL)
	defer cache.Close()

	fetcher := transcript.NewFetcher(cache)
	processor := transcript.NewProcessor(fetcher)

	tasks := task.NewManager()
	go tasks.StartCleanup(ctx)

	runtime := config.NewRuntime(cfg)

	handler.InitMetrics(tasks, tracker)
	tasks.SetHooks(
		func() { handler.Metrics.TasksCompleted.Inc() },
		func() { handler.Metrics.TasksCancelled.Inc() },
	)

	transcriptHandler := handler.NewTranscriptHandler(fetcher)
	transcriptHandler.SetCacheHooks(
		func() { handler.Metrics.CacheHits.Inc() },
		func() { handler.Metrics.CacheMisses.Inc() },
	)

	processHandler := handler.NewProcessHandler(processor, tasks, runtime)
	processHandler.SetStartHook(func() { handler.Metrics.TasksStarted.Inc() })

	h := &router.Handlers{
		Channel:    handler.NewChannelHandler(ytClient),
		Transcript: transcriptHandler,
		Process:    processHandler,
		Settings:   handler.NewSettingsHandler(runtime, ytClient),
		Quota:      handler.NewQuotaHandler(tracker),
		Download:   handler.NewDownloadHandler(runtime),
		Health:     handler.NewHealthHandler(tracker, cache.Client()),
	}

	app := fiber.New(fiber.Config{
		AppName:      "Transcript Downloader API",
		ServerHeader: "TranscriptDL",
	})

	router.Setup(app, h, cfg.CORSOrigins)

	log.Printf("transcript downloader backend starting on :%s (env=%s)", cfg.Port, cfg.Environment)
	log.Fatal(app.Listen(":" + cfg.Port))
}
