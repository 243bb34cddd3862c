package handler

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/gofiber/fiber/v3"

	"github.com/devils-eye/youtube-transcript-downloader/internal/config"
	"github.com/devils-eye/youtube-transcript-downloader/internal/middleware"
	"github.com/devils-eye/youtube-transcript-downloader/internal/model"
	"github.com/devils-eye/youtube-transcript-downloader/internal/task"
	"github.com/devils-eye/youtube-transcript-downloader/internal/transcript"
)

type ProcessHandler struct {
	processor *transcript.Processor
	tasks     *task.Manager
	runtime   *config.Runtime

	onStart func()
}

func NewProcessHandler(processor *transcript.Processor, tasks *task.Manager, runtime *config.Runtime) *ProcessHandler {
	return &ProcessHandler{processor: processor, tasks: tasks, runtime: runtime}
}

// SetStartHook registers an observer fired when a job starts (used for metrics).
func (h *ProcessHandler) SetStartHook(onStart func()) {
	h.onStart = onStart
}

// Start handles POST /api/process-transcripts
func (h *ProcessHandler) Start(c fiber.Ctx) error {
	var req model.ProcessRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	if len(req.Videos) == 0 {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "MISSING_FIELD", "No videos provided")
	}
	for _, v := range req.Videos {
		if _, errMsg := middleware.ValidateVideoID(v.ID); errMsg != "" {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
		}
	}

	language, errMsg := middleware.ValidateLanguage(req.Language)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	req.Language = language

	opts := jobOptions(req, h.runtime.OutputDir())
	videos := req.Videos

	taskID := h.tasks.Start(func(ctx context.Context, progress func(current, total int, status string)) (*model.ProcessingResult, error) {
		return h.processor.Process(ctx, videos, opts, progress)
	})

	if h.onStart != nil {
		h.onStart()
	}

	return c.JSON(model.ProcessResponse{TaskID: taskID, Status: "processing"})
}

// defaultLimitValue is the token limit applied when the request omits one.
const defaultLimitValue = 4000

// jobOptions maps a processing request onto processor options, applying the
// server-side defaults. A requested output directory is a subdirectory of
// the configured output folder, which keeps every generated file servable
// through the download route.
func jobOptions(req model.ProcessRequest, baseDir string) transcript.Options {
	outputDir := baseDir
	if req.OutputDir != "" {
		outputDir = filepath.Join(baseDir, req.OutputDir)
	}

	outputStyle := req.OutputStyle
	if outputStyle == "" {
		outputStyle = transcript.StyleBoth
	}

	limitValue := req.LimitValue
	if limitValue == 0 {
		limitValue = defaultLimitValue
	}

	single := req.IsVideoURL || (len(req.Videos) == 1 && req.Videos[0].IsFromVideoURL)

	return transcript.Options{
		Language:            req.Language,
		OutputType:          req.OutputType,
		LimitValue:          limitValue,
		FilterHasTranscript: req.FilterHasTranscript,
		OutputDir:           outputDir,
		OutputStyle:         outputStyle,
		TokenLimit:          req.TokenLimit,
		FileLimit:           req.FileLimit,
		IsSingleVideo:       single,
	}
}

// Status handles GET /api/task/:taskId
func (h *ProcessHandler) Status(c fiber.Ctx) error {
	info, err := h.tasks.Get(c.Params("taskId"))
	if err != nil {
		if errors.Is(err, task.ErrNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Task not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to read task status")
	}
	return c.JSON(info)
}

// Cancel handles POST /api/task/:taskId/cancel
func (h *ProcessHandler) Cancel(c fiber.Ctx) error {
	if err := h.tasks.Cancel(c.Params("taskId")); err != nil {
		if errors.Is(err, task.ErrNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Task not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to cancel task")
	}
	return c.JSON(fiber.Map{"status": "cancelled"})
}
