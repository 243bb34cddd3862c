package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/devils-eye/youtube-transcript-downloader/internal/middleware"
	"github.com/devils-eye/youtube-transcript-downloader/internal/model"
	"github.com/devils-eye/youtube-transcript-downloader/internal/transcript"
)

type TranscriptHandler struct {
	fetcher *transcript.Fetcher

	onCacheHit  func()
	onCacheMiss func()
}

func NewTranscriptHandler(fetcher *transcript.Fetcher) *TranscriptHandler {
	return &TranscriptHandler{fetcher: fetcher}
}

// SetCacheHooks registers cache hit/miss observers (used for metrics).
func (h *TranscriptHandler) SetCacheHooks(onHit, onMiss func()) {
	h.onCacheHit = onHit
	h.onCacheMiss = onMiss
}

// Languages handles GET /api/languages/:videoId
func (h *TranscriptHandler) Languages(c fiber.Ctx) error {
	videoID, errMsg := middleware.ValidateVideoID(c.Params("videoId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	langs, cached, err := h.fetcher.Languages(c.Context(), videoID)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to retrieve transcript languages")
	}

	if cached {
		if h.onCacheHit != nil {
			h.onCacheHit()
		}
	} else if h.onCacheMiss != nil {
		h.onCacheMiss()
	}

	if len(langs) == 0 {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "No transcripts available for this video")
	}

	return c.JSON(model.LanguagesResponse{VideoID: videoID, Languages: langs})
}

// Get handles GET /api/transcript/:videoId?language=X
func (h *TranscriptHandler) Get(c fiber.Ctx) error {
	videoID, errMsg := middleware.ValidateVideoID(c.Params("videoId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	language, errMsg := middleware.ValidateLanguage(fiber.Query[string](c, "language"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	text, err := h.fetcher.Transcript(c.Context(), videoID, language)
	if err != nil {
		if errors.Is(err, transcript.ErrNoTranscript) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "No transcript available for this video")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to retrieve transcript")
	}

	return c.JSON(model.TranscriptResponse{
		VideoID:    videoID,
		Language:   language,
		Transcript: text,
	})
}
