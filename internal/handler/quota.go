package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/devils-eye/youtube-transcript-downloader/internal/quota"
)

type QuotaHandler struct {
	tracker *quota.Tracker
}

func NewQuotaHandler(tracker *quota.Tracker) *QuotaHandler {
	return &QuotaHandler{tracker: tracker}
}

// Get handles GET /api/quota
func (h *QuotaHandler) Get(c fiber.Ctx) error {
	return c.JSON(h.tracker.Info())
}
