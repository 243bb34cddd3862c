package handler

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/devils-eye/youtube-transcript-downloader/internal/config"
	"github.com/devils-eye/youtube-transcript-downloader/internal/middleware"
	"github.com/devils-eye/youtube-transcript-downloader/internal/youtube"
)

type SettingsHandler struct {
	runtime *config.Runtime
	yt      *youtube.Client
}

func NewSettingsHandler(runtime *config.Runtime, yt *youtube.Client) *SettingsHandler {
	return &SettingsHandler{runtime: runtime, yt: yt}
}

// GetOutputDir handles GET /api/output-dir
func (h *SettingsHandler) GetOutputDir(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"output_dir": h.runtime.OutputDir()})
}

// SetOutputDir handles POST /api/output-dir
func (h *SettingsHandler) SetOutputDir(c fiber.Ctx) error {
	var req struct {
		OutputDir string `json:"output_dir"`
	}
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	dir := strings.TrimSpace(req.OutputDir)
	if dir == "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "MISSING_FIELD", "output_dir is required")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "Invalid output directory path")
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "Output directory is not writable")
	}

	h.runtime.SetOutputDir(abs)
	return c.JSON(fiber.Map{"output_dir": abs})
}

// GetAPIKeyStatus handles GET /api/api-key
// The key itself is never returned, only whether one is configured and
// where it came from.
func (h *SettingsHandler) GetAPIKeyStatus(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"configured": h.yt.HasKey(),
		"from_env":   h.runtime.KeyFromEnv(),
		"masked_key": h.yt.MaskedKey(),
	})
}

// SetAPIKey handles POST /api/api-key
func (h *SettingsHandler) SetAPIKey(c fiber.Ctx) error {
	var req struct {
		APIKey string `json:"api_key"`
	}
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	key := strings.TrimSpace(req.APIKey)
	if key == "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "MISSING_FIELD", "api_key is required")
	}

	if err := h.yt.SetKey(c.Context(), key); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "API key was rejected")
	}
	h.runtime.SetKeyOverridden()

	return c.JSON(fiber.Map{"status": "ok", "masked_key": h.yt.MaskedKey()})
}
