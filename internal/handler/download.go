package handler

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/devils-eye/youtube-transcript-downloader/internal/config"
	"github.com/devils-eye/youtube-transcript-downloader/internal/middleware"
)

type DownloadHandler struct {
	runtime *config.Runtime
}

func NewDownloadHandler(runtime *config.Runtime) *DownloadHandler {
	return &DownloadHandler{runtime: runtime}
}

// Get handles GET /api/download/*
// Serves a generated transcript file from the output directory. The wildcard
// may include one subdirectory level for channel exports.
func (h *DownloadHandler) Get(c fiber.Ctx) error {
	name, errMsg := middleware.ValidateFilename(c.Params("*"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	base := h.runtime.OutputDir()
	path := filepath.Join(base, filepath.FromSlash(name))

	// Joining cleans the path; anything escaping the output dir is rejected.
	rel, err := filepath.Rel(base, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "Invalid file path")
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "File not found")
	}

	c.Set("Content-Type", "text/plain; charset=utf-8")
	c.Set("Content-Disposition", "attachment; filename="+filepath.Base(path))
	return c.SendFile(path)
}
