package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/devils-eye/youtube-transcript-downloader/internal/middleware"
	"github.com/devils-eye/youtube-transcript-downloader/internal/model"
	"github.com/devils-eye/youtube-transcript-downloader/internal/youtube"
)

type ChannelHandler struct {
	yt *youtube.Client
}

func NewChannelHandler(yt *youtube.Client) *ChannelHandler {
	return &ChannelHandler{yt: yt}
}

// Lookup handles POST /api/channel, resolving a channel or video URL into
// its video list.
func (h *ChannelHandler) Lookup(c fiber.Ctx) error {
	var req model.ChannelRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	url, errMsg := middleware.ValidateURL(req.ChannelURL)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	if youtube.IsVideoURL(url) {
		videoID := youtube.ExtractVideoID(url)
		if videoID == "" {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_URL", "Could not extract video ID from URL")
		}

		video, channelID, err := h.yt.VideoByID(c.Context(), videoID)
		if err != nil {
			if errors.Is(err, youtube.ErrNotFound) {
				return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Video not found")
			}
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to retrieve video details")
		}

		return c.JSON(model.ChannelResponse{
			ChannelID:  channelID,
			VideoCount: 1,
			Videos:     []model.Video{*video},
			IsVideoURL: true,
		})
	}

	channelID, err := h.yt.ResolveChannelID(c.Context(), url)
	if err != nil {
		if errors.Is(err, youtube.ErrNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Channel not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_URL", "Could not extract channel ID from URL")
	}

	videos, err := h.yt.ChannelVideos(c.Context(), channelID)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to retrieve channel videos")
	}
	if len(videos) == 0 {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "No videos found for this channel")
	}

	return c.JSON(model.ChannelResponse{
		ChannelID:  channelID,
		VideoCount: len(videos),
		Videos:     videos,
		IsVideoURL: false,
	})
}
