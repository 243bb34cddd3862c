package middleware

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// Field limits for identifiers moving through the API.
const (
	MaxVideoIDLen  = 16  // YouTube video IDs are 11 chars; margin for variants
	MaxLanguageLen = 12  // BCP-47 codes like "en", "pt-BR", "zh-Hans"
	MaxURLLen      = 512 // sanity cap on submitted channel/video URLs
)

var (
	// videoIDRe matches YouTube video IDs: alphanumeric, dash, underscore.
	videoIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	// languageRe matches language codes: letters with optional region/script subtags.
	languageRe = regexp.MustCompile(`^[A-Za-z]{2,3}(-[A-Za-z0-9]{2,8})*$`)
)

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidateVideoID checks that a video ID is well-formed.
func ValidateVideoID(id string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", "videoId is required"
	}
	if len(id) > MaxVideoIDLen {
		return "", "videoId must be at most 16 characters"
	}
	if !videoIDRe.MatchString(id) {
		return "", "videoId contains invalid characters"
	}
	return id, ""
}

// ValidateURL checks that a submitted channel/video URL is present and sane.
func ValidateURL(url string) (string, string) {
	url = strings.TrimSpace(url)
	if url == "" {
		return "", "URL is required"
	}
	if len(url) > MaxURLLen {
		return "", "URL is too long"
	}
	return url, ""
}

// ValidateLanguage checks a transcript language code, defaulting to "en".
func ValidateLanguage(code string) (string, string) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "en", ""
	}
	if len(code) > MaxLanguageLen || !languageRe.MatchString(code) {
		return "", "language must be a valid language code"
	}
	return code, ""
}

// ValidateFilename rejects download names that escape the output directory.
func ValidateFilename(name string) (string, string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "filename is required"
	}
	if strings.Contains(name, "..") || strings.HasPrefix(name, "/") || strings.HasPrefix(name, "\\") {
		return "", "invalid filename"
	}
	return name, ""
}
