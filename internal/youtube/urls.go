package youtube

import "regexp"

var videoPatterns = []*regexp.Regexp{
	regexp.MustCompile(`youtube\.com/watch\?v=([^&\s]+)`),
	regexp.MustCompile(`youtu\.be/([^/\s?]+)`),
	regexp.MustCompile(`youtube\.com/v/([^/\s?]+)`),
	regexp.MustCompile(`youtube\.com/embed/([^/\s?]+)`),
}

// channelPatterns map a channel URL form to how the identifier resolves.
type channelPattern struct {
	re   *regexp.Regexp
	kind channelURLKind
}

type channelURLKind int

const (
	channelByID channelURLKind = iota
	channelByCustomURL
	channelByUsername
	channelByHandle
)

var channelPatterns = []channelPattern{
	{regexp.MustCompile(`youtube\.com/channel/([^/\s?]+)`), channelByID},
	{regexp.MustCompile(`youtube\.com/c/([^/\s?]+)`), channelByCustomURL},
	{regexp.MustCompile(`youtube\.com/user/([^/\s?]+)`), channelByUsername},
	{regexp.MustCompile(`youtube\.com/@([^/\s?]+)`), channelByHandle},
}

// IsVideoURL reports whether the URL points at a single video rather than
// a channel.
func IsVideoURL(url string) bool {
	for _, re := range videoPatterns {
		if re.MatchString(url) {
			return true
		}
	}
	return false
}

// ExtractVideoID pulls the video ID out of any supported video URL form.
// Returns "" when the URL is not a video URL.
func ExtractVideoID(url string) string {
	for _, re := range videoPatterns {
		if m := re.FindStringSubmatch(url); m != nil {
			return m[1]
		}
	}
	return ""
}

// parseChannelURL extracts the channel identifier and how to resolve it.
func parseChannelURL(url string) (string, channelURLKind, bool) {
	for _, p := range channelPatterns {
		if m := p.re.FindStringSubmatch(url); m != nil {
			return m[1], p.kind, true
		}
	}
	return "", 0, false
}
