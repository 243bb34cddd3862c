package model

// Video represents a YouTube video returned by a channel or video lookup.
// Identity is the video ID; IsFromVideoURL is the only client-added field.
type Video struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	PublishedAt    string `json:"publishedAt"`
	ChannelTitle   string `json:"channelTitle,omitempty"`
	IsFromVideoURL bool   `json:"isFromVideoUrl,omitempty"`
}

// VideoRef is the minimal video identity carried inside processing results.
type VideoRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// LanguageOption describes one available transcript language for a video.
type LanguageOption struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	IsGenerated bool   `json:"is_generated"`
}

// ChannelRequest is the body of POST /api/channel.
type ChannelRequest struct {
	ChannelURL string `json:"channelUrl"`
}

// ChannelResponse is the API response for channel and video URL lookups.
type ChannelResponse struct {
	ChannelID  string  `json:"channelId"`
	VideoCount int     `json:"videoCount"`
	Videos     []Video `json:"videos"`
	IsVideoURL bool    `json:"isVideoUrl"`
}

// LanguagesResponse is the API response for GET /api/languages/:videoId.
type LanguagesResponse struct {
	VideoID   string           `json:"videoId"`
	Languages []LanguageOption `json:"languages"`
}

// TranscriptResponse is the API response for GET /api/transcript/:videoId.
type TranscriptResponse struct {
	VideoID    string `json:"videoId"`
	Language   string `json:"language"`
	Transcript string `json:"transcript"`
}
