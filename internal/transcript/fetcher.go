package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/devils-eye/youtube-transcript-downloader/internal/model"
)

// ErrNoTranscript is returned when a video has no caption tracks at all.
var ErrNoTranscript = errors.New("transcript: no transcripts available")

const (
	playerEndpoint = "https://www.youtube.com/youtubei/v1/player?prettyPrint=false"
	// The Android client returns caption track metadata without requiring
	// a signature-decoded player response.
	innertubeClientName    = "ANDROID"
	innertubeClientVersion = "20.10.38"
)

// Fetcher lists caption tracks and downloads transcripts for videos.
// The Data API's captions.download needs the video owner's OAuth grant, so
// tracks are discovered through the public innertube player endpoint and
// fetched from the timedtext URLs it returns.
type Fetcher struct {
	httpClient *http.Client
	cache      *Cache
	playerURL  string
}

// NewFetcher creates a Fetcher. cache may be nil to disable caching.
func NewFetcher(cache *Cache) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cache:      cache,
		playerURL:  playerEndpoint,
	}
}

type playerRequest struct {
	Context struct {
		Client struct {
			ClientName        string `json:"clientName"`
			ClientVersion     string `json:"clientVersion"`
			AndroidSDKVersion int    `json:"androidSdkVersion"`
		} `json:"client"`
	} `json:"context"`
	VideoID string `json:"videoId"`
}

type playerResponse struct {
	Captions struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	PlayabilityStatus struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" for auto-generated
	Name         struct {
		SimpleText string `json:"simpleText"`
		Runs       []struct {
			Text string `json:"text"`
		} `json:"runs"`
	} `json:"name"`
}

func (t captionTrack) displayName() string {
	if t.Name.SimpleText != "" {
		return t.Name.SimpleText
	}
	var b strings.Builder
	for _, r := range t.Name.Runs {
		b.WriteString(r.Text)
	}
	if b.Len() > 0 {
		return b.String()
	}
	return t.LanguageCode
}

// Languages returns the available transcript languages for a video, plus
// whether the answer came from cache. Results are cached per video id; a
// video with no tracks yields an empty list rather than an error so batch
// callers can record it.
func (f *Fetcher) Languages(ctx context.Context, videoID string) ([]model.LanguageOption, bool, error) {
	if f.cache != nil {
		if langs, ok := f.cache.GetLanguages(ctx, videoID); ok {
			return langs, true, nil
		}
	}

	tracks, err := f.listTracks(ctx, videoID)
	if err != nil {
		return nil, false, err
	}

	langs := make([]model.LanguageOption, 0, len(tracks))
	for _, tr := range tracks {
		langs = append(langs, model.LanguageOption{
			Code:        tr.LanguageCode,
			Name:        tr.displayName(),
			IsGenerated: tr.Kind == "asr",
		})
	}

	if f.cache != nil {
		if err := f.cache.SetLanguages(ctx, videoID, langs); err != nil {
			log.Printf("cache: languages set error: %v", err)
		}
	}
	return langs, false, nil
}

// Transcript downloads the transcript for a video in the requested language.
// When that language is unavailable it falls back to the first available
// track, matching the behavior users expect from partial caption coverage.
func (f *Fetcher) Transcript(ctx context.Context, videoID, languageCode string) (string, error) {
	tracks, err := f.listTracks(ctx, videoID)
	if err != nil {
		return "", err
	}
	if len(tracks) == 0 {
		return "", ErrNoTranscript
	}

	track := tracks[0]
	for _, tr := range tracks {
		if tr.LanguageCode == languageCode {
			track = tr
			break
		}
	}

	text, err := f.fetchTimedText(ctx, track.BaseURL)
	if err != nil && track.LanguageCode != tracks[0].LanguageCode {
		// Fallback track may still work when the requested one 404s.
		return f.fetchTimedText(ctx, tracks[0].BaseURL)
	}
	return text, err
}

func (f *Fetcher) listTracks(ctx context.Context, videoID string) ([]captionTrack, error) {
	var reqBody playerRequest
	reqBody.Context.Client.ClientName = innertubeClientName
	reqBody.Context.Client.ClientVersion = innertubeClientVersion
	reqBody.Context.Client.AndroidSDKVersion = 30
	reqBody.VideoID = videoID

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.playerURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("player request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("player request: unexpected status %d", resp.StatusCode)
	}

	var pr playerResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("player response: %w", err)
	}

	if pr.PlayabilityStatus.Status != "" && pr.PlayabilityStatus.Status != "OK" {
		log.Printf("transcript: video %s not playable: %s", videoID, pr.PlayabilityStatus.Reason)
		return nil, nil
	}

	return pr.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks, nil
}

type timedTextResponse struct {
	Events []struct {
		Segs []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

// fetchTimedText downloads one caption track in json3 format and flattens
// it to plain text, one caption event per line.
func (f *Fetcher) fetchTimedText(ctx context.Context, baseURL string) (string, error) {
	url := baseURL
	if !strings.Contains(url, "fmt=") {
		url += "&fmt=json3"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("timedtext request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("timedtext request: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var tt timedTextResponse
	if err := json.Unmarshal(body, &tt); err != nil {
		return "", fmt.Errorf("timedtext response: %w", err)
	}

	return flattenEvents(tt), nil
}

func flattenEvents(tt timedTextResponse) string {
	var lines []string
	for _, ev := range tt.Events {
		var b strings.Builder
		for _, seg := range ev.Segs {
			b.WriteString(seg.UTF8)
		}
		line := strings.TrimSpace(b.String())
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
