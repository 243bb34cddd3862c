package youtube

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"github.com/devils-eye/youtube-transcript-downloader/internal/model"
	"github.com/devils-eye/youtube-transcript-downloader/internal/quota"
)

// ErrNotFound is returned when a lookup resolves to no channel or video.
var ErrNotFound = errors.New("youtube: not found")

const pageSize = 50 // playlistItems.list API maximum

// Client wraps the YouTube Data API v3 for channel and video lookups.
// Every call is charged against the quota ledger before it is issued.
type Client struct {
	mu    sync.RWMutex
	svc   *yt.Service
	key   string
	quota *quota.Tracker
}

// New builds a Client with the given API key. The key may be empty; calls
// will then fail until SetKey provides one.
func New(ctx context.Context, apiKey string, tracker *quota.Tracker) (*Client, error) {
	c := &Client{quota: tracker}
	if apiKey == "" {
		log.Println("youtube: no API key configured, lookups disabled until one is set")
		return c, nil
	}
	svc, err := yt.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("youtube service: %w", err)
	}
	c.svc = svc
	c.key = apiKey
	return c, nil
}

// SetKey swaps the API key at runtime (POST /api/api-key).
func (c *Client) SetKey(ctx context.Context, apiKey string) error {
	svc, err := yt.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return fmt.Errorf("youtube service: %w", err)
	}
	c.mu.Lock()
	c.svc = svc
	c.key = apiKey
	c.mu.Unlock()
	return nil
}

// HasKey reports whether an API key is currently configured.
func (c *Client) HasKey() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.svc != nil
}

// MaskedKey returns the configured key with all but the last four
// characters hidden.
func (c *Client) MaskedKey() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.key == "" {
		return ""
	}
	if len(c.key) <= 4 {
		return "****"
	}
	return "****" + c.key[len(c.key)-4:]
}

func (c *Client) service() (*yt.Service, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.svc == nil {
		return nil, errors.New("youtube: no API key configured")
	}
	return c.svc, nil
}

func (c *Client) charge(operation string) {
	if c.quota == nil {
		return
	}
	if err := c.quota.Record(operation); err != nil {
		log.Printf("quota: record %s: %v", operation, err)
	}
}

// VideoByID fetches metadata for a single video.
func (c *Client) VideoByID(ctx context.Context, videoID string) (*model.Video, string, error) {
	svc, err := c.service()
	if err != nil {
		return nil, "", err
	}

	c.charge("videos.list")
	resp, err := svc.Videos.List([]string{"snippet", "contentDetails"}).
		Id(videoID).Context(ctx).Do()
	if err != nil {
		return nil, "", fmt.Errorf("videos.list: %w", err)
	}
	if len(resp.Items) == 0 {
		return nil, "", ErrNotFound
	}

	sn := resp.Items[0].Snippet
	video := &model.Video{
		ID:             videoID,
		Title:          sn.Title,
		Description:    sn.Description,
		PublishedAt:    sn.PublishedAt,
		ChannelTitle:   sn.ChannelTitle,
		IsFromVideoURL: true,
	}
	return video, sn.ChannelId, nil
}

// ResolveChannelID turns any supported channel URL into a channel ID.
func (c *Client) ResolveChannelID(ctx context.Context, channelURL string) (string, error) {
	identifier, kind, ok := parseChannelURL(channelURL)
	if !ok {
		return "", fmt.Errorf("could not extract channel ID from URL")
	}

	// /channel/UC… already carries the ID.
	if kind == channelByID && strings.HasPrefix(identifier, "UC") {
		return identifier, nil
	}

	svc, err := c.service()
	if err != nil {
		return "", err
	}

	switch kind {
	case channelByUsername:
		c.charge("channels.list")
		resp, err := svc.Channels.List([]string{"id"}).
			ForUsername(identifier).Context(ctx).Do()
		if err != nil {
			return "", fmt.Errorf("channels.list: %w", err)
		}
		if len(resp.Items) == 0 {
			return "", ErrNotFound
		}
		return resp.Items[0].Id, nil

	default:
		// Handles and custom URLs resolve through search.
		q := identifier
		if kind == channelByHandle {
			q = "@" + identifier
		}
		c.charge("search.list")
		resp, err := svc.Search.List([]string{"snippet"}).
			Q(q).Type("channel").MaxResults(1).Context(ctx).Do()
		if err != nil {
			return "", fmt.Errorf("search.list: %w", err)
		}
		if len(resp.Items) == 0 {
			return "", ErrNotFound
		}
		return resp.Items[0].Snippet.ChannelId, nil
	}
}

// ChannelVideos lists every video on a channel's uploads playlist.
func (c *Client) ChannelVideos(ctx context.Context, channelID string) ([]model.Video, error) {
	svc, err := c.service()
	if err != nil {
		return nil, err
	}

	c.charge("channels.list")
	chResp, err := svc.Channels.List([]string{"contentDetails", "snippet"}).
		Id(channelID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("channels.list: %w", err)
	}
	if len(chResp.Items) == 0 {
		return nil, ErrNotFound
	}

	uploads := chResp.Items[0].ContentDetails.RelatedPlaylists.Uploads
	channelTitle := chResp.Items[0].Snippet.Title

	var videos []model.Video
	pageToken := ""
	for {
		c.charge("playlistItems.list")
		plResp, err := svc.PlaylistItems.List([]string{"snippet", "contentDetails"}).
			PlaylistId(uploads).MaxResults(pageSize).PageToken(pageToken).
			Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("playlistItems.list: %w", err)
		}

		for _, item := range plResp.Items {
			videos = append(videos, model.Video{
				ID:           item.ContentDetails.VideoId,
				Title:        item.Snippet.Title,
				Description:  item.Snippet.Description,
				PublishedAt:  item.Snippet.PublishedAt,
				ChannelTitle: channelTitle,
			})
		}

		pageToken = plResp.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return videos, nil
}
