// Package client is a typed HTTP client for the transcript downloader
// backend, plus the polling and batch-checking loops that drive it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/devils-eye/youtube-transcript-downloader/internal/model"
)

// DefaultBaseURL is used when API_BASE_URL is not set.
const DefaultBaseURL = "http://127.0.0.1:5000"

// Client talks to the backend REST API. Each method performs exactly one
// HTTP request; no retries, no caching.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client. The base URL comes from the API_BASE_URL environment
// variable, falling back to the local default.
func New() *Client {
	base := os.Getenv("API_BASE_URL")
	if base == "" {
		base = DefaultBaseURL
	}
	return NewWithBaseURL(base)
}

// NewWithBaseURL creates a Client against an explicit base URL.
func NewWithBaseURL(base string) *Client {
	return &Client{
		baseURL:    base,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// apiError mirrors the backend error body. The server emits a nested
// {code, message} object; older builds emitted a flat string. Both decode
// into a single message.
type apiError struct {
	Err json.RawMessage `json:"error"`
}

func (e *apiError) message() string {
	if len(e.Err) == 0 {
		return ""
	}
	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(e.Err, &nested); err == nil && nested.Message != "" {
		return nested.Message
	}
	var flat string
	if err := json.Unmarshal(e.Err, &flat); err == nil {
		return flat
	}
	return ""
}

// do issues one request and decodes the response into out (which may be
// nil). Non-2xx responses are normalized into a single error message,
// preferring the structured backend body over a generic fallback.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if err := json.Unmarshal(data, &apiErr); err == nil {
			if msg := apiErr.message(); msg != "" {
				return fmt.Errorf("%s", msg)
			}
		}
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// ResolveChannel resolves a channel or video URL into its video list.
func (c *Client) ResolveChannel(ctx context.Context, channelURL string) (*model.ChannelResponse, error) {
	var resp model.ChannelResponse
	err := c.do(ctx, http.MethodPost, "/api/channel", model.ChannelRequest{ChannelURL: channelURL}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Languages fetches the available transcript languages for a video.
func (c *Client) Languages(ctx context.Context, videoID string) ([]model.LanguageOption, error) {
	var resp model.LanguagesResponse
	err := c.do(ctx, http.MethodGet, "/api/languages/"+videoID, nil, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Languages, nil
}

// Transcript fetches one transcript in the given language.
func (c *Client) Transcript(ctx context.Context, videoID, language string) (*model.TranscriptResponse, error) {
	var resp model.TranscriptResponse
	path := "/api/transcript/" + videoID
	if language != "" {
		path += "?language=" + language
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// StartProcessing submits a processing job and returns its task id.
func (c *Client) StartProcessing(ctx context.Context, req model.ProcessRequest) (*model.ProcessResponse, error) {
	var resp model.ProcessResponse
	if err := c.do(ctx, http.MethodPost, "/api/process-transcripts", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TaskStatus fetches the current projection of a processing task.
func (c *Client) TaskStatus(ctx context.Context, taskID string) (*model.Task, error) {
	var resp model.Task
	if err := c.do(ctx, http.MethodGet, "/api/task/"+taskID, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CancelTask asks the server to stop a running task. Cancellation is
// advisory; callers confirm through polling.
func (c *Client) CancelTask(ctx context.Context, taskID string) error {
	return c.do(ctx, http.MethodPost, "/api/task/"+taskID+"/cancel", nil, nil)
}

// OutputDir fetches the server-side output directory.
func (c *Client) OutputDir(ctx context.Context) (string, error) {
	var resp struct {
		OutputDir string `json:"output_dir"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/output-dir", nil, &resp); err != nil {
		return "", err
	}
	return resp.OutputDir, nil
}

// SetOutputDir changes the server-side output directory.
func (c *Client) SetOutputDir(ctx context.Context, dir string) error {
	body := struct {
		OutputDir string `json:"output_dir"`
	}{OutputDir: dir}
	return c.do(ctx, http.MethodPost, "/api/output-dir", body, nil)
}

// Quota fetches the current YouTube API quota usage.
func (c *Client) Quota(ctx context.Context) (*model.QuotaInfo, error) {
	var resp model.QuotaInfo
	if err := c.do(ctx, http.MethodGet, "/api/quota", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// APIKeyStatus reports whether a key is configured and where it came from.
type APIKeyStatus struct {
	Configured bool   `json:"configured"`
	FromEnv    bool   `json:"from_env"`
	MaskedKey  string `json:"masked_key"`
}

// APIKey fetches the API key status. The key itself is never exposed.
func (c *Client) APIKey(ctx context.Context) (*APIKeyStatus, error) {
	var resp APIKeyStatus
	if err := c.do(ctx, http.MethodGet, "/api/api-key", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SetAPIKey configures a new YouTube API key on the server.
func (c *Client) SetAPIKey(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("API key is required")
	}
	body := struct {
		APIKey string `json:"api_key"`
	}{APIKey: key}
	return c.do(ctx, http.MethodPost, "/api/api-key", body, nil)
}

// DownloadURL builds the download URL for a generated file. Purely string
// interpolation, no request is made.
func (c *Client) DownloadURL(filename string) string {
	return c.baseURL + "/api/download/" + filename
}
