package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/devils-eye/youtube-transcript-downloader/internal/model"
)

func TestResolveChannel(t *testing.T) {
	var gotBody model.ChannelRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/channel" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		json.NewEncoder(w).Encode(model.ChannelResponse{
			ChannelID:  "UC123",
			VideoCount: 2,
			Videos: []model.Video{
				{ID: "vid1", Title: "First"},
				{ID: "vid2", Title: "Second"},
			},
		})
	}))
	defer srv.Close()

	c := NewWithBaseURL(srv.URL)
	resp, err := c.ResolveChannel(context.Background(), "https://www.youtube.com/@somechannel")
	if err != nil {
		t.Fatalf("ResolveChannel: %v", err)
	}

	if gotBody.ChannelURL != "https://www.youtube.com/@somechannel" {
		t.Errorf("channelUrl = %q", gotBody.ChannelURL)
	}
	if resp.VideoCount != 2 || len(resp.Videos) != 2 {
		t.Errorf("got %d videos, count %d", len(resp.Videos), resp.VideoCount)
	}
	if resp.IsVideoURL {
		t.Error("isVideoUrl should be false for a channel URL")
	}
}

func TestErrorNormalization_Nested(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"code":"NOT_FOUND","message":"Channel not found"}}`))
	}))
	defer srv.Close()

	c := NewWithBaseURL(srv.URL)
	_, err := c.ResolveChannel(context.Background(), "https://www.youtube.com/@missing")
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "Channel not found" {
		t.Errorf("error = %q, want backend message verbatim", err.Error())
	}
}

func TestErrorNormalization_Flat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"No transcripts available for this video"}`))
	}))
	defer srv.Close()

	c := NewWithBaseURL(srv.URL)
	_, err := c.Languages(context.Background(), "vid1")
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "No transcripts available for this video" {
		t.Errorf("error = %q", err.Error())
	}
}

func TestErrorNormalization_Fallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	c := NewWithBaseURL(srv.URL)
	_, err := c.Quota(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "502") {
		t.Errorf("error = %q, want generic status message", err.Error())
	}
}

func TestStartProcessing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/process-transcripts" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(model.ProcessResponse{TaskID: "abc-123", Status: "processing"})
	}))
	defer srv.Close()

	c := NewWithBaseURL(srv.URL)
	resp, err := c.StartProcessing(context.Background(), model.ProcessRequest{
		Videos:   []model.Video{{ID: "vid1"}},
		Language: "en",
	})
	if err != nil {
		t.Fatalf("StartProcessing: %v", err)
	}
	if resp.TaskID != "abc-123" {
		t.Errorf("task id = %q", resp.TaskID)
	}
}

func TestOutputDirRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`{"output_dir":"/home/user/Downloads"}`))
		case http.MethodPost:
			var body struct {
				OutputDir string `json:"output_dir"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			if body.OutputDir != "/tmp/out" {
				t.Errorf("output_dir = %q", body.OutputDir)
			}
			w.Write([]byte(`{"output_dir":"/tmp/out"}`))
		}
	}))
	defer srv.Close()

	c := NewWithBaseURL(srv.URL)
	dir, err := c.OutputDir(context.Background())
	if err != nil {
		t.Fatalf("OutputDir: %v", err)
	}
	if dir != "/home/user/Downloads" {
		t.Errorf("dir = %q", dir)
	}
	if err := c.SetOutputDir(context.Background(), "/tmp/out"); err != nil {
		t.Fatalf("SetOutputDir: %v", err)
	}
}

func TestSetAPIKey_EmptyRejectedLocally(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	c := NewWithBaseURL(srv.URL)
	if err := c.SetAPIKey(context.Background(), ""); err == nil {
		t.Fatal("expected validation error")
	}
	if requests != 0 {
		t.Errorf("empty key should not reach the server, got %d requests", requests)
	}
}

func TestDownloadURL(t *testing.T) {
	c := NewWithBaseURL("http://127.0.0.1:5000")
	got := c.DownloadURL("channel/all_transcripts.txt")
	want := "http://127.0.0.1:5000/api/download/channel/all_transcripts.txt"
	if got != want {
		t.Errorf("DownloadURL = %q, want %q", got, want)
	}
}
