package transcript

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestFetcher(playerURL string) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		playerURL:  playerURL,
	}
}

func TestLanguages_ParsesTracks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"captions": {"playerCaptionsTracklistRenderer": {"captionTracks": [
				{"baseUrl": "http://example.invalid/tt?lang=en", "languageCode": "en",
				 "name": {"simpleText": "English"}},
				{"baseUrl": "http://example.invalid/tt?lang=de", "languageCode": "de",
				 "kind": "asr", "name": {"runs": [{"text": "German "}, {"text": "(auto)"}]}}
			]}},
			"playabilityStatus": {"status": "OK"}
		}`))
	}))
	defer srv.Close()

	f := newTestFetcher(srv.URL)
	langs, cached, err := f.Languages(context.Background(), "vid1")
	if err != nil {
		t.Fatalf("Languages: %v", err)
	}
	if cached {
		t.Error("uncached lookup reported as cached")
	}
	if len(langs) != 2 {
		t.Fatalf("got %d languages, want 2", len(langs))
	}
	if langs[0].Code != "en" || langs[0].Name != "English" || langs[0].IsGenerated {
		t.Errorf("first track = %+v", langs[0])
	}
	if langs[1].Code != "de" || langs[1].Name != "German (auto)" || !langs[1].IsGenerated {
		t.Errorf("second track = %+v", langs[1])
	}
}

func TestLanguages_NoTracksIsEmptyNotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"playabilityStatus": {"status": "OK"}}`))
	}))
	defer srv.Close()

	f := newTestFetcher(srv.URL)
	langs, cached, err := f.Languages(context.Background(), "vid1")
	if err != nil {
		t.Fatalf("Languages: %v", err)
	}
	if cached {
		t.Error("uncached lookup reported as cached")
	}
	if len(langs) != 0 {
		t.Errorf("got %d languages, want none", len(langs))
	}
}

func TestTranscript_FlattensTimedText(t *testing.T) {
	var timedTextURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/player", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{
			"captions": {"playerCaptionsTracklistRenderer": {"captionTracks": [
				{"baseUrl": %q, "languageCode": "en", "name": {"simpleText": "English"}}
			]}},
			"playabilityStatus": {"status": "OK"}
		}`, timedTextURL)
	})
	mux.HandleFunc("/timedtext", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("fmt") != "json3" {
			t.Errorf("fmt = %q, want json3", r.URL.Query().Get("fmt"))
		}
		w.Write([]byte(`{"events": [
			{"segs": [{"utf8": "hello "}, {"utf8": "world"}]},
			{"segs": [{"utf8": "  "}]},
			{"segs": [{"utf8": "next line"}]}
		]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	timedTextURL = srv.URL + "/timedtext?lang=en"

	f := newTestFetcher(srv.URL + "/player")
	text, err := f.Transcript(context.Background(), "vid1", "en")
	if err != nil {
		t.Fatalf("Transcript: %v", err)
	}
	want := "hello world\nnext line"
	if text != want {
		t.Errorf("transcript = %q, want %q", text, want)
	}
}

func TestTranscript_NoTracks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"playabilityStatus": {"status": "OK"}}`))
	}))
	defer srv.Close()

	f := newTestFetcher(srv.URL)
	_, err := f.Transcript(context.Background(), "vid1", "en")
	if err != ErrNoTranscript {
		t.Errorf("err = %v, want ErrNoTranscript", err)
	}
}
