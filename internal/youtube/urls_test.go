package youtube

import "testing"

func TestIsVideoURL(t *testing.T) {
	cases := []struct {
		url  string
		want bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ", true},
		{"https://www.youtube.com/v/dQw4w9WgXcQ", true},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", true},
		{"https://www.youtube.com/@example", false},
		{"https://www.youtube.com/channel/UC123", false},
		{"https://example.com/watch?v=abc", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := IsVideoURL(tc.url); got != tc.want {
			t.Errorf("IsVideoURL(%q) = %v, want %v", tc.url, got, tc.want)
		}
	}
}

func TestExtractVideoID(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/@example", ""},
	}

	for _, tc := range cases {
		if got := ExtractVideoID(tc.url); got != tc.want {
			t.Errorf("ExtractVideoID(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}

func TestParseChannelURL(t *testing.T) {
	cases := []struct {
		url        string
		identifier string
		kind       channelURLKind
		ok         bool
	}{
		{"https://www.youtube.com/channel/UCabc123", "UCabc123", channelByID, true},
		{"https://www.youtube.com/c/SomeChannel", "SomeChannel", channelByCustomURL, true},
		{"https://www.youtube.com/user/someuser", "someuser", channelByUsername, true},
		{"https://www.youtube.com/@example", "example", channelByHandle, true},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "", 0, false},
	}

	for _, tc := range cases {
		id, kind, ok := parseChannelURL(tc.url)
		if ok != tc.ok {
			t.Errorf("parseChannelURL(%q) ok = %v, want %v", tc.url, ok, tc.ok)
			continue
		}
		if !ok {
			continue
		}
		if id != tc.identifier || kind != tc.kind {
			t.Errorf("parseChannelURL(%q) = (%q, %d), want (%q, %d)",
				tc.url, id, kind, tc.identifier, tc.kind)
		}
	}
}
