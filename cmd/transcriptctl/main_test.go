package main

import (
	"testing"

	"github.com/devils-eye/youtube-transcript-downloader/internal/model"
)

func TestSelectVideos(t *testing.T) {
	videos := []model.Video{
		{ID: "vid1", Title: "First"},
		{ID: "vid2", Title: "Second"},
		{ID: "vid3", Title: "Third"},
	}

	tests := []struct {
		name string
		csv  string
		want []string
	}{
		{"empty selection means all", "", []string{"vid1", "vid2", "vid3"}},
		{"subset keeps list order", "vid3,vid1", []string{"vid1", "vid3"}},
		{"unknown ids are ignored", "vid2,nope", []string{"vid2"}},
		{"duplicates select once", "vid1,vid1,vid1", []string{"vid1"}},
		{"whitespace is trimmed", " vid1 , vid2 ", []string{"vid1", "vid2"}},
		{"only unknown ids selects nothing", "nope", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := selectVideos(videos, tt.csv)
			if len(got) != len(tt.want) {
				t.Fatalf("selected %d videos, want %d", len(got), len(tt.want))
			}
			for i, v := range got {
				if v.ID != tt.want[i] {
					t.Errorf("selected[%d] = %s, want %s", i, v.ID, tt.want[i])
				}
			}
		})
	}
}
