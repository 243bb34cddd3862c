package handler

import (
	"path/filepath"
	"testing"

	"github.com/devils-eye/youtube-transcript-downloader/internal/model"
	"github.com/devils-eye/youtube-transcript-downloader/internal/transcript"
)

func TestJobOptions_OutputDirJoinedUnderBase(t *testing.T) {
	base := filepath.Join("/home", "user", "Downloads")

	tests := []struct {
		name      string
		outputDir string
		want      string
	}{
		{"omitted dir uses base", "", base},
		{"custom dir is a subdirectory of base", "myrun", filepath.Join(base, "myrun")},
		{"nested custom dir stays under base", "runs/today", filepath.Join(base, "runs", "today")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := jobOptions(model.ProcessRequest{OutputDir: tt.outputDir}, base)
			if opts.OutputDir != tt.want {
				t.Errorf("OutputDir = %q, want %q", opts.OutputDir, tt.want)
			}
		})
	}
}

func TestJobOptions_LimitValueDefault(t *testing.T) {
	opts := jobOptions(model.ProcessRequest{}, "/out")
	if opts.LimitValue != 4000 {
		t.Errorf("omitted limitValue = %d, want 4000", opts.LimitValue)
	}

	opts = jobOptions(model.ProcessRequest{LimitValue: 250}, "/out")
	if opts.LimitValue != 250 {
		t.Errorf("explicit limitValue = %d, want 250", opts.LimitValue)
	}
}

func TestJobOptions_StyleDefault(t *testing.T) {
	opts := jobOptions(model.ProcessRequest{}, "/out")
	if opts.OutputStyle != transcript.StyleBoth {
		t.Errorf("omitted outputStyle = %q, want %q", opts.OutputStyle, transcript.StyleBoth)
	}
}

func TestJobOptions_SingleVideoDetection(t *testing.T) {
	opts := jobOptions(model.ProcessRequest{IsVideoURL: true}, "/out")
	if !opts.IsSingleVideo {
		t.Error("isVideoUrl request should run as a single video")
	}

	opts = jobOptions(model.ProcessRequest{
		Videos: []model.Video{{ID: "vid1", IsFromVideoURL: true}},
	}, "/out")
	if !opts.IsSingleVideo {
		t.Error("one video resolved from a video URL should run as a single video")
	}

	opts = jobOptions(model.ProcessRequest{
		Videos: []model.Video{{ID: "vid1"}, {ID: "vid2"}},
	}, "/out")
	if opts.IsSingleVideo {
		t.Error("a channel video list should not run as a single video")
	}
}
