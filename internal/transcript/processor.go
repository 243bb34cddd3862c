package transcript

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/devils-eye/youtube-transcript-downloader/internal/model"
)

// Output styles for channel exports.
const (
	StyleIndividual = "individual"
	StyleCombined   = "combined"
	StyleBoth       = "both"
)

// Output split strategies.
const (
	TypeTokenLimit = "token_limit"
	TypeFileLimit  = "file_limit"
	TypeBoth       = "both"
)

// maxTokensPerFile caps any combined file regardless of the user's limit.
// The all-in-one channel file is exempt.
const maxTokensPerFile = 150000

// Options configures one export job.
type Options struct {
	Language            string
	OutputType          string
	LimitValue          int
	FilterHasTranscript bool
	OutputDir           string
	OutputStyle         string
	TokenLimit          int
	FileLimit           int
	IsSingleVideo       bool
}

// ProgressFunc reports job progress: current step, total steps, status text.
type ProgressFunc func(current, total int, status string)

// entry is one downloaded transcript staged for file generation.
type entry struct {
	VideoID    string
	Title      string
	Text       string
	TokenCount int
}

// Processor turns a video list into transcript files on disk.
type Processor struct {
	fetcher *Fetcher
}

// NewProcessor creates a Processor over the given fetcher.
func NewProcessor(fetcher *Fetcher) *Processor {
	return &Processor{fetcher: fetcher}
}

// Process downloads and exports transcripts for the given videos.
// Cancellation is observed through ctx between videos and between file
// generation phases; a cancelled run returns the partial result with
// Cancelled set rather than an error.
func (p *Processor) Process(ctx context.Context, videos []model.Video, opts Options, progress ProgressFunc) (*model.ProcessingResult, error) {
	if progress == nil {
		progress = func(int, int, string) {}
	}

	result := &model.ProcessingResult{
		Successful:  []model.VideoRef{},
		Failed:      []model.FailedVideo{},
		Warnings:    []string{},
		OutputFiles: []model.OutputFile{},
	}

	outputDir, err := p.resolveOutputDir(videos, opts)
	if err != nil {
		return nil, err
	}

	total := len(videos)
	progress(0, total, "Checking for transcripts...")

	if opts.FilterHasTranscript {
		var withTranscripts []model.Video
		for i, v := range videos {
			if cancelled(ctx) {
				result.Cancelled = true
				progress(i, total, "Operation cancelled")
				return result, nil
			}
			langs, _, err := p.fetcher.Languages(ctx, v.ID)
			if err != nil {
				log.Printf("processor: language check for %s: %v", v.ID, err)
			}
			for _, l := range langs {
				if l.Code == opts.Language {
					withTranscripts = append(withTranscripts, v)
					break
				}
			}
			progress(i+1, total, fmt.Sprintf("Checking transcripts (%d/%d)...", i+1, total))
		}
		videos = withTranscripts
		total = len(videos)
		progress(0, total, "Starting transcript download...")
	}

	var entries []entry
	for i, v := range videos {
		if cancelled(ctx) {
			result.Cancelled = true
			progress(i, total, "Operation cancelled")
			return result, nil
		}
		progress(i, total, fmt.Sprintf("Processing video %d of %d: %s", i+1, total, v.Title))

		text, err := p.fetcher.Transcript(ctx, v.ID, opts.Language)
		if err != nil || text == "" {
			result.Failed = append(result.Failed, model.FailedVideo{
				ID: v.ID, Title: v.Title, Reason: "Transcript not available",
			})
			continue
		}

		entries = append(entries, entry{
			VideoID:    v.ID,
			Title:      v.Title,
			Text:       text,
			TokenCount: estimateTokens(text),
		})
		result.Successful = append(result.Successful, model.VideoRef{ID: v.ID, Title: v.Title})
	}

	if cancelled(ctx) {
		result.Cancelled = true
		progress(total, total, "Operation cancelled")
		return result, nil
	}

	progress(total, total, "Processing transcripts into files...")

	if opts.IsSingleVideo {
		progress(total, total, "Creating transcript file...")
		if len(entries) > 0 {
			file, err := writeIndividual(entries[0], outputDir)
			if err != nil {
				return nil, err
			}
			result.OutputFiles = append(result.OutputFiles, file)
		}
		progress(total, total, "Processing complete!")
		return result, nil
	}

	if opts.OutputStyle == StyleIndividual || opts.OutputStyle == StyleBoth {
		progress(total, total, "Creating individual files...")
		for _, e := range entries {
			file, err := writeIndividual(e, outputDir)
			if err != nil {
				return nil, err
			}
			result.OutputFiles = append(result.OutputFiles, file)
		}
	}

	if cancelled(ctx) {
		result.Cancelled = true
		return result, nil
	}

	// Channels always get one combined file with everything.
	progress(total, total, "Creating combined file with all transcripts...")
	if all, err := writeAllInOne(entries, outputDir); err != nil {
		return nil, err
	} else if all != nil {
		result.OutputFiles = append(result.OutputFiles, *all)
	}

	if opts.OutputStyle == StyleCombined || opts.OutputStyle == StyleBoth {
		if cancelled(ctx) {
			result.Cancelled = true
			return result, nil
		}
		files, warnings, err := p.writeCombined(ctx, entries, opts, outputDir, progress, total)
		if err != nil {
			return nil, err
		}
		result.OutputFiles = append(result.OutputFiles, files...)
		result.Warnings = append(result.Warnings, warnings...)
	}

	progress(total, total, "Processing complete!")
	return result, nil
}

func (p *Processor) writeCombined(ctx context.Context, entries []entry, opts Options, dir string, progress ProgressFunc, total int) ([]model.OutputFile, []string, error) {
	switch opts.OutputType {
	case TypeFileLimit:
		progress(total, total, "Creating file-limited output...")
		files, err := chunkByFileLimit(entries, opts.LimitValue, dir)
		return files, nil, err

	case TypeBoth:
		if opts.TokenLimit > 0 && opts.FileLimit > 0 {
			progress(total, total, "Processing with both token and file limits...")
			return chunkByBothLimits(ctx, entries, opts.TokenLimit, opts.FileLimit, dir)
		}
		// Missing one of the pair: fall back to the plain token limit.
		progress(total, total, "Creating token-limited files (default)...")
		files, err := chunkByTokenLimit(entries, opts.LimitValue, dir, 1)
		return files, nil, err

	default: // TypeTokenLimit
		progress(total, total, "Creating token-limited files...")
		files, err := chunkByTokenLimit(entries, opts.LimitValue, dir, 1)
		return files, nil, err
	}
}

// resolveOutputDir builds (and creates) the directory exports land in. For
// channels a subdirectory named after the channel keeps runs separated.
func (p *Processor) resolveOutputDir(videos []model.Video, opts Options) (string, error) {
	dir := opts.OutputDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	if !opts.IsSingleVideo && len(videos) > 0 {
		channelName := videos[0].ChannelTitle
		if channelName == "" {
			channelName = "channel"
		}
		dir = filepath.Join(dir, safeName(channelName, 50))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create channel dir: %w", err)
		}
	}
	return dir, nil
}

func cancelled(ctx context.Context) bool {
	return ctx.Err() != nil
}

// estimateTokens approximates the token count of a transcript.
// Roughly four characters per token on average.
func estimateTokens(text string) int {
	return len(text) / 4
}

// safeName strips characters unsafe for filenames and truncates.
func safeName(name string, maxLen int) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == ' ', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	s := strings.TrimSpace(b.String())
	if len(s) > maxLen {
		s = s[:maxLen]
	}
	return s
}

func header(e entry) string {
	return fmt.Sprintf("### VIDEO: %s (ID: %s)\n\n", e.Title, e.VideoID)
}

func writeIndividual(e entry, dir string) (model.OutputFile, error) {
	name := fmt.Sprintf("%s_%s.txt", safeName(e.Title, 100), e.VideoID)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(header(e)+e.Text), 0o644); err != nil {
		return model.OutputFile{}, fmt.Errorf("write %s: %w", path, err)
	}
	return model.OutputFile{
		FilePath:   path,
		Videos:     []model.VideoRef{{ID: e.VideoID, Title: e.Title}},
		TokenCount: e.TokenCount,
	}, nil
}

func writeAllInOne(entries []entry, dir string) (*model.OutputFile, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	path := filepath.Join(dir, "all_transcripts.txt")

	var content strings.Builder
	var refs []model.VideoRef
	tokens := 0
	for _, e := range entries {
		refs = append(refs, model.VideoRef{ID: e.VideoID, Title: e.Title})
		content.WriteString("\n\n")
		content.WriteString(header(e))
		content.WriteString(e.Text)
		tokens += e.TokenCount
	}

	if err := os.WriteFile(path, []byte(content.String()), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	return &model.OutputFile{FilePath: path, Videos: refs, TokenCount: tokens}, nil
}

// chunkByTokenLimit packs transcripts into combined_part_N.txt files without
// exceeding the token limit per file. A single transcript bigger than the
// limit gets its own large_video_<id>.txt.
func chunkByTokenLimit(entries []entry, tokenLimit int, dir string, startIndex int) ([]model.OutputFile, error) {
	limit := tokenLimit
	if limit > maxTokensPerFile || limit <= 0 {
		limit = maxTokensPerFile
	}

	var files []model.OutputFile
	fileIndex := startIndex

	var curRefs []model.VideoRef
	var curContent strings.Builder
	curTokens := 0

	flush := func() error {
		if len(curRefs) == 0 {
			return nil
		}
		path := filepath.Join(dir, fmt.Sprintf("combined_part_%d.txt", fileIndex))
		if err := os.WriteFile(path, []byte(curContent.String()), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		files = append(files, model.OutputFile{FilePath: path, Videos: curRefs, TokenCount: curTokens})
		fileIndex++
		curRefs = nil
		curContent.Reset()
		curTokens = 0
		return nil
	}

	for _, e := range entries {
		if e.TokenCount > limit {
			if err := flush(); err != nil {
				return nil, err
			}
			path := filepath.Join(dir, fmt.Sprintf("large_video_%s.txt", e.VideoID))
			if err := os.WriteFile(path, []byte(header(e)+e.Text), 0o644); err != nil {
				return nil, fmt.Errorf("write %s: %w", path, err)
			}
			files = append(files, model.OutputFile{
				FilePath:   path,
				Videos:     []model.VideoRef{{ID: e.VideoID, Title: e.Title}},
				TokenCount: e.TokenCount,
			})
			continue
		}

		if curTokens+e.TokenCount > limit {
			if err := flush(); err != nil {
				return nil, err
			}
		}

		curRefs = append(curRefs, model.VideoRef{ID: e.VideoID, Title: e.Title})
		curContent.WriteString("\n\n")
		curContent.WriteString(header(e))
		curContent.WriteString(e.Text)
		curTokens += e.TokenCount
	}

	if err := flush(); err != nil {
		return nil, err
	}
	return files, nil
}

// chunkByFileLimit distributes transcripts into at most fileLimit files.
// Large transcripts become their own group; small ones are packed together,
// then the smallest groups are merged until the count fits.
func chunkByFileLimit(entries []entry, fileLimit int, dir string) ([]model.OutputFile, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	if fileLimit <= 0 {
		fileLimit = 1
	}

	type group struct {
		entries []entry
		tokens  int
	}

	sorted := make([]entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TokenCount > sorted[j].TokenCount
	})

	var groups []group
	var cur group
	for _, e := range sorted {
		if e.TokenCount > 10000 || cur.tokens+e.TokenCount > maxTokensPerFile {
			if len(cur.entries) > 0 {
				groups = append(groups, cur)
				cur = group{}
			}
			if e.TokenCount > 0 {
				groups = append(groups, group{entries: []entry{e}, tokens: e.TokenCount})
			}
			continue
		}
		cur.entries = append(cur.entries, e)
		cur.tokens += e.TokenCount
	}
	if len(cur.entries) > 0 {
		groups = append(groups, cur)
	}

	// Merge smallest groups until within the file limit.
	for len(groups) > fileLimit && len(groups) >= 2 {
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].tokens < groups[j].tokens })
		a, b := groups[0], groups[1]
		groups = groups[2:]
		if a.tokens+b.tokens <= maxTokensPerFile {
			groups = append(groups, group{
				entries: append(append([]entry{}, a.entries...), b.entries...),
				tokens:  a.tokens + b.tokens,
			})
		} else {
			// Cannot merge without blowing the token cap; keep the larger.
			groups = append(groups, b)
		}
	}

	var files []model.OutputFile
	for i, g := range groups {
		path := filepath.Join(dir, fmt.Sprintf("combined_part_%d.txt", i+1))

		var content strings.Builder
		var refs []model.VideoRef
		tokens := 0
		for _, e := range g.entries {
			refs = append(refs, model.VideoRef{ID: e.VideoID, Title: e.Title})
			content.WriteString("\n\n")
			content.WriteString(header(e))
			content.WriteString(e.Text)
			tokens += e.TokenCount
		}

		if err := os.WriteFile(path, []byte(content.String()), 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		files = append(files, model.OutputFile{FilePath: path, Videos: refs, TokenCount: tokens})
	}
	return files, nil
}

// chunkByBothLimits honors a token limit per file and a total file count.
// Content that cannot fit both constraints is merged into excess_content.txt
// and reported as a warning.
func chunkByBothLimits(ctx context.Context, entries []entry, tokenLimit, fileLimit int, dir string) ([]model.OutputFile, []string, error) {
	if len(entries) == 0 {
		return nil, nil, nil
	}

	perFile := len(entries) / fileLimit
	if perFile < 1 {
		perFile = 1
	}

	var files []model.OutputFile
	var warnings []string

	for i := 0; i < len(entries); i += perFile {
		if cancelled(ctx) {
			return files, warnings, nil
		}

		end := i + perFile
		if end > len(entries) {
			end = len(entries)
		}
		batch := entries[i:end]

		batchTokens := 0
		for _, e := range batch {
			batchTokens += e.TokenCount
		}

		if batchTokens > tokenLimit {
			chunked, err := chunkByTokenLimit(batch, tokenLimit, dir, i/perFile+1)
			if err != nil {
				return nil, nil, err
			}
			files = append(files, chunked...)

			if len(files) > fileLimit {
				excessFiles := files[fileLimit:]
				files = files[:fileLimit]

				excess, err := combineExcess(excessFiles, dir)
				if err != nil {
					return nil, nil, err
				}
				warnings = append(warnings, fmt.Sprintf(
					"Content exceeded both token and file limits. Excess content saved to %s",
					excess.FilePath))
				files = append(files, *excess)
				break
			}
			continue
		}

		path := filepath.Join(dir, fmt.Sprintf("combined_part_%d.txt", i/perFile+1))

		var content strings.Builder
		var refs []model.VideoRef
		for _, e := range batch {
			refs = append(refs, model.VideoRef{ID: e.VideoID, Title: e.Title})
			content.WriteString("\n\n")
			content.WriteString(header(e))
			content.WriteString(e.Text)
		}
		if err := os.WriteFile(path, []byte(content.String()), 0o644); err != nil {
			return nil, nil, fmt.Errorf("write %s: %w", path, err)
		}
		files = append(files, model.OutputFile{FilePath: path, Videos: refs, TokenCount: batchTokens})
	}

	return files, warnings, nil
}

// combineExcess folds overflow files into a single excess_content.txt and
// removes the originals.
func combineExcess(excess []model.OutputFile, dir string) (*model.OutputFile, error) {
	path := filepath.Join(dir, "excess_content.txt")

	var content strings.Builder
	var refs []model.VideoRef
	tokens := 0

	for _, f := range excess {
		refs = append(refs, f.Videos...)
		data, err := os.ReadFile(f.FilePath)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.FilePath, err)
		}
		content.Write(data)
		content.WriteString("\n\n")
		tokens += f.TokenCount

		if err := os.Remove(f.FilePath); err != nil {
			log.Printf("processor: remove %s: %v", f.FilePath, err)
		}
	}

	if err := os.WriteFile(path, []byte(content.String()), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	return &model.OutputFile{FilePath: path, Videos: refs, TokenCount: tokens}, nil
}
