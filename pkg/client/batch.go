package client

import (
	"context"
	"sync"

	"github.com/devils-eye/youtube-transcript-downloader/internal/model"
)

// batchSize is how many language lookups run concurrently per group.
const batchSize = 5

// LookupFunc fetches the transcript languages for one video.
type LookupFunc func(ctx context.Context, videoID string) ([]model.LanguageOption, error)

// BatchChecker looks up transcript languages for many videos in fixed-size
// concurrent groups. Groups run strictly sequentially; within a group the
// lookups run concurrently. Results are memoized by video id, and a failed
// lookup is recorded as an empty list rather than aborting the batch.
type BatchChecker struct {
	lookup LookupFunc

	mu      sync.Mutex
	results map[string][]model.LanguageOption
	running bool

	// onGroup, when set, is called with a snapshot of the result map after
	// each group settles.
	onGroup func(map[string][]model.LanguageOption)
}

// NewBatchChecker creates a BatchChecker over the given lookup. Passing a
// Client's Languages method is the usual case.
func NewBatchChecker(lookup LookupFunc) *BatchChecker {
	return &BatchChecker{
		lookup:  lookup,
		results: make(map[string][]model.LanguageOption),
	}
}

// OnGroup registers a callback receiving a snapshot of all results after
// each group settles. Call before Run.
func (b *BatchChecker) OnGroup(fn func(map[string][]model.LanguageOption)) {
	b.onGroup = fn
}

// Run checks all not-yet-checked videos in groups. It returns immediately
// without doing anything if a run is already in progress. Already-checked
// ids are skipped.
func (b *BatchChecker) Run(ctx context.Context, videoIDs []string) {
	b.mu.Lock()
	if b.running {
		b.mu.Unlock()
		return
	}
	b.running = true

	var pending []string
	seen := make(map[string]struct{}, len(videoIDs))
	for _, id := range videoIDs {
		if _, ok := b.results[id]; ok {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		pending = append(pending, id)
	}
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		b.running = false
		b.mu.Unlock()
	}()

	for start := 0; start < len(pending); start += batchSize {
		if ctx.Err() != nil {
			return
		}

		end := start + batchSize
		if end > len(pending) {
			end = len(pending)
		}
		group := pending[start:end]

		var wg sync.WaitGroup
		for _, id := range group {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				langs, err := b.lookup(ctx, id)
				if err != nil || langs == nil {
					langs = []model.LanguageOption{}
				}
				b.mu.Lock()
				b.results[id] = langs
				b.mu.Unlock()
			}(id)
		}
		wg.Wait()

		if b.onGroup != nil {
			b.onGroup(b.Results())
		}
	}
}

// Results returns a copy of all memoized lookups so far.
func (b *BatchChecker) Results() map[string][]model.LanguageOption {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make(map[string][]model.LanguageOption, len(b.results))
	for id, langs := range b.results {
		out[id] = langs
	}
	return out
}

// Checked reports whether a video's languages have already been looked up.
func (b *BatchChecker) Checked(videoID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.results[videoID]
	return ok
}

// Languages returns the memoized languages for one video, if checked.
func (b *BatchChecker) Languages(videoID string) ([]model.LanguageOption, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	langs, ok := b.results[videoID]
	return langs, ok
}
