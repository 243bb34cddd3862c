package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/devils-eye/youtube-transcript-downloader/internal/model"
)

// LanguageCacheTTL keeps language lists for a week; caption availability
// changes rarely once a video is published.
const LanguageCacheTTL = 7 * 24 * time.Hour

// Cache is a Redis cache-aside layer for per-video language lists.
type Cache struct {
	rdb *redis.Client
}

// NewCache creates a Cache. If redisURL is empty or the connection fails,
// it returns a Cache with a nil client (cache operations become no-ops).
func NewCache(redisURL string) *Cache {
	if redisURL == "" {
		log.Println("redis: no URL configured, language caching disabled")
		return &Cache{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("redis: invalid URL %q, language caching disabled: %v", redisURL, err)
		return &Cache{}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("redis: connection failed, language caching disabled: %v", err)
		return &Cache{}
	}

	log.Println("redis: connected, language caching enabled")
	return &Cache{rdb: rdb}
}

// Client returns the underlying Redis client (for health checks). May be nil.
func (c *Cache) Client() *redis.Client {
	return c.rdb
}

// GetLanguages returns a cached language list and whether it was present.
func (c *Cache) GetLanguages(ctx context.Context, videoID string) ([]model.LanguageOption, bool) {
	if c.rdb == nil {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, languagesKey(videoID)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("cache: languages get error: %v", err)
		return nil, false
	}

	var langs []model.LanguageOption
	if err := json.Unmarshal(data, &langs); err != nil {
		return nil, false
	}
	return langs, true
}

// SetLanguages stores a language list. An empty list is cached too: "no
// transcripts" is an answer worth remembering.
func (c *Cache) SetLanguages(ctx context.Context, videoID string, langs []model.LanguageOption) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(langs)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, languagesKey(videoID), b, LanguageCacheTTL).Err()
}

// Close shuts down the Redis connection.
func (c *Cache) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func languagesKey(videoID string) string {
	return fmt.Sprintf("languages:%s", videoID)
}
