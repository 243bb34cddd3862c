package quota

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/devils-eye/youtube-transcript-downloader/internal/model"
)

// DailyQuota is the default daily unit allowance for the YouTube Data API.
const DailyQuota = 10000

// Cost per API operation, see
// https://developers.google.com/youtube/v3/getting-started#quota
var Costs = map[string]int{
	"search.list":        100,
	"channels.list":      1,
	"playlistItems.list": 1,
	"videos.list":        1,
}

// Tracker is a persistent ledger of YouTube Data API quota usage. Usage
// resets on a rolling 24h window from the last recorded reset.
type Tracker struct {
	mu         sync.Mutex
	db         *sql.DB
	dailyQuota int
	used       int
	lastReset  int64
	now        func() time.Time
}

// Open creates (or reopens) the ledger database under dataDir.
func Open(dataDir string) (*Tracker, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	db, err := sql.Open("sqlite", filepath.Join(dataDir, "quota.db"))
	if err != nil {
		return nil, fmt.Errorf("open quota db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping quota db: %w", err)
	}

	// WAL and a busy timeout keep the single-writer ledger responsive.
	_, _ = db.Exec(`PRAGMA busy_timeout = 5000; PRAGMA journal_mode = WAL;`)

	t := &Tracker{db: db, dailyQuota: DailyQuota, now: time.Now}
	if err := t.init(); err != nil {
		db.Close()
		return nil, err
	}
	return t, nil
}

func (t *Tracker) init() error {
	_, err := t.db.Exec(`
		CREATE TABLE IF NOT EXISTS quota_ledger (
			id         INTEGER PRIMARY KEY CHECK (id = 1),
			used_units INTEGER NOT NULL,
			last_reset INTEGER NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("create quota table: %w", err)
	}

	row := t.db.QueryRow(`SELECT used_units, last_reset FROM quota_ledger WHERE id = 1`)
	switch err := row.Scan(&t.used, &t.lastReset); err {
	case nil:
	case sql.ErrNoRows:
		t.used = 0
		t.lastReset = t.now().Unix()
		if _, err := t.db.Exec(
			`INSERT INTO quota_ledger (id, used_units, last_reset) VALUES (1, 0, ?)`,
			t.lastReset,
		); err != nil {
			return fmt.Errorf("seed quota ledger: %w", err)
		}
	default:
		return fmt.Errorf("load quota ledger: %w", err)
	}
	return nil
}

// Record charges the cost of one API operation against the ledger.
// Unknown operations cost 1 unit.
func (t *Tracker) Record(operation string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.resetIfDue()

	cost, ok := Costs[operation]
	if !ok {
		cost = 1
	}
	t.used += cost

	return t.persist()
}

// Info returns the current quota snapshot, applying a reset if one is due.
func (t *Tracker) Info() model.QuotaInfo {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.resetIfDue() {
		if err := t.persist(); err != nil {
			// Reset still applies in memory; persistence retries on next write.
			_ = err
		}
	}

	remaining := t.dailyQuota - t.used
	if remaining < 0 {
		remaining = 0
	}

	untilReset := int(24*time.Hour/time.Second) - int(t.now().Unix()-t.lastReset)
	if untilReset < 0 {
		untilReset = 0
	}

	var pct float64
	if t.dailyQuota > 0 {
		pct = float64(t.used) / float64(t.dailyQuota) * 100
	}

	return model.QuotaInfo{
		DailyQuota:        t.dailyQuota,
		UsedQuota:         t.used,
		RemainingQuota:    remaining,
		QuotaUsagePercent: pct,
		HoursUntilReset:   untilReset / 3600,
		MinutesUntilReset: (untilReset % 3600) / 60,
		ResetTimeSeconds:  untilReset,
	}
}

// Used returns the units consumed in the current window.
func (t *Tracker) Used() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetIfDue()
	return t.used
}

// Ping verifies the ledger database is reachable.
func (t *Tracker) Ping(ctx context.Context) error {
	return t.db.PingContext(ctx)
}

// Close releases the underlying database.
func (t *Tracker) Close() error {
	return t.db.Close()
}

// resetIfDue zeroes the ledger when 24h have passed since the last reset.
// Caller must hold the mutex.
func (t *Tracker) resetIfDue() bool {
	if t.now().Unix()-t.lastReset < int64(24*time.Hour/time.Second) {
		return false
	}
	t.used = 0
	t.lastReset = t.now().Unix()
	return true
}

func (t *Tracker) persist() error {
	_, err := t.db.Exec(
		`UPDATE quota_ledger SET used_units = ?, last_reset = ? WHERE id = 1`,
		t.used, t.lastReset,
	)
	if err != nil {
		return fmt.Errorf("persist quota ledger: %w", err)
	}
	return nil
}
