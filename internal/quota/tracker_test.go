package quota

import (
	"testing"
	"time"
)

func newTestTracker(t *testing.T) *Tracker {
	t.Helper()
	tr, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open tracker: %v", err)
	}
	t.Cleanup(func() { tr.Close() })
	return tr
}

func TestRecord_KnownCosts(t *testing.T) {
	tr := newTestTracker(t)

	ops := []string{"channels.list", "playlistItems.list", "search.list", "videos.list"}
	for _, op := range ops {
		if err := tr.Record(op); err != nil {
			t.Fatalf("record %s: %v", op, err)
		}
	}

	// 1 + 1 + 100 + 1
	if got := tr.Used(); got != 103 {
		t.Errorf("used = %d, want 103", got)
	}
}

func TestRecord_UnknownOpCostsOne(t *testing.T) {
	tr := newTestTracker(t)
	if err := tr.Record("captions.list"); err != nil {
		t.Fatalf("record: %v", err)
	}
	if got := tr.Used(); got != 1 {
		t.Errorf("used = %d, want 1", got)
	}
}

func TestInfo_RemainingAndPercent(t *testing.T) {
	tr := newTestTracker(t)
	for i := 0; i < 5; i++ {
		if err := tr.Record("search.list"); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	info := tr.Info()
	if info.UsedQuota != 500 {
		t.Errorf("used = %d, want 500", info.UsedQuota)
	}
	if info.RemainingQuota != 9500 {
		t.Errorf("remaining = %d, want 9500", info.RemainingQuota)
	}
	if info.QuotaUsagePercent != 5.0 {
		t.Errorf("percent = %.2f, want 5.00", info.QuotaUsagePercent)
	}
	if info.HoursUntilReset > 23 {
		t.Errorf("hours until reset = %d, want <= 23", info.HoursUntilReset)
	}
}

func TestInfo_RemainingNeverNegative(t *testing.T) {
	tr := newTestTracker(t)
	// 101 searches exceed the 10000 daily units.
	for i := 0; i < 101; i++ {
		if err := tr.Record("search.list"); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	info := tr.Info()
	if info.RemainingQuota != 0 {
		t.Errorf("remaining = %d, want 0", info.RemainingQuota)
	}
	if info.UsedQuota != 10100 {
		t.Errorf("used = %d, want 10100", info.UsedQuota)
	}
}

func TestReset_After24Hours(t *testing.T) {
	tr := newTestTracker(t)
	if err := tr.Record("search.list"); err != nil {
		t.Fatalf("record: %v", err)
	}

	// Shift the clock one day and a minute forward.
	base := time.Now()
	tr.now = func() time.Time { return base.Add(24*time.Hour + time.Minute) }

	info := tr.Info()
	if info.UsedQuota != 0 {
		t.Errorf("used after reset = %d, want 0", info.UsedQuota)
	}
}

func TestPersistence_AcrossReopen(t *testing.T) {
	dir := t.TempDir()
	tr, err := Open(dir)
	if err != nil {
		t.Fatalf("open tracker: %v", err)
	}
	if err := tr.Record("search.list"); err != nil {
		t.Fatalf("record: %v", err)
	}
	tr.Close()

	tr2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen tracker: %v", err)
	}
	defer tr2.Close()

	if got := tr2.Used(); got != 100 {
		t.Errorf("used after reopen = %d, want 100", got)
	}
}
