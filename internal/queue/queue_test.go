package queue

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/anonrelay/backend/internal/models"
	"github.com/anonrelay/backend/internal/repository"
)

func newTestQueue(ceiling, quota, retentionDays int) *Queue {
	return New(repository.NewMemoryItemStore(), ceiling, quota, retentionDays)
}

func TestSubmitAndListFIFO(t *testing.T) {
	q := newTestQueue(100, 10, 7)

	base := time.Now()
	step := 0
	q.now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Second)
	}

	first, err := q.Submit(1, "User #1", models.ContentPhoto, "ref-a", "")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	second, err := q.Submit(2, "User #2", models.ContentVideo, "ref-b", "a caption")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	items, err := q.ListPending()
	if err != nil {
		t.Fatalf("ListPending failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 pending items, got %d", len(items))
	}
	if items[0].ID != first.ID || items[1].ID != second.ID {
		t.Error("Pending items not in submission order")
	}
}

func TestSubmitInvalidKind(t *testing.T) {
	q := newTestQueue(100, 10, 7)

	_, err := q.Submit(1, "User #1", models.ContentKind("hologram"), "", "")
	if !errors.Is(err, models.ErrInvalidKind) {
		t.Errorf("Expected ErrInvalidKind, got %v", err)
	}
}

func TestQueueCeiling(t *testing.T) {
	q := newTestQueue(3, 10, 7)

	for i := 0; i < 3; i++ {
		if _, err := q.Submit(int64(i+1), "User", models.ContentPhoto, "ref", ""); err != nil {
			t.Fatalf("Submit %d failed: %v", i, err)
		}
	}

	_, err := q.Submit(99, "User", models.ContentPhoto, "ref", "")
	if !errors.Is(err, models.ErrQueueFull) {
		t.Errorf("Expected ErrQueueFull, got %v", err)
	}
}

func TestCapacityFreedByDecision(t *testing.T) {
	q := newTestQueue(2, 10, 7)

	item, err := q.Submit(1, "User", models.ContentPhoto, "ref", "")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if _, err := q.Submit(2, "User", models.ContentPhoto, "ref", ""); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if _, err := q.Submit(3, "User", models.ContentPhoto, "ref", ""); !errors.Is(err, models.ErrQueueFull) {
		t.Fatalf("Expected ErrQueueFull, got %v", err)
	}

	if _, err := q.Decide(item.ID, true, 500); err != nil {
		t.Fatalf("Decide failed: %v", err)
	}

	if _, err := q.Submit(3, "User", models.ContentPhoto, "ref", ""); err != nil {
		t.Errorf("Expected submission to succeed after a decision freed capacity, got %v", err)
	}
}

func TestSubmitterQuota(t *testing.T) {
	q := newTestQueue(100, 5, 7)

	for i := 0; i < 5; i++ {
		if _, err := q.Submit(7, "User #7", models.ContentPhoto, "ref", ""); err != nil {
			t.Fatalf("Submit %d failed: %v", i, err)
		}
	}

	_, err := q.Submit(7, "User #7", models.ContentPhoto, "ref", "")
	if !errors.Is(err, models.ErrSubmitterQuota) {
		t.Errorf("Expected ErrSubmitterQuota, got %v", err)
	}

	// Other submitters are unaffected
	if _, err := q.Submit(8, "User #8", models.ContentPhoto, "ref", ""); err != nil {
		t.Errorf("Expected other submitter to succeed, got %v", err)
	}
}

func TestDecideIsOneWay(t *testing.T) {
	q := newTestQueue(100, 10, 7)

	item, err := q.Submit(1, "User", models.ContentPhoto, "ref", "")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	decided, err := q.Decide(item.ID, true, 500)
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if decided.Decision != models.DecisionApproved {
		t.Errorf("Expected approved, got %s", decided.Decision)
	}
	if decided.DecidedBy == nil || *decided.DecidedBy != 500 {
		t.Error("Expected DecidedBy to record the admin")
	}

	if _, err := q.Decide(item.ID, false, 501); !errors.Is(err, models.ErrAlreadyDecided) {
		t.Errorf("Expected ErrAlreadyDecided, got %v", err)
	}
}

func TestDecideUnknownItem(t *testing.T) {
	q := newTestQueue(100, 10, 7)

	_, err := q.Decide(uuid.New(), true, 500)
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestConcurrentDecideExactlyOneWins(t *testing.T) {
	q := newTestQueue(100, 10, 7)

	item, err := q.Submit(1, "User", models.ContentPhoto, "ref", "")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	const racers = 16
	var wg sync.WaitGroup
	results := make(chan error, racers)

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(approve bool) {
			defer wg.Done()
			_, err := q.Decide(item.ID, approve, 500)
			results <- err
		}(i%2 == 0)
	}
	wg.Wait()
	close(results)

	wins := 0
	for err := range results {
		if err == nil {
			wins++
		} else if !errors.Is(err, models.ErrAlreadyDecided) {
			t.Errorf("Unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Errorf("Expected exactly one decision to win, got %d", wins)
	}
}

func TestPurgeKeepsOldUndecided(t *testing.T) {
	q := newTestQueue(100, 10, 7)

	past := time.Now().Add(-10 * 24 * time.Hour)
	q.now = func() time.Time { return past }

	old, err := q.Submit(1, "User", models.ContentPhoto, "ref-old", "")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	decided, err := q.Submit(2, "User", models.ContentPhoto, "ref-decided", "")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if _, err := q.Decide(decided.ID, false, 500); err != nil {
		t.Fatalf("Decide failed: %v", err)
	}

	q.now = time.Now
	purged, err := q.PurgeStale()
	if err != nil {
		t.Fatalf("PurgeStale failed: %v", err)
	}
	if purged != 1 {
		t.Errorf("Expected 1 purged item, got %d", purged)
	}

	items, err := q.ListPending()
	if err != nil {
		t.Fatalf("ListPending failed: %v", err)
	}
	if len(items) != 1 || items[0].ID != old.ID {
		t.Error("Old undecided item must survive the purge")
	}
}

func TestDecideAll(t *testing.T) {
	q := newTestQueue(100, 10, 7)

	for i := 0; i < 4; i++ {
		if _, err := q.Submit(int64(i+1), "User", models.ContentPhoto, "ref", ""); err != nil {
			t.Fatalf("Submit %d failed: %v", i, err)
		}
	}

	decided, err := q.DecideAll(false, 500)
	if err != nil {
		t.Fatalf("DecideAll failed: %v", err)
	}
	if len(decided) != 4 {
		t.Fatalf("Expected 4 decided items, got %d", len(decided))
	}
	for _, item := range decided {
		if item.Decision != models.DecisionRejected {
			t.Errorf("Expected rejected, got %s", item.Decision)
		}
	}

	items, err := q.ListPending()
	if err != nil {
		t.Fatalf("ListPending failed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("Expected empty backlog, got %d items", len(items))
	}
}

func TestStats(t *testing.T) {
	q := newTestQueue(100, 10, 7)

	a, _ := q.Submit(1, "User", models.ContentPhoto, "ref", "")
	b, _ := q.Submit(2, "User", models.ContentText, "", "hello")
	q.Submit(3, "User", models.ContentPhoto, "ref", "")

	q.Decide(a.ID, true, 500)
	q.Decide(b.ID, false, 500)

	stats, err := q.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Total != 3 || stats.Pending != 1 || stats.Approved != 1 || stats.Rejected != 1 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
	if stats.ByKind[models.ContentPhoto] != 2 {
		t.Errorf("Expected 2 photo items, got %d", stats.ByKind[models.ContentPhoto])
	}
	if stats.OldestPending == nil {
		t.Error("Expected OldestPending to be set")
	}
}
