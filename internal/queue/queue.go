package queue

import (
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/anonrelay/backend/internal/models"
)

// ItemStore is the storage contract for moderation items. The store is the
// linearization point: capacity checks, the insert and the one-way decision
// transition are each atomic at the storage layer.
type ItemStore interface {
	InsertPending(item *models.ModerationItem, ceiling, perSubmitter int) error
	Decide(id uuid.UUID, approve bool, adminID int64, at time.Time) (*models.ModerationItem, error)
	ListPending() ([]models.ModerationItem, error)
	PurgeDecidedBefore(cutoff time.Time) (int64, error)
	DecideAllPending(approve bool, adminID int64, at time.Time) ([]models.ModerationItem, error)
	Stats() (models.QueueStats, error)
}

// Queue holds items awaiting a human decision and enforces the backpressure
// policy: a global pending ceiling protects reviewer load, a per-submitter
// quota keeps one user from monopolizing the queue.
type Queue struct {
	store     ItemStore
	ceiling   int
	quota     int
	retention time.Duration

	now func() time.Time
}

func New(store ItemStore, ceiling, quota, retentionDays int) *Queue {
	return &Queue{
		store:     store,
		ceiling:   ceiling,
		quota:     quota,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		now:       time.Now,
	}
}

// Submit queues content that passed screening but needs human approval.
// Stale decided items are purged opportunistically on the way in.
func (q *Queue) Submit(submitterID int64, displayName string, kind models.ContentKind, payloadRef, caption string) (*models.ModerationItem, error) {
	if !kind.Valid() {
		return nil, models.ErrInvalidKind
	}

	if _, err := q.PurgeStale(); err != nil {
		log.Printf("opportunistic purge failed: %v", err)
	}

	item := &models.ModerationItem{
		ID:          uuid.New(),
		SubmitterID: submitterID,
		DisplayName: displayName,
		Kind:        kind,
		PayloadRef:  payloadRef,
		Caption:     caption,
		CreatedAt:   q.now(),
		Decision:    models.DecisionUnset,
	}

	if err := q.store.InsertPending(item, q.ceiling, q.quota); err != nil {
		return nil, err
	}
	return item, nil
}

// Decide records the single allowed decision for an item. A second call for
// the same id fails with ErrAlreadyDecided rather than being reapplied, so a
// double-tap can never double-publish.
func (q *Queue) Decide(id uuid.UUID, approve bool, adminID int64) (*models.ModerationItem, error) {
	return q.store.Decide(id, approve, adminID, q.now())
}

// ListPending returns the review backlog oldest first, so reviewers work a
// FIFO queue and old submissions are not starved.
func (q *Queue) ListPending() ([]models.ModerationItem, error) {
	return q.store.ListPending()
}

// PurgeStale removes items that are both past the retention window and
// already decided. An old undecided item is a backlog signal, never garbage.
func (q *Queue) PurgeStale() (int64, error) {
	return q.store.PurgeDecidedBefore(q.now().Add(-q.retention))
}

// DecideAll applies one decision to the whole pending backlog
func (q *Queue) DecideAll(approve bool, adminID int64) ([]models.ModerationItem, error) {
	return q.store.DecideAllPending(approve, adminID, q.now())
}

// Stats reports queue counters
func (q *Queue) Stats() (models.QueueStats, error) {
	return q.store.Stats()
}
