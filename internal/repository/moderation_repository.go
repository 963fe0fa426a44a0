package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/anonrelay/backend/internal/database"
	"github.com/anonrelay/backend/internal/models"
)

// submitLockKey serializes the ceiling/quota check with the insert so
// concurrent submissions cannot overshoot the limits.
const submitLockKey = 0x6d6f6451

type ModerationRepository struct {
	db *database.DB
}

func NewModerationRepository(db *database.DB) *ModerationRepository {
	return &ModerationRepository{db: db}
}

const itemColumns = `id, submitter_id, display_name, content_kind, payload_ref, caption, created_at, decision, decided_at, decided_by`

func scanItem(row interface{ Scan(...interface{}) error }) (*models.ModerationItem, error) {
	item := &models.ModerationItem{}
	var decidedAt sql.NullTime
	var decidedBy sql.NullInt64
	err := row.Scan(
		&item.ID,
		&item.SubmitterID,
		&item.DisplayName,
		&item.Kind,
		&item.PayloadRef,
		&item.Caption,
		&item.CreatedAt,
		&item.Decision,
		&decidedAt,
		&decidedBy,
	)
	if err != nil {
		return nil, err
	}
	if decidedAt.Valid {
		item.DecidedAt = &decidedAt.Time
	}
	if decidedBy.Valid {
		item.DecidedBy = &decidedBy.Int64
	}
	return item, nil
}

// InsertPending adds an item to the queue, enforcing the global ceiling and
// the per-submitter quota inside one transaction.
func (r *ModerationRepository) InsertPending(item *models.ModerationItem, ceiling, perSubmitter int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`SELECT pg_advisory_xact_lock($1)`, submitLockKey); err != nil {
		return fmt.Errorf("failed to acquire submit lock: %w", err)
	}

	var pending, mine int
	err = tx.QueryRow(`
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE submitter_id = $1)
		FROM moderation_items WHERE decision = 'unset'
	`, item.SubmitterID).Scan(&pending, &mine)
	if err != nil {
		return fmt.Errorf("failed to count pending items: %w", err)
	}

	if mine >= perSubmitter {
		return models.ErrSubmitterQuota
	}
	if pending >= ceiling {
		return models.ErrQueueFull
	}

	err = tx.QueryRow(`
		INSERT INTO moderation_items (id, submitter_id, display_name, content_kind, payload_ref, caption, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, item.ID, item.SubmitterID, item.DisplayName, item.Kind, item.PayloadRef, item.Caption, item.CreatedAt).Scan(&item.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit item: %w", err)
	}
	item.Decision = models.DecisionUnset
	return nil
}

// Decide records the one-way decision transition. The conditional update is
// the linearization point: of two concurrent calls exactly one sees a row.
func (r *ModerationRepository) Decide(id uuid.UUID, approve bool, adminID int64, at time.Time) (*models.ModerationItem, error) {
	decision := models.DecisionRejected
	if approve {
		decision = models.DecisionApproved
	}

	row := r.db.QueryRow(`
		UPDATE moderation_items
		SET decision = $2, decided_at = $3, decided_by = $4
		WHERE id = $1 AND decision = 'unset'
		RETURNING `+itemColumns,
		id, decision, at, adminID)

	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		var exists bool
		if err := r.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM moderation_items WHERE id = $1)`, id).Scan(&exists); err != nil {
			return nil, fmt.Errorf("failed to check item: %w", err)
		}
		if exists {
			return nil, models.ErrAlreadyDecided
		}
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decide item: %w", err)
	}
	return item, nil
}

// ListPending returns undecided items oldest first
func (r *ModerationRepository) ListPending() ([]models.ModerationItem, error) {
	rows, err := r.db.Query(`
		SELECT ` + itemColumns + `
		FROM moderation_items
		WHERE decision = 'unset'
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending items: %w", err)
	}
	defer rows.Close()

	items := []models.ModerationItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// PurgeDecidedBefore removes decided items older than the cutoff. Undecided
// items are never purged.
func (r *ModerationRepository) PurgeDecidedBefore(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec(`
		DELETE FROM moderation_items
		WHERE decision <> 'unset' AND created_at < $1
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge items: %w", err)
	}
	return result.RowsAffected()
}

// DecideAllPending applies one decision to every pending item
func (r *ModerationRepository) DecideAllPending(approve bool, adminID int64, at time.Time) ([]models.ModerationItem, error) {
	decision := models.DecisionRejected
	if approve {
		decision = models.DecisionApproved
	}

	rows, err := r.db.Query(`
		UPDATE moderation_items
		SET decision = $1, decided_at = $2, decided_by = $3
		WHERE decision = 'unset'
		RETURNING `+itemColumns,
		decision, at, adminID)
	if err != nil {
		return nil, fmt.Errorf("failed to decide pending items: %w", err)
	}
	defer rows.Close()

	items := []models.ModerationItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items, nil
}

// Stats aggregates queue counters and the per-kind breakdown
func (r *ModerationRepository) Stats() (models.QueueStats, error) {
	stats := models.QueueStats{ByKind: make(map[models.ContentKind]int64)}

	var oldest sql.NullTime
	err := r.db.QueryRow(`
		SELECT
			COUNT(*) FILTER (WHERE decision = 'unset'),
			COUNT(*) FILTER (WHERE decision = 'approved'),
			COUNT(*) FILTER (WHERE decision = 'rejected'),
			COUNT(*),
			MIN(created_at) FILTER (WHERE decision = 'unset')
		FROM moderation_items
	`).Scan(&stats.Pending, &stats.Approved, &stats.Rejected, &stats.Total, &oldest)
	if err != nil {
		return models.QueueStats{}, fmt.Errorf("failed to get queue stats: %w", err)
	}
	if oldest.Valid {
		stats.OldestPending = &oldest.Time
	}

	rows, err := r.db.Query(`SELECT content_kind, COUNT(*) FROM moderation_items GROUP BY content_kind`)
	if err != nil {
		return models.QueueStats{}, fmt.Errorf("failed to get kind breakdown: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind models.ContentKind
		var count int64
		if err := rows.Scan(&kind, &count); err != nil {
			return models.QueueStats{}, fmt.Errorf("failed to scan kind breakdown: %w", err)
		}
		stats.ByKind[kind] = count
	}
	return stats, rows.Err()
}
