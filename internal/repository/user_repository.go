package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/anonrelay/backend/internal/database"
	"github.com/anonrelay/backend/internal/models"
)

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `user_id, raw_username, display_name, sequence_number, registered_at, message_count, banned`

// Get retrieves a profile by user ID
func (r *UserRepository) Get(userID int64) (*models.UserProfile, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`

	profile := &models.UserProfile{}
	err := r.db.QueryRow(query, userID).Scan(
		&profile.UserID,
		&profile.RawUsername,
		&profile.DisplayName,
		&profile.SequenceNumber,
		&profile.RegisteredAt,
		&profile.MessageCount,
		&profile.Banned,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return profile, nil
}

// Create registers a profile with the next sequence number and a default
// display name derived from it. Idempotent: an existing profile is returned
// unchanged. Sequence and display-name uniqueness are enforced by the table
// constraints; a losing concurrent insert retries with a fresh sequence.
func (r *UserRepository) Create(userID int64, rawUsername string) (*models.UserProfile, error) {
	query := `
		INSERT INTO users (user_id, raw_username, display_name, sequence_number)
		SELECT $1, $2, 'User #' || seq.next::text, seq.next
		FROM (SELECT COALESCE(MAX(sequence_number), 0) + 1 AS next FROM users) seq
		ON CONFLICT (user_id) DO NOTHING
	`

	for attempt := 0; attempt < 5; attempt++ {
		_, err := r.db.Exec(query, userID, rawUsername)
		if err != nil {
			if isUniqueViolation(err) {
				// lost the sequence race, retry with a recomputed max
				continue
			}
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		return r.Get(userID)
	}

	return nil, fmt.Errorf("failed to create user: sequence contention")
}

// UpdateDisplayName sets the pseudonym. Uniqueness is enforced by the
// storage constraint, and the conditional update only touches a row still
// holding its default name, so concurrent claims and concurrent self-renames
// both race safely: exactly one customization ever lands.
func (r *UserRepository) UpdateDisplayName(userID int64, name string) error {
	result, err := r.db.Exec(`
		UPDATE users SET display_name = $1
		WHERE user_id = $2 AND display_name = 'User #' || sequence_number::text
	`, name, userID)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrNameTaken
		}
		return fmt.Errorf("failed to update display name: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		var exists bool
		if err := r.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM users WHERE user_id = $1)`, userID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check user: %w", err)
		}
		if exists {
			return models.ErrNameImmutable
		}
		return models.ErrNotFound
	}
	return nil
}

// SetBanned flips the submission gate for a user
func (r *UserRepository) SetBanned(userID int64, banned bool) error {
	result, err := r.db.Exec(`UPDATE users SET banned = $1 WHERE user_id = $2`, banned, userID)
	if err != nil {
		return fmt.Errorf("failed to set banned: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return models.ErrNotFound
	}
	return nil
}

// IncrementMessageCount bumps the accepted-submission counter
func (r *UserRepository) IncrementMessageCount(userID int64) error {
	_, err := r.db.Exec(`UPDATE users SET message_count = message_count + 1 WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to increment message count: %w", err)
	}
	return nil
}

// Stats aggregates registry-wide counters
func (r *UserRepository) Stats() (models.UserStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE display_name = 'User #' || sequence_number::text),
			COALESCE(SUM(message_count), 0)
		FROM users
	`

	var stats models.UserStats
	err := r.db.QueryRow(query).Scan(&stats.TotalUsers, &stats.DefaultNames, &stats.TotalMessages)
	if err != nil {
		return models.UserStats{}, fmt.Errorf("failed to get user stats: %w", err)
	}
	stats.CustomNames = stats.TotalUsers - stats.DefaultNames
	return stats, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
