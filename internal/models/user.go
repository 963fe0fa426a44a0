package models

import (
	"fmt"
	"time"
)

// UserProfile maps a stable external user identity to its public pseudonym.
// RawUsername is informational only and never shown publicly.
type UserProfile struct {
	UserID         int64     `json:"user_id" db:"user_id"`
	RawUsername    string    `json:"-" db:"raw_username"`
	DisplayName    string    `json:"display_name" db:"display_name"`
	SequenceNumber int64     `json:"sequence_number" db:"sequence_number"`
	RegisteredAt   time.Time `json:"registered_at" db:"registered_at"`
	MessageCount   int64     `json:"message_count" db:"message_count"`
	Banned         bool      `json:"banned" db:"banned"`
}

// DefaultDisplayName derives the auto-assigned pseudonym from a sequence number.
func DefaultDisplayName(seq int64) string {
	return fmt.Sprintf("User #%d", seq)
}

// HasCustomName reports whether the user has replaced the default pseudonym.
// Once true, the display name is immutable.
func (u *UserProfile) HasCustomName() bool {
	return u.DisplayName != DefaultDisplayName(u.SequenceNumber)
}

type SetDisplayNameRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
}

type UserStats struct {
	TotalUsers    int64 `json:"total_users"`
	CustomNames   int64 `json:"custom_names"`
	DefaultNames  int64 `json:"default_names"`
	TotalMessages int64 `json:"total_messages"`
}
