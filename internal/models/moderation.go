package models

import (
	"time"

	"github.com/google/uuid"
)

// ContentKind is the tagged variant of submittable content. The publication
// policy and the queue switch over it exhaustively, so adding a kind is a
// compile-time-checked extension point.
type ContentKind string

const (
	ContentText      ContentKind = "text"
	ContentPhoto     ContentKind = "photo"
	ContentVideo     ContentKind = "video"
	ContentAudio     ContentKind = "audio"
	ContentVoice     ContentKind = "voice"
	ContentDocument  ContentKind = "document"
	ContentAnimation ContentKind = "animation"
	ContentSticker   ContentKind = "sticker"
)

// Valid reports whether k is a known content kind.
func (k ContentKind) Valid() bool {
	switch k {
	case ContentText, ContentPhoto, ContentVideo, ContentAudio,
		ContentVoice, ContentDocument, ContentAnimation, ContentSticker:
		return true
	}
	return false
}

// Decision is the per-item review state. Transitions are one-way:
// unset -> approved or unset -> rejected, never out of a terminal state.
type Decision string

const (
	DecisionUnset    Decision = "unset"
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

// ModerationItem is a submission awaiting (or past) a human decision.
// The queue owns these records exclusively.
type ModerationItem struct {
	ID              uuid.UUID   `json:"id" db:"id"`
	SubmitterID     int64       `json:"submitter_id" db:"submitter_id"`
	DisplayName     string      `json:"display_name" db:"display_name"`
	Kind            ContentKind `json:"kind" db:"content_kind"`
	PayloadRef      string      `json:"payload_ref" db:"payload_ref"`
	Caption         string      `json:"caption" db:"caption"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
	Decision        Decision    `json:"decision" db:"decision"`
	DecidedAt       *time.Time  `json:"decided_at,omitempty" db:"decided_at"`
	DecidedBy       *int64      `json:"decided_by,omitempty" db:"decided_by"`
}

// Pending reports whether the item still awaits a decision.
func (m *ModerationItem) Pending() bool {
	return m.Decision == DecisionUnset
}

type SubmitRequest struct {
	Kind       ContentKind `json:"kind" binding:"required"`
	PayloadRef string      `json:"payload_ref"`
	Caption    string      `json:"caption"`
}

type DecideRequest struct {
	Approve bool `json:"approve"`
}

type QueueStats struct {
	Pending       int64                 `json:"pending"`
	Approved      int64                 `json:"approved"`
	Rejected      int64                 `json:"rejected"`
	Total         int64                 `json:"total"`
	ByKind        map[ContentKind]int64 `json:"by_kind"`
	OldestPending *time.Time            `json:"oldest_pending,omitempty"`
}
