package models

import "errors"

// Validation failures: reported to the caller, never fatal.
var (
	ErrInvalidName     = errors.New("display name is not allowed")
	ErrUnknownLanguage = errors.New("unknown lexicon language")
	ErrInvalidKind     = errors.New("unsupported content kind")
)

// Capacity failures: backpressure, recoverable by retrying later.
var (
	ErrQueueFull      = errors.New("moderation queue is full")
	ErrSubmitterQuota = errors.New("submitter pending quota exceeded")
)

// Conflict failures: reported, never retried automatically.
var (
	ErrNameTaken      = errors.New("display name already taken")
	ErrNameImmutable  = errors.New("display name already customized")
	ErrAlreadyDecided = errors.New("item already decided")
)

var ErrNotFound = errors.New("not found")
