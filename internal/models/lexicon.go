package models

import "time"

// LexiconEntry is one stored word of a per-language profanity list.
// Words are lower-cased and trimmed before storage; the (language, word)
// pair is unique.
type LexiconEntry struct {
	Language  string    `json:"language" db:"language"`
	Word      string    `json:"word" db:"word"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type AddWordRequest struct {
	Word string `json:"word" binding:"required"`
}
