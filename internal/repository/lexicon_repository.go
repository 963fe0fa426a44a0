package repository

import (
	"fmt"

	"github.com/anonrelay/backend/internal/database"
)

type LexiconRepository struct {
	db *database.DB
}

func NewLexiconRepository(db *database.DB) *LexiconRepository {
	return &LexiconRepository{db: db}
}

// Load returns every stored word grouped by language
func (r *LexiconRepository) Load() (map[string][]string, error) {
	rows, err := r.db.Query(`SELECT language, word FROM lexicon_words ORDER BY language, word`)
	if err != nil {
		return nil, fmt.Errorf("failed to load lexicon: %w", err)
	}
	defer rows.Close()

	words := make(map[string][]string)
	for rows.Next() {
		var language, word string
		if err := rows.Scan(&language, &word); err != nil {
			return nil, fmt.Errorf("failed to scan lexicon word: %w", err)
		}
		words[language] = append(words[language], word)
	}
	return words, rows.Err()
}

// Add stores a word for a language; duplicates are ignored
func (r *LexiconRepository) Add(language, word string) error {
	_, err := r.db.Exec(`
		INSERT INTO lexicon_words (language, word)
		VALUES ($1, $2)
		ON CONFLICT (language, word) DO NOTHING
	`, language, word)
	if err != nil {
		return fmt.Errorf("failed to add lexicon word: %w", err)
	}
	return nil
}

// Remove deletes a word; reports false if it was absent
func (r *LexiconRepository) Remove(language, word string) (bool, error) {
	result, err := r.db.Exec(`DELETE FROM lexicon_words WHERE language = $1 AND word = $2`, language, word)
	if err != nil {
		return false, fmt.Errorf("failed to remove lexicon word: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}
