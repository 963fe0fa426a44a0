package database

import (
	"database/sql"
	"fmt"
	"sort"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Up      string
	Down    string
}

// Migrations contains all database migrations
var Migrations = []Migration{
	{
		Version: 1,
		Up: `
			CREATE TABLE IF NOT EXISTS schema_migrations (
				version INT PRIMARY KEY,
				applied_at TIMESTAMP NOT NULL DEFAULT NOW()
			);
		`,
		Down: `
			DROP TABLE IF EXISTS schema_migrations;
		`,
	},
	{
		Version: 2,
		Up: `
			CREATE TABLE IF NOT EXISTS users (
				user_id BIGINT PRIMARY KEY,
				raw_username VARCHAR(255) NOT NULL DEFAULT '',
				display_name VARCHAR(50) UNIQUE NOT NULL,
				sequence_number BIGINT UNIQUE NOT NULL,
				registered_at TIMESTAMP NOT NULL DEFAULT NOW(),
				message_count BIGINT NOT NULL DEFAULT 0,
				banned BOOLEAN NOT NULL DEFAULT FALSE
			);

			CREATE INDEX IF NOT EXISTS idx_users_display_name ON users(display_name);
		`,
		Down: `
			DROP TABLE IF EXISTS users;
		`,
	},
	{
		Version: 3,
		Up: `
			CREATE EXTENSION IF NOT EXISTS "uuid-ossp";

			CREATE TABLE IF NOT EXISTS moderation_items (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				submitter_id BIGINT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
				display_name VARCHAR(50) NOT NULL,
				content_kind VARCHAR(20) NOT NULL,
				payload_ref TEXT NOT NULL DEFAULT '',
				caption TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP NOT NULL DEFAULT NOW(),
				decision VARCHAR(10) NOT NULL DEFAULT 'unset',
				decided_at TIMESTAMP,
				decided_by BIGINT
			);

			CREATE INDEX IF NOT EXISTS idx_moderation_items_decision ON moderation_items(decision, created_at);
			CREATE INDEX IF NOT EXISTS idx_moderation_items_submitter ON moderation_items(submitter_id);
		`,
		Down: `
			DROP TABLE IF EXISTS moderation_items;
		`,
	},
	{
		Version: 4,
		Up: `
			CREATE TABLE IF NOT EXISTS lexicon_words (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				language VARCHAR(32) NOT NULL,
				word VARCHAR(128) NOT NULL,
				created_at TIMESTAMP NOT NULL DEFAULT NOW(),
				UNIQUE(language, word)
			);

			CREATE INDEX IF NOT EXISTS idx_lexicon_words_language ON lexicon_words(language);
		`,
		Down: `
			DROP TABLE IF EXISTS lexicon_words;
		`,
	},
}

// RunMigrations runs all pending migrations
func RunMigrations(db *sql.DB) error {
	// Ensure migrations table exists
	if err := ensureMigrationsTable(db); err != nil {
		return err
	}

	// Get current version
	currentVersion, err := getCurrentVersion(db)
	if err != nil {
		return err
	}

	// Run pending migrations in ascending order by version
	sorted := make([]Migration, len(Migrations))
	copy(sorted, Migrations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Version < sorted[j].Version })

	for _, migration := range sorted {
		if migration.Version <= currentVersion {
			continue
		}

		fmt.Printf("Running migration %d...\n", migration.Version)

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}

		if _, err := tx.Exec(migration.Up); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to run migration %d: %w", migration.Version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES ($1)", migration.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}

		fmt.Printf("Migration %d completed\n", migration.Version)
	}

	return nil
}

func ensureMigrationsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INT PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func getCurrentVersion(db *sql.DB) (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, err
	}
	return version, nil
}
