package database

import (
	"log/slog"
)

// SetupIndexes creates additional indexes that GORM can't handle automatically
func (db *DB) SetupIndexes() error {
	slog.Info("Setting up additional database indexes")

	// A match may only be imported once per account. This index, not the
	// importer, is the actual duplicate-prevention mechanism.
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_matches_account_external
		ON matches(faceit_account_id, external_match_id)
	`).Error; err != nil {
		return err
	}

	// At most one cache document per (user, period, game type) key
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_analytics_caches_key
		ON analytics_caches(user_id, period_start, period_end, game_type)
	`).Error; err != nil {
		return err
	}

	// One rating row per user
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_player_ratings_user
		ON player_ratings(user_id)
		WHERE deleted_at IS NULL
	`).Error; err != nil {
		return err
	}

	// Performance indexes for time-series reads
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_matches_account_played
		ON matches(faceit_account_id, played_at DESC)
	`).Error; err != nil {
		return err
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_player_metrics_user_recorded
		ON player_metrics(user_id, recorded_at DESC)
	`).Error; err != nil {
		return err
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_mood_entries_user_date
		ON mood_entries(user_id, entry_date DESC)
	`).Error; err != nil {
		return err
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_balance_wheels_user_date
		ON balance_wheels(user_id, entry_date DESC)
	`).Error; err != nil {
		return err
	}

	slog.Info("Additional database indexes created successfully")
	return nil
}
