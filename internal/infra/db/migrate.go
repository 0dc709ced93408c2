package db

import "database/sql"

// MigrateUp creates the two tables the Subscriber Store and Query Log need
// (C7, C9). Index choices mirror the teacher's migrate.go: one index per
// query shape actually used by a repository.
func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS query_log (
    id         SERIAL PRIMARY KEY,
    user_id    TEXT NOT NULL,
    source     TEXT NOT NULL,
    query      TEXT NOT NULL,
    response   TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS wa_subscribers (
    id            SERIAL PRIMARY KEY,
    phone_number  TEXT NOT NULL UNIQUE,
    subscribed_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    active        BOOLEAN NOT NULL DEFAULT true,
    preferences   TEXT NOT NULL DEFAULT ''
)`); err != nil {
		return err
	}

	indexes := []string{
		// History() filters on user_id then orders by created_at DESC.
		`CREATE INDEX IF NOT EXISTS idx_query_log_user_id ON query_log(user_id, created_at DESC)`,
		// ListActive() filters on active = true.
		`CREATE INDEX IF NOT EXISTS idx_wa_subscribers_active ON wa_subscribers(active) WHERE active = true`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	return nil
}

// MigrateDown drops both tables. Use with caution: this deletes all data.
func MigrateDown(db *sql.DB) error {
	statements := []string{
		`DROP INDEX IF EXISTS idx_query_log_user_id`,
		`DROP INDEX IF EXISTS idx_wa_subscribers_active`,
		`DROP TABLE IF EXISTS query_log CASCADE`,
		`DROP TABLE IF EXISTS wa_subscribers CASCADE`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
