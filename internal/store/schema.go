package store

import "time"

// The schema is shared by both backends. Times are stored as unix
// milliseconds.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		display_name  TEXT NOT NULL,
		created_at    BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS drawings (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		owner_id   TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		width      INTEGER NOT NULL,
		height     INTEGER NOT NULL,
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS drawings_owner ON drawings(owner_id)`,
	`CREATE TABLE IF NOT EXISTS snapshots (
		id         TEXT PRIMARY KEY,
		drawing_id TEXT NOT NULL REFERENCES drawings(id) ON DELETE CASCADE,
		version    INTEGER NOT NULL,
		document   TEXT NOT NULL,
		created_at BIGINT NOT NULL,
		UNIQUE (drawing_id, version)
	)`,
}

func millis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// scanner is satisfied by both pgx and database/sql rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDrawing(row scanner) (Drawing, error) {
	var d Drawing
	var created, updated int64
	if err := row.Scan(&d.ID, &d.Name, &d.OwnerID, &d.Width, &d.Height, &created, &updated); err != nil {
		return Drawing{}, err
	}
	d.CreatedAt = millis(created)
	d.UpdatedAt = millis(updated)
	return d, nil
}
