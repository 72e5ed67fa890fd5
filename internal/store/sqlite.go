package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLite keeps everything in one local database file. It is the default
// backend when no PostgreSQL URL is configured.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(ctx context.Context, path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer at a time.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) CreateUser(ctx context.Context, u User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, display_name, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, u.DisplayName, u.CreatedAt.UnixMilli())
	return sqliteError(err)
}

func (s *SQLite) GetUserByID(ctx context.Context, id string) (User, error) {
	return s.user(ctx, `SELECT id, email, password_hash, display_name, created_at FROM users WHERE id = ?`, id)
}

func (s *SQLite) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return s.user(ctx, `SELECT id, email, password_hash, display_name, created_at FROM users WHERE email = ?`, email)
}

func (s *SQLite) user(ctx context.Context, query, arg string) (User, error) {
	var u User
	var created int64
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &created)
	if err != nil {
		return User{}, sqliteError(err)
	}
	u.CreatedAt = millis(created)
	return u, nil
}

func (s *SQLite) CreateDrawing(ctx context.Context, d Drawing) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO drawings (id, name, owner_id, width, height, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Name, d.OwnerID, d.Width, d.Height, d.CreatedAt.UnixMilli(), d.UpdatedAt.UnixMilli())
	return sqliteError(err)
}

func (s *SQLite) GetDrawing(ctx context.Context, id string) (Drawing, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, owner_id, width, height, created_at, updated_at FROM drawings WHERE id = ?`, id)
	d, err := scanDrawing(row)
	return d, sqliteError(err)
}

func (s *SQLite) ListDrawings(ctx context.Context, ownerID string) ([]Drawing, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, owner_id, width, height, created_at, updated_at FROM drawings
		 WHERE owner_id = ? ORDER BY updated_at DESC, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list drawings: %w", err)
	}
	defer rows.Close()

	out := []Drawing{}
	for rows.Next() {
		d, err := scanDrawing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan drawing: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *SQLite) DeleteDrawing(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM drawings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete drawing: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLite) SaveSnapshot(ctx context.Context, id, drawingID string, doc json.RawMessage) (Snapshot, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx, `UPDATE drawings SET updated_at = ? WHERE id = ?`, now.UnixMilli(), drawingID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("touch drawing: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Snapshot{}, ErrNotFound
	}

	var version int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) + 1 FROM snapshots WHERE drawing_id = ?`, drawingID).Scan(&version)
	if err != nil {
		return Snapshot{}, fmt.Errorf("next version: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, drawing_id, version, document, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, drawingID, version, string(doc), now.UnixMilli())
	if err != nil {
		return Snapshot{}, sqliteError(err)
	}
	if err := tx.Commit(); err != nil {
		return Snapshot{}, fmt.Errorf("commit: %w", err)
	}

	return Snapshot{ID: id, DrawingID: drawingID, Version: version, Document: doc, CreatedAt: millis(now.UnixMilli())}, nil
}

func (s *SQLite) LatestSnapshot(ctx context.Context, drawingID string) (Snapshot, error) {
	var snap Snapshot
	var doc string
	var created int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, drawing_id, version, document, created_at FROM snapshots
		 WHERE drawing_id = ? ORDER BY version DESC LIMIT 1`, drawingID).
		Scan(&snap.ID, &snap.DrawingID, &snap.Version, &doc, &created)
	if err != nil {
		return Snapshot{}, sqliteError(err)
	}
	snap.Document = json.RawMessage(doc)
	snap.CreatedAt = millis(created)
	return snap, nil
}

func sqliteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var sqlErr *sqlite.Error
	if errors.As(err, &sqlErr) {
		switch sqlErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %s", ErrConflict, sqlErr.Error())
		}
	}
	return err
}
