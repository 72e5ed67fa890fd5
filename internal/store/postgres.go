package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

func (p *Postgres) CreateUser(ctx context.Context, u User) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, display_name, created_at) VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Email, u.PasswordHash, u.DisplayName, u.CreatedAt.UnixMilli())
	return pgError(err)
}

func (p *Postgres) GetUserByID(ctx context.Context, id string) (User, error) {
	return p.user(ctx, `SELECT id, email, password_hash, display_name, created_at FROM users WHERE id = $1`, id)
}

func (p *Postgres) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return p.user(ctx, `SELECT id, email, password_hash, display_name, created_at FROM users WHERE email = $1`, email)
}

func (p *Postgres) user(ctx context.Context, query, arg string) (User, error) {
	var u User
	var created int64
	err := p.pool.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &created)
	if err != nil {
		return User{}, pgError(err)
	}
	u.CreatedAt = millis(created)
	return u, nil
}

func (p *Postgres) CreateDrawing(ctx context.Context, d Drawing) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO drawings (id, name, owner_id, width, height, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		d.ID, d.Name, d.OwnerID, d.Width, d.Height, d.CreatedAt.UnixMilli(), d.UpdatedAt.UnixMilli())
	return pgError(err)
}

func (p *Postgres) GetDrawing(ctx context.Context, id string) (Drawing, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT id, name, owner_id, width, height, created_at, updated_at FROM drawings WHERE id = $1`, id)
	d, err := scanDrawing(row)
	return d, pgError(err)
}

func (p *Postgres) ListDrawings(ctx context.Context, ownerID string) ([]Drawing, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, name, owner_id, width, height, created_at, updated_at FROM drawings
		 WHERE owner_id = $1 ORDER BY updated_at DESC, id`, ownerID)
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

func (p *Postgres) DeleteDrawing(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM drawings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete drawing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) SaveSnapshot(ctx context.Context, id, drawingID string, doc json.RawMessage) (Snapshot, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	tag, err := tx.Exec(ctx, `UPDATE drawings SET updated_at = $2 WHERE id = $1`, drawingID, now.UnixMilli())
	if err != nil {
		return Snapshot{}, fmt.Errorf("touch drawing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Snapshot{}, ErrNotFound
	}

	var version int
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(version), 0) + 1 FROM snapshots WHERE drawing_id = $1`, drawingID).Scan(&version)
	if err != nil {
		return Snapshot{}, fmt.Errorf("next version: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO snapshots (id, drawing_id, version, document, created_at) VALUES ($1, $2, $3, $4, $5)`,
		id, drawingID, version, string(doc), now.UnixMilli())
	if err != nil {
		return Snapshot{}, pgError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("commit: %w", err)
	}

	return Snapshot{ID: id, DrawingID: drawingID, Version: version, Document: doc, CreatedAt: millis(now.UnixMilli())}, nil
}

func (p *Postgres) LatestSnapshot(ctx context.Context, drawingID string) (Snapshot, error) {
	var s Snapshot
	var doc string
	var created int64
	err := p.pool.QueryRow(ctx,
		`SELECT id, drawing_id, version, document, created_at FROM snapshots
		 WHERE drawing_id = $1 ORDER BY version DESC LIMIT 1`, drawingID).
		Scan(&s.ID, &s.DrawingID, &s.Version, &doc, &created)
	if err != nil {
		return Snapshot{}, pgError(err)
	}
	s.Document = json.RawMessage(doc)
	s.CreatedAt = millis(created)
	return s, nil
}

func pgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: %s", ErrConflict, pgErr.ConstraintName)
	}
	return err
}
