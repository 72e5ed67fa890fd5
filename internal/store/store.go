// Package store persists users, drawings and document snapshots. Two
// backends share one interface: PostgreSQL through pgx for deployments and
// an embedded SQLite file for local use.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

type User struct {
	ID           string
	Email        string
	PasswordHash string
	DisplayName  string
	CreatedAt    time.Time
}

type Drawing struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"ownerId"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Snapshot is one saved version of a drawing's document. Versions start at
// 1 and increase by one per save.
type Snapshot struct {
	ID        string          `json:"id"`
	DrawingID string          `json:"drawingId"`
	Version   int             `json:"version"`
	Document  json.RawMessage `json:"document"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Store is implemented by Postgres and SQLite.
type Store interface {
	CreateUser(ctx context.Context, u User) error
	GetUserByID(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)

	CreateDrawing(ctx context.Context, d Drawing) error
	GetDrawing(ctx context.Context, id string) (Drawing, error)
	ListDrawings(ctx context.Context, ownerID string) ([]Drawing, error)
	DeleteDrawing(ctx context.Context, id string) error

	// SaveSnapshot stores doc as the next version of the drawing and
	// touches the drawing's update time.
	SaveSnapshot(ctx context.Context, id, drawingID string, doc json.RawMessage) (Snapshot, error)
	LatestSnapshot(ctx context.Context, drawingID string) (Snapshot, error)

	Close() error
}

// Open connects to PostgreSQL when databaseURL is set and opens the SQLite
// file at sqlitePath otherwise. The schema is created if missing.
func Open(ctx context.Context, databaseURL, sqlitePath string) (Store, error) {
	if databaseURL != "" {
		return NewPostgres(ctx, databaseURL)
	}
	return NewSQLite(ctx, sqlitePath)
}
