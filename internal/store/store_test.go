package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canvasdraw/editor/backend-go/internal/typeid"
)

func TestSQLite(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLite(ctx, filepath.Join(t.TempDir(), "data", "canvas.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	runSuite(t, s)
}

func TestPostgres(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	s, err := NewPostgres(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	runSuite(t, s)
}

func TestOpenDefaultsToSQLite(t *testing.T) {
	s, err := Open(context.Background(), "", filepath.Join(t.TempDir(), "canvas.db"))
	require.NoError(t, err)
	defer s.Close()

	_, ok := s.(*SQLite)
	assert.True(t, ok)
}

func runSuite(t *testing.T, s Store) {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	owner := User{
		ID:           typeid.NewUserID(),
		Email:        typeid.NewUserID() + "@example.com",
		PasswordHash: "hash",
		DisplayName:  "Owner",
		CreatedAt:    now,
	}

	t.Run("users", func(t *testing.T) {
		require.NoError(t, s.CreateUser(ctx, owner))

		got, err := s.GetUserByEmail(ctx, owner.Email)
		require.NoError(t, err)
		assert.Equal(t, owner, got)

		got, err = s.GetUserByID(ctx, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, owner.Email, got.Email)

		dup := owner
		dup.ID = typeid.NewUserID()
		assert.ErrorIs(t, s.CreateUser(ctx, dup), ErrConflict)

		_, err = s.GetUserByEmail(ctx, "missing@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	d := Drawing{
		ID:        typeid.NewDrawingID(),
		Name:      "Sketch",
		OwnerID:   owner.ID,
		Width:     1280,
		Height:    720,
		CreatedAt: now,
		UpdatedAt: now,
	}

	t.Run("drawings", func(t *testing.T) {
		require.NoError(t, s.CreateDrawing(ctx, d))

		got, err := s.GetDrawing(ctx, d.ID)
		require.NoError(t, err)
		assert.Equal(t, d, got)

		list, err := s.ListDrawings(ctx, owner.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, d.ID, list[0].ID)

		list, err = s.ListDrawings(ctx, typeid.NewUserID())
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("snapshots", func(t *testing.T) {
		_, err := s.LatestSnapshot(ctx, d.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		first, err := s.SaveSnapshot(ctx, typeid.NewSnapshotID(), d.ID, json.RawMessage(`{"type":"scene"}`))
		require.NoError(t, err)
		assert.Equal(t, 1, first.Version)

		second, err := s.SaveSnapshot(ctx, typeid.NewSnapshotID(), d.ID, json.RawMessage(`{"type":"scene","name":"B"}`))
		require.NoError(t, err)
		assert.Equal(t, 2, second.Version)

		latest, err := s.LatestSnapshot(ctx, d.ID)
		require.NoError(t, err)
		assert.Equal(t, second.ID, latest.ID)
		assert.JSONEq(t, `{"type":"scene","name":"B"}`, string(latest.Document))

		got, err := s.GetDrawing(ctx, d.ID)
		require.NoError(t, err)
		assert.False(t, got.UpdatedAt.Before(d.UpdatedAt))

		_, err = s.SaveSnapshot(ctx, typeid.NewSnapshotID(), typeid.NewDrawingID(), json.RawMessage(`{}`))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.DeleteDrawing(ctx, d.ID))
		assert.ErrorIs(t, s.DeleteDrawing(ctx, d.ID), ErrNotFound)

		_, err := s.GetDrawing(ctx, d.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = s.LatestSnapshot(ctx, d.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
