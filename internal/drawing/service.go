// Package drawing manages a user's drawings and their saved documents.
package drawing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/canvasdraw/editor/backend-go/internal/document"
	"github.com/canvasdraw/editor/backend-go/internal/scene"
	"github.com/canvasdraw/editor/backend-go/internal/store"
	"github.com/canvasdraw/editor/backend-go/internal/typeid"
)

var (
	ErrNotFound        = errors.New("drawing not found")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidDocument = errors.New("invalid document")
)

// PlaygroundID names the shared drawing anyone can edit without an
// account. It lives only in memory.
const PlaygroundID = typeid.PlaygroundDrawing

// Store is the part of store.Store the drawing service needs.
type Store interface {
	CreateDrawing(ctx context.Context, d store.Drawing) error
	GetDrawing(ctx context.Context, id string) (store.Drawing, error)
	ListDrawings(ctx context.Context, ownerID string) ([]store.Drawing, error)
	DeleteDrawing(ctx context.Context, id string) error
	SaveSnapshot(ctx context.Context, id, drawingID string, doc json.RawMessage) (store.Snapshot, error)
	LatestSnapshot(ctx context.Context, drawingID string) (store.Snapshot, error)
}

type Service struct {
	store         Store
	defaultWidth  int
	defaultHeight int
}

func NewService(s Store, width, height int) *Service {
	return &Service{store: s, defaultWidth: width, defaultHeight: height}
}

type CreateParams struct {
	Name   string
	Width  int
	Height int
	// Sample seeds the drawing with the sample scene instead of an empty one.
	Sample bool
}

func (s *Service) Create(ctx context.Context, ownerID string, p CreateParams) (*store.Drawing, error) {
	name := document.SanitizeName(p.Name)
	if strings.TrimSpace(name) == "" {
		name = "Untitled"
	}
	if p.Width <= 0 || p.Height <= 0 {
		p.Width, p.Height = s.defaultWidth, s.defaultHeight
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	d := store.Drawing{
		ID:        typeid.NewDrawingID(),
		Name:      name,
		OwnerID:   ownerID,
		Width:     p.Width,
		Height:    p.Height,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateDrawing(ctx, d); err != nil {
		return nil, fmt.Errorf("create drawing: %w", err)
	}

	doc := document.NewEmptyDocument(name)
	if p.Sample {
		doc = document.NewSampleDocument(name)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal initial document: %w", err)
	}
	if _, err := s.store.SaveSnapshot(ctx, typeid.NewSnapshotID(), d.ID, data); err != nil {
		return nil, fmt.Errorf("seed document: %w", err)
	}

	return &d, nil
}

// Get returns a drawing owned by userID.
func (s *Service) Get(ctx context.Context, drawingID, userID string) (*store.Drawing, error) {
	if !typeid.IsDrawingID(drawingID) {
		return nil, ErrNotFound
	}
	d, err := s.store.GetDrawing(ctx, drawingID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get drawing: %w", err)
	}
	if d.OwnerID != userID {
		return nil, ErrForbidden
	}
	return &d, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]store.Drawing, error) {
	list, err := s.store.ListDrawings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list drawings: %w", err)
	}
	return list, nil
}

func (s *Service) Delete(ctx context.Context, drawingID, userID string) error {
	if _, err := s.Get(ctx, drawingID, userID); err != nil {
		return err
	}
	if err := s.store.DeleteDrawing(ctx, drawingID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete drawing: %w", err)
	}
	return nil
}

// Document returns the latest saved document of a drawing owned by userID.
func (s *Service) Document(ctx context.Context, drawingID, userID string) (document.Record, error) {
	if _, err := s.Get(ctx, drawingID, userID); err != nil {
		return document.Record{}, err
	}
	return s.LoadDocument(ctx, drawingID)
}

// LoadDocument returns the latest saved document without an ownership check.
func (s *Service) LoadDocument(ctx context.Context, drawingID string) (document.Record, error) {
	if !typeid.IsDrawingID(drawingID) {
		return document.Record{}, ErrNotFound
	}
	snap, err := s.store.LatestSnapshot(ctx, drawingID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return document.Record{}, ErrNotFound
		}
		return document.Record{}, fmt.Errorf("latest snapshot: %w", err)
	}
	rec, err := document.Parse(snap.Document)
	if err != nil {
		return document.Record{}, fmt.Errorf("stored document of %s: %w", drawingID, err)
	}
	return rec, nil
}

// SaveDocument validates rec for a drawing owned by userID and stores it as
// a new version.
func (s *Service) SaveDocument(ctx context.Context, drawingID, userID string, rec document.Record) (*store.Snapshot, error) {
	d, err := s.Get(ctx, drawingID, userID)
	if err != nil {
		return nil, err
	}
	return s.StoreDocument(ctx, d.ID, rec)
}

// StoreDocument normalizes rec and stores it without an ownership check.
func (s *Service) StoreDocument(ctx context.Context, drawingID string, rec document.Record) (*store.Snapshot, error) {
	if !typeid.IsDrawingID(drawingID) {
		return nil, ErrNotFound
	}
	norm, err := Normalize(rec)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(norm)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	snap, err := s.store.SaveSnapshot(ctx, typeid.NewSnapshotID(), drawingID, data)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("save snapshot: %w", err)
	}
	return &snap, nil
}

// Normalize loads rec into a scratch scene and exports it again, so stored
// documents carry sanitized names and styles and the current version tag.
func Normalize(rec document.Record) (document.Record, error) {
	if rec.Type != document.TypeScene {
		return document.Record{}, fmt.Errorf("%w: root must be a scene, got %q", ErrInvalidDocument, rec.Type)
	}
	tree := scene.NewTree(0, 0)
	root, err := tree.Deserialize(rec, scene.NoNode)
	if err != nil {
		return document.Record{}, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return tree.Export(root), nil
}
