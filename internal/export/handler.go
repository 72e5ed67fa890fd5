package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/canvasdraw/editor/backend-go/internal/auth"
	"github.com/canvasdraw/editor/backend-go/internal/document"
	"github.com/canvasdraw/editor/backend-go/internal/drawing"
	"github.com/canvasdraw/editor/backend-go/internal/store"
)

const maxUploadSize = 8 << 20

// Drawings is the part of drawing.Service the export handler needs.
type Drawings interface {
	Get(ctx context.Context, drawingID, userID string) (*store.Drawing, error)
	Document(ctx context.Context, drawingID, userID string) (document.Record, error)
}

type Handler struct {
	drawings Drawings
	fontPath string
	fontSize float64
	width    int
	height   int
}

func NewHandler(drawings Drawings, fontPath string, fontSize float64, width, height int) *Handler {
	return &Handler{drawings: drawings, fontPath: fontPath, fontSize: fontSize, width: width, height: height}
}

// ExportDrawing serves GET /api/drawings/{drawingId}/export/{format}.
func (h *Handler) ExportDrawing(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID := auth.UserIDFromContext(r.Context())

	d, err := h.drawings.Get(r.Context(), vars["drawingId"], userID)
	if err != nil {
		handleDrawingError(w, err)
		return
	}
	rec, err := h.drawings.Document(r.Context(), d.ID, userID)
	if err != nil {
		handleDrawingError(w, err)
		return
	}

	h.write(w, r, vars["format"], d.Name, rec, d.Width, d.Height)
}

// ExportDocument serves POST /export/{format} with the document in the
// request body. It needs no account and is used by the playground.
func (h *Handler) ExportDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	var rec document.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		http.Error(w, "invalid document", http.StatusBadRequest)
		return
	}
	if rec.Type != document.TypeScene {
		http.Error(w, "document root must be a scene", http.StatusBadRequest)
		return
	}

	h.write(w, r, mux.Vars(r)["format"], rec.Name, rec, h.width, h.height)
}

func (h *Handler) write(w http.ResponseWriter, r *http.Request, format, name string, rec document.Record, width, height int) {
	contentType, err := ContentType(format)
	if err != nil {
		http.Error(w, "invalid format: must be png, js or json", http.StatusBadRequest)
		return
	}

	q := r.URL.Query()
	opts := Options{
		Width:      queryInt(q.Get("width"), width),
		Height:     queryInt(q.Get("height"), height),
		Background: document.SanitizeColor(q.Get("background")),
		FontPath:   h.fontPath,
		FontSize:   h.fontSize,
		ResetView:  q.Get("view") == "reset",
	}

	var buf bytes.Buffer
	if err := Write(&buf, format, rec, opts); err != nil {
		slog.Error("export failed", "format", format, "error", err)
		http.Error(w, fmt.Sprintf("export failed: %v", err), http.StatusUnprocessableEntity)
		return
	}

	slog.Info("export finished", "format", format, "bytes", buf.Len())

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, Filename(name, format)))
	w.Write(buf.Bytes())
}

func queryInt(s string, fallback int) int {
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func handleDrawingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, drawing.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, drawing.ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	default:
		slog.Error("load drawing for export", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
