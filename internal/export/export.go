// Package export renders saved drawings to downloadable formats: a PNG
// image, a JavaScript draw module and the JSON document itself.
package export

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/canvasdraw/editor/backend-go/internal/document"
	"github.com/canvasdraw/editor/backend-go/internal/geom"
	"github.com/canvasdraw/editor/backend-go/internal/render"
	"github.com/canvasdraw/editor/backend-go/internal/scene"
)

const (
	FormatPNG  = "png"
	FormatJS   = "js"
	FormatJSON = "json"
)

var ErrUnknownFormat = errors.New("unknown export format")

// maxPixels bounds the raster size of a PNG export.
const maxPixels = 8192 * 8192

type Options struct {
	Width, Height int
	// Background fills the PNG before drawing. Empty keeps it transparent.
	Background string
	// FontPath is a TrueType font used for text objects in PNG output.
	// Text is skipped when it is empty.
	FontPath string
	FontSize float64
	// ResetView draws the scene centered at zoom 1 instead of with the
	// pan and zoom it was saved with.
	ResetView bool
}

// ContentType returns the media type of format.
func ContentType(format string) (string, error) {
	switch format {
	case FormatPNG:
		return "image/png", nil
	case FormatJS:
		return "text/javascript; charset=utf-8", nil
	case FormatJSON:
		return "application/json", nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownFormat, format)
}

// Write loads rec and writes it to w in the given format.
func Write(w io.Writer, format string, rec document.Record, opts Options) error {
	if _, err := ContentType(format); err != nil {
		return err
	}
	if opts.Width <= 0 || opts.Height <= 0 || opts.Width*opts.Height > maxPixels {
		return fmt.Errorf("export size %dx%d out of range", opts.Width, opts.Height)
	}

	tree := scene.NewTree(float64(opts.Width), float64(opts.Height))
	root, err := tree.Deserialize(rec, scene.NoNode)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}
	if opts.ResetView {
		tree.SetTranslate(root, geom.V2(0, 0))
		tree.SetRotate(root, 0)
		tree.SetScale(root, geom.V2(1, 1))
	}

	switch format {
	case FormatPNG:
		return writePNG(w, tree, opts)
	case FormatJS:
		_, err := io.WriteString(w, tree.DrawCode(root))
		return err
	default:
		data, err := document.Marshal(tree.Export(root))
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}
}

func writePNG(w io.Writer, tree *scene.Tree, opts Options) error {
	r := render.NewRaster(opts.Width, opts.Height, opts.Background)
	defer r.Close()

	if opts.FontPath != "" {
		size := opts.FontSize
		if size <= 0 {
			size = 16
		}
		face, err := render.LoadFont(opts.FontPath, size)
		if err != nil {
			slog.Warn("export without text", "error", err)
		} else {
			r.SetFont(face)
		}
	}

	tree.Draw(r)
	if err := r.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Filename returns a download name for a drawing.
func Filename(name, format string) string {
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)
	if name == "" {
		name = "drawing"
	}
	return name + "." + format
}
