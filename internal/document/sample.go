package document

import "github.com/canvasdraw/editor/backend-go/internal/geom"

func vec(x, y float64) *[2]float64 {
	return &[2]float64{x, y}
}

func ptr[T any](v T) *T {
	return &v
}

// NewSampleDocument returns a small drawing exercising every object type.
func NewSampleDocument(name string) Record {
	doc := NewEmptyDocument(name)

	wave := geom.Pt(96, 0)
	wave.SetIn(geom.V2(32, -64))
	wave.SetOut(geom.V2(64, 64))

	doc.Children = []Record{
		{
			Type:        TypeRectangle,
			Name:        "Background",
			Visible:     ptr(true),
			Children:    []Record{},
			Translate:   vec(-256, -160),
			Rotate:      ptr(0.0),
			Scale:       vec(1, 1),
			FillStyle:   "#1A1A2E",
			StrokeStyle: "#FFFFFF",
			LineWidth:   ptr(2.0),
			MiterLimit:  ptr(10.0),
			LineJoin:    "miter",
			LineCap:     "butt",
			Position:    vec(0, 0),
			Size:        vec(512, 320),
		},
		{
			Type:      TypeTransform,
			Name:      "Group",
			Visible:   ptr(true),
			Translate: vec(-96, 0),
			Rotate:    ptr(15.0),
			Scale:     vec(1, 1),
			Children: []Record{
				{
					Type:        TypeEllipse,
					Name:        "Sun",
					Visible:     ptr(true),
					Children:    []Record{},
					Translate:   vec(0, 0),
					Rotate:      ptr(0.0),
					Scale:       vec(1, 1),
					FillStyle:   "#FFA200",
					StrokeStyle: "#FF5050",
					LineWidth:   ptr(4.0),
					MiterLimit:  ptr(10.0),
					LineDash:    "8,4",
					LineJoin:    "round",
					LineCap:     "round",
					Position:    vec(0, 0),
					Radius:      vec(48, 48),
				},
				{
					Type:        TypePath,
					Name:        "Wave",
					Visible:     ptr(true),
					Children:    []Record{},
					Translate:   vec(64, 64),
					Rotate:      ptr(0.0),
					Scale:       vec(1, 1),
					StrokeStyle: "#50FF50",
					LineWidth:   ptr(3.0),
					MiterLimit:  ptr(10.0),
					LineJoin:    "bevel",
					LineCap:     "butt",
					Points:      []geom.PathPoint{geom.Pt(0, 0), wave, geom.Pt(96, 64)},
					Closed:      ptr(false),
					Drawing:     ptr(false),
				},
			},
		},
		{
			Type:         TypeText,
			Name:         "Title",
			Visible:      ptr(true),
			Children:     []Record{},
			Translate:    vec(0, -120),
			Rotate:       ptr(0.0),
			Scale:        vec(1, 1),
			FillStyle:    "#FFFFFF",
			LineWidth:    ptr(0.0),
			MiterLimit:   ptr(10.0),
			LineJoin:     "miter",
			LineCap:      "butt",
			Text:         "Canvas Draw",
			Font:         "24px sans-serif",
			TextAlign:    "center",
			TextBaseline: "middle",
		},
	}

	return doc
}
