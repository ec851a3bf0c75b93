package viewer

import (
	"math"
	"testing"

	"pdf-viewer/internal/domain"
)

func TestProjectOverlay_ScalesIntoViewport(t *testing.T) {
	h := &domain.Highlight{
		ID:    "h1",
		Page:  2,
		Color: "#ffeb3b",
		Rects: []domain.Rect{{X: 0.25, Y: 0.5, Width: 0.5, Height: 0.05}},
	}

	out := ProjectOverlay([]*domain.Highlight{h}, nil, 2, domain.ViewportSize{Width: 800, Height: 1000})

	if len(out) != 1 {
		t.Fatalf("expected 1 overlay rect, got %d", len(out))
	}
	r := out[0]
	if r.X != 200 || r.Y != 500 || r.Width != 400 || r.Height != 50 {
		t.Fatalf("unexpected projection: %+v", r)
	}
	if r.Ephemeral {
		t.Fatal("persisted highlight flagged ephemeral")
	}
}

func TestProjectOverlay_ScaleInvariant(t *testing.T) {
	h := &domain.Highlight{
		ID:    "h1",
		Page:  1,
		Rects: []domain.Rect{{X: 0.1, Y: 0.2, Width: 0.3, Height: 0.04}},
	}
	base := domain.ViewportSize{Width: 612, Height: 792}

	for _, scale := range []float64{0.4, 1, 1.7, 4} {
		vp := domain.ViewportSize{Width: base.Width * scale, Height: base.Height * scale}
		out := ProjectOverlay([]*domain.Highlight{h}, nil, 1, vp)
		if len(out) != 1 {
			t.Fatalf("scale %v: expected 1 rect", scale)
		}
		r := out[0]
		// The projected rect stays proportional to the viewport at any zoom.
		if math.Abs(r.X/vp.Width-0.1) > 1e-9 || math.Abs(r.Width/vp.Width-0.3) > 1e-9 ||
			math.Abs(r.Y/vp.Height-0.2) > 1e-9 || math.Abs(r.Height/vp.Height-0.04) > 1e-9 {
			t.Fatalf("scale %v: projection not proportional: %+v", scale, r)
		}
	}
}

func TestProjectOverlay_FiltersByPage(t *testing.T) {
	highlights := []*domain.Highlight{
		{ID: "a", Page: 1, Rects: []domain.Rect{{X: 0.1, Y: 0.1, Width: 0.2, Height: 0.02}}},
		{ID: "b", Page: 3, Rects: []domain.Rect{{X: 0.1, Y: 0.1, Width: 0.2, Height: 0.02}}},
	}

	out := ProjectOverlay(highlights, nil, 3, domain.ViewportSize{Width: 100, Height: 100})
	if len(out) != 1 || out[0].HighlightID != "b" {
		t.Fatalf("expected only page 3 highlight, got %+v", out)
	}
}

func TestProjectOverlay_EphemeralComposited(t *testing.T) {
	persisted := []*domain.Highlight{
		{ID: "a", Page: 1, Rects: []domain.Rect{{X: 0.1, Y: 0.1, Width: 0.2, Height: 0.02}}},
	}
	ephemeral := []*domain.Highlight{
		{ID: "focus", Page: 1, Rects: []domain.Rect{{X: 0.4, Y: 0.4, Width: 0.1, Height: 0.02}}},
	}

	out := ProjectOverlay(persisted, ephemeral, 1, domain.ViewportSize{Width: 100, Height: 100})
	if len(out) != 2 {
		t.Fatalf("expected persisted plus ephemeral, got %d rects", len(out))
	}
	if out[0].Ephemeral || !out[1].Ephemeral {
		t.Fatalf("ephemeral flags wrong: %+v", out)
	}
}
