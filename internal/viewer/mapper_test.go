package viewer

import (
	"math"
	"testing"

	"pdf-viewer/internal/domain"
)

func TestSelectionToPageRects_Normalizes(t *testing.T) {
	container := domain.Rect{X: 50, Y: 100, Width: 800, Height: 1000}
	sel := NewSelection("quoted text", domain.Rect{X: 100, Y: 200, Width: 120, Height: 20})

	rects := SelectionToPageRects(sel, container)

	if len(rects) != 1 {
		t.Fatalf("expected 1 rect, got %d", len(rects))
	}
	want := domain.Rect{X: 0.0625, Y: 0.1, Width: 0.15, Height: 0.02}
	got := rects[0]
	const eps = 1e-9
	if math.Abs(got.X-want.X) > eps || math.Abs(got.Y-want.Y) > eps ||
		math.Abs(got.Width-want.Width) > eps || math.Abs(got.Height-want.Height) > eps {
		t.Fatalf("normalized rect %+v, want %+v", got, want)
	}
}

func TestSelectionToPageRects_MultiLineSelection(t *testing.T) {
	container := domain.Rect{X: 0, Y: 0, Width: 800, Height: 1000}
	sel := NewSelection("two lines",
		domain.Rect{X: 120, Y: 100, Width: 500, Height: 18},
		domain.Rect{X: 40, Y: 122, Width: 200, Height: 18},
	)

	rects := SelectionToPageRects(sel, container)
	if len(rects) != 2 {
		t.Fatalf("expected one rect per line fragment, got %d", len(rects))
	}
}

func TestSelectionToPageRects_OutsideContainerIgnored(t *testing.T) {
	container := domain.Rect{X: 0, Y: 0, Width: 800, Height: 1000}
	sel := NewSelection("elsewhere", domain.Rect{X: 900, Y: 50, Width: 100, Height: 20})

	if rects := SelectionToPageRects(sel, container); rects != nil {
		t.Fatalf("expected no rects for selection outside container, got %v", rects)
	}
}

func TestSelectionToPageRects_DegenerateDropped(t *testing.T) {
	container := domain.Rect{X: 0, Y: 0, Width: 800, Height: 1000}
	sel := NewSelection("collapsed", domain.Rect{X: 100, Y: 100, Width: 0.5, Height: 0.1})

	if rects := SelectionToPageRects(sel, container); rects != nil {
		t.Fatalf("expected degenerate rect to be dropped, got %v", rects)
	}
}

func TestSelectionToPageRects_EmptySelection(t *testing.T) {
	container := domain.Rect{X: 0, Y: 0, Width: 800, Height: 1000}

	if rects := SelectionToPageRects(NewSelection(""), container); rects != nil {
		t.Fatalf("expected nil for empty selection, got %v", rects)
	}
	if rects := SelectionToPageRects(nil, container); rects != nil {
		t.Fatalf("expected nil for nil selection, got %v", rects)
	}
}

func TestSelectionToPageRects_ClippedToUnitBounds(t *testing.T) {
	container := domain.Rect{X: 100, Y: 100, Width: 400, Height: 600}
	// Straddles the container's right and top edges.
	sel := NewSelection("overhang", domain.Rect{X: 450, Y: 80, Width: 200, Height: 60})

	rects := SelectionToPageRects(sel, container)
	if len(rects) != 1 {
		t.Fatalf("expected 1 clipped rect, got %d", len(rects))
	}
	const eps = 1e-9
	for _, r := range rects {
		if r.X < 0 || r.Y < 0 || r.X+r.Width > 1+eps || r.Y+r.Height > 1+eps {
			t.Fatalf("clipped rect escapes unit bounds: %+v", r)
		}
	}
}
