package viewer

import (
	"math"

	"pdf-viewer/internal/domain"
)

// minRectArea is the normalized-area floor below which a selection fragment
// is considered degenerate and dropped.
const minRectArea = 1e-5

// SelectionToPageRects maps a completed text selection to zoom-independent
// rectangles, each expressed as fractions of the page container's own width
// and height. Fragments outside the container are ignored, fragments
// straddling its edge are clipped so stored rects always stay inside [0, 1],
// and near-zero-area fragments are dropped. Pure and synchronous.
func SelectionToPageRects(sel domain.TextSelection, container domain.Rect) []domain.Rect {
	if sel == nil || sel.IsEmpty() {
		return nil
	}
	if container.Width <= 0 || container.Height <= 0 {
		return nil
	}

	var rects []domain.Rect
	for _, client := range sel.ClientRects() {
		if !client.Intersects(container) {
			continue
		}
		clipped := clip(client, container)
		normalized := domain.Rect{
			X:      (clipped.X - container.X) / container.Width,
			Y:      (clipped.Y - container.Y) / container.Height,
			Width:  clipped.Width / container.Width,
			Height: clipped.Height / container.Height,
		}
		if normalized.Area() < minRectArea {
			continue
		}
		rects = append(rects, normalized)
	}
	return rects
}

// clip returns the intersection of r with bounds.
func clip(r, bounds domain.Rect) domain.Rect {
	x1 := math.Max(r.X, bounds.X)
	y1 := math.Max(r.Y, bounds.Y)
	x2 := math.Min(r.X+r.Width, bounds.X+bounds.Width)
	y2 := math.Min(r.Y+r.Height, bounds.Y+bounds.Height)
	return domain.Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}
