package viewer

import "pdf-viewer/internal/domain"

// OverlayRect is one highlight rectangle projected into a page's current
// pixel viewport, ready to draw over the canvas.
type OverlayRect struct {
	HighlightID string
	Color       string
	Ephemeral   bool
	X           float64
	Y           float64
	Width       float64
	Height      float64
}

// ProjectOverlay scales every normalized rect of the highlights on the given
// page into viewport pixels. ephemeral entries (e.g. a transient focus
// marker) are composited alongside persisted ones but flagged so they are
// never sent to the store. Pure: same inputs, same output, any scale.
func ProjectOverlay(highlights, ephemeral []*domain.Highlight, page int, viewport domain.ViewportSize) []OverlayRect {
	var out []OverlayRect
	out = appendProjected(out, highlights, page, viewport, false)
	out = appendProjected(out, ephemeral, page, viewport, true)
	return out
}

func appendProjected(out []OverlayRect, highlights []*domain.Highlight, page int, viewport domain.ViewportSize, ephemeral bool) []OverlayRect {
	for _, h := range highlights {
		if h == nil || h.Page != page {
			continue
		}
		for _, r := range h.Rects {
			out = append(out, OverlayRect{
				HighlightID: h.ID,
				Color:       h.Color,
				Ephemeral:   ephemeral,
				X:           r.X * viewport.Width,
				Y:           r.Y * viewport.Height,
				Width:       r.Width * viewport.Width,
				Height:      r.Height * viewport.Height,
			})
		}
	}
	return out
}
