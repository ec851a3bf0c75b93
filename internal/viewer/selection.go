package viewer

import "pdf-viewer/internal/domain"

// Selection is the concrete domain.TextSelection for this headless engine:
// the embedding surface hands over the selection's text and client rects when
// the gesture completes. It also serves as the synthetic double in tests.
type Selection struct {
	text  string
	rects []domain.Rect
}

// NewSelection builds a selection from its plain text and client-space
// rects. A selection spanning line wraps passes one rect per line fragment.
func NewSelection(text string, rects ...domain.Rect) *Selection {
	return &Selection{text: text, rects: rects}
}

// IsEmpty reports whether the selection is empty or collapsed.
func (s *Selection) IsEmpty() bool {
	return s == nil || s.text == "" || len(s.rects) == 0
}

// ClientRects returns the selection's client-space rectangles.
func (s *Selection) ClientRects() []domain.Rect {
	if s == nil {
		return nil
	}
	return s.rects
}

// PlainText returns the selected text.
func (s *Selection) PlainText() string {
	if s == nil {
		return ""
	}
	return s.text
}
