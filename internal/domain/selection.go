package domain

// TextSelection abstracts a completed text-selection gesture so the
// coordinate mapper and highlight store can be exercised without a real
// browser selection. Selections are transient: consumed once to derive a
// highlight-create request, then discarded.
type TextSelection interface {
	IsEmpty() bool
	// ClientRects returns the selection's rectangles in client (screen
	// pixel) space. A selection spanning line wraps yields one rect per
	// line fragment.
	ClientRects() []Rect
	PlainText() string
}
