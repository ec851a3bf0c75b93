package domain

import (
	"context"
	"image"
)

// ViewportSize is the pixel extent of a page at the current scale.
type ViewportSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// TextRun is one positioned run of extracted text. Transform carries the
// run's matrix components [a b c d e f] in page space with a bottom-left
// origin, the way document engines report them; consumers flip to the
// viewer's top-left origin.
type TextRun struct {
	Text      string
	Transform [6]float64
}

// Canvas is the pixel target a page paints into. The backing store is sized
// at display size times the device pixel ratio while the logical size stays
// at display size, so output is crisp on high-density screens.
type Canvas interface {
	// DrawImage scales src to fill the backing store.
	DrawImage(src image.Image)
	BackingBounds() image.Rectangle
	LogicalSize() ViewportSize
	Clear()
}

// Page is an opaque handle sufficient to rasterize one page and extract its
// text runs at the scale it was fetched for. Handles are replaced, never
// merged, when the page number or scale changes.
type Page interface {
	Viewport() ViewportSize
	Paint(ctx context.Context, canvas Canvas) error
	TextContent(ctx context.Context) ([]TextRun, error)
	// Cancel discards the effects of any in-flight paint or extraction.
	// Safe to call at any time, any number of times.
	Cancel()
}

// Document is an opened paginated document. Page numbers are 1-based.
type Document interface {
	PageCount() int
	Page(ctx context.Context, number int, scale float64) (Page, error)
	Close() error
}

// PageSource opens paginated documents by URL or file path. It is consumed
// as an opaque collaborator; the viewer core never looks inside it.
type PageSource interface {
	Open(ctx context.Context, ref string) (Document, error)
}

// Scroller is the scroll container the viewer instructs to move.
type Scroller interface {
	ScrollTo(offset float64)
}

// Notifier surfaces one-shot user-visible messages, e.g. sync failures.
type Notifier interface {
	Notify(message string)
}
