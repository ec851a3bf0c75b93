package domain

import (
	"context"
	"time"
)

// Rect is an axis-aligned rectangle. For stored highlights every component is
// a fraction of the page's own width/height in [0, 1], so the same value
// renders correctly at any zoom and after reload. The same shape is reused
// for client-space pixel rectangles during selection mapping.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Area returns width times height.
func (r Rect) Area() float64 {
	return r.Width * r.Height
}

// Intersects reports whether r and other overlap.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.Width && r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height && r.Y+r.Height > other.Y
}

// Highlight represents a persisted, positioned annotation over one page of a
// viewed document. Highlights are grouped by an opaque source key and ordered
// newest-first by creation time.
type Highlight struct {
	ID           string    `json:"id"`
	Source       string    `json:"source"`
	Page         int       `json:"page"`
	SelectedText string    `json:"selected_text"`
	Rects        []Rect    `json:"rects"`
	Color        string    `json:"color"`
	Note         string    `json:"note"`
	CreatedAt    time.Time `json:"created_at"`

	// Pending marks an optimistic entry that carries a client-generated
	// temporary id and has not been confirmed by the backend yet.
	Pending bool `json:"-"`
}

// HighlightDraft is a highlight-create request before the server has
// assigned an id and timestamp.
type HighlightDraft struct {
	Source       string `json:"source"`
	Page         int    `json:"page"`
	SelectedText string `json:"selected_text"`
	Rects        []Rect `json:"rects"`
	Color        string `json:"color"`
	Note         string `json:"note"`
}

// HighlightAPI is the backend wire contract the viewer core talks to.
// Create and Delete must not be retried automatically; failed calls are
// rolled back client-side instead.
type HighlightAPI interface {
	List(ctx context.Context, source string) ([]*Highlight, error)
	Create(ctx context.Context, draft *HighlightDraft) (*Highlight, error)
	Delete(ctx context.Context, id string) error
}

// HighlightRepository defines persistence operations for highlights on the
// server side of the wire contract.
type HighlightRepository interface {
	Create(ctx context.Context, highlight *Highlight) (*Highlight, error)
	ListBySource(ctx context.Context, source string) ([]*Highlight, error)
	Delete(ctx context.Context, id string) error
}

// HighlightService defines the use-case operations for highlights.
type HighlightService interface {
	CreateHighlight(ctx context.Context, draft *HighlightDraft) (*Highlight, error)
	ListHighlights(ctx context.Context, source string) ([]*Highlight, error)
	DeleteHighlight(ctx context.Context, id string) error
}
