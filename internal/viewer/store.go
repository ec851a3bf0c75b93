package viewer

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"pdf-viewer/internal/domain"

	apperrors "pdf-viewer/pkg/errors"
)

const (
	// scrollMargin keeps a scrolled-to highlight clear of the viewport top.
	scrollMargin = 80

	defaultFlashDuration = 1500 * time.Millisecond
)

// HighlightStore owns the highlight list for one source key and keeps it in
// sync with the backend using optimistic mutations: local state changes
// first, the network call follows, and a rejection replays the inverse.
// Every list mutation builds a new slice from the previous one, never edits
// in place, so a late-arriving stale closure cannot clobber newer state.
//
// State machine per mutation: Idle → Pending → Committed or RolledBack. The
// only cross-mutation state is the single-flight guard serializing creates.
type HighlightStore struct {
	api      domain.HighlightAPI
	heights  *HeightIndex
	scroller domain.Scroller
	notifier domain.Notifier
	logger   domain.Logger
	flashTTL time.Duration

	mu         sync.Mutex
	source     string
	gen        uint64
	highlights []*domain.Highlight
	creating   bool
	flashID    string
	flashTimer *time.Timer
}

// pendingOp records one optimistic mutation together with the inverse list
// transition that undoes it. Confirmation discards the record; failure
// replays the inverse and fires one notification.
type pendingOp struct {
	inverse func([]*domain.Highlight) []*domain.Highlight
	message string
}

// NewHighlightStore creates a store backed by api. heights and scroller are
// only needed for ScrollToHighlight and may be nil otherwise.
func NewHighlightStore(api domain.HighlightAPI, heights *HeightIndex, scroller domain.Scroller, notifier domain.Notifier, logger domain.Logger) *HighlightStore {
	return &HighlightStore{
		api:      api,
		heights:  heights,
		scroller: scroller,
		notifier: notifier,
		logger:   logger,
		flashTTL: defaultFlashDuration,
	}
}

// SetFlashDuration overrides how long a scrolled-to highlight stays flashed.
func (s *HighlightStore) SetFlashDuration(d time.Duration) {
	if d > 0 {
		s.flashTTL = d
	}
}

// Load replaces the list wholesale with the highlights stored under source.
// Each Load bumps a generation; a slow fetch for a superseded source finds
// the mismatch at commit time and is discarded silently.
func (s *HighlightStore) Load(ctx context.Context, source string) error {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.source = source
	s.highlights = nil
	s.mu.Unlock()

	list, err := s.api.List(ctx, source)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return nil
	}
	if err != nil {
		return apperrors.NewSyncError("failed to load highlights", err)
	}
	s.highlights = list
	return nil
}

// Source returns the source key the store currently serves.
func (s *HighlightStore) Source() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// Highlights returns the current list, newest-first.
func (s *HighlightStore) Highlights() []*domain.Highlight {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Highlight, len(s.highlights))
	copy(out, s.highlights)
	return out
}

// Create derives normalized rects from the selection and persists a new
// highlight on page. The entry appears immediately under a temporary id and
// is swapped for the server-confirmed entity on success; on failure it is
// removed again, restoring the exact pre-optimistic list, and one failure
// notification fires.
//
// No-ops, silently: empty or collapsed selections, selections entirely
// outside container or yielding only degenerate rects, and calls made while
// another create is still pending (single-flight).
func (s *HighlightStore) Create(ctx context.Context, sel domain.TextSelection, page int, container domain.Rect, color, note string) (*domain.Highlight, error) {
	if sel == nil || sel.IsEmpty() {
		return nil, nil
	}
	rects := SelectionToPageRects(sel, container)
	if len(rects) == 0 {
		return nil, nil
	}

	s.mu.Lock()
	if s.creating {
		s.mu.Unlock()
		return nil, nil
	}
	s.creating = true
	temp := &domain.Highlight{
		ID:           "temp-" + uuid.NewString(),
		Source:       s.source,
		Page:         page,
		SelectedText: sel.PlainText(),
		Rects:        rects,
		Color:        color,
		Note:         note,
		CreatedAt:    time.Now(),
		Pending:      true,
	}
	s.highlights = prepend(s.highlights, temp)
	op := pendingOp{
		inverse: func(list []*domain.Highlight) []*domain.Highlight {
			return removeByID(list, temp.ID)
		},
		message: "Failed to save highlight",
	}
	draft := &domain.HighlightDraft{
		Source:       temp.Source,
		Page:         page,
		SelectedText: temp.SelectedText,
		Rects:        rects,
		Color:        color,
		Note:         note,
	}
	s.mu.Unlock()

	created, err := s.api.Create(ctx, draft)

	s.mu.Lock()
	s.creating = false
	if err != nil {
		s.mu.Unlock()
		s.rollback(op)
		return nil, apperrors.NewSyncError("failed to create highlight", err)
	}
	s.highlights = replaceByID(s.highlights, temp.ID, created)
	s.mu.Unlock()
	return created, nil
}

// Delete removes the highlight optimistically. If the backend rejects the
// delete, the full prior list snapshot is restored and one failure
// notification fires. Unknown ids are ignored.
func (s *HighlightStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	snapshot := s.highlights
	next := removeByID(s.highlights, id)
	if len(next) == len(s.highlights) {
		s.mu.Unlock()
		return nil
	}
	s.highlights = next
	s.mu.Unlock()
	// The inverse restores the whole snapshot rather than re-inserting the
	// one entry. Two overlapping deletes can therefore resurrect an
	// already-confirmed removal until the next Load.
	op := pendingOp{
		inverse: func([]*domain.Highlight) []*domain.Highlight {
			return snapshot
		},
		message: "Failed to delete highlight",
	}

	if err := s.api.Delete(ctx, id); err != nil {
		s.rollback(op)
		return apperrors.NewSyncError("failed to delete highlight", err)
	}
	return nil
}

// rollback replays a pending operation's inverse and fires its notification.
func (s *HighlightStore) rollback(op pendingOp) {
	s.mu.Lock()
	s.highlights = op.inverse(s.highlights)
	s.mu.Unlock()
	s.notify(op.message)
}

// ScrollToHighlight resolves the highlight's pixel position from the height
// index and the first rect's y-fraction, scrolls the container there and
// flashes the highlight. Repeated calls replace the flash timer instead of
// stacking new ones.
func (s *HighlightStore) ScrollToHighlight(id string) error {
	s.mu.Lock()
	var target *domain.Highlight
	for _, h := range s.highlights {
		if h.ID == id {
			target = h
			break
		}
	}
	s.mu.Unlock()
	if target == nil {
		return domain.ErrHighlightNotFound
	}
	if s.heights == nil || s.scroller == nil {
		return domain.ErrDocumentNotOpen
	}

	top := s.heights.PageTop(target.Page)
	var offset float64
	if len(target.Rects) > 0 {
		offset = target.Rects[0].Y * s.heights.Get(target.Page)
	}
	position := top + offset - scrollMargin
	if position < 0 {
		position = 0
	}
	s.scroller.ScrollTo(position)

	s.mu.Lock()
	s.flashID = id
	if s.flashTimer != nil {
		s.flashTimer.Stop()
	}
	s.flashTimer = time.AfterFunc(s.flashTTL, func() {
		s.mu.Lock()
		if s.flashID == id {
			s.flashID = ""
		}
		s.mu.Unlock()
	})
	s.mu.Unlock()
	return nil
}

// FlashID returns the id of the currently flashed highlight, if any.
func (s *HighlightStore) FlashID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flashID
}

func (s *HighlightStore) notify(message string) {
	if s.notifier != nil {
		s.notifier.Notify(message)
	}
}

// prepend returns a fresh slice with h in front, keeping newest-first order.
func prepend(list []*domain.Highlight, h *domain.Highlight) []*domain.Highlight {
	out := make([]*domain.Highlight, 0, len(list)+1)
	out = append(out, h)
	return append(out, list...)
}

// removeByID returns a fresh slice without the given id.
func removeByID(list []*domain.Highlight, id string) []*domain.Highlight {
	out := make([]*domain.Highlight, 0, len(list))
	for _, h := range list {
		if h.ID != id {
			out = append(out, h)
		}
	}
	return out
}

// replaceByID returns a fresh slice with the entry of the given id swapped
// for replacement, preserving its position.
func replaceByID(list []*domain.Highlight, id string, replacement *domain.Highlight) []*domain.Highlight {
	out := make([]*domain.Highlight, 0, len(list))
	for _, h := range list {
		if h.ID == id {
			out = append(out, replacement)
		} else {
			out = append(out, h)
		}
	}
	return out
}
