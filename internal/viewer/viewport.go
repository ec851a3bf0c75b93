package viewer

import (
	"context"
	"sync"

	"pdf-viewer/internal/domain"

	apperrors "pdf-viewer/pkg/errors"
)

// DefaultScale is the zoom applied to a freshly constructed manager.
const DefaultScale = 1.0

// ViewportManager opens documents and owns the page count plus the one zoom
// scale shared by every mounted page. Each viewer gets its own manager, so
// independent viewer instances can coexist; nothing here is process-global.
//
// Opens are generation-counted: a later Open invalidates an earlier one that
// is still pending, so a slow open for a superseded URL can never clobber
// newer state. The counter cancels effects, not in-flight work itself.
type ViewportManager struct {
	source domain.PageSource
	logger domain.Logger

	mu    sync.Mutex
	gen   uint64
	ref   string
	doc   domain.Document
	scale float64
	subs  map[int]func(float64)
	subID int
}

// NewViewportManager creates a manager reading pages from source.
func NewViewportManager(source domain.PageSource, logger domain.Logger) *ViewportManager {
	return &ViewportManager{
		source: source,
		logger: logger,
		scale:  DefaultScale,
		subs:   make(map[int]func(float64)),
	}
}

// Open loads the document behind ref and replaces the current one. If a
// newer Open is issued while this one is in flight, the stale result is
// closed and discarded and ErrOpenSuperseded is returned.
func (m *ViewportManager) Open(ctx context.Context, ref string) (int, error) {
	m.mu.Lock()
	m.gen++
	gen := m.gen
	m.ref = ref
	m.mu.Unlock()

	doc, err := m.source.Open(ctx, ref)

	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		if doc != nil {
			doc.Close()
		}
		return 0, domain.ErrOpenSuperseded
	}
	if err != nil {
		m.doc = nil
		m.mu.Unlock()
		return 0, apperrors.NewLoadError("failed to open document", err)
	}
	old := m.doc
	m.doc = doc
	count := doc.PageCount()
	m.mu.Unlock()

	if old != nil {
		old.Close()
	}
	m.logger.Info("Document opened", "ref", ref, "pages", count)
	return count, nil
}

// Document returns the currently open document, or nil.
func (m *ViewportManager) Document() domain.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doc
}

// PageCount returns the open document's page count, zero when none is open.
func (m *ViewportManager) PageCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.doc == nil {
		return 0
	}
	return m.doc.PageCount()
}

// Scale returns the current zoom scale.
func (m *ViewportManager) Scale() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scale
}

// SetScale replaces the shared zoom scale and notifies every subscriber.
// Pure state replacement: every mounted page depends on the one value, so
// there is nothing to merge. No clamp is enforced here; callers are expected
// to bound it to a sane range such as 0.4 to 4.0.
func (m *ViewportManager) SetScale(scale float64) {
	if scale <= 0 {
		return
	}
	m.mu.Lock()
	m.scale = scale
	subs := make([]func(float64), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn(scale)
	}
}

// Subscribe registers a callback invoked on every scale change and returns
// the function that removes it.
func (m *ViewportManager) Subscribe(fn func(scale float64)) func() {
	m.mu.Lock()
	m.subID++
	id := m.subID
	m.subs[id] = fn
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// Close tears down the open document and invalidates any pending Open.
func (m *ViewportManager) Close() {
	m.mu.Lock()
	m.gen++
	doc := m.doc
	m.doc = nil
	m.mu.Unlock()
	if doc != nil {
		doc.Close()
	}
}
