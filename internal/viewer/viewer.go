package viewer

import (
	"context"
	"sync"
	"time"

	"pdf-viewer/internal/domain"
)

const (
	// frameInterval caps scroll recomputation at roughly one pass per
	// animation frame.
	frameInterval = 16 * time.Millisecond

	// evictMargin is how far outside the mounted set a page may sit before
	// its handle and canvas are released. Far pages are only de-rendered,
	// their measured heights stay in the index.
	evictMargin = 8
)

// Viewer wires the whole rendering loop for one document: the manager opens
// it, the virtualizer and height index decide which pages to mount, and one
// PageRenderer per mounted page paints and reports its measured height back,
// which feeds the next virtualization pass.
type Viewer struct {
	manager *ViewportManager
	heights *HeightIndex
	logger  domain.Logger
	buffer  float64
	dpr     float64
	now     func() time.Time

	mu             sync.Mutex
	viewportHeight float64
	scrollTop      float64
	pendingScroll  float64
	hasPending     bool
	trailing       *time.Timer
	lastPass       time.Time
	window         VirtualWindow
	renderers      map[int]*PageRenderer
	renderedScale  float64
	unsubscribe    func()
}

// NewViewer builds a viewer around manager. buffer is the virtualization
// margin in pixels above and below the visible area; devicePixelRatio sizes
// every page's canvas backing store.
func NewViewer(manager *ViewportManager, heights *HeightIndex, buffer, devicePixelRatio float64, logger domain.Logger) *Viewer {
	v := &Viewer{
		manager:   manager,
		heights:   heights,
		logger:    logger,
		buffer:    buffer,
		dpr:       devicePixelRatio,
		now:       time.Now,
		renderers: make(map[int]*PageRenderer),
	}
	v.unsubscribe = manager.Subscribe(func(float64) {
		// A scale change invalidates every cached page handle and viewport
		// size; rebuild the mounted window at the new scale.
		v.Refresh(context.Background())
	})
	return v
}

// Open loads a new document and resets all per-document render state.
func (v *Viewer) Open(ctx context.Context, ref string) (int, error) {
	count, err := v.manager.Open(ctx, ref)
	if err != nil {
		return 0, err
	}
	v.mu.Lock()
	for _, r := range v.renderers {
		r.Release()
	}
	v.renderers = make(map[int]*PageRenderer)
	v.window = VirtualWindow{}
	v.scrollTop = 0
	v.hasPending = false
	if v.trailing != nil {
		v.trailing.Stop()
		v.trailing = nil
	}
	v.lastPass = time.Time{}
	v.mu.Unlock()
	v.heights.Reset()
	return count, nil
}

// SetViewportHeight records the visible height of the scroll container.
func (v *Viewer) SetViewportHeight(h float64) {
	v.mu.Lock()
	v.viewportHeight = h
	v.mu.Unlock()
}

// Heights returns the viewer's height index.
func (v *Viewer) Heights() *HeightIndex {
	return v.heights
}

// Manager returns the viewport manager driving this viewer.
func (v *Viewer) Manager() *ViewportManager {
	return v.manager
}

// HandleScroll runs one virtualization pass for the new scroll position.
// Calls arriving faster than one per frame are coalesced: the position is
// remembered and a trailing pass applies it one frame later, so the window
// settles at the last position of a burst even when no further scroll event
// arrives. Safe to call redundantly.
func (v *Viewer) HandleScroll(ctx context.Context, scrollTop float64) VirtualWindow {
	v.mu.Lock()
	if !v.lastPass.IsZero() && v.now().Sub(v.lastPass) < frameInterval {
		v.pendingScroll = scrollTop
		v.hasPending = true
		if v.trailing == nil {
			v.trailing = time.AfterFunc(frameInterval, v.flushPending)
		}
		w := v.window
		v.mu.Unlock()
		return w
	}
	v.lastPass = v.now()
	// The call's own position supersedes anything coalesced earlier in
	// the burst.
	v.hasPending = false
	v.scrollTop = scrollTop
	v.mu.Unlock()

	return v.pass(ctx)
}

// flushPending is the trailing edge of the throttle: once the frame interval
// has elapsed it applies the coalesced position, unless a newer pass already
// consumed it.
func (v *Viewer) flushPending() {
	v.mu.Lock()
	v.trailing = nil
	if !v.hasPending {
		v.mu.Unlock()
		return
	}
	v.hasPending = false
	v.scrollTop = v.pendingScroll
	v.lastPass = v.now()
	v.mu.Unlock()
	v.pass(context.Background())
}

// Refresh recomputes the window at the current scroll position, bypassing
// the frame throttle. A scroll position coalesced by the throttle is applied
// first, not discarded. Used after height measurements or scale changes.
func (v *Viewer) Refresh(ctx context.Context) VirtualWindow {
	v.mu.Lock()
	v.lastPass = v.now()
	if v.hasPending {
		v.scrollTop = v.pendingScroll
		v.hasPending = false
	}
	v.mu.Unlock()
	return v.pass(ctx)
}

// pass computes the window, mounts renderers for it, evicts far pages and
// recomputes the spacers with any heights measured during the pass.
func (v *Viewer) pass(ctx context.Context) VirtualWindow {
	doc := v.manager.Document()
	if doc == nil {
		return VirtualWindow{}
	}
	count := doc.PageCount()
	scale := v.manager.Scale()

	v.mu.Lock()
	scrollTop := v.scrollTop
	viewportHeight := v.viewportHeight
	rescale := scale != v.renderedScale
	v.renderedScale = scale
	v.mu.Unlock()

	window := ComputeWindow(v.heights.Snapshot(count), scrollTop, viewportHeight, v.buffer)
	v.syncRenderers(ctx, doc, window, scale, rescale)

	// Re-derive the spacers from the post-render measurements so the
	// returned window satisfies the height identity against current state.
	window = ComputeWindow(v.heights.Snapshot(count), scrollTop, viewportHeight, v.buffer)

	v.mu.Lock()
	v.window = window
	v.mu.Unlock()
	return window
}

// syncRenderers mounts and renders the window's pages and releases handles
// of pages that drifted beyond the eviction margin. Pages render
// concurrently; each write lands under its own key in the height index.
func (v *Viewer) syncRenderers(ctx context.Context, doc domain.Document, window VirtualWindow, scale float64, rescale bool) {
	if len(window.Mounted) == 0 {
		return
	}

	v.mu.Lock()
	var todo []*PageRenderer
	for _, page := range window.Mounted {
		r, ok := v.renderers[page]
		if !ok {
			r = NewPageRenderer(page, v.dpr, v.heights, v.logger)
			v.renderers[page] = r
			todo = append(todo, r)
		} else if rescale {
			todo = append(todo, r)
		}
	}
	low := window.Mounted[0] - evictMargin
	high := window.Mounted[len(window.Mounted)-1] + evictMargin
	var evict []*PageRenderer
	for page, r := range v.renderers {
		if page < low || page > high {
			evict = append(evict, r)
			delete(v.renderers, page)
		}
	}
	v.mu.Unlock()

	for _, r := range evict {
		r.Release()
	}

	var wg sync.WaitGroup
	for _, r := range todo {
		wg.Add(1)
		go func(r *PageRenderer) {
			defer wg.Done()
			if err := r.Render(ctx, doc, scale); err != nil {
				v.logger.Warn("Page render failed", "page", r.Number(), "error", err)
			}
		}(r)
	}
	wg.Wait()
}

// Window returns the window of the most recent pass.
func (v *Viewer) Window() VirtualWindow {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.window
}

// Renderer returns the live renderer for a page, or nil when the page is
// not mounted.
func (v *Viewer) Renderer(page int) *PageRenderer {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.renderers[page]
}

// Close releases every renderer and the open document.
func (v *Viewer) Close() {
	if v.unsubscribe != nil {
		v.unsubscribe()
	}
	v.mu.Lock()
	if v.trailing != nil {
		v.trailing.Stop()
		v.trailing = nil
	}
	v.hasPending = false
	renderers := v.renderers
	v.renderers = make(map[int]*PageRenderer)
	v.mu.Unlock()
	for _, r := range renderers {
		r.Release()
	}
	v.manager.Close()
}
