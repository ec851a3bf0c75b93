package viewer

import (
	"context"
	"math"
	"sync"

	"pdf-viewer/internal/domain"

	apperrors "pdf-viewer/pkg/errors"
)

// TextSpan is one run of invisible, selectable text positioned over the
// painted bitmap in display-pixel coordinates, top-left origin.
type TextSpan struct {
	Text     string
	X        float64
	Y        float64
	FontSize float64
}

// PageRenderer renders a single page: it fetches the page handle for the
// current (page, scale) pair, paints the raster into a device-pixel-correct
// canvas, lays out the selectable text overlay and reports its measured
// height to the HeightIndex, closing the virtualization loop.
//
// Every Render call bumps a generation counter; a result arriving for an
// older generation is discarded without touching state, so overlapping
// fetches for the same page can never commit out of order.
type PageRenderer struct {
	number  int
	dpr     float64
	heights *HeightIndex
	logger  domain.Logger

	mu       sync.Mutex
	gen      uint64
	page     domain.Page
	viewport domain.ViewportSize
	canvas   *ImageCanvas
	spans    []TextSpan
	painted  bool
}

// NewPageRenderer creates a renderer for the given 1-based page number.
func NewPageRenderer(number int, devicePixelRatio float64, heights *HeightIndex, logger domain.Logger) *PageRenderer {
	return &PageRenderer{
		number:  number,
		dpr:     devicePixelRatio,
		heights: heights,
		logger:  logger,
	}
}

// Number returns the renderer's 1-based page number.
func (r *PageRenderer) Number() int {
	return r.number
}

// Render fetches the page at scale from doc and rebuilds canvas and text
// layer. Re-issuing Render supersedes any in-flight call for this page: the
// older call's effects are dropped at its next commit point. A fetch or
// paint failure leaves this page blank and is isolated to it; siblings keep
// rendering.
func (r *PageRenderer) Render(ctx context.Context, doc domain.Document, scale float64) error {
	r.mu.Lock()
	r.gen++
	gen := r.gen
	prev := r.page
	r.mu.Unlock()
	if prev != nil {
		prev.Cancel()
	}

	page, err := doc.Page(ctx, r.number, scale)
	if err != nil {
		r.mu.Lock()
		if gen == r.gen {
			r.page = nil
			r.canvas = nil
			r.spans = nil
			r.painted = false
		}
		r.mu.Unlock()
		return apperrors.NewPageFetchError("failed to fetch page", err)
	}

	vp := page.Viewport()
	r.mu.Lock()
	if gen != r.gen {
		r.mu.Unlock()
		page.Cancel()
		return nil
	}
	r.page = page
	r.viewport = vp
	r.painted = false
	// Height reaches the index as soon as the viewport size is known,
	// without waiting for the paint, and under the same generation check
	// as the viewport so a superseded call cannot overwrite a newer
	// measurement after the fact.
	r.heights.Set(r.number, vp.Height)
	r.mu.Unlock()

	canvas := NewImageCanvas(vp, r.dpr)
	canvas.Clear()
	if err := page.Paint(ctx, canvas); err != nil {
		r.logger.Warn("Page paint failed, rendering blank", "page", r.number, "error", err)
		r.commit(gen, canvas, nil, false)
		return apperrors.NewPageFetchError("failed to paint page", err)
	}

	runs, err := page.TextContent(ctx)
	if err != nil {
		r.logger.Warn("Text extraction failed, page not selectable", "page", r.number, "error", err)
		runs = nil
	}
	r.commit(gen, canvas, layoutTextRuns(runs, scale, vp.Height), true)
	return nil
}

// commit installs a finished canvas and text layer unless a newer Render has
// superseded this generation in the meantime.
func (r *PageRenderer) commit(gen uint64, canvas *ImageCanvas, spans []TextSpan, painted bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.gen {
		return
	}
	r.canvas = canvas
	r.spans = spans
	r.painted = painted
}

// Viewport returns the last committed viewport size.
func (r *PageRenderer) Viewport() domain.ViewportSize {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.viewport
}

// Canvas returns the painted canvas, or nil while the page is still loading.
func (r *PageRenderer) Canvas() *ImageCanvas {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.canvas
}

// Spans returns the positioned text layer for native-style selection.
func (r *PageRenderer) Spans() []TextSpan {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.spans
}

// Painted reports whether the bitmap paint has completed.
func (r *PageRenderer) Painted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.painted
}

// Release cancels any in-flight work and drops the page handle and canvas.
// The measured height stays in the HeightIndex.
func (r *PageRenderer) Release() {
	r.mu.Lock()
	r.gen++
	page := r.page
	r.page = nil
	r.canvas = nil
	r.spans = nil
	r.painted = false
	r.mu.Unlock()
	if page != nil {
		page.Cancel()
	}
}

// layoutTextRuns converts extracted runs into display-space spans. The run
// transform [a b c d e f] is in page space with a bottom-left origin:
// fontSize = sqrt(a²+b²)·scale, x = e·scale, and y flips to the viewer's
// top-left origin via pageHeight − f·scale.
func layoutTextRuns(runs []domain.TextRun, scale, pageHeight float64) []TextSpan {
	if len(runs) == 0 {
		return nil
	}
	spans := make([]TextSpan, 0, len(runs))
	for _, run := range runs {
		if run.Text == "" {
			continue
		}
		a, b := run.Transform[0], run.Transform[1]
		e, f := run.Transform[4], run.Transform[5]
		spans = append(spans, TextSpan{
			Text:     run.Text,
			X:        e * scale,
			Y:        pageHeight - f*scale,
			FontSize: math.Sqrt(a*a+b*b) * scale,
		})
	}
	return spans
}
