package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gen2brain/go-fitz"

	"pdf-viewer/internal/domain"
)

const (
	// baseDPI is the resolution at which page bounds equal PDF points.
	baseDPI = 72

	// textTimeout bounds per-page text extraction; a page that takes
	// longer renders without a selectable layer instead of stalling the
	// viewer.
	textTimeout = 30 * time.Second

	// Synthesized text-run layout. go-fitz exposes page text without glyph
	// positions, so runs are emitted per line with line-granular matrices
	// in page space (bottom-left origin), one line step apart.
	runFontSize   = 11.0
	runLineHeight = 14.0
	runMargin     = 36.0
)

// FitzSource opens paginated documents through MuPDF. It accepts file paths
// and http(s) URLs and satisfies domain.PageSource.
type FitzSource struct {
	logger domain.Logger
	client *http.Client
}

// NewFitzSource creates a source fetching remote documents with the given
// client; pass nil for http.DefaultClient.
func NewFitzSource(client *http.Client, logger domain.Logger) *FitzSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &FitzSource{logger: logger, client: client}
}

// Open fetches ref and opens it as a document.
func (s *FitzSource) Open(ctx context.Context, ref string) (domain.Document, error) {
	data, err := s.fetch(ctx, ref)
	if err != nil {
		return nil, err
	}
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	d := &fitzDocument{doc: doc, pageCount: doc.NumPage(), logger: s.logger}
	s.logger.Debug("Document opened", "ref", ref, "pages", d.pageCount, "bytes", len(data))
	return d, nil
}

func (s *FitzSource) fetch(ctx context.Context, ref string) ([]byte, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
		if err != nil {
			return nil, err
		}
		resp, err := s.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch document: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("failed to fetch document: status %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	}
	path := strings.TrimPrefix(ref, "file://")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return data, nil
}

// fitzDocument wraps one open MuPDF document. The underlying handle is not
// safe for concurrent use, so every call into it holds mu; pages rendered in
// parallel serialize here.
type fitzDocument struct {
	mu        sync.Mutex
	doc       *fitz.Document
	pageCount int
	closed    bool
	logger    domain.Logger
}

func (d *fitzDocument) PageCount() int {
	return d.pageCount
}

// Page returns a lazily-painting handle for the 1-based page number at
// scale. The handle is bound to the (page, scale) pair it was fetched for;
// callers re-issue on any change.
func (d *fitzDocument) Page(ctx context.Context, number int, scale float64) (domain.Page, error) {
	if number < 1 || number > d.pageCount {
		return nil, domain.ErrPageOutOfRange
	}
	if scale <= 0 {
		scale = 1
	}
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil, domain.ErrDocumentNotOpen
	}
	bounds, err := d.doc.Bound(number - 1)
	d.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to measure page %d: %w", number, err)
	}

	return &fitzPage{
		doc:    d,
		index:  number - 1,
		scale:  scale,
		pointW: float64(bounds.Dx()),
		pointH: float64(bounds.Dy()),
		viewport: domain.ViewportSize{
			Width:  float64(bounds.Dx()) * scale,
			Height: float64(bounds.Dy()) * scale,
		},
	}, nil
}

func (d *fitzDocument) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	return d.doc.Close()
}

// fitzPage is one (page, scale) handle. Cancel flips a flag checked before
// any result commits: it cancels effects, not the MuPDF work itself, and is
// safe to call at any time.
type fitzPage struct {
	doc       *fitzDocument
	index     int
	scale     float64
	pointW    float64
	pointH    float64
	viewport  domain.ViewportSize
	cancelled atomic.Bool
}

func (p *fitzPage) Viewport() domain.ViewportSize {
	return p.viewport
}

// Paint rasters the page at scale into canvas.
func (p *fitzPage) Paint(ctx context.Context, canvas domain.Canvas) error {
	if p.cancelled.Load() {
		return nil
	}
	p.doc.mu.Lock()
	if p.doc.closed {
		p.doc.mu.Unlock()
		return domain.ErrDocumentNotOpen
	}
	img, err := p.doc.doc.ImageDPI(p.index, baseDPI*p.scale)
	p.doc.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to raster page %d: %w", p.index+1, err)
	}
	if p.cancelled.Load() || ctx.Err() != nil {
		return ctx.Err()
	}
	canvas.DrawImage(img)
	return nil
}

// TextContent extracts the page text as line-granular runs. Extraction runs
// in its own goroutine with a timeout so one stuck page cannot wedge the
// caller.
func (p *fitzPage) TextContent(ctx context.Context) ([]domain.TextRun, error) {
	if p.cancelled.Load() {
		return nil, nil
	}

	type result struct {
		text string
		err  error
	}
	resultCh := make(chan result, 1)
	go func() {
		p.doc.mu.Lock()
		defer p.doc.mu.Unlock()
		if p.doc.closed {
			resultCh <- result{err: domain.ErrDocumentNotOpen}
			return
		}
		text, err := p.doc.doc.Text(p.index)
		resultCh <- result{text: text, err: err}
	}()

	var text string
	select {
	case res := <-resultCh:
		if res.err != nil {
			return nil, fmt.Errorf("failed to extract text from page %d: %w", p.index+1, res.err)
		}
		text = res.text
	case <-time.After(textTimeout):
		p.doc.logger.Warn("Text extraction timeout, page not selectable", "page", p.index+1, "timeout_sec", int(textTimeout.Seconds()))
		return nil, fmt.Errorf("text extraction timeout after %v", textTimeout)
	case <-ctx.Done():
		go func() { <-resultCh }() // drain so the goroutine can exit
		return nil, ctx.Err()
	}

	if p.cancelled.Load() {
		return nil, nil
	}
	return lineRuns(text, p.pointH), nil
}

func (p *fitzPage) Cancel() {
	p.cancelled.Store(true)
}

// lineRuns converts extracted plain text into per-line runs with synthesized
// transform matrices, top line first, stepping down one line height each.
func lineRuns(text string, pageHeight float64) []domain.TextRun {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	var runs []domain.TextRun
	row := 0
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			row++
			continue
		}
		f := pageHeight - runMargin - float64(row)*runLineHeight
		if f < 0 {
			f = 0
		}
		runs = append(runs, domain.TextRun{
			Text:      line,
			Transform: [6]float64{runFontSize, 0, 0, runFontSize, runMargin, f},
		})
		row++
	}
	return runs
}
