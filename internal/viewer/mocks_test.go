package viewer

import (
	"context"
	"fmt"
	"sync"

	"pdf-viewer/internal/domain"
)

// Mock logger used by viewer package tests.
type mockLogger struct{}

func (l *mockLogger) Info(msg string, fields ...interface{})             {}
func (l *mockLogger) Error(msg string, err error, fields ...interface{}) {}
func (l *mockLogger) Debug(msg string, fields ...interface{})            {}
func (l *mockLogger) Warn(msg string, fields ...interface{})             {}

// fakeSource serves synthetic documents with fixed page sizes.
type fakeSource struct {
	mu         sync.Mutex
	pageCount  int
	pageWidth  float64
	pageHeight float64
	openErr    error
	openGate   chan struct{} // when set, Open blocks until closed
	opened     []string
}

func newFakeSource(pageCount int, pageWidth, pageHeight float64) *fakeSource {
	return &fakeSource{pageCount: pageCount, pageWidth: pageWidth, pageHeight: pageHeight}
}

func (s *fakeSource) Open(ctx context.Context, ref string) (domain.Document, error) {
	s.mu.Lock()
	gate := s.openGate
	s.opened = append(s.opened, ref)
	s.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if s.openErr != nil {
		return nil, s.openErr
	}
	return &fakeDocument{source: s, ref: ref}, nil
}

type fakeDocument struct {
	source *fakeSource
	ref    string
	mu     sync.Mutex
	closed bool
	pages  []*fakePage
}

func (d *fakeDocument) PageCount() int { return d.source.pageCount }

func (d *fakeDocument) Page(ctx context.Context, number int, scale float64) (domain.Page, error) {
	if number < 1 || number > d.source.pageCount {
		return nil, domain.ErrPageOutOfRange
	}
	p := &fakePage{
		viewport: domain.ViewportSize{
			Width:  d.source.pageWidth * scale,
			Height: d.source.pageHeight * scale,
		},
		runs: []domain.TextRun{
			{Text: fmt.Sprintf("page %d", number), Transform: [6]float64{12, 0, 0, 12, 36, d.source.pageHeight - 48}},
		},
	}
	d.mu.Lock()
	d.pages = append(d.pages, p)
	d.mu.Unlock()
	return p, nil
}

func (d *fakeDocument) Close() error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	return nil
}

func (d *fakeDocument) isClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

type fakePage struct {
	viewport  domain.ViewportSize
	runs      []domain.TextRun
	paintErr  error
	textErr   error
	mu        sync.Mutex
	painted   int
	cancelled int
}

func (p *fakePage) Viewport() domain.ViewportSize { return p.viewport }

func (p *fakePage) Paint(ctx context.Context, canvas domain.Canvas) error {
	if p.paintErr != nil {
		return p.paintErr
	}
	p.mu.Lock()
	p.painted++
	p.mu.Unlock()
	return nil
}

func (p *fakePage) TextContent(ctx context.Context) ([]domain.TextRun, error) {
	if p.textErr != nil {
		return nil, p.textErr
	}
	return p.runs, nil
}

func (p *fakePage) Cancel() {
	p.mu.Lock()
	p.cancelled++
	p.mu.Unlock()
}

func (p *fakePage) cancelCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancelled
}

// mockHighlightAPI is an in-memory backend double with per-call gates and
// failure switches.
type mockHighlightAPI struct {
	mu         sync.Mutex
	lists      map[string][]*domain.Highlight
	listErr    error
	createErr  error
	deleteErr  error
	listGate   chan struct{} // when set, List blocks until closed
	createGate chan struct{} // when set, Create blocks until closed
	creates    int
	deletes    []string
	nextID     int
}

func newMockHighlightAPI() *mockHighlightAPI {
	return &mockHighlightAPI{lists: make(map[string][]*domain.Highlight)}
}

func (m *mockHighlightAPI) List(ctx context.Context, source string) ([]*domain.Highlight, error) {
	m.mu.Lock()
	gate := m.listGate
	m.mu.Unlock()
	if gate != nil {
		<-gate
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]*domain.Highlight, len(m.lists[source]))
	copy(out, m.lists[source])
	return out, nil
}

func (m *mockHighlightAPI) Create(ctx context.Context, draft *domain.HighlightDraft) (*domain.Highlight, error) {
	m.mu.Lock()
	gate := m.createGate
	m.creates++
	m.mu.Unlock()
	if gate != nil {
		<-gate
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.nextID++
	return &domain.Highlight{
		ID:           fmt.Sprintf("srv-%d", m.nextID),
		Source:       draft.Source,
		Page:         draft.Page,
		SelectedText: draft.SelectedText,
		Rects:        draft.Rects,
		Color:        draft.Color,
		Note:         draft.Note,
	}, nil
}

func (m *mockHighlightAPI) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = append(m.deletes, id)
	return m.deleteErr
}

type mockScroller struct {
	mu      sync.Mutex
	offsets []float64
}

func (s *mockScroller) ScrollTo(offset float64) {
	s.mu.Lock()
	s.offsets = append(s.offsets, offset)
	s.mu.Unlock()
}

func (s *mockScroller) last() (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.offsets) == 0 {
		return 0, false
	}
	return s.offsets[len(s.offsets)-1], true
}

type mockNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *mockNotifier) Notify(message string) {
	n.mu.Lock()
	n.messages = append(n.messages, message)
	n.mu.Unlock()
}

func (n *mockNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}
