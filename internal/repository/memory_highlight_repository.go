package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"pdf-viewer/internal/domain"
)

// MemoryHighlightRepository implements domain.HighlightRepository in memory.
// Used for development and tests.
type MemoryHighlightRepository struct {
	mu         sync.RWMutex
	highlights map[string]*domain.Highlight
	logger     domain.Logger
}

func NewMemoryHighlightRepository(logger domain.Logger) *MemoryHighlightRepository {
	return &MemoryHighlightRepository{
		highlights: make(map[string]*domain.Highlight),
		logger:     logger,
	}
}

func (r *MemoryHighlightRepository) Create(ctx context.Context, highlight *domain.Highlight) (*domain.Highlight, error) {
	stored := *highlight
	stored.ID = uuid.NewString()
	stored.CreatedAt = time.Now().UTC()

	r.mu.Lock()
	r.highlights[stored.ID] = &stored
	r.mu.Unlock()

	out := stored
	return &out, nil
}

func (r *MemoryHighlightRepository) ListBySource(ctx context.Context, source string) ([]*domain.Highlight, error) {
	r.mu.RLock()
	out := make([]*domain.Highlight, 0)
	for _, h := range r.highlights {
		if h.Source == source {
			copied := *h
			out = append(out, &copied)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryHighlightRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.highlights[id]; !ok {
		return domain.ErrHighlightNotFound
	}
	delete(r.highlights, id)
	return nil
}
