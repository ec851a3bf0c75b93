package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/supabase-community/postgrest-go"

	"pdf-viewer/internal/domain"
)

// SupabaseHighlightRepository implements domain.HighlightRepository backed by
// a Supabase "highlights" table. Rects are stored as a JSON array column.
type SupabaseHighlightRepository struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
}

func NewSupabaseHighlightRepository(supabaseClient domain.SupabaseClient, logger domain.Logger) domain.HighlightRepository {
	return &SupabaseHighlightRepository{
		supabaseClient: supabaseClient,
		logger:         logger,
	}
}

func (r *SupabaseHighlightRepository) Create(ctx context.Context, highlight *domain.Highlight) (*domain.Highlight, error) {
	client := r.supabaseClient.DB()
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	rects := make([]map[string]interface{}, 0, len(highlight.Rects))
	for _, rect := range highlight.Rects {
		rects = append(rects, map[string]interface{}{
			"x":      rect.X,
			"y":      rect.Y,
			"width":  rect.Width,
			"height": rect.Height,
		})
	}

	row := map[string]interface{}{
		"source":        highlight.Source,
		"page":          highlight.Page,
		"selected_text": highlight.SelectedText,
		"rects":         rects,
		"color":         highlight.Color,
		"note":          highlight.Note,
	}

	// Request "representation" so PostgREST returns the inserted row.
	data, _, err := client.From("highlights").
		Insert(row, false, "", "representation", "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to create highlight: %w", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("failed to create highlight: empty response")
	}

	return mapToHighlight(rows[0]), nil
}

func (r *SupabaseHighlightRepository) ListBySource(ctx context.Context, source string) ([]*domain.Highlight, error) {
	client := r.supabaseClient.DB()
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	data, _, err := client.From("highlights").
		Select("*", "", false).
		Eq("source", source).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list highlights: %w", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	out := make([]*domain.Highlight, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapToHighlight(row))
	}
	return out, nil
}

func (r *SupabaseHighlightRepository) Delete(ctx context.Context, id string) error {
	client := r.supabaseClient.DB()
	if client == nil {
		return fmt.Errorf("supabase client not initialized")
	}

	data, _, err := client.From("highlights").
		Delete("representation", "").
		Eq("id", id).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete highlight: %w", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err == nil && len(rows) == 0 {
		return domain.ErrHighlightNotFound
	}
	return nil
}

func mapToHighlight(data map[string]interface{}) *domain.Highlight {
	h := &domain.Highlight{
		ID:           getString(data, "id"),
		Source:       getString(data, "source"),
		SelectedText: getString(data, "selected_text"),
		Color:        getString(data, "color"),
		Note:         getString(data, "note"),
	}

	if p, ok := data["page"]; ok && p != nil {
		switch v := p.(type) {
		case float64:
			h.Page = int(v)
		case int:
			h.Page = v
		case int64:
			h.Page = int(v)
		}
	}

	if raw, ok := data["rects"]; ok && raw != nil {
		if list, ok := raw.([]interface{}); ok {
			for _, item := range list {
				m, ok := item.(map[string]interface{})
				if !ok {
					continue
				}
				h.Rects = append(h.Rects, domain.Rect{
					X:      getFloat(m, "x"),
					Y:      getFloat(m, "y"),
					Width:  getFloat(m, "width"),
					Height: getFloat(m, "height"),
				})
			}
		}
	}

	if createdAt := getString(data, "created_at"); createdAt != "" {
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			h.CreatedAt = t
		} else if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			h.CreatedAt = t
		}
	}

	return h
}

func getString(data map[string]interface{}, key string) string {
	if v, ok := data[key]; ok && v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func getFloat(data map[string]interface{}, key string) float64 {
	if v, ok := data[key]; ok && v != nil {
		if f, ok := v.(float64); ok {
			return f
		}
	}
	return 0
}
