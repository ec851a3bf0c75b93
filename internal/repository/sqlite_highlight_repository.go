package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"pdf-viewer/internal/domain"
)

const highlightSchema = `
CREATE TABLE IF NOT EXISTS highlights (
	id TEXT PRIMARY KEY,
	source TEXT NOT NULL,
	page INTEGER NOT NULL,
	selected_text TEXT NOT NULL,
	rects TEXT NOT NULL,
	color TEXT,
	note TEXT,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_highlights_source ON highlights(source);`

// SQLiteHighlightRepository implements domain.HighlightRepository on a local
// SQLite database. Rects are stored as a JSON column, the normalized values
// are opaque to the storage layer.
type SQLiteHighlightRepository struct {
	db     *sql.DB
	logger domain.Logger
}

// NewSQLiteHighlightRepository opens (and if needed initializes) the
// database at path.
func NewSQLiteHighlightRepository(path string, logger domain.Logger) (*SQLiteHighlightRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if _, err := db.Exec(highlightSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create highlights table: %w", err)
	}
	return &SQLiteHighlightRepository{db: db, logger: logger}, nil
}

func (r *SQLiteHighlightRepository) Create(ctx context.Context, highlight *domain.Highlight) (*domain.Highlight, error) {
	stored := *highlight
	stored.ID = uuid.NewString()
	stored.CreatedAt = time.Now().UTC()

	rects, err := json.Marshal(stored.Rects)
	if err != nil {
		return nil, fmt.Errorf("failed to encode rects: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO highlights (id, source, page, selected_text, rects, color, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		stored.ID, stored.Source, stored.Page, stored.SelectedText, string(rects), stored.Color, stored.Note, stored.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create highlight: %w", err)
	}
	r.logger.Debug("Highlight stored", "highlight_id", stored.ID, "source", stored.Source)
	return &stored, nil
}

func (r *SQLiteHighlightRepository) ListBySource(ctx context.Context, source string) ([]*domain.Highlight, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, source, page, selected_text, rects, color, note, created_at
		 FROM highlights WHERE source = ? ORDER BY created_at DESC, id DESC`, source)
	if err != nil {
		return nil, fmt.Errorf("failed to list highlights: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.Highlight, 0)
	for rows.Next() {
		var h domain.Highlight
		var rects string
		if err := rows.Scan(&h.ID, &h.Source, &h.Page, &h.SelectedText, &rects, &h.Color, &h.Note, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan highlight: %w", err)
		}
		if err := json.Unmarshal([]byte(rects), &h.Rects); err != nil {
			r.logger.Warn("Skipping highlight with malformed rects", "highlight_id", h.ID, "error", err)
			continue
		}
		out = append(out, &h)
	}
	return out, rows.Err()
}

func (r *SQLiteHighlightRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM highlights WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete highlight: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrHighlightNotFound
	}
	return nil
}

// Close releases the underlying database handle.
func (r *SQLiteHighlightRepository) Close() error {
	return r.db.Close()
}
