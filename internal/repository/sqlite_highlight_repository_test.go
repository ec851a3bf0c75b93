package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"pdf-viewer/internal/domain"
)

func newTestSQLiteRepository(t *testing.T) *SQLiteHighlightRepository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "highlights.db")
	repo, err := NewSQLiteHighlightRepository(path, testLogger{})
	if err != nil {
		t.Fatalf("failed to open sqlite repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLiteRepositoryRoundTrip(t *testing.T) {
	repo := newTestSQLiteRepository(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, sampleHighlight("doc.pdf", 3))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected server-assigned ID")
	}

	got, err := repo.ListBySource(ctx, "doc.pdf")
	if err != nil {
		t.Fatalf("ListBySource failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 highlight, got %d", len(got))
	}
	if got[0].ID != created.ID {
		t.Fatalf("expected ID %q, got %q", created.ID, got[0].ID)
	}
	if got[0].Page != 3 || got[0].SelectedText != "sample text" {
		t.Fatalf("unexpected highlight: %+v", got[0])
	}
	if len(got[0].Rects) != 1 || got[0].Rects[0].Width != 0.3 {
		t.Fatalf("rects did not survive the round trip: %+v", got[0].Rects)
	}
}

func TestSQLiteRepositoryListFiltersBySource(t *testing.T) {
	repo := newTestSQLiteRepository(t)
	ctx := context.Background()

	if _, err := repo.Create(ctx, sampleHighlight("a.pdf", 1)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := repo.Create(ctx, sampleHighlight("b.pdf", 1)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := repo.ListBySource(ctx, "b.pdf")
	if err != nil {
		t.Fatalf("ListBySource failed: %v", err)
	}
	if len(got) != 1 || got[0].Source != "b.pdf" {
		t.Fatalf("expected only b.pdf highlights, got %+v", got)
	}
}

func TestSQLiteRepositoryDelete(t *testing.T) {
	repo := newTestSQLiteRepository(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, sampleHighlight("doc.pdf", 1))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := repo.Delete(ctx, created.ID); !errors.Is(err, domain.ErrHighlightNotFound) {
		t.Fatalf("expected ErrHighlightNotFound, got %v", err)
	}
}

func TestSQLiteRepositorySkipsMalformedRects(t *testing.T) {
	repo := newTestSQLiteRepository(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, sampleHighlight("doc.pdf", 1))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := repo.db.Exec(`UPDATE highlights SET rects = 'not json' WHERE id = ?`, created.ID); err != nil {
		t.Fatalf("failed to corrupt row: %v", err)
	}

	got, err := repo.ListBySource(ctx, "doc.pdf")
	if err != nil {
		t.Fatalf("ListBySource failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected malformed row to be skipped, got %d rows", len(got))
	}
}
