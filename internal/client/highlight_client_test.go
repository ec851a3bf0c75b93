package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"pdf-viewer/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Info(msg string, fields ...interface{})             {}
func (nopLogger) Error(msg string, err error, fields ...interface{}) {}
func (nopLogger) Debug(msg string, fields ...interface{})            {}
func (nopLogger) Warn(msg string, fields ...interface{})             {}

func TestHighlightClient_List(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/highlights" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("source"); got != "doc-1" {
			t.Errorf("unexpected source %q", got)
		}
		json.NewEncoder(w).Encode([]*domain.Highlight{
			{ID: "h2", Source: "doc-1", Page: 3, SelectedText: "newer"},
			{ID: "h1", Source: "doc-1", Page: 1, SelectedText: "older"},
		})
	}))
	defer srv.Close()

	c := NewHighlightClient(srv.URL, srv.Client(), nopLogger{})
	list, err := c.List(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 2 || list[0].ID != "h2" {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestHighlightClient_ListRetriesTransientFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, `{"error":"busy"}`, http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode([]*domain.Highlight{})
	}))
	defer srv.Close()

	c := NewHighlightClient(srv.URL, srv.Client(), nopLogger{})
	if _, err := c.List(context.Background(), "doc"); err != nil {
		t.Fatalf("expected retries to succeed, got %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestHighlightClient_Create(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		var draft domain.HighlightDraft
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			t.Errorf("bad body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(&domain.Highlight{
			ID:           "srv-9",
			Source:       draft.Source,
			Page:         draft.Page,
			SelectedText: draft.SelectedText,
			Rects:        draft.Rects,
		})
	}))
	defer srv.Close()

	c := NewHighlightClient(srv.URL, srv.Client(), nopLogger{})
	created, err := c.Create(context.Background(), &domain.HighlightDraft{
		Source:       "doc",
		Page:         2,
		SelectedText: "quoted",
		Rects:        []domain.Rect{{X: 0.1, Y: 0.2, Width: 0.3, Height: 0.02}},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID != "srv-9" || created.Page != 2 {
		t.Fatalf("unexpected entity: %+v", created)
	}
}

func TestHighlightClient_CreateDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"error":"rejected"}`, http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewHighlightClient(srv.URL, srv.Client(), nopLogger{})
	if _, err := c.Create(context.Background(), &domain.HighlightDraft{Source: "doc"}); err == nil {
		t.Fatal("expected create error")
	}
	if calls.Load() != 1 {
		t.Fatalf("create must not retry, got %d attempts", calls.Load())
	}
}

func TestHighlightClient_Delete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/v1/highlights/h-1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewHighlightClient(srv.URL, srv.Client(), nopLogger{})
	if err := c.Delete(context.Background(), "h-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
}

func TestHighlightClient_DeleteNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"highlight not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewHighlightClient(srv.URL, srv.Client(), nopLogger{})
	if err := c.Delete(context.Background(), "ghost"); err != domain.ErrHighlightNotFound {
		t.Fatalf("expected ErrHighlightNotFound, got %v", err)
	}
}
