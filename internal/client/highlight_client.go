package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/avast/retry-go/v4"

	"pdf-viewer/internal/domain"
)

const listAttempts = 3

// HighlightClient talks to the highlight backend over its wire contract and
// implements domain.HighlightAPI. List is read-only and retried on transient
// failures; Create and Delete are never retried automatically, because the
// store rolls their optimistic state back instead.
type HighlightClient struct {
	baseURL string
	http    *http.Client
	logger  domain.Logger
}

// NewHighlightClient creates a client for the API at baseURL, e.g.
// "http://localhost:8080". Pass nil to use a default HTTP client.
func NewHighlightClient(baseURL string, httpClient *http.Client, logger domain.Logger) *HighlightClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &HighlightClient{baseURL: baseURL, http: httpClient, logger: logger}
}

// List fetches the highlights stored under source, newest-first.
func (c *HighlightClient) List(ctx context.Context, source string) ([]*domain.Highlight, error) {
	endpoint := c.baseURL + "/api/v1/highlights?source=" + url.QueryEscape(source)
	return retry.DoWithData(
		func() ([]*domain.Highlight, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
			if err != nil {
				return nil, err
			}
			resp, err := c.http.Do(req)
			if err != nil {
				return nil, fmt.Errorf("failed to list highlights: %w", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return nil, fmt.Errorf("failed to list highlights: %s", readError(resp))
			}
			var list []*domain.Highlight
			if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
				return nil, fmt.Errorf("failed to decode highlight list: %w", err)
			}
			return list, nil
		},
		retry.Context(ctx),
		retry.Attempts(listAttempts),
		retry.Delay(200*time.Millisecond),
		retry.LastErrorOnly(true),
	)
}

// Create persists a new highlight and returns the server-confirmed entity
// with its assigned id and timestamp.
func (c *HighlightClient) Create(ctx context.Context, draft *domain.HighlightDraft) (*domain.Highlight, error) {
	body, err := json.Marshal(draft)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/highlights", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to create highlight: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("failed to create highlight: %s", readError(resp))
	}
	var created domain.Highlight
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("failed to decode created highlight: %w", err)
	}
	return &created, nil
}

// Delete removes a highlight by id.
func (c *HighlightClient) Delete(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/v1/highlights/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to delete highlight: %w", err)
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusOK:
		return nil
	case http.StatusNotFound:
		return domain.ErrHighlightNotFound
	default:
		return fmt.Errorf("failed to delete highlight: %s", readError(resp))
	}
}

// readError pulls a short error description out of a non-success response.
func readError(resp *http.Response) string {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
		return fmt.Sprintf("%s (status %d)", payload.Error, resp.StatusCode)
	}
	return fmt.Sprintf("status %d", resp.StatusCode)
}
