package service

import (
	"context"
	"regexp"
	"strings"

	"pdf-viewer/internal/domain"

	apperrors "pdf-viewer/pkg/errors"
)

// rectEpsilon is the slack allowed past the unit square before a stored
// rect is rejected; rounding during normalization can land a hair over 1.
const rectEpsilon = 0.001

// DefaultHighlightColor is applied when a create request carries no color.
const DefaultHighlightColor = "#ffeb3b"

type HighlightService struct {
	repo   domain.HighlightRepository
	logger domain.Logger
}

func NewHighlightService(repo domain.HighlightRepository, logger domain.Logger) domain.HighlightService {
	return &HighlightService{
		repo:   repo,
		logger: logger,
	}
}

func (s *HighlightService) CreateHighlight(ctx context.Context, draft *domain.HighlightDraft) (*domain.Highlight, error) {
	if draft == nil {
		return nil, apperrors.NewValidationError("highlight is required")
	}
	if draft.Source == "" {
		return nil, apperrors.NewValidationError("source is required")
	}
	if draft.SelectedText == "" {
		return nil, apperrors.NewValidationError("selected_text is required")
	}
	if draft.Page < 1 {
		return nil, apperrors.NewValidationError("page must be positive")
	}
	for _, r := range draft.Rects {
		if r.X < 0 || r.Y < 0 || r.Width < 0 || r.Height < 0 ||
			r.X+r.Width > 1+rectEpsilon || r.Y+r.Height > 1+rectEpsilon {
			return nil, apperrors.NewValidationError("rects must be fractions of the page", "each rect must lie within [0,1]")
		}
	}

	color := draft.Color
	if color == "" {
		color = DefaultHighlightColor
	}
	highlight := &domain.Highlight{
		Source:       draft.Source,
		Page:         draft.Page,
		SelectedText: sanitizeText(draft.SelectedText),
		Rects:        draft.Rects,
		Color:        color,
		Note:         sanitizeText(draft.Note),
	}

	created, err := s.repo.Create(ctx, highlight)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Highlight created", "source", created.Source, "page", created.Page, "highlight_id", created.ID)
	return created, nil
}

func (s *HighlightService) ListHighlights(ctx context.Context, source string) ([]*domain.Highlight, error) {
	if source == "" {
		return nil, apperrors.NewValidationError("source is required")
	}
	return s.repo.ListBySource(ctx, source)
}

func (s *HighlightService) DeleteHighlight(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.NewValidationError("highlight id is required")
	}
	return s.repo.Delete(ctx, id)
}

var reControl = regexp.MustCompile(`[\x00]`)

// sanitizeText removes characters that storage backends reject in text
// fields (notably NUL bytes).
func sanitizeText(s string) string {
	if s == "" {
		return s
	}
	s = reControl.ReplaceAllString(s, "")
	// Also remove escaped unicode NUL sequences from extracted content.
	s = strings.ReplaceAll(s, "\\u0000", "")
	s = strings.ReplaceAll(s, "\u0000", "")
	return s
}
