package domain

import "errors"

// Domain errors
var (
	ErrHighlightNotFound = errors.New("highlight not found")
	ErrDocumentNotOpen   = errors.New("document not open")
	ErrOpenSuperseded    = errors.New("open superseded by a newer request")
	ErrPageOutOfRange    = errors.New("page number out of range")
)

// ValidationError represents a validation error with field and message information.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}
