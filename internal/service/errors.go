package service

import (
	"errors"
	"fmt"

	"github.com/AashishKarn828/rag-mlops/pkg/rag/session"
)

const (
	CollaboratorEmbedding   = "embedding"
	CollaboratorGeneration  = "generation"
	CollaboratorVectorIndex = "vector_index"
	CollaboratorExtractor   = "extractor"
)

var (
	ErrEmptyDocument       = errors.New("no text could be extracted from the document")
	ErrUnsupportedFileType = errors.New("only PDF and TXT files are supported")
	ErrEmptyQuery          = errors.New("query must not be empty")

	ErrSessionNotFound = session.ErrSessionNotFound
	ErrNotReady        = errors.New("not ready")
)

// ValidationError marks bad caller input. It maps to 400.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return e.Err.Error() }

func (e *ValidationError) Unwrap() error { return e.Err }

func NewValidationError(err error) error {
	return &ValidationError{Err: err}
}

// UpstreamError wraps a failure of an external collaborator and names it.
type UpstreamError struct {
	Collaborator string
	Err          error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Collaborator, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func newUpstreamError(collaborator string, err error) error {
	return &UpstreamError{Collaborator: collaborator, Err: err}
}
