package domain

import "errors"

var (
	// ErrInvalidInput is returned when a request carries a malformed input
	// shape, e.g. the wrong payload type for the declared format
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyDocument is returned when a required document is empty or
	// whitespace-only
	ErrEmptyDocument = errors.New("document is empty")

	// ErrExtraction is returned when no text can be recovered from a
	// structurally present document (e.g. a scanned image-only PDF)
	ErrExtraction = errors.New("no text could be extracted")

	// ErrModelUnavailable is returned when the embedding model cannot be
	// reached or initialized
	ErrModelUnavailable = errors.New("embedding model unavailable")

	// ErrEmbeddingFailed is returned when an embedding computation fails
	ErrEmbeddingFailed = errors.New("embedding computation failed")

	// ErrInternal is returned for unexpected faults inside the pipeline
	ErrInternal = errors.New("internal error")
)

// IsUserError reports whether err belongs to the input-validation class that
// the caller can act on, as opposed to a fault on our side.
func IsUserError(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrEmptyDocument)
}
