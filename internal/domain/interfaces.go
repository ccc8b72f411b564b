package domain

import "context"

// TextExtractor recovers plain text from a raw document payload.
type TextExtractor interface {
	Extract(input RawInput) (ExtractedText, error)
}

// Embedder maps a normalized text to a fixed-dimension document vector.
// Implementations load their model once and must be safe for concurrent use.
type Embedder interface {
	// Embed generates the document vector for the given text.
	Embed(ctx context.Context, text string) ([]float64, error)

	// Dimension returns the vector dimensionality, or 0 before the first
	// successful embedding.
	Dimension() int
}
