package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/cvmatch/backend/internal/domain"
)

// Extractor recovers plain text from raw document payloads. It operates
// purely on in-memory buffers and holds no state, so it is safe for
// concurrent use.
type Extractor struct{}

// NewExtractor creates a text extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract converts a RawInput into its extracted text. PDF payloads are
// parsed page by page; text payloads are decoded permissively. An input
// from which no text can be recovered is an error, never an empty success.
func (e *Extractor) Extract(input domain.RawInput) (domain.ExtractedText, error) {
	if err := input.Validate(); err != nil {
		return domain.ExtractedText{}, err
	}

	if input.Kind == domain.PayloadFile && input.PDF {
		text, err := extractPDF(input.Bytes)
		if err != nil {
			return domain.ExtractedText{}, err
		}
		return domain.ExtractedText{Content: text, Source: domain.SourcePDF}, nil
	}

	text := input.Text
	if input.Kind == domain.PayloadFile {
		// Permissive decode: invalid byte sequences are dropped, not fatal.
		text = strings.ToValidUTF8(string(input.Bytes), "")
	}
	if strings.TrimSpace(text) == "" {
		return domain.ExtractedText{}, fmt.Errorf("%w: text is empty", domain.ErrEmptyDocument)
	}
	return domain.ExtractedText{Content: text, Source: domain.SourceText}, nil
}

// extractPDF concatenates per-page text with newline separators. A PDF with
// no extractable text at all (e.g. scanned images) fails extraction.
func extractPDF(content []byte) (text string, err error) {
	// The pdf package panics on some malformed documents.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: malformed pdf: %v", domain.ErrExtraction, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrExtraction, err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, pageErr := page.GetPlainText(nil)
		if pageErr != nil || pageText == "" {
			// A text-free or unreadable page contributes nothing; the
			// document as a whole only fails if every page does.
			continue
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}

	if strings.TrimSpace(sb.String()) == "" {
		return "", fmt.Errorf("%w: pdf contains no extractable text", domain.ErrExtraction)
	}
	return sb.String(), nil
}
