package domain

import (
	"fmt"
	"sort"
	"strings"
)

// PayloadKind discriminates which payload field of a RawInput is in use.
type PayloadKind int

const (
	// PayloadText means the Text field carries the document.
	PayloadText PayloadKind = iota
	// PayloadFile means the Bytes field carries the document.
	PayloadFile
)

// Source identifies the format a document's text was recovered from.
type Source string

const (
	SourceText Source = "text"
	SourcePDF  Source = "pdf"
)

// RawInput is one document as handed over by the transport layer: either an
// uploaded file payload (possibly PDF-formatted) or a plain text string.
// Exactly one of Bytes/Text is populated, selected by Kind.
type RawInput struct {
	Kind  PayloadKind
	Bytes []byte // file payload; nil for text input
	Text  string // text payload; empty for file input
	PDF   bool   // file payload is PDF-formatted (only meaningful for PayloadFile)
}

// NewTextInput builds a RawInput around an already-decoded text string.
func NewTextInput(text string) RawInput {
	return RawInput{Kind: PayloadText, Text: text}
}

// NewFileInput builds a RawInput around uploaded file content.
func NewFileInput(content []byte, isPDF bool) RawInput {
	return RawInput{Kind: PayloadFile, Bytes: content, PDF: isPDF}
}

// Validate checks the tagged-union invariant: the payload selected by Kind is
// present, the other one is absent, and a text payload is not blank.
func (in RawInput) Validate() error {
	switch in.Kind {
	case PayloadText:
		if in.Bytes != nil {
			return fmt.Errorf("%w: text input must not carry a file payload", ErrInvalidInput)
		}
		if strings.TrimSpace(in.Text) == "" {
			return fmt.Errorf("%w: text is empty", ErrEmptyDocument)
		}
	case PayloadFile:
		if in.Bytes == nil {
			return fmt.Errorf("%w: file input has no content", ErrInvalidInput)
		}
		if in.Text != "" {
			return fmt.Errorf("%w: file input must not carry a text payload", ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unknown payload kind %d", ErrInvalidInput, in.Kind)
	}
	return nil
}

// ExtractedText is the plain text recovered from one RawInput. Content is
// guaranteed non-blank; extraction fails instead of producing an empty result.
type ExtractedText struct {
	Content string
	Source  Source
}

// SkillSet is the set of canonical skill names detected in one document.
type SkillSet map[string]bool

// Sorted returns the set as a lexicographically sorted slice. The result is
// never nil so it serializes as an empty JSON array.
func (s SkillSet) Sorted() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MatchResult is the terminal artifact of one match request.
type MatchResult struct {
	MatchScore    float64  `json:"match_score"`    // normalized similarity in [0,1], 2 decimals
	MatchedSkills []string `json:"matched_skills"` // sorted; present in both documents
	MissingSkills []string `json:"missing_skills"` // sorted; required by the job, absent from the CV
}
