package usecase

import (
	"regexp"
	"strings"
)

// Package-level compiled regex patterns for performance
var (
	urlRegex   = regexp.MustCompile(`(?i)(?:https?://|www\.)\S+`)
	emailRegex = regexp.MustCompile(`\S+@\S+`)
	// Letters and digits in any script survive cleaning; documents are not
	// required to be English.
	symbolRegex = regexp.MustCompile(`[^\p{L}\p{N}_\s+#.\-]`)
)

// stopwords are common English function words, used by RemoveStopwords.
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "has": true, "he": true,
	"in": true, "is": true, "it": true, "its": true, "of": true, "on": true,
	"that": true, "the": true, "to": true, "was": true, "will": true,
	"with": true, "this": true, "but": true, "they": true, "have": true,
	"had": true, "what": true, "when": true, "where": true, "who": true,
	"which": true, "why": true, "how": true, "all": true, "each": true,
	"every": true, "both": true, "few": true, "more": true, "most": true,
	"other": true, "some": true, "such": true, "no": true, "nor": true,
	"not": true, "only": true, "own": true, "same": true, "so": true,
	"than": true, "too": true, "very": true, "can": true, "just": true,
	"should": true, "now": true,
}

// Clean lowercases text, strips URL-like and email-like tokens, replaces
// every character outside the alphanumeric/whitespace/+#.- allow-list with a
// space, and collapses whitespace runs. The allow-list preserves tokens like
// "c++", "c#" and "node.js".
func Clean(text string) string {
	t := strings.ToLower(text)
	t = urlRegex.ReplaceAllString(t, "")
	t = emailRegex.ReplaceAllString(t, "")
	t = symbolRegex.ReplaceAllString(t, " ")
	return strings.Join(strings.Fields(t), " ")
}

// PreprocessForEmbedding prepares text for the embedding model. It applies
// Clean only: stopwords are deliberately kept, since function words carry
// distributional signal the encoder needs for document-level similarity.
func PreprocessForEmbedding(text string) string {
	return Clean(text)
}

// RemoveStopwords drops common English stopwords from text. Not part of the
// embedding path; available for keyword-level analysis.
func RemoveStopwords(text string) string {
	words := strings.Fields(text)
	kept := make([]string, 0, len(words))
	for _, word := range words {
		if !stopwords[strings.ToLower(word)] {
			kept = append(kept, word)
		}
	}
	return strings.Join(kept, " ")
}

// Tokenize splits text into whitespace-delimited tokens.
func Tokenize(text string) []string {
	return strings.Fields(text)
}
