package usecase

import (
	"context"
	"fmt"
	"log"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/cvmatch/backend/internal/domain"
)

// MatchConfig holds configuration for the match service
type MatchConfig struct {
	EnableDebugLogging bool
}

// MatchService orchestrates the matching pipeline for one CV / job
// description pair: extraction, normalization, embedding similarity and
// skill comparison. It holds no per-request state and is safe for
// concurrent use.
type MatchService struct {
	extractor          domain.TextExtractor
	embedder           domain.Embedder
	enableDebugLogging bool
}

// NewMatchService creates a match service with its collaborators injected.
func NewMatchService(extractor domain.TextExtractor, embedder domain.Embedder, config MatchConfig) *MatchService {
	return &MatchService{
		extractor:          extractor,
		embedder:           embedder,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// documentLeg is the per-document intermediate state of one request.
type documentLeg struct {
	extracted string
	vector    []float64
}

// Match runs the full pipeline for one request. Skill comparison uses the
// raw extracted texts (skill names may contain characters and words the
// embedding normalization strips); similarity uses the embedding-normalized
// texts. Any component failure aborts the request; partial results are
// never returned.
func (s *MatchService) Match(ctx context.Context, cv, jd domain.RawInput) (*domain.MatchResult, error) {
	if err := cv.Validate(); err != nil {
		return nil, fmt.Errorf("cv: %w", err)
	}
	if err := jd.Validate(); err != nil {
		return nil, fmt.Errorf("job description: %w", err)
	}

	// The two documents are independent until the final merge, so their
	// extract/normalize/embed legs run concurrently.
	var cvLeg, jdLeg documentLeg
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		leg, err := s.processDocument(gctx, cv)
		if err != nil {
			return fmt.Errorf("cv: %w", err)
		}
		cvLeg = leg
		return nil
	})
	g.Go(func() error {
		leg, err := s.processDocument(gctx, jd)
		if err != nil {
			return fmt.Errorf("job description: %w", err)
		}
		jdLeg = leg
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	score := Similarity(cvLeg.vector, jdLeg.vector)
	matched, missing := MatchSkills(cvLeg.extracted, jdLeg.extracted)

	if s.enableDebugLogging {
		log.Printf("[MATCH] score=%.4f matched=%d missing=%d dim=%d",
			score, len(matched), len(missing), len(cvLeg.vector))
	}

	return &domain.MatchResult{
		MatchScore:    roundScore(score),
		MatchedSkills: matched,
		MissingSkills: missing,
	}, nil
}

// processDocument runs the extraction and embedding leg for one document.
func (s *MatchService) processDocument(ctx context.Context, in domain.RawInput) (documentLeg, error) {
	extracted, err := s.extractor.Extract(in)
	if err != nil {
		return documentLeg{}, err
	}

	prepared := PreprocessForEmbedding(extracted.Content)
	vector, err := s.embedder.Embed(ctx, prepared)
	if err != nil {
		return documentLeg{}, err
	}

	return documentLeg{extracted: extracted.Content, vector: vector}, nil
}

// ListSkills exposes the full skill taxonomy for informational use.
func (s *MatchService) ListSkills() []string {
	return AllSkills()
}

// roundScore rounds to the 2 decimals the API contract promises.
func roundScore(score float64) float64 {
	return math.Round(score*100) / 100
}
