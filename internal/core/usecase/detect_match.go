package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kirillkom/confract/internal/core/domain"
	"github.com/kirillkom/confract/internal/core/ports"
	"github.com/kirillkom/confract/internal/core/similarity"
	"github.com/kirillkom/confract/internal/core/textutil"
)

const (
	summaryItemsPerSection = 6
	summaryMaxRunes        = 400

	reasonNoDocuments     = "No existing documents"
	reasonDetectionFailed = "Detection failed"
	reasonNewTopic        = "Content appears to be a new topic"
)

// DetectMatchUseCase routes raw input to the most similar stored document.
type DetectMatchUseCase struct {
	embedder ports.Embedder
}

func NewDetectMatchUseCase(embedder ports.Embedder) *DetectMatchUseCase {
	return &DetectMatchUseCase{embedder: embedder}
}

func (uc *DetectMatchUseCase) DetectMatch(ctx context.Context, input string, docs []domain.Document) domain.MatchResult {
	if len(docs) == 0 {
		return domain.MatchResult{Confidence: domain.ConfidenceLow, Reason: reasonNoDocuments}
	}

	best, score, err := uc.bestMatch(ctx, input, docs)
	if err != nil {
		slog.WarnContext(ctx, "document_match_degraded", "error", err, "documents", len(docs))
		return domain.MatchResult{Confidence: domain.ConfidenceLow, Reason: reasonDetectionFailed}
	}

	switch {
	case best != nil && score > similarity.HighMatchThreshold:
		id := best.ID
		return domain.MatchResult{
			MatchID:    &id,
			Confidence: domain.ConfidenceHigh,
			Reason:     fmt.Sprintf(`Strong match with "%s" (%d%% similar)`, best.Title, similarity.Percent(score)),
		}
	case best != nil && score > similarity.MediumMatchThreshold:
		id := best.ID
		return domain.MatchResult{
			MatchID:    &id,
			Confidence: domain.ConfidenceMedium,
			Reason:     fmt.Sprintf(`Possible match with "%s" — confirm below`, best.Title),
		}
	default:
		return domain.MatchResult{Confidence: domain.ConfidenceLow, Reason: reasonNewTopic}
	}
}

// bestMatch returns the document with the highest positive similarity to input, or nil.
func (uc *DetectMatchUseCase) bestMatch(ctx context.Context, input string, docs []domain.Document) (*domain.Document, float64, error) {
	if uc.embedder == nil {
		return nil, 0, domain.WrapError(domain.ErrEmbeddingUnavailable, "detect match", errors.New("embedder is not configured"))
	}

	inputVec, err := uc.embedder.EmbedQuery(ctx, input)
	if err != nil {
		return nil, 0, fmt.Errorf("embed input: %w", err)
	}

	summaries := make([]string, len(docs))
	for i := range docs {
		summaries[i] = DocumentSummary(docs[i])
	}
	vectors, err := uc.embedder.Embed(ctx, summaries)
	if err != nil {
		return nil, 0, fmt.Errorf("embed document summaries: %w", err)
	}
	if len(vectors) != len(docs) {
		return nil, 0, fmt.Errorf("vectors/documents mismatch: %d/%d", len(vectors), len(docs))
	}

	var best *domain.Document
	bestScore := 0.0
	for i := range docs {
		if score := similarity.Cosine(inputVec, vectors[i]); score > bestScore {
			best, bestScore = &docs[i], score
		}
	}
	return best, bestScore, nil
}

// DocumentSummary is the text embedded to represent a document during routing: title,
// detected type and every section title with its first item names.
func DocumentSummary(doc domain.Document) string {
	parts := []string{doc.Title, doc.DetectedType}
	for _, sec := range doc.Sections {
		parts = append(parts, sec.Title)
		for i, it := range sec.Items {
			if i == summaryItemsPerSection {
				break
			}
			parts = append(parts, it.Name)
		}
	}
	return textutil.Truncate(strings.Join(parts, " "), summaryMaxRunes)
}
