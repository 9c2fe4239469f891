package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kirillkom/confract/internal/core/domain"
	"github.com/kirillkom/confract/internal/core/ports"
	"github.com/kirillkom/confract/internal/core/textutil"
)

const defaultDetectInputRunes = 600

// SubmissionUseCase structures a queued submission and stores the outcome. An explicit
// target document is merged into; otherwise the input is routed by DetectMatch and only
// a high confidence match is merged automatically.
type SubmissionUseCase struct {
	extractor      ports.TextExtractor
	processor      ports.Processor
	detector       ports.MatchDetector
	documents      ports.DocumentService
	detectMaxRunes int
}

func NewSubmissionUseCase(
	extractor ports.TextExtractor,
	processor ports.Processor,
	detector ports.MatchDetector,
	documents ports.DocumentService,
	detectMaxRunes int,
) *SubmissionUseCase {
	if detectMaxRunes <= 0 {
		detectMaxRunes = defaultDetectInputRunes
	}
	return &SubmissionUseCase{
		extractor:      extractor,
		processor:      processor,
		detector:       detector,
		documents:      documents,
		detectMaxRunes: detectMaxRunes,
	}
}

func (uc *SubmissionUseCase) HandleSubmission(ctx context.Context, sub domain.Submission) (*domain.Document, error) {
	text, err := uc.extractor.Extract(ctx, sub)
	if err != nil {
		return nil, fmt.Errorf("extract submission text: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, domain.WrapError(domain.ErrEmptyInput, "extract submission text", fmt.Errorf("submission %s is empty", sub.ID))
	}

	target, err := uc.resolveTarget(ctx, sub, text)
	if err != nil {
		return nil, err
	}

	result, err := uc.processor.Process(ctx, text, target)
	if err != nil {
		return nil, fmt.Errorf("process submission: %w", err)
	}

	if target == nil {
		doc, err := uc.documents.Create(ctx, *result)
		if err != nil {
			return nil, err
		}
		slog.InfoContext(ctx, "submission_created_document", "submission_id", sub.ID, "document_id", doc.ID)
		return doc, nil
	}

	doc, err := uc.documents.MergeInto(ctx, target.ID, *result)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "submission_merged", "submission_id", sub.ID, "document_id", doc.ID, "new_items", result.NewAdditionsCount, "overlaps", result.OverlapCount)
	return doc, nil
}

func (uc *SubmissionUseCase) resolveTarget(ctx context.Context, sub domain.Submission, text string) (*domain.Document, error) {
	if sub.DocumentID != "" {
		doc, err := uc.documents.Get(ctx, sub.DocumentID)
		if err != nil {
			return nil, fmt.Errorf("load target document: %w", err)
		}
		return doc, nil
	}

	docs, err := uc.documents.List(ctx)
	if err != nil {
		return nil, err
	}
	match := uc.detector.DetectMatch(ctx, textutil.Truncate(text, uc.detectMaxRunes), docs)
	if match.Confidence != domain.ConfidenceHigh || match.MatchID == nil {
		return nil, nil
	}
	for i := range docs {
		if docs[i].ID == *match.MatchID {
			return &docs[i], nil
		}
	}
	return nil, nil
}
