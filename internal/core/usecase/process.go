package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kirillkom/confract/internal/core/classify"
	"github.com/kirillkom/confract/internal/core/domain"
	"github.com/kirillkom/confract/internal/core/ports"
	"github.com/kirillkom/confract/internal/core/render"
)

// ProcessUseCase runs the structuring pipeline: segment, detect the content type,
// classify lines, deduplicate against an existing document, then build sections,
// title and markdown.
type ProcessUseCase struct {
	segmenter ports.Segmenter
	dedup     *Deduplicator
	now       func() time.Time
}

func NewProcessUseCase(segmenter ports.Segmenter, embedder ports.Embedder) *ProcessUseCase {
	return &ProcessUseCase{
		segmenter: segmenter,
		dedup:     NewDeduplicator(embedder),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the clock used for the markdown generation date.
func (uc *ProcessUseCase) WithClock(now func() time.Time) *ProcessUseCase {
	if now != nil {
		uc.now = now
	}
	return uc
}

func (uc *ProcessUseCase) Process(ctx context.Context, input string, existing *domain.Document) (*domain.ProcessResult, error) {
	lines, err := uc.segment(input)
	if err != nil {
		return nil, err
	}

	detection := classify.DetectContentType(input, lines)
	ct := detection.Type
	items := classify.ClassifyLines(lines, ct)

	entries := []domain.ConsolidationLogEntry{}
	if existing != nil {
		items, entries, err = uc.dedup.Deduplicate(ctx, items, existing)
		if err != nil {
			return nil, fmt.Errorf("deduplicate items: %w", err)
		}
	}

	sections := render.BuildSections(items, ct)
	title, emoji := render.GenerateTitle(input, ct, existing)

	return &domain.ProcessResult{
		Title:             title,
		Emoji:             emoji,
		DetectedType:      ct.Label,
		Sections:          sections,
		ConsolidationLog:  entries,
		NewAdditionsCount: len(items),
		OverlapCount:      len(entries),
		Markdown:          render.Markdown(title, sections, uc.now()),
	}, nil
}

func (uc *ProcessUseCase) segment(input string) ([]domain.Line, error) {
	if strings.TrimSpace(input) == "" {
		return nil, domain.WrapError(domain.ErrEmptyInput, "segment input", errors.New("input is blank"))
	}
	lines := uc.segmenter.Segment(input)
	if len(lines) == 0 {
		return nil, domain.WrapError(domain.ErrEmptyInput, "segment input", errors.New("segmentation produced zero lines"))
	}
	return lines, nil
}
