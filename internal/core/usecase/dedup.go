package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kirillkom/confract/internal/core/domain"
	"github.com/kirillkom/confract/internal/core/ports"
	"github.com/kirillkom/confract/internal/core/similarity"
	"github.com/kirillkom/confract/internal/core/textutil"
)

const reasonExactDuplicate = "exact duplicate"

type existingItem struct {
	name       string
	normalized string
	section    string
}

// Deduplicator drops new items already present in an existing document, first by
// normalized name and then by embedding similarity.
type Deduplicator struct {
	embedder ports.Embedder
}

func NewDeduplicator(embedder ports.Embedder) *Deduplicator {
	return &Deduplicator{embedder: embedder}
}

// Deduplicate returns the items to keep, flagged is_new, and a log entry for every
// dropped item. Any embedding failure aborts the whole call.
func (d *Deduplicator) Deduplicate(
	ctx context.Context,
	items []domain.ClassifiedItem,
	existing *domain.Document,
) ([]domain.ClassifiedItem, []domain.ConsolidationLogEntry, error) {
	pool := flattenItems(existing)
	kept := make([]domain.ClassifiedItem, 0, len(items))
	entries := make([]domain.ConsolidationLogEntry, 0)

	var existingVectors [][]float32
	for _, item := range items {
		if match, ok := exactMatch(pool, item.Name); ok {
			entries = append(entries, domain.ConsolidationLogEntry{
				Removed: item.Name,
				KeptAs:  match.name,
				Reason:  reasonExactDuplicate,
				Section: match.section,
			})
			continue
		}

		if len(pool) > 0 {
			if existingVectors == nil {
				vectors, err := d.embedExisting(ctx, pool)
				if err != nil {
					return nil, nil, err
				}
				existingVectors = vectors
			}

			entry, dup, err := d.semanticMatch(ctx, item, pool, existingVectors)
			if err != nil {
				return nil, nil, err
			}
			if dup {
				slog.DebugContext(ctx, "dedup_semantic_match", "removed", entry.Removed, "kept_as", entry.KeptAs, "reason", entry.Reason)
				entries = append(entries, entry)
				continue
			}
		}

		item.IsNew = true
		kept = append(kept, item)
	}
	return kept, entries, nil
}

func (d *Deduplicator) semanticMatch(
	ctx context.Context,
	item domain.ClassifiedItem,
	pool []existingItem,
	vectors [][]float32,
) (domain.ConsolidationLogEntry, bool, error) {
	text := item.Raw
	if text == "" {
		text = textutil.Normalize(item.Name)
	}
	vec, err := d.embedQuery(ctx, text)
	if err != nil {
		return domain.ConsolidationLogEntry{}, false, err
	}

	for i, candidate := range pool {
		score := similarity.Cosine(vec, vectors[i])
		if !similarity.IsDuplicate(score) {
			continue
		}
		return domain.ConsolidationLogEntry{
			Removed: item.Name,
			KeptAs:  candidate.name,
			Reason:  fmt.Sprintf("semantic match (%d%% similar)", similarity.Percent(score)),
			Section: candidate.section,
		}, true, nil
	}
	return domain.ConsolidationLogEntry{}, false, nil
}

func (d *Deduplicator) embedExisting(ctx context.Context, pool []existingItem) ([][]float32, error) {
	if d.embedder == nil {
		return nil, domain.WrapError(domain.ErrEmbeddingUnavailable, "embed existing items", errors.New("embedder is not configured"))
	}
	texts := make([]string, len(pool))
	for i, it := range pool {
		texts[i] = it.normalized
	}
	vectors, err := d.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, domain.WrapError(domain.ErrEmbeddingUnavailable, "embed existing items", err)
	}
	if len(vectors) != len(texts) {
		return nil, domain.WrapError(
			domain.ErrEmbeddingUnavailable,
			"embed existing items",
			fmt.Errorf("vectors/items mismatch: %d/%d", len(vectors), len(texts)),
		)
	}
	return vectors, nil
}

func (d *Deduplicator) embedQuery(ctx context.Context, text string) ([]float32, error) {
	if d.embedder == nil {
		return nil, domain.WrapError(domain.ErrEmbeddingUnavailable, "embed new item", errors.New("embedder is not configured"))
	}
	vec, err := d.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, domain.WrapError(domain.ErrEmbeddingUnavailable, "embed new item", err)
	}
	return vec, nil
}

func flattenItems(doc *domain.Document) []existingItem {
	if doc == nil {
		return nil
	}
	out := make([]existingItem, 0)
	for _, sec := range doc.Sections {
		for _, it := range sec.Items {
			out = append(out, existingItem{
				name:       it.Name,
				normalized: textutil.Normalize(it.Name),
				section:    sec.Title,
			})
		}
	}
	return out
}

func exactMatch(pool []existingItem, name string) (existingItem, bool) {
	key := textutil.Normalize(name)
	for _, it := range pool {
		if it.normalized == key {
			return it, true
		}
	}
	return existingItem{}, false
}
