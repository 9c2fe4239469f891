package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/kirillkom/confract/internal/core/domain"
)

func (rt *Router) decodeJSON(w http.ResponseWriter, r *http.Request, out any) error {
	r.Body = http.MaxBytesReader(w, r.Body, rt.maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.WrapError(domain.ErrInvalidInput, "decode request", fmt.Errorf("body exceeds %d bytes", tooLarge.Limit))
		}
		return domain.WrapError(domain.ErrInvalidInput, "decode request", errors.New("invalid json"))
	}
	return nil
}

// looseDocument accepts client-held documents whose shape may have drifted. Sections
// and items that fail to decode are skipped.
type looseDocument struct {
	ID               string            `json:"id"`
	Title            string            `json:"title"`
	Emoji            string            `json:"emoji"`
	DetectedType     string            `json:"detected_type"`
	Sections         []json.RawMessage `json:"sections"`
	ConsolidationLog []json.RawMessage `json:"consolidation_log"`
}

type looseSection struct {
	Title    string            `json:"title"`
	Emoji    string            `json:"emoji"`
	Category string            `json:"category"`
	Items    []json.RawMessage `json:"items"`
}

// decodeExistingDoc returns nil for absent, null or non-object payloads.
func decodeExistingDoc(ctx context.Context, raw json.RawMessage) *domain.Document {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil
	}
	var loose looseDocument
	if err := json.Unmarshal(raw, &loose); err != nil {
		var minimal struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		}
		if json.Unmarshal(raw, &minimal) != nil {
			return nil
		}
		loose = looseDocument{ID: minimal.ID, Title: minimal.Title}
	}

	doc := &domain.Document{
		ID:           strings.TrimSpace(loose.ID),
		Title:        loose.Title,
		Emoji:        loose.Emoji,
		DetectedType: loose.DetectedType,
		Sections:     make([]domain.Section, 0, len(loose.Sections)),
	}
	var skippedSections, skippedItems, skippedEntries int
	for _, rawSec := range loose.Sections {
		var sec looseSection
		if json.Unmarshal(rawSec, &sec) != nil {
			skippedSections++
			continue
		}
		out := domain.Section{Title: sec.Title, Emoji: sec.Emoji, Category: sec.Category, Items: make([]domain.Item, 0, len(sec.Items))}
		for _, rawItem := range sec.Items {
			var item domain.Item
			if json.Unmarshal(rawItem, &item) != nil || strings.TrimSpace(item.Name) == "" {
				skippedItems++
				continue
			}
			out.Items = append(out.Items, item)
		}
		doc.Sections = append(doc.Sections, out)
	}
	for _, rawEntry := range loose.ConsolidationLog {
		var entry domain.ConsolidationLogEntry
		if json.Unmarshal(rawEntry, &entry) != nil {
			skippedEntries++
			continue
		}
		doc.ConsolidationLog = append(doc.ConsolidationLog, entry)
	}
	if skippedSections+skippedItems+skippedEntries > 0 {
		slog.WarnContext(ctx, "existing_document_partially_decoded",
			"document_id", doc.ID,
			"skipped_sections", skippedSections,
			"skipped_items", skippedItems,
			"skipped_log_entries", skippedEntries,
		)
	}
	return doc
}

func decodeDocuments(ctx context.Context, raw []json.RawMessage) []domain.Document {
	docs := make([]domain.Document, 0, len(raw))
	for _, item := range raw {
		if doc := decodeExistingDoc(ctx, item); doc != nil {
			docs = append(docs, *doc)
		}
	}
	return docs
}
