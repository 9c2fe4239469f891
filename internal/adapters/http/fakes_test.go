package httpadapter

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/kirillkom/confract/internal/config"
	"github.com/kirillkom/confract/internal/core/domain"
)

type processorFake struct {
	mu       sync.Mutex
	err      error
	inputs   []string
	existing []*domain.Document
}

func (f *processorFake) Process(_ context.Context, input string, existing *domain.Document) (*domain.ProcessResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, input)
	f.existing = append(f.existing, existing)
	if f.err != nil {
		return nil, f.err
	}
	return &domain.ProcessResult{
		Title:        "Weekend Watchlist",
		Emoji:        "🎬",
		DetectedType: "Watchlist",
		Sections: []domain.Section{{Title: "TV Shows", Emoji: "📺", Category: "tv", Items: []domain.Item{
			{Name: "Severance", IsNew: true},
		}}},
		NewAdditionsCount: 1,
		Markdown:          "# Weekend Watchlist\n",
	}, nil
}

type detectorFake struct {
	input string
	docs  []domain.Document
}

func (f *detectorFake) DetectMatch(_ context.Context, input string, docs []domain.Document) domain.MatchResult {
	f.input = input
	f.docs = docs
	if len(docs) == 0 {
		return domain.MatchResult{Confidence: domain.ConfidenceLow, Reason: "No existing documents"}
	}
	id := docs[0].ID
	return domain.MatchResult{MatchID: &id, Confidence: domain.ConfidenceHigh, Reason: "Strong match"}
}

type documentsFake struct {
	docs map[string]domain.Document
	now  time.Time
}

func newDocumentsFake(docs ...domain.Document) *documentsFake {
	f := &documentsFake{docs: map[string]domain.Document{}, now: time.Date(2026, 5, 6, 0, 0, 0, 0, time.UTC)}
	for _, doc := range docs {
		f.docs[doc.ID] = doc
	}
	return f
}

func (f *documentsFake) Create(_ context.Context, result domain.ProcessResult) (*domain.Document, error) {
	doc := domain.NewDocument("doc-new", result, f.now)
	f.docs[doc.ID] = doc
	return &doc, nil
}

func (f *documentsFake) Get(_ context.Context, id string) (*domain.Document, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", errors.New("id="+id))
	}
	out := doc.Clone()
	return &out, nil
}

func (f *documentsFake) List(context.Context) ([]domain.Document, error) {
	out := make([]domain.Document, 0, len(f.docs))
	for _, doc := range f.docs {
		out = append(out, doc)
	}
	return out, nil
}

func (f *documentsFake) Delete(_ context.Context, id string) error {
	if _, ok := f.docs[id]; !ok {
		return domain.WrapError(domain.ErrDocumentNotFound, "delete document", errors.New("id="+id))
	}
	delete(f.docs, id)
	return nil
}

func (f *documentsFake) Preview(ctx context.Context, id string, result domain.ProcessResult) (*domain.Document, error) {
	doc, err := f.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	merged := domain.Merge(*doc, result, f.now)
	return &merged, nil
}

func (f *documentsFake) MergeInto(ctx context.Context, id string, result domain.ProcessResult) (*domain.Document, error) {
	merged, err := f.Preview(ctx, id, result)
	if err != nil {
		return nil, err
	}
	f.docs[id] = *merged
	return merged, nil
}

func (f *documentsFake) Revert(_ context.Context, id string, index int) (*domain.Document, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	reverted, err := domain.Revert(doc, index, f.now, 0)
	if err != nil {
		return nil, err
	}
	f.docs[id] = reverted
	return &reverted, nil
}

func (f *documentsFake) RestoreItem(_ context.Context, id, name string) (*domain.Document, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	restored, err := domain.RestoreItem(doc, name, f.now)
	if err != nil {
		return nil, err
	}
	f.docs[id] = restored
	return &restored, nil
}

type submissionsFake struct {
	documentID string
	filename   string
	body       string
}

func (f *submissionsFake) Submit(_ context.Context, documentID, filename string, body io.Reader) (*domain.Submission, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	f.documentID, f.filename, f.body = documentID, filename, string(raw)
	return &domain.Submission{ID: "sub-1", DocumentID: documentID, StorageKey: "sub-1_" + filename, Filename: filename}, nil
}

type healthFake struct {
	err error
}

func (f healthFake) Model() string              { return "all-minilm" }
func (f healthFake) Ping(context.Context) error { return f.err }

func watchlistDocument() domain.Document {
	return domain.Document{
		ID:           "doc-watch",
		Title:        "Weekend Watchlist",
		Emoji:        "🎬",
		DetectedType: "Watchlist",
		Sections: []domain.Section{{Title: "TV Shows", Emoji: "📺", Category: "tv", Items: []domain.Item{
			{Name: "Breaking Bad"}, {Name: "The Wire"},
		}}},
		ConsolidationLog: []domain.ConsolidationLogEntry{},
	}
}

type testRouter struct {
	processor   *processorFake
	detector    *detectorFake
	documents   *documentsFake
	submissions *submissionsFake
}

func newTestRouter(cfg config.Config, docs ...domain.Document) (*testRouter, *Router) {
	tr := &testRouter{
		processor:   &processorFake{},
		detector:    &detectorFake{},
		documents:   newDocumentsFake(docs...),
		submissions: &submissionsFake{},
	}
	return tr, NewRouter(cfg, Dependencies{
		Processor:   tr.processor,
		Detector:    tr.detector,
		Documents:   tr.documents,
		Submissions: tr.submissions,
		Health:      healthFake{},
	})
}
