package usecase

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/kirillkom/confract/internal/core/domain"
	"github.com/kirillkom/confract/internal/core/textutil"
)

type embedderFake struct {
	vectors    map[string][]float32
	fallback   []float32
	err        error
	embedCalls int
	queryCalls int
	queried    []string
}

func (f *embedderFake) vector(text string) []float32 {
	if v, ok := f.vectors[text]; ok {
		return v
	}
	return f.fallback
}

func (f *embedderFake) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.embedCalls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = f.vector(text)
	}
	return out, nil
}

func (f *embedderFake) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	f.queryCalls++
	f.queried = append(f.queried, text)
	if f.err != nil {
		return nil, f.err
	}
	return f.vector(text), nil
}

func (f *embedderFake) calls() int { return f.embedCalls + f.queryCalls }

type lineSegmenterFake struct{}

func (lineSegmenterFake) Segment(input string) []domain.Line {
	out := make([]domain.Line, 0)
	for _, raw := range strings.Split(input, "\n") {
		text := strings.TrimSpace(strings.TrimLeft(raw, "-* "))
		if len([]rune(text)) < 2 {
			continue
		}
		out = append(out, domain.Line{Text: text, Normalized: textutil.Normalize(text), WordCount: textutil.WordCount(text)})
	}
	return out
}

type documentRepoFake struct {
	docs      map[string]domain.Document
	order     []string
	createErr error
	updateErr error
	updates   int
}

func newDocumentRepoFake(docs ...domain.Document) *documentRepoFake {
	f := &documentRepoFake{docs: map[string]domain.Document{}}
	for _, doc := range docs {
		f.docs[doc.ID] = doc.Clone()
		f.order = append(f.order, doc.ID)
	}
	return f
}

func (f *documentRepoFake) Create(_ context.Context, doc *domain.Document) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.docs[doc.ID] = doc.Clone()
	f.order = append(f.order, doc.ID)
	return nil
}

func (f *documentRepoFake) GetByID(_ context.Context, id string) (*domain.Document, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", errors.New(id))
	}
	out := doc.Clone()
	return &out, nil
}

func (f *documentRepoFake) List(context.Context) ([]domain.Document, error) {
	out := make([]domain.Document, 0, len(f.order))
	for _, id := range f.order {
		if doc, ok := f.docs[id]; ok {
			out = append(out, doc.Clone())
		}
	}
	return out, nil
}

func (f *documentRepoFake) Update(_ context.Context, doc *domain.Document) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.docs[doc.ID]; !ok {
		return domain.WrapError(domain.ErrDocumentNotFound, "update document", errors.New(doc.ID))
	}
	f.updates++
	f.docs[doc.ID] = doc.Clone()
	return nil
}

func (f *documentRepoFake) Delete(_ context.Context, id string) error {
	if _, ok := f.docs[id]; !ok {
		return domain.WrapError(domain.ErrDocumentNotFound, "delete document", errors.New(id))
	}
	delete(f.docs, id)
	return nil
}

type storageFake struct {
	savedKey  string
	savedBody string
	files     map[string]string
	err       error
}

func (f *storageFake) Save(_ context.Context, key string, data io.Reader) error {
	if f.err != nil {
		return f.err
	}
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.savedKey = key
	f.savedBody = string(raw)
	return nil
}

func (f *storageFake) Open(_ context.Context, key string) (io.ReadCloser, error) {
	body, ok := f.files[key]
	if !ok {
		return nil, errors.New("missing object")
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

type queueFake struct {
	published []domain.Submission
	err       error
}

func (f *queueFake) PublishSubmission(_ context.Context, sub domain.Submission) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, sub)
	return nil
}

func (f *queueFake) SubscribeSubmissions(context.Context, func(context.Context, domain.Submission) error) error {
	return errors.New("not implemented")
}

type extractorFake struct {
	text string
	err  error
}

func (f *extractorFake) Extract(context.Context, domain.Submission) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type detectorFake struct {
	result domain.MatchResult
	input  string
	docs   int
}

func (f *detectorFake) DetectMatch(_ context.Context, input string, docs []domain.Document) domain.MatchResult {
	f.input = input
	f.docs = len(docs)
	return f.result
}

func watchlistDocument() domain.Document {
	return domain.Document{
		ID:           "doc-watch",
		Title:        "Weekend Watchlist",
		Emoji:        "🎬",
		DetectedType: "Entertainment watchlist",
		Sections: []domain.Section{
			{Title: "TV Shows", Emoji: "📺", Category: "tv", Items: []domain.Item{{Name: "Breaking Bad"}, {Name: "The Wire"}}},
		},
		ConsolidationLog: []domain.ConsolidationLogEntry{},
	}
}
