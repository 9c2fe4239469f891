package ports

import (
	"context"
	"io"

	"github.com/kirillkom/confract/internal/core/domain"
)

// Embedder builds vectors for item names, summaries and raw input.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Segmenter splits raw input into clean lines.
type Segmenter interface {
	Segment(input string) []domain.Line
}

// DocumentRepository persists structured documents.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	List(ctx context.Context) ([]domain.Document, error)
	Update(ctx context.Context, doc *domain.Document) error
	Delete(ctx context.Context, id string) error
}

// ObjectStorage stores raw submissions.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes submission events.
type MessageQueue interface {
	PublishSubmission(ctx context.Context, sub domain.Submission) error
	SubscribeSubmissions(ctx context.Context, handler func(context.Context, domain.Submission) error) error
}

// TextExtractor extracts plain text from a stored submission.
type TextExtractor interface {
	Extract(ctx context.Context, sub domain.Submission) (string, error)
}
