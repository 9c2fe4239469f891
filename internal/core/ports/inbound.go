package ports

import (
	"context"
	"io"

	"github.com/kirillkom/confract/internal/core/domain"
)

// Processor is the inbound contract for the structuring pipeline.
type Processor interface {
	Process(ctx context.Context, input string, existing *domain.Document) (*domain.ProcessResult, error)
}

// MatchDetector routes raw input to the most similar stored document. It never fails;
// internal errors degrade to a low confidence result.
type MatchDetector interface {
	DetectMatch(ctx context.Context, input string, docs []domain.Document) domain.MatchResult
}

// DocumentService is the inbound contract for the persisted document lifecycle.
type DocumentService interface {
	Create(ctx context.Context, result domain.ProcessResult) (*domain.Document, error)
	Get(ctx context.Context, id string) (*domain.Document, error)
	List(ctx context.Context) ([]domain.Document, error)
	Delete(ctx context.Context, id string) error
	Preview(ctx context.Context, id string, result domain.ProcessResult) (*domain.Document, error)
	MergeInto(ctx context.Context, id string, result domain.ProcessResult) (*domain.Document, error)
	Revert(ctx context.Context, id string, versionIndex int) (*domain.Document, error)
	RestoreItem(ctx context.Context, id, name string) (*domain.Document, error)
}

// SubmissionIngestor accepts raw input for asynchronous structuring.
type SubmissionIngestor interface {
	Submit(ctx context.Context, documentID, filename string, body io.Reader) (*domain.Submission, error)
}

// SubmissionProcessor is the inbound contract of the worker.
type SubmissionProcessor interface {
	HandleSubmission(ctx context.Context, sub domain.Submission) (*domain.Document, error)
}
