package usecase

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/confract/internal/core/domain"
	"github.com/kirillkom/confract/internal/core/ports"
)

const defaultSubmissionName = "submission.txt"

// SubmitUseCase stores raw input and queues it for the worker.
type SubmitUseCase struct {
	storage ports.ObjectStorage
	queue   ports.MessageQueue
}

func NewSubmitUseCase(storage ports.ObjectStorage, queue ports.MessageQueue) *SubmitUseCase {
	return &SubmitUseCase{
		storage: storage,
		queue:   queue,
	}
}

func (uc *SubmitUseCase) Submit(
	ctx context.Context,
	documentID, filename string,
	body io.Reader,
) (*domain.Submission, error) {
	id := uuid.NewString()
	if strings.TrimSpace(filename) == "" {
		filename = defaultSubmissionName
	}
	storageKey := fmt.Sprintf("%s_%s", id, sanitizeFilename(filename))

	if err := uc.storage.Save(ctx, storageKey, body); err != nil {
		return nil, fmt.Errorf("save to object storage: %w", err)
	}

	sub := &domain.Submission{
		ID:         id,
		DocumentID: strings.TrimSpace(documentID),
		StorageKey: storageKey,
		Filename:   filename,
		CreatedAt:  time.Now().UTC(),
	}
	if err := uc.queue.PublishSubmission(ctx, *sub); err != nil {
		return nil, fmt.Errorf("publish submission event: %w", err)
	}
	return sub, nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." || base == string(filepath.Separator) {
		return defaultSubmissionName
	}
	return base
}
