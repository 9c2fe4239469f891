package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/confract/internal/core/domain"
	"github.com/kirillkom/confract/internal/core/ports"
)

// DocumentUseCase owns the persisted document lifecycle: creation from a pipeline
// result, merges with version snapshots, previews and reverts.
type DocumentUseCase struct {
	repo         ports.DocumentRepository
	versionLimit int
	now          func() time.Time
}

func NewDocumentUseCase(repo ports.DocumentRepository, versionLimit int) *DocumentUseCase {
	if versionLimit <= 0 {
		versionLimit = domain.DefaultVersionLimit
	}
	return &DocumentUseCase{
		repo:         repo,
		versionLimit: versionLimit,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (uc *DocumentUseCase) Create(ctx context.Context, result domain.ProcessResult) (*domain.Document, error) {
	doc := domain.NewDocument(uuid.NewString(), result, uc.now())
	if err := uc.repo.Create(ctx, &doc); err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	return &doc, nil
}

func (uc *DocumentUseCase) Get(ctx context.Context, id string) (*domain.Document, error) {
	doc, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (uc *DocumentUseCase) List(ctx context.Context) ([]domain.Document, error) {
	docs, err := uc.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

func (uc *DocumentUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, strings.TrimSpace(id)); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// Preview returns the document as it would look after merging result. Nothing is stored.
func (uc *DocumentUseCase) Preview(ctx context.Context, id string, result domain.ProcessResult) (*domain.Document, error) {
	doc, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	merged := domain.Merge(*doc, result, uc.now())
	return &merged, nil
}

func (uc *DocumentUseCase) MergeInto(ctx context.Context, id string, result domain.ProcessResult) (*domain.Document, error) {
	doc, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	snapshot := domain.PushVersion(*doc, "Before merge: "+now.Format(time.RFC3339), now, uc.versionLimit)
	merged := domain.Merge(snapshot, result, now)
	if err := uc.repo.Update(ctx, &merged); err != nil {
		return nil, fmt.Errorf("update merged document: %w", err)
	}
	return &merged, nil
}

func (uc *DocumentUseCase) Revert(ctx context.Context, id string, versionIndex int) (*domain.Document, error) {
	doc, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}

	reverted, err := domain.Revert(*doc, versionIndex, uc.now(), uc.versionLimit)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, &reverted); err != nil {
		return nil, fmt.Errorf("update reverted document: %w", err)
	}
	return &reverted, nil
}

// RestoreItem brings back an item that consolidation removed. The prior state is kept
// as a version so the restore can itself be reverted.
func (uc *DocumentUseCase) RestoreItem(ctx context.Context, id, name string) (*domain.Document, error) {
	doc, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	snapshot := domain.PushVersion(*doc, "Before restore: "+strings.TrimSpace(name), now, uc.versionLimit)
	restored, err := domain.RestoreItem(snapshot, name, now)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, &restored); err != nil {
		return nil, fmt.Errorf("update restored document: %w", err)
	}
	return &restored, nil
}

func (uc *DocumentUseCase) load(ctx context.Context, id string) (*domain.Document, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "load document", fmt.Errorf("document id is required"))
	}
	doc, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch document by id: %w", err)
	}
	return doc, nil
}
