package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kirillkom/confract/internal/core/domain"
)

type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *DocumentRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026050601)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS confract_documents (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	emoji TEXT NOT NULL DEFAULT '',
	detected_type TEXT NOT NULL DEFAULT '',
	sections JSONB NOT NULL DEFAULT '[]'::jsonb,
	consolidation_log JSONB NOT NULL DEFAULT '[]'::jsonb,
	markdown TEXT NOT NULL DEFAULT '',
	versions JSONB NOT NULL DEFAULT '[]'::jsonb,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_confract_documents_updated_at ON confract_documents(updated_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

const selectColumns = `id, title, emoji, detected_type, sections, consolidation_log, markdown, versions, created_at, updated_at`

func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	payload, err := marshalDocument(doc)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO confract_documents (`+selectColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
`,
		doc.ID, doc.Title, doc.Emoji, doc.DetectedType, payload.sections, payload.log,
		doc.Markdown, payload.versions, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+selectColumns+`
FROM confract_documents
WHERE id = $1
`, id)

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", fmt.Errorf("id=%s", id))
		}
		return nil, err
	}
	return &doc, nil
}

// List returns all documents, most recently updated first.
func (r *DocumentRepository) List(ctx context.Context) ([]domain.Document, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+selectColumns+`
FROM confract_documents
ORDER BY updated_at DESC, id
`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return out, nil
}

func (r *DocumentRepository) Update(ctx context.Context, doc *domain.Document) error {
	payload, err := marshalDocument(doc)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
UPDATE confract_documents
SET title = $2, emoji = $3, detected_type = $4, sections = $5, consolidation_log = $6,
	markdown = $7, versions = $8, updated_at = $9
WHERE id = $1
`,
		doc.ID, doc.Title, doc.Emoji, doc.DetectedType, payload.sections, payload.log,
		doc.Markdown, payload.versions, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	return requireAffected(res, "update document", doc.ID)
}

func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM confract_documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return requireAffected(res, "delete document", id)
}

func requireAffected(res sql.Result, operation, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", operation, err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrDocumentNotFound, operation, fmt.Errorf("id=%s", id))
	}
	return nil
}

type documentPayload struct {
	sections []byte
	log      []byte
	versions []byte
}

func marshalDocument(doc *domain.Document) (documentPayload, error) {
	var (
		out documentPayload
		err error
	)
	if out.sections, err = marshalList(doc.Sections); err != nil {
		return documentPayload{}, fmt.Errorf("marshal sections: %w", err)
	}
	if out.log, err = marshalList(doc.ConsolidationLog); err != nil {
		return documentPayload{}, fmt.Errorf("marshal consolidation log: %w", err)
	}
	if out.versions, err = marshalList(doc.Versions); err != nil {
		return documentPayload{}, fmt.Errorf("marshal versions: %w", err)
	}
	return out, nil
}

// marshalList encodes nil slices as [] so the NOT NULL jsonb columns stay arrays.
func marshalList[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	return json.Marshal(items)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (domain.Document, error) {
	var (
		doc                         domain.Document
		sectionsRaw, logRaw, verRaw []byte
	)
	err := row.Scan(
		&doc.ID, &doc.Title, &doc.Emoji, &doc.DetectedType, &sectionsRaw, &logRaw,
		&doc.Markdown, &verRaw, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Document{}, err
		}
		return domain.Document{}, fmt.Errorf("scan document: %w", err)
	}

	if err := json.Unmarshal(sectionsRaw, &doc.Sections); err != nil {
		return domain.Document{}, fmt.Errorf("unmarshal sections: %w", err)
	}
	if err := json.Unmarshal(logRaw, &doc.ConsolidationLog); err != nil {
		return domain.Document{}, fmt.Errorf("unmarshal consolidation log: %w", err)
	}
	if err := json.Unmarshal(verRaw, &doc.Versions); err != nil {
		return domain.Document{}, fmt.Errorf("unmarshal versions: %w", err)
	}
	return doc, nil
}
