// Package extractor turns stored submissions into plain text. UTF-8 text is passed
// through; PDFs are detected by extension or magic bytes and flattened page by page.
package extractor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/kirillkom/confract/internal/core/domain"
	"github.com/kirillkom/confract/internal/core/ports"
)

const DefaultMaxBytes = 10 << 20

var pdfMagic = []byte("%PDF-")

type Extractor struct {
	storage  ports.ObjectStorage
	maxBytes int64
}

func New(storage ports.ObjectStorage, maxBytes int64) *Extractor {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Extractor{storage: storage, maxBytes: maxBytes}
}

func (e *Extractor) Extract(ctx context.Context, sub domain.Submission) (string, error) {
	reader, err := e.storage.Open(ctx, sub.StorageKey)
	if err != nil {
		return "", fmt.Errorf("open submission: %w", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(io.LimitReader(reader, e.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read submission: %w", err)
	}
	if int64(len(raw)) > e.maxBytes {
		return "", domain.WrapError(domain.ErrInvalidInput, "read submission", fmt.Errorf("%s exceeds %d bytes", sub.Filename, e.maxBytes))
	}

	if isPDF(sub.Filename, raw) {
		text, err := extractPDF(raw)
		if err != nil {
			return "", domain.WrapError(domain.ErrInvalidInput, "extract pdf", err)
		}
		return strings.TrimSpace(text), nil
	}

	if !utf8.Valid(raw) {
		return "", domain.WrapError(domain.ErrInvalidInput, "extract text", fmt.Errorf("unsupported binary format: %s", sub.Filename))
	}
	return strings.TrimSpace(string(raw)), nil
}

func isPDF(filename string, raw []byte) bool {
	if bytes.HasPrefix(raw, pdfMagic) {
		return true
	}
	return strings.EqualFold(filepath.Ext(filename), ".pdf")
}
