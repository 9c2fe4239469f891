package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrTemporary        = errors.New("temporary failure")

	// ErrEmptyInput is an ErrInvalidInput: blank text or nothing usable after segmentation.
	ErrEmptyInput = fmt.Errorf("%w: no usable content", ErrInvalidInput)

	ErrEmbeddingUnavailable = errors.New("embedding unavailable")
	ErrMalformedDocument    = errors.New("malformed document")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
