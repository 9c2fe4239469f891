package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/confract/internal/core/domain"
	"github.com/kirillkom/confract/internal/core/textutil"
)

type processRequest struct {
	Input       string          `json:"input"`
	ExistingDoc json.RawMessage `json:"existing_doc"`
	// ExistingDocAlt accepts the camelCase key sent by older clients.
	ExistingDocAlt json.RawMessage `json:"existingDoc"`
}

func (req processRequest) existing(ctx context.Context) *domain.Document {
	if doc := decodeExistingDoc(ctx, req.ExistingDoc); doc != nil {
		return doc
	}
	return decodeExistingDoc(ctx, req.ExistingDocAlt)
}

func (rt *Router) process(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if err := rt.decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Input) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No input provided"})
		return
	}

	existing := req.existing(r.Context())
	result, err := rt.runProcess(r, req.Input, existing)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) runProcess(r *http.Request, input string, existing *domain.Document) (*domain.ProcessResult, error) {
	start := time.Now()
	result, err := rt.processor.Process(r.Context(), strings.TrimSpace(input), existing)
	if rt.pipeline != nil {
		rt.pipeline.RecordProcess(result, existing != nil, time.Since(start), err)
	}
	return result, err
}

type detectRequest struct {
	Input string            `json:"input"`
	Docs  []json.RawMessage `json:"docs"`
}

// detect never fails once the body is valid JSON; missing fields yield a low match.
func (rt *Router) detect(w http.ResponseWriter, r *http.Request) {
	var req detectRequest
	if err := rt.decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Input) == "" || req.Docs == nil {
		writeJSON(w, http.StatusOK, domain.MatchResult{Confidence: domain.ConfidenceLow, Reason: "Missing data"})
		return
	}

	match := rt.detector.DetectMatch(r.Context(), textutil.Truncate(req.Input, rt.detectMaxRunes), decodeDocuments(r.Context(), req.Docs))
	if rt.pipeline != nil {
		rt.pipeline.RecordDetect(match.Confidence)
	}
	writeJSON(w, http.StatusOK, match)
}

func requireInput(input string) error {
	if strings.TrimSpace(input) == "" {
		return domain.WrapError(domain.ErrEmptyInput, "read request", errors.New("input is required"))
	}
	return nil
}
