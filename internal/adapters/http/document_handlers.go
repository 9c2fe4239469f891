package httpadapter

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/kirillkom/confract/internal/core/domain"
	"github.com/kirillkom/confract/internal/infrastructure/export"
)

type inputRequest struct {
	Input string `json:"input"`
}

type mergeResponse struct {
	Document *domain.Document      `json:"document"`
	Result   *domain.ProcessResult `json:"result"`
}

func (rt *Router) listDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := rt.documents.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (rt *Router) createDocument(w http.ResponseWriter, r *http.Request) {
	var req inputRequest
	if err := rt.decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := requireInput(req.Input); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := rt.runProcess(r, req.Input, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	doc, err := rt.documents.Create(r.Context(), *result)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (rt *Router) getDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := rt.documents.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) deleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := rt.documents.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) mergeDocument(w http.ResponseWriter, r *http.Request) {
	rt.applyInput(w, r, true)
}

func (rt *Router) previewDocument(w http.ResponseWriter, r *http.Request) {
	rt.applyInput(w, r, false)
}

// applyInput runs the pipeline against a stored document and either persists the
// merge or returns it as a preview.
func (rt *Router) applyInput(w http.ResponseWriter, r *http.Request, persist bool) {
	var req inputRequest
	if err := rt.decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := requireInput(req.Input); err != nil {
		writeError(w, r, err)
		return
	}

	id := r.PathValue("id")
	existing, err := rt.documents.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	result, err := rt.runProcess(r, req.Input, existing)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var doc *domain.Document
	if persist {
		doc, err = rt.documents.MergeInto(r.Context(), id, *result)
	} else {
		doc, err = rt.documents.Preview(r.Context(), id, *result)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mergeResponse{Document: doc, Result: result})
}

type revertRequest struct {
	VersionIndex *int `json:"version_index"`
}

func (rt *Router) revertDocument(w http.ResponseWriter, r *http.Request) {
	var req revertRequest
	if err := rt.decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.VersionIndex == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "version_index is required"})
		return
	}

	doc, err := rt.documents.Revert(r.Context(), r.PathValue("id"), *req.VersionIndex)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

type restoreRequest struct {
	Name string `json:"name"`
}

func (rt *Router) restoreItem(w http.ResponseWriter, r *http.Request) {
	var req restoreRequest
	if err := rt.decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	doc, err := rt.documents.RestoreItem(r.Context(), r.PathValue("id"), req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) exportDocument(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	doc, err := rt.documents.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, *doc, format); err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s%s"`, doc.ID, format.Extension()))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
