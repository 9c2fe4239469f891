package httpadapter

import (
	"mime"
	"net/http"
	"strings"
)

type submissionRequest struct {
	Input      string `json:"input"`
	DocumentID string `json:"document_id"`
}

// submit accepts either a JSON body {input, document_id} or a multipart upload with a
// "file" part and an optional "document_id" field.
func (rt *Router) submit(w http.ResponseWriter, r *http.Request) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		rt.submitMultipart(w, r)
		return
	}

	var req submissionRequest
	if err := rt.decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := requireInput(req.Input); err != nil {
		writeError(w, r, err)
		return
	}

	sub, err := rt.submissions.Submit(r.Context(), req.DocumentID, "input.txt", strings.NewReader(req.Input))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, sub)
}

func (rt *Router) submitMultipart(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, rt.maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	sub, err := rt.submissions.Submit(r.Context(), r.FormValue("document_id"), header.Filename, file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, sub)
}
