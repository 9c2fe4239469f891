// Package mcpadapter exposes the structuring pipeline as MCP tools over stdio.
package mcpadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kirillkom/confract/internal/core/domain"
	"github.com/kirillkom/confract/internal/core/ports"
	"github.com/kirillkom/confract/internal/core/render"
	"github.com/kirillkom/confract/internal/core/textutil"
)

const defaultDetectRunes = 600

// Tools holds the ports behind the MCP tools. Documents may be nil, in which case
// list_documents is not registered and detection only sees documents passed inline.
type Tools struct {
	Processor      ports.Processor
	Detector       ports.MatchDetector
	Documents      ports.DocumentService
	DetectMaxRunes int
}

func NewServer(name, version string, tools Tools) *server.MCPServer {
	srv := server.NewMCPServer(name, version, server.WithToolCapabilities(false), server.WithRecovery())
	tools.Register(srv)
	return srv
}

func (t Tools) Register(srv *server.MCPServer) {
	srv.AddTool(mcp.NewTool("structure_text",
		mcp.WithDescription("Structure pasted text into a titled markdown document with typed sections. "+
			"Pass an existing markdown export to drop items it already contains."),
		mcp.WithString("input", mcp.Required(), mcp.Description("Raw text, one item per line")),
		mcp.WithString("existing_markdown", mcp.Description("Optional markdown export of the document to merge into")),
	), t.structureText)

	srv.AddTool(mcp.NewTool("detect_document_match",
		mcp.WithDescription("Find which document the text most likely belongs to."),
		mcp.WithString("input", mcp.Required(), mcp.Description("Raw text to route")),
		mcp.WithArray("documents_markdown",
			mcp.Description("Markdown exports to compare against; stored documents are used when omitted"),
			mcp.WithStringItems(),
		),
	), t.detectDocumentMatch)

	if t.Documents != nil {
		srv.AddTool(mcp.NewTool("list_documents",
			mcp.WithDescription("List stored documents, most recently updated first."),
		), t.listDocuments)
	}
}

func (t Tools) structureText(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := req.RequireString("input")
	if err != nil || strings.TrimSpace(input) == "" {
		return mcp.NewToolResultError("input is required"), nil
	}

	var existing *domain.Document
	if raw := req.GetString("existing_markdown", ""); strings.TrimSpace(raw) != "" {
		doc, err := render.ParseMarkdown(raw)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("existing_markdown: %v", err)), nil
		}
		existing = &doc
	}

	result, err := t.Processor.Process(ctx, strings.TrimSpace(input), existing)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(result)
}

func (t Tools) detectDocumentMatch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := req.RequireString("input")
	if err != nil || strings.TrimSpace(input) == "" {
		return mcp.NewToolResultError("input is required"), nil
	}

	docs, err := t.candidateDocuments(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	limit := t.DetectMaxRunes
	if limit <= 0 {
		limit = defaultDetectRunes
	}
	return jsonResult(t.Detector.DetectMatch(ctx, textutil.Truncate(input, limit), docs))
}

// candidateDocuments parses inline markdown exports, naming them doc-1, doc-2, ... in
// order, or falls back to the document store.
func (t Tools) candidateDocuments(ctx context.Context, req mcp.CallToolRequest) ([]domain.Document, error) {
	inline := stringSlice(req.GetArguments()["documents_markdown"])
	if len(inline) > 0 {
		docs := make([]domain.Document, 0, len(inline))
		for i, raw := range inline {
			doc, err := render.ParseMarkdown(raw)
			if err != nil {
				return nil, fmt.Errorf("documents_markdown[%d]: %w", i, err)
			}
			doc.ID = fmt.Sprintf("doc-%d", i+1)
			docs = append(docs, doc)
		}
		return docs, nil
	}
	if t.Documents == nil {
		return nil, nil
	}
	return t.Documents.List(ctx)
}

type documentSummary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Emoji        string    `json:"emoji"`
	DetectedType string    `json:"detected_type"`
	ItemCount    int       `json:"item_count"`
	UpdatedAt    time.Time `json:"updated"`
}

func (t Tools) listDocuments(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docs, err := t.Documents.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out := make([]documentSummary, 0, len(docs))
	for _, doc := range docs {
		count := 0
		for _, sec := range doc.Sections {
			count += len(sec.Items)
		}
		out = append(out, documentSummary{
			ID:           doc.ID,
			Title:        doc.Title,
			Emoji:        doc.Emoji,
			DetectedType: doc.DetectedType,
			ItemCount:    count,
			UpdatedAt:    doc.UpdatedAt,
		})
	}
	return jsonResult(out)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(raw)), nil
}

func stringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		if typed, ok := v.([]string); ok {
			return typed
		}
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
