// Package export writes stored documents in the formats offered for download.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/kirillkom/confract/internal/core/domain"
	"github.com/kirillkom/confract/internal/core/render"
)

type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatText     Format = "text"
	FormatXLSX     Format = "xlsx"
)

func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case "", "md", FormatMarkdown:
		return FormatMarkdown, nil
	case FormatJSON, FormatXLSX:
		return f, nil
	case "txt", FormatText:
		return FormatText, nil
	default:
		return "", domain.WrapError(domain.ErrInvalidInput, "parse export format", fmt.Errorf("unsupported format %q", raw))
	}
}

func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatText:
		return "text/plain; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/markdown; charset=utf-8"
	}
}

func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatText:
		return ".txt"
	case FormatXLSX:
		return ".xlsx"
	default:
		return ".md"
	}
}

func Write(w io.Writer, doc domain.Document, format Format) error {
	switch format {
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(doc))
		return err
	case FormatJSON:
		return writeJSON(w, doc)
	case FormatText:
		_, err := io.WriteString(w, PlainText(doc))
		return err
	case FormatXLSX:
		return writeXLSX(w, doc)
	default:
		return domain.WrapError(domain.ErrInvalidInput, "export document", fmt.Errorf("unsupported format %q", format))
	}
}

// Markdown re-renders the current sections so merged items are included. The stored
// snapshot is used only for documents without sections.
func Markdown(doc domain.Document) string {
	if len(doc.Sections) == 0 && doc.Markdown != "" {
		return doc.Markdown
	}
	return render.Markdown(doc.Title, doc.Sections, doc.UpdatedAt)
}

type jsonExport struct {
	Title            string                         `json:"title"`
	Sections         []domain.Section               `json:"sections"`
	ConsolidationLog []domain.ConsolidationLogEntry `json:"consolidation_log"`
}

func writeJSON(w io.Writer, doc domain.Document) error {
	out := jsonExport{
		Title:            doc.Title,
		Sections:         doc.Sections,
		ConsolidationLog: doc.ConsolidationLog,
	}
	if out.Sections == nil {
		out.Sections = []domain.Section{}
	}
	if out.ConsolidationLog == nil {
		out.ConsolidationLog = []domain.ConsolidationLogEntry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode json export: %w", err)
	}
	return nil
}

// PlainText underlines headings and numbers items per section.
func PlainText(doc domain.Document) string {
	var b strings.Builder
	b.WriteString(doc.Title + "\n")
	b.WriteString(underline(doc.Title, "=") + "\n\n")
	for _, sec := range doc.Sections {
		b.WriteString(sec.Title + "\n")
		b.WriteString(underline(sec.Title, "-") + "\n")
		for i, item := range sec.Items {
			fmt.Fprintf(&b, "%d. %s", i+1, item.Name)
			if item.Note != "" {
				fmt.Fprintf(&b, " (%s)", item.Note)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func underline(title, mark string) string {
	return strings.Repeat(mark, utf8.RuneCountInString(title))
}
