package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kirillkom/confract/internal/core/domain"
)

type processorStub struct {
	input    string
	existing *domain.Document
}

func (p *processorStub) Process(_ context.Context, input string, existing *domain.Document) (*domain.ProcessResult, error) {
	p.input = input
	p.existing = existing
	return &domain.ProcessResult{Title: "Watchlist", Emoji: "🎬", Markdown: "# 🎬 Watchlist\n"}, nil
}

type detectorStub struct {
	input string
	docs  []domain.Document
}

func (d *detectorStub) DetectMatch(_ context.Context, input string, docs []domain.Document) domain.MatchResult {
	d.input = input
	d.docs = docs
	id := docs[0].ID
	return domain.MatchResult{MatchID: &id, Confidence: domain.ConfidenceHigh, Reason: "stub"}
}

func runCLI(t *testing.T, ctx *commandContext, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CONFIG_FILE", "")
	cmd := newRootCommand(ctx)
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestProcessReadsStdinAndPrintsMarkdown(t *testing.T) {
	processor := &processorStub{}
	ctx := &commandContext{processor: processor, detector: &detectorStub{}}

	out, err := runCLI(t, ctx, "Breaking Bad\nThe Wire\n", "process")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if out != "# 🎬 Watchlist\n" {
		t.Fatalf("unexpected output %q", out)
	}
	if processor.input != "Breaking Bad\nThe Wire" || processor.existing != nil {
		t.Fatalf("unexpected processor call: %q %+v", processor.input, processor.existing)
	}
}

func TestProcessTrimsLeadingBlankLines(t *testing.T) {
	processor := &processorStub{}
	ctx := &commandContext{processor: processor, detector: &detectorStub{}}

	if _, err := runCLI(t, ctx, "\nBreaking Bad\nInception\n\n", "process"); err != nil {
		t.Fatalf("process: %v", err)
	}
	if processor.input != "Breaking Bad\nInception" {
		t.Fatalf("input not trimmed: %q", processor.input)
	}

	dir := t.TempDir()
	path := writeFile(t, dir, "input.txt", "  \n\tSeverance\n")
	if _, err := runCLI(t, ctx, "", "process", path); err != nil {
		t.Fatalf("process file: %v", err)
	}
	if processor.input != "Severance" {
		t.Fatalf("file input not trimmed: %q", processor.input)
	}
}

func TestProcessWithExistingAndJSON(t *testing.T) {
	dir := t.TempDir()
	existing := writeFile(t, dir, "watchlist.md", "# 🎬 Watchlist\n\n## 📺 TV Shows\n- Breaking Bad\n")
	input := writeFile(t, dir, "input.txt", "The Wire")

	processor := &processorStub{}
	ctx := &commandContext{processor: processor, detector: &detectorStub{}}

	out, err := runCLI(t, ctx, "", "process", "--existing", existing, "--json", input)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if processor.existing == nil || processor.existing.Title != "🎬 Watchlist" {
		t.Fatalf("existing document not parsed: %+v", processor.existing)
	}
	if len(processor.existing.Sections) != 1 || processor.existing.Sections[0].Items[0].Name != "Breaking Bad" {
		t.Fatalf("unexpected sections %+v", processor.existing.Sections)
	}

	var result domain.ProcessResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode json output: %v (%q)", err, out)
	}
	if result.Title != "Watchlist" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestProcessRejectsMalformedExisting(t *testing.T) {
	dir := t.TempDir()
	existing := writeFile(t, dir, "bad.md", "- orphan item\n")
	ctx := &commandContext{processor: &processorStub{}, detector: &detectorStub{}}

	if _, err := runCLI(t, ctx, "x", "process", "--existing", existing); err == nil {
		t.Fatalf("expected malformed document error")
	}
}

func TestDetectUsesFileNamesAsIDsAndTruncatesInput(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "watchlist.md", "# Watchlist\n\n## 📺 TV Shows\n- Breaking Bad\n")
	b := writeFile(t, dir, "groceries.md", "# Groceries\n\n## 🥦 Produce\n- Apples\n")

	detector := &detectorStub{}
	ctx := &commandContext{processor: &processorStub{}, detector: detector}

	out, err := runCLI(t, ctx, strings.Repeat("a", 1000), "detect", "--doc", a, "--doc", b)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(detector.docs) != 2 || detector.docs[0].ID != "watchlist" || detector.docs[1].ID != "groceries" {
		t.Fatalf("unexpected docs %+v", detector.docs)
	}
	if len(detector.input) != 600 {
		t.Fatalf("expected input truncated to 600 runes, got %d", len(detector.input))
	}

	var result domain.MatchResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode json output: %v", err)
	}
	if result.MatchID == nil || *result.MatchID != "watchlist" || result.Confidence != domain.ConfidenceHigh {
		t.Fatalf("unexpected match %+v", result)
	}
}

func TestLookupPrintsCategory(t *testing.T) {
	out, err := runCLI(t, newCommandContext(), "", "lookup", "Breaking", "Bad")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if strings.TrimSpace(out) != "tv" {
		t.Fatalf("unexpected category %q", out)
	}
}
