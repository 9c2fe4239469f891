package usecase

import (
	"context"
	"testing"

	"github.com/kirillkom/confract/internal/core/domain"
)

func docsDocument() *domain.Document {
	return &domain.Document{
		ID:    "doc-docs",
		Title: "Setup Notes",
		Sections: []domain.Section{
			{Title: "Installation", Items: []domain.Item{{Name: "Install Deps"}, {Name: "Setup Deps"}}},
			{Title: "Usage", Items: []domain.Item{{Name: "Run the Server"}}},
		},
	}
}

func TestDeduplicateFirstMatchWins(t *testing.T) {
	embedder := &embedderFake{
		vectors: map[string][]float32{
			"installing dependencies": {1, 0},
			"install deps":            {0.95, 0.31},
			"setup deps":              {1, 0},
			"run the server":          {0, 1},
		},
	}
	d := NewDeduplicator(embedder)
	items := []domain.ClassifiedItem{{Name: "Installing Dependencies", Raw: "installing dependencies", SectionKey: "installation"}}

	kept, log, err := d.Deduplicate(context.Background(), items, docsDocument())
	if err != nil {
		t.Fatalf("Deduplicate() error = %v", err)
	}
	if len(kept) != 0 {
		t.Fatalf("expected item to be dropped, kept %+v", kept)
	}
	want := domain.ConsolidationLogEntry{
		Removed: "Installing Dependencies",
		KeptAs:  "Install Deps",
		Reason:  "semantic match (95% similar)",
		Section: "Installation",
	}
	if len(log) != 1 || log[0] != want {
		t.Fatalf("unexpected log %+v", log)
	}
}

func TestDeduplicateBatchesExistingEmbeddings(t *testing.T) {
	embedder := &embedderFake{
		vectors: map[string][]float32{
			"install deps":   {1, 0, 0},
			"setup deps":     {0, 1, 0},
			"run the server": {0, 0, 1},
		},
		fallback: []float32{0.5, 0.5, -0.7},
	}
	d := NewDeduplicator(embedder)
	items := []domain.ClassifiedItem{
		{Name: "Write Docs", Raw: "write docs"},
		{Name: "Tag a Release", Raw: "tag a release"},
		{Name: "run the server"},
	}

	kept, log, err := d.Deduplicate(context.Background(), items, docsDocument())
	if err != nil {
		t.Fatalf("Deduplicate() error = %v", err)
	}
	if embedder.embedCalls != 1 {
		t.Fatalf("existing items should be embedded once, got %d batch calls", embedder.embedCalls)
	}
	if embedder.queryCalls != 2 {
		t.Fatalf("expected one query per non-exact item, got %d", embedder.queryCalls)
	}
	if len(kept) != 2 || !kept[0].IsNew || !kept[1].IsNew {
		t.Fatalf("unexpected kept items %+v", kept)
	}
	if len(log) != 1 || log[0].Reason != "exact duplicate" || log[0].Section != "Usage" {
		t.Fatalf("unexpected log %+v", log)
	}
}

func TestDeduplicateFallsBackToNormalizedName(t *testing.T) {
	embedder := &embedderFake{fallback: []float32{1, 0}}
	d := NewDeduplicator(embedder)

	_, _, err := d.Deduplicate(context.Background(), []domain.ClassifiedItem{{Name: "Brand-New Item!"}}, docsDocument())
	if err != nil {
		t.Fatalf("Deduplicate() error = %v", err)
	}
	if len(embedder.queried) != 1 || embedder.queried[0] != "brandnew item" {
		t.Fatalf("expected normalized name to be embedded, got %v", embedder.queried)
	}
}

func TestDeduplicateBelowThresholdKeepsItem(t *testing.T) {
	embedder := &embedderFake{
		vectors: map[string][]float32{
			"install tools": {1, 0},
			"install deps":  {0.8, 0.6},
		},
	}
	d := NewDeduplicator(embedder)

	kept, log, err := d.Deduplicate(context.Background(), []domain.ClassifiedItem{{Name: "Install Tools", Raw: "install tools"}}, docsDocument())
	if err != nil {
		t.Fatalf("Deduplicate() error = %v", err)
	}
	if len(kept) != 1 || len(log) != 0 {
		t.Fatalf("80%% similarity must not consolidate, kept=%+v log=%+v", kept, log)
	}
}
