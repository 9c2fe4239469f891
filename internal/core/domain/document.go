package domain

import "time"

type Item struct {
	Name  string `json:"name"`
	Note  string `json:"note"`
	IsNew bool   `json:"is_new"`
}

type Section struct {
	Title    string `json:"title"`
	Emoji    string `json:"emoji"`
	Category string `json:"category"`
	Items    []Item `json:"items"`
}

// ConsolidationLogEntry records a new item dropped as a duplicate of existing content.
type ConsolidationLogEntry struct {
	Removed string `json:"removed"`
	KeptAs  string `json:"kept_as"`
	Reason  string `json:"reason"`
	Section string `json:"section"`
}

// Version is a snapshot of a document's content taken before a destructive change.
type Version struct {
	Label            string                  `json:"label"`
	CreatedAt        time.Time               `json:"ts"`
	Sections         []Section               `json:"sections"`
	ConsolidationLog []ConsolidationLogEntry `json:"consolidation_log"`
}

type Document struct {
	ID               string                  `json:"id"`
	Title            string                  `json:"title"`
	Emoji            string                  `json:"emoji"`
	DetectedType     string                  `json:"detected_type"`
	Sections         []Section               `json:"sections"`
	ConsolidationLog []ConsolidationLogEntry `json:"consolidation_log"`
	Markdown         string                  `json:"markdown"`
	Versions         []Version               `json:"versions"`
	CreatedAt        time.Time               `json:"created"`
	UpdatedAt        time.Time               `json:"updated"`
}

// ProcessResult is the structured output of one pipeline run.
type ProcessResult struct {
	Title             string                  `json:"title"`
	Emoji             string                  `json:"emoji"`
	DetectedType      string                  `json:"detected_type"`
	Sections          []Section               `json:"sections"`
	ConsolidationLog  []ConsolidationLogEntry `json:"consolidation_log"`
	NewAdditionsCount int                     `json:"new_additions_count"`
	OverlapCount      int                     `json:"overlap_count"`
	Markdown          string                  `json:"markdown"`
}

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

type MatchResult struct {
	MatchID    *string    `json:"match_id"`
	Confidence Confidence `json:"confidence"`
	Reason     string     `json:"reason"`
}

// Submission is a queued raw input waiting for asynchronous structuring.
type Submission struct {
	ID         string    `json:"submission_id"`
	DocumentID string    `json:"document_id,omitempty"`
	StorageKey string    `json:"storage_key"`
	Filename   string    `json:"filename,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
