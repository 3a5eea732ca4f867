package models

import (
	"time"
)

// MissingItem is one clause or legal element the analysis flagged as absent.
type MissingItem struct {
	Item   string `json:"item"`
	Reason string `json:"reason"`
}

// AnalysisResult is the structured output of the legal analysis. Every code
// path yields a well-formed value; Degraded marks placeholders substituted
// when the model was skipped or its reply could not be used.
type AnalysisResult struct {
	DocumentType    string        `json:"document_type"`
	AnalysisSummary string        `json:"analysis_summary"`
	MissingItems    []MissingItem `json:"missing_items"`
	Risks           []string      `json:"risks"`

	Degraded bool `json:"-"`
}

// PlaceholderAnalysis builds a degraded result carrying an explanatory
// summary in place of real model output.
func PlaceholderAnalysis(summary string) *AnalysisResult {
	return &AnalysisResult{
		DocumentType:    "Unknown",
		AnalysisSummary: summary,
		MissingItems:    []MissingItem{},
		Risks:           []string{},
		Degraded:        true,
	}
}

// Normalize replaces nil sequences with empty ones so serialized output
// never contains null arrays.
func (a *AnalysisResult) Normalize() {
	if a.MissingItems == nil {
		a.MissingItems = []MissingItem{}
	}
	if a.Risks == nil {
		a.Risks = []string{}
	}
	if a.DocumentType == "" {
		a.DocumentType = "Unknown"
	}
}

// Document is one persisted row of the documents table. Rows are written
// once on upload and never updated.
type Document struct {
	ID              int64         `json:"id" db:"id"`
	Filename        string        `json:"filename" db:"filename"`
	DocumentType    string        `json:"document_type" db:"document_type"`
	AnalysisSummary string        `json:"analysis_summary" db:"analysis_summary"`
	MissingItems    []MissingItem `json:"missing_items"`
	Risks           []string      `json:"risks"`
	Content         string        `json:"content" db:"content"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
}

// DocumentSummary is the history projection of a row.
type DocumentSummary struct {
	ID              int64     `db:"id"`
	Filename        string    `db:"filename"`
	DocumentType    string    `db:"document_type"`
	AnalysisSummary string    `db:"analysis_summary"`
	CreatedAt       time.Time `db:"created_at"`
}

type UploadRequest struct {
	Filename string
	Data     []byte
}

// UploadResponse is returned for every accepted upload. ID is nil when the
// row could not be persisted; the extracted text and analysis still flow
// back to the client.
type UploadResponse struct {
	ID       *int64          `json:"id"`
	Filename string          `json:"filename"`
	Content  string          `json:"content"`
	Analysis *AnalysisResult `json:"analysis"`
}
