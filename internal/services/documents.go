package services

import (
	"context"
	"fmt"

	"github.com/lexify/document-scanner/internal/analyzer"
	"github.com/lexify/document-scanner/internal/extractor"
	"github.com/lexify/document-scanner/internal/models"
	"github.com/lexify/document-scanner/internal/repository"
	"github.com/lexify/document-scanner/internal/storage"
	"github.com/lexify/document-scanner/internal/utils"
)

// NoTextExtracted is returned as the content field when extraction yields
// nothing, so the client always sees an explanation instead of a blank box.
const NoTextExtracted = "No text could be extracted."

type DocumentService interface {
	UploadDocument(ctx context.Context, req *models.UploadRequest) *models.UploadResponse
	History(ctx context.Context) ([]models.DocumentSummary, error)
	GetDocument(ctx context.Context, id int64) (*models.Document, error)
}

type documentService struct {
	repo     repository.Repository
	analyzer analyzer.Analyzer
	archive  storage.Storage
	logger   *utils.Logger
}

// NewService wires the upload pipeline. archive may be nil, which disables
// raw-file archival.
func NewService(repo repository.Repository, llmAnalyzer analyzer.Analyzer, archive storage.Storage, logger *utils.Logger) DocumentService {
	return &documentService{
		repo:     repo,
		analyzer: llmAnalyzer,
		archive:  archive,
		logger:   logger,
	}
}

// UploadDocument runs extract → analyze → persist for one upload. It never
// fails: extraction, analysis and persistence each degrade independently,
// and the response always carries a well-formed analysis record. Only input
// validation and reading the upload itself (both handled in the HTTP layer)
// can reject a request.
func (s *documentService) UploadDocument(ctx context.Context, req *models.UploadRequest) *models.UploadResponse {
	// the pipeline outlives the request: a client disconnect must not
	// cancel the analysis call or drop the row
	ctx = context.WithoutCancel(ctx)

	text := extractor.Extract(req.Filename, req.Data)

	var result *models.AnalysisResult
	if text == "" {
		result = models.PlaceholderAnalysis("No analysis performed.")
	} else {
		result = s.analyzer.Analyze(ctx, text)
	}

	if result.Degraded {
		s.logger.Warn("Degraded analysis recorded",
			"filename", req.Filename,
			"summary", result.AnalysisSummary)
	}

	if s.archive != nil {
		if key, err := s.archive.Archive(ctx, req.Filename, req.Data); err != nil {
			s.logger.Warn("Failed to archive upload", "error", err, "filename", req.Filename)
		} else {
			s.logger.Debug("Upload archived", "key", key)
		}
	}

	doc := &models.Document{
		Filename:        req.Filename,
		DocumentType:    result.DocumentType,
		AnalysisSummary: result.AnalysisSummary,
		MissingItems:    result.MissingItems,
		Risks:           result.Risks,
		Content:         text,
	}

	// best-effort persistence: a storage failure nulls the id but the
	// client still gets the extracted text and analysis
	var idPtr *int64
	if id, err := s.repo.Insert(ctx, doc); err != nil {
		s.logger.Error("Failed to save document", "error", err, "filename", req.Filename)
	} else {
		idPtr = &id
		s.logger.Info("Document saved",
			"id", id,
			"filename", req.Filename,
			"document_type", result.DocumentType,
			"text_length", len(text))
	}

	content := text
	if content == "" {
		content = NoTextExtracted
	}

	return &models.UploadResponse{
		ID:       idPtr,
		Filename: req.Filename,
		Content:  content,
		Analysis: result,
	}
}

func (s *documentService) History(ctx context.Context) ([]models.DocumentSummary, error) {
	summaries, err := s.repo.ListRecent(ctx, repository.DefaultHistoryLimit)
	if err != nil {
		s.logger.Error("Failed to list documents", "error", err)
		return nil, utils.NewInternalError(fmt.Sprintf("Database fetch failed: %v", err))
	}

	return summaries, nil
}

func (s *documentService) GetDocument(ctx context.Context, id int64) (*models.Document, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get document", "error", err, "id", id)
		return nil, utils.NewInternalError(fmt.Sprintf("Database fetch failed: %v", err))
	}
	if doc == nil {
		return nil, utils.NewNotFoundError("Document not found")
	}

	return doc, nil
}
