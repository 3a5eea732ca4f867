package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx"

	"github.com/lexify/document-scanner/internal/models"
)

// DefaultHistoryLimit bounds history listings.
const DefaultHistoryLimit = 20

type Repository interface {
	Insert(ctx context.Context, doc *models.Document) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]models.DocumentSummary, error)
	GetByID(ctx context.Context, id int64) (*models.Document, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Insert writes one document row and returns its assigned id. The nested
// findings are serialized to JSON columns; nil sequences become empty
// arrays so the stored form is never null.
func (r *repository) Insert(ctx context.Context, doc *models.Document) (int64, error) {
	missingItems := doc.MissingItems
	if missingItems == nil {
		missingItems = []models.MissingItem{}
	}
	risks := doc.Risks
	if risks == nil {
		risks = []string{}
	}

	missingJSON, err := json.Marshal(missingItems)
	if err != nil {
		return 0, err
	}
	risksJSON, err := json.Marshal(risks)
	if err != nil {
		return 0, err
	}

	query := `
		INSERT INTO documents (filename, document_type, analysis_summary, missing_items, risks, content)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	res, err := r.db.ExecContext(ctx, query,
		doc.Filename,
		doc.DocumentType,
		doc.AnalysisSummary,
		string(missingJSON),
		string(risksJSON),
		doc.Content,
	)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

// ListRecent returns at most limit summary rows, newest first. Identical
// timestamps are broken by id descending so the ordering is deterministic.
func (r *repository) ListRecent(ctx context.Context, limit int) ([]models.DocumentSummary, error) {
	if limit <= 0 || limit > DefaultHistoryLimit {
		limit = DefaultHistoryLimit
	}

	query := `
		SELECT id, filename, document_type, analysis_summary, created_at
		FROM documents
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	summaries := []models.DocumentSummary{}
	if err := r.db.SelectContext(ctx, &summaries, query, limit); err != nil {
		return nil, err
	}

	return summaries, nil
}

// GetByID loads one full row, deserializing the JSON findings columns.
// A missing row yields (nil, nil); malformed stored JSON degrades to an
// empty sequence instead of failing the lookup.
func (r *repository) GetByID(ctx context.Context, id int64) (*models.Document, error) {
	var doc models.Document
	var analysisSummary, missingJSON, risksJSON sql.NullString

	query := `
		SELECT id, filename, document_type, analysis_summary, missing_items, risks, content, created_at
		FROM documents
		WHERE id = ?
	`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&doc.ID,
		&doc.Filename,
		&doc.DocumentType,
		&analysisSummary,
		&missingJSON,
		&risksJSON,
		&doc.Content,
		&doc.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	doc.AnalysisSummary = analysisSummary.String

	doc.MissingItems = []models.MissingItem{}
	if missingJSON.Valid && missingJSON.String != "" {
		if err := json.Unmarshal([]byte(missingJSON.String), &doc.MissingItems); err != nil {
			doc.MissingItems = []models.MissingItem{}
		}
	}

	doc.Risks = []string{}
	if risksJSON.Valid && risksJSON.String != "" {
		if err := json.Unmarshal([]byte(risksJSON.String), &doc.Risks); err != nil {
			doc.Risks = []string{}
		}
	}

	return &doc, nil
}
