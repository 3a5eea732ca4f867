package repository

import (
	"context"
	"database/sql"
	"reflect"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/lexify/document-scanner/internal/models"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })

	return NewRepository(sqlx.NewDb(mockDB, "mysql")), mock
}

func TestInsertSerializesFindings(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("INSERT INTO documents").
		WithArgs(
			"nda.docx",
			"NDA",
			"ok",
			`[{"item":"Signature","reason":"No signature block"}]`,
			`["Unilateral termination clause"]`,
			"full text",
		).
		WillReturnResult(sqlmock.NewResult(7, 1))

	id, err := repo.Insert(context.Background(), &models.Document{
		Filename:        "nda.docx",
		DocumentType:    "NDA",
		AnalysisSummary: "ok",
		MissingItems:    []models.MissingItem{{Item: "Signature", Reason: "No signature block"}},
		Risks:           []string{"Unilateral termination clause"},
		Content:         "full text",
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if id != 7 {
		t.Errorf("id = %d, want 7", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestInsertNilSequencesStoredAsEmptyArrays(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("INSERT INTO documents").
		WithArgs("doc.pdf", "Unknown", "No analysis performed.", "[]", "[]", "").
		WillReturnResult(sqlmock.NewResult(1, 1))

	if _, err := repo.Insert(context.Background(), &models.Document{
		Filename:        "doc.pdf",
		DocumentType:    "Unknown",
		AnalysisSummary: "No analysis performed.",
	}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestListRecentOrderingAndLimit(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "filename", "document_type", "analysis_summary", "created_at"}).
		AddRow(3, "c.pdf", "Contract", "third", now).
		AddRow(2, "b.pdf", "NDA", "second", now).
		AddRow(1, "a.pdf", "Lease", "first", now.Add(-time.Hour))

	mock.ExpectQuery("ORDER BY created_at DESC, id DESC").
		WithArgs(DefaultHistoryLimit).
		WillReturnRows(rows)

	summaries, err := repo.ListRecent(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("len = %d, want 3", len(summaries))
	}
	if summaries[0].ID != 3 || summaries[2].ID != 1 {
		t.Errorf("unexpected order: %+v", summaries)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestListRecentClampsOversizedLimit(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("ORDER BY created_at DESC, id DESC").
		WithArgs(DefaultHistoryLimit).
		WillReturnRows(sqlmock.NewRows([]string{"id", "filename", "document_type", "analysis_summary", "created_at"}))

	if _, err := repo.ListRecent(context.Background(), 500); err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT id, filename").
		WithArgs(int64(999999)).
		WillReturnError(sql.ErrNoRows)

	doc, err := repo.GetByID(context.Background(), 999999)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if doc != nil {
		t.Errorf("doc = %+v, want nil", doc)
	}
}

func TestGetByIDRoundTripsFindings(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "filename", "document_type", "analysis_summary", "missing_items", "risks", "content", "created_at"}).
		AddRow(5, "nda.docx", "NDA", "ok",
			`[{"item":"Signature","reason":"No signature block"}]`,
			`["Unilateral termination clause"]`,
			"full text", now)

	mock.ExpectQuery("SELECT id, filename").
		WithArgs(int64(5)).
		WillReturnRows(rows)

	doc, err := repo.GetByID(context.Background(), 5)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}

	wantMissing := []models.MissingItem{{Item: "Signature", Reason: "No signature block"}}
	if !reflect.DeepEqual(doc.MissingItems, wantMissing) {
		t.Errorf("missing_items = %+v, want %+v", doc.MissingItems, wantMissing)
	}
	wantRisks := []string{"Unilateral termination clause"}
	if !reflect.DeepEqual(doc.Risks, wantRisks) {
		t.Errorf("risks = %+v, want %+v", doc.Risks, wantRisks)
	}
}

func TestGetByIDMalformedJSONDegrades(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "filename", "document_type", "analysis_summary", "missing_items", "risks", "content", "created_at"}).
		AddRow(9, "bad.pdf", "Unknown", "ok", `{oops`, `not-json`, "text", now)

	mock.ExpectQuery("SELECT id, filename").
		WithArgs(int64(9)).
		WillReturnRows(rows)

	doc, err := repo.GetByID(context.Background(), 9)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(doc.MissingItems) != 0 {
		t.Errorf("missing_items = %+v, want empty", doc.MissingItems)
	}
	if len(doc.Risks) != 0 {
		t.Errorf("risks = %+v, want empty", doc.Risks)
	}
}

func TestGetByIDNullFindingsBecomeEmpty(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "filename", "document_type", "analysis_summary", "missing_items", "risks", "content", "created_at"}).
		AddRow(4, "old.pdf", "Unknown", nil, nil, nil, "text", now)

	mock.ExpectQuery("SELECT id, filename").
		WithArgs(int64(4)).
		WillReturnRows(rows)

	doc, err := repo.GetByID(context.Background(), 4)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if doc.MissingItems == nil || doc.Risks == nil {
		t.Error("null columns must deserialize to empty sequences, not nil")
	}
	if doc.AnalysisSummary != "" {
		t.Errorf("analysis_summary = %q, want empty", doc.AnalysisSummary)
	}
}
