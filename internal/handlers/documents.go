package handlers

import (
	_ "embed"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/lexify/document-scanner/internal/models"
	"github.com/lexify/document-scanner/internal/services"
	"github.com/lexify/document-scanner/internal/utils"
)

// timeLayout is the fixed pattern used for created_at in API responses.
const timeLayout = "2006-01-02 15:04:05"

//go:embed ui.html
var uiPage []byte

type DocumentHandler struct {
	service     services.DocumentService
	logger      *utils.Logger
	maxFileSize int64
}

func NewDocumentHandler(service services.DocumentService, maxFileSize int64, logger *utils.Logger) *DocumentHandler {
	return &DocumentHandler{
		service:     service,
		logger:      logger,
		maxFileSize: maxFileSize,
	}
}

// Home serves the embedded single-page UI.
func (h *DocumentHandler) Home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(uiPage)
}

// UploadDocument accepts a multipart form with a `document` file field and
// runs the extract-analyze-persist pipeline. Failures past input validation
// and reading the upload degrade inside the service rather than erroring.
func (h *DocumentHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize)

	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		h.respondError(w, utils.NewBadRequestError("No file uploaded"))
		return
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		h.respondError(w, utils.NewBadRequestError("No file uploaded"))
		return
	}
	defer file.Close()

	if header.Filename == "" {
		h.respondError(w, utils.NewBadRequestError("No selected file"))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("Failed to read uploaded file", "error", err, "filename", header.Filename)
		h.respondError(w, utils.NewInternalError("Failed to read file: "+err.Error()))
		return
	}

	req := &models.UploadRequest{
		Filename: header.Filename,
		Data:     data,
	}

	resp := h.service.UploadDocument(r.Context(), req)
	h.respondJSON(w, http.StatusOK, resp)
}

type historyEntry struct {
	ID              int64  `json:"id"`
	Filename        string `json:"filename"`
	DocumentType    string `json:"document_type"`
	AnalysisSummary string `json:"analysis_summary"`
	CreatedAt       string `json:"created_at"`
}

// History returns the most recent uploads, newest first.
func (h *DocumentHandler) History(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.History(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}

	entries := make([]historyEntry, 0, len(summaries))
	for _, s := range summaries {
		entries = append(entries, historyEntry{
			ID:              s.ID,
			Filename:        s.Filename,
			DocumentType:    s.DocumentType,
			AnalysisSummary: s.AnalysisSummary,
			CreatedAt:       s.CreatedAt.Format(timeLayout),
		})
	}

	h.respondJSON(w, http.StatusOK, entries)
}

type documentDetail struct {
	ID              int64                `json:"id"`
	Filename        string               `json:"filename"`
	DocumentType    string               `json:"document_type"`
	AnalysisSummary string               `json:"analysis_summary"`
	MissingItems    []models.MissingItem `json:"missing_items"`
	Risks           []string             `json:"risks"`
	Content         string               `json:"content"`
	CreatedAt       string               `json:"created_at"`
}

// GetDocument returns one full record by id.
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	id, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		h.respondError(w, utils.NewNotFoundError("Document not found"))
		return
	}

	doc, err := h.service.GetDocument(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, documentDetail{
		ID:              doc.ID,
		Filename:        doc.Filename,
		DocumentType:    doc.DocumentType,
		AnalysisSummary: doc.AnalysisSummary,
		MissingItems:    doc.MissingItems,
		Risks:           doc.Risks,
		Content:         doc.Content,
		CreatedAt:       doc.CreatedAt.Format(timeLayout),
	})
}

func (h *DocumentHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", "error", err)
	}
}

func (h *DocumentHandler) respondError(w http.ResponseWriter, err error) {
	var status int
	var message string

	switch e := err.(type) {
	case *utils.AppError:
		status = e.StatusCode
		message = e.Message
	default:
		status = http.StatusInternalServerError
		message = "Internal server error"
	}

	h.logger.Error("Request error", "status", status, "error", message)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
