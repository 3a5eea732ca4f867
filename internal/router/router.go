package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/lexify/document-scanner/internal/config"
	"github.com/lexify/document-scanner/internal/handlers"
	"github.com/lexify/document-scanner/internal/middleware"
	"github.com/lexify/document-scanner/internal/services"
	"github.com/lexify/document-scanner/internal/utils"
)

func NewRouter(docService services.DocumentService, cfg *config.Config, logger *utils.Logger) http.Handler {
	r := mux.NewRouter()

	// Middlewares
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.Recovery(logger))

	docHandler := handlers.NewDocumentHandler(docService, cfg.MaxFileSize, logger)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	// Routes
	r.HandleFunc("/", docHandler.Home).Methods(http.MethodGet)
	r.HandleFunc("/upload", docHandler.UploadDocument).Methods(http.MethodPost)
	r.HandleFunc("/history", docHandler.History).Methods(http.MethodGet)
	r.HandleFunc("/document/{id:[0-9]+}", docHandler.GetDocument).Methods(http.MethodGet)

	return r
}
