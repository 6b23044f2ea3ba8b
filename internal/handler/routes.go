package handler

import (
	"log/slog"
	"net/http"

	"docdesk/internal/domain/repositories"
	"docdesk/internal/httputil"
	"docdesk/internal/middleware"
)

// HealthCheck reports liveness
// GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// NewRouter wires the document API onto a ServeMux (Go 1.22+ patterns)
// wrapped in request logging and panic recovery.
func NewRouter(docs repositories.DocumentRepository, folders repositories.FolderRepository, logger *slog.Logger) http.Handler {
	docHandler := NewDocumentHandler(docs, logger)
	folderHandler := NewFolderHandler(folders, logger)
	previewHandler := NewPreviewHandler(logger)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", HealthCheck)

	mux.HandleFunc("GET /api/documents", docHandler.ListDocuments)
	mux.HandleFunc("GET /api/documents/{path...}", docHandler.GetDocument)
	mux.HandleFunc("POST /api/documents/{path...}", docHandler.PostDocument) // save, /rename, /move
	mux.HandleFunc("DELETE /api/documents/{path...}", docHandler.DeleteDocument)

	mux.HandleFunc("GET /api/folders", folderHandler.ListFolders)
	mux.HandleFunc("POST /api/folders", folderHandler.CreateFolder)
	mux.HandleFunc("POST /api/folders/{id}/toggle", folderHandler.ToggleFolder)
	mux.HandleFunc("POST /api/folders/{id}/rename", folderHandler.RenameFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", folderHandler.DeleteFolder)

	mux.HandleFunc("POST /api/preview", previewHandler.Preview)

	// Order: RequestLog → Recovery → Routes
	var h http.Handler = mux
	h = middleware.Recovery(logger)(h)
	h = middleware.RequestLog(logger)(h)
	return h
}
