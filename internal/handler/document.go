package handler

import (
	"log/slog"
	"net/http"
	"path"
	"strings"

	"docdesk/internal/config"
	"docdesk/internal/domain"
	models "docdesk/internal/domain/models/workspace"
	"docdesk/internal/domain/repositories"
	"docdesk/internal/httputil"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DocumentHandler handles document HTTP requests
type DocumentHandler struct {
	docs   repositories.DocumentRepository
	logger *slog.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(docs repositories.DocumentRepository, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{
		docs:   docs,
		logger: logger,
	}
}

type saveDocumentRequest struct {
	Content *string `json:"content"`
}

type renameDocumentRequest struct {
	Name string `json:"name"`
}

type renameDocumentResponse struct {
	Message string `json:"message"`
	NewPath string `json:"new_path"`
}

type moveDocumentRequest struct {
	FolderID httputil.Optional[string] `json:"folder_id"`
}

type documentContentResponse struct {
	Content string `json:"content"`
}

// documentPath validates the {path...} wildcard.
func documentPath(r *http.Request) (string, error) {
	p := r.PathValue("path")
	err := validation.Validate(p,
		validation.Required.Error("Document path is required"),
		validation.Length(1, config.MaxDocumentPathLength),
		validation.By(func(value interface{}) error {
			s := value.(string)
			if strings.HasPrefix(s, "/") || path.Clean(s) != s || strings.HasPrefix(s, "../") || s == ".." {
				return domain.NewValidationError("Invalid document path")
			}
			return nil
		}),
	)
	if err != nil {
		return "", &domain.ValidationError{Message: err.Error()}
	}
	return p, nil
}

// ListDocuments lists all documents
// GET /api/documents
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.docs.List(r.Context())
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, docs)
}

// GetDocument returns a document's content
// GET /api/documents/{path...}
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	p, err := documentPath(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	content, err := h.docs.Get(r.Context(), p)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, documentContentResponse{Content: content})
}

// PostDocument saves a document, or renames/moves it when the path ends
// in /rename or /move. Document names always carry an extension, so the
// suffixes cannot collide with a stored path.
// POST /api/documents/{path...}
func (h *DocumentHandler) PostDocument(w http.ResponseWriter, r *http.Request) {
	p, err := documentPath(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	if docPath, ok := strings.CutSuffix(p, "/rename"); ok {
		h.renameDocument(w, r, docPath)
		return
	}
	if docPath, ok := strings.CutSuffix(p, "/move"); ok {
		h.moveDocument(w, r, docPath)
		return
	}
	h.saveDocument(w, r, p)
}

func (h *DocumentHandler) saveDocument(w http.ResponseWriter, r *http.Request, p string) {
	var req saveDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Content == nil {
		httputil.RespondError(w, http.StatusBadRequest, "No content provided")
		return
	}

	if err := h.docs.Save(r.Context(), p, *req.Content); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	h.logger.Debug("document saved", "path", p, "bytes", len(*req.Content))
	httputil.RespondMessage(w, "Document saved successfully")
}

func (h *DocumentHandler) renameDocument(w http.ResponseWriter, r *http.Request, p string) {
	var req renameDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	err := validation.Validate(req.Name,
		validation.Required.Error("No document name provided"),
		validation.Length(1, config.MaxDocumentNameLength),
		validation.Match(models.BareName).Error("Document name cannot contain slashes"),
		validation.NotIn(".", "..").Error("Invalid document name"),
	)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	newPath, err := h.docs.Rename(r.Context(), p, req.Name)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	h.logger.Info("document renamed", "old_path", p, "new_path", newPath)
	httputil.RespondJSON(w, http.StatusOK, renameDocumentResponse{
		Message: "Document renamed successfully",
		NewPath: newPath,
	})
}

func (h *DocumentHandler) moveDocument(w http.ResponseWriter, r *http.Request, p string) {
	var req moveDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !req.FolderID.Present {
		httputil.RespondError(w, http.StatusBadRequest, "No folder_id provided")
		return
	}

	if err := h.docs.Move(r.Context(), p, req.FolderID.Value); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	h.logger.Info("document moved", "path", p, "to_root", req.FolderID.Value == nil)
	httputil.RespondMessage(w, "Document moved successfully")
}

// DeleteDocument deletes a document
// DELETE /api/documents/{path...}
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	p, err := documentPath(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	if err := h.docs.Delete(r.Context(), p); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	h.logger.Info("document deleted", "path", p)
	httputil.RespondMessage(w, "Document deleted successfully")
}
