package handler

import (
	"log/slog"
	"net/http"

	"docdesk/internal/config"
	models "docdesk/internal/domain/models/workspace"
	"docdesk/internal/domain/repositories"
	"docdesk/internal/httputil"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// FolderHandler handles folder HTTP requests
type FolderHandler struct {
	folders repositories.FolderRepository
	logger  *slog.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(folders repositories.FolderRepository, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{
		folders: folders,
		logger:  logger,
	}
}

type createFolderRequest struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id"`
}

type renameFolderRequest struct {
	Name string `json:"name"`
}

type listFoldersResponse struct {
	Folders []models.Folder `json:"folders"`
}

type toggleFolderResponse struct {
	Expanded bool `json:"expanded"`
}

func validateFolderName(name string) error {
	return validation.Validate(name,
		validation.Required.Error("No folder name provided"),
		validation.Length(1, config.MaxFolderNameLength),
	)
}

// ListFolders lists all folders
// GET /api/folders
func (h *FolderHandler) ListFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := h.folders.List(r.Context())
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, listFoldersResponse{Folders: folders})
}

// CreateFolder creates a new folder
// POST /api/folders
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req createFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validateFolderName(req.Name); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	folder, err := h.folders.Create(r.Context(), req.Name, req.ParentID)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	h.logger.Info("folder created", "folder_id", folder.ID, "name", folder.Name)
	httputil.RespondJSON(w, http.StatusOK, folder)
}

// ToggleFolder flips a folder's expansion flag
// POST /api/folders/{id}/toggle
func (h *FolderHandler) ToggleFolder(w http.ResponseWriter, r *http.Request) {
	expanded, err := h.folders.Toggle(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, toggleFolderResponse{Expanded: expanded})
}

// RenameFolder renames a folder
// POST /api/folders/{id}/rename
func (h *FolderHandler) RenameFolder(w http.ResponseWriter, r *http.Request) {
	var req renameFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validateFolderName(req.Name); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	folder, err := h.folders.Rename(r.Context(), r.PathValue("id"), req.Name)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, folder)
}

// DeleteFolder deletes a folder and its documents
// DELETE /api/folders/{id}
func (h *FolderHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.folders.Delete(r.Context(), id); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	h.logger.Info("folder deleted", "folder_id", id)
	httputil.RespondMessage(w, "Folder and its contents deleted successfully")
}
