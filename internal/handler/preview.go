package handler

import (
	"html"
	"log/slog"
	"net/http"

	models "docdesk/internal/domain/models/workspace"
	"docdesk/internal/httputil"
)

// PreviewHandler renders markup server side
type PreviewHandler struct {
	logger *slog.Logger
}

// NewPreviewHandler creates a new preview handler
func NewPreviewHandler(logger *slog.Logger) *PreviewHandler {
	return &PreviewHandler{logger: logger}
}

type previewRequest struct {
	Content string         `json:"content"`
	Type    models.DocType `json:"type"`
}

type previewResponse struct {
	HTML string `json:"html"`
}

// Preview renders content. Markdown is returned unchanged for the client
// to render; reStructuredText is returned as escaped preformatted text.
// POST /api/preview
func (h *PreviewHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Content == "" {
		httputil.RespondJSON(w, http.StatusOK, previewResponse{HTML: ""})
		return
	}

	out := req.Content
	if req.Type == models.DocTypeRST {
		out = "<pre>" + html.EscapeString(req.Content) + "</pre>"
	}
	httputil.RespondJSON(w, http.StatusOK, previewResponse{HTML: out})
}
