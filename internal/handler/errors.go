package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"docdesk/internal/domain"
	"docdesk/internal/httputil"
)

// handleError converts domain errors to HTTP responses. Typed domain
// errors carry their own status; anything else is logged and hidden.
func handleError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		httputil.RespondError(w, httpErr.StatusCode(), httpErr.Error())
		return
	}

	logger.Error("request failed",
		"error", err,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", httputil.GetRequestID(r),
	)
	httputil.RespondError(w, http.StatusInternalServerError, "Internal server error")
}
