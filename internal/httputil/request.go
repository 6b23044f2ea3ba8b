package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"

	"docdesk/internal/config"
)

// ParseJSON decodes JSON from the request body into dest, capping the
// body at config.MaxRequestBodyBytes.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	// requires w for proper 413 response
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxRequestBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}
