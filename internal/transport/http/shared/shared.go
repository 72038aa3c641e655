// Package shared centralizes JSON response writing so every handler reports
// errors with the same envelope.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "bulletin/pkg/domain-errors"
)

// ErrorResponse is the JSON error envelope: {code, message}.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into an HTTP response. Errors that
// never passed through pkg/domain-errors surface as a generic internal error
// so storage or transport detail cannot leak to clients.
func WriteError(w http.ResponseWriter, err error) {
	var de *dErrors.Error
	if !errors.As(err, &de) {
		WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
			Code:    string(dErrors.CodeInternal),
			Message: "internal error",
		})
		return
	}
	WriteJSON(w, dErrors.ToHTTPStatus(de.Code), ErrorResponse{
		Code:    string(de.Code),
		Message: de.Error(),
	})
}
