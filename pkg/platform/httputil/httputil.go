// Package httputil centralizes JSON response writing and request decoding so
// handlers stay thin and error envelopes remain consistent across endpoints.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "noteboard/pkg/domain-errors"
)

// errorResponse is the JSON error envelope shared by all endpoints.
type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the JSON error envelope. Errors
// without a domain code are reported as internal without leaking details.
func WriteError(w http.ResponseWriter, err error) {
	var de *dErrors.Error
	if errors.As(err, &de) {
		WriteJSON(w, dErrors.ToHTTPStatus(de.Code), errorResponse{
			Error:            string(de.Code),
			ErrorDescription: de.Error(),
		})
		return
	}
	WriteJSON(w, http.StatusInternalServerError, errorResponse{
		Error:            string(dErrors.CodeInternal),
		ErrorDescription: "internal error",
	})
}

// Decode parses a JSON request body into dst. A false return means the error
// response has already been written.
func Decode[T any](w http.ResponseWriter, r *http.Request) (*T, bool) {
	dst := new(T)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid JSON body"))
		return nil, false
	}
	return dst, true
}
