// Package handlers implements the HTTP handlers for the consultation API.
package handlers

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/famscope/famscope/pkg/errors"
)

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON writes data as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeAppError maps an application error to its HTTP status and writes the
// structured body.  Internal detail and stack traces never leave the server.
func writeAppError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)

	message := errors.DefaultMessageForCode(code)
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) && errors.IsClientError(code) {
		message = appErr.Message
	}

	writeJSON(w, status, ErrorResponse{Code: string(code), Message: message})
}
