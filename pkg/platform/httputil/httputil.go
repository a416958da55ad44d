// Package httputil writes JSON responses and the error envelope shared by all
// handlers.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	"dossier/pkg/platform/sentinel"
)

// Error codes in the JSON envelope.
const (
	CodeBadRequest  = "bad_request"
	CodeNotFound    = "not_found"
	CodeConflict    = "conflict"
	CodeUnavailable = "unavailable"
	CodeInternal    = "internal_error"
)

// Error carries an explicit status. Handlers use it for input errors that
// have no sentinel.
type Error struct {
	Status      int
	Code        string
	Description string
}

func (e *Error) Error() string { return e.Description }

// BadRequest reports invalid caller input.
func BadRequest(description string) error {
	return &Error{Status: http.StatusBadRequest, Code: CodeBadRequest, Description: description}
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates err into a status and the error envelope. Internal
// errors never leak their description.
func WriteError(w http.ResponseWriter, err error) {
	status, code, desc := classify(err)
	body := map[string]string{"error": code}
	if status != http.StatusInternalServerError && desc != "" {
		body["error_description"] = desc
	}
	WriteJSON(w, status, body)
}

func classify(err error) (int, string, string) {
	var he *Error
	switch {
	case errors.As(err, &he):
		return he.Status, he.Code, he.Description
	case errors.Is(err, sentinel.ErrNotFound):
		return http.StatusNotFound, CodeNotFound, err.Error()
	case errors.Is(err, sentinel.ErrConflict), errors.Is(err, sentinel.ErrInvalidState):
		return http.StatusConflict, CodeConflict, err.Error()
	case errors.Is(err, sentinel.ErrUnavailable):
		return http.StatusServiceUnavailable, CodeUnavailable, err.Error()
	default:
		return http.StatusInternalServerError, CodeInternal, ""
	}
}
