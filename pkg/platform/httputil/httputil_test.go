package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dossier/pkg/platform/sentinel"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		code     string
		withDesc bool
	}{
		{"internal error omits description", errors.New("db failed"), http.StatusInternalServerError, CodeInternal, false},
		{"bad request includes description", BadRequest("invalid input"), http.StatusBadRequest, CodeBadRequest, true},
		{"wrapped not found", fmt.Errorf("dossier x: %w", sentinel.ErrNotFound), http.StatusNotFound, CodeNotFound, true},
		{"conflict", sentinel.ErrConflict, http.StatusConflict, CodeConflict, true},
		{"unavailable", sentinel.ErrUnavailable, http.StatusServiceUnavailable, CodeUnavailable, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tt.err)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			var body map[string]string
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tt.code, body["error"])
			_, hasDesc := body["error_description"]
			assert.Equal(t, tt.withDesc, hasDesc)
		})
	}
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusOK, map[string]int{"score": 400})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"score":400}`, w.Body.String())
}
