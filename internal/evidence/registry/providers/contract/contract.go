// Package contract holds shared test helpers that check an adapter honors
// the provider contract: successful lookups decode, failures are categorized,
// and Isolate swallows every failure.
package contract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dossier/internal/evidence/registry/providers"
)

// Case is one successful lookup expectation.
type Case[T any] struct {
	Name     string
	Query    providers.Query
	Validate func(t *testing.T, got T)
}

// Suite runs a list of cases against one provider.
type Suite[T any] struct {
	Provider providers.Provider[T]
	Cases    []Case[T]
}

func (s Suite[T]) Run(t *testing.T) {
	t.Helper()
	for _, c := range s.Cases {
		t.Run(c.Name, func(t *testing.T) {
			got, err := s.Provider.Lookup(context.Background(), c.Query)
			require.NoError(t, err)
			if c.Validate != nil {
				c.Validate(t, got)
			}
		})
	}
}

// StatusServer answers every request with code and body.
func StatusServer(t *testing.T, code int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// Transport returns a fast, retry-free transport for tests.
func Transport(id, baseURL string) *providers.Transport {
	return providers.NewTransport(id, providers.TransportConfig{BaseURL: baseURL})
}

// FailureCase pairs an HTTP response with the category it must produce.
type FailureCase struct {
	Status   int
	Body     string
	Category providers.ErrorCategory
}

// StandardFailures covers the status mapping every adapter shares.
var StandardFailures = []FailureCase{
	{Status: http.StatusInternalServerError, Body: `{}`, Category: providers.ErrorProviderOutage},
	{Status: http.StatusTooManyRequests, Body: `{}`, Category: providers.ErrorRateLimited},
	{Status: http.StatusNotFound, Body: `{}`, Category: providers.ErrorNotFound},
	{Status: http.StatusUnauthorized, Body: `{}`, Category: providers.ErrorAuthentication},
	{Status: http.StatusOK, Body: `not json`, Category: providers.ErrorBadData},
}

// RunFailures builds a provider against a canned server per case and checks
// the error category, then checks that Isolate degrades to the zero value.
func RunFailures[T any](t *testing.T, build func(baseURL string) providers.Provider[T], q providers.Query) {
	t.Helper()
	for _, fc := range StandardFailures {
		t.Run(string(fc.Category), func(t *testing.T) {
			p := build(StatusServer(t, fc.Status, fc.Body).URL)

			_, err := p.Lookup(context.Background(), q)
			require.Error(t, err)
			assert.Equal(t, fc.Category, providers.GetCategory(err))

			var zero T
			var ok bool
			var got T
			assert.NotPanics(t, func() {
				got, ok = providers.Isolate(context.Background(), p, q)
			})
			assert.False(t, ok)
			assert.Equal(t, zero, got)
		})
	}
}
