package fines

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dossier/internal/evidence/registry/providers"
	"dossier/internal/evidence/registry/providers/contract"
)

func TestRegistry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/infractions", r.URL.Path)
		assert.Equal(t, "ACME LTDA", r.URL.Query().Get("q"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`[
			{"date":"2020-08-01","description":"Desmatamento em área de preservação","value":150000},
			{"date":"2021-01-01","description":"  "}
		]`))
	}))
	defer srv.Close()

	contract.Suite[[]Infraction]{
		Provider: New(contract.Transport("fines", srv.URL)),
		Cases: []contract.Case[[]Infraction]{{
			Name:  "drops blank descriptions",
			Query: providers.Query{Identifier: "ACME LTDA", Kind: providers.KindFreeText, Limit: 5},
			Validate: func(t *testing.T, got []Infraction) {
				require.Len(t, got, 1)
				assert.Equal(t, time.Date(2020, 8, 1, 0, 0, 0, 0, time.UTC), got[0].Date)
				assert.InDelta(t, 150000, got[0].Value, 0)
			},
		}},
	}.Run(t)
}

func TestRegistryFailures(t *testing.T) {
	contract.RunFailures(t, func(url string) providers.Provider[[]Infraction] {
		return New(contract.Transport("fines", url))
	}, providers.Query{Identifier: "ACME"})
}
