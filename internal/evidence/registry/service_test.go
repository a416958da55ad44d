package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dossier/internal/evidence/registry/providers"
	"dossier/internal/evidence/registry/providers/corporate"
	"dossier/internal/evidence/registry/providers/transparency"
	"dossier/internal/platform/config"
)

func TestServiceWithNoSourcesIsEmpty(t *testing.T) {
	svc := NewService(Sources{})
	ctx := context.Background()

	_, ok := svc.Company(ctx, "11222333000181")
	assert.False(t, ok)
	assert.Empty(t, svc.Sanctions(ctx, "1", providers.KindCompanyTaxID))
	assert.Empty(t, svc.Infractions(ctx, "x", 5))
	assert.Empty(t, svc.Contracts(ctx, "1", 5))
	assert.False(t, svc.IsExposed(ctx, "1"))
	assert.Empty(t, svc.Grants(ctx, "1", 2024))
	assert.Empty(t, svc.CardExpenses(ctx, "1", 5))
	assert.Empty(t, svc.Search(ctx, "x", 5))
}

func TestServiceDegradesOnOutage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	src := NewSources(config.Providers{
		CorporateURL:    srv.URL,
		TransparencyURL: srv.URL,
		Timeout:         time.Second,
	}, nil)
	svc := NewService(src)

	var sanctions []transparency.Sanction
	assert.NotPanics(t, func() {
		sanctions = svc.Sanctions(context.Background(), "11222333000181", providers.KindCompanyTaxID)
	})
	assert.Empty(t, sanctions)

	_, ok := svc.Company(context.Background(), "11222333000181")
	assert.False(t, ok)
}

func TestServiceCompany(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"razao_social":"ACME","qsa":[{"nome_socio":"ANA","qualificacao_socio":"Sócio"}]}`))
	}))
	defer srv.Close()

	svc := NewService(Sources{
		Corporate: corporate.New(providers.NewTransport("corporate", providers.TransportConfig{BaseURL: srv.URL})),
	})

	c, ok := svc.Company(context.Background(), "11222333000181")
	require.True(t, ok)
	assert.Equal(t, "ACME", c.LegalName)
	assert.Len(t, c.Officers, 1)
}

func TestNewSourcesSkipsUnconfigured(t *testing.T) {
	src := NewSources(config.Providers{CorporateURL: "http://corp"}, nil)
	assert.NotNil(t, src.Corporate)
	assert.Nil(t, src.Sanctions)
	assert.Nil(t, src.Fines)
	assert.Nil(t, src.Search)
}
