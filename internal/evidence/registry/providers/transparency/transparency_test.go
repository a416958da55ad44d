package transparency

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

// portal routes canned responses by path and checks the access key.
func portal(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key", r.Header.Get(APIKeyHeader))
		assert.Equal(t, "1", r.URL.Query().Get("pagina"))
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func transport(url string) *providers.Transport {
	return providers.NewTransport("transparency", TransportConfig(url, "key", providers.TransportConfig{}))
}

func TestSanctions(t *testing.T) {
	srv := portal(t, map[string]string{
		"/ceis": `[{"dataPublicacaoSancao":"15/03/2021","tipoSancao":{"descricaoResumida":"Impedimento"},"orgaoSancionador":{"nome":"Prefeitura"}}]`,
		"/cnep": `[]`,
	})

	contract.Suite[[]Sanction]{
		Provider: NewSanctions(transport(srv.URL)),
		Cases: []contract.Case[[]Sanction]{{
			Name:  "collects entries across registries",
			Query: providers.Query{Identifier: "11.222.333/0001-81"},
			Validate: func(t *testing.T, got []Sanction) {
				require.Len(t, got, 1)
				assert.Equal(t, "CEIS", got[0].Registry)
				assert.Equal(t, "Impedimento", got[0].Reason)
				assert.Equal(t, "Prefeitura", got[0].Authority)
				assert.Equal(t, time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC), got[0].PublishedAt)
			},
		}},
	}.Run(t)
}

func TestSanctionsFailures(t *testing.T) {
	contract.RunFailures(t, func(url string) providers.Provider[[]Sanction] {
		return NewSanctions(contract.Transport("sanctions", url))
	}, providers.Query{Identifier: "11222333000181"})
}

func TestContracts(t *testing.T) {
	srv := portal(t, map[string]string{
		"/contratos": `[
			{"objeto":"Obra","dataAssinatura":"2022-05-01","valorFinalCompra":"1.500.000,50","unidadeGestora":{"orgaoVinculado":{"nome":"Ministério"}}},
			{"objeto":"Serviço","valorInicialCompra":2500.25}
		]`,
	})

	contract.Suite[[]Contract]{
		Provider: NewContracts(transport(srv.URL)),
		Cases: []contract.Case[[]Contract]{
			{
				Name:  "parses localized amounts",
				Query: providers.Query{Identifier: "11222333000181"},
				Validate: func(t *testing.T, got []Contract) {
					require.Len(t, got, 2)
					assert.Equal(t, "Ministério", got[0].AwardingBody)
					assert.InDelta(t, 1500000.50, got[0].Value, 0.001)
					assert.InDelta(t, 2500.25, got[1].Value, 0.001)
				},
			},
			{
				Name:  "honors the limit",
				Query: providers.Query{Identifier: "11222333000181", Limit: 1},
				Validate: func(t *testing.T, got []Contract) {
					assert.Len(t, got, 1)
				},
			},
		},
	}.Run(t)
}

func TestExposedPersons(t *testing.T) {
	srv := portal(t, map[string]string{"/peps": `[{"cpf":"***.456.789-**"}]`})

	contract.Suite[bool]{
		Provider: NewExposedPersons(transport(srv.URL)),
		Cases: []contract.Case[bool]{{
			Name:     "non-empty list means exposed",
			Query:    providers.Query{Identifier: "123.456.789-09"},
			Validate: func(t *testing.T, got bool) { assert.True(t, got) },
		}},
	}.Run(t)
}

func TestGrants(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emendas", r.URL.Path)
		assert.Equal(t, "2024", r.URL.Query().Get("ano"))
		assert.Equal(t, "4321", r.URL.Query().Get("codigoAutor"))
		_, _ = w.Write([]byte(`[{"codigoEmenda":"202443210001","funcao":"Saúde","localidadeDoGasto":"RIO DE JANEIRO (RJ)","valorEmpenhado":"250.000,00"}]`))
	}))
	defer srv.Close()

	contract.Suite[[]Grant]{
		Provider: NewGrants(contract.Transport("grants", srv.URL)),
		Cases: []contract.Case[[]Grant]{{
			Name:  "maps grant fields",
			Query: providers.Query{Identifier: "4321", Kind: providers.KindLegislator, Year: 2024},
			Validate: func(t *testing.T, got []Grant) {
				require.Len(t, got, 1)
				assert.Equal(t, Grant{ID: "202443210001", Function: "Saúde", Locality: "RIO DE JANEIRO (RJ)", Committed: 250000}, got[0])
			},
		}},
	}.Run(t)
}

func TestCardExpenses(t *testing.T) {
	srv := portal(t, map[string]string{
		"/cartoes": `[{"valorTransacao":"89,90","estabelecimento":{"nome":"RESTAURANTE"}},{"valorTransacao":null,"estabelecimento":{"nome":"HOTEL"}}]`,
	})

	contract.Suite[[]Expense]{
		Provider: NewCardExpenses(transport(srv.URL)),
		Cases: []contract.Case[[]Expense]{{
			Name:  "maps merchant and value",
			Query: providers.Query{Identifier: "12345678909"},
			Validate: func(t *testing.T, got []Expense) {
				require.Len(t, got, 2)
				assert.Equal(t, "RESTAURANTE", got[0].Merchant)
				assert.InDelta(t, 89.90, got[0].Value, 0.001)
				assert.Zero(t, got[1].Value)
			},
		}},
	}.Run(t)
}

func TestParseAmount(t *testing.T) {
	assert.InDelta(t, 1234.56, parseAmount("R$ 1.234,56"), 0.001)
	assert.InDelta(t, 1234.56, parseAmount("1234.56"), 0.001)
	assert.Zero(t, parseAmount(""))
	assert.Zero(t, parseAmount("n/a"))
}
