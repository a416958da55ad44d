// Package corporate looks up companies and their shareholder rosters in the
// public corporate registry (BrasilAPI CNPJ endpoint).
package corporate

import (
	"context"
	"fmt"
	"strings"

	"dossier/internal/evidence/registry/providers"
	pstrings "dossier/pkg/platform/strings"
)

// Officer is a shareholder or administrator as listed by the registry.
type Officer struct {
	Name string
	Role string
}

// Company is the registry record of one tax id.
type Company struct {
	TaxID     string
	LegalName string
	Officers  []Officer
}

type companyPayload struct {
	CNPJ        string `json:"cnpj"`
	RazaoSocial string `json:"razao_social"`
	QSA         []struct {
		NomeSocio         string `json:"nome_socio"`
		QualificacaoSocio string `json:"qualificacao_socio"`
	} `json:"qsa"`
}

type Registry struct {
	transport *providers.Transport
}

func New(t *providers.Transport) *Registry {
	return &Registry{transport: t}
}

func (r *Registry) ID() string { return r.transport.ID() }

// Lookup fetches the company for a 14-digit tax id.
func (r *Registry) Lookup(ctx context.Context, q providers.Query) (Company, error) {
	taxID := pstrings.Digits(q.Identifier)
	if len(taxID) != 14 {
		return Company{}, providers.NewProviderError(providers.ErrorBadData, r.ID(),
			fmt.Sprintf("company tax id must have 14 digits, got %d", len(taxID)), nil)
	}

	var payload companyPayload
	if err := r.transport.GetJSON(ctx, "/cnpj/v1/"+taxID, nil, &payload); err != nil {
		return Company{}, err
	}

	c := Company{
		TaxID:     taxID,
		LegalName: strings.TrimSpace(payload.RazaoSocial),
	}
	for _, s := range payload.QSA {
		name := strings.TrimSpace(s.NomeSocio)
		if name == "" {
			continue
		}
		c.Officers = append(c.Officers, Officer{Name: name, Role: strings.TrimSpace(s.QualificacaoSocio)})
	}
	return c, nil
}
