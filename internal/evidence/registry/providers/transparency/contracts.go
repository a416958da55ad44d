package transparency

import (
	"context"
	"net/url"
	"strings"
	"time"

	"dossier/internal/evidence/registry/providers"
	pstrings "dossier/pkg/platform/strings"
)

// Contract is a public contract awarded to a company.
type Contract struct {
	AwardingBody string
	Object       string
	Value        float64
	Date         time.Time
}

type contractPayload struct {
	Objeto         string `json:"objeto"`
	DataAssinatura string `json:"dataAssinatura"`
	ValorFinal     amount `json:"valorFinalCompra"`
	ValorInicial   amount `json:"valorInicialCompra"`
	UnidadeGestora struct {
		OrgaoVinculado struct {
			Nome string `json:"nome"`
		} `json:"orgaoVinculado"`
	} `json:"unidadeGestora"`
}

type Contracts struct {
	transport *providers.Transport
}

func NewContracts(t *providers.Transport) *Contracts {
	return &Contracts{transport: t}
}

func (c *Contracts) ID() string { return c.transport.ID() }

func (c *Contracts) Lookup(ctx context.Context, q providers.Query) ([]Contract, error) {
	taxID := pstrings.Digits(q.Identifier)
	if taxID == "" {
		return nil, nil
	}
	var page []contractPayload
	if err := c.transport.GetJSON(ctx, "/contratos", firstPage(url.Values{"cnpjContratada": {taxID}}), &page); err != nil {
		return nil, err
	}
	out := make([]Contract, 0, len(page))
	for _, p := range page {
		value := float64(p.ValorFinal)
		if value == 0 {
			value = float64(p.ValorInicial)
		}
		out = append(out, Contract{
			AwardingBody: strings.TrimSpace(p.UnidadeGestora.OrgaoVinculado.Nome),
			Object:       strings.TrimSpace(p.Objeto),
			Value:        value,
			Date:         parseDate(p.DataAssinatura),
		})
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}
