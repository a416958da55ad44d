package transparency

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"dossier/internal/evidence/registry/providers"
	pstrings "dossier/pkg/platform/strings"
)

// ExposedPersons reports whether a personal tax id is on the politically
// exposed persons list.
type ExposedPersons struct {
	transport *providers.Transport
}

func NewExposedPersons(t *providers.Transport) *ExposedPersons {
	return &ExposedPersons{transport: t}
}

func (e *ExposedPersons) ID() string { return e.transport.ID() }

func (e *ExposedPersons) Lookup(ctx context.Context, q providers.Query) (bool, error) {
	id := pstrings.Digits(q.Identifier)
	if id == "" {
		return false, nil
	}
	var page []json.RawMessage
	if err := e.transport.GetJSON(ctx, "/peps", firstPage(url.Values{"cpf": {id}}), &page); err != nil {
		return false, err
	}
	return len(page) > 0, nil
}

// Grant is a parliamentary budget amendment authored by a legislator.
type Grant struct {
	ID        string
	Function  string
	Locality  string
	Committed float64
}

type grantPayload struct {
	CodigoEmenda   string `json:"codigoEmenda"`
	Funcao         string `json:"funcao"`
	Localidade     string `json:"localidadeDoGasto"`
	ValorEmpenhado amount `json:"valorEmpenhado"`
}

type Grants struct {
	transport *providers.Transport
}

func NewGrants(t *providers.Transport) *Grants {
	return &Grants{transport: t}
}

func (g *Grants) ID() string { return g.transport.ID() }

// Lookup lists grants by author code; Query.Year narrows to one budget year.
func (g *Grants) Lookup(ctx context.Context, q providers.Query) ([]Grant, error) {
	author := strings.TrimSpace(q.Identifier)
	if author == "" {
		return nil, nil
	}
	params := url.Values{"codigoAutor": {author}}
	if q.Year > 0 {
		params.Set("ano", strconv.Itoa(q.Year))
	}
	var page []grantPayload
	if err := g.transport.GetJSON(ctx, "/emendas", firstPage(params), &page); err != nil {
		return nil, err
	}
	out := make([]Grant, 0, len(page))
	for _, p := range page {
		out = append(out, Grant{
			ID:        strings.TrimSpace(p.CodigoEmenda),
			Function:  strings.TrimSpace(p.Funcao),
			Locality:  strings.TrimSpace(p.Localidade),
			Committed: float64(p.ValorEmpenhado),
		})
	}
	return out, nil
}

// Expense is one government payment card transaction.
type Expense struct {
	Merchant string
	Value    float64
}

type expensePayload struct {
	ValorTransacao  amount `json:"valorTransacao"`
	Estabelecimento struct {
		Nome string `json:"nome"`
	} `json:"estabelecimento"`
}

type CardExpenses struct {
	transport *providers.Transport
}

func NewCardExpenses(t *providers.Transport) *CardExpenses {
	return &CardExpenses{transport: t}
}

func (c *CardExpenses) ID() string { return c.transport.ID() }

func (c *CardExpenses) Lookup(ctx context.Context, q providers.Query) ([]Expense, error) {
	id := pstrings.Digits(q.Identifier)
	if id == "" {
		return nil, nil
	}
	var page []expensePayload
	if err := c.transport.GetJSON(ctx, "/cartoes", firstPage(url.Values{"cpfPortador": {id}}), &page); err != nil {
		return nil, err
	}
	out := make([]Expense, 0, len(page))
	for _, p := range page {
		out = append(out, Expense{
			Merchant: strings.TrimSpace(p.Estabelecimento.Nome),
			Value:    float64(p.ValorTransacao),
		})
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}
