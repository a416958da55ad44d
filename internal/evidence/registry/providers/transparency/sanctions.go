package transparency

import (
	"context"
	"net/url"
	"strings"
	"time"

	"dossier/internal/evidence/registry/providers"
	pstrings "dossier/pkg/platform/strings"
)

// Sanction is one entry of a debarment registry.
type Sanction struct {
	Registry    string
	Reason      string
	Authority   string
	PublishedAt time.Time
}

type sanctionPayload struct {
	DataPublicacaoSancao string `json:"dataPublicacaoSancao"`
	TipoSancao           struct {
		DescricaoResumida string `json:"descricaoResumida"`
	} `json:"tipoSancao"`
	OrgaoSancionador struct {
		Nome string `json:"nome"`
	} `json:"orgaoSancionador"`
	FonteSancao struct {
		NomeExibicao string `json:"nomeExibicao"`
	} `json:"fonteSancao"`
}

// DefaultSanctionRegistries are the debarment lists consulted: CEIS
// (ineligible and suspended companies) and CNEP (punished companies).
var DefaultSanctionRegistries = []string{"ceis", "cnep"}

// Sanctions queries every configured registry for a tax id. A failing
// registry fails the lookup; Isolate turns that into an empty result.
type Sanctions struct {
	transport  *providers.Transport
	registries []string
}

func NewSanctions(t *providers.Transport, registries ...string) *Sanctions {
	if len(registries) == 0 {
		registries = DefaultSanctionRegistries
	}
	return &Sanctions{transport: t, registries: registries}
}

func (s *Sanctions) ID() string { return s.transport.ID() }

func (s *Sanctions) Lookup(ctx context.Context, q providers.Query) ([]Sanction, error) {
	id := pstrings.Digits(q.Identifier)
	if id == "" {
		return nil, nil
	}
	var out []Sanction
	for _, registry := range s.registries {
		var page []sanctionPayload
		params := firstPage(url.Values{"codigoSancionado": {id}})
		if err := s.transport.GetJSON(ctx, "/"+registry, params, &page); err != nil {
			return nil, err
		}
		for _, p := range page {
			out = append(out, Sanction{
				Registry:    strings.ToUpper(registry),
				Reason:      strings.TrimSpace(p.TipoSancao.DescricaoResumida),
				Authority:   strings.TrimSpace(p.OrgaoSancionador.Nome),
				PublishedAt: parseDate(p.DataPublicacaoSancao),
			})
		}
	}
	return out, nil
}
