// Package registry puts every evidence provider behind one typed facade. Each
// method goes through providers.Isolate, so a failing or unconfigured source
// answers with an empty result and never an error.
package registry

import (
	"context"
	"log/slog"

	"dossier/internal/evidence/registry/providers"
	"dossier/internal/evidence/registry/providers/corporate"
	"dossier/internal/evidence/registry/providers/fines"
	"dossier/internal/evidence/registry/providers/transparency"
	"dossier/internal/evidence/registry/providers/websearch"
	"dossier/internal/platform/config"
)

// Sources lists the providers the service fans out to. Nil fields are
// treated as sources that always come back empty.
type Sources struct {
	Corporate    providers.Provider[corporate.Company]
	Sanctions    providers.Provider[[]transparency.Sanction]
	Fines        providers.Provider[[]fines.Infraction]
	Contracts    providers.Provider[[]transparency.Contract]
	Exposed      providers.Provider[bool]
	Grants       providers.Provider[[]transparency.Grant]
	CardExpenses providers.Provider[[]transparency.Expense]
	Search       providers.Provider[[]websearch.Hit]
}

// NewSources builds HTTP adapters for every configured URL.
func NewSources(cfg config.Providers, logger *slog.Logger) Sources {
	base := providers.TransportConfig{
		Timeout:       cfg.Timeout,
		Retries:       cfg.Retries,
		RatePerSecond: cfg.RatePerSecond,
		Logger:        logger,
	}
	with := func(url string) providers.TransportConfig {
		c := base
		c.BaseURL = url
		return c
	}

	var src Sources
	if cfg.CorporateURL != "" {
		src.Corporate = corporate.New(providers.NewTransport("corporate_registry", with(cfg.CorporateURL)))
	}
	if cfg.TransparencyURL != "" {
		tc := transparency.TransportConfig(cfg.TransparencyURL, cfg.TransparencyKey, base)
		src.Sanctions = transparency.NewSanctions(providers.NewTransport("sanctions", tc))
		src.Contracts = transparency.NewContracts(providers.NewTransport("public_contracts", tc))
		src.Exposed = transparency.NewExposedPersons(providers.NewTransport("exposed_persons", tc))
		src.Grants = transparency.NewGrants(providers.NewTransport("grants", tc))
		src.CardExpenses = transparency.NewCardExpenses(providers.NewTransport("card_expenses", tc))
	}
	if cfg.FinesURL != "" {
		src.Fines = fines.New(providers.NewTransport("environmental_fines", with(cfg.FinesURL)))
	}
	if cfg.WebSearchURL != "" {
		src.Search = websearch.New(providers.NewTransport("web_search", with(cfg.WebSearchURL)))
	}
	return src
}

// Service coordinates isolated lookups against the configured sources.
type Service struct {
	src  Sources
	opts []providers.IsolateOption
}

func NewService(src Sources, opts ...providers.IsolateOption) *Service {
	return &Service{src: src, opts: opts}
}

func lookup[T any](ctx context.Context, p providers.Provider[T], q providers.Query, opts []providers.IsolateOption) T {
	if p == nil {
		var zero T
		return zero
	}
	v, _ := providers.Isolate(ctx, p, q, opts...)
	return v
}

// Company returns the registry record; ok is false when nothing was found.
func (s *Service) Company(ctx context.Context, taxID string) (corporate.Company, bool) {
	c := lookup(ctx, s.src.Corporate, providers.Query{Identifier: taxID, Kind: providers.KindCompanyTaxID}, s.opts)
	return c, c.TaxID != ""
}

func (s *Service) Sanctions(ctx context.Context, id string, kind providers.IdentifierKind) []transparency.Sanction {
	return lookup(ctx, s.src.Sanctions, providers.Query{Identifier: id, Kind: kind}, s.opts)
}

func (s *Service) Infractions(ctx context.Context, text string, limit int) []fines.Infraction {
	return lookup(ctx, s.src.Fines, providers.Query{Identifier: text, Kind: providers.KindFreeText, Limit: limit}, s.opts)
}

func (s *Service) Contracts(ctx context.Context, taxID string, limit int) []transparency.Contract {
	return lookup(ctx, s.src.Contracts, providers.Query{Identifier: taxID, Kind: providers.KindCompanyTaxID, Limit: limit}, s.opts)
}

func (s *Service) IsExposed(ctx context.Context, personTaxID string) bool {
	return lookup(ctx, s.src.Exposed, providers.Query{Identifier: personTaxID, Kind: providers.KindPersonTaxID}, s.opts)
}

func (s *Service) Grants(ctx context.Context, legislatorID string, year int) []transparency.Grant {
	return lookup(ctx, s.src.Grants, providers.Query{Identifier: legislatorID, Kind: providers.KindLegislator, Year: year}, s.opts)
}

func (s *Service) CardExpenses(ctx context.Context, personTaxID string, limit int) []transparency.Expense {
	return lookup(ctx, s.src.CardExpenses, providers.Query{Identifier: personTaxID, Kind: providers.KindPersonTaxID, Limit: limit}, s.opts)
}

func (s *Service) Search(ctx context.Context, text string, limit int) []websearch.Hit {
	return lookup(ctx, s.src.Search, providers.Query{Identifier: text, Kind: providers.KindFreeText, Limit: limit}, s.opts)
}
