// Package resolver discovers the company tax ids linked to a subject: the
// caller's seeds, companies named in the subject's asset declarations, and
// companies found next to the subject's own tax id in open sources.
//
// Resolve never fails. A search that errors contributes nothing.
package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"dossier/internal/domain"
	"dossier/internal/evidence/registry/providers/websearch"
	pstrings "dossier/pkg/platform/strings"
)

// Searcher runs a free-text web search. registry.Service implements it.
type Searcher interface {
	Search(ctx context.Context, text string, limit int) []websearch.Hit
}

const (
	DefaultMaxSeeds    = 20
	DefaultMaxEntities = 30
	searchLimit        = 10
	companyTaxIDLen    = 14
)

var (
	formattedOrBare = regexp.MustCompile(`\b\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}\b|\b\d{14}\b`)
	spaced          = regexp.MustCompile(`\b\d{2}\s?\d{3}\s?\d{3}\s?\d{4}\s?\d{2}\b`)
)

// Resolver expands a subject into linked company tax ids.
type Resolver struct {
	search      Searcher
	maxSeeds    int
	maxEntities int
	logger      *slog.Logger
}

type Option func(*Resolver)

func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

func WithMaxSeeds(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.maxSeeds = n
		}
	}
}

func WithMaxEntities(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.maxEntities = n
		}
	}
}

func New(search Searcher, opts ...Option) *Resolver {
	r := &Resolver{
		search:      search,
		maxSeeds:    DefaultMaxSeeds,
		maxEntities: DefaultMaxEntities,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the ordered, deduplicated union of seeds, asset
// declaration hits and open-source hits, excluding the subject's own tax id
// and capped at the configured maximum.
func (r *Resolver) Resolve(ctx context.Context, s domain.Subject, seeds []string) []string {
	u := newUnion(s.TaxID, r.maxEntities)

	for _, id := range r.normalizeSeeds(seeds) {
		u.add(id)
	}
	if u.full() {
		return u.ids
	}

	for _, hit := range r.searchHits(ctx, assetQuery(s)) {
		u.add(MineTaxIDs(hit.Text())...)
	}
	if u.full() || s.TaxID == "" {
		return u.ids
	}

	formatted := FormatTaxID(s.TaxID)
	for _, hit := range r.searchHits(ctx, fmt.Sprintf("%q", formatted)) {
		text := hit.Text()
		if !strings.Contains(text, formatted) && !strings.Contains(text, s.TaxID) {
			continue
		}
		u.add(MineTaxIDs(text)...)
	}

	r.logger.DebugContext(ctx, "entities resolved", "subject_id", s.ID, "count", len(u.ids))
	return u.ids
}

func (r *Resolver) normalizeSeeds(seeds []string) []string {
	out := make([]string, 0, len(seeds))
	for _, raw := range seeds {
		id := pstrings.Digits(raw)
		if len(id) != companyTaxIDLen {
			r.logger.Debug("dropping malformed seed", "seed", raw)
			continue
		}
		out = append(out, id)
		if len(out) == r.maxSeeds {
			break
		}
	}
	return out
}

func (r *Resolver) searchHits(ctx context.Context, query string) []websearch.Hit {
	if r.search == nil {
		return nil
	}
	return r.search.Search(ctx, query, searchLimit)
}

func assetQuery(s domain.Subject) string {
	q := fmt.Sprintf(`site:divulgacandcontas.tse.jus.br "%s" bens declarados`, s.Name)
	if s.TaxID != "" {
		q += " " + s.TaxID
	}
	return q
}

// MineTaxIDs extracts 14-digit company tax ids from free text, normalized to
// digits, in order of appearance and without repeats.
func MineTaxIDs(text string) []string {
	var out []string
	seen := map[string]struct{}{}
	add := func(matches []string) {
		for _, m := range matches {
			id := pstrings.Digits(m)
			if len(id) != companyTaxIDLen {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	add(formattedOrBare.FindAllString(text, -1))
	add(spaced.FindAllString(text, -1))
	return out
}

// FormatTaxID renders an 11-digit personal or 14-digit company tax id with
// the usual punctuation. Other inputs are returned unchanged.
func FormatTaxID(digits string) string {
	switch len(digits) {
	case 11:
		return digits[:3] + "." + digits[3:6] + "." + digits[6:9] + "-" + digits[9:]
	case 14:
		return digits[:2] + "." + digits[2:5] + "." + digits[5:8] + "/" + digits[8:12] + "-" + digits[12:]
	default:
		return digits
	}
}

type union struct {
	exclude string
	limit   int
	ids     []string
	seen    map[string]struct{}
}

func newUnion(exclude string, limit int) *union {
	return &union{exclude: exclude, limit: limit, ids: []string{}, seen: map[string]struct{}{}}
}

func (u *union) add(ids ...string) {
	for _, id := range ids {
		if u.full() {
			return
		}
		if id == "" || id == u.exclude {
			continue
		}
		if _, ok := u.seen[id]; ok {
			continue
		}
		u.seen[id] = struct{}{}
		u.ids = append(u.ids, id)
	}
}

func (u *union) full() bool {
	return len(u.ids) >= u.limit
}
