// Package fines searches an environmental infractions registry by free text.
package fines

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"dossier/internal/evidence/registry/providers"
)

// Infraction is one recorded environmental fine.
type Infraction struct {
	Date        time.Time
	Description string
	Value       float64
}

type infractionPayload struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Value       float64 `json:"value"`
}

type Registry struct {
	transport *providers.Transport
}

func New(t *providers.Transport) *Registry {
	return &Registry{transport: t}
}

func (r *Registry) ID() string { return r.transport.ID() }

// Lookup searches infractions whose offender matches q.Identifier, which may
// be a company name or a tax id.
func (r *Registry) Lookup(ctx context.Context, q providers.Query) ([]Infraction, error) {
	text := strings.TrimSpace(q.Identifier)
	if text == "" {
		return nil, nil
	}
	params := url.Values{"q": {text}}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	var page []infractionPayload
	if err := r.transport.GetJSON(ctx, "/infractions", params, &page); err != nil {
		return nil, err
	}
	out := make([]Infraction, 0, len(page))
	for _, p := range page {
		desc := strings.TrimSpace(p.Description)
		if desc == "" {
			continue
		}
		out = append(out, Infraction{Date: parseDate(p.Date), Description: desc, Value: p.Value})
	}
	return out, nil
}

func parseDate(s string) time.Time {
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return t
		}
	}
	return time.Time{}
}
