// Package websearch queries a SearXNG-compatible JSON search endpoint.
package websearch

import (
	"context"
	"net/url"
	"strings"
	"time"

	"dossier/internal/evidence/registry/providers"
)

// Hit is one search result.
type Hit struct {
	Title string
	Body  string
	URL   string
	Date  time.Time
}

// Text is the title and body joined, the unit keyword rules scan.
func (h Hit) Text() string {
	return h.Title + " " + h.Body
}

type searchPayload struct {
	Results []struct {
		Title         string `json:"title"`
		Content       string `json:"content"`
		URL           string `json:"url"`
		PublishedDate string `json:"publishedDate"`
	} `json:"results"`
}

// DefaultLimit applies when a query does not set one.
const DefaultLimit = 10

type Engine struct {
	transport *providers.Transport
}

func New(t *providers.Transport) *Engine {
	return &Engine{transport: t}
}

func (e *Engine) ID() string { return e.transport.ID() }

// Lookup runs the free-text query and returns at most q.Limit hits.
func (e *Engine) Lookup(ctx context.Context, q providers.Query) ([]Hit, error) {
	text := strings.TrimSpace(q.Identifier)
	if text == "" {
		return nil, nil
	}
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	var payload searchPayload
	if err := e.transport.GetJSON(ctx, "/search", url.Values{"q": {text}, "format": {"json"}}, &payload); err != nil {
		return nil, err
	}
	hits := make([]Hit, 0, min(limit, len(payload.Results)))
	for _, r := range payload.Results {
		if len(hits) == limit {
			break
		}
		if strings.TrimSpace(r.URL) == "" && strings.TrimSpace(r.Title) == "" {
			continue
		}
		hits = append(hits, Hit{
			Title: strings.TrimSpace(r.Title),
			Body:  strings.TrimSpace(r.Content),
			URL:   strings.TrimSpace(r.URL),
			Date:  parseDate(r.PublishedDate),
		})
	}
	return hits, nil
}

func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
