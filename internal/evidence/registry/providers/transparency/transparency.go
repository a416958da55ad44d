// Package transparency adapts the federal transparency portal API: sanction
// registries, public contracts, politically exposed persons, parliamentary
// grants and government card expenses. Every endpoint authenticates with the
// chave-api-dados header.
package transparency

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"dossier/internal/evidence/registry/providers"
)

// APIKeyHeader carries the portal access key.
const APIKeyHeader = "chave-api-dados"

// TransportConfig returns the transport settings for the portal with the
// access key header set.
func TransportConfig(baseURL, apiKey string, base providers.TransportConfig) providers.TransportConfig {
	base.BaseURL = baseURL
	headers := map[string]string{}
	for k, v := range base.Headers {
		headers[k] = v
	}
	if apiKey != "" {
		headers[APIKeyHeader] = apiKey
	}
	base.Headers = headers
	return base
}

func firstPage(params url.Values) url.Values {
	if params.Get("pagina") == "" {
		params.Set("pagina", "1")
	}
	return params
}

// parseAmount accepts both "1.234,56" and "1234.56".
func parseAmount(s string) float64 {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	if s == "" {
		return 0
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

var dateLayouts = []string{"02/01/2006", "2006-01-02", time.RFC3339}

func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// amount decodes a field the portal sends either as a number or as a
// localized string.
type amount float64

func (a *amount) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" {
		*a = 0
		return nil
	}
	*a = amount(parseAmount(s))
	return nil
}
