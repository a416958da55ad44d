// Package providers defines the uniform contract of every external evidence
// source and the isolation boundary around it.
//
// A provider never breaks an audit. Isolate turns timeouts, non-success
// responses, undecodable payloads and panics into an empty result plus a
// WARN log, so callers treat "missing" and "empty" the same way.
package providers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"dossier/internal/platform/metrics"
)

// IdentifierKind says what Query.Identifier holds.
type IdentifierKind string

const (
	KindCompanyTaxID IdentifierKind = "company_tax_id"
	KindPersonTaxID  IdentifierKind = "person_tax_id"
	KindLegislator   IdentifierKind = "legislator_id"
	KindFreeText     IdentifierKind = "free_text"
)

// Query is the input of one lookup.
type Query struct {
	Identifier string
	Kind       IdentifierKind
	Limit      int
	Year       int
}

// Provider is one external source returning T for a query.
type Provider[T any] interface {
	ID() string
	Lookup(ctx context.Context, q Query) (T, error)
}

// DefaultTimeout bounds a single lookup.
const DefaultTimeout = 10 * time.Second

var tracer = otel.Tracer("dossier/providers")

type isolateConfig struct {
	timeout time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// IsolateOption configures Isolate.
type IsolateOption func(*isolateConfig)

func WithTimeout(d time.Duration) IsolateOption {
	return func(c *isolateConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithLogger(l *slog.Logger) IsolateOption {
	return func(c *isolateConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) IsolateOption {
	return func(c *isolateConfig) {
		c.metrics = m
	}
}

// Isolate runs p.Lookup under a timeout and converts every failure to the
// zero value. The bool is false when the provider failed.
func Isolate[T any](ctx context.Context, p Provider[T], q Query, opts ...IsolateOption) (result T, ok bool) {
	cfg := isolateConfig{timeout: DefaultTimeout, logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()
	ctx, span := tracer.Start(ctx, "providers.Lookup")
	span.SetAttributes(
		attribute.String("provider", p.ID()),
		attribute.String("query.kind", string(q.Kind)),
	)
	defer span.End()

	start := time.Now()
	var err error
	defer func() {
		if r := recover(); r != nil {
			err = NewProviderError(ErrorInternal, p.ID(), "panic during lookup", fmt.Errorf("%v", r))
		}
		outcome := "ok"
		if err != nil {
			var zero T
			result, ok = zero, false
			outcome = string(GetCategory(err))
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
			cfg.logger.WarnContext(ctx, "provider lookup failed",
				"provider", p.ID(),
				"kind", string(q.Kind),
				"category", outcome,
				"error", err,
			)
		}
		cfg.metrics.ObserveProviderLatency(p.ID(), outcome, time.Since(start))
	}()

	result, err = p.Lookup(ctx, q)
	return result, err == nil
}
