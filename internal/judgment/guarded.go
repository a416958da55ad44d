package judgment

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"dossier/internal/platform/metrics"
	"dossier/pkg/platform/circuit"
)

const DefaultTimeout = 30 * time.Second

var tracer = otel.Tracer("dossier/judgment")

// Guarded wraps a Delegate with a timeout and a circuit breaker. Judge
// always returns a verdict; any failure yields Fallback.
type Guarded struct {
	delegate Delegate
	breaker  *circuit.Breaker
	timeout  time.Duration
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type GuardOption func(*Guarded)

func WithTimeout(d time.Duration) GuardOption {
	return func(g *Guarded) {
		if d > 0 {
			g.timeout = d
		}
	}
}

func WithBreaker(b *circuit.Breaker) GuardOption {
	return func(g *Guarded) {
		if b != nil {
			g.breaker = b
		}
	}
}

func WithLogger(l *slog.Logger) GuardOption {
	return func(g *Guarded) {
		if l != nil {
			g.logger = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) GuardOption {
	return func(g *Guarded) {
		g.metrics = m
	}
}

func NewGuarded(d Delegate, opts ...GuardOption) *Guarded {
	g := &Guarded{
		delegate: d,
		breaker:  circuit.New("judgment", circuit.WithFailureThreshold(3), circuit.WithCooldown(time.Minute)),
		timeout:  DefaultTimeout,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Guarded) Judge(ctx context.Context, b Bundle) Verdict {
	ctx, span := tracer.Start(ctx, "judgment.Judge")
	defer span.End()

	if g.delegate == nil {
		g.metrics.IncrementJudgment("fallback")
		return Fallback(b)
	}
	if !g.breaker.Allow() {
		g.metrics.IncrementJudgment("breaker_open")
		span.SetAttributes(attribute.Bool("judgment.fallback", true))
		g.logger.WarnContext(ctx, "judgment circuit open, using fallback", "subject_id", b.Subject.ID)
		return Fallback(b)
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	v, err := g.delegate.Judge(callCtx, b)
	if err != nil {
		_, change := g.breaker.RecordFailure()
		if change.Opened {
			g.logger.WarnContext(ctx, "judgment circuit opened", "breaker", g.breaker.Name())
		}
		g.metrics.IncrementJudgment("fallback")
		span.SetAttributes(attribute.Bool("judgment.fallback", true))
		span.RecordError(err)
		g.logger.WarnContext(ctx, "judgment failed, using fallback", "subject_id", b.Subject.ID, "error", err)
		return Fallback(b)
	}

	if _, change := g.breaker.RecordSuccess(); change.Closed {
		g.logger.InfoContext(ctx, "judgment circuit closed", "breaker", g.breaker.Name())
	}
	g.metrics.IncrementJudgment("model")
	span.SetAttributes(attribute.String("judgment.tier", string(v.Tier)))
	v.Fallback = false
	return v
}
