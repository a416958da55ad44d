// Package pipeline runs the two-phase audit: a fast preview answered inline
// and a deep audit handed to background workers. Provider failures degrade
// the dossier; only an invalid subject is an error.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"golang.org/x/sync/singleflight"

	"dossier/internal/audit"
	"dossier/internal/domain"
	"dossier/internal/dossier/cache"
	"dossier/internal/dossier/store"
	"dossier/internal/evidence/registry/providers"
	"dossier/internal/evidence/registry/providers/corporate"
	"dossier/internal/evidence/registry/providers/fines"
	"dossier/internal/evidence/registry/providers/transparency"
	"dossier/internal/evidence/registry/providers/websearch"
	"dossier/internal/judgment"
	"dossier/internal/platform/metrics"
	"dossier/internal/scoring"
	"dossier/pkg/platform/sentinel"
)

var tracer = otel.Tracer("dossier/pipeline")

// persistTimeout bounds the final writes of a run. They run detached from the
// caller's context so an expired job deadline cannot drop gathered evidence.
const persistTimeout = 15 * time.Second

// Evidence is the isolated provider facade. Every method answers with an
// empty value when its source fails.
type Evidence interface {
	Company(ctx context.Context, taxID string) (corporate.Company, bool)
	Sanctions(ctx context.Context, id string, kind providers.IdentifierKind) []transparency.Sanction
	Infractions(ctx context.Context, text string, limit int) []fines.Infraction
	Contracts(ctx context.Context, taxID string, limit int) []transparency.Contract
	IsExposed(ctx context.Context, personTaxID string) bool
	Grants(ctx context.Context, legislatorID string, year int) []transparency.Grant
	CardExpenses(ctx context.Context, personTaxID string, limit int) []transparency.Expense
	Search(ctx context.Context, text string, limit int) []websearch.Hit
}

// Resolver discovers the companies linked to a subject.
type Resolver interface {
	Resolve(ctx context.Context, s domain.Subject, seeds []string) []string
}

// Circle harvests the names of a subject's relatives.
type Circle interface {
	Harvest(ctx context.Context, subjectName string) []string
}

// Judge always answers; failures surface as fallback verdicts.
type Judge interface {
	Judge(ctx context.Context, b judgment.Bundle) judgment.Verdict
}

// Settings bound how much work one audit does.
type Settings struct {
	PreviewTimeout    time.Duration
	PreviewMediaLimit int
	DeepMediaLimit    int
	EntityConcurrency int
	ContractLimit     int
	ExpenseLimit      int
	InfractionLimit   int
	Dedupe            domain.DedupePolicy
}

func DefaultSettings() Settings {
	return Settings{
		PreviewTimeout:    3 * time.Second,
		PreviewMediaLimit: 3,
		DeepMediaLimit:    10,
		EntityConcurrency: 4,
		ContractLimit:     20,
		ExpenseLimit:      50,
		InfractionLimit:   10,
		Dedupe:            domain.DedupeAdditive,
	}
}

func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.PreviewTimeout <= 0 {
		s.PreviewTimeout = d.PreviewTimeout
	}
	if s.PreviewMediaLimit <= 0 {
		s.PreviewMediaLimit = d.PreviewMediaLimit
	}
	if s.DeepMediaLimit <= 0 {
		s.DeepMediaLimit = d.DeepMediaLimit
	}
	if s.EntityConcurrency <= 0 {
		s.EntityConcurrency = d.EntityConcurrency
	}
	if s.ContractLimit <= 0 {
		s.ContractLimit = d.ContractLimit
	}
	if s.ExpenseLimit <= 0 {
		s.ExpenseLimit = d.ExpenseLimit
	}
	if s.InfractionLimit <= 0 {
		s.InfractionLimit = d.InfractionLimit
	}
	if s.Dedupe == "" {
		s.Dedupe = d.Dedupe
	}
	return s
}

// Deps are the collaborators an Orchestrator needs.
type Deps struct {
	Evidence  Evidence
	Resolver  Resolver
	Circle    Circle
	Judge     Judge
	Engine    *scoring.Engine
	Blacklist *scoring.Blacklist
	Store     store.Store
	Cache     cache.Cache
	Queue     audit.Queue
}

type Orchestrator struct {
	evidence  Evidence
	resolver  Resolver
	circle    Circle
	judge     Judge
	engine    *scoring.Engine
	blacklist *scoring.Blacklist
	store     store.Store
	cache     cache.Cache
	queue     audit.Queue

	settings Settings
	logger   *slog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
	flight   singleflight.Group
}

type Option func(*Orchestrator)

func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

func WithSettings(s Settings) Option {
	return func(o *Orchestrator) {
		o.settings = s.withDefaults()
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

func New(d Deps, opts ...Option) (*Orchestrator, error) {
	switch {
	case d.Evidence == nil:
		return nil, errors.New("evidence service is required")
	case d.Store == nil:
		return nil, errors.New("dossier store is required")
	case d.Cache == nil:
		return nil, errors.New("dossier cache is required")
	case d.Queue == nil:
		return nil, errors.New("audit queue is required")
	case d.Judge == nil:
		return nil, errors.New("judge is required")
	}
	o := &Orchestrator{
		evidence:  d.Evidence,
		resolver:  d.Resolver,
		circle:    d.Circle,
		judge:     d.Judge,
		engine:    d.Engine,
		blacklist: d.Blacklist,
		store:     d.Store,
		cache:     d.Cache,
		queue:     d.Queue,
		settings:  DefaultSettings(),
		logger:    slog.Default(),
		now:       time.Now,
	}
	if o.engine == nil {
		o.engine = scoring.NewEngine(scoring.DefaultPolicy())
	}
	if o.resolver == nil {
		o.resolver = seedsOnly{}
	}
	if o.circle == nil {
		o.circle = noCircle{}
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// PartialDossier is what callers see: the dossier so far and where its audit
// stands.
type PartialDossier struct {
	Dossier *domain.Dossier   `json:"dossier"`
	Score   int               `json:"score"`
	Status  domain.Status     `json:"status"`
	State   domain.AuditState `json:"state"`
}

func partial(d *domain.Dossier, state domain.AuditState) PartialDossier {
	if state == "" {
		state = d.State
	}
	return PartialDossier{Dossier: d, Score: d.Score(), Status: d.Status(), State: state}
}

// Dossier is the read path: cache first, then the store.
func (o *Orchestrator) Dossier(ctx context.Context, subjectID string) (PartialDossier, error) {
	entry, hit := o.cached(ctx, subjectID)
	if hit && entry.Dossier != nil {
		return partial(entry.Dossier, entry.State), nil
	}
	d, err := o.store.Get(ctx, subjectID)
	if err != nil {
		return PartialDossier{}, fmt.Errorf("load dossier %s: %w", subjectID, err)
	}
	state := d.State
	if hit {
		state = entry.State
	}
	return partial(d, state), nil
}

func (o *Orchestrator) cached(ctx context.Context, key string) (cache.Entry, bool) {
	e, ok, err := o.cache.Get(ctx, key)
	if err != nil {
		o.logger.WarnContext(ctx, "dossier cache unavailable", "subject_id", key, "error", err)
		o.metrics.IncrementCache("error")
		return cache.Entry{}, false
	}
	if !ok {
		o.metrics.IncrementCache("miss")
		return cache.Entry{}, false
	}
	o.metrics.IncrementCache("hit")
	return e, true
}

// load returns the stored dossier, or nil when there is none or the store
// cannot answer.
func (o *Orchestrator) load(ctx context.Context, key string) *domain.Dossier {
	d, err := o.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			o.logger.WarnContext(ctx, "dossier store unavailable", "subject_id", key, "error", err)
		}
		return nil
	}
	return d
}

func detach(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
}

// advance walks d through each state in order, skipping steps that are not
// legal from where it stands.
func advance(d *domain.Dossier, states ...domain.AuditState) {
	for _, s := range states {
		if d.State == s || domain.CanTransition(d.State, s) {
			d.State = s
		}
	}
}

func (o *Orchestrator) recordFlags(flags []domain.RedFlag) {
	for _, f := range flags {
		o.metrics.IncrementRedFlag(string(f.Kind), string(f.Phase))
	}
}

type seedsOnly struct{}

func (seedsOnly) Resolve(_ context.Context, _ domain.Subject, seeds []string) []string {
	return seeds
}

type noCircle struct{}

func (noCircle) Harvest(context.Context, string) []string { return nil }
