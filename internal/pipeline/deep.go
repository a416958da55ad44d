package pipeline

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"dossier/internal/affinity"
	"dossier/internal/audit"
	"dossier/internal/domain"
	"dossier/internal/dossier/cache"
	"dossier/internal/evidence/registry/providers"
	"dossier/internal/evidence/registry/providers/corporate"
	"dossier/internal/evidence/registry/providers/fines"
	"dossier/internal/evidence/registry/providers/transparency"
	"dossier/internal/evidence/registry/providers/websearch"
	"dossier/internal/judgment"
	"dossier/internal/scoring"
	pstrings "dossier/pkg/platform/strings"
)

// entityEvidence is one linked company and what the registries said about
// it. Slots are filled by index so the output order never depends on which
// lookup finished first.
type entityEvidence struct {
	taxID       string
	company     corporate.Company
	found       bool
	sanctions   []transparency.Sanction
	contracts   []transparency.Contract
	infractions []fines.Infraction
}

func (e entityEvidence) name() string {
	if e.company.LegalName != "" {
		return e.company.LegalName
	}
	return e.taxID
}

// deepEvidence is everything the deep phase gathered.
type deepEvidence struct {
	associates []string
	media      []websearch.Hit
	sanctions  []transparency.Sanction
	exposed    bool
	grants     []transparency.Grant
	expenses   []transparency.Expense
	entities   []entityEvidence
}

// Process lets the orchestrator serve as the worker pool's processor.
func (o *Orchestrator) Process(ctx context.Context, job audit.Job) error {
	return o.DeepAudit(ctx, job)
}

// DeepAudit runs the full evidence sweep for a queued job and completes the
// dossier. Only an invalid subject is reported as an error; every other
// failure degrades the result and is logged.
func (o *Orchestrator) DeepAudit(ctx context.Context, job audit.Job) error {
	_, err := o.deepAudit(ctx, job)
	return err
}

func (o *Orchestrator) deepAudit(ctx context.Context, job audit.Job) (*domain.Dossier, error) {
	subject := job.Subject
	if err := subject.Validate(); err != nil {
		return nil, err
	}
	ctx, span := tracer.Start(ctx, "pipeline.DeepAudit")
	defer span.End()
	span.SetAttributes(attribute.String("subject.id", subject.ID), attribute.String("job.id", job.ID.String()))

	start := time.Now()
	defer func() { o.metrics.ObserveDeepAuditLatency(time.Since(start)) }()

	o.markRunning(ctx, subject)

	seeds := pstrings.DedupeAndTrim(append(append([]string(nil), job.Seeds...), subject.SeedTaxIDs...))
	ev := o.gather(ctx, subject, seeds)

	now := o.now()
	matcher := affinity.NewMatcher(subject.Name, ev.associates)
	scoringEv, entities, bundle := o.assemble(subject, ev, matcher, now)

	res := o.engine.Score(0, scoringEv)
	for _, f := range o.priorFlags(ctx, subject.ID) {
		bundle.Add(flagItem(f))
	}
	for _, f := range res.Flags {
		bundle.Add(flagItem(f))
	}
	verdict := o.judge.Judge(ctx, bundle)
	span.SetAttributes(attribute.String("judgment.tier", string(verdict.Tier)), attribute.Bool("judgment.fallback", verdict.Fallback))
	res = o.engine.FoldVerdict(res, now, verdict.ForScoring())
	o.recordFlags(res.Flags)

	wctx, cancel := detach(ctx)
	defer cancel()
	d := o.persist(wctx, subject, func(cur *domain.Dossier) *domain.Dossier {
		if cur == nil {
			cur = domain.NewDossier(subject)
			advance(cur, domain.StateRequested, domain.StateFastPreview)
		}
		cur.Merge(domain.Update{Flags: res.Flags, Entities: entities, At: now}, o.settings.Dedupe)
		advance(cur, domain.StateRunning, domain.StateComplete)
		return cur
	})

	if err := o.cache.Set(wctx, subject.ID, cache.Entry{State: domain.StateComplete, Dossier: d, UpdatedAt: now}); err != nil {
		o.logger.WarnContext(ctx, "dossier cache update failed", "subject_id", subject.ID, "error", err)
	}
	o.logger.InfoContext(ctx, "deep audit complete",
		"subject_id", subject.ID,
		"score", d.Score(),
		"status", d.Status(),
		"entities", len(entities),
		"tier", verdict.Tier,
		"fallback", verdict.Fallback,
	)
	return d, nil
}

// priorFlags are the flags already recorded for the subject, fast phase and
// earlier runs included.
func (o *Orchestrator) priorFlags(ctx context.Context, key string) []domain.RedFlag {
	rctx, cancel := detach(ctx)
	defer cancel()
	if d := o.load(rctx, key); d != nil {
		return d.RedFlags
	}
	return nil
}

func (o *Orchestrator) markRunning(ctx context.Context, subject domain.Subject) {
	d := o.persist(ctx, subject, func(cur *domain.Dossier) *domain.Dossier {
		if cur == nil {
			cur = domain.NewDossier(subject)
			advance(cur, domain.StateRequested, domain.StateFastPreview)
		}
		advance(cur, domain.StateRunning)
		return cur
	})
	if err := o.cache.Set(ctx, subject.ID, cache.Entry{State: domain.StateRunning, Dossier: d, UpdatedAt: o.now()}); err != nil {
		o.logger.WarnContext(ctx, "dossier cache update failed", "subject_id", subject.ID, "error", err)
	}
}

// gather resolves entities, harvests associates and runs the subject and
// entity lookups concurrently.
func (o *Orchestrator) gather(ctx context.Context, subject domain.Subject, seeds []string) deepEvidence {
	var ev deepEvidence
	var taxIDs []string

	var g errgroup.Group
	g.Go(func() error {
		taxIDs = o.resolver.Resolve(ctx, subject, seeds)
		return nil
	})
	g.Go(func() error {
		ev.associates = o.circle.Harvest(ctx, subject.Name)
		return nil
	})
	g.Go(func() error {
		ev.media = o.evidence.Search(ctx, MediaQuery(subject.Name), o.settings.DeepMediaLimit)
		return nil
	})
	if subject.TaxID != "" {
		g.Go(func() error {
			ev.sanctions = o.evidence.Sanctions(ctx, subject.TaxID, providers.KindPersonTaxID)
			return nil
		})
		g.Go(func() error {
			ev.exposed = o.evidence.IsExposed(ctx, subject.TaxID)
			return nil
		})
		g.Go(func() error {
			ev.expenses = o.evidence.CardExpenses(ctx, subject.TaxID, o.settings.ExpenseLimit)
			return nil
		})
	}
	if subject.IsLegislator() {
		g.Go(func() error {
			ev.grants = o.evidence.Grants(ctx, subject.LegislatorID, o.now().Year())
			return nil
		})
	}
	_ = g.Wait()

	ev.entities = o.gatherEntities(ctx, taxIDs)
	return ev
}

func (o *Orchestrator) gatherEntities(ctx context.Context, taxIDs []string) []entityEvidence {
	slots := make([]entityEvidence, len(taxIDs))
	var g errgroup.Group
	g.SetLimit(o.settings.EntityConcurrency)
	for i, id := range taxIDs {
		g.Go(func() error {
			slot := entityEvidence{taxID: id}
			slot.company, slot.found = o.evidence.Company(ctx, id)
			slot.sanctions = o.evidence.Sanctions(ctx, id, providers.KindCompanyTaxID)
			slot.contracts = o.evidence.Contracts(ctx, id, o.settings.ContractLimit)
			query := id
			if slot.found && slot.company.LegalName != "" {
				query = slot.company.LegalName
			}
			slot.infractions = o.evidence.Infractions(ctx, query, o.settings.InfractionLimit)
			slots[i] = slot
			return nil
		})
	}
	_ = g.Wait()
	return slots
}

// assemble turns gathered evidence into scoring input, dossier entities and
// the judgment bundle.
func (o *Orchestrator) assemble(subject domain.Subject, ev deepEvidence, matcher *affinity.Matcher, now time.Time) (scoring.Evidence, []domain.Entity, judgment.Bundle) {
	sev := scoring.Evidence{
		Phase:            domain.PhaseDeep,
		SubjectName:      subject.Name,
		Date:             now,
		Media:            ev.media,
		SubjectSanctions: ev.sanctions,
		Exposed:          ev.exposed,
	}
	b := newBundle(subject)

	entities := make([]domain.Entity, 0, len(ev.entities))
	for _, e := range ev.entities {
		entity := domain.Entity{TaxID: e.taxID, LegalName: e.company.LegalName}
		officers := make([]officerAffinity, 0, len(e.company.Officers))
		for _, off := range e.company.Officers {
			person := domain.Person{Name: off.Name, Role: off.Role}
			aff := matcher.Classify(off.Name)
			entity.Officers = append(entity.Officers, person)
			officers = append(officers, officerAffinity{person: person, affinity: aff})
			sev.Officers = append(sev.Officers, scoring.OfficerEvidence{
				EntityTaxID: e.taxID,
				EntityName:  e.company.LegalName,
				Person:      person,
				Affinity:    aff,
			})
		}
		entities = append(entities, entity)
		b.addEntity(e, officers)

		for _, s := range e.sanctions {
			sev.EntitySanctions = append(sev.EntitySanctions, scoring.EntitySanction{EntityTaxID: e.taxID, EntityName: e.company.LegalName, Sanction: s})
		}
		for _, inf := range e.infractions {
			sev.Infractions = append(sev.Infractions, scoring.EntityInfraction{EntityTaxID: e.taxID, EntityName: e.company.LegalName, Infraction: inf})
		}
		for _, c := range e.contracts {
			sev.Contracts = append(sev.Contracts, scoring.EntityContract{EntityTaxID: e.taxID, EntityName: e.company.LegalName, Contract: c})
		}
	}

	b.addMedia(ev.media)
	b.addSanctions(subject.Name, ev.sanctions)
	b.addGrants(ev.grants)
	b.addExpenses(ev.expenses)
	return sev, entities, b.Bundle
}
