package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"dossier/internal/audit"
	"dossier/internal/domain"
	"dossier/internal/dossier/cache"
	"dossier/internal/scoring"
)

// PreviewRequest identifies the subject to audit.
type PreviewRequest struct {
	SubjectID    string   `json:"subject_id"`
	Name         string   `json:"name"`
	TaxID        string   `json:"tax_id,omitempty"`
	LegislatorID string   `json:"legislator_id,omitempty"`
	Seeds        []string `json:"seeds,omitempty"`
}

func (r PreviewRequest) subject() (domain.Subject, error) {
	return domain.NewSubject(r.SubjectID, r.Name, r.TaxID, r.LegislatorID, r.Seeds)
}

// MediaQuery is the adverse-media search run in both phases.
func MediaQuery(name string) string {
	return fmt.Sprintf(`"%s" (STF OR "Polícia Federal" OR "Ministério Público" OR corrupção OR inquérito OR "Lava Jato" OR indiciado)`, name)
}

// Preview answers quickly with the blacklist check and a short media scan,
// then queues the deep audit. A cached entry, pending or complete, is
// returned as is. Concurrent previews of one subject share a single run.
func (o *Orchestrator) Preview(ctx context.Context, req PreviewRequest) (PartialDossier, error) {
	subject, err := req.subject()
	if err != nil {
		return PartialDossier{}, err
	}
	ctx, span := tracer.Start(ctx, "pipeline.Preview")
	defer span.End()
	span.SetAttributes(attribute.String("subject.id", subject.ID))

	if pd, ok := o.fromCache(ctx, subject.ID); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return pd, nil
	}

	v, _, _ := o.flight.Do(subject.ID, func() (any, error) {
		return o.previewAndEnqueue(context.WithoutCancel(ctx), subject), nil
	})
	pd := v.(PartialDossier)
	pd.Dossier = pd.Dossier.Clone()
	return pd, nil
}

func (o *Orchestrator) fromCache(ctx context.Context, key string) (PartialDossier, bool) {
	entry, ok := o.cached(ctx, key)
	if !ok {
		return PartialDossier{}, false
	}
	d := entry.Dossier
	if d == nil {
		stored, err := o.store.Get(ctx, key)
		if err != nil {
			return PartialDossier{}, false
		}
		d = stored
	}
	return partial(d, entry.State), true
}

func (o *Orchestrator) previewAndEnqueue(ctx context.Context, subject domain.Subject) PartialDossier {
	start := time.Now()
	defer func() { o.metrics.ObservePreviewLatency(time.Since(start)) }()

	fast := o.scoreFast(ctx, subject)
	d := fast.merge(subject, o.settings.Dedupe)(o.load(ctx, subject.ID))

	// Only the run holding the reservation merges with the configured policy.
	// Without a cache nothing coalesces, so the merge falls back to the
	// source/title policy and repeated previews charge the fast flags once.
	reserved, err := o.cache.Reserve(ctx, subject.ID, cache.Entry{State: domain.StateQueued, Dossier: d, UpdatedAt: o.now()})
	switch {
	case err != nil:
		o.logger.WarnContext(ctx, "dossier cache reserve failed, enqueueing anyway", "subject_id", subject.ID, "error", err)
		d = o.persist(ctx, subject, fast.merge(subject, domain.DedupeBySourceTitle))
	case !reserved:
		if entry, ok := o.cached(ctx, subject.ID); ok {
			if entry.Dossier != nil {
				return partial(entry.Dossier, entry.State)
			}
			return partial(d, entry.State)
		}
		return partial(d, domain.StateQueued)
	default:
		d = o.persist(ctx, subject, fast.merge(subject, o.settings.Dedupe))
		if err := o.cache.Set(ctx, subject.ID, cache.Entry{State: domain.StateQueued, Dossier: d, UpdatedAt: o.now()}); err != nil {
			o.logger.WarnContext(ctx, "dossier cache update failed", "subject_id", subject.ID, "error", err)
		}
	}

	job := audit.NewJob(subject, subject.SeedTaxIDs, o.now())
	if err := o.queue.Enqueue(ctx, job); err != nil {
		o.logger.WarnContext(ctx, "deep audit not queued", "subject_id", subject.ID, "error", err)
		if ierr := o.cache.Invalidate(ctx, subject.ID); ierr != nil {
			o.logger.WarnContext(ctx, "dossier cache invalidate failed", "subject_id", subject.ID, "error", ierr)
		}
		return partial(d, domain.StateFastPreview)
	}
	o.logger.InfoContext(ctx, "deep audit queued", "subject_id", subject.ID, "job_id", job.ID)
	return partial(d, domain.StateQueued)
}

// previewPhase scores the fast evidence on top of the stored dossier and
// persists the merge. A store failure is logged and the local merge kept.
func (o *Orchestrator) previewPhase(ctx context.Context, subject domain.Subject) *domain.Dossier {
	return o.persist(ctx, subject, o.scoreFast(ctx, subject).merge(subject, o.settings.Dedupe))
}

// fastResult is the scored fast evidence of one preview.
type fastResult struct {
	flags []domain.RedFlag
	at    time.Time
}

// scoreFast runs the blacklist check and the media scan. The search is held
// to PreviewTimeout.
func (o *Orchestrator) scoreFast(ctx context.Context, subject domain.Subject) fastResult {
	now := o.now()
	searchCtx, cancel := context.WithTimeout(ctx, o.settings.PreviewTimeout)
	hits := o.evidence.Search(searchCtx, MediaQuery(subject.Name), o.settings.PreviewMediaLimit)
	cancel()

	res := o.engine.Score(0, scoring.Evidence{
		Phase:       domain.PhaseFast,
		SubjectName: subject.Name,
		Date:        now,
		Blacklist:   o.blacklist,
		Media:       hits,
	})
	o.recordFlags(res.Flags)
	return fastResult{flags: res.Flags, at: now}
}

func (f fastResult) merge(subject domain.Subject, policy domain.DedupePolicy) func(*domain.Dossier) *domain.Dossier {
	return func(cur *domain.Dossier) *domain.Dossier {
		if cur == nil {
			cur = domain.NewDossier(subject)
		}
		cur.SubjectName = subject.Name
		cur.Merge(domain.Update{Flags: f.flags, At: f.at}, policy)
		advance(cur, domain.StateRequested, domain.StateFastPreview)
		return cur
	}
}

func (o *Orchestrator) persist(ctx context.Context, subject domain.Subject, apply func(*domain.Dossier) *domain.Dossier) *domain.Dossier {
	d, err := o.store.Update(ctx, subject.ID, func(cur *domain.Dossier) (*domain.Dossier, error) {
		return apply(cur), nil
	})
	if err == nil {
		return d
	}
	o.logger.ErrorContext(ctx, "dossier not persisted", "subject_id", subject.ID, "error", err)
	return apply(o.load(ctx, subject.ID))
}
