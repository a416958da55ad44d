package pipeline

import (
	"context"

	"dossier/internal/audit"
)

// AuditInline runs the preview and the deep audit synchronously, bypassing
// the queue. Used by batch sweeps.
func (o *Orchestrator) AuditInline(ctx context.Context, req PreviewRequest) (PartialDossier, error) {
	subject, err := req.subject()
	if err != nil {
		return PartialDossier{}, err
	}
	ctx, span := tracer.Start(ctx, "pipeline.AuditInline")
	defer span.End()

	o.previewPhase(ctx, subject)
	d, err := o.deepAudit(ctx, audit.NewJob(subject, subject.SeedTaxIDs, o.now()))
	if err != nil {
		return PartialDossier{}, err
	}
	return partial(d, d.State), nil
}
