package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"dossier/internal/app"
	"dossier/internal/pipeline"
	"dossier/internal/platform/config"
	"dossier/internal/platform/logger"
)

// auditor runs one subject through both phases without the queue.
type auditor interface {
	AuditInline(ctx context.Context, req pipeline.PreviewRequest) (pipeline.PartialDossier, error)
}

// buildAuditor is swapped in tests.
var buildAuditor = func(ctx context.Context) (auditor, func(), error) {
	cfg := config.FromEnv()
	log := logger.NewWithWriter(os.Stderr, cfg.Server.LogLevel, cfg.Server.LogFormat)
	slog.SetDefault(log)
	a, err := app.Build(ctx, cfg, log, nil)
	if err != nil {
		return nil, nil, err
	}
	return a.Orchestrator, a.Close, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:                   "dossierctl [command]",
		Short:                 "Run risk dossier audits from the command line.",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.AddCommand(newAuditCmd(), newSweepCmd())
	return root
}
