package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"dossier/internal/pipeline"
)

const defaultPause = 2 * time.Second

// Target is one subject in a sweep file.
type Target struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	TaxID        string   `yaml:"tax_id"`
	LegislatorID string   `yaml:"legislator_id"`
	Seeds        []string `yaml:"seeds"`
}

// Sweep is the targets file:
//
//	pause: 2s
//	targets:
//	  - id: "900001"
//	    name: Some Name
//	    tax_id: "00000000001"
type Sweep struct {
	Pause   time.Duration `yaml:"pause"`
	Targets []Target      `yaml:"targets"`
}

func loadSweep(path string) (Sweep, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Sweep{}, fmt.Errorf("read targets: %w", err)
	}
	var s Sweep
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return Sweep{}, fmt.Errorf("parse targets: %w", err)
	}
	if len(s.Targets) == 0 {
		return Sweep{}, fmt.Errorf("%s lists no targets", path)
	}
	return s, nil
}

func newSweepCmd() *cobra.Command {
	var (
		targetsPath string
		outDir      string
		pause       time.Duration
	)
	cmd := &cobra.Command{
		Use:                   "sweep --targets targets.yaml [--out DIR] [--pause 2s]",
		Short:                 "Audit every target in sequence",
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSweep(targetsPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("pause") || s.Pause <= 0 {
				s.Pause = pause
			}
			a, closeFn, err := buildAuditor(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()
			return runSweep(cmd.Context(), a, s, outDir, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&targetsPath, "targets", "", "YAML file listing the subjects to audit (required)")
	cmd.Flags().StringVar(&outDir, "out", "", "Directory to write one dossier_<id>.json per target")
	cmd.Flags().DurationVar(&pause, "pause", defaultPause, "Pause between targets")
	_ = cmd.MarkFlagRequired("targets")
	return cmd
}

// runSweep audits targets one after another. A failed target is reported and
// skipped; the sweep fails only when every target failed.
func runSweep(ctx context.Context, a auditor, s Sweep, outDir string, w io.Writer) error {
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	failed := 0
	for i, t := range s.Targets {
		if i > 0 && s.Pause > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.Pause):
			}
		}

		pd, err := a.AuditInline(ctx, pipeline.PreviewRequest{
			SubjectID:    t.ID,
			Name:         t.Name,
			TaxID:        t.TaxID,
			LegislatorID: t.LegislatorID,
			Seeds:        t.Seeds,
		})
		if err != nil {
			failed++
			fmt.Fprintf(w, "FAIL  %-12s %s: %v\n", t.ID, t.Name, err)
			continue
		}
		fmt.Fprintf(w, "OK    %-12s %-40s score=%d status=%s flags=%d\n",
			t.ID, t.Name, pd.Score, pd.Status, len(pd.Dossier.RedFlags))

		if outDir != "" {
			if err := writeDossier(outDir, t.ID, pd); err != nil {
				return err
			}
		}
	}
	if failed == len(s.Targets) {
		return fmt.Errorf("all %d targets failed", failed)
	}
	return nil
}

func writeDossier(dir, id string, pd pipeline.PartialDossier) error {
	raw, err := json.MarshalIndent(pd, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(dir, "dossier_"+filepath.Base(id)+".json")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
