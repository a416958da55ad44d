package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"dossier/internal/pipeline"
)

func newAuditCmd() *cobra.Command {
	var req pipeline.PreviewRequest
	cmd := &cobra.Command{
		Use:                   "audit --id ID --name NAME [--tax-id CPF] [--legislator-id ID] [--seed CNPJ ...]",
		Short:                 "Audit one subject inline and print the dossier as JSON",
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, closeFn, err := buildAuditor(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			pd, err := a.AuditInline(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("audit %s: %w", req.SubjectID, err)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(pd)
		},
	}
	cmd.Flags().StringVar(&req.SubjectID, "id", "", "Subject id (required)")
	cmd.Flags().StringVar(&req.Name, "name", "", "Subject full name (required)")
	cmd.Flags().StringVar(&req.TaxID, "tax-id", "", "Subject personal tax id")
	cmd.Flags().StringVar(&req.LegislatorID, "legislator-id", "", "Author code in the grant registry")
	cmd.Flags().StringSliceVar(&req.Seeds, "seed", nil, "Company tax id linked to the subject (repeatable)")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
