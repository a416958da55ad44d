package domain

import (
	"errors"
	"fmt"
	"strings"

	pstrings "dossier/pkg/platform/strings"
)

// ErrInvalidSubject is the only condition that aborts an audit.
var ErrInvalidSubject = errors.New("invalid subject")

// Subject is the identity under audit. It is immutable for one audit run.
type Subject struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	TaxID        string   `json:"tax_id,omitempty"`        // personal tax id, digits only
	LegislatorID string   `json:"legislator_id,omitempty"` // author code in the grant registry
	SeedTaxIDs   []string `json:"seed_tax_ids,omitempty"`  // caller-supplied company ids
}

// NewSubject trims and normalizes its inputs and validates the result.
func NewSubject(id, name, taxID, legislatorID string, seeds []string) (Subject, error) {
	s := Subject{
		ID:           strings.TrimSpace(id),
		Name:         strings.Join(strings.Fields(name), " "),
		TaxID:        pstrings.Digits(taxID),
		LegislatorID: strings.TrimSpace(legislatorID),
		SeedTaxIDs:   pstrings.DedupeAndTrim(seeds),
	}
	if err := s.Validate(); err != nil {
		return Subject{}, err
	}
	return s, nil
}

func (s Subject) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidSubject)
	}
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidSubject)
	}
	return nil
}

// IsLegislator reports whether grant lookups apply to this subject.
func (s Subject) IsLegislator() bool {
	return s.LegislatorID != ""
}
