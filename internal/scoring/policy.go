package scoring

import (
	"errors"
	"fmt"

	"dossier/internal/domain"
)

// Policy holds the point deductions. Values are tunable but their relative
// order is fixed; see Validate.
type Policy struct {
	Blacklist        int
	SelfDealing      int
	Associate        int
	Surname          int
	SanctionSubject  int
	SanctionEntity   int
	Environmental    int
	AdverseMediaFast int
	AdverseMediaDeep int
	Exposed          int
	Contract         int
	TierPoints       map[domain.Tier]int
}

func DefaultPolicy() Policy {
	return Policy{
		Blacklist:        500,
		SelfDealing:      600,
		Associate:        500,
		Surname:          350,
		SanctionSubject:  340,
		SanctionEntity:   300,
		Environmental:    150,
		AdverseMediaFast: 50,
		AdverseMediaDeep: 100,
		Exposed:          0,
		Contract:         0,
		TierPoints: map[domain.Tier]int{
			domain.TierLow:      0,
			domain.TierMedium:   150,
			domain.TierHigh:     300,
			domain.TierCritical: 400,
		},
	}
}

var ErrInvalidPolicy = errors.New("invalid scoring policy")

// Validate enforces non-negative values and the severity order
// self > associate > surname > subject sanction > entity sanction >
// environmental > deep adverse media >= fast adverse media.
func (p Policy) Validate() error {
	values := map[string]int{
		"blacklist":          p.Blacklist,
		"self_dealing":       p.SelfDealing,
		"associate":          p.Associate,
		"surname":            p.Surname,
		"sanction_subject":   p.SanctionSubject,
		"sanction_entity":    p.SanctionEntity,
		"environmental":      p.Environmental,
		"adverse_media_fast": p.AdverseMediaFast,
		"adverse_media_deep": p.AdverseMediaDeep,
		"exposed":            p.Exposed,
		"contract":           p.Contract,
	}
	for name, v := range values {
		if v < 0 {
			return fmt.Errorf("%w: %s is negative", ErrInvalidPolicy, name)
		}
	}
	for tier, v := range p.TierPoints {
		if v < 0 {
			return fmt.Errorf("%w: tier %s is negative", ErrInvalidPolicy, tier)
		}
	}

	chain := []struct {
		name string
		v    int
	}{
		{"self_dealing", p.SelfDealing},
		{"associate", p.Associate},
		{"surname", p.Surname},
		{"sanction_subject", p.SanctionSubject},
		{"sanction_entity", p.SanctionEntity},
		{"environmental", p.Environmental},
		{"adverse_media_deep", p.AdverseMediaDeep},
	}
	for i := 1; i < len(chain); i++ {
		if chain[i-1].v <= chain[i].v {
			return fmt.Errorf("%w: %s must exceed %s", ErrInvalidPolicy, chain[i-1].name, chain[i].name)
		}
	}
	if p.AdverseMediaDeep < p.AdverseMediaFast {
		return fmt.Errorf("%w: adverse_media_deep must be at least adverse_media_fast", ErrInvalidPolicy)
	}
	return nil
}

// AdverseMedia returns the media weight for a pipeline phase.
func (p Policy) AdverseMedia(phase domain.Phase) int {
	if phase == domain.PhaseDeep {
		return p.AdverseMediaDeep
	}
	return p.AdverseMediaFast
}

func (p Policy) tierPoints(t domain.Tier) int {
	return p.TierPoints[t]
}
