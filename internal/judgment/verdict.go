// Package judgment asks an external model for a qualitative risk tier and
// guarantees an answer even when the model is slow, down or incoherent.
package judgment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"dossier/internal/domain"
	"dossier/internal/scoring"
)

var (
	// ErrUnavailable means the judgment service could not be reached or is
	// not configured.
	ErrUnavailable = errors.New("judgment service unavailable")
	// ErrMalformedVerdict means the service answered with something that is
	// not a verdict.
	ErrMalformedVerdict = errors.New("malformed verdict")
)

// Flag is one concern raised by the judge.
type Flag struct {
	Reason   string `json:"reason"`
	Severity int    `json:"severity"`
}

// Verdict is the judge's answer. Fallback marks a locally computed verdict.
type Verdict struct {
	Tier     domain.Tier `json:"tier"`
	Flags    []Flag      `json:"red_flags"`
	Summary  string      `json:"summary"`
	Fallback bool        `json:"fallback"`
}

// ForScoring converts the verdict into the form the scoring engine folds.
func (v Verdict) ForScoring() scoring.Verdict {
	out := scoring.Verdict{Tier: v.Tier, Summary: v.Summary, Fallback: v.Fallback}
	for _, f := range v.Flags {
		out.Reasons = append(out.Reasons, scoring.VerdictReason{Reason: f.Reason, Severity: f.Severity})
	}
	return out
}

// Delegate produces a verdict for a bundle.
type Delegate interface {
	Judge(ctx context.Context, b Bundle) (Verdict, error)
}

// wireVerdict accepts both the English and the Portuguese field names.
type wireVerdict struct {
	Tier      string     `json:"tier"`
	TierPT    string     `json:"nivel_risco"`
	Summary   string     `json:"summary"`
	SummaryPT string     `json:"resumo_auditoria"`
	Flags     []wireFlag `json:"red_flags"`
}

type wireFlag struct {
	Reason     string `json:"reason"`
	ReasonPT   string `json:"motivo"`
	Severity   int    `json:"severity"`
	SeverityPT int    `json:"gravidade"`
}

// ParseVerdict decodes a model reply, tolerating markdown code fences.
func ParseVerdict(content string) (Verdict, error) {
	content = stripFences(content)
	if content == "" {
		return Verdict{}, fmt.Errorf("%w: empty reply", ErrMalformedVerdict)
	}
	var w wireVerdict
	if err := json.Unmarshal([]byte(content), &w); err != nil {
		return Verdict{}, fmt.Errorf("%w: %v", ErrMalformedVerdict, err)
	}
	tier, ok := domain.ParseTier(firstNonEmpty(w.Tier, w.TierPT))
	if !ok {
		return Verdict{}, fmt.Errorf("%w: unknown tier %q", ErrMalformedVerdict, firstNonEmpty(w.Tier, w.TierPT))
	}
	v := Verdict{Tier: tier, Summary: strings.TrimSpace(firstNonEmpty(w.Summary, w.SummaryPT))}
	for _, f := range w.Flags {
		reason := strings.TrimSpace(firstNonEmpty(f.Reason, f.ReasonPT))
		if reason == "" {
			continue
		}
		sev := f.Severity
		if sev == 0 {
			sev = f.SeverityPT
		}
		v.Flags = append(v.Flags, Flag{Reason: reason, Severity: min(max(sev, 1), 10)})
	}
	return v, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// Fallback is the local verdict used whenever the model cannot answer:
// CRITICAL when the subject or an associate is an officer of a linked
// entity, LOW otherwise.
func Fallback(b Bundle) Verdict {
	strong := b.StrongOfficers()
	if len(strong) == 0 {
		return Verdict{
			Tier:     domain.TierLow,
			Summary:  "Automated fallback: no direct conflict of interest found in the evidence.",
			Fallback: true,
		}
	}
	v := Verdict{
		Tier:     domain.TierCritical,
		Summary:  "Automated fallback: the subject or a known associate holds a position in a linked company.",
		Fallback: true,
	}
	for _, s := range strong {
		name := s.Entity.LegalName
		if name == "" {
			name = s.Entity.TaxID
		}
		v.Flags = append(v.Flags, Flag{
			Reason:   fmt.Sprintf("Conflict of interest: %s (%s) is an officer of %s", s.Officer.Name, s.Officer.Affinity, name),
			Severity: 9,
		})
	}
	return v
}
