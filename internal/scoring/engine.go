// Package scoring turns gathered evidence into red flags. Everything here is
// pure: no I/O, no clocks, no randomness. The same evidence always yields the
// same flags in the same order.
package scoring

import (
	"fmt"
	"strings"
	"time"

	"dossier/internal/affinity"
	"dossier/internal/domain"
	"dossier/internal/evidence/registry/providers/fines"
	"dossier/internal/evidence/registry/providers/transparency"
	"dossier/internal/evidence/registry/providers/websearch"
)

// Source labels recorded on flags that have no URL of their own.
const (
	SourceBlacklist    = "curated_blacklist"
	SourceCorporate    = "corporate_registry"
	SourceSanctions    = "sanctions_registry"
	SourceFines        = "environmental_fines"
	SourceContracts    = "public_contracts"
	SourceExposed      = "exposed_persons"
	SourceWebSearch    = "web_search"
	SourceJudgment     = "risk_judgment"
	SourceJudgmentSafe = "risk_judgment_fallback"
)

// OfficerEvidence is one officer of a linked entity with its affinity to the
// subject.
type OfficerEvidence struct {
	EntityTaxID string
	EntityName  string
	Person      domain.Person
	Affinity    affinity.Affinity
}

type EntitySanction struct {
	EntityTaxID string
	EntityName  string
	Sanction    transparency.Sanction
}

type EntityInfraction struct {
	EntityTaxID string
	EntityName  string
	Infraction  fines.Infraction
}

type EntityContract struct {
	EntityTaxID string
	EntityName  string
	Contract    transparency.Contract
}

// Evidence is everything one scoring pass looks at.
type Evidence struct {
	Phase            domain.Phase
	SubjectName      string
	Date             time.Time
	Blacklist        *Blacklist
	Media            []websearch.Hit
	Officers         []OfficerEvidence
	SubjectSanctions []transparency.Sanction
	EntitySanctions  []EntitySanction
	Infractions      []EntityInfraction
	Contracts        []EntityContract
	Exposed          bool
}

// Result is the outcome of a pass: the flags emitted and the running total.
type Result struct {
	PointsLost int
	Flags      []domain.RedFlag
}

func (r Result) Score() int {
	return domain.ScoreOf(r.PointsLost)
}

type Engine struct {
	policy      Policy
	criminal    KeywordSet
	exculpatory KeywordSet
}

func NewEngine(p Policy) *Engine {
	return &Engine{
		policy:      p,
		criminal:    NewKeywordSet(CriminalKeywords),
		exculpatory: NewKeywordSet(ExculpatoryKeywords),
	}
}

func (e *Engine) Policy() Policy { return e.policy }

// Score applies every rule to ev on top of initialPoints. Flags come out in
// a fixed order: blacklist, media, officers, subject sanctions, entity
// sanctions, infractions, contracts, exposure.
func (e *Engine) Score(initialPoints int, ev Evidence) Result {
	r := &recorder{points: initialPoints, date: ev.Date, phase: ev.Phase}

	if entry, ok := ev.Blacklist.Match(ev.SubjectName); ok {
		source := entry.Source
		if source == "" {
			source = SourceBlacklist
		}
		r.emit(domain.KindBlacklist, e.policy.Blacklist, source,
			"Curated blacklist match: "+entry.Name, entry.Reason)
	}

	for _, hit := range ev.Media {
		e.scoreMedia(r, ev.Phase, hit)
	}

	for _, o := range ev.Officers {
		kind, points, ok := e.officerRule(o.Affinity)
		if !ok {
			continue
		}
		r.emit(kind, points, SourceCorporate,
			fmt.Sprintf("%s %s is an officer of %s", affinityLabel(o.Affinity), o.Person.Name, entityLabel(o.EntityName, o.EntityTaxID)),
			fmt.Sprintf("Listed as %s; name affinity %s.", roleOrDefault(o.Person.Role), o.Affinity))
	}

	for _, s := range ev.SubjectSanctions {
		r.emitAt(s.PublishedAt, domain.KindSanction, e.policy.SanctionSubject, sanctionSource(s),
			"Subject listed in "+s.Registry, sanctionDescription(s))
	}

	for _, s := range ev.EntitySanctions {
		r.emitAt(s.Sanction.PublishedAt, domain.KindSanction, e.policy.SanctionEntity, sanctionSource(s.Sanction),
			fmt.Sprintf("Linked entity %s listed in %s", entityLabel(s.EntityName, s.EntityTaxID), s.Sanction.Registry),
			sanctionDescription(s.Sanction))
	}

	for _, inf := range ev.Infractions {
		r.emitAt(inf.Infraction.Date, domain.KindEnvironmental, e.policy.Environmental, SourceFines,
			"Environmental infraction by "+entityLabel(inf.EntityName, inf.EntityTaxID),
			fmt.Sprintf("%s (R$ %.2f)", inf.Infraction.Description, inf.Infraction.Value))
	}

	for _, c := range ev.Contracts {
		r.emitAt(c.Contract.Date, domain.KindContract, e.policy.Contract, SourceContracts,
			fmt.Sprintf("Public contract with %s", entityLabel(c.EntityName, c.EntityTaxID)),
			fmt.Sprintf("%s awarded R$ %.2f: %s", orUnknown(c.Contract.AwardingBody), c.Contract.Value, c.Contract.Object))
	}

	if ev.Exposed {
		r.emit(domain.KindExposed, e.policy.Exposed, SourceExposed,
			"Subject is a politically exposed person", "Listed in the exposed persons registry.")
	}

	return Result{PointsLost: r.points, Flags: r.flags}
}

func (e *Engine) scoreMedia(r *recorder, phase domain.Phase, hit websearch.Hit) {
	text := hit.Text()
	criminal := e.criminal.Match(text)
	if len(criminal) == 0 {
		return
	}
	source := hit.URL
	if source == "" {
		source = SourceWebSearch
	}
	title := hit.Title
	if strings.TrimSpace(title) == "" {
		title = "Investigative news report"
	}
	if cleared := e.exculpatory.Match(text); len(cleared) > 0 {
		r.emitAt(hit.Date, domain.KindAdverseMedia, 0, source, title,
			fmt.Sprintf("Keywords %s offset by exculpatory terms: %s.", strings.Join(criminal, ", "), strings.Join(cleared, ", ")))
		return
	}
	r.emitAt(hit.Date, domain.KindAdverseMedia, e.policy.AdverseMedia(phase), source, title,
		"Keywords detected in report: "+strings.Join(criminal, ", ")+".")
}

func (e *Engine) officerRule(a affinity.Affinity) (domain.FlagKind, int, bool) {
	switch a {
	case affinity.Self:
		return domain.KindSelfDealing, e.policy.SelfDealing, true
	case affinity.Associate:
		return domain.KindAssociate, e.policy.Associate, true
	case affinity.SurnameMatch:
		return domain.KindSurname, e.policy.Surname, true
	default:
		return "", 0, false
	}
}

// Verdict is the part of a judgment the engine folds into a result.
type Verdict struct {
	Tier     domain.Tier
	Summary  string
	Reasons  []VerdictReason
	Fallback bool
}

type VerdictReason struct {
	Reason   string
	Severity int
}

// FoldVerdict appends one penalty flag for the tier plus one informational
// flag per reason the judge gave.
func (e *Engine) FoldVerdict(res Result, date time.Time, v Verdict) Result {
	r := &recorder{points: res.PointsLost, date: date, phase: domain.PhaseDeep, flags: append([]domain.RedFlag(nil), res.Flags...)}
	source := SourceJudgment
	if v.Fallback {
		source = SourceJudgmentSafe
	}
	summary := v.Summary
	if summary == "" {
		summary = "No summary provided."
	}
	r.emit(domain.KindJudgment, e.policy.tierPoints(v.Tier), source, "Risk tier "+string(v.Tier), summary)
	for _, reason := range v.Reasons {
		if strings.TrimSpace(reason.Reason) == "" {
			continue
		}
		r.emit(domain.KindJudgment, 0, source, reason.Reason, fmt.Sprintf("Severity %d/10.", reason.Severity))
	}
	return Result{PointsLost: r.points, Flags: r.flags}
}

type recorder struct {
	points int
	date   time.Time
	phase  domain.Phase
	flags  []domain.RedFlag
}

func (r *recorder) emit(kind domain.FlagKind, penalty int, source, title, desc string) {
	r.emitAt(time.Time{}, kind, penalty, source, title, desc)
}

// emitAt dates the flag with the evidence date, or the run date when the
// evidence carries none.
func (r *recorder) emitAt(at time.Time, kind domain.FlagKind, penalty int, source, title, desc string) {
	if at.IsZero() {
		at = r.date
	}
	r.flags = append(r.flags, domain.RedFlag{
		Date:        at,
		Title:       title,
		Description: desc,
		Source:      source,
		Kind:        kind,
		Phase:       r.phase,
		Penalty:     penalty,
	})
	r.points += penalty
}

func affinityLabel(a affinity.Affinity) string {
	switch a {
	case affinity.Self:
		return "Subject"
	case affinity.Associate:
		return "Associate"
	default:
		return "Possible relative"
	}
}

func entityLabel(name, taxID string) string {
	if name == "" {
		return taxID
	}
	return fmt.Sprintf("%s (%s)", name, taxID)
}

func roleOrDefault(role string) string {
	if role == "" {
		return "officer"
	}
	return role
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown body"
	}
	return s
}

func sanctionSource(s transparency.Sanction) string {
	if s.Registry == "" {
		return SourceSanctions
	}
	return SourceSanctions + ":" + strings.ToLower(s.Registry)
}

func sanctionDescription(s transparency.Sanction) string {
	parts := []string{orUnknown(s.Authority)}
	if s.Reason != "" {
		parts = append(parts, s.Reason)
	}
	if !s.PublishedAt.IsZero() {
		parts = append(parts, "published "+s.PublishedAt.Format(time.DateOnly))
	}
	return strings.Join(parts, "; ")
}
