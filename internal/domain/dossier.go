package domain

import (
	"fmt"
	"strings"
	"time"

	pstrings "dossier/pkg/platform/strings"
)

// BaseScore is the starting integrity score of every subject.
const BaseScore = 1000

// Person is an officer or shareholder of an Entity.
type Person struct {
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}

func (p Person) key() string {
	return pstrings.Fold(p.Name) + "|" + pstrings.Fold(p.Role)
}

// Entity is a company linked to the subject, identified by its tax id.
type Entity struct {
	TaxID     string   `json:"tax_id"`
	LegalName string   `json:"legal_name,omitempty"`
	Officers  []Person `json:"officers,omitempty"`
}

// MergeEntity folds a re-discovered entity into an existing one. The tax id
// never changes; missing legal names are filled; officers are added once.
func MergeEntity(existing, found Entity) Entity {
	out := Entity{
		TaxID:     existing.TaxID,
		LegalName: existing.LegalName,
		Officers:  append([]Person(nil), existing.Officers...),
	}
	if out.LegalName == "" {
		out.LegalName = found.LegalName
	}
	seen := make(map[string]struct{}, len(out.Officers))
	for _, p := range out.Officers {
		seen[p.key()] = struct{}{}
	}
	for _, p := range found.Officers {
		if _, ok := seen[p.key()]; ok {
			continue
		}
		seen[p.key()] = struct{}{}
		out.Officers = append(out.Officers, p)
	}
	return out
}

// Status is the coarse band a score falls into.
type Status string

const (
	StatusClean      Status = "clean"
	StatusSuspicious Status = "suspicious"
	StatusAlert      Status = "alert"
)

// ScoreOf derives the public score from the points lost, clamped to [0, BaseScore].
func ScoreOf(pointsLost int) int {
	if pointsLost <= 0 {
		return BaseScore
	}
	if pointsLost >= BaseScore {
		return 0
	}
	return BaseScore - pointsLost
}

func StatusOf(score int) Status {
	switch {
	case score >= 700:
		return StatusClean
	case score >= 400:
		return StatusSuspicious
	default:
		return StatusAlert
	}
}

// Dossier is the persistent evidence log of one subject.
type Dossier struct {
	SubjectID   string     `json:"subject_id"`
	SubjectName string     `json:"subject_name"`
	RedFlags    []RedFlag  `json:"red_flags"`
	PointsLost  int        `json:"points_lost"`
	Entities    []Entity   `json:"entities"`
	State       AuditState `json:"state"`
	AuditedAt   time.Time  `json:"audited_at"`
	Revision    int64      `json:"revision"`
}

// NewDossier returns an empty dossier for the subject.
func NewDossier(s Subject) *Dossier {
	return &Dossier{
		SubjectID:   s.ID,
		SubjectName: s.Name,
		RedFlags:    []RedFlag{},
		Entities:    []Entity{},
	}
}

func (d *Dossier) Score() int {
	if d == nil {
		return BaseScore
	}
	return ScoreOf(d.PointsLost)
}

func (d *Dossier) Status() Status {
	return StatusOf(d.Score())
}

// Entity returns the entity with the given tax id.
func (d *Dossier) Entity(taxID string) (Entity, bool) {
	for _, e := range d.Entities {
		if e.TaxID == taxID {
			return e, true
		}
	}
	return Entity{}, false
}

// Clone returns a deep copy safe to mutate.
func (d *Dossier) Clone() *Dossier {
	if d == nil {
		return nil
	}
	out := *d
	out.RedFlags = append([]RedFlag{}, d.RedFlags...)
	out.Entities = make([]Entity, len(d.Entities))
	for i, e := range d.Entities {
		e.Officers = append([]Person(nil), e.Officers...)
		out.Entities[i] = e
	}
	return &out
}

// DedupePolicy decides what happens when a flag is recorded twice.
type DedupePolicy string

const (
	// DedupeAdditive appends every flag, so repeated audits accumulate.
	DedupeAdditive DedupePolicy = "additive"
	// DedupeBySourceTitle skips a flag whose kind, source and title are already
	// recorded, along with its penalty.
	DedupeBySourceTitle DedupePolicy = "source_title"
)

func ParseDedupePolicy(s string) (DedupePolicy, error) {
	switch DedupePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", DedupeAdditive:
		return DedupeAdditive, nil
	case DedupeBySourceTitle:
		return DedupeBySourceTitle, nil
	default:
		return "", fmt.Errorf("unknown dedupe policy %q", s)
	}
}

// Update is the outcome of one scoring pass, ready to be merged.
type Update struct {
	Flags    []RedFlag
	Entities []Entity
	State    AuditState
	At       time.Time
}

// Merge appends an update to the evidence log and returns the points
// actually added. PointsLost never decreases.
//
// A deep adverse-media flag with the same source as a recorded fast one
// replaces it in place when its penalty is at least as large; only the
// difference is charged.
func (d *Dossier) Merge(u Update, policy DedupePolicy) int {
	added := 0
	seen := make(map[string]struct{}, len(d.RedFlags))
	for _, f := range d.RedFlags {
		seen[f.dedupeKey()] = struct{}{}
	}

	for _, f := range u.Flags {
		if f.Validate() != nil {
			continue
		}
		if i := d.fastMediaIndex(f); i >= 0 {
			added += f.Penalty - d.RedFlags[i].Penalty
			d.RedFlags[i] = f
			seen[f.dedupeKey()] = struct{}{}
			continue
		}
		if policy == DedupeBySourceTitle {
			if _, dup := seen[f.dedupeKey()]; dup {
				continue
			}
		}
		seen[f.dedupeKey()] = struct{}{}
		d.RedFlags = append(d.RedFlags, f)
		added += f.Penalty
	}
	d.PointsLost += added

	for _, e := range u.Entities {
		d.mergeEntity(e)
	}

	if u.State != "" && (u.State == d.State || CanTransition(d.State, u.State)) {
		d.State = u.State
	}
	if !u.At.IsZero() {
		d.AuditedAt = u.At
	}
	d.Revision++
	return added
}

func (d *Dossier) fastMediaIndex(f RedFlag) int {
	if f.Kind != KindAdverseMedia || f.Phase != PhaseDeep {
		return -1
	}
	for i, old := range d.RedFlags {
		if old.Kind == KindAdverseMedia && old.Phase == PhaseFast && old.Source == f.Source {
			if f.Penalty >= old.Penalty {
				return i
			}
			return -1
		}
	}
	return -1
}

func (d *Dossier) mergeEntity(e Entity) {
	if e.TaxID == "" {
		return
	}
	for i, existing := range d.Entities {
		if existing.TaxID == e.TaxID {
			d.Entities[i] = MergeEntity(existing, e)
			return
		}
	}
	d.Entities = append(d.Entities, MergeEntity(Entity{TaxID: e.TaxID}, e))
}
