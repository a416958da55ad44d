package domain

import (
	"errors"
	"strings"
	"time"
)

// FlagKind names the rule that produced a red flag.
type FlagKind string

const (
	KindBlacklist     FlagKind = "blacklist"
	KindSelfDealing   FlagKind = "self_dealing"
	KindAssociate     FlagKind = "associate"
	KindSurname       FlagKind = "surname"
	KindSanction      FlagKind = "sanction"
	KindEnvironmental FlagKind = "environmental"
	KindAdverseMedia  FlagKind = "adverse_media"
	KindJudgment      FlagKind = "judgment"
	KindExposed       FlagKind = "exposed_person"
	KindContract      FlagKind = "contract"
)

// Phase is the pipeline pass that emitted a flag.
type Phase string

const (
	PhaseFast Phase = "fast"
	PhaseDeep Phase = "deep"
)

// RedFlag is one recorded fact plus the point deduction it caused.
type RedFlag struct {
	Date        time.Time `json:"date"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Source      string    `json:"source"`
	Kind        FlagKind  `json:"kind"`
	Phase       Phase     `json:"phase"`
	Penalty     int       `json:"penalty"`
}

var (
	errFlagTitle   = errors.New("red flag title is required")
	errFlagSource  = errors.New("red flag source is required")
	errFlagPenalty = errors.New("red flag penalty must be non-negative")
)

func (f RedFlag) Validate() error {
	switch {
	case strings.TrimSpace(f.Title) == "":
		return errFlagTitle
	case strings.TrimSpace(f.Source) == "":
		return errFlagSource
	case f.Penalty < 0:
		return errFlagPenalty
	}
	return nil
}

// Informational flags are recorded for transparency and cost nothing.
func (f RedFlag) Informational() bool {
	return f.Penalty == 0
}

func (f RedFlag) dedupeKey() string {
	return string(f.Kind) + "\x00" + f.Source + "\x00" + f.Title
}
