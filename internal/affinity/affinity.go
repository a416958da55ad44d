// Package affinity classifies how a company officer's name relates to the
// subject: the subject themself, a known associate, a relative by shared
// surname, or nobody.
package affinity

import (
	"strings"

	pstrings "dossier/pkg/platform/strings"
)

// Affinity is derived per audit run and never persisted on a person.
type Affinity string

const (
	Self         Affinity = "SELF"
	Associate    Affinity = "ASSOCIATE"
	SurnameMatch Affinity = "SURNAME_MATCH"
	None         Affinity = "NONE"
)

// Strong reports whether the affinity alone justifies a critical verdict.
func (a Affinity) Strong() bool {
	return a == Self || a == Associate
}

var particles = set(
	"de", "da", "do", "das", "dos", "e", "di", "du", "del", "van", "von",
	"filho", "filha", "neto", "neta", "junior", "jr", "sobrinho", "segundo",
)

var commonFirstNames = set(
	"maria", "jose", "joao", "ana", "antonio", "francisco", "carlos", "paulo",
	"pedro", "lucas", "luiz", "luis", "marcos", "marco", "gabriel", "rafael",
	"daniel", "marcelo", "bruno", "eduardo", "felipe", "rodrigo", "manoel",
	"manuel", "jorge", "roberto", "ricardo", "sergio", "fernando", "andre",
	"tiago", "thiago", "luciana", "fernanda", "juliana", "patricia", "aline",
	"sandra", "camila", "amanda", "adriana", "marcia", "claudia", "vera",
)

func set(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// Normalize lower-cases, strips accents and collapses punctuation.
func Normalize(name string) string {
	return pstrings.Fold(name)
}

// Tokens returns the distinguishing tokens of a name: normalized, without
// particles and without common first names.
func Tokens(name string) []string {
	var out []string
	for _, tok := range strings.Fields(Normalize(name)) {
		if _, ok := particles[tok]; ok {
			continue
		}
		if _, ok := commonFirstNames[tok]; ok {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// Surnames returns up to the last two distinguishing tokens of a name.
func Surnames(name string) []string {
	toks := Tokens(name)
	if len(toks) > 2 {
		toks = toks[len(toks)-2:]
	}
	return toks
}

// Matcher classifies candidate names against one subject.
type Matcher struct {
	subject    string
	surnames   []string
	associates []string
}

// NewMatcher precomputes the subject's normalized forms. Associates are
// names harvested from the subject's family circle.
func NewMatcher(subjectName string, associates []string) *Matcher {
	m := &Matcher{
		subject:  Normalize(subjectName),
		surnames: Surnames(subjectName),
	}
	for _, a := range associates {
		if n := Normalize(a); n != "" {
			m.associates = append(m.associates, n)
		}
	}
	return m
}

// Classify checks SELF, then ASSOCIATE, then SURNAME_MATCH.
func (m *Matcher) Classify(candidateName string) Affinity {
	cand := Normalize(candidateName)
	if cand == "" || m.subject == "" {
		return None
	}
	if containsPhrase(cand, m.subject) {
		return Self
	}
	for _, a := range m.associates {
		if containsPhrase(cand, a) {
			return Associate
		}
	}
	candTokens := set(strings.Fields(cand)...)
	for _, s := range m.surnames {
		if _, ok := candTokens[s]; ok {
			return SurnameMatch
		}
	}
	return None
}

// Classify is the one-shot form of Matcher.Classify.
func Classify(subjectName, candidateName string, associates []string) Affinity {
	return NewMatcher(subjectName, associates).Classify(candidateName)
}

// containsPhrase matches whole tokens only, so "silva" is not found in
// "silvana".
func containsPhrase(haystack, needle string) bool {
	return strings.Contains(" "+haystack+" ", " "+needle+" ")
}
