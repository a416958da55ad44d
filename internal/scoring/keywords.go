package scoring

import (
	"strings"

	pstrings "dossier/pkg/platform/strings"
)

// CriminalKeywords mark a media hit as adverse.
var CriminalKeywords = []string{
	"lava jato", "propina", "inquérito", "denunciado", "indiciado", "stf",
	"polícia federal", "desvio", "corrupção", "condenado", "lavagem", "réu",
	"improbidade", "operação",
}

// ExculpatoryKeywords turn an adverse hit into an informational one.
var ExculpatoryKeywords = []string{
	"absolvido", "inocentado", "arquivado", "rejeitada", "falta de provas",
	"insuficiência de provas", "acquitted", "dismissed", "insufficient evidence",
}

// KeywordSet matches folded phrases on token boundaries.
type KeywordSet struct {
	raw    []string
	folded []string
}

func NewKeywordSet(words []string) KeywordSet {
	ks := KeywordSet{}
	for _, w := range words {
		if f := pstrings.Fold(w); f != "" {
			ks.raw = append(ks.raw, w)
			ks.folded = append(ks.folded, f)
		}
	}
	return ks
}

// Match returns the keywords present in text, in declaration order.
func (k KeywordSet) Match(text string) []string {
	hay := " " + pstrings.Fold(text) + " "
	var out []string
	for i, f := range k.folded {
		if strings.Contains(hay, " "+f+" ") {
			out = append(out, k.raw[i])
		}
	}
	return out
}
