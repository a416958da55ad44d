package affinity

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"dossier/internal/evidence/registry/providers/websearch"
	pstrings "dossier/pkg/platform/strings"
)

// Searcher runs a free-text web search.
type Searcher interface {
	Search(ctx context.Context, text string, limit int) []websearch.Hit
}

const familyQueryLimit = 10

// relational captures the capitalized 2-5 word phrase right after a kinship
// keyword. Only the keyword is case-insensitive.
var relational = regexp.MustCompile(
	`(?:^|[^\p{L}])(?i:esposa|marido|companheira|companheiro|filho|filha|irmão|irmao|irmã|irma|cunhado|cunhada|genro|nora|sogro|sogra)` +
		`[,:]?\s+(\p{Lu}\p{Ll}+(?:\s+(?:(?:de|da|do|das|dos|e)\s+)?\p{Lu}\p{Ll}+){1,4})`,
)

// Circle harvests the names of the subject's relatives from open sources.
type Circle struct {
	search Searcher
	logger *slog.Logger
}

func NewCircle(search Searcher, logger *slog.Logger) *Circle {
	if logger == nil {
		logger = slog.Default()
	}
	return &Circle{search: search, logger: logger}
}

// Harvest runs the family search and returns the associates found. A failed
// search yields an empty list.
func (c *Circle) Harvest(ctx context.Context, subjectName string) []string {
	if c.search == nil || strings.TrimSpace(subjectName) == "" {
		return nil
	}
	query := fmt.Sprintf(`"%s" esposa OR marido OR filho OR filha OR irmão OR irmã OR cunhado`, subjectName)
	var names []string
	for _, hit := range c.search.Search(ctx, query, familyQueryLimit) {
		names = append(names, ExtractAssociates(subjectName, hit.Text())...)
	}
	names = pstrings.DedupeFold(names)
	c.logger.DebugContext(ctx, "family circle harvested", "associates", len(names))
	return names
}

// ExtractAssociates pulls relative names out of text, skipping any phrase
// that contains the subject's own name.
func ExtractAssociates(subjectName, text string) []string {
	subject := Normalize(subjectName)
	var out []string
	for _, m := range relational.FindAllStringSubmatch(text, -1) {
		phrase := strings.TrimSpace(m[1])
		if subject != "" && containsPhrase(Normalize(phrase), subject) {
			continue
		}
		out = append(out, phrase)
	}
	return pstrings.DedupeFold(out)
}
