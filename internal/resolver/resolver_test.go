package resolver

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"dossier/internal/domain"
	"dossier/internal/evidence/registry/providers/websearch"
)

type fakeSearch struct {
	byPrefix map[string][]websearch.Hit
	queries  []string
}

func (f *fakeSearch) Search(_ context.Context, text string, _ int) []websearch.Hit {
	f.queries = append(f.queries, text)
	for prefix, hits := range f.byPrefix {
		if strings.HasPrefix(text, prefix) {
			return hits
		}
	}
	return nil
}

func TestMineTaxIDs(t *testing.T) {
	text := "Cotas da 11.222.333/0001-81 e da 44555666000199; de novo 11222333000181 e 77 888 999 0001 22. Telefone 1234."
	assert.Equal(t, []string{"11222333000181", "44555666000199", "77888999000122"}, MineTaxIDs(text))
	assert.Empty(t, MineTaxIDs("sem identificadores"))
}

func TestFormatTaxID(t *testing.T) {
	assert.Equal(t, "11.222.333/0001-81", FormatTaxID("11222333000181"))
	assert.Equal(t, "123.456.789-09", FormatTaxID("12345678909"))
	assert.Equal(t, "42", FormatTaxID("42"))
}

func TestResolve(t *testing.T) {
	subject := domain.Subject{ID: "dep-1", Name: "Marco Silva", TaxID: "12345678909"}

	t.Run("orders seeds, declarations, then open sources", func(t *testing.T) {
		search := &fakeSearch{byPrefix: map[string][]websearch.Hit{
			"site:divulgacandcontas": {{Title: "Bens", Body: "Quotas 44.555.666/0001-99 e 11.222.333/0001-81"}},
			`"123.456.789-09"`: {
				{Title: "Sócio 123.456.789-09", Body: "empresa 77888999000122"},
				{Title: "Outro", Body: "empresa 99999999000199 sem vínculo"},
			},
		}}
		r := New(search)

		got := r.Resolve(context.Background(), subject, []string{"11.222.333/0001-81", "bad"})

		assert.Equal(t, []string{"11222333000181", "44555666000199", "77888999000122"}, got)
		assert.Len(t, search.queries, 2)
		assert.Contains(t, search.queries[0], `"Marco Silva" bens declarados 12345678909`)
	})

	t.Run("skips open sources without a tax id", func(t *testing.T) {
		search := &fakeSearch{}
		New(search).Resolve(context.Background(), domain.Subject{ID: "x", Name: "Ana"}, nil)
		assert.Len(t, search.queries, 1)
	})

	t.Run("caps seeds and entities", func(t *testing.T) {
		seeds := make([]string, 0, 10)
		for i := range 10 {
			seeds = append(seeds, fmt.Sprintf("1122233300%04d", i))
		}
		r := New(nil, WithMaxSeeds(5), WithMaxEntities(3))
		assert.Len(t, r.Resolve(context.Background(), subject, seeds), 3)

		r = New(nil, WithMaxSeeds(2))
		assert.Len(t, r.Resolve(context.Background(), subject, seeds), 2)
	})

	t.Run("excludes the subject's own id", func(t *testing.T) {
		self := domain.Subject{ID: "c", Name: "Empresa", TaxID: "11222333000181"}
		got := New(nil).Resolve(context.Background(), self, []string{"11222333000181", "44555666000199"})
		assert.Equal(t, []string{"44555666000199"}, got)
	})

	t.Run("no search results yields only seeds", func(t *testing.T) {
		got := New(&fakeSearch{}).Resolve(context.Background(), subject, nil)
		assert.Empty(t, got)
	})
}
