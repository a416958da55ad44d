package affinity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"dossier/internal/evidence/registry/providers/websearch"
)

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"inacio", "lula", "silva"}, Tokens("Luiz Inácio Lula da Silva"))
	assert.Equal(t, []string{"silva"}, Tokens("Marco Silva Filho"))
	assert.Equal(t, []string{"lula", "silva"}, Surnames("Luiz Inácio Lula da Silva"))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		subject    string
		candidate  string
		associates []string
		want       Affinity
	}{
		{"self beats surname", "Marco Silva", "MARCO SILVA TESTE", nil, Self},
		{"accents and case ignored", "José Antônio Souza", "jose antonio souza", nil, Self},
		{"associate", "Marco Silva", "Ana Paula Souza Lima", []string{"Ana Paula Souza"}, Associate},
		{"self checked before associate", "Marco Silva", "Marco Silva", []string{"Marco Silva"}, Self},
		{"surname token", "Marco Silva", "Joana Silva Pereira", nil, SurnameMatch},
		{"surname is token level", "Marco Silva", "Silvana Pereira", nil, None},
		{"common first names do not count", "Maria Souza", "Maria Oliveira", nil, None},
		{"particles do not count", "Pedro da Costa", "Ana da Rocha", nil, None},
		{"empty candidate", "Marco Silva", "", nil, None},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.subject, tt.candidate, tt.associates))
		})
	}
}

func TestAffinityStrong(t *testing.T) {
	assert.True(t, Self.Strong())
	assert.True(t, Associate.Strong())
	assert.False(t, SurnameMatch.Strong())
	assert.False(t, None.Strong())
}

func TestExtractAssociates(t *testing.T) {
	text := "O deputado Marco Silva e sua esposa Ana Paula Souza visitaram a obra. " +
		"Seu irmão, João da Costa Neto, é sócio. O filho Marco Silva Junior não comentou. " +
		"A ESPOSA Ana Paula Souza voltou."

	got := ExtractAssociates("Marco Silva", text)

	assert.Equal(t, []string{"Ana Paula Souza", "João da Costa Neto"}, got)
}

type fakeSearch struct{ hits []websearch.Hit }

func (f fakeSearch) Search(context.Context, string, int) []websearch.Hit { return f.hits }

func TestCircleHarvest(t *testing.T) {
	c := NewCircle(fakeSearch{hits: []websearch.Hit{
		{Title: "Família", Body: "cunhado Pedro Alves Rocha"},
		{Title: "Outra", Body: "a filha Beatriz Silva estuda"},
		{Title: "Repetida", Body: "cunhado PEDRO ALVES ROCHA"},
	}}, nil)

	got := c.Harvest(context.Background(), "Marco Silva")

	assert.Equal(t, []string{"Pedro Alves Rocha", "Beatriz Silva"}, got)
	assert.Empty(t, NewCircle(nil, nil).Harvest(context.Background(), "Marco Silva"))
}
