package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSubject(t *testing.T) {
	t.Run("normalizes inputs", func(t *testing.T) {
		s, err := NewSubject(" dep-1 ", "  Marco   Silva ", "123.456.789-09", "", []string{" a ", "a", ""})
		require.NoError(t, err)
		assert.Equal(t, "dep-1", s.ID)
		assert.Equal(t, "Marco Silva", s.Name)
		assert.Equal(t, "12345678909", s.TaxID)
		assert.Equal(t, []string{"a"}, s.SeedTaxIDs)
		assert.False(t, s.IsLegislator())
	})

	t.Run("rejects blank name", func(t *testing.T) {
		_, err := NewSubject("dep-1", "   ", "", "", nil)
		assert.ErrorIs(t, err, ErrInvalidSubject)
	})

	t.Run("rejects blank id", func(t *testing.T) {
		_, err := NewSubject("", "Ana", "", "", nil)
		assert.ErrorIs(t, err, ErrInvalidSubject)
	})
}

func TestRedFlagValidate(t *testing.T) {
	assert.NoError(t, RedFlag{Title: "t", Source: "s"}.Validate())
	assert.Error(t, RedFlag{Source: "s"}.Validate())
	assert.Error(t, RedFlag{Title: "t"}.Validate())
	assert.Error(t, RedFlag{Title: "t", Source: "s", Penalty: -1}.Validate())
	assert.True(t, RedFlag{Title: "t", Source: "s"}.Informational())
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition("", StateRequested))
	assert.True(t, CanTransition(StateRequested, StateFastPreview))
	assert.True(t, CanTransition(StateFastPreview, StateQueued))
	assert.True(t, CanTransition(StateQueued, StateRunning))
	assert.True(t, CanTransition(StateRunning, StateComplete))
	assert.True(t, CanTransition(StateComplete, StateRequested))

	assert.False(t, CanTransition(StateRequested, StateComplete))
	assert.False(t, CanTransition(StateRunning, StateQueued))
	assert.False(t, CanTransition(StateComplete, StateRunning))

	assert.True(t, StateQueued.Pending())
	assert.True(t, StateRunning.Pending())
	assert.False(t, StateComplete.Pending())
}
