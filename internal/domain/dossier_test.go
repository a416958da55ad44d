package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type DossierMergeSuite struct {
	suite.Suite
	now time.Time
}

func TestDossierMergeSuite(t *testing.T) {
	suite.Run(t, new(DossierMergeSuite))
}

func (s *DossierMergeSuite) SetupTest() {
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (s *DossierMergeSuite) flag(kind FlagKind, phase Phase, source, title string, penalty int) RedFlag {
	return RedFlag{Date: s.now, Title: title, Source: source, Kind: kind, Phase: phase, Penalty: penalty}
}

func (s *DossierMergeSuite) TestAdditive() {
	s.Run("appends every flag and accumulates points", func() {
		d := NewDossier(Subject{ID: "s1", Name: "Ana"})
		f := s.flag(KindSanction, PhaseDeep, "CEIS", "Sanção vigente", 400)

		s.Equal(400, d.Merge(Update{Flags: []RedFlag{f}}, DedupeAdditive))
		s.Equal(400, d.Merge(Update{Flags: []RedFlag{f}}, DedupeAdditive))

		s.Len(d.RedFlags, 2)
		s.Equal(800, d.PointsLost)
		s.Equal(200, d.Score())
	})

	s.Run("skips invalid flags", func() {
		d := NewDossier(Subject{ID: "s1", Name: "Ana"})
		added := d.Merge(Update{Flags: []RedFlag{{Title: "no source", Penalty: 10}}}, DedupeAdditive)
		s.Zero(added)
		s.Empty(d.RedFlags)
	})
}

func (s *DossierMergeSuite) TestBySourceTitle() {
	s.Run("skips repeats along with their penalty", func() {
		d := NewDossier(Subject{ID: "s1", Name: "Ana"})
		f := s.flag(KindSanction, PhaseDeep, "CEIS", "Sanção vigente", 400)

		d.Merge(Update{Flags: []RedFlag{f}}, DedupeBySourceTitle)
		added := d.Merge(Update{Flags: []RedFlag{f}}, DedupeBySourceTitle)

		s.Zero(added)
		s.Len(d.RedFlags, 1)
		s.Equal(600, d.Score())
	})

	s.Run("different kinds with same source and title are distinct", func() {
		d := NewDossier(Subject{ID: "s1", Name: "Ana"})
		d.Merge(Update{Flags: []RedFlag{
			s.flag(KindSanction, PhaseDeep, "src", "t", 10),
			s.flag(KindContract, PhaseDeep, "src", "t", 0),
		}}, DedupeBySourceTitle)
		s.Len(d.RedFlags, 2)
	})
}

func (s *DossierMergeSuite) TestPhaseSupersession() {
	for _, policy := range []DedupePolicy{DedupeAdditive, DedupeBySourceTitle} {
		s.Run(string(policy)+" deep media replaces fast media from the same url", func() {
			d := NewDossier(Subject{ID: "s1", Name: "Ana"})
			d.Merge(Update{Flags: []RedFlag{s.flag(KindAdverseMedia, PhaseFast, "https://news/1", "Propina", 50)}}, policy)

			added := d.Merge(Update{Flags: []RedFlag{s.flag(KindAdverseMedia, PhaseDeep, "https://news/1", "Propina", 100)}}, policy)

			s.Equal(50, added)
			s.Require().Len(d.RedFlags, 1)
			s.Equal(PhaseDeep, d.RedFlags[0].Phase)
			s.Equal(100, d.PointsLost)
		})
	}
}

func (s *DossierMergeSuite) TestPointsNeverDecrease() {
	d := NewDossier(Subject{ID: "s1", Name: "Ana"})
	update := Update{Flags: []RedFlag{
		s.flag(KindAdverseMedia, PhaseFast, "https://news/2", "Desvio", 50),
		s.flag(KindSelfDealing, PhaseDeep, "corporate", "Sócio", 600),
	}}
	for _, policy := range []DedupePolicy{DedupeAdditive, DedupeBySourceTitle} {
		prev := d.Score()
		for range 3 {
			d.Merge(update, policy)
			s.LessOrEqual(d.Score(), prev)
			prev = d.Score()
		}
	}
	s.GreaterOrEqual(d.Score(), 0)
}

func (s *DossierMergeSuite) TestEntities() {
	d := NewDossier(Subject{ID: "s1", Name: "Ana"})
	d.Merge(Update{Entities: []Entity{{TaxID: "11222333000181", Officers: []Person{{Name: "João", Role: "Sócio"}}}}}, DedupeAdditive)
	d.Merge(Update{Entities: []Entity{{
		TaxID:     "11222333000181",
		LegalName: "ACME LTDA",
		Officers:  []Person{{Name: "JOAO", Role: "socio"}, {Name: "Maria", Role: "Administradora"}},
	}}}, DedupeAdditive)

	s.Require().Len(d.Entities, 1)
	e := d.Entities[0]
	s.Equal("ACME LTDA", e.LegalName)
	s.Len(e.Officers, 2)
	s.Equal(int64(2), d.Revision)
}

func (s *DossierMergeSuite) TestStateTransitions() {
	d := NewDossier(Subject{ID: "s1", Name: "Ana"})
	d.Merge(Update{State: StateRequested}, DedupeAdditive)
	d.Merge(Update{State: StateComplete}, DedupeAdditive)
	s.Equal(StateRequested, d.State, "illegal transition is ignored")

	d.Merge(Update{State: StateFastPreview}, DedupeAdditive)
	d.Merge(Update{State: StateQueued}, DedupeAdditive)
	d.Merge(Update{State: StateRunning}, DedupeAdditive)
	d.Merge(Update{State: StateComplete, At: s.now}, DedupeAdditive)
	s.Equal(StateComplete, d.State)
	s.Equal(s.now, d.AuditedAt)
}

func TestScoreOf(t *testing.T) {
	tests := []struct {
		points int
		want   int
	}{
		{-5, 1000},
		{0, 1000},
		{600, 400},
		{1000, 0},
		{5000, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ScoreOf(tt.points), "points=%d", tt.points)
	}
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, StatusClean, StatusOf(1000))
	assert.Equal(t, StatusClean, StatusOf(700))
	assert.Equal(t, StatusSuspicious, StatusOf(699))
	assert.Equal(t, StatusSuspicious, StatusOf(400))
	assert.Equal(t, StatusAlert, StatusOf(399))
}

func TestCloneIsDeep(t *testing.T) {
	d := &Dossier{
		SubjectID: "s1",
		RedFlags:  []RedFlag{{Title: "a", Source: "b"}},
		Entities:  []Entity{{TaxID: "1", Officers: []Person{{Name: "x"}}}},
	}
	c := d.Clone()
	c.RedFlags[0].Title = "changed"
	c.Entities[0].Officers[0].Name = "changed"

	assert.Equal(t, "a", d.RedFlags[0].Title)
	assert.Equal(t, "x", d.Entities[0].Officers[0].Name)
	assert.Nil(t, (*Dossier)(nil).Clone())
}

func TestParseDedupePolicy(t *testing.T) {
	p, err := ParseDedupePolicy("")
	require.NoError(t, err)
	assert.Equal(t, DedupeAdditive, p)

	p, err = ParseDedupePolicy(" Source_Title ")
	require.NoError(t, err)
	assert.Equal(t, DedupeBySourceTitle, p)

	_, err = ParseDedupePolicy("latest")
	assert.Error(t, err)
}
