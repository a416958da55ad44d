//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"dossier/internal/domain"
	"dossier/internal/dossier/cache"
	"dossier/pkg/testutil/containers"
)

type RedisCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *cache.RedisCache
}

func TestRedisCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.cache = cache.NewRedisCache(s.redis.Client, cache.TTL{Complete: time.Hour, Pending: time.Second})
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisCacheSuite) TestReserveIsExclusive() {
	ctx := context.Background()

	ok, err := s.cache.Reserve(ctx, "s1", cache.Entry{State: domain.StateQueued})
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.cache.Reserve(ctx, "s1", cache.Entry{State: domain.StateQueued})
	s.Require().NoError(err)
	s.False(ok)
}

func (s *RedisCacheSuite) TestPendingEntryExpires() {
	ctx := context.Background()
	s.Require().NoError(s.cache.Set(ctx, "s1", cache.Entry{State: domain.StateRunning}))

	s.Eventually(func() bool {
		_, found, err := s.cache.Get(ctx, "s1")
		return err == nil && !found
	}, 5*time.Second, 100*time.Millisecond)
}

func (s *RedisCacheSuite) TestRoundTripAndInvalidate() {
	ctx := context.Background()
	d := &domain.Dossier{SubjectID: "s1", SubjectName: "Marco Silva", PointsLost: 600, State: domain.StateComplete}
	s.Require().NoError(s.cache.Set(ctx, "s1", cache.Entry{State: domain.StateComplete, Dossier: d}))

	e, found, err := s.cache.Get(ctx, "s1")
	s.Require().NoError(err)
	s.Require().True(found)
	s.Equal(600, e.Dossier.PointsLost)
	s.Equal(400, e.Dossier.Score())

	s.Require().NoError(s.cache.Invalidate(ctx, "s1"))
	_, found, err = s.cache.Get(ctx, "s1")
	s.Require().NoError(err)
	s.False(found)
}
