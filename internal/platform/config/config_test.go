package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("DOSSIER_ADDR", "")
	t.Setenv("MAX_ENTITIES", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 30, cfg.Pipeline.MaxEntities)
	assert.Equal(t, 3, cfg.Pipeline.PreviewMediaLimit)
	assert.Equal(t, 3*time.Second, cfg.Pipeline.PreviewTimeout)
	assert.Equal(t, 10*time.Second, cfg.Providers.Timeout)
	assert.Equal(t, "dossier.deep-audit", cfg.Kafka.Topic)
	assert.Empty(t, cfg.Kafka.Brokers)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("DOSSIER_ADDR", ":9090")
	t.Setenv("MAX_ENTITIES", "5")
	t.Setenv("PROVIDER_TIMEOUT", "2s")
	t.Setenv("PROVIDER_RPS", "0.5")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,")
	t.Setenv("DEDUPE_POLICY", "source_title")
	t.Setenv("PREVIEW_TIMEOUT", "1500ms")

	cfg := FromEnv()

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 5, cfg.Pipeline.MaxEntities)
	assert.Equal(t, 2*time.Second, cfg.Providers.Timeout)
	assert.InDelta(t, 0.5, cfg.Providers.RatePerSecond, 0.0001)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "source_title", cfg.Pipeline.DedupePolicy)
	assert.Equal(t, 1500*time.Millisecond, cfg.Pipeline.PreviewTimeout)
}

func TestFromEnvIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("MAX_ENTITIES", "lots")
	t.Setenv("CACHE_TTL", "-1m")

	cfg := FromEnv()

	assert.Equal(t, 30, cfg.Pipeline.MaxEntities)
	assert.Equal(t, 10*time.Minute, cfg.Pipeline.CacheTTL)
}
