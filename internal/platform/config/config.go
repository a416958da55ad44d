package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr      string
	LogLevel  string
	LogFormat string
}

// Providers configures the outbound evidence sources. An empty URL disables
// the source; lookups against it come back empty.
type Providers struct {
	CorporateURL    string
	TransparencyURL string
	TransparencyKey string
	FinesURL        string
	WebSearchURL    string
	Timeout         time.Duration
	RatePerSecond   float64
	Retries         int
}

// Judgment configures the external risk-judgment model.
type Judgment struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Pipeline holds the tunables of the two audit phases.
type Pipeline struct {
	MaxSeeds          int
	MaxEntities       int
	PreviewTimeout    time.Duration
	PreviewMediaLimit int
	DeepMediaLimit    int
	EntityConcurrency int
	Workers           int
	QueueSize         int
	DedupePolicy      string
	BlacklistFile     string
	CacheTTL          time.Duration
	PendingTTL        time.Duration
}

// RedisConfig mirrors the go-redis pool options we expose.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Kafka configures the deep-audit task topic.
type Kafka struct {
	Brokers []string
	Topic   string
	Group   string
}

// Config is the full application configuration.
type Config struct {
	Server      Server
	Providers   Providers
	Judgment    Judgment
	Pipeline    Pipeline
	Redis       RedisConfig
	DatabaseURL string
	Kafka       Kafka
}

// FromEnv builds the config from environment variables so main stays lean.
// A .env file in the working directory is loaded first when present; real
// environment variables win over it.
func FromEnv() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env", "error", err)
	}

	return Config{
		Server: Server{
			Addr:      getenv("DOSSIER_ADDR", ":8080"),
			LogLevel:  getenv("LOG_LEVEL", "info"),
			LogFormat: getenv("LOG_FORMAT", "json"),
		},
		Providers: Providers{
			CorporateURL:    getenv("CORPORATE_REGISTRY_URL", "https://brasilapi.com.br/api"),
			TransparencyURL: getenv("TRANSPARENCY_API_URL", "https://api.portaldatransparencia.gov.br/api-de-dados"),
			TransparencyKey: os.Getenv("TRANSPARENCY_API_KEY"),
			FinesURL:        os.Getenv("FINES_REGISTRY_URL"),
			WebSearchURL:    os.Getenv("WEB_SEARCH_URL"),
			Timeout:         getenvDuration("PROVIDER_TIMEOUT", 10*time.Second),
			RatePerSecond:   getenvFloat("PROVIDER_RPS", 5),
			Retries:         getenvInt("PROVIDER_RETRIES", 1),
		},
		Judgment: Judgment{
			BaseURL: getenv("JUDGMENT_BASE_URL", "https://dashscope-intl.aliyuncs.com/compatible-mode/v1"),
			APIKey:  os.Getenv("JUDGMENT_API_KEY"),
			Model:   getenv("JUDGMENT_MODEL", "qwen-plus"),
			Timeout: getenvDuration("JUDGMENT_TIMEOUT", 30*time.Second),
		},
		Pipeline: Pipeline{
			MaxSeeds:          getenvInt("MAX_SEED_IDENTIFIERS", 20),
			MaxEntities:       getenvInt("MAX_ENTITIES", 30),
			PreviewTimeout:    getenvDuration("PREVIEW_TIMEOUT", 3*time.Second),
			PreviewMediaLimit: getenvInt("PREVIEW_MEDIA_LIMIT", 3),
			DeepMediaLimit:    getenvInt("DEEP_MEDIA_LIMIT", 10),
			EntityConcurrency: getenvInt("ENTITY_CONCURRENCY", 4),
			Workers:           getenvInt("AUDIT_WORKERS", 2),
			QueueSize:         getenvInt("AUDIT_QUEUE_SIZE", 64),
			DedupePolicy:      getenv("DEDUPE_POLICY", "additive"),
			BlacklistFile:     os.Getenv("BLACKLIST_FILE"),
			CacheTTL:          getenvDuration("CACHE_TTL", 10*time.Minute),
			PendingTTL:        getenvDuration("PENDING_TTL", 15*time.Minute),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getenvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getenvInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getenvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getenvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getenvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Kafka: Kafka{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   getenv("KAFKA_TOPIC", "dossier.deep-audit"),
			Group:   getenv("KAFKA_GROUP", "dossier-workers"),
		},
	}
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getenvFloat(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return fallback
	}
	return f
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
