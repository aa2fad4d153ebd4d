// Package config builds the process configuration from environment variables
// so main stays lean. Every knob has a development default; production
// deployments override through the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTP       HTTPConfig
	Postgres   PostgresConfig
	Redis      RedisConfig
	Kafka      KafkaConfig
	Auth       AuthConfig
	Callbacks  CallbackConfig
	Generation GenerationConfig
}

type HTTPConfig struct {
	Addr           string
	RequestTimeout time.Duration
}

type PostgresConfig struct {
	// URL is the pgx connection string. Empty means in-memory stores.
	URL string
}

type RedisConfig struct {
	// URL is the go-redis connection string. Empty means the in-process
	// lease store.
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type KafkaConfig struct {
	// Brokers is the seed broker list. Empty disables event publishing.
	Brokers []string
	Topic   string
}

type AuthConfig struct {
	JWTSigningKey string
}

// CallbackConfig holds the bcrypt hashes of the shared secrets the two
// provider callbacks authenticate with.
type CallbackConfig struct {
	ProviderASecretHash string
	ProviderBSecretHash string
}

type GenerationConfig struct {
	// ServiceURL is the completion endpoint base URL. Empty disables
	// generation; enrichment then produces templated fallback content.
	ServiceURL     string
	APIKey         string
	RequestTimeout time.Duration
	MaxTokens      int
	Temperature    float64
	MaxAttempts    int
	LeaseTTL       time.Duration
}

func FromEnv() Config {
	return Config{
		HTTP: HTTPConfig{
			Addr:           getString("DOSSIER_ADDR", ":8080"),
			RequestTimeout: getDuration("DOSSIER_REQUEST_TIMEOUT", 30*time.Second),
		},
		Postgres: PostgresConfig{
			URL: os.Getenv("DOSSIER_POSTGRES_URL"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("DOSSIER_REDIS_URL"),
			PoolSize:     getInt("DOSSIER_REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("DOSSIER_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("DOSSIER_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("DOSSIER_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("DOSSIER_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: getStringList("DOSSIER_KAFKA_BROKERS"),
			Topic:   getString("DOSSIER_KAFKA_TOPIC", "dossier.profile.events"),
		},
		Auth: AuthConfig{
			// Development default, override in production.
			JWTSigningKey: getString("DOSSIER_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		},
		Callbacks: CallbackConfig{
			ProviderASecretHash: os.Getenv("DOSSIER_PROVIDER_A_SECRET_HASH"),
			ProviderBSecretHash: os.Getenv("DOSSIER_PROVIDER_B_SECRET_HASH"),
		},
		Generation: GenerationConfig{
			ServiceURL:     os.Getenv("DOSSIER_GENERATION_URL"),
			APIKey:         os.Getenv("DOSSIER_GENERATION_API_KEY"),
			RequestTimeout: getDuration("DOSSIER_GENERATION_TIMEOUT", 30*time.Second),
			MaxTokens:      getInt("DOSSIER_GENERATION_MAX_TOKENS", 512),
			Temperature:    getFloat("DOSSIER_GENERATION_TEMPERATURE", 0.7),
			MaxAttempts:    getInt("DOSSIER_GENERATION_MAX_ATTEMPTS", 3),
			LeaseTTL:       getDuration("DOSSIER_ENRICHMENT_LEASE_TTL", 2*time.Minute),
		},
	}
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getStringList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
