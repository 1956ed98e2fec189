package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/pkg/api"
)

type (
	// Config holds configuration settings for the orchestration core.
	// It is loaded once at startup and treated as immutable for the
	// process lifetime
	Config struct {
		// API server
		APIHost  string
		APIPort  int
		LogLevel string

		// Policy document
		Privacy   Privacy
		Approvals Approvals

		// Resilience
		Retry api.RetryPolicy

		// Flow storage; empty Addr selects the in-memory repository
		FlowStore RedisConfig

		// Run archive; empty URL selects the in-memory recorder
		ArchiveBucketURL    string
		ArchiveStorageLabel string

		// Action notifications
		NotifyEndpoint string
		NotifyTimeout  time.Duration

		IngestTimeout   time.Duration
		ShutdownTimeout time.Duration
	}

	// Privacy configures the privacy guard
	Privacy struct {
		RedactFields    []string
		PIIMinimization bool
	}

	// Approvals configures the policy guard
	Approvals struct {
		CouncilRequiredEvents []string
	}

	// RedisConfig describes the Redis-backed flow repository
	RedisConfig struct {
		Addr     string
		Password string
		Prefix   string
		DB       int
	}
)

const (
	DefaultAPIPort = 8080
	DefaultAPIHost = "0.0.0.0"
	MaxTCPPort     = 65535

	DefaultRetryMaxAttempts   = 3
	DefaultRetryBackoffMs     = 250
	DefaultRetryBackoffFactor = 2.0
	DefaultRetryBackoffType   = api.BackoffTypeExponential

	DefaultRedisPrefix         = "codex"
	DefaultArchiveStorageLabel = "default-archive"

	DefaultNotifyTimeout   = 10 * time.Second
	DefaultIngestTimeout   = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second

	MaxRetryMaxAttempts = 1000
	MaxRetryBackoff     = int64(24 * time.Hour / time.Millisecond)
	MaxRedisDB          = 15
)

var (
	ErrInvalidAPIPort       = errors.New("invalid API port")
	ErrInvalidIngestTimeout = errors.New("ingest timeout must be positive")
)

// NewDefaultConfig creates a configuration with sensible defaults for all
// gateway, policy, and retry behavior
func NewDefaultConfig() *Config {
	return &Config{
		APIHost:  DefaultAPIHost,
		APIPort:  DefaultAPIPort,
		LogLevel: "info",
		Privacy: Privacy{
			PIIMinimization: true,
			RedactFields:    []string{"email", "phone", "address"},
		},
		Retry: api.RetryPolicy{
			MaxAttempts:   DefaultRetryMaxAttempts,
			BackoffMs:     DefaultRetryBackoffMs,
			BackoffFactor: DefaultRetryBackoffFactor,
			BackoffType:   DefaultRetryBackoffType,
		},
		FlowStore: RedisConfig{
			Prefix: DefaultRedisPrefix,
		},
		ArchiveStorageLabel: DefaultArchiveStorageLabel,
		NotifyTimeout:       DefaultNotifyTimeout,
		IngestTimeout:       DefaultIngestTimeout,
		ShutdownTimeout:     DefaultShutdownTimeout,
	}
}

// LoadFromEnv populates configuration values from environment variables.
// Returns an error if any env var cannot be parsed
func (c *Config) LoadFromEnv() error {
	if host := os.Getenv("API_HOST"); host != "" {
		c.APIHost = host
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.LogLevel = level
	}
	if bt := os.Getenv("RETRY_BACKOFF_TYPE"); bt != "" {
		c.Retry.BackoffType = api.BackoffType(bt)
	}
	if fields := os.Getenv("REDACT_FIELDS"); fields != "" {
		c.Privacy.RedactFields = splitCSV(fields)
	}
	if events := os.Getenv("COUNCIL_REQUIRED_EVENTS"); events != "" {
		c.Approvals.CouncilRequiredEvents = splitCSV(events)
	}
	if url := os.Getenv("RUN_ARCHIVE_BUCKET_URL"); url != "" {
		c.ArchiveBucketURL = url
	}
	if label := os.Getenv("ARCHIVE_STORAGE_LABEL"); label != "" {
		c.ArchiveStorageLabel = label
	}
	if endpoint := os.Getenv("NOTIFY_ENDPOINT"); endpoint != "" {
		c.NotifyEndpoint = endpoint
	}

	loadRedisFromEnv(&c.FlowStore, "FLOW")
	loadEnvBool("PII_MINIMIZATION", &c.Privacy.PIIMinimization)

	if err := loadEnvInt("API_PORT", &c.APIPort, 0, MaxTCPPort); err != nil {
		return err
	}
	if err := loadEnvInt(
		"RETRY_MAX_ATTEMPTS", &c.Retry.MaxAttempts, 0, MaxRetryMaxAttempts,
	); err != nil {
		return err
	}
	if err := loadEnvInt(
		"RETRY_BACKOFF_MS", &c.Retry.BackoffMs, 0, MaxRetryBackoff,
	); err != nil {
		return err
	}
	if err := loadEnvFloat(
		"RETRY_BACKOFF_FACTOR", &c.Retry.BackoffFactor,
	); err != nil {
		return err
	}
	if err := loadEnvDuration(
		"INGEST_TIMEOUT", &c.IngestTimeout,
	); err != nil {
		return err
	}
	if err := loadEnvDuration(
		"NOTIFY_TIMEOUT", &c.NotifyTimeout,
	); err != nil {
		return err
	}
	return loadEnvDuration("SHUTDOWN_TIMEOUT", &c.ShutdownTimeout)
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.APIPort <= 0 || c.APIPort > MaxTCPPort {
		return fmt.Errorf("%w: %d", ErrInvalidAPIPort, c.APIPort)
	}
	if c.IngestTimeout <= 0 {
		return ErrInvalidIngestTimeout
	}
	return c.Retry.Validate()
}

func loadRedisFromEnv(r *RedisConfig, prefix string) {
	if addr := os.Getenv(prefix + "_REDIS_ADDR"); addr != "" {
		r.Addr = addr
	}
	if password := os.Getenv(prefix + "_REDIS_PASSWORD"); password != "" {
		r.Password = password
	}
	if dbStr := os.Getenv(prefix + "_REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil && db >= 0 {
			r.DB = db
		}
	}
	if keyPrefix := os.Getenv(prefix + "_REDIS_PREFIX"); keyPrefix != "" {
		r.Prefix = keyPrefix
	}
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			res = append(res, p)
		}
	}
	return res
}

func loadEnvBool(key string, dst *bool) {
	s := os.Getenv(key)
	if s == "" {
		return
	}
	if v, err := strconv.ParseBool(s); err == nil {
		*dst = v
	}
}

func loadEnvFloat(key string, dst *float64) error {
	s := os.Getenv(key)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 1 {
		return fmt.Errorf("invalid %s: %q", key, s)
	}
	*dst = v
	return nil
}

func loadEnvDuration(key string, dst *time.Duration) error {
	s := os.Getenv(key)
	if s == "" {
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil || v <= 0 {
		return fmt.Errorf("invalid %s: %q", key, s)
	}
	*dst = v
	return nil
}

// loadEnvInt reads key from the environment, parses it as an integer, and
// sets *dst if the value is in the range (min, max). Returns an error if
// the value cannot be parsed or falls outside the valid range
func loadEnvInt[T ~int | ~int64](key string, dst *T, min, max T) error {
	s := os.Getenv(key)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %q", key, s)
	}
	tv := T(v)
	if tv <= min || tv > max {
		return fmt.Errorf("invalid %s: %d out of range [%d, %d]",
			key, tv, min+1, max)
	}
	*dst = tv
	return nil
}
