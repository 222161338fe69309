package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	CrossmarkAPIKey string

	// Worker pool for batch rendering
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// Reference display
	CapitalizeSentenceStart bool
	SectionWord             string
	EquationWord            string
	FigureWord              string
	TableWord               string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		CrossmarkAPIKey: os.Getenv("CROSSMARK_API_KEY"),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 10485760), // 10MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		CapitalizeSentenceStart: envBool("XREF_CAPITALIZE", true),
		SectionWord:             os.Getenv("XREF_WORD_SECTION"),
		EquationWord:            os.Getenv("XREF_WORD_EQUATION"),
		FigureWord:              os.Getenv("XREF_WORD_FIGURE"),
		TableWord:               os.Getenv("XREF_WORD_TABLE"),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10485760
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.CrossmarkAPIKey == "" {
		return fmt.Errorf("CROSSMARK_API_KEY is required")
	}
	return nil
}

// TypeWords returns the configured type-word overrides, keyed by
// element type. Empty values mean the built-in defaults apply.
func (c Config) TypeWords() map[string]string {
	return map[string]string{
		"section":  c.SectionWord,
		"equation": c.EquationWord,
		"figure":   c.FigureWord,
		"table":    c.TableWord,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
