package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

var (
	errInvalidPort           = errors.New("config: invalid PORT number")
	errConcurrencyOutOfRange = errors.New("config: LINK_CHECK_CONCURRENCY must be 1-100")
	errRetriesOutOfRange     = errors.New("config: FETCH_MAX_RETRIES must be 0-10")
	errInvalidTimeout        = errors.New("config: timeouts must be positive")
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Port                 string
	LogLevel             string
	ConnectTimeout       time.Duration
	ReadTimeout          time.Duration
	MaxRetries           int
	ProbeTimeout         time.Duration
	LinkCheckConcurrency int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (Config, error) {
	cfg := Config{
		Port:                 getEnv("PORT", "8080"),
		LogLevel:             getEnv("LOG_LEVEL", "ERROR"),
		ConnectTimeout:       getEnvAsSeconds("FETCH_CONNECT_TIMEOUT_SECONDS", 5),
		ReadTimeout:          getEnvAsSeconds("FETCH_READ_TIMEOUT_SECONDS", 30),
		MaxRetries:           getEnvAsInt("FETCH_MAX_RETRIES", 3),
		ProbeTimeout:         getEnvAsSeconds("PROBE_TIMEOUT_SECONDS", 5),
		LinkCheckConcurrency: getEnvAsInt("LINK_CHECK_CONCURRENCY", 10),
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("%w: %q", errInvalidPort, c.Port)
	}

	if c.LinkCheckConcurrency < 1 || c.LinkCheckConcurrency > 100 {
		return fmt.Errorf("%w: got %d", errConcurrencyOutOfRange, c.LinkCheckConcurrency)
	}

	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("%w: got %d", errRetriesOutOfRange, c.MaxRetries)
	}

	if c.ConnectTimeout <= 0 || c.ReadTimeout <= 0 || c.ProbeTimeout <= 0 {
		return errInvalidTimeout
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvAsSeconds(key string, fallback int) time.Duration {
	return time.Duration(getEnvAsInt(key, fallback)) * time.Second
}
