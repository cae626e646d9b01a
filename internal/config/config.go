package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/cbegin/textscape-go/internal/scales"
)

// Config holds the runtime configuration shared by the CLI and the player.
type Config struct {
	Environment string
	LogLevel    string

	// Audio
	SampleRate   int
	MasterVolume float64

	// Composition
	Culture      string // multicultural, western, indian, middleEastern, eastAsian, exotic
	Seed         uint64 // 0 picks a seed from the clock
	VADTablePath string // optional YAML/JSON valence-arousal-dominance table

	// Observability
	SentryDSN string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real env vars win over it.
func Load() *Config {
	_ = godotenv.Load()
	return &Config{
		Environment:  getEnv("TEXTSCAPE_ENV", "development"),
		LogLevel:     getEnv("TEXTSCAPE_LOG_LEVEL", "info"),
		SampleRate:   getEnvInt("TEXTSCAPE_SAMPLE_RATE", 48000),
		MasterVolume: getEnvFloat("TEXTSCAPE_VOLUME", 0.8),
		Culture:      getEnv("TEXTSCAPE_CULTURE", "multicultural"),
		Seed:         getEnvUint64("TEXTSCAPE_SEED", 0),
		VADTablePath: getEnv("TEXTSCAPE_VAD_TABLE", ""),
		SentryDSN:    getEnv("SENTRY_DSN", ""),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

// getEnvUint64 falls back on negative values rather than wrapping them.
func getEnvUint64(key string, defaultValue uint64) uint64 {
	v, err := strconv.ParseUint(getEnv(key, ""), 10, 64)
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvFloat(key string, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return defaultValue
	}
	return v
}

// IsProduction reports whether errors should be shipped to Sentry.
func (c *Config) IsProduction() bool {
	return c.Environment == "production" && c.SentryDSN != ""
}

// Validate rejects settings the engines cannot run with.
func (c *Config) Validate() error {
	if !slices.Contains(scales.Cultures(), scales.Culture(c.Culture)) {
		return fmt.Errorf("unknown culture %q, want one of %v", c.Culture, scales.Cultures())
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %d", c.SampleRate)
	}
	return nil
}
