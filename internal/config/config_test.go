package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"TEXTSCAPE_ENV", "TEXTSCAPE_SAMPLE_RATE", "TEXTSCAPE_CULTURE", "TEXTSCAPE_SEED", "TEXTSCAPE_VOLUME", "SENTRY_DSN"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 48000, cfg.SampleRate)
	assert.Equal(t, "multicultural", cfg.Culture)
	assert.Equal(t, uint64(0), cfg.Seed)
	assert.InDelta(t, 0.8, cfg.MasterVolume, 1e-9)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TEXTSCAPE_ENV", "production")
	t.Setenv("TEXTSCAPE_SAMPLE_RATE", "44100")
	t.Setenv("TEXTSCAPE_CULTURE", "eastAsian")
	t.Setenv("TEXTSCAPE_SEED", "42")
	t.Setenv("TEXTSCAPE_VOLUME", "0.5")
	t.Setenv("SENTRY_DSN", "https://key@example.invalid/1")

	cfg := Load()
	assert.Equal(t, 44100, cfg.SampleRate)
	assert.Equal(t, "eastAsian", cfg.Culture)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.InDelta(t, 0.5, cfg.MasterVolume, 1e-9)
	assert.True(t, cfg.IsProduction())
}

func TestMalformedNumbersFallBack(t *testing.T) {
	t.Setenv("TEXTSCAPE_SAMPLE_RATE", "fast")
	t.Setenv("TEXTSCAPE_VOLUME", "loud")
	cfg := Load()
	assert.Equal(t, 48000, cfg.SampleRate)
	assert.InDelta(t, 0.8, cfg.MasterVolume, 1e-9)
}

func TestNegativeSeedFallsBack(t *testing.T) {
	t.Setenv("TEXTSCAPE_SEED", "-5")
	assert.Equal(t, uint64(0), Load().Seed)

	t.Setenv("TEXTSCAPE_SEED", "18446744073709551615")
	assert.Equal(t, uint64(18446744073709551615), Load().Seed)
}

func TestValidate(t *testing.T) {
	t.Setenv("TEXTSCAPE_CULTURE", "")
	t.Setenv("TEXTSCAPE_SAMPLE_RATE", "")
	cfg := Load()
	assert.NoError(t, cfg.Validate())

	for _, c := range []string{"western", "indian", "middleEastern", "eastAsian", "exotic", "multicultural"} {
		cfg.Culture = c
		assert.NoError(t, cfg.Validate(), c)
	}

	cfg.Culture = "klingon"
	assert.ErrorContains(t, cfg.Validate(), `unknown culture "klingon"`)

	cfg.Culture = "western"
	cfg.SampleRate = 0
	assert.Error(t, cfg.Validate())
}
