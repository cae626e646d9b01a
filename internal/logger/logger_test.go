package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestFieldsAreWrittenInKeyOrder(t *testing.T) {
	var buf bytes.Buffer
	Init("debug", &buf)
	t.Cleanup(func() { Init("info", os.Stderr) })

	Warn("unknown scale", Fields{"scale": "foo", "culture": "western"})
	Debug("tick", nil)
	Error("render failed", errors.New("boom"), Fields{"session": "abc"})

	out := buf.String()
	assert.Contains(t, out, `msg="unknown scale" culture=western scale=foo`)
	assert.Contains(t, out, "msg=tick")
	assert.Contains(t, out, "error=boom session=abc")
}

func TestLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	Init("warn", &buf)
	t.Cleanup(func() { Init("info", os.Stderr) })

	Debug("hidden", nil)
	Info("hidden too", nil)
	assert.Empty(t, buf.String())
}
