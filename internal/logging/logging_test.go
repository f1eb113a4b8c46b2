package logging

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  log.Level
	}{
		{"", log.InfoLevel},
		{"debug", log.DebugLevel},
		{"info", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"error", log.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger, err := New(Config{Level: tt.level}, &bytes.Buffer{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, logger.GetLevel())
		})
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(Config{Level: "chatty"}, &bytes.Buffer{})
	require.ErrorIs(t, err, ErrInvalidLevel)

	cfg := Config{Level: "chatty"}
	require.ErrorIs(t, cfg.Validate(), ErrInvalidLevel)
}

func TestNew_WritesPrefixAndFilters(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "info", Prefix: "aprs"}, &buf)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("encoded", "bytes", 42)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "aprs")
	assert.Contains(t, out, "encoded")
	assert.Contains(t, out, "bytes=42")
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() { Discard().Error("dropped") })
}
