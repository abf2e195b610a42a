package logger_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/deevus/compliance-tui/internal/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.log")

	log, closer, err := logger.New(logger.Config{Level: "debug", File: path})
	require.NoError(t, err)

	log.Debug().Str("component", "test").Msg("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"hello"`)
	assert.Contains(t, string(data), `"component":"test"`)
}

func TestNew_EmptyFileDiscards(t *testing.T) {
	log, closer, err := logger.New(logger.Config{Level: "info"})
	require.NoError(t, err)
	require.NotNil(t, closer)
	assert.NoError(t, closer.Close())

	log.Info().Msg("dropped")
}

func TestNewWithWriter_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, zerolog.WarnLevel)

	log.Info().Msg("quiet")
	assert.Empty(t, buf.String())

	log.Error().Msg("loud")
	assert.Contains(t, buf.String(), "loud")
}
