package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicefin/internal/config"
	"invoicefin/internal/logger"
)

func TestSetupWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, logger.SetupWriter(config.LogConfig{Level: "info", Format: "json"}, &buf))

	l := logger.WithComponent("archival")
	l.Info().Msg("batch done")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "archival", line["component"])
	assert.Equal(t, "batch done", line["message"])
	assert.Equal(t, "info", line["level"])
}

func TestSetupWriter_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, logger.SetupWriter(config.LogConfig{Level: "warn", Format: "json"}, &buf))

	log.Info().Msg("dropped")
	assert.Empty(t, buf.String())
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
}

func TestSetupWriter_InvalidLevel(t *testing.T) {
	var buf bytes.Buffer
	err := logger.SetupWriter(config.LogConfig{Level: "loud"}, &buf)
	assert.Error(t, err)
}
