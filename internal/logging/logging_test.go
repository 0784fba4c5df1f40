package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_WritesToFile(t *testing.T) {
	original := log.Logger
	defer func() { log.Logger = original }()

	path := filepath.Join(t.TempDir(), "panel.log")
	Init(zerolog.InfoLevel, path)

	log.Info().Str("component", "test").Msg("hello")
	log.Debug().Msg("filtered")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"test"`)
	assert.Contains(t, string(data), `"message":"hello"`)
	assert.NotContains(t, string(data), "filtered")
}

func TestInit_BadPathPanics(t *testing.T) {
	original := log.Logger
	defer func() { log.Logger = original }()

	assert.Panics(t, func() {
		Init(zerolog.InfoLevel, filepath.Join(t.TempDir(), "missing", "dir", "panel.log"))
	})
}
