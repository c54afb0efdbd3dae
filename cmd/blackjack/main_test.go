package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/config"
)

func TestLoadConfigPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blackjack.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
shoe {
  seed = 1
}
log {
  level = "warn"
}
`), 0o644))

	t.Setenv(config.EnvSeed, "2")
	t.Setenv(config.EnvLogLevel, "error")

	g := &Globals{Config: path}
	cfg, err := g.loadConfig()
	require.NoError(t, err)
	assert.Equal(t, int64(2), cfg.Shoe.Seed, "environment beats the file")
	assert.Equal(t, log.ErrorLevel, cfg.LogLevel())

	seed := int64(3)
	g = &Globals{Config: path, Seed: &seed, LogLevel: "debug"}
	cfg, err = g.loadConfig()
	require.NoError(t, err)
	assert.Equal(t, int64(3), cfg.Shoe.Seed, "flags beat the environment")
	assert.Equal(t, log.DebugLevel, cfg.LogLevel())
}

func TestLoadConfigInvalid(t *testing.T) {
	g := &Globals{Config: filepath.Join(t.TempDir(), "missing.hcl"), LogLevel: "loud"}
	_, err := g.loadConfig()
	assert.ErrorContains(t, err, "invalid config")
}
