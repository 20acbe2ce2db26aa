package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]string{
		"DEBUG": "debug",
		"info":  "info",
		"":      "info",
		"WARN":  "warn",
		"ERROR": "error",
	}
	for in, want := range cases {
		l, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, l.String(), in)
	}
	_, err := ParseLevel("LOUD")
	assert.Error(t, err)
}

func TestNewSugaredLoggerNoSinksIsNop(t *testing.T) {
	l, err := NewSugaredLogger("x", Config{Level: "INFO"})
	require.NoError(t, err)
	assert.False(t, l.Desugar().Core().Enabled(zap.ErrorLevel))
}

func TestNewSugaredLoggerFileSink(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Console = false
	cfg.Level = "DEBUG"
	cfg.Path = filepath.Join(dir, "patternrec.log")

	l, err := NewSugaredLogger(ModuleSession, cfg)
	require.NoError(t, err)
	l.Debugw("toggled", "index", 3)
	require.NoError(t, l.Sync())

	files, err := filepath.Glob(cfg.Path + ".*")
	require.NoError(t, err)
	require.NotEmpty(t, files)
	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "[DEBUG]")
	assert.Contains(t, string(data), "toggled")
}

func TestGetLoggerCaches(t *testing.T) {
	require.NoError(t, SetConfig(Config{Level: "ERROR"}))
	a := GetLogger(ModuleCLI)
	b := GetLogger(ModuleCLI)
	assert.Same(t, a, b)

	assert.Error(t, SetConfig(Config{Level: "nope"}))
}
