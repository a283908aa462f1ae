package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnvSingleton(t *testing.T) {
	ResetEnv()
	t.Setenv("PROMPTDECK_HOME", "/tmp/pdhome")
	t.Setenv("PROMPTDECK_DEBUG", "1")

	e := GetEnv()
	assert.Equal(t, "/tmp/pdhome", e.Home)
	assert.True(t, e.Debug)

	// Cached after first load.
	t.Setenv("PROMPTDECK_HOME", "/elsewhere")
	assert.Equal(t, "/tmp/pdhome", GetEnv().Home)
	ResetEnv()
}

func TestGetPathsHonorsHomeOverride(t *testing.T) {
	ResetEnv()
	dir := t.TempDir()
	t.Setenv("PROMPTDECK_HOME", dir)
	defer ResetEnv()

	p, err := GetPaths()
	require.NoError(t, err)
	assert.Equal(t, dir, p.Home)
	assert.Equal(t, filepath.Join(dir, "data"), p.Data)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), p.ConfigFile)
}

func TestLoadSettingsDefaults(t *testing.T) {
	ResetEnv()
	defer ResetEnv()
	p := &Paths{ConfigFile: filepath.Join(t.TempDir(), "config.yaml")}

	s, err := LoadSettings(p)
	require.NoError(t, err)
	assert.Equal(t, int64(512*1024), s.MaxFileBytes)
	assert.Equal(t, 300, s.DebounceMS)
	assert.Equal(t, 3, s.TreeDepth)
	assert.Equal(t, "", s.Endpoint)
}

func TestLoadSettingsFromFile(t *testing.T) {
	ResetEnv()
	defer ResetEnv()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("endpoint: https://api.example.com/extract\ndebounce_ms: 150\n"), 0644))

	s, err := LoadSettings(&Paths{ConfigFile: cfg})
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/extract", s.Endpoint)
	assert.Equal(t, 150, s.DebounceMS)
	assert.Equal(t, int64(512*1024), s.MaxFileBytes, "unset keys keep defaults")
}

func TestEnvEndpointWinsOverFile(t *testing.T) {
	ResetEnv()
	t.Setenv("PROMPTDECK_ENDPOINT", "https://env.example.com")
	defer ResetEnv()

	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("endpoint: https://file.example.com\n"), 0644))

	s, err := LoadSettings(&Paths{ConfigFile: cfg})
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", s.Endpoint)
}
