package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":5001", cfg.Server.Addr)
	assert.Equal(t, "memory", cfg.VectorStore.Type)
	assert.Equal(t, "memory", cfg.Session.Type)
	assert.Equal(t, "none", cfg.Generator.Type)
	assert.Equal(t, cfg.Data.KnowledgeBase, cfg.Data.Dictionary)
	assert.Nil(t, cfg.Session.Redis)
}

func TestParseFillsSectionDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
server:
  addr: ":8080"
vector_store:
  type: qdrant
session:
  type: redis
  ttl_secs: 120
generator:
  type: openai
  model: local-model
`))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	require.NotNil(t, cfg.VectorStore.Qdrant)
	assert.Equal(t, "http://localhost:6333", cfg.VectorStore.Qdrant.URL)
	assert.Equal(t, "triage_records", cfg.VectorStore.Qdrant.Collection)

	assert.Equal(t, 120, cfg.Session.TTLSecs)
	require.NotNil(t, cfg.Session.Redis)
	assert.Equal(t, "localhost:6379", cfg.Session.Redis.Addr)
	assert.Equal(t, "triage:session:", cfg.Session.Redis.KeyPrefix)

	assert.Equal(t, "local-model", cfg.Generator.Model)
	assert.Equal(t, "OPENAI_API_KEY", cfg.Generator.APIKeyEnv)
	assert.InDelta(t, 0.7, cfg.Generator.Temperature, 1e-6)
}

func TestParseRejectsInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("server: [unterminated"))
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Log.Level = "debug"

	require.NoError(t, Save(path, cfg))
	_, err := os.Stat(path)
	require.NoError(t, err)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadDefaultPrefersWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", t.TempDir())

	cfg, path, err := LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, ":5001", cfg.Server.Addr)
	assert.Contains(t, path, filepath.Join(".config", "triage"))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server:\n  addr: \":9000\"\n"), 0o644))
	cfg, path, err = LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, "config.yaml", path)
	assert.Equal(t, ":9000", cfg.Server.Addr)
}
