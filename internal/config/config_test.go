package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	viewer := filepath.Join(dir, "viewer")
	require.NoError(t, os.Mkdir(viewer, 0o755))

	path := filepath.Join(dir, "qbench.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
output_dir: out
viewer_dir: `+viewer+`
jobs: 4
compiler_versions:
  qiskit: 1.2.4
registry:
  dsn: results.db
cache:
  ttl: 30m
  redis_addr: localhost:6379
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, 4, cfg.Jobs)
	assert.Equal(t, "1.2.4", cfg.CompilerVersions["qiskit"])
	assert.Equal(t, "results.db", cfg.Registry.DSN)
	assert.Equal(t, 30*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 1024, cfg.Cache.Size, "unset fields keep their defaults")
	assert.Equal(t, "localhost:50061", cfg.Server.Listen)

	assert.True(t, cfg.ViewerAvailable())
	assert.Equal(t, viewer, cfg.DefaultOutputDir())

	cfg.ViewerDir = filepath.Join(dir, "missing")
	assert.False(t, cfg.ViewerAvailable())
	assert.Equal(t, "out", cfg.DefaultOutputDir())
}

func TestLoadWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load("does-not-exist.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	for _, body := range []string{
		"jobs: -1\n",
		"cache:\n  size: 0\n",
		"registry:\n  driver: mysql\n",
		"jobs: [\n",
	} {
		path := filepath.Join(dir, "c.yaml")
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		_, err := Load(path)
		assert.Error(t, err, body)
	}
}
