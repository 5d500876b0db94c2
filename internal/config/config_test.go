package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// inDir runs the test from an empty directory so no stray .env is picked up.
func inDir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	inDir(t, t.TempDir())
	for _, k := range []string{"PHANTOM_DB_PATH", "PHANTOM_CHART_DIR", "PHANTOM_USER", "PHANTOM_COLOR", "PHANTOM_VERBOSE"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Config{
		DBPath:   "phantom_thieves.db",
		ChartDir: "charts",
		Color:    ColorAuto,
	}, cfg)
}

func TestLoadFromEnv(t *testing.T) {
	inDir(t, t.TempDir())
	t.Setenv("PHANTOM_DB_PATH", "/tmp/p.db")
	t.Setenv("PHANTOM_CHART_DIR", "out")
	t.Setenv("PHANTOM_USER", "joker")
	t.Setenv("PHANTOM_COLOR", " NEVER ")
	t.Setenv("PHANTOM_VERBOSE", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/p.db", cfg.DBPath)
	assert.Equal(t, "out", cfg.ChartDir)
	assert.Equal(t, "joker", cfg.User)
	assert.Equal(t, ColorNever, cfg.Color)
	assert.True(t, cfg.Verbose)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PHANTOM_USER=skull\nPHANTOM_CHART_DIR=from-file\n"), 0o644))
	inDir(t, dir)
	t.Setenv("PHANTOM_CHART_DIR", "from-env")
	t.Setenv("PHANTOM_USER", "")
	require.NoError(t, os.Unsetenv("PHANTOM_USER"))
	t.Cleanup(func() { _ = os.Unsetenv("PHANTOM_USER") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "skull", cfg.User)
	assert.Equal(t, "from-env", cfg.ChartDir)
}

func TestValidate(t *testing.T) {
	valid := Config{DBPath: "a.db", ChartDir: "charts", Color: ColorAlways}
	assert.NoError(t, valid.Validate())

	bad := valid
	bad.Color = "sometimes"
	assert.Error(t, bad.Validate())

	bad = valid
	bad.DBPath = " "
	assert.Error(t, bad.Validate())

	bad = valid
	bad.ChartDir = ""
	assert.Error(t, bad.Validate())
}
