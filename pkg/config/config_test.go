package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, 50, c.Server.MaxLimit)
	assert.Equal(t, 100, c.Server.MaxQuery)
	assert.Equal(t, 100, c.Server.ReloadEvery)
	assert.Equal(t, 10, c.Suggest.DefaultLimit)
	assert.Zero(t, c.Timeout())
	assert.Equal(t, "data", c.Catalog.DataDir)
	assert.True(t, c.Catalog.UseEmbedded)
	assert.Equal(t, 10, c.CLI.DefaultLimit)
	assert.True(t, c.CLI.ShowCorrections)
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[server]
max_limit = 25

[suggest]
timeout_ms = 250

[catalog]
use_embedded = false
`)

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 25, c.Server.MaxLimit)
	assert.Equal(t, 100, c.Server.MaxQuery, "missing keys keep defaults")
	assert.Equal(t, 250*time.Millisecond, c.Timeout())
	assert.False(t, c.Catalog.UseEmbedded)
	assert.Equal(t, "data", c.Catalog.DataDir)
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	path := writeConfig(t, `
[server]
max_limit = 20

[suggest]
default_limit = = 3

[catalog]
data_dir = "/srv/titles"

[cli]
show_corrections = false
`)

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 20, c.Server.MaxLimit)
	assert.Equal(t, 10, c.Suggest.DefaultLimit, "broken section falls back to defaults")
	assert.Equal(t, "/srv/titles", c.Catalog.DataDir)
	assert.False(t, c.CLI.ShowCorrections)
}

func TestLoadConfigNormalizes(t *testing.T) {
	path := writeConfig(t, `
[server]
max_limit = 0
max_query = -4
reload_every = -1

[suggest]
default_limit = 80
timeout_ms = -5

[cli]
default_limit = 0
`)

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 50, c.Server.MaxLimit)
	assert.Equal(t, 100, c.Server.MaxQuery)
	assert.Zero(t, c.Server.ReloadEvery)
	assert.Equal(t, 50, c.Suggest.DefaultLimit, "default limit is capped by max_limit")
	assert.Zero(t, c.Suggest.TimeoutMS)
	assert.Equal(t, 10, c.CLI.DefaultLimit)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestInitConfigCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	c, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)
	require.FileExists(t, path)

	again, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), again)
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	c := DefaultConfig()
	c.Server.MaxLimit = 7
	c.Suggest.DefaultLimit = 5
	c.Catalog.DataDir = "titles"
	require.NoError(t, SaveConfig(c, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, c, loaded)
}

func TestLoadConfigWithPriorityCustomPath(t *testing.T) {
	path := writeConfig(t, "[server]\nmax_query = 12\n")

	c, used, err := LoadConfigWithPriority(path)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, 12, c.Server.MaxQuery)
	assert.Equal(t, path, GetActiveConfigPath(path))
}
