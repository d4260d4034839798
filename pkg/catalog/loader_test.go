package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bastiangx/cineserve/pkg/media"
)

const tomlCatalog = `
[[movies]]
id = 501
title = "Metropolis"
overview = "A futuristic city."
genres = ["Sci-Fi"]
vote_average = 8.3

[[shows]]
id = 601
name = "The Twilight Zone"
overview = "Strange stories."
`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadEmbedded(t *testing.T) {
	c := New()
	require.NoError(t, c.LoadEmbedded())

	st := c.Stats()
	assert.Equal(t, 16, st.Movies)
	assert.Equal(t, 8, st.Shows)

	m, err := c.MovieByID(2)
	require.NoError(t, err)
	assert.Equal(t, "Nosferatu", m.Title)

	s, err := c.ShowByID(103)
	require.NoError(t, err)
	assert.Equal(t, "The Mandalorian", s.Name)

	// overviews are searched too: "Thanos'" in the Endgame overview matches.
	// The ranker drops that candidate later since its title does not match.
	got, err := c.FindMoviesMatching(context.Background(), "nos")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 5}, movieIDs(got))
}

func TestGetAvailable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "catalog_0002.toml", tomlCatalog)
	writeFile(t, dir, "catalog_0001.msgpack", "x")
	writeFile(t, dir, "catalog_extra.toml", tomlCatalog)
	writeFile(t, dir, "notes.txt", "ignored")

	files, err := NewLoader(dir).GetAvailable()
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, 1, files[0].ID)
	assert.Equal(t, FormatMsgpack, files[0].Format)
	assert.Equal(t, 2, files[1].ID)
	assert.Equal(t, FormatTOML, files[1].Format)
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "catalog_0001.toml", tomlCatalog)
	require.NoError(t, WriteMsgpack(filepath.Join(dir, "catalog_0002.msgpack"), File{
		Movies: []media.MovieEntry{{ID: 502, Title: "Sunrise", VoteCount: 12}},
	}))
	writeFile(t, dir, "catalog_0003.toml", "[[movies]\nid = ")

	c := New()
	loaded, err := NewLoader(dir).LoadAll(c)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded)

	m, err := c.MovieByID(502)
	require.NoError(t, err)
	assert.Equal(t, "Sunrise", m.Title)
	assert.Equal(t, 12, m.VoteCount)

	s, err := c.ShowByID(601)
	require.NoError(t, err)
	assert.Equal(t, "The Twilight Zone", s.Name)
}

func TestLoadAllFailures(t *testing.T) {
	t.Run("empty dir is not an error", func(t *testing.T) {
		loaded, err := NewLoader(t.TempDir()).LoadAll(New())
		require.NoError(t, err)
		assert.Zero(t, loaded)
	})

	t.Run("every file broken", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "catalog_0001.toml", "not = = toml")
		writeFile(t, dir, "catalog_0002.msgpack", "\xc1")

		loaded, err := NewLoader(dir).LoadAll(New())
		assert.Error(t, err)
		assert.Zero(t, loaded)
	})
}

func TestDetectFileFormat(t *testing.T) {
	dir := t.TempDir()
	tomlPath := writeFile(t, dir, "a.toml", tomlCatalog)
	binPath := filepath.Join(dir, "a.msgpack")
	require.NoError(t, WriteMsgpack(binPath, File{}))

	format, err := DetectFileFormat(tomlPath)
	require.NoError(t, err)
	assert.Equal(t, FormatTOML, format)

	format, err = DetectFileFormat(binPath)
	require.NoError(t, err)
	assert.Equal(t, FormatMsgpack, format)

	_, err = DetectFileFormat(writeFile(t, dir, "a.txt", "hello"))
	assert.Error(t, err)

	_, err = DetectFileFormat(writeFile(t, dir, "broken.toml", "x = [1,"))
	assert.Error(t, err)
}

func TestValidateFileFormat(t *testing.T) {
	dir := t.TempDir()

	assert.Error(t, ValidateFileFormat(writeFile(t, dir, "empty.toml", ""), FormatTOML))
	assert.Error(t, ValidateFileFormat(writeFile(t, dir, "good.toml", tomlCatalog), FormatMsgpack))
	assert.Error(t, ValidateFileFormat(filepath.Join(dir, "missing.toml"), FormatTOML))
	assert.Error(t, ValidateFileFormat(writeFile(t, dir, "x.toml", tomlCatalog), FormatUnknown))
	assert.NoError(t, ValidateFileFormat(writeFile(t, dir, "ok.toml", tomlCatalog), FormatTOML))
}
