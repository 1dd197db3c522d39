package emit

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsmith/internal/foundation/errors"
)

func TestEmit_CreatesDirectoriesAndWrites(t *testing.T) {
	root := t.TempDir()
	e := New(root, false)

	require.NoError(t, e.Emit("api/Arrow/Route.html", []byte("<html>")))
	require.NoError(t, e.Emit("api/Arrow/Other.html", []byte("x")))

	data, err := os.ReadFile(filepath.Join(root, "api", "Arrow", "Route.html"))
	require.NoError(t, err)
	assert.Equal(t, "<html>", string(data))

	info, err := os.Stat(filepath.Join(root, "api", "Arrow", "Route.html"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm()&0o644)

	assert.Equal(t, Stats{Files: 2, Bytes: 7, Dirs: 1}, e.Stats())
	assert.Equal(t, []string{"api/Arrow/Route.html", "api/Arrow/Other.html"}, e.Written())
}

func TestEmit_DryRunWritesNothing(t *testing.T) {
	root := filepath.Join(t.TempDir(), "out")
	e := New(root, true)

	require.NoError(t, e.Emit("a/b/c.html", []byte("hello")))
	require.NoError(t, e.Emit("a/b/d.html", []byte("hi")))

	_, err := os.Stat(root)
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, Stats{Files: 2, Bytes: 7, Dirs: 1}, e.Stats())
}

func TestEmit_RejectsEscapingPaths(t *testing.T) {
	e := New(t.TempDir(), false)
	for _, rel := range []string{"", "../x.html", "a/../../x.html", "/etc/passwd"} {
		err := e.Emit(rel, []byte("x"))
		require.Error(t, err, rel)
		assert.True(t, errors.HasCategory(err, errors.CategoryFileSystem), rel)
	}
}

func TestCopyFS(t *testing.T) {
	root := t.TempDir()
	e := New(root, false)
	assets := fstest.MapFS{
		"rdoc.css":     {Data: []byte("body{}")},
		"js/manual.js": {Data: []byte("//js")},
		".hidden":      {Data: []byte("skip")},
		"images/a.png": {Data: []byte{0x89, 0x50}},
	}

	require.NoError(t, e.CopyFS(assets, "manual"))

	for rel, want := range map[string]string{
		"manual/rdoc.css":     "body{}",
		"manual/js/manual.js": "//js",
	} {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		require.NoError(t, err, rel)
		assert.Equal(t, want, string(data))
	}
	_, err := os.Stat(filepath.Join(root, "manual", ".hidden"))
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, 3, e.Stats().Files)
}

func TestClean(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "stale.html"), []byte("x"), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "old"), 0o755))

	require.NoError(t, New(root, true).Clean())
	_, err := os.Stat(filepath.Join(root, "stale.html"))
	require.NoError(t, err, "dry run keeps files")

	require.NoError(t, New(root, false).Clean())
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, New(filepath.Join(root, "missing"), false).Clean())
	require.Error(t, New("", false).Clean())
	require.Error(t, New("/", false).Clean())
}

func TestEmit_ZeroValueEmitter(t *testing.T) {
	root := t.TempDir()
	e := &Emitter{Root: root}

	require.NoError(t, e.Emit("a/b.html", []byte("ok")))
	require.NoError(t, e.Emit("a/c.html", []byte("ok")))

	data, err := os.ReadFile(filepath.Join(root, "a", "b.html"))
	require.NoError(t, err)
	assert.Equal(t, "ok", string(data))
	assert.Equal(t, Stats{Files: 2, Bytes: 4, Dirs: 1}, e.Stats())
}
