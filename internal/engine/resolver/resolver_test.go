package resolver

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("\n"), 0o644))
}

func TestBuildSearchIndexTwoLevels(t *testing.T) {
	cwd := t.TempDir()
	lib := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(cwd, "b_pkg", "deep"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(cwd, "a_pkg"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(lib, "site"), 0o755))
	touch(t, filepath.Join(cwd, "not_a_dir.py"))

	idx := BuildSearchIndex(cwd, []string{lib, filepath.Join(cwd, "missing"), lib}, ".py")

	assert.Equal(t, []string{
		cwd,
		lib,
		filepath.Join(cwd, "a_pkg"),
		filepath.Join(cwd, "b_pkg"),
		filepath.Join(lib, "site"),
	}, idx.Dirs())
}

func TestFindFirstMatchWins(t *testing.T) {
	cwd := t.TempDir()
	lib := t.TempDir()
	touch(t, filepath.Join(lib, "kalman.py"))
	touch(t, filepath.Join(cwd, "sub", "kalman.py"))

	idx := BuildSearchIndex(cwd, []string{lib}, ".py")

	path, ok := idx.Find("kalman")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(lib, "kalman.py"), path)

	_, ok = idx.Find("json")
	assert.False(t, ok)
	_, ok = idx.Find("")
	assert.False(t, ok)
}

func TestFindDottedName(t *testing.T) {
	cwd := t.TempDir()
	touch(t, filepath.Join(cwd, "pkg", "bits.py"))

	idx := BuildSearchIndex(cwd, nil, ".py")

	path, ok := idx.Find("pkg.bits")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(cwd, "pkg", "bits.py"), path)

	_, ok = idx.Find("pkg..bits")
	assert.False(t, ok)
}

func TestFindIgnoresDirectoriesNamedLikeModules(t *testing.T) {
	cwd := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(cwd, "odd.py"), 0o755))

	_, ok := BuildSearchIndex(cwd, nil, ".py").Find("odd")
	assert.False(t, ok)
}

func TestFindRelative(t *testing.T) {
	root := t.TempDir()
	importer := filepath.Join(root, "pkg", "sub", "mod.py")
	touch(t, importer)
	touch(t, filepath.Join(root, "pkg", "sub", "sibling.py"))
	touch(t, filepath.Join(root, "pkg", "parent.py"))

	idx := BuildSearchIndex(t.TempDir(), nil, ".py")

	path, ok := idx.FindRelative(importer, 1, "sibling")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "pkg", "sub", "sibling.py"), path)

	path, ok = idx.FindRelative(importer, 2, "parent")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "pkg", "parent.py"), path)

	_, ok = idx.FindRelative(importer, 1, "parent")
	assert.False(t, ok)
}

func TestRuntimeSearchPathWithoutInterpreter(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	t.Setenv("PYTHONPATH", a+string(os.PathListSeparator)+b)

	got := RuntimeSearchPath(context.Background(), nil, []string{"/configured"}, "")
	assert.Equal(t, []string{"/configured", a, b}, got)
}

func TestRuntimeSearchPathMissingInterpreter(t *testing.T) {
	t.Setenv("PYTHONPATH", "")

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	got := RuntimeSearchPath(context.Background(), logger, nil, "definitely-not-a-python-binary")
	assert.Empty(t, got)
	assert.Contains(t, logs.String(), "interpreter search path unavailable")
	assert.Contains(t, logs.String(), "interpreter=definitely-not-a-python-binary")
}
