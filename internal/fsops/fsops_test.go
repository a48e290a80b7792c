package fsops_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petasbytes/dungeon-tools/internal/fsops"
	"github.com/petasbytes/dungeon-tools/internal/lister"
	"github.com/petasbytes/dungeon-tools/internal/safety"
)

// Shared sandbox root for all fsops tests
var sharedDir string

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "fsops-tests-")
	if err != nil {
		panic(err)
	}
	if r, err := filepath.EvalSymlinks(dir); err == nil {
		dir = r
	}
	// Set env once so fsops caches the same sandbox for all tests
	_ = os.Setenv("AGT_READ_ROOT", dir)
	sharedDir = dir

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func rel(t *testing.T, elems ...string) string {
	return filepath.Join(append([]string{t.Name()}, elems...)...)
}

func write(t *testing.T, elems ...string) {
	t.Helper()
	p := filepath.Join(sharedDir, rel(t, elems...))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
}

func TestListFiles_RelativeToSandbox(t *testing.T) {
	write(t, "a", "file1.py")
	write(t, "a", "sub", "file2.py")
	write(t, "b", "file3.txt")

	got, err := fsops.ListFiles(context.Background(), rel(t), lister.Options{Exclude: []string{"sub"}})
	require.NoError(t, err)
	assert.Equal(t, []string{t.Name() + "/a/file1.py"}, got)
}

func TestListFiles_SuffixAndEmptyResult(t *testing.T) {
	write(t, "x.txt")

	got, err := fsops.ListFiles(context.Background(), rel(t), lister.Options{})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got, err = fsops.ListFiles(context.Background(), rel(t), lister.Options{Suffix: ".txt"})
	require.NoError(t, err)
	assert.Equal(t, []string{t.Name() + "/x.txt"}, got)
}

func TestListFiles_NotADirectory(t *testing.T) {
	write(t, "f.py")

	_, err := fsops.ListFiles(context.Background(), rel(t, "f.py"), lister.Options{})
	assert.Equal(t, safety.CodeNotADir, safety.CodeOf(err))
}

func TestListFiles_MissingDirectory(t *testing.T) {
	_, err := fsops.ListFiles(context.Background(), rel(t, "does", "not", "exist"), lister.Options{})
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestListFiles_Traversal(t *testing.T) {
	_, err := fsops.ListFiles(context.Background(), "../../x", lister.Options{})
	assert.Equal(t, safety.CodeOutsideSandbox, safety.CodeOf(err))
}

func TestListFilesIn_SkipsDeniedDirs(t *testing.T) {
	root := t.TempDir()
	sb, err := safety.NewSandbox(root, nil)
	require.NoError(t, err)
	for _, p := range []string{".git/hooks/pre.py", ".agent/x.py", "keep.py", "pkg/.git/inner.py"} {
		full := filepath.Join(sb.Root(), filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, nil, 0o644))
	}

	got, err := fsops.ListFilesIn(context.Background(), sb, "", lister.Options{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"keep.py", "pkg/.git/inner.py"}, got)

	_, err = fsops.ListFilesIn(context.Background(), sb, ".git", lister.Options{})
	assert.Equal(t, safety.CodeDeniedRead, safety.CodeOf(err))
}

func TestListFilesIn_DeniedDirNotRead(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits not enforced here")
	}
	root := t.TempDir()
	sb, err := safety.NewSandbox(root, nil)
	require.NoError(t, err)
	objects := filepath.Join(sb.Root(), ".git", "objects")
	require.NoError(t, os.MkdirAll(objects, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sb.Root(), "keep.py"), nil, 0o644))
	require.NoError(t, os.Chmod(objects, 0o000))
	t.Cleanup(func() { _ = os.Chmod(objects, 0o755) })

	got, err := fsops.ListFilesIn(context.Background(), sb, "", lister.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"keep.py"}, got)
}
