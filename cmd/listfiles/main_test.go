package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkTree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, nil, 0o644))
	}
	return root
}

func run(t *testing.T, args ...string) ([]string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(append([]string{"--env-file="}, args...))
	err := cmd.ExecuteContext(context.Background())

	var lines []string
	for _, l := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if l != "" {
			lines = append(lines, l)
		}
	}
	sort.Strings(lines)
	return lines, errOut.String(), err
}

func TestListfiles_ExcludeFlagAndPositional(t *testing.T) {
	root := mkTree(t, "a/file1.py", "a/sub/file2.py", "b/file3.txt", "build/gen.py", "dist/x.py")

	got, _, err := run(t, "--root", root, "--exclude", "sub", "build", "dist")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a", "file1.py")}, got)

	got, _, err = run(t, "--root", root, "-e", "sub,build")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a", "file1.py"), filepath.Join(root, "dist", "x.py")}, got)
}

func TestListfiles_NoExclusions(t *testing.T) {
	root := mkTree(t, "a/file1.py", "a/sub/file2.py", "b/file3.txt")

	got, _, err := run(t, "--root", root)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a", "file1.py"), filepath.Join(root, "a", "sub", "file2.py")}, got)
}

func TestListfiles_SuffixFlagAndEnv(t *testing.T) {
	root := mkTree(t, "a/file1.py", "b/file3.txt")

	got, _, err := run(t, "--root", root, "--suffix", ".txt")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "b", "file3.txt")}, got)

	t.Setenv("AGT_SUFFIX", ".txt")
	got, _, err = run(t, "--root", root)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "b", "file3.txt")}, got)

	// flag wins over env
	got, _, err = run(t, "--root", root, "--suffix", ".py")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a", "file1.py")}, got)
}

func TestListfiles_MissingRootFails(t *testing.T) {
	_, _, err := run(t, "--root", filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
