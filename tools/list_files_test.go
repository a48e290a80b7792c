package tools_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petasbytes/dungeon-tools/internal/safety"
	"github.com/petasbytes/dungeon-tools/tools"
)

func callListFiles(t *testing.T, in tools.ListFilesInput) ([]string, error) {
	t.Helper()
	b, _ := json.Marshal(in)
	out, err := tools.ListFilesDefinition.Function(context.Background(), nil, b)
	if err != nil {
		return nil, err
	}
	var got []string
	require.NoError(t, json.Unmarshal([]byte(out), &got), "raw=%q", out)
	return got, nil
}

func TestListFiles_RecursiveWithExclusions(t *testing.T) {
	touch(t, "a/file1.py", "a/sub/file2.py", "b/file3.txt")

	got, err := callListFiles(t, tools.ListFilesInput{Path: rel(t), Exclude: []string{"sub"}})
	require.NoError(t, err)
	assert.Equal(t, []string{t.Name() + "/a/file1.py"}, got)

	got, err = callListFiles(t, tools.ListFilesInput{Path: rel(t)})
	require.NoError(t, err)
	assert.Equal(t, []string{t.Name() + "/a/file1.py", t.Name() + "/a/sub/file2.py"}, got)
}

func TestListFiles_Suffix(t *testing.T) {
	touch(t, "a/file1.py", "b/file3.txt")

	got, err := callListFiles(t, tools.ListFilesInput{Path: rel(t), Suffix: ".txt"})
	require.NoError(t, err)
	assert.Equal(t, []string{t.Name() + "/b/file3.txt"}, got)
}

func TestListFiles_InvalidPath_Error(t *testing.T) {
	_, err := callListFiles(t, tools.ListFilesInput{Path: rel(t, "does", "not", "exist")})
	assert.Error(t, err)

	_, err = callListFiles(t, tools.ListFilesInput{Path: "../outside"})
	assert.Equal(t, safety.CodeOutsideSandbox, safety.CodeOf(err))
}

func TestListFiles_BadJSON(t *testing.T) {
	_, err := tools.ListFilesDefinition.Function(context.Background(), nil, json.RawMessage(`{"page":"one"}`))
	assert.Equal(t, safety.CodeInvalidArgument, safety.CodeOf(err))
}

func TestListFiles_Paging(t *testing.T) {
	touch(t, "c.py", "a.py", "b.py", "z.py", "m.py")
	p := func(n string) string { return t.Name() + "/" + n }

	got, err := callListFiles(t, tools.ListFilesInput{Path: rel(t), Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{p("a.py"), p("b.py")}, got)

	// sorted: a,b,c,m,z; pages are [a,b], [c,m], [z]
	got, err = callListFiles(t, tools.ListFilesInput{Path: rel(t), Page: 3, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{p("z.py")}, got)

	b, _ := json.Marshal(tools.ListFilesInput{Path: rel(t), Page: 4, PageSize: 2})
	out, err := tools.ListFilesDefinition.Function(context.Background(), nil, b)
	require.NoError(t, err)
	assert.Equal(t, "[]", out)
}

func TestListFiles_HugePageIsEmpty(t *testing.T) {
	touch(t, "a.py", "b.py")

	for _, page := range []int{2, 144115188075855873, int(^uint(0) >> 1)} {
		b, _ := json.Marshal(tools.ListFilesInput{Path: rel(t), Page: page, PageSize: 200})
		var out string
		var err error
		require.NotPanics(t, func() {
			out, err = tools.ListFilesDefinition.Function(context.Background(), nil, b)
		}, "page=%d", page)
		require.NoError(t, err)
		assert.Equal(t, "[]", out, "page=%d", page)
	}

	b, _ := json.Marshal(tools.ListFilesInput{Path: rel(t), Page: 1, PageSize: int(^uint(0) >> 1)})
	out, err := tools.ListFilesDefinition.Function(context.Background(), nil, b)
	require.NoError(t, err)
	assert.Equal(t, `["`+t.Name()+`/a.py","`+t.Name()+`/b.py"]`, out)
}
