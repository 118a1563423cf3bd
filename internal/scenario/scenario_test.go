package scenario

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yihonglyu/treefs/pkg/vfs"
	"github.com/yihonglyu/treefs/pkg/vfs/vfstest"
)

func TestParse(t *testing.T) {
	doc := `
ops:
  - op: mkdir
    path: /data
  - op: create
    path: /data/hello.txt
    contents: "hello"
  - op: read
    path: /data/hello.txt
    offset: 0
    length: 5
    expect: "hello"
  - op: move
    from: /data/hello.txt
    to: /data/renamed.txt
`
	ops, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, ops, 4)

	assert.Equal(t, "mkdir", ops[0].Name())
	assert.Equal(t, &MkdirOp{Path: "/data"}, ops[0])
	assert.Equal(t, &CreateOp{Path: "/data/hello.txt", Contents: "hello"}, ops[1])
	assert.Equal(t, &ReadOp{Path: "/data/hello.txt", Length: 5, Expect: "hello"}, ops[2])
	assert.Equal(t, &MoveOp{From: "/data/hello.txt", To: "/data/renamed.txt"}, ops[3])
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name:    "unknown operation",
			doc:     "ops:\n  - op: frobnicate\n    path: /x\n",
			wantErr: "unknown operation",
		},
		{
			name:    "missing op key",
			doc:     "ops:\n  - path: /x\n",
			wantErr: "missing or non-string 'op' key",
		},
		{
			name:    "unused option",
			doc:     "ops:\n  - op: mkdir\n    path: /x\n    bogus: 1\n",
			wantErr: "invalid options",
		},
		{
			name:    "not yaml",
			doc:     "{not valid yaml",
			wantErr: "failed to parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRunnerBuildsTree(t *testing.T) {
	doc := `
ops:
  - op: mkdir
    path: /a
  - op: mkdir
    path: /a/b
  - op: create
    path: /a/b/file.txt
    contents: "hello"
  - op: write
    path: /a/b/file.txt
    offset: 5
    data: " world"
  - op: read
    path: /a/b/file.txt
    offset: 0
    length: 11
    expect: "hello world"
  - op: symlink
    path: /a/link
    target: /a/b
  - op: stat
    path: /a/b/file.txt
  - op: list
    path: /a
  - op: move
    from: /a/b/file.txt
    to: /a/file.txt
  - op: remove
    path: /a/b
`
	ops, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)

	root := vfstest.NewRoot()
	r := NewRunner(root, RunnerOptions{})
	require.NoError(t, r.Run(context.Background(), ops))

	_, err = vfstest.CheckInvariants(root)
	require.NoError(t, err)

	res := vfs.Resolver{Root: root}

	pp, err := res.GetParsedPath(vfs.SplitPath("/a/file.txt"), nil)
	require.NoError(t, err)
	require.NotNil(t, pp.Child, "moved file should exist at destination")
	assert.Equal(t, vfs.KindDataFile, pp.Child.Kind())
	pp.Parent.Unlock()

	pp, err = res.GetParsedPath(vfs.SplitPath("/a/b"), nil)
	require.NoError(t, err)
	assert.Nil(t, pp.Child, "removed directory should be gone")
	pp.Parent.Unlock()

	pp, err = res.GetParsedPath(vfs.SplitPath("/a/link"), nil)
	require.NoError(t, err)
	require.NotNil(t, pp.Child)
	link := vfs.MustSymlink(pp.Child)
	assert.Equal(t, "/a/b", link.Target())
	pp.Parent.Unlock()
}

func TestRunnerReportsFailures(t *testing.T) {
	doc := `
ops:
  - op: read
    path: /missing.txt
    length: 1
  - op: mkdir
    path: /ok
`
	ops, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)

	root := vfstest.NewRoot()
	r := NewRunner(root, RunnerOptions{})
	err = r.Run(context.Background(), ops)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 operations failed")

	code, ok := vfs.CodeOf(err)
	require.True(t, ok, "underlying tree error should be preserved")
	assert.Equal(t, vfs.ErrNoSuchEntry, code)
}

func TestRunnerRejectsMoveIntoSelf(t *testing.T) {
	root := vfstest.NewRoot()
	a := vfstest.Mkdir(root, "a")
	vfstest.Mkdir(a, "b")

	ops := []Op{&MoveOp{From: "/a", To: "/a/b/a"}}
	r := NewRunner(root, RunnerOptions{})
	err := r.Run(context.Background(), ops)
	require.Error(t, err)

	code, ok := vfs.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, vfs.ErrInvalidArgument, code)

	// The tree must be unchanged.
	_, err = vfstest.CheckInvariants(root)
	require.NoError(t, err)
}

func TestRunnerConcurrentWorkers(t *testing.T) {
	// Order-independent workload: every operation targets a distinct
	// pre-created directory.
	root := vfstest.NewRoot()
	var ops []Op
	for _, name := range []string{"w", "x", "y", "z"} {
		vfstest.Mkdir(root, name)
		ops = append(ops,
			&CreateOp{Path: "/" + name + "/file.txt", Contents: name},
			&SymlinkOp{Path: "/" + name + "/link", Target: "/" + name + "/file.txt"},
		)
	}

	r := NewRunner(root, RunnerOptions{Workers: 4})
	require.NoError(t, r.Run(context.Background(), ops))

	n, err := vfstest.CheckInvariants(root)
	require.NoError(t, err)
	assert.Equal(t, 1+4+8, n, "root, four directories, eight created nodes")
}
