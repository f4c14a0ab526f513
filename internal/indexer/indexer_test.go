package indexer

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamusis/codesearch/internal/index"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestMakeIndex_HelloWorld(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.txt")
	b := filepath.Join(root, "b.txt")
	writeFile(t, a, "hello world hello")
	writeFile(t, b, "world")

	ix := New(filepath.Join(t.TempDir(), "index.json"))
	require.NoError(t, ix.MakeIndex(context.Background(), root))

	words := ix.Index().Words()
	assert.Len(t, words, 2)
	assert.Equal(t, []string{a}, words["hello"])
	assert.ElementsMatch(t, []string{a, b}, words["world"])
	assert.Equal(t, Stats{FilesIndexed: 2}, ix.Stats())
}

func TestMakeIndex_IgnoresGitSubtree(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".git", "HEAD"), "secret words everywhere")
	writeFile(t, filepath.Join(root, ".git", "objects", "pack"), "more secret words")
	writeFile(t, filepath.Join(root, ".venv", "lib", "site.py"), "venv words")
	writeFile(t, filepath.Join(root, "src", "main.txt"), "visible")

	ix := New(filepath.Join(t.TempDir(), "index.json"))
	require.NoError(t, ix.MakeIndex(context.Background(), root))

	words := ix.Index().Words()
	assert.Equal(t, map[string][]string{
		"visible": {filepath.Join(root, "src", "main.txt")},
	}, words)
	assert.Equal(t, 2, ix.Stats().PathsIgnored)
}

func TestMakeIndex_IgnoreMatchesFilesByBasename(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "node_modules"), "file not dir")
	writeFile(t, filepath.Join(root, "keep.txt"), "kept")
	writeFile(t, filepath.Join(root, "nested", "node_modules", "x.txt"), "hidden")

	ix := New(filepath.Join(t.TempDir(), "index.json"), WithIgnore("node_modules"))
	require.NoError(t, ix.MakeIndex(context.Background(), root))

	words := ix.Index().Words()
	assert.Contains(t, words, "kept")
	assert.NotContains(t, words, "file")
	assert.NotContains(t, words, "hidden")
}

func TestMakeIndex_CustomIgnoreReplacesDefaults(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".git", "HEAD"), "tracked")

	ix := New(filepath.Join(t.TempDir(), "index.json"), WithIgnore("build"))
	require.NoError(t, ix.MakeIndex(context.Background(), root))

	assert.Contains(t, ix.Index().Words(), "tracked")
}

func TestMakeIndex_SkipsNonUTF8Files(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "bin.dat"), "binary \xff\xfe words")
	writeFile(t, filepath.Join(root, "ok.txt"), "fine")

	ix := New(filepath.Join(t.TempDir(), "index.json"))
	require.NoError(t, ix.MakeIndex(context.Background(), root))

	words := ix.Index().Words()
	assert.Equal(t, []string{"fine"}, keys(words))
	assert.Equal(t, 1, ix.Stats().FilesSkipped)
}

func TestMakeIndex_PathsNotCanonicalized(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "real", "a.txt"), "word")
	if err := os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "alias")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	ix := New(filepath.Join(t.TempDir(), "index.json"))
	require.NoError(t, ix.MakeIndex(context.Background(), root))

	paths, _ := ix.Index().Lookup("word")
	assert.ElementsMatch(t, []string{
		filepath.Join(root, "alias", "a.txt"),
		filepath.Join(root, "real", "a.txt"),
	}, paths)
}

func TestMakeIndex_KeepsRootSpelling(t *testing.T) {
	sep := string(filepath.Separator)
	cases := []struct {
		name string
		root string
		want string
	}{
		{"dot", ".", "." + sep + "dir" + sep + "a.txt"},
		{"dot slash", "." + sep, "." + sep + "dir" + sep + "a.txt"},
		{"trailing slash", "dir" + sep, "dir" + sep + "a.txt"},
		{"parent hop", "other" + sep + ".." + sep + "dir", "other" + sep + ".." + sep + "dir" + sep + "a.txt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			work := t.TempDir()
			writeFile(t, filepath.Join(work, "dir", "a.txt"), "word")
			require.NoError(t, os.MkdirAll(filepath.Join(work, "other"), 0o755))
			t.Chdir(work)

			ix := New(filepath.Join(t.TempDir(), "index.json"))
			require.NoError(t, ix.MakeIndex(context.Background(), tc.root))

			paths, ok := ix.Index().Lookup("word")
			require.True(t, ok)
			assert.Equal(t, []string{tc.want}, paths)
		})
	}
}

func TestJoinPath(t *testing.T) {
	sep := string(filepath.Separator)
	assert.Equal(t, "a"+sep+"b", joinPath("a", "b"))
	assert.Equal(t, "a"+sep+"b", joinPath("a"+sep, "b"))
	assert.Equal(t, "."+sep+"b", joinPath(".", "b"))
	assert.Equal(t, "b", joinPath("", "b"))
	assert.Equal(t, "x"+sep+".."+sep+"y"+sep+"b", joinPath("x"+sep+".."+sep+"y", "b"))
}

func TestMakeIndex_RootFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "single.txt")
	writeFile(t, file, "lonely")

	ix := New(filepath.Join(t.TempDir(), "index.json"))
	require.NoError(t, ix.MakeIndex(context.Background(), file))

	paths, ok := ix.Index().Lookup("lonely")
	require.True(t, ok)
	assert.Equal(t, []string{file}, paths)
}

func TestMakeIndex_MissingRootIsSkipped(t *testing.T) {
	ix := New(filepath.Join(t.TempDir(), "index.json"))
	require.NoError(t, ix.MakeIndex(context.Background(), filepath.Join(t.TempDir(), "gone")))
	assert.Equal(t, 0, ix.Index().Len())
}

func TestMakeIndex_CancelledContext(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "hello")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ix := New(filepath.Join(t.TempDir(), "index.json"))
	assert.ErrorIs(t, ix.MakeIndex(ctx, root), context.Canceled)
}

func TestSave_WritesLoadableIndex(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "hello world")
	out := filepath.Join(t.TempDir(), "index.json")

	ix := New(out)
	require.NoError(t, ix.MakeIndex(context.Background(), root))
	require.NoError(t, ix.Save())

	loaded, err := index.Load(out)
	require.NoError(t, err)
	assert.Equal(t, ix.Index().Words(), loaded.Words())
}

// memFS is an in-memory FS keyed by slash-joined paths that records every
// path it is asked about.
type memFS struct {
	dirs    map[string][]string
	files   map[string]string
	errs    map[string]error
	visited []string
}

func (m *memFS) IsDir(path string) bool {
	m.visited = append(m.visited, path)
	_, ok := m.dirs[path]
	return ok
}

func (m *memFS) ReadDir(path string) ([]string, error) {
	if err, ok := m.errs[path]; ok {
		return nil, err
	}
	return m.dirs[path], nil
}

func (m *memFS) ReadText(path string) (string, error) {
	if err, ok := m.errs[path]; ok {
		return "", err
	}
	s, ok := m.files[path]
	if !ok {
		return "", fs.ErrNotExist
	}
	return s, nil
}

func TestMakeIndex_NeverVisitsIgnoredSubtree(t *testing.T) {
	j := filepath.Join
	m := &memFS{
		dirs: map[string][]string{
			"root":                       {"docs", ".git", "build"},
			j("root", "docs"):            {"readme", "build"},
			j("root", ".git"):            {"objects"},
			j("root", ".git", "objects"): {"blob"},
			j("root", "build"):           {"out"},
			j("root", "docs", "build"):   {"deep"},
		},
		files: map[string]string{
			j("root", "docs", "readme"):          "read me",
			j("root", ".git", "objects", "blob"): "never",
			j("root", "build", "out"):            "never",
			j("root", "docs", "build", "deep"):   "never",
		},
	}

	ix := New("unused.json", WithFS(m), WithIgnore(".git", "build"))
	require.NoError(t, ix.MakeIndex(context.Background(), "root"))

	for _, p := range m.visited {
		for _, part := range strings.Split(filepath.ToSlash(p), "/") {
			assert.NotContains(t, []string{".git", "build"}, part, "visited %s", p)
		}
	}
	assert.Equal(t, []string{"me", "read"}, keys(ix.Index().Words()))
}

func TestMakeIndex_VanishedFileIsSkipped(t *testing.T) {
	m := &memFS{
		dirs:  map[string][]string{"root": {"gone.txt", "here.txt"}},
		files: map[string]string{filepath.Join("root", "here.txt"): "present"},
	}

	ix := New("unused.json", WithFS(m))
	require.NoError(t, ix.MakeIndex(context.Background(), "root"))

	assert.Equal(t, []string{"present"}, keys(ix.Index().Words()))
	assert.Equal(t, Stats{FilesIndexed: 1, FilesSkipped: 1}, ix.Stats())
}

func TestMakeIndex_ReadErrorIsFatal(t *testing.T) {
	denied := errors.New("permission denied")
	m := &memFS{
		dirs: map[string][]string{"root": {"locked.txt"}},
		errs: map[string]error{filepath.Join("root", "locked.txt"): denied},
	}

	ix := New("unused.json", WithFS(m))
	assert.ErrorIs(t, ix.MakeIndex(context.Background(), "root"), denied)
}

func TestMakeIndex_ListErrorIsFatal(t *testing.T) {
	denied := errors.New("permission denied")
	m := &memFS{
		dirs: map[string][]string{"root": {"sub"}, filepath.Join("root", "sub"): nil},
		errs: map[string]error{filepath.Join("root", "sub"): denied},
	}

	ix := New("unused.json", WithFS(m))
	assert.ErrorIs(t, ix.MakeIndex(context.Background(), "root"), denied)
}

func TestShouldIgnorePath(t *testing.T) {
	ix := New("unused.json")
	assert.True(t, ix.ShouldIgnorePath(".git"))
	assert.True(t, ix.ShouldIgnorePath(filepath.Join("a", "b", ".venv")))
	assert.False(t, ix.ShouldIgnorePath(filepath.Join(".git", "config")))
	assert.False(t, ix.ShouldIgnorePath("x.git"))
	assert.False(t, ix.ShouldIgnorePath(".gitignore"))
}

func keys(m map[string][]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
