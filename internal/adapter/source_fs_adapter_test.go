package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/goistanbul/internal/model"
)

func TestLocalSourceFSAdapter_Walk(t *testing.T) {
	t.Run("non recursive skips nested files", func(t *testing.T) {
		adapter := NewLocalSourceFSAdapter()

		root := t.TempDir()
		writeTestFile(t, filepath.Join(root, "main.go"), "package main\n")

		nestedDir := filepath.Join(root, "nested")
		mustMkdir(t, nestedDir)
		writeTestFile(t, filepath.Join(nestedDir, "child.go"), "package nested\n")

		var visited []string
		err := adapter.Walk(m.Path(root), false, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			visited = append(visited, path)
			return nil
		})
		require.NoError(t, err)

		for _, forbidden := range []string{nestedDir, filepath.Join(nestedDir, "child.go")} {
			assert.Falsef(t, containsPath(visited, forbidden), "Walk() unexpectedly visited %s when recursive is false", forbidden)
		}

		assert.True(t, containsPath(visited, filepath.Join(root, "main.go")), "Walk() did not visit top-level file")
	})

	t.Run("recursive visits nested files", func(t *testing.T) {
		adapter := NewLocalSourceFSAdapter()

		root := t.TempDir()
		writeTestFile(t, filepath.Join(root, "main.go"), "package main\n")

		nestedDir := filepath.Join(root, "nested")
		mustMkdir(t, nestedDir)
		child := filepath.Join(nestedDir, "child.go")
		writeTestFile(t, child, "package nested\n")

		var visited []string
		err := adapter.Walk(m.Path(root), true, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			visited = append(visited, path)
			return nil
		})
		require.NoError(t, err)

		assert.True(t, containsPath(visited, child), "Walk() did not visit nested file when recursive")
	})
}

func TestLocalSourceFSAdapter_ReadFile(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	path := filepath.Join(root, "main.go")
	content := "package main\n" + "func main() {}\n"
	writeTestFile(t, path, content)

	got, err := adapter.ReadFile(m.Path(path))
	require.NoError(t, err)

	assert.Equal(t, content, string(got))
}

func TestLocalSourceFSAdapter_HashFile(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	path := filepath.Join(root, "main.go")
	content := []byte("package main\nfunc main() {}\n")
	writeTestBytes(t, path, content)

	got, err := adapter.HashFile(m.Path(path))
	require.NoError(t, err)
	assert.Equal(t, hashBytes(content), got)

	_, err = adapter.HashFile(m.Path(filepath.Join(root, "missing.go")))
	assert.Error(t, err)
}

func TestLocalSourceFSAdapter_TestFiles(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "a.go"), "package a\n")
	writeTestFile(t, filepath.Join(root, "b_test.go"), "package a\n")

	nested := filepath.Join(root, "nested")
	mustMkdir(t, nested)
	writeTestFile(t, filepath.Join(nested, "a_test.go"), "package nested\n")

	testdata := filepath.Join(root, "testdata")
	mustMkdir(t, testdata)
	writeTestFile(t, filepath.Join(testdata, "x_test.go"), "package x\n")

	files, err := adapter.TestFiles(m.Path(root))
	require.NoError(t, err)

	assert.Equal(t, []m.Path{
		m.Path(filepath.Join(root, "b_test.go")),
		m.Path(filepath.Join(nested, "a_test.go")),
	}, files)
}

func TestLocalSourceFSAdapter_FileInfo(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	path := filepath.Join(root, "main.go")
	writeTestFile(t, path, "package main\n")

	info, err := adapter.FileInfo(m.Path(path))
	require.NoError(t, err)
	assert.False(t, info.IsDir())

	_, err = adapter.FileInfo(m.Path(filepath.Join(root, "missing.go")))
	assert.Error(t, err)
}

func TestLocalSourceFSAdapter_FindProjectRoot(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "go.mod"), "module example.com/p\n")

	nested := filepath.Join(root, "pkg", "inner")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	file := filepath.Join(nested, "x.go")
	writeTestFile(t, file, "package inner\n")

	got, err := adapter.FindProjectRoot(m.Path(file))
	require.NoError(t, err)
	assert.Equal(t, m.Path(root), got)

	got, err = adapter.FindProjectRoot(m.Path(nested))
	require.NoError(t, err)
	assert.Equal(t, m.Path(root), got)
}

func TestLocalSourceFSAdapter_CreateTempDirAndRemoveAll(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	dir, err := adapter.CreateTempDir(t.TempDir(), "goistanbul-test-*")
	require.NoError(t, err)

	info, err := os.Stat(string(dir))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	require.NoError(t, adapter.RemoveAll(dir))

	_, err = os.Stat(string(dir))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalSourceFSAdapter_CopyDirAndWriteFile(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	src := t.TempDir()
	writeTestFile(t, filepath.Join(src, "main.go"), "package main\n")
	mustMkdir(t, filepath.Join(src, ".git"))
	writeTestFile(t, filepath.Join(src, ".git", "HEAD"), "ref\n")

	// destination nested in the source tree
	dst := filepath.Join(src, ".goistanbul_output")

	require.NoError(t, adapter.CopyDir(m.Path(src), m.Path(dst)))

	got := readFileBytes(t, filepath.Join(dst, "main.go"))
	assert.Equal(t, "package main\n", string(got))

	_, err := os.Stat(filepath.Join(dst, ".git"))
	assert.True(t, os.IsNotExist(err), ".git must not be copied")

	_, err = os.Stat(filepath.Join(dst, ".goistanbul_output"))
	assert.True(t, os.IsNotExist(err), "destination must not be copied into itself")

	target := m.Path(filepath.Join(dst, "deep", "file.go"))
	require.NoError(t, adapter.WriteFile(target, []byte("package deep\n"), 0o600))
	assert.Equal(t, "package deep\n", string(readFileBytes(t, string(target))))
}

func TestLocalSourceFSAdapter_PathHelpers(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	rel, err := adapter.RelPath("/a/b", "/a/b/c/d.go")
	require.NoError(t, err)
	assert.Equal(t, m.Path(filepath.Join("c", "d.go")), rel)

	assert.Equal(t, m.Path(filepath.Join("a", "b", "c.go")), adapter.JoinPath("a", "b", "c.go"))
}

func TestLocalSourceFSAdapter_Get(t *testing.T) {
	root := t.TempDir()

	mainGo := []byte("package main\n\nfunc main() {}\n")
	writeTestBytes(t, filepath.Join(root, "main.go"), mainGo)
	writeTestFile(t, filepath.Join(root, "main_test.go"), "package main\n")
	writeTestFile(t, filepath.Join(root, "notes.txt"), "not go\n")
	writeTestFile(t, filepath.Join(root, "broken.go"), "this is not go\n")

	lib := filepath.Join(root, "lib")
	mustMkdir(t, lib)
	libGo := []byte("package lib\n\nfunc Add(a, b int) int { return a + b }\n")
	writeTestBytes(t, filepath.Join(lib, "add.go"), libGo)

	testdata := filepath.Join(root, "testdata")
	mustMkdir(t, testdata)
	writeTestFile(t, filepath.Join(testdata, "fixture.go"), "package fixture\n")

	t.Run("recursive", func(t *testing.T) {
		sources, err := NewLocalSourceFSAdapter().Get([]m.Path{m.Path(root + "/...")})
		require.NoError(t, err)
		require.Len(t, sources, 2)

		mainSrc := findSource(sources, filepath.Join(root, "main.go"))
		require.NotNil(t, mainSrc)
		assert.Equal(t, "main", mainSrc.Package)
		assert.True(t, mainSrc.Main)
		assert.Equal(t, hashBytes(mainGo), mainSrc.Origin.Hash)

		libSrc := findSource(sources, filepath.Join(lib, "add.go"))
		require.NotNil(t, libSrc)
		assert.Equal(t, "lib", libSrc.Package)
		assert.False(t, libSrc.Main)
	})

	t.Run("non recursive", func(t *testing.T) {
		sources, err := NewLocalSourceFSAdapter().Get([]m.Path{m.Path(root)})
		require.NoError(t, err)
		require.Len(t, sources, 1)
		assert.Equal(t, m.Path(filepath.Join(root, "main.go")), sources[0].Origin.Path)
	})

	t.Run("single file and duplicates", func(t *testing.T) {
		file := m.Path(filepath.Join(lib, "add.go"))

		sources, err := NewLocalSourceFSAdapter().Get([]m.Path{file, file, m.Path(lib)})
		require.NoError(t, err)
		assert.Len(t, sources, 1)
	})

	t.Run("no roots", func(t *testing.T) {
		sources, err := NewLocalSourceFSAdapter().Get(nil)
		require.NoError(t, err)
		assert.Empty(t, sources)
	})

	t.Run("missing root", func(t *testing.T) {
		_, err := NewLocalSourceFSAdapter().Get([]m.Path{m.Path(filepath.Join(root, "missing"))})
		assert.Error(t, err)
	})
}

func TestParseRootPath(t *testing.T) {
	tests := []struct {
		in        string
		path      string
		recursive bool
	}{
		{"./...", ".", true},
		{"...", ".", true},
		{"./pkg/...", "./pkg", true},
		{"./pkg", "./pkg", false},
	}

	for _, tt := range tests {
		path, recursive := parseRootPath(tt.in)
		assert.Equal(t, tt.path, path, tt.in)
		assert.Equal(t, tt.recursive, recursive, tt.in)
	}
}

func writeTestFile(t *testing.T, path, contents string) {
	t.Helper()
	writeTestBytes(t, path, []byte(contents))
}

func writeTestBytes(t *testing.T, path string, contents []byte) {
	t.Helper()
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func mustMkdir(t *testing.T, path string) {
	t.Helper()
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatalf("failed to create dir %s: %v", path, err)
	}
}

func containsPath(paths []string, target string) bool {
	for _, p := range paths {
		if p == target {
			return true
		}
	}

	return false
}

func findSource(sources []m.Source, origin string) *m.Source {
	for i := range sources {
		if sources[i].Origin != nil && string(sources[i].Origin.Path) == origin {
			return &sources[i]
		}
	}

	return nil
}

func hashBytes(content []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(content))
}

func readFileBytes(t *testing.T, path string) []byte {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)

	return content
}
