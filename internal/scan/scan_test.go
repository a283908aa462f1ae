package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joss/promptdeck/internal/fault"
	"github.com/joss/promptdeck/internal/tree"
)

func makeFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", "deep"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "node_modules", "pkg"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0755))

	files := map[string]string{
		"README.md":           "# readme\n",
		"src/a.ts":            "const a = 1;\n",
		"src/deep/x.go":       "package deep\n",
		"node_modules/pkg/i":  "ignored\n",
		"build.log":           "ignored too\n",
		".hidden":             "dotfile\n",
		".gitignore":          "node_modules/\n*.log\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(root, filepath.FromSlash(name)), []byte(content), 0644))
	}
	return root
}

func TestDirectoryScan(t *testing.T) {
	root := makeFixture(t)

	node, err := Directory(root)
	require.NoError(t, err)

	paths := tree.CollectFilePaths(node)
	assert.Contains(t, paths, filepath.Join(root, "README.md"))
	assert.Contains(t, paths, filepath.Join(root, "src", "a.ts"))
	assert.Contains(t, paths, filepath.Join(root, "src", "deep", "x.go"))
}

func TestDirectoryScanHonorsGitignore(t *testing.T) {
	root := makeFixture(t)

	node, err := Directory(root)
	require.NoError(t, err)

	paths := tree.CollectFilePaths(node)
	assert.NotContains(t, paths, filepath.Join(root, "node_modules", "pkg", "i"))
	assert.NotContains(t, paths, filepath.Join(root, "build.log"))
}

func TestDirectoryScanSkipsDotfiles(t *testing.T) {
	root := makeFixture(t)

	node, err := Directory(root)
	require.NoError(t, err)

	paths := tree.CollectFilePaths(node)
	assert.NotContains(t, paths, filepath.Join(root, ".hidden"))
	for p := range paths {
		assert.NotContains(t, p, ".git"+string(filepath.Separator))
	}
}

func TestDirectoryScanOrdering(t *testing.T) {
	root := makeFixture(t)

	node, err := Directory(root)
	require.NoError(t, err)
	require.NotEmpty(t, node.Children)

	// Directories first, then files.
	sawFile := false
	for _, c := range node.Children {
		if !c.IsDir {
			sawFile = true
		} else {
			assert.False(t, sawFile, "directories must sort before files")
		}
	}
}

func TestDirectoryMissingRoot(t *testing.T) {
	_, err := Directory(filepath.Join(t.TempDir(), "absent"))
	assert.True(t, fault.IsSourceUnavailable(err))
}

func TestDirectoryRootIsFile(t *testing.T) {
	root := t.TempDir()
	p := filepath.Join(root, "f.txt")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0644))

	_, err := Directory(p)
	assert.True(t, fault.IsSourceUnavailable(err))
}

func TestReadFilesAsText(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.txt")
	require.NoError(t, os.WriteFile(a, []byte("hello\tworld\n"), 0644))

	out, err := ReadFilesAsText([]string{a}, 0)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "hello\tworld\n", out[0].Text)
}

func TestReadFilesAsTextFiltersNonASCII(t *testing.T) {
	root := t.TempDir()
	p := filepath.Join(root, "bin.dat")
	require.NoError(t, os.WriteFile(p, []byte("ok\x00\x01\xffstill ok"), 0644))

	out, err := ReadFilesAsText([]string{p}, 0)
	require.NoError(t, err)
	assert.Equal(t, "okstill ok", out[0].Text)
}

func TestReadFilesAsTextTruncates(t *testing.T) {
	root := t.TempDir()
	p := filepath.Join(root, "big.txt")
	big := make([]byte, 100)
	for i := range big {
		big[i] = 'a'
	}
	require.NoError(t, os.WriteFile(p, big, 0644))

	out, err := ReadFilesAsText([]string{p}, 10)
	require.NoError(t, err)
	assert.Len(t, out[0].Text, 10)
}

func TestReadFilesAsTextSkipsDirsAndMissing(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.txt")
	require.NoError(t, os.WriteFile(a, []byte("x"), 0644))

	out, err := ReadFilesAsText([]string{root, filepath.Join(root, "gone.txt"), a}, 0)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, a, out[0].Path)
}
