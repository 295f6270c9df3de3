package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func relPaths(files []FileInfo) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.RelPath
	}
	return out
}

func TestScanDirectorySortsByRelPath(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "z.pdf", "z")
	writeFile(t, root, "a.pdf", "a")
	writeFile(t, root, "sub/m.pdf", "m")

	files, err := ScanDirectory(root, ScanOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.pdf", "sub/m.pdf", "z.pdf"}, relPaths(files))

	assert.Equal(t, int64(1), files[0].SizeBytes)
	assert.Equal(t, "a.pdf", files[0].Name)
	assert.False(t, files[0].Modified.IsZero())
}

func TestScanDirectoryIgnoreFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "keep.pdf", "x")
	writeFile(t, root, "skip.tmp", "x")
	writeFile(t, root, "drafts/old.pdf", "x")
	writeFile(t, root, "notes/readme.txt", "x")
	ignorePath := writeFile(t, root, ".spignore", "# temp files\n*.tmp\ndrafts/\n\nreadme.txt\n")

	files, err := ScanDirectory(root, ScanOptions{
		IgnoreFile: ignorePath,
		Exclude:    []string{ignorePath},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"keep.pdf"}, relPaths(files))
}

func TestScanDirectoryMissingIgnoreFileIsFine(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.pdf", "x")

	files, err := ScanDirectory(root, ScanOptions{
		IgnoreFile: filepath.Join(root, ".spignore"),
	})
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestScanDirectoryExcludesOutputDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.pdf", "x")
	writeFile(t, root, "out/manifest.csv", "x")
	cfgPath := writeFile(t, root, "submittal.yaml", "x")

	files, err := ScanDirectory(root, ScanOptions{
		Exclude: []string{filepath.Join(root, "out"), cfgPath},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.pdf"}, relPaths(files))
}

func TestScanDirectoryRejectsFile(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "a.pdf", "x")

	_, err := ScanDirectory(path, ScanOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestScanDirectoryMissingRoot(t *testing.T) {
	_, err := ScanDirectory(filepath.Join(t.TempDir(), "nope"), ScanOptions{})
	require.Error(t, err)
}
