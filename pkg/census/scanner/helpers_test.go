package scanner

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeFile creates path with the given logical size, creating parents.
func writeFile(t testing.TB, path string, size int64) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(size))
	require.NoError(t, f.Close())
}

// mkdir creates an empty directory tree.
func mkdir(t testing.TB, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(path, 0o755))
}

// exampleTree builds the reference tree used across tests and returns its root:
//
//	a/top.txt      400
//	a/b/one.mp4    100
//	a/b/two.jpg    200
//	a/b/d/x.pdf     50
//	a/c/y.zip      300
func exampleTree(t testing.TB) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "a")
	writeFile(t, filepath.Join(root, "top.txt"), 400)
	writeFile(t, filepath.Join(root, "b", "one.mp4"), 100)
	writeFile(t, filepath.Join(root, "b", "two.jpg"), 200)
	writeFile(t, filepath.Join(root, "b", "d", "x.pdf"), 50)
	writeFile(t, filepath.Join(root, "c", "y.zip"), 300)
	return root
}

// wideTree builds a tree with many directories and mixed file sizes.
func wideTree(t testing.TB) string {
	t.Helper()
	root := t.TempDir()
	exts := []string{"mp4", "png", "pdf", "zip", "mp3", "exe", "go"}
	for i := range 12 {
		dir := filepath.Join(root, "d"+strconv.Itoa(i))
		for j := range 15 {
			sub := filepath.Join(dir, "s"+strconv.Itoa(j%3))
			size := int64((i+1)*(j+1)) * 1024
			writeFile(t, filepath.Join(sub, "f"+strconv.Itoa(j)+"."+exts[(i+j)%len(exts)]), size)
		}
	}
	mkdir(t, filepath.Join(root, "empty", "deeper"))
	return root
}
