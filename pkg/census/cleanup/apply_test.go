package cleanup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyFiles(t *testing.T) {
	dir := t.TempDir()
	keep := filepath.Join(dir, "keep.bak")
	gone := filepath.Join(dir, "gone.bak")
	require.NoError(t, os.WriteFile(keep, []byte("12345"), 0o644))

	var removed []string
	remove := func(p string) error {
		removed = append(removed, p)
		return os.Remove(p)
	}

	s := Suggestion{Kind: KindBackups, Paths: []string{keep, gone}}
	res, err := Apply(context.Background(), s, remove)
	require.NoError(t, err)

	assert.Equal(t, []string{keep}, removed)
	require.Len(t, res.Removed, 1)
	assert.Equal(t, int64(5), res.Bytes())
	assert.Empty(t, res.Failed)
	assert.NoFileExists(t, keep)
}

func TestApplyEmptyFolders(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty")
	filled := filepath.Join(dir, "filled")
	require.NoError(t, os.Mkdir(empty, 0o755))
	require.NoError(t, os.Mkdir(filled, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(filled, "x"), nil, 0o644))

	s := Suggestion{Kind: KindEmptyFolders, Paths: []string{empty, filled}}
	res, err := Apply(context.Background(), s, os.Remove)
	require.NoError(t, err)

	assert.NoDirExists(t, empty)
	assert.DirExists(t, filled)
	assert.Len(t, res.Removed, 1)
	assert.Contains(t, res.Failed, filled)
}

func TestApplyRecordsFailures(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a.tmp")
	require.NoError(t, os.WriteFile(p, nil, 0o644))

	boom := errors.New("boom")
	res, err := Apply(context.Background(), Suggestion{Kind: KindTemporary, Paths: []string{p}},
		func(string) error { return boom })
	require.NoError(t, err)
	assert.ErrorIs(t, res.Failed[p], boom)
	assert.Empty(t, res.Removed)
}

func TestApplyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Apply(ctx, Suggestion{Kind: KindBackups, Paths: []string{"/x"}}, os.Remove)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, res.Removed)
}
