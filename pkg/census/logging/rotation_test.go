package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotationBySize(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "size.log")
	w, err := NewRotatingWriter(path, RotationConfig{MaxSize: 100, MaxBackups: 2})
	require.NoError(t, err)

	line := []byte(strings.Repeat("x", 39) + "\n")
	for range 10 {
		_, err := w.Write(line)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	assert.FileExists(t, path)
	assert.FileExists(t, path+".1")
	assert.FileExists(t, path+".2")
	assert.NoFileExists(t, path+".3")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.LessOrEqual(t, info.Size(), int64(100))
}

func TestRotationKeepsNewestBackupFirst(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "order.log")
	w, err := NewRotatingWriter(path, RotationConfig{MaxSize: 10, MaxBackups: 3})
	require.NoError(t, err)

	for _, msg := range []string{"first-----\n", "second----\n", "third-----\n"} {
		_, err := w.Write([]byte(msg))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	current, err := os.ReadFile(path)
	require.NoError(t, err)
	newest, err := os.ReadFile(path + ".1")
	require.NoError(t, err)
	oldest, err := os.ReadFile(path + ".2")
	require.NoError(t, err)

	assert.Equal(t, "third-----\n", string(current))
	assert.Equal(t, "second----\n", string(newest))
	assert.Equal(t, "first-----\n", string(oldest))
}

func TestRotationDaily(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "daily.log")
	w, err := NewRotatingWriter(path, RotationConfig{MaxSize: 1 << 20, Daily: true})
	require.NoError(t, err)

	_, err = w.Write([]byte("today\n"))
	require.NoError(t, err)

	tomorrow := time.Now().Add(24 * time.Hour)
	w.mu.Lock()
	w.nowFunc = func() time.Time { return tomorrow }
	w.mu.Unlock()

	_, err = w.Write([]byte("tomorrow\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	backup, err := os.ReadFile(path + ".1")
	require.NoError(t, err)
	assert.Equal(t, "today\n", string(backup))
}

func TestWriteAfterClose(t *testing.T) {
	t.Parallel()

	w, err := NewRotatingWriter(filepath.Join(t.TempDir(), "closed.log"), RotationConfig{})
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	_, err = w.Write([]byte("late"))
	assert.ErrorIs(t, err, os.ErrClosed)
}
