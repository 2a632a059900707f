package cleanup

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournalRecordAndList(t *testing.T) {
	j, err := NewJournal(filepath.Join(t.TempDir(), "journal"))
	require.NoError(t, err)

	entries, err := j.List(0)
	require.NoError(t, err)
	assert.Empty(t, entries)

	first := &Result{Kind: KindBackups, Removed: []Removed{{Path: "/r/a.bak", Size: 10}}}
	e, err := j.Record("/r", first)
	require.NoError(t, err)
	assert.Equal(t, int64(10), e.Bytes)

	time.Sleep(10 * time.Millisecond)
	second := &Result{Kind: KindTemporary, Removed: []Removed{{Path: "/r/x.tmp", Size: 3}}}
	_, err = j.Record("/r", second)
	require.NoError(t, err)

	entries, err = j.List(0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, KindTemporary, entries[0].Kind)

	limited, err := j.List(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestJournalSkipsEmptyRuns(t *testing.T) {
	j, err := NewJournal(t.TempDir())
	require.NoError(t, err)

	e, err := j.Record("/r", &Result{Kind: KindBackups})
	require.NoError(t, err)
	assert.Nil(t, e)
}

func TestNewJournalRequiresDir(t *testing.T) {
	_, err := NewJournal("")
	assert.Error(t, err)
}
