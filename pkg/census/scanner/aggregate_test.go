package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/census/pkg/census/types"
)

func folderMap(folders []types.ScannedFolder) map[string]types.ScannedFolder {
	m := make(map[string]types.ScannedFolder, len(folders))
	for _, f := range folders {
		m[f.Path] = f
	}
	return m
}

func TestAggregateFolders(t *testing.T) {
	direct := []types.ScannedFolder{
		{Name: "b", Path: "/a/b", Size: 300, FileCount: 2},
		{Name: "c", Path: "/a/c", Size: 300, FileCount: 1},
		{Name: "a", Path: "/a", Size: 400, FileCount: 1},
		{Name: "d", Path: "/a/b/d", Size: 50, FileCount: 1},
	}

	got := AggregateFolders(direct, "/a")
	require.Len(t, got, 4)

	assert.Equal(t, []string{"/a", "/a/b", "/a/b/d", "/a/c"},
		[]string{got[0].Path, got[1].Path, got[2].Path, got[3].Path})

	m := folderMap(got)
	assert.Equal(t, int64(50), m["/a/b/d"].Size)
	assert.Equal(t, int64(1), m["/a/b/d"].FileCount)
	assert.Equal(t, int64(350), m["/a/b"].Size)
	assert.Equal(t, int64(3), m["/a/b"].FileCount)
	assert.Equal(t, int64(300), m["/a/c"].Size)
	assert.Equal(t, int64(1), m["/a/c"].FileCount)
	assert.Equal(t, int64(1050), m["/a"].Size)
	assert.Equal(t, int64(5), m["/a"].FileCount)
}

func TestAggregateFolders_StopsAtRoot(t *testing.T) {
	direct := []types.ScannedFolder{
		{Name: "root", Path: "/x/root", Size: 10, FileCount: 1},
		{Name: "sub", Path: "/x/root/sub", Size: 5, FileCount: 1},
	}

	got := AggregateFolders(direct, "/x/root")
	m := folderMap(got)

	assert.Len(t, got, 2)
	assert.NotContains(t, m, "/x")
	assert.NotContains(t, m, "/")
	assert.Equal(t, int64(15), m["/x/root"].Size)
}

func TestAggregateFolders_CreatesMissingParents(t *testing.T) {
	direct := []types.ScannedFolder{
		{Name: "deep", Path: "/r/one/two/deep", Size: 7, FileCount: 2},
	}

	got := AggregateFolders(direct, "/r")
	m := folderMap(got)

	require.Len(t, got, 4)
	for _, p := range []string{"/r", "/r/one", "/r/one/two", "/r/one/two/deep"} {
		assert.Equal(t, int64(7), m[p].Size, p)
		assert.Equal(t, int64(2), m[p].FileCount, p)
	}
	assert.Equal(t, "two", m["/r/one/two"].Name)
}

func TestAggregateFolders_KeepsEmptyFolders(t *testing.T) {
	direct := []types.ScannedFolder{
		{Name: "r", Path: "/r"},
		{Name: "empty", Path: "/r/empty"},
	}

	got := AggregateFolders(direct, "/r")
	require.Len(t, got, 2)
	assert.Zero(t, got[1].Size)
	assert.Equal(t, "/r/empty", got[1].Path)
}

func TestAggregateFolders_MergesDuplicatesAndCleansPaths(t *testing.T) {
	direct := []types.ScannedFolder{
		{Name: "r", Path: "/r/", Size: 1, FileCount: 1},
		{Name: "r", Path: "/r", Size: 2, FileCount: 1},
		{Name: "s", Path: "/r/./s", Size: 4, FileCount: 1},
	}

	got := AggregateFolders(direct, "/r")
	m := folderMap(got)

	require.Len(t, got, 2)
	assert.Equal(t, int64(7), m["/r"].Size)
	assert.Equal(t, int64(3), m["/r"].FileCount)
}

func TestAggregateFolders_FilesystemRoot(t *testing.T) {
	direct := []types.ScannedFolder{
		{Name: "/", Path: "/", Size: 1, FileCount: 1},
		{Name: "etc", Path: "/etc", Size: 2, FileCount: 1},
	}

	m := folderMap(AggregateFolders(direct, "/"))
	assert.Equal(t, int64(3), m["/"].Size)
	assert.Equal(t, int64(2), m["/etc"].Size)
}

func TestAggregateFolders_Empty(t *testing.T) {
	assert.Empty(t, AggregateFolders(nil, "/r"))
}
