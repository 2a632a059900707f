package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/census/pkg/census/classify"
	"github.com/jamesainslie/census/pkg/census/types"
)

func TestConsolidate(t *testing.T) {
	p1 := newPartial()
	p1.files = []types.ScannedFile{
		{Path: "/r/b", Size: 500},
		{Path: "/r/a", Size: 900},
	}
	p1.folders = []types.ScannedFolder{{Path: "/r", Size: 1400, FileCount: 2}}
	p1.hist.Add(classify.Video, 1400)

	p2 := newPartial()
	p2.files = []types.ScannedFile{
		{Path: "/r/s/z", Size: 500},
		{Path: "/r/s/y", Size: 100},
	}
	p2.folders = []types.ScannedFolder{{Path: "/r/s", Size: 600, FileCount: 2}}
	p2.hist.Add(classify.Images, 600)

	files, folders, hist := consolidate([]partial{p1, p2, newPartial()}, 3)

	require.Len(t, files, 3)
	assert.Equal(t, "/r/a", files[0].Path)
	assert.Equal(t, "/r/b", files[1].Path, "equal sizes are ordered by path")
	assert.Equal(t, "/r/s/z", files[2].Path)

	assert.Len(t, folders, 2)
	assert.Equal(t, int64(2000), hist.TotalSize())
	assert.Equal(t, int64(1), hist[classify.Images].Count)
}

func TestConsolidate_FewerThanK(t *testing.T) {
	p := newPartial()
	p.files = []types.ScannedFile{{Path: "/x", Size: 1}}

	files, _, _ := consolidate([]partial{p}, 20)
	assert.Len(t, files, 1)
}

func TestRankFiles(t *testing.T) {
	files := []types.ScannedFile{
		{Path: "/c", Size: 1},
		{Path: "/b", Size: 3},
		{Path: "/a", Size: 3},
	}
	RankFiles(files)
	assert.Equal(t, []string{"/a", "/b", "/c"}, []string{files[0].Path, files[1].Path, files[2].Path})
}
