package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/census/pkg/census/classify"
	"github.com/jamesainslie/census/pkg/census/history"
	"github.com/jamesainslie/census/pkg/census/types"
)

func withResults(s *Session, r *types.ScanResults) *Session {
	s.results = r
	return s
}

func fixture() *types.ScanResults {
	return &types.ScanResults{
		Root:         "/r",
		StartedAt:    time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC),
		Elapsed:      2 * time.Second,
		TotalFiles:   10,
		TotalFolders: 4,
		TotalSize:    1000,
		LargestFiles: []types.ScannedFile{
			{Name: "big.mkv", Path: "/r/v/big.mkv", Size: 600, Category: classify.Video, Extension: "mkv"},
			{Name: "b.zip", Path: "/r/b.zip", Size: 200, Category: classify.Archives, Extension: "zip"},
		},
		Folders: []types.ScannedFolder{
			{Name: "r", Path: "/r", Size: 1000, FileCount: 10},
			{Name: "a", Path: "/r/a", Size: 100, FileCount: 5},
			{Name: "e", Path: "/r/e", Size: 0, FileCount: 0},
			{Name: "v", Path: "/r/v", Size: 600, FileCount: 1},
		},
		Distribution: types.Histogram{
			classify.Video:        {Size: 600 * bytesPerGB / 1000, Count: 1},
			classify.Archives:     {Size: 200 * bytesPerGB / 1000, Count: 1},
			classify.Documents:    {Size: 100 * bytesPerGB / 1000, Count: 4},
			classify.Images:       {Size: 50 * bytesPerGB / 1000, Count: 2},
			classify.Audio:        {Size: 30 * bytesPerGB / 1000, Count: 1},
			classify.Applications: {Size: 15 * bytesPerGB / 1000, Count: 1},
			classify.Other:        {Size: 5 * bytesPerGB / 1000, Count: 1},
		},
	}
}

func TestSummary(t *testing.T) {
	s := withResults(New(Config{FreeSpace: func(string) (int64, error) { return 3000, nil }}), fixture())

	sum := s.Summary()
	assert.Equal(t, "/r", sum.Root)
	assert.Equal(t, int64(10), sum.TotalFiles)
	assert.Equal(t, int64(3000), sum.FreeSpace)
	assert.InDelta(t, 25.0, sum.UsedPercentage, 0.001)
	assert.Equal(t, 2*time.Second, sum.ScanTime)
}

func TestSummary_FreeSpaceUnavailable(t *testing.T) {
	s := withResults(New(Config{FreeSpace: func(string) (int64, error) { return 0, errors.New("nope") }}), fixture())
	sum := s.Summary()
	assert.Zero(t, sum.FreeSpace)
	assert.InDelta(t, 100.0, sum.UsedPercentage, 0.001)
}

func TestSummary_Empty(t *testing.T) {
	s := New(Config{})
	assert.Equal(t, Summary{}, s.Summary())
}

func TestLargestFiles(t *testing.T) {
	s := withResults(New(Config{}), fixture())
	items := s.LargestFiles()
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].ID)
	assert.Equal(t, "/r/v", items[0].Dir)
	assert.Equal(t, classify.Video, items[0].Category)
}

func TestFolders(t *testing.T) {
	s := withResults(New(Config{}), fixture())

	all := s.Folders()
	require.Len(t, all, 4)
	assert.Equal(t, "/r", all[0].Path)
	assert.InDelta(t, 100.0, all[0].Percentage, 0.001)

	top := s.TopFolders(2)
	require.Len(t, top, 2)
	assert.Equal(t, "/r/v", top[0].Path)
	assert.InDelta(t, 60.0, top[0].Percentage, 0.001)
	assert.Equal(t, "/r/a", top[1].Path)

	assert.Len(t, s.TopFolders(0), 3, "root excluded")
}

func TestFileTypeDistribution(t *testing.T) {
	s := withResults(New(Config{}), fixture())
	items := s.FileTypeDistribution()
	require.Len(t, items, 7)
	assert.Equal(t, classify.Video, items[0].Category)
	assert.Equal(t, classify.Video.Color(), items[0].Color)
	for i := 1; i < len(items); i++ {
		assert.GreaterOrEqual(t, items[i-1].Size, items[i].Size)
	}
}

func TestPieChart(t *testing.T) {
	s := withResults(New(Config{}), fixture())
	pie := s.PieChart()
	require.Len(t, pie, PieSlices)
	assert.Equal(t, string(classify.Video), pie[0].Name)
	assert.InDelta(t, 0.6, pie[0].Value, 1e-9)
}

func TestDoughnutChart(t *testing.T) {
	s := withResults(New(Config{}), fixture())
	d := s.DoughnutChart()
	require.Len(t, d, DoughnutSlices+1)
	others := d[len(d)-1]
	assert.Equal(t, OthersLabel, others.Name)
	assert.Equal(t, OthersColor, others.Color)
	assert.InDelta(t, 0.1, others.Value, 1e-9)
}

func TestDoughnutChart_FewCategories(t *testing.T) {
	r := fixture()
	r.Distribution = types.Histogram{classify.Video: {Size: bytesPerGB, Count: 1}}
	s := withResults(New(Config{}), r)
	assert.Equal(t, []Slice{{Name: string(classify.Video), Value: 1, Color: classify.Video.Color()}}, s.DoughnutChart())
}

func TestCleanupSuggestions(t *testing.T) {
	s := withResults(New(Config{}), fixture())
	suggestions := s.CleanupSuggestions()
	require.Len(t, suggestions, 1)
	assert.Equal(t, "/r/e", suggestions[0].Paths[0])
}

func TestGrowth(t *testing.T) {
	ctx := context.Background()

	empty, err := New(Config{}).Growth(ctx, history.Period7D)
	require.NoError(t, err)
	assert.Empty(t, empty)

	single, err := withResults(New(Config{}), fixture()).Growth(ctx, history.Period7D)
	require.NoError(t, err)
	require.Len(t, single, 1)
	assert.Equal(t, int64(1000), single[0].Size)

	backed, err := withResults(New(Config{History: &fakeHistory{}}), fixture()).Growth(ctx, history.Period30D)
	require.NoError(t, err)
	require.Len(t, backed, 1)
	assert.Equal(t, "/r", backed[0].Label)
}

func TestFolderFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "small.txt"), 1)
	writeFile(t, filepath.Join(dir, "large.MP4"), 300)
	writeFile(t, filepath.Join(dir, "mid.png"), 20)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	writeFile(t, filepath.Join(dir, "sub", "ignored.bin"), 1000)

	items, err := New(Config{}).FolderFiles(dir)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "large.MP4", items[0].Name)
	assert.Equal(t, "mp4", items[0].Extension)
	assert.Equal(t, classify.Video, items[0].Category)
	assert.Equal(t, 1, items[0].ID)
	assert.Equal(t, "small.txt", items[2].Name)
}

func TestFolderFiles_Unreadable(t *testing.T) {
	_, err := New(Config{}).FolderFiles(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, types.ErrCannotReadDirectory)
}
