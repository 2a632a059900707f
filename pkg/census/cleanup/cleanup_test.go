package cleanup

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/census/pkg/census/types"
)

type fakeInfo struct {
	os.FileInfo
	mod time.Time
}

func (f fakeInfo) ModTime() time.Time { return f.mod }

func file(path string, size int64, ext string) types.ScannedFile {
	return types.ScannedFile{Name: filepath.Base(path), Path: path, Size: size, Extension: ext}
}

func sampleResults() *types.ScanResults {
	return &types.ScanResults{
		Root: "/r",
		LargestFiles: []types.ScannedFile{
			file("/r/movie.mkv", 500_000_000, "mkv"),
			file("/r/a/movie-copy.mkv", 500_000_000, "mkv"),
			file("/r/old.iso", 200_000_000, "iso"),
			file("/r/tmp/cache.bin", 300_000, "bin"),
			file("/r/report.bak", 200_000, "bak"),
			file("/r/small1.dat", 9_000, "dat"),
			file("/r/small2.dat", 9_000, "dat"),
		},
		Folders: []types.ScannedFolder{
			{Path: "/r", FileCount: 0},
			{Path: "/r/a", FileCount: 1},
			{Path: "/r/empty", FileCount: 0},
			{Path: "/r/empty2", FileCount: 0},
		},
	}
}

func testAnalyzer(now time.Time) Analyzer {
	return Analyzer{
		Now: func() time.Time { return now },
		Stat: func(path string) (os.FileInfo, error) {
			switch path {
			case "/r/old.iso":
				return fakeInfo{mod: now.AddDate(-2, 0, 0)}, nil
			case "/r/movie.mkv", "/r/a/movie-copy.mkv":
				return fakeInfo{mod: now.AddDate(0, -1, 0)}, nil
			}
			return nil, errors.New("not found")
		},
	}
}

func TestSuggest(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	got := testAnalyzer(now).Suggest(sampleResults())

	byKind := make(map[Kind]Suggestion)
	for _, s := range got {
		byKind[s.Kind] = s
	}

	t.Run("duplicates keep the first of each size group", func(t *testing.T) {
		d := byKind[KindDuplicates]
		assert.Equal(t, 1, d.Count)
		assert.Equal(t, int64(500_000_000), d.Size)
		assert.Equal(t, []string{"/r/a/movie-copy.mkv"}, d.Paths)
		assert.Equal(t, "blue", d.ColorClass)
	})

	t.Run("backups match name markers", func(t *testing.T) {
		b := byKind[KindBackups]
		assert.Equal(t, 2, b.Count)
		assert.ElementsMatch(t, []string{"/r/a/movie-copy.mkv", "/r/report.bak"}, b.Paths)
	})

	t.Run("empty folders exclude the root", func(t *testing.T) {
		e := byKind[KindEmptyFolders]
		assert.Equal(t, 2, e.Count)
		assert.Zero(t, e.Size)
		assert.Equal(t, []string{"/r/empty", "/r/empty2"}, e.Paths)
	})

	t.Run("old large files need both size and age", func(t *testing.T) {
		o := byKind[KindOldLarge]
		assert.Equal(t, 1, o.Count)
		assert.Equal(t, []string{"/r/old.iso"}, o.Paths)
	})

	t.Run("temporary files match tmp directories", func(t *testing.T) {
		tmp := byKind[KindTemporary]
		assert.Equal(t, 1, tmp.Count)
		assert.Equal(t, []string{"/r/tmp/cache.bin"}, tmp.Paths)
	})

	t.Run("sorted by size descending", func(t *testing.T) {
		require.Len(t, got, 5)
		for i := 1; i < len(got); i++ {
			assert.GreaterOrEqual(t, got[i-1].Size, got[i].Size)
		}
	})
}

func TestSuggestEmptyResults(t *testing.T) {
	assert.Empty(t, Suggest(nil))
	assert.Empty(t, Suggest(&types.ScanResults{}))
}

func TestSuggestOmitsEmptyKinds(t *testing.T) {
	r := &types.ScanResults{
		Root:         "/r",
		LargestFiles: []types.ScannedFile{file("/r/plain.txt", 1_000_000, "txt")},
		Folders:      []types.ScannedFolder{{Path: "/r", FileCount: 1}},
	}
	assert.Empty(t, Suggest(r))
}

func TestIsTemporary(t *testing.T) {
	tests := []struct {
		name string
		file types.ScannedFile
		want bool
	}{
		{"tmp prefix", types.ScannedFile{Name: "tmp123", Path: "/x/tmp123"}, true},
		{"temp prefix", types.ScannedFile{Name: "TempFile.dat", Path: "/x/TempFile.dat"}, true},
		{"temp directory", types.ScannedFile{Name: "a.bin", Path: "/x/Temp/a.bin"}, true},
		{"windows temp directory", types.ScannedFile{Name: "a.bin", Path: `C:\temp\a.bin`}, true},
		{"tmp extension", types.ScannedFile{Name: "a.tmp", Path: "/x/a.tmp", Extension: "tmp"}, true},
		{"regular file", types.ScannedFile{Name: "attempt.txt", Path: "/x/attempt.txt", Extension: "txt"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isTemporary(tt.file))
		})
	}
}

func TestIsBackup(t *testing.T) {
	for _, name := range []string{"db.backup", "notes.BAK", "file~", "Copy of x", "config.old"} {
		assert.True(t, isBackup(types.ScannedFile{Name: name}), name)
	}
	assert.False(t, isBackup(types.ScannedFile{Name: "photo.jpg"}))
}

func TestKindColorClass(t *testing.T) {
	assert.Equal(t, "red", KindOldLarge.ColorClass())
	assert.Equal(t, "gray", Kind("unknown").ColorClass())
}
