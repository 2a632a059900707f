package session

import (
	"cmp"
	"context"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/jamesainslie/census/pkg/census/classify"
	"github.com/jamesainslie/census/pkg/census/cleanup"
	"github.com/jamesainslie/census/pkg/census/history"
	"github.com/jamesainslie/census/pkg/census/logging"
	"github.com/jamesainslie/census/pkg/census/types"
)

// Chart constants.
const (
	// PieSlices bounds the pie chart series.
	PieSlices = 6

	// DoughnutSlices is the number of categories shown before the rest
	// are folded into one aggregate slice.
	DoughnutSlices = 3

	// OthersLabel names the aggregate doughnut slice. It differs from the
	// Other category so the two are never confused.
	OthersLabel = "Others"

	// OthersColor is the color of the aggregate doughnut slice.
	OthersColor = "#6b7280"
)

const bytesPerGB = 1_000_000_000

// Summary is the headline view of the current results.
type Summary struct {
	Root           string        `json:"scan_path" yaml:"scan_path"`
	TotalFiles     int64         `json:"total_files" yaml:"total_files"`
	TotalFolders   int64         `json:"total_folders" yaml:"total_folders"`
	TotalSize      int64         `json:"total_size" yaml:"total_size"`
	FreeSpace      int64         `json:"free_space" yaml:"free_space"`
	UsedPercentage float64       `json:"used_percentage" yaml:"used_percentage"`
	ScanTime       time.Duration `json:"scan_time" yaml:"scan_time"`
}

// FileItem is one row of a file listing. IDs are 1-based positions.
type FileItem struct {
	ID        int               `json:"id" yaml:"id"`
	Name      string            `json:"name" yaml:"name"`
	Dir       string            `json:"dir" yaml:"dir"`
	Path      string            `json:"path" yaml:"path"`
	Size      int64             `json:"size" yaml:"size"`
	Category  classify.Category `json:"type" yaml:"type"`
	Extension string            `json:"extension" yaml:"extension"`
}

// FolderItem is one row of a folder listing.
type FolderItem struct {
	ID         int     `json:"id" yaml:"id"`
	Name       string  `json:"name" yaml:"name"`
	Path       string  `json:"path" yaml:"path"`
	Size       int64   `json:"size" yaml:"size"`
	FileCount  int64   `json:"file_count" yaml:"file_count"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
}

// TypeItem is one category of the type distribution.
type TypeItem struct {
	Category classify.Category `json:"type" yaml:"type"`
	Size     int64             `json:"size" yaml:"size"`
	Count    int64             `json:"count" yaml:"count"`
	Color    string            `json:"color" yaml:"color"`
}

// Slice is one chart segment; Value is in decimal gigabytes.
type Slice struct {
	Name  string  `json:"name" yaml:"name"`
	Value float64 `json:"value" yaml:"value"`
	Color string  `json:"color" yaml:"color"`
}

// Summary returns totals plus free space on the scanned volume. Used
// percentage is total / (total + free).
func (s *Session) Summary() Summary {
	r := s.Results()
	sum := Summary{
		Root:         r.Root,
		TotalFiles:   r.TotalFiles,
		TotalFolders: r.TotalFolders,
		TotalSize:    r.TotalSize,
		ScanTime:     r.Elapsed,
	}
	if r.Empty() {
		return sum
	}

	free, err := s.cfg.FreeSpace(r.Root)
	if err != nil {
		logging.Get("session").Debug("free space unavailable", "root", r.Root, "error", err)
	}
	sum.FreeSpace = free
	sum.UsedPercentage = types.Percent(r.TotalSize, r.TotalSize+free)
	return sum
}

// LargestFiles lists the retained largest files, largest first.
func (s *Session) LargestFiles() []FileItem {
	r := s.Results()
	items := make([]FileItem, 0, len(r.LargestFiles))
	for i, f := range r.LargestFiles {
		items = append(items, FileItem{
			ID:        i + 1,
			Name:      f.Name,
			Dir:       filepath.Dir(f.Path),
			Path:      f.Path,
			Size:      f.Size,
			Category:  f.Category,
			Extension: f.Extension,
		})
	}
	return items
}

// Folders lists every visited folder with recursive totals, sorted by path.
func (s *Session) Folders() []FolderItem {
	r := s.Results()
	return folderItems(r.Folders, r.TotalSize)
}

// TopFolders lists the n largest folders below the root, largest first.
// n <= 0 returns all of them.
func (s *Session) TopFolders(n int) []FolderItem {
	r := s.Results()

	folders := make([]types.ScannedFolder, 0, len(r.Folders))
	for _, f := range r.Folders {
		if f.Path != r.Root {
			folders = append(folders, f)
		}
	}
	slices.SortStableFunc(folders, func(a, b types.ScannedFolder) int {
		return cmp.Compare(b.Size, a.Size)
	})
	if n > 0 && len(folders) > n {
		folders = folders[:n]
	}
	return folderItems(folders, r.TotalSize)
}

func folderItems(folders []types.ScannedFolder, total int64) []FolderItem {
	items := make([]FolderItem, 0, len(folders))
	for i, f := range folders {
		items = append(items, FolderItem{
			ID:         i + 1,
			Name:       f.Name,
			Path:       f.Path,
			Size:       f.Size,
			FileCount:  f.FileCount,
			Percentage: types.Percent(f.Size, total),
		})
	}
	return items
}

// FileTypeDistribution lists categories with at least one file, largest first.
func (s *Session) FileTypeDistribution() []TypeItem {
	return distribution(s.Results().Distribution)
}

func distribution(h types.Histogram) []TypeItem {
	var items []TypeItem
	for _, c := range classify.Categories() {
		st, ok := h[c]
		if !ok || st.Count == 0 {
			continue
		}
		items = append(items, TypeItem{Category: c, Size: st.Size, Count: st.Count, Color: c.Color()})
	}
	slices.SortStableFunc(items, func(a, b TypeItem) int {
		return cmp.Compare(b.Size, a.Size)
	})
	return items
}

// PieChart returns up to PieSlices non-empty categories in gigabytes.
func (s *Session) PieChart() []Slice {
	series := chartSlices(s.Results().Distribution)
	if len(series) > PieSlices {
		series = series[:PieSlices]
	}
	return series
}

// DoughnutChart returns the largest DoughnutSlices categories followed by
// one OthersLabel slice summing the rest.
func (s *Session) DoughnutChart() []Slice {
	series := chartSlices(s.Results().Distribution)
	if len(series) <= DoughnutSlices {
		return series
	}

	var rest float64
	for _, sl := range series[DoughnutSlices:] {
		rest += sl.Value
	}
	series = series[:DoughnutSlices]
	if rest > 0 {
		series = append(series, Slice{Name: OthersLabel, Value: rest, Color: OthersColor})
	}
	return series
}

func chartSlices(h types.Histogram) []Slice {
	var out []Slice
	for _, item := range distribution(h) {
		if item.Size <= 0 {
			continue
		}
		out = append(out, Slice{
			Name:  string(item.Category),
			Value: float64(item.Size) / bytesPerGB,
			Color: item.Color,
		})
	}
	return out
}

// CleanupSuggestions runs the cleanup heuristics over the current results.
func (s *Session) CleanupSuggestions() []cleanup.Suggestion {
	return cleanup.Suggest(s.Results())
}

// Growth returns the recorded size series of the current root. Without
// a history store the series is the current scan alone.
func (s *Session) Growth(ctx context.Context, period history.Period) ([]history.Point, error) {
	r := s.Results()
	if r.Empty() {
		return nil, nil
	}
	if s.cfg.History == nil {
		return []history.Point{{
			Label: r.StartedAt.Format("Jan 02"),
			At:    r.StartedAt,
			Size:  r.TotalSize,
			Files: r.TotalFiles,
		}}, nil
	}
	return s.cfg.History.Growth(ctx, r.Root, period)
}

// FolderFiles lists the immediate regular files of dir, largest first.
// It reads the filesystem directly and does not depend on scan state.
func (s *Session) FolderFiles(dir string) ([]FileItem, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, types.CauseError(types.ErrCannotReadDirectory, dir, err)
	}

	var items []FileItem
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, types.CauseError(types.ErrCannotGetMetadata, filepath.Join(dir, e.Name()), err)
		}
		ext := classify.ExtensionOf(e.Name())
		items = append(items, FileItem{
			Name:      e.Name(),
			Dir:       dir,
			Path:      filepath.Join(dir, e.Name()),
			Size:      info.Size(),
			Category:  classify.Classify(ext),
			Extension: ext,
		})
	}

	slices.SortStableFunc(items, func(a, b FileItem) int {
		if c := cmp.Compare(b.Size, a.Size); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	for i := range items {
		items[i].ID = i + 1
	}
	return items, nil
}
