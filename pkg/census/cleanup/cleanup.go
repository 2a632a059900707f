// Package cleanup derives heuristic cleanup suggestions from scan results.
//
// Suggestions are computed from the retained largest files and the folder
// totals of a completed scan, so files below the significance threshold
// are never suggested. Nothing here hashes content; duplicates are
// candidates that share a size.
package cleanup

import (
	"cmp"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/jamesainslie/census/pkg/census/types"
)

// Kind names a suggestion category.
type Kind string

// Suggestion kinds.
const (
	KindDuplicates   Kind = "Potential Duplicate Files"
	KindBackups      Kind = "Backup Files"
	KindEmptyFolders Kind = "Empty Folders"
	KindOldLarge     Kind = "Old Large Files (>1 year)"
	KindTemporary    Kind = "Temporary Files"
)

// Heuristic thresholds.
const (
	// DuplicateMinSize is the size a file must exceed to count as a duplicate candidate.
	DuplicateMinSize = 10_000

	// OldLargeMinSize is the size a file must exceed to count as old and large.
	OldLargeMinSize = 100_000_000

	// OldAge is how long a large file must be unmodified.
	OldAge = 365 * 24 * time.Hour
)

// Kinds returns every kind in evaluation order.
func Kinds() []Kind {
	return []Kind{KindDuplicates, KindBackups, KindEmptyFolders, KindOldLarge, KindTemporary}
}

// ColorClass is the display color of a kind.
func (k Kind) ColorClass() string {
	switch k {
	case KindDuplicates:
		return "blue"
	case KindBackups:
		return "green"
	case KindEmptyFolders:
		return "yellow"
	case KindOldLarge:
		return "red"
	case KindTemporary:
		return "orange"
	default:
		return "gray"
	}
}

// Suggestion is one category of reclaimable items.
type Suggestion struct {
	Kind       Kind     `json:"type" yaml:"type"`
	Size       int64    `json:"size" yaml:"size"`
	Count      int      `json:"count" yaml:"count"`
	ColorClass string   `json:"color_class" yaml:"color_class"`
	Paths      []string `json:"paths,omitempty" yaml:"paths,omitempty"`
}

// Analyzer computes suggestions. The zero value uses os.Stat and time.Now.
type Analyzer struct {
	// Stat reads modification times for the old-large-files heuristic.
	Stat func(string) (os.FileInfo, error)

	// Now is the reference time for file age.
	Now func() time.Time
}

// Suggest runs every heuristic with a default Analyzer.
func Suggest(r *types.ScanResults) []Suggestion {
	return Analyzer{}.Suggest(r)
}

// Suggest runs every heuristic against r and returns the non-empty
// suggestions sorted by reclaimable size, largest first.
func (a Analyzer) Suggest(r *types.ScanResults) []Suggestion {
	if r.Empty() {
		return nil
	}

	var out []Suggestion
	for _, k := range Kinds() {
		s := a.evaluate(k, r)
		if s.Count > 0 {
			out = append(out, s)
		}
	}

	slices.SortStableFunc(out, func(x, y Suggestion) int {
		return cmp.Compare(y.Size, x.Size)
	})
	return out
}

// Evaluate runs a single heuristic. The result may have a zero Count.
func (a Analyzer) Evaluate(k Kind, r *types.ScanResults) Suggestion {
	if r.Empty() {
		return Suggestion{Kind: k, ColorClass: k.ColorClass()}
	}
	return a.evaluate(k, r)
}

func (a Analyzer) evaluate(k Kind, r *types.ScanResults) Suggestion {
	s := Suggestion{Kind: k, ColorClass: k.ColorClass()}

	switch k {
	case KindDuplicates:
		s.addFiles(duplicates(r.LargestFiles))
	case KindBackups:
		s.addFiles(filterFiles(r.LargestFiles, isBackup))
	case KindEmptyFolders:
		for _, f := range r.Folders {
			if f.FileCount == 0 && f.Path != r.Root {
				s.Paths = append(s.Paths, f.Path)
				s.Count++
			}
		}
	case KindOldLarge:
		s.addFiles(filterFiles(r.LargestFiles, a.isOldLarge))
	case KindTemporary:
		s.addFiles(filterFiles(r.LargestFiles, isTemporary))
	}
	return s
}

func (s *Suggestion) addFiles(files []types.ScannedFile) {
	for _, f := range files {
		s.Size += f.Size
		s.Count++
		s.Paths = append(s.Paths, f.Path)
	}
}

func filterFiles(files []types.ScannedFile, keep func(types.ScannedFile) bool) []types.ScannedFile {
	var out []types.ScannedFile
	for _, f := range files {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}

// duplicates returns every file after the first in each group of files
// sharing a size above DuplicateMinSize. The first of each group is kept.
func duplicates(files []types.ScannedFile) []types.ScannedFile {
	groups := make(map[int64][]types.ScannedFile)
	var sizes []int64
	for _, f := range files {
		if f.Size <= DuplicateMinSize {
			continue
		}
		if _, ok := groups[f.Size]; !ok {
			sizes = append(sizes, f.Size)
		}
		groups[f.Size] = append(groups[f.Size], f)
	}

	var out []types.ScannedFile
	for _, size := range sizes {
		if g := groups[size]; len(g) > 1 {
			out = append(out, g[1:]...)
		}
	}
	return out
}

func isBackup(f types.ScannedFile) bool {
	name := strings.ToLower(f.Name)
	for _, marker := range []string{"backup", "bak", "~", "copy", "temp"} {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return strings.HasSuffix(name, ".old")
}

func isTemporary(f types.ScannedFile) bool {
	name := strings.ToLower(f.Name)
	path := strings.ToLower(f.Path)
	switch {
	case strings.HasPrefix(name, "tmp"), strings.HasPrefix(name, "temp"):
		return true
	case strings.Contains(path, "/tmp/"), strings.Contains(path, "/temp/"):
		return true
	case strings.Contains(path, `\tmp\`), strings.Contains(path, `\temp\`):
		return true
	}
	return f.Extension == "tmp" || f.Extension == "temp"
}

func (a Analyzer) isOldLarge(f types.ScannedFile) bool {
	if f.Size <= OldLargeMinSize {
		return false
	}
	stat, now := a.Stat, a.Now
	if stat == nil {
		stat = os.Stat
	}
	if now == nil {
		now = time.Now
	}
	info, err := stat(f.Path)
	if err != nil {
		return false
	}
	return now().Sub(info.ModTime()) > OldAge
}
