// Package types provides core data types for the census disk analyzer.
// It includes the per-file and per-folder records produced by the scan
// engine, the consolidated scan snapshot, progress events, and utility
// functions for parsing and formatting file sizes.
package types

import (
	"time"

	"github.com/jamesainslie/census/pkg/census/classify"
)

// ScannedFile is a single file retained by the scanner.
// Only files above the significance threshold are retained individually.
type ScannedFile struct {
	// Name is the base name of the file.
	Name string `json:"name"`

	// Path is the absolute path to the file.
	Path string `json:"path"`

	// Size is the file size in bytes.
	Size int64 `json:"size"`

	// Category is the classification derived from the extension.
	Category classify.Category `json:"category"`

	// Extension is the lowercase extension without the leading dot.
	Extension string `json:"extension"`
}

// ScannedFolder holds size totals for one directory.
// Workers fill it with direct totals (immediate children only); after
// aggregation it holds recursive subtree totals.
type ScannedFolder struct {
	// Name is the base name of the directory.
	Name string `json:"name"`

	// Path is the absolute path to the directory.
	Path string `json:"path"`

	// Size is the number of bytes in files under this directory.
	Size int64 `json:"size"`

	// FileCount is the number of files under this directory.
	FileCount int64 `json:"file_count"`
}

// TypeStat accumulates bytes and file count for one category.
type TypeStat struct {
	Size  int64 `json:"size"`
	Count int64 `json:"count"`
}

// Histogram maps each category to its accumulated totals.
type Histogram map[classify.Category]TypeStat

// Add records one file of the given size under category c.
func (h Histogram) Add(c classify.Category, size int64) {
	st := h[c]
	st.Size += size
	st.Count++
	h[c] = st
}

// Merge adds every entry of other into h.
func (h Histogram) Merge(other Histogram) {
	for c, st := range other {
		cur := h[c]
		cur.Size += st.Size
		cur.Count += st.Count
		h[c] = cur
	}
}

// TotalSize returns the sum of bytes across all categories.
func (h Histogram) TotalSize() int64 {
	var total int64
	for _, st := range h {
		total += st.Size
	}
	return total
}

// ScanResults is the consolidated snapshot of a completed scan.
// It is replaced wholesale at the end of each scan and never mutated after.
type ScanResults struct {
	// ID uniquely identifies this scan.
	ID string `json:"id"`

	// Root is the absolute path that was scanned.
	Root string `json:"root"`

	// StartedAt is when the scan began.
	StartedAt time.Time `json:"started_at"`

	// Elapsed is the wall-clock duration of the scan.
	Elapsed time.Duration `json:"elapsed"`

	// TotalFiles is the number of files counted.
	TotalFiles int64 `json:"total_files"`

	// TotalFolders is the number of directories visited.
	TotalFolders int64 `json:"total_folders"`

	// TotalSize is the sum of all file sizes in bytes.
	TotalSize int64 `json:"total_size"`

	// Skipped counts entries that could not be read and were skipped.
	Skipped int64 `json:"skipped"`

	// EstimatedSize is the estimate used to compute progress percentages.
	EstimatedSize int64 `json:"estimated_size"`

	// Workers is the number of scan workers that ran.
	Workers int `json:"workers"`

	// LargestFiles is sorted by size descending and bounded to the top K.
	LargestFiles []ScannedFile `json:"largest_files"`

	// Folders holds recursive totals for every visited directory, sorted by path.
	Folders []ScannedFolder `json:"folders"`

	// Distribution is the per-category histogram.
	Distribution Histogram `json:"distribution"`

	// Cancelled is set when the scan stopped before completion.
	// Cancelled results are never installed as the session snapshot.
	Cancelled bool `json:"cancelled,omitempty"`
}

// Empty reports whether no scan has populated these results.
func (r *ScanResults) Empty() bool {
	return r == nil || r.Root == ""
}

// ScanProgress reports real-time scan progress.
type ScanProgress struct {
	// FilesAnalyzed is the number of files counted so far.
	FilesAnalyzed int64 `json:"files_analyzed"`

	// TotalSize is the total bytes of all files counted so far.
	TotalSize int64 `json:"total_size"`

	// FoldersAnalyzed is the number of directories processed so far.
	FoldersAnalyzed int64 `json:"folders_analyzed"`

	// CurrentPath is the directory most recently opened by a worker.
	CurrentPath string `json:"current_path"`

	// Percentage is the estimated completion between 0 and 100.
	Percentage float64 `json:"progress_percentage"`

	// EstimatedTotalSize is the size estimate used as the denominator.
	EstimatedTotalSize int64 `json:"estimated_total_size"`

	// Done is set on the terminal event of a scan.
	Done bool `json:"done,omitempty"`
}
