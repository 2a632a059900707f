// Package classify maps file extensions to display categories.
//
// The extension table is built once at package initialization and is never
// mutated afterwards, so Classify is safe for concurrent use without locking.
package classify

import (
	"path/filepath"
	"strings"
)

// Category is a display label for a group of file types.
type Category string

// Known categories. Other is the fallback for unknown or empty extensions.
const (
	Video        Category = "Video Files"
	Images       Category = "Images"
	Documents    Category = "Documents"
	Archives     Category = "Archives"
	Audio        Category = "Audio Files"
	Applications Category = "Applications"
	Other        Category = "Other"
)

// groups lists the extensions (without the dot) of each category.
var groups = map[Category][]string{
	Video:        {"mp4", "avi", "mkv", "mov", "wmv", "flv", "webm", "m4v"},
	Images:       {"jpg", "jpeg", "png", "gif", "bmp", "tiff", "svg", "webp", "raw", "psd"},
	Documents:    {"pdf", "doc", "docx", "txt", "rtf", "odt", "pages"},
	Archives:     {"zip", "rar", "7z", "tar", "gz", "bz2", "xz"},
	Audio:        {"mp3", "wav", "flac", "aac", "ogg", "m4a", "wma"},
	Applications: {"exe", "app", "deb", "rpm", "dmg", "msi"},
}

// byExtension is the reverse index of groups.
var byExtension = buildIndex()

func buildIndex() map[string]Category {
	index := make(map[string]Category)
	for cat, exts := range groups {
		for _, ext := range exts {
			index[ext] = cat
		}
	}
	return index
}

// Classify returns the category for an extension.
// The lookup is case-insensitive and tolerates a leading dot.
func Classify(ext string) Category {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if cat, ok := byExtension[ext]; ok {
		return cat
	}
	return Other
}

// Categories returns every category in display order, Other last.
func Categories() []Category {
	return []Category{Video, Images, Documents, Archives, Audio, Applications, Other}
}

// ExtensionOf returns the lowercase extension of name without the dot.
// A leading dot does not start an extension, so ".bashrc" has none
// while ".config.yaml" has "yaml".
func ExtensionOf(name string) string {
	base := filepath.Base(name)
	i := strings.LastIndexByte(base, '.')
	if i <= 0 {
		return ""
	}
	return strings.ToLower(base[i+1:])
}

// palette holds the display color of each category.
var palette = map[Category]string{
	Video:        "#3b82f6",
	Images:       "#10b981",
	Documents:    "#f59e0b",
	Archives:     "#8b5cf6",
	Audio:        "#ef4444",
	Applications: "#06b6d4",
	Other:        "#84cc16",
}

// Color returns the hex display color of c.
func (c Category) Color() string {
	if col, ok := palette[c]; ok {
		return col
	}
	return palette[Other]
}
