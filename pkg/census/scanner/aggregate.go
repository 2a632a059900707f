package scanner

import (
	"cmp"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jamesainslie/census/pkg/census/types"
)

// AggregateFolders turns per-directory direct totals into recursive
// subtree totals. Entries are folded into their parents deepest first;
// parents missing from the input are created. Folding stops at root and
// never crosses above it. An empty root folds up to the filesystem root.
// The result is sorted by path. Entries for the same path are merged.
func AggregateFolders(folders []types.ScannedFolder, root string) []types.ScannedFolder {
	if root != "" {
		root = filepath.Clean(root)
	}

	index := make(map[string]*types.ScannedFolder, len(folders))
	for _, f := range folders {
		p := filepath.Clean(f.Path)
		if existing, ok := index[p]; ok {
			existing.Size += f.Size
			existing.FileCount += f.FileCount
			continue
		}
		entry := f
		entry.Path = p
		index[p] = &entry
	}

	// Create every missing ancestor up front so one ordered pass suffices.
	paths := make([]string, 0, len(index))
	for p := range index {
		paths = append(paths, p)
	}
	for _, p := range paths {
		for parent, ok := parentWithin(p, root); ok; parent, ok = parentWithin(parent, root) {
			if _, exists := index[parent]; exists {
				break
			}
			index[parent] = &types.ScannedFolder{Name: filepath.Base(parent), Path: parent}
		}
	}

	ordered := make([]string, 0, len(index))
	for p := range index {
		ordered = append(ordered, p)
	}
	slices.SortFunc(ordered, func(a, b string) int {
		if c := cmp.Compare(depth(b), depth(a)); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	for _, p := range ordered {
		parent, ok := parentWithin(p, root)
		if !ok {
			continue
		}
		child := index[p]
		index[parent].Size += child.Size
		index[parent].FileCount += child.FileCount
	}

	out := make([]types.ScannedFolder, 0, len(index))
	for _, f := range index {
		out = append(out, *f)
	}
	slices.SortFunc(out, func(a, b types.ScannedFolder) int {
		return cmp.Compare(a.Path, b.Path)
	})
	return out
}

// parentWithin returns the parent of p when p is not root and the parent
// lies inside root.
func parentWithin(p, root string) (string, bool) {
	if p == root {
		return "", false
	}
	parent := filepath.Dir(p)
	if parent == p {
		return "", false
	}
	if root != "" && !within(parent, root) {
		return "", false
	}
	return parent, true
}

// within reports whether p equals root or lies beneath it.
func within(p, root string) bool {
	if p == root {
		return true
	}
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(p, prefix)
}

func depth(p string) int {
	return strings.Count(p, string(filepath.Separator))
}
