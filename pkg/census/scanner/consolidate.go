package scanner

import (
	"cmp"
	"slices"

	"github.com/jamesainslie/census/pkg/census/types"
)

// consolidate merges worker partials: files are ranked by size descending
// (path breaks ties) and cut to topK, histograms are summed, and folder
// lists are concatenated for aggregation.
func consolidate(parts []partial, topK int) ([]types.ScannedFile, []types.ScannedFolder, types.Histogram) {
	var nFiles, nFolders int
	for _, p := range parts {
		nFiles += len(p.files)
		nFolders += len(p.folders)
	}

	files := make([]types.ScannedFile, 0, nFiles)
	folders := make([]types.ScannedFolder, 0, nFolders)
	hist := types.Histogram{}

	for _, p := range parts {
		files = append(files, p.files...)
		folders = append(folders, p.folders...)
		hist.Merge(p.hist)
	}

	RankFiles(files)
	if topK > 0 && len(files) > topK {
		files = slices.Clip(files[:topK])
	}

	return files, folders, hist
}

// RankFiles sorts files by size descending, then by path.
func RankFiles(files []types.ScannedFile) {
	slices.SortFunc(files, func(a, b types.ScannedFile) int {
		if c := cmp.Compare(b.Size, a.Size); c != 0 {
			return c
		}
		return cmp.Compare(a.Path, b.Path)
	})
}
