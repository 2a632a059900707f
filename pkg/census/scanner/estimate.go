package scanner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"
)

// Sampling bounds for the sampled estimator.
const (
	sampleMaxDirs    = 20
	sampleMaxEntries = 50
	sampleMaxQueue   = 100

	// denseDirFiles is the file count above which a sampled directory's
	// bytes are scaled by denseDirFactor.
	denseDirFiles  = 10
	denseDirFactor = 3

	// MinEstimate is the floor for every estimate.
	MinEstimate int64 = 1_000_000
)

// EstimateSize returns a rough size of the tree under root by sampling
// at most 20 directories breadth-first and 50 entries in each. It is only
// a progress denominator and may be arbitrarily wrong. The result is never
// below MinEstimate. A tripped token ends sampling early.
func EstimateSize(root string, tok *Token) int64 {
	queue := []string{root}
	var total int64
	sampled := 0

	for len(queue) > 0 && sampled < sampleMaxDirs {
		if tok != nil && tok.Cancelled() {
			break
		}
		dir := queue[0]
		queue = queue[1:]

		bytes, files, subdirs, ok := sampleDir(dir)
		if !ok {
			continue
		}
		for _, sub := range subdirs {
			if len(queue) >= sampleMaxQueue {
				break
			}
			queue = append(queue, sub)
		}

		if files > denseDirFiles {
			bytes *= denseDirFactor
		}
		total += bytes
		sampled++
	}

	return max(total, MinEstimate)
}

// sampleDir reads up to sampleMaxEntries entries of dir.
func sampleDir(dir string) (bytes int64, files int, subdirs []string, ok bool) {
	f, err := os.Open(dir)
	if err != nil {
		return 0, 0, nil, false
	}
	defer f.Close()

	entries, err := f.ReadDir(sampleMaxEntries)
	if err != nil && len(entries) == 0 {
		return 0, 0, nil, false
	}

	for _, entry := range entries {
		switch {
		case entry.Type().IsRegular():
			info, err := entry.Info()
			if err != nil {
				continue
			}
			bytes += info.Size()
			files++
		case entry.IsDir():
			subdirs = append(subdirs, filepath.Join(dir, entry.Name()))
		}
	}
	return bytes, files, subdirs, true
}

// EstimateExact sums every regular file under root with a parallel walk
// and counts the directories it visits, root included. Unreadable entries
// are ignored. It returns ctx.Err() if ctx ends first.
func EstimateExact(ctx context.Context, root string) (int64, int, error) {
	var total, dirs atomic.Int64
	root = filepath.Clean(root)

	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if filepath.Clean(path) != root {
				dirs.Add(1)
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		total.Add(info.Size())
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	return max(total.Load(), MinEstimate), int(dirs.Load()) + 1, nil
}
