package scanner

import (
	"path/filepath"

	"github.com/jamesainslie/census/pkg/census/classify"
	"github.com/jamesainslie/census/pkg/census/logging"
	"github.com/jamesainslie/census/pkg/census/types"
)

// Emission throttling for each worker.
const (
	// emitEveryFiles forces an event after this many files.
	emitEveryFiles = 500

	// emitMinDelta forces an event when the percentage moved this far.
	emitMinDelta = 1.0

	// maxRunningPercent caps the percentage until the scan completes.
	maxRunningPercent = 99.9
)

// partial is one worker's private accumulation.
type partial struct {
	files   []types.ScannedFile
	folders []types.ScannedFolder
	hist    types.Histogram
}

func newPartial() partial {
	return partial{hist: types.Histogram{}}
}

// emitter throttles one worker's progress events. It is owned by a single
// goroutine and needs no locking.
type emitter struct {
	fn        func(types.ScanProgress)
	counters  *Counters
	estimate  int64
	sinceLast int
	lastPct   float64
}

// fileSeen is called after every counted file.
func (e *emitter) fileSeen(dir string) {
	if e.fn == nil {
		return
	}
	e.sinceLast++

	snap := e.counters.Snapshot()
	pct := runningPercent(snap.Bytes, e.estimate)
	if e.sinceLast < emitEveryFiles && pct-e.lastPct < emitMinDelta {
		return
	}

	e.fn(types.ScanProgress{
		FilesAnalyzed:      snap.Files,
		TotalSize:          snap.Bytes,
		FoldersAnalyzed:    snap.Folders,
		CurrentPath:        dir,
		Percentage:         pct,
		EstimatedTotalSize: e.estimate,
	})
	e.sinceLast = 0
	e.lastPct = pct
}

// runningPercent is bytes over estimate as a percentage, capped below 100.
func runningPercent(bytes, estimate int64) float64 {
	return min(types.Percent(bytes, estimate), maxRunningPercent)
}

// work pulls directories until the queue is closed or the token trips,
// and returns whatever it accumulated.
func (s *Scanner) work(queue <-chan string, em *emitter) partial {
	acc := newPartial()
	for {
		if s.token.Cancelled() {
			return acc
		}
		select {
		case dir, ok := <-queue:
			if !ok {
				return acc
			}
			s.scanDir(dir, &acc, em)
		case <-s.token.Done():
			return acc
		}
	}
}

// scanDir counts the immediate regular files of dir. Subdirectories are
// left to the discovery producer.
func (s *Scanner) scanDir(dir string, acc *partial, em *emitter) {
	if s.token.Cancelled() {
		return
	}
	log := logging.Get("scanner")

	entries, err := s.readDir(dir)
	if err != nil {
		s.counters.Skip()
		if len(entries) == 0 {
			log.Debug("skipping unreadable directory", "path", dir, "error", err)
			return
		}
		log.Debug("partial directory listing", "path", dir, "error", err)
	}
	s.counters.AddFolder(dir)

	folder := types.ScannedFolder{Name: filepath.Base(dir), Path: dir}
	for _, entry := range entries {
		if s.token.Cancelled() {
			break
		}
		if !entry.Type().IsRegular() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			s.counters.Skip()
			log.Debug("skipping file", "path", filepath.Join(dir, entry.Name()), "error", err)
			continue
		}

		size := info.Size()
		s.counters.AddFile(size)
		folder.Size += size
		folder.FileCount++

		name := entry.Name()
		ext := classify.ExtensionOf(name)
		cat := classify.Classify(ext)
		acc.hist.Add(cat, size)

		if size > s.opts.Threshold {
			acc.files = append(acc.files, types.ScannedFile{
				Name:      name,
				Path:      filepath.Join(dir, name),
				Size:      size,
				Category:  cat,
				Extension: ext,
			})
		}

		em.fileSeen(dir)
	}

	acc.folders = append(acc.folders, folder)
}
