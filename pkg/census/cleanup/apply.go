package cleanup

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jamesainslie/census/pkg/census/logging"
)

// RemoveFunc removes a single path. trash.MoveToTrash satisfies it.
type RemoveFunc func(path string) error

// Result reports what Apply did.
type Result struct {
	Kind    Kind
	Removed []Removed
	Failed  map[string]error
}

// Removed records one path that was removed.
type Removed struct {
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	RemovedAt time.Time `json:"removed_at"`
}

// Bytes returns the total size of removed files.
func (r *Result) Bytes() int64 {
	var n int64
	for _, rm := range r.Removed {
		n += rm.Size
	}
	return n
}

// Apply removes every path of s with remove. Paths that no longer exist
// are skipped. Empty folders are removed only while still empty.
// Apply stops early when ctx is cancelled.
func Apply(ctx context.Context, s Suggestion, remove RemoveFunc) (*Result, error) {
	log := logging.Get("cleanup")
	res := &Result{Kind: s.Kind, Failed: make(map[string]error)}

	for _, path := range s.Paths {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		info, err := os.Lstat(path)
		if err != nil {
			log.Debug("skipping missing path", "path", path, "error", err)
			continue
		}

		if s.Kind == KindEmptyFolders {
			if !info.IsDir() {
				continue
			}
			entries, err := os.ReadDir(path)
			if err != nil || len(entries) > 0 {
				res.Failed[path] = fmt.Errorf("folder %s is no longer empty", path)
				continue
			}
		}

		if err := remove(path); err != nil {
			log.Warn("cleanup failed", "path", path, "error", err)
			res.Failed[path] = err
			continue
		}

		size := int64(0)
		if !info.IsDir() {
			size = info.Size()
		}
		res.Removed = append(res.Removed, Removed{Path: path, Size: size, RemovedAt: time.Now().UTC()})
		log.Info("removed", "kind", s.Kind, "path", path)
	}
	return res, nil
}
