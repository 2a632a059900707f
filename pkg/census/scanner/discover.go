package scanner

import (
	"path/filepath"

	"github.com/jamesainslie/census/pkg/census/logging"
)

// discover walks the tree depth-first with an explicit stack and sends
// every directory to queue exactly once. Symlinked directories are not
// followed. It closes queue when the walk ends or the token trips.
func (s *Scanner) discover(queue chan<- string) {
	defer close(queue)
	log := logging.Get("scanner")

	stack := []string{s.root}
	for len(stack) > 0 {
		if s.token.Cancelled() {
			return
		}

		last := len(stack) - 1
		dir := stack[last]
		stack = stack[:last]

		select {
		case queue <- dir:
		case <-s.token.Done():
			return
		}

		entries, err := s.readDir(dir)
		if err != nil && len(entries) == 0 {
			// The worker that receives dir reports the failure.
			log.Debug("discovery skipped directory", "path", dir, "error", err)
			continue
		}

		// Push in reverse so siblings pop in name order.
		for i := len(entries) - 1; i >= 0; i-- {
			if entries[i].IsDir() {
				stack = append(stack, filepath.Join(dir, entries[i].Name()))
			}
		}
	}
}
