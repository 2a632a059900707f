package scanner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jamesainslie/census/pkg/census/logging"
	"github.com/jamesainslie/census/pkg/census/types"
)

// Labels carried in CurrentPath by the start and terminal events.
const (
	LabelCollecting = "Collecting directories..."
	LabelCompleted  = "Scan completed!"
	LabelCancelled  = "Scan cancelled"
	LabelFailed     = "Scan failed!"
)

// Scanner runs one census of a directory tree. A Scanner is single-use.
type Scanner struct {
	opts     Options
	token    *Token
	counters *Counters
	root     string

	// readDir lists a directory for both discovery and workers.
	readDir func(string) ([]os.DirEntry, error)
}

// New creates a Scanner. Options are validated and defaults applied.
func New(opts Options) (*Scanner, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Scanner{
		opts:     opts,
		token:    opts.Token,
		counters: newCounters(),
		readDir:  os.ReadDir,
	}, nil
}

// Cancel trips the scan's token.
func (s *Scanner) Cancel() {
	s.token.Cancel()
}

// Scan performs the census and blocks until every goroutine has exited.
//
// Root validation failures are returned as errors. A cancelled scan,
// whether through the token or ctx, returns results with Cancelled set
// and a nil error. A panic in the producer or a worker fails the scan with
// ErrScanFailed wrapping ErrInternal.
func (s *Scanner) Scan(ctx context.Context) (*types.ScanResults, error) {
	startedAt := time.Now()
	log := logging.Get("scanner")

	root, err := ValidateRoot(s.opts.Root)
	if err != nil {
		return nil, err
	}
	s.root = root

	stop := context.AfterFunc(ctx, s.token.Cancel)
	defer stop()
	if ctx.Err() != nil {
		s.token.Cancel()
	}

	estimate, dirs, err := s.estimate(ctx)
	switch {
	case err != nil:
		if ctx.Err() == nil {
			log.Warn("exact estimate failed, falling back to sampling", "error", err)
		}
		estimate = EstimateSize(root, s.token)
	case dirs > 0:
		// More workers than directories would only idle on the queue.
		s.opts.Workers = max(1, min(s.opts.Workers, dirs))
	}

	log.Info("scan started", "root", root, "workers", s.opts.Workers, "estimate", estimate)
	s.emit(types.ScanProgress{CurrentPath: LabelCollecting, EstimatedTotalSize: estimate})

	queue := make(chan string, s.opts.QueueSize)
	parts := make([]partial, s.opts.Workers)

	var g errgroup.Group
	g.Go(func() (err error) {
		defer s.recoverPanic("producer", &err)
		s.discover(queue)
		return nil
	})
	for i := range parts {
		em := &emitter{fn: s.opts.OnProgress, counters: s.counters, estimate: estimate}
		g.Go(func() (err error) {
			defer s.recoverPanic("worker", &err)
			parts[i] = s.work(queue, em)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("scan failed", "root", root, "error", err)
		s.emit(types.ScanProgress{CurrentPath: LabelFailed, EstimatedTotalSize: estimate, Done: true})
		return nil, err
	}

	snap := s.counters.Snapshot()
	results := &types.ScanResults{
		ID:            uuid.NewString(),
		Root:          root,
		StartedAt:     startedAt,
		TotalFiles:    snap.Files,
		TotalFolders:  snap.Folders,
		TotalSize:     snap.Bytes,
		Skipped:       snap.Skipped,
		EstimatedSize: estimate,
		Workers:       s.opts.Workers,
	}

	if s.token.Cancelled() {
		results.Cancelled = true
		results.Elapsed = time.Since(startedAt)
		log.Info("scan cancelled", "root", root, "files", snap.Files)
		s.emit(types.ScanProgress{
			FilesAnalyzed:      snap.Files,
			TotalSize:          snap.Bytes,
			FoldersAnalyzed:    snap.Folders,
			CurrentPath:        LabelCancelled,
			EstimatedTotalSize: estimate,
			Done:               true,
		})
		return results, nil
	}

	files, folders, hist := consolidate(parts, s.opts.TopK)
	results.LargestFiles = files
	results.Folders = AggregateFolders(folders, root)
	results.Distribution = hist
	results.Elapsed = time.Since(startedAt)

	log.Info("scan completed",
		"root", root,
		"files", snap.Files,
		"folders", snap.Folders,
		"bytes", snap.Bytes,
		"skipped", snap.Skipped,
		"elapsed", results.Elapsed)

	s.emit(types.ScanProgress{
		FilesAnalyzed:      snap.Files,
		TotalSize:          snap.Bytes,
		FoldersAnalyzed:    snap.Folders,
		CurrentPath:        LabelCompleted,
		Percentage:         100,
		EstimatedTotalSize: estimate,
		Done:               true,
	})
	return results, nil
}

// Scan is a convenience wrapper that builds a Scanner and runs it.
func Scan(ctx context.Context, opts Options) (*types.ScanResults, error) {
	s, err := New(opts)
	if err != nil {
		return nil, err
	}
	return s.Scan(ctx)
}

// estimate returns the progress denominator and, for the exact
// estimator only, the number of directories under root.
func (s *Scanner) estimate(ctx context.Context) (int64, int, error) {
	if s.opts.Estimator == EstimatorExact {
		return EstimateExact(ctx, s.root)
	}
	return EstimateSize(s.root, s.token), 0, nil
}

func (s *Scanner) emit(p types.ScanProgress) {
	if s.opts.OnProgress != nil {
		s.opts.OnProgress(p)
	}
}

// recoverPanic converts a panic in a scan goroutine into an error and
// trips the token so the remaining goroutines wind down.
func (s *Scanner) recoverPanic(role string, err *error) {
	r := recover()
	if r == nil {
		return
	}
	s.token.Cancel()
	logging.Get("scanner").Error("recovered panic", "role", role, "panic", r)
	*err = fmt.Errorf("%w: %w: %s panicked: %v", types.ErrScanFailed, types.ErrInternal, role, r)
}

// ValidateRoot resolves root to an absolute path and checks that it is an
// existing, readable directory.
func ValidateRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", types.CauseError(types.ErrScanFailed, root, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", types.PathError(types.ErrPathDoesNotExist, abs)
		}
		return "", types.CauseError(types.ErrCannotGetMetadata, abs, err)
	}
	if !info.IsDir() {
		return "", types.PathError(types.ErrPathIsNotDirectory, abs)
	}

	f, err := os.Open(abs)
	if err != nil {
		return "", types.CauseError(types.ErrCannotReadDirectory, abs, err)
	}
	_ = f.Close()

	return abs, nil
}
