// Package session holds the shared scan state of a census and the
// commands and queries that operate on it.
//
// A Session keeps one results snapshot behind a read/write mutex. The
// snapshot is reset to empty when a scan starts, replaced wholesale when a
// scan completes, and left empty when a scan is cancelled or fails.
// Queries take the read lock and never observe a partial scan.
package session

import (
	"context"
	"sync"

	"github.com/jamesainslie/census/pkg/census/diskspace"
	"github.com/jamesainslie/census/pkg/census/history"
	"github.com/jamesainslie/census/pkg/census/logging"
	"github.com/jamesainslie/census/pkg/census/scanner"
	"github.com/jamesainslie/census/pkg/census/types"
)

// Status is the outcome of a scan that did not fail.
type Status string

// Scan statuses.
const (
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Outcome is delivered by StartScanAsync when the scan ends.
type Outcome struct {
	Status  Status
	Results *types.ScanResults
	Err     error
}

// History records completed scans and serves growth series.
// history.Store implements it.
type History interface {
	Record(ctx context.Context, r *types.ScanResults) error
	Growth(ctx context.Context, root string, period history.Period) ([]history.Point, error)
}

// Config configures the scans a Session runs.
type Config struct {
	// Workers is the worker count; zero picks one from the CPU count.
	Workers int

	// QueueSize is the directory queue capacity; zero uses the scanner default.
	QueueSize int

	// Threshold is the retention threshold for largest files.
	// Zero means scanner.DefaultThreshold.
	Threshold int64

	// TopK bounds the largest-files list; zero means scanner.DefaultTopK.
	TopK int

	// Estimator selects the progress estimator.
	Estimator scanner.Estimator

	// History, when set, receives every completed scan.
	History History

	// FreeSpace reports available bytes on the volume of a path.
	// Defaults to diskspace.Available.
	FreeSpace func(path string) (int64, error)
}

// Session is the shared scan state. It is safe for concurrent use.
type Session struct {
	cfg Config

	mu      sync.RWMutex
	results *types.ScanResults
	token   *scanner.Token
	running bool
}

// New creates an idle Session with empty results.
func New(cfg Config) *Session {
	if cfg.Threshold == 0 {
		cfg.Threshold = scanner.DefaultThreshold
	}
	if cfg.FreeSpace == nil {
		cfg.FreeSpace = diskspace.Available
	}
	return &Session{cfg: cfg, results: &types.ScanResults{}}
}

// StartScan scans root and blocks until the scan ends. It returns
// ErrScanInProgress when another scan is running and a root validation
// error when root is unusable; in both cases the current results are kept.
// onProgress may be nil and is called from several goroutines.
func (s *Session) StartScan(ctx context.Context, root string, onProgress func(types.ScanProgress)) (Status, error) {
	abs, token, err := s.begin(root)
	if err != nil {
		return "", err
	}
	out := s.run(ctx, abs, token, onProgress)
	return out.Status, out.Err
}

// StartScanAsync validates root and claims the session synchronously,
// then scans in a goroutine. The returned channel receives exactly one
// Outcome and is then closed.
func (s *Session) StartScanAsync(ctx context.Context, root string, onProgress func(types.ScanProgress)) (<-chan Outcome, error) {
	abs, token, err := s.begin(root)
	if err != nil {
		return nil, err
	}

	done := make(chan Outcome, 1)
	go func() {
		defer close(done)
		done <- s.run(ctx, abs, token, onProgress)
	}()
	return done, nil
}

// CancelScan trips the running scan's token. It is a no-op when idle and
// safe to call repeatedly.
func (s *Session) CancelScan() {
	s.mu.RLock()
	token, running := s.token, s.running
	s.mu.RUnlock()

	if running && token != nil {
		token.Cancel()
	}
}

// Scanning reports whether a scan is in flight.
func (s *Session) Scanning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Results returns the current snapshot. The snapshot is never mutated
// after it is installed and must be treated as read-only.
func (s *Session) Results() *types.ScanResults {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.results
}

// begin validates root, rejects a concurrent scan, and resets the
// snapshot with a fresh token.
func (s *Session) begin(root string) (string, *scanner.Token, error) {
	abs, err := scanner.ValidateRoot(root)
	if err != nil {
		return "", nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return "", nil, types.ErrScanInProgress
	}
	s.running = true
	s.results = &types.ScanResults{}
	s.token = scanner.NewToken()
	return abs, s.token, nil
}

// run performs the walk without holding the lock and installs the
// results once on success.
func (s *Session) run(ctx context.Context, root string, token *scanner.Token, onProgress func(types.ScanProgress)) Outcome {
	log := logging.Get("session")

	results, err := scanner.Scan(ctx, scanner.Options{
		Root:       root,
		Workers:    s.cfg.Workers,
		QueueSize:  s.cfg.QueueSize,
		Threshold:  s.cfg.Threshold,
		TopK:       s.cfg.TopK,
		Estimator:  s.cfg.Estimator,
		OnProgress: onProgress,
		Token:      token,
	})

	s.mu.Lock()
	s.running = false
	if err == nil && !results.Cancelled {
		s.results = results
	}
	s.mu.Unlock()

	switch {
	case err != nil:
		return Outcome{Err: err}
	case results.Cancelled:
		return Outcome{Status: StatusCancelled, Results: results}
	}

	if s.cfg.History != nil {
		if err := s.cfg.History.Record(ctx, results); err != nil {
			log.Warn("failed to record scan history", "root", root, "error", err)
		}
	}
	return Outcome{Status: StatusCompleted, Results: results}
}
