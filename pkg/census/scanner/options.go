// Package scanner implements the concurrent directory census engine.
//
// A scan runs one discovery producer that walks the tree depth-first and
// feeds directories into a bounded queue, and a pool of workers that each
// list the immediate entries of one directory at a time. Workers update
// shared atomic counters, keep their own partial results, and emit
// throttled progress. After the pool joins, partial results are merged,
// the largest files are ranked, and per-folder totals are rolled up.
package scanner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jamesainslie/census/pkg/census/tuner"
	"github.com/jamesainslie/census/pkg/census/types"
)

// Estimator selects how the progress denominator is computed.
type Estimator string

// Supported estimators.
const (
	// EstimatorSampled samples a bounded number of directories.
	EstimatorSampled Estimator = "sampled"

	// EstimatorExact walks the whole tree once before scanning.
	EstimatorExact Estimator = "exact"
)

// Defaults applied by Validate.
const (
	// DefaultThreshold is the size a file must exceed to be retained individually.
	DefaultThreshold = 100 * types.KiB

	// DefaultTopK is the number of largest files kept.
	DefaultTopK = 20

	// DefaultQueueSize is the work-queue capacity when none is configured.
	DefaultQueueSize = 1024
)

// ErrUnknownEstimator is returned for an estimator name that is not supported.
var ErrUnknownEstimator = errors.New("unknown estimator")

// ParseEstimator parses an estimator name. The empty string means sampled.
func ParseEstimator(s string) (Estimator, error) {
	switch Estimator(strings.ToLower(strings.TrimSpace(s))) {
	case "", EstimatorSampled:
		return EstimatorSampled, nil
	case EstimatorExact:
		return EstimatorExact, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEstimator, s)
	}
}

// Options configures a scan.
type Options struct {
	// Root is the directory to scan.
	Root string

	// Workers is the number of directory workers. Zero picks a value
	// from the detected CPU count.
	Workers int

	// QueueSize is the capacity of the directory work queue.
	QueueSize int

	// Threshold is the size in bytes a file must exceed to be retained
	// in the largest-files list. Smaller files still count in totals.
	Threshold int64

	// TopK bounds the largest-files list.
	TopK int

	// Estimator selects the progress estimator.
	Estimator Estimator

	// OnProgress receives progress events. It is called from several
	// goroutines at once and must be safe for concurrent use.
	OnProgress func(types.ScanProgress)

	// Token cancels the scan when tripped. A fresh token is used if nil.
	Token *Token
}

// DefaultOptions returns options with sensible defaults for most systems.
func DefaultOptions() Options {
	return Options{
		Root:      ".",
		Threshold: DefaultThreshold,
		TopK:      DefaultTopK,
		QueueSize: DefaultQueueSize,
		Estimator: EstimatorSampled,
	}
}

// Validate fills in defaults and rejects invalid settings.
func (o *Options) Validate() error {
	if o.Root == "" {
		o.Root = "."
	}
	if o.Threshold < 0 {
		return fmt.Errorf("threshold must not be negative: %d", o.Threshold)
	}
	if o.TopK <= 0 {
		o.TopK = DefaultTopK
	}
	if o.Workers <= 0 {
		o.Workers = tuner.Auto(0).Workers
	}
	o.Workers = min(o.Workers, tuner.MaxWorkers)
	if o.QueueSize <= 0 {
		o.QueueSize = DefaultQueueSize
	}

	est, err := ParseEstimator(string(o.Estimator))
	if err != nil {
		return err
	}
	o.Estimator = est

	if o.Token == nil {
		o.Token = NewToken()
	}
	return nil
}
