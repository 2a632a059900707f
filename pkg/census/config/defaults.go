// Package config provides configuration management for census.
package config

// Default configuration values for census.
const (
	// DefaultThreshold is the size above which a file is retained individually.
	DefaultThreshold = "100KB"

	// DefaultTop is the number of largest files kept in a snapshot.
	DefaultTop = 20

	// DefaultEstimator selects the progress estimator (sampled or exact).
	DefaultEstimator = "sampled"

	// DefaultPath is the path scanned when none is given.
	DefaultPath = "."

	// DefaultOutput is the report format for non-interactive runs.
	DefaultOutput = "text"

	// DefaultHistoryRetention is the number of scans kept per root.
	DefaultHistoryRetention = 50
)

// DefaultComponentLevels are the per-component log levels written by init.
var DefaultComponentLevels = map[string]string{
	"scanner": "info",
	"session": "info",
	"history": "warn",
	"tui":     "info",
}
