package types

import (
	"errors"
	"fmt"
)

// Scan errors. Callers match them with errors.Is; the wrapped message
// carries the offending path or cause.
var (
	// ErrPathDoesNotExist is returned when the scan root is missing.
	ErrPathDoesNotExist = errors.New("path does not exist")

	// ErrPathIsNotDirectory is returned when the scan root is not a directory.
	ErrPathIsNotDirectory = errors.New("path is not a directory")

	// ErrCannotReadDirectory is returned when a directory listing fails
	// where the failure cannot be skipped (the scan root, or a folder query).
	ErrCannotReadDirectory = errors.New("cannot read directory")

	// ErrCannotGetMetadata is returned when entry metadata cannot be read
	// where the failure cannot be skipped.
	ErrCannotGetMetadata = errors.New("cannot get metadata")

	// ErrScanFailed wraps unexpected failures during a scan.
	ErrScanFailed = errors.New("scan failed")

	// ErrInternal is the catch-all for internal faults such as a recovered panic.
	ErrInternal = errors.New("internal error")

	// ErrScanInProgress is returned when a scan is started while another runs.
	ErrScanInProgress = errors.New("scan already in progress")
)

// PathError wraps a sentinel with the path it concerns.
func PathError(sentinel error, path string) error {
	return fmt.Errorf("%w: %s", sentinel, path)
}

// CauseError wraps a sentinel with the path and underlying cause.
func CauseError(sentinel error, path string, cause error) error {
	return fmt.Errorf("%w: %s: %w", sentinel, path, cause)
}
