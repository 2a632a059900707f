package types

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"
)

// Size constants for binary (IEC) units.
const (
	KiB int64 = 1024
	MiB int64 = 1024 * KiB
	GiB int64 = 1024 * MiB
	TiB int64 = 1024 * GiB
)

// sizePattern splits a size string into its number and unit.
var sizePattern = regexp.MustCompile(`(?i)^([0-9]+(?:\.[0-9]+)?)\s*([a-z]*)$`)

// binaryUnits maps accepted unit spellings to IEC units. K, KB and KiB
// all mean 1024 bytes.
var binaryUnits = map[string]string{
	"": "B", "B": "B",
	"K": "KiB", "KB": "KiB", "KIB": "KiB",
	"M": "MiB", "MB": "MiB", "MIB": "MiB",
	"G": "GiB", "GB": "GiB", "GIB": "GiB",
	"T": "TiB", "TB": "TiB", "TIB": "TiB",
}

// ErrInvalidSize indicates that the size string could not be parsed.
var ErrInvalidSize = errors.New("invalid size format")

// ErrNegativeSize indicates that a negative size value was provided.
var ErrNegativeSize = errors.New("size cannot be negative")

// ParseSize parses sizes like "100K", "500KB" or "1.5GiB" into bytes.
// Every unit is binary. Fractions are truncated to whole bytes.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return 0, fmt.Errorf("%w: empty string", ErrInvalidSize)
	case strings.HasPrefix(s, "-"):
		return 0, ErrNegativeSize
	}

	m := sizePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	unit, ok := binaryUnits[strings.ToUpper(m[2])]
	if !ok {
		return 0, fmt.Errorf("%w: unknown suffix %q", ErrInvalidSize, m[2])
	}

	n, err := humanize.ParseBytes(m[1] + " " + unit)
	if err != nil || n > math.MaxInt64 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	return int64(n), nil
}

// FormatSize converts a size in bytes to a human-readable string
// using binary (IEC) units.
func FormatSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.IBytes(uint64(bytes))
}

// Percent returns part as a percentage of whole, or 0 when whole is not positive.
func Percent(part, whole int64) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
