//go:build !darwin && !linux

package tuner

// Detect returns CPU cores from the runtime and default memory figures.
func Detect() (SystemResources, error) {
	return fallbackResources(), nil
}
