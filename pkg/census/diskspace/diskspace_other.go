//go:build !linux && !darwin && !freebsd

package diskspace

// Stat queries the volume holding path.
func Stat(string) (Usage, error) {
	return Usage{}, ErrUnsupported
}
