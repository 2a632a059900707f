// Package diskspace reports free space on the volume holding a path.
package diskspace

import "errors"

// ErrUnsupported is returned on platforms without a free-space query.
var ErrUnsupported = errors.New("free space query not supported on this platform")

// Usage describes the volume holding a path.
type Usage struct {
	Total int64
	Free  int64
}

// Available returns the bytes available to unprivileged users on the
// volume holding path.
func Available(path string) (int64, error) {
	u, err := Stat(path)
	if err != nil {
		return 0, err
	}
	return u.Free, nil
}
