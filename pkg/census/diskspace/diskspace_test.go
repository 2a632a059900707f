//go:build linux || darwin || freebsd

package diskspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStat(t *testing.T) {
	u, err := Stat(t.TempDir())
	require.NoError(t, err)
	assert.Positive(t, u.Total)
	assert.GreaterOrEqual(t, u.Free, int64(0))
	assert.LessOrEqual(t, u.Free, u.Total)
}

func TestAvailableMissingPath(t *testing.T) {
	_, err := Available("/definitely/not/here")
	assert.Error(t, err)
}
