package pages

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSizeIsPositivePowerOfTwo(t *testing.T) {
	n := Size()
	require.Positive(t, n)
	assert.Zero(t, n&(n-1), "page size %d is not a power of two", n)
}

func TestMapReadWriteRelease(t *testing.T) {
	n := 2 * Size()
	data, release, err := Map(n)
	require.NoError(t, err)
	require.Len(t, data, n)

	// Fresh pages are zeroed and writable end to end.
	assert.Zero(t, data[0])
	assert.Zero(t, data[n-1])
	data[0] = 0xAA
	data[n-1] = 0x55
	assert.Equal(t, byte(0xAA), data[0])
	assert.Equal(t, byte(0x55), data[n-1])

	require.NoError(t, release())
	require.NoError(t, release(), "double release is a no-op")
	require.NoError(t, release(), "release stays a no-op after the first call")
}

func TestMapRejectsInvalidSize(t *testing.T) {
	_, _, err := Map(0)
	require.Error(t, err)

	_, _, err = Map(-4096)
	require.Error(t, err)
}
