package arena

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/arenakit/internal/format"
)

const testPageSize = 4096

func TestMapCarvesSingleSpanningBlock(t *testing.T) {
	ar, err := Map(100, testPageSize, 7)
	require.NoError(t, err)
	defer func() { require.NoError(t, ar.Release()) }()

	assert.Equal(t, uint32(7), ar.ID())
	assert.Equal(t, testPageSize, ar.Size())
	assert.Equal(t, testPageSize-format.DescriptorSize, ar.Usable())
	assert.Equal(t, uint32(1), ar.BlockCount())
	assert.Equal(t, uint32(1), ar.FreeCount())
	assert.True(t, ar.FullSpan())

	d, err := format.ReadDescriptor(ar.Bytes())
	require.NoError(t, err)
	assert.Equal(t, uint32(testPageSize), d.Size)
	assert.Equal(t, uint32(7), d.ID)

	it := ar.Blocks()
	blk, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, format.DescriptorSize, blk.Offset)
	assert.True(t, blk.Free)
	assert.Equal(t, uint32(7), blk.Arena)
	wantPayload := testPageSize - format.DescriptorSize - format.BlockOverhead
	assert.Equal(t, uint32(wantPayload), blk.Size)

	_, err = it.Next()
	assert.True(t, errors.Is(err, io.EOF))
}

func TestMapRoundsUpToPageMultiple(t *testing.T) {
	// 5000 usable bytes plus overhead needs two 4KB pages.
	ar, err := Map(5000, testPageSize, 1)
	require.NoError(t, err)
	defer func() { require.NoError(t, ar.Release()) }()

	assert.Equal(t, 2*testPageSize, ar.Size())
}

func TestMapRejectsBadArguments(t *testing.T) {
	_, err := Map(0, testPageSize, 1)
	require.Error(t, err)

	_, err = Map(-1, testPageSize, 1)
	require.Error(t, err)

	_, err = Map(100, 3000, 1) // not a power of two
	require.Error(t, err)

	_, err = Map(100, 0, 1)
	require.Error(t, err)
}

func TestMapRejectsOversizedRegion(t *testing.T) {
	_, err := Map(format.MaxArenaSize, testPageSize, 1)
	require.Error(t, err)
}

func TestReleaseIsIdempotent(t *testing.T) {
	ar, err := Map(100, testPageSize, 1)
	require.NoError(t, err)

	require.NoError(t, ar.Release())
	require.NoError(t, ar.Release())
	assert.Nil(t, ar.Bytes())
}

func TestBumpCounts(t *testing.T) {
	ar, err := Map(100, testPageSize, 1)
	require.NoError(t, err)
	defer func() { require.NoError(t, ar.Release()) }()

	ar.BumpBlockCount(1)
	ar.BumpFreeCount(-1)
	assert.Equal(t, uint32(2), ar.BlockCount())
	assert.Equal(t, uint32(0), ar.FreeCount())
	assert.False(t, ar.FullSpan())

	ar.BumpBlockCount(-1)
	ar.BumpFreeCount(1)
	assert.True(t, ar.FullSpan())
}

func TestRegionIsWritable(t *testing.T) {
	ar, err := Map(100, testPageSize, 1)
	require.NoError(t, err)
	defer func() { require.NoError(t, ar.Release()) }()

	data := ar.Bytes()
	payload := format.PayloadOf(format.DescriptorSize)
	for i := 0; i < 100; i++ {
		data[payload+i] = byte(i)
	}
	for i := 0; i < 100; i++ {
		require.Equal(t, byte(i), data[payload+i])
	}
}
