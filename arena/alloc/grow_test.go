package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/arenakit/internal/format"
)

func TestFirstAllocationMapsOnePage(t *testing.T) {
	al := newTestAllocator(t)
	require.Equal(t, 0, al.Stats().LiveArenas)

	_, _, err := al.Allocate(100)
	require.NoError(t, err)

	s := al.Stats()
	assert.Equal(t, 1, s.ArenasMapped)
	assert.Equal(t, int64(testPageSize), s.GrowBytes)
}

func TestArenaSizedToSmallestPageMultiple(t *testing.T) {
	// 5000 bytes plus descriptor and tag overhead exceeds one 4KB page, so
	// the arena must be exactly two pages.
	al := newTestAllocator(t)

	_, payload, err := al.Allocate(5000)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(payload), 5000)

	s := al.Stats()
	assert.Equal(t, 1, s.ArenasMapped)
	assert.Equal(t, int64(2*testPageSize), s.GrowBytes)

	// The two-page arena's remainder serves the next request; no new
	// arena is mapped.
	_, _, err = al.Allocate(100)
	require.NoError(t, err)
	assert.Equal(t, 1, al.Stats().ArenasMapped)
	assertInvariants(t, al)
}

func TestGrowOnExhaustion(t *testing.T) {
	al := newTestAllocator(t)

	// Consume the whole master block of the first arena.
	_, _, err := al.Allocate(testMasterPayload)
	require.NoError(t, err)
	require.Equal(t, 1, al.Stats().ArenasMapped)

	// Nothing free remains, so the next request maps a second arena.
	_, _, err = al.Allocate(100)
	require.NoError(t, err)

	s := al.Stats()
	assert.Equal(t, 2, s.ArenasMapped)
	assert.Equal(t, 2, s.LiveArenas)
	assertInvariants(t, al)
}

func TestGrowSkipsTooSmallFreeBlocks(t *testing.T) {
	al := newTestAllocator(t)

	ref, _, err := al.Allocate(128)
	require.NoError(t, err)
	_, _, err = al.Allocate(testMasterPayload - 128 - format.BlockOverhead)
	require.NoError(t, err)
	require.NoError(t, al.Deallocate(ref))

	// Only a 128-byte block is free; a 256-byte request must come from a
	// fresh arena.
	ref2, _, err := al.Allocate(256)
	require.NoError(t, err)
	assert.NotEqual(t, ref.ArenaID(), ref2.ArenaID())
	assert.Equal(t, 2, al.Stats().ArenasMapped)
	assertInvariants(t, al)
}
