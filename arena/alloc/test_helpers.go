package alloc

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/arenakit/internal/format"
)

const (
	// testPageSize pins arena granularity so layout arithmetic in tests is
	// deterministic regardless of the host page size.
	testPageSize = 4096

	// testMasterPayload is the payload capacity of the master block in a
	// fresh single-page arena: 4096 - descriptor - one header/footer pair.
	testMasterPayload = testPageSize - format.DescriptorSize - format.BlockOverhead
)

// ============================================================================
// Test Helpers
// ============================================================================

// newTestAllocator creates an allocator with a fixed 4KB arena granularity.
func newTestAllocator(t testing.TB) *Allocator {
	t.Helper()
	return New(&Config{PageSize: testPageSize})
}

// freeListRefs returns the free list contents in list order.
func freeListRefs(al *Allocator) []Ref {
	var refs []Ref
	al.walkFree(func(ref Ref, _ uint32) {
		refs = append(refs, ref)
	})
	return refs
}

// freeListSizes returns the payload capacity of every free block in list order.
func freeListSizes(al *Allocator) []uint32 {
	var sizes []uint32
	al.walkFree(func(_ Ref, size uint32) {
		sizes = append(sizes, size)
	})
	return sizes
}

// assertInvariants walks every arena and the free list and checks the
// structural invariants:
//
//	(a) footer echoes header size for every block (checked by the walk)
//	(b) the free list holds exactly the blocks whose free flag is set
//	(c) no two spatially adjacent blocks are both free
//	(d) block spans never exceed the arena's usable size
//	(e) descriptor counts match the blocks actually present
func assertInvariants(t testing.TB, al *Allocator) {
	t.Helper()

	listed := make(map[Ref]int)
	al.walkFree(func(ref Ref, _ uint32) {
		listed[ref]++
	})
	for ref, n := range listed {
		require.Equal(t, 1, n, "ref %x appears %d times in the free list", uint64(ref), n)
	}

	var totalFree int
	for id, ar := range al.arenas {
		it := ar.Blocks()
		var blocks, free uint32
		span := 0
		prevFree := false
		for {
			blk, err := it.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			require.NoError(t, err, "arena %d: corrupt block walk", id)
			blocks++
			span += format.Span(blk.Size)
			require.Equal(t, id, blk.Arena, "arena %d: block at %d has wrong owner", id, blk.Offset)
			if blk.Free {
				free++
				require.False(t, prevFree, "arena %d: adjacent free blocks at %d", id, blk.Offset)
				require.Contains(t, listed, MakeRef(id, format.PayloadOf(blk.Offset)),
					"arena %d: free block at %d missing from free list", id, blk.Offset)
			}
			prevFree = blk.Free
		}
		require.Equal(t, ar.BlockCount(), blocks, "arena %d: block count drift", id)
		require.Equal(t, ar.FreeCount(), free, "arena %d: free count drift", id)
		require.LessOrEqual(t, span, ar.Usable(), "arena %d: blocks exceed usable span", id)
		totalFree += int(free)
	}
	require.Equal(t, totalFree, len(listed), "free list and free flags disagree")
}
