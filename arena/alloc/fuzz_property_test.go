package alloc

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRandomizedAllocFreeProperty drives a long random allocate/free sequence
// against a model of expected payload contents. After every operation the
// live payloads must still hold their fill patterns, and periodically the
// structural invariants are re-checked.
func TestRandomizedAllocFreeProperty(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping randomized property test in short mode")
	}

	rng := rand.New(rand.NewSource(0x41524E41))
	al := newTestAllocator(t)

	type live struct {
		ref     Ref
		payload []byte
		fill    byte
	}
	var model []live

	const ops = 4000
	for op := 0; op < ops; op++ {
		if len(model) == 0 || rng.Intn(100) < 55 {
			size := 1 + rng.Intn(3000)
			ref, payload, err := al.Allocate(size)
			require.NoError(t, err, "op %d: Allocate(%d)", op, size)
			require.GreaterOrEqual(t, len(payload), size)

			fill := byte(rng.Intn(256))
			for i := range payload {
				payload[i] = fill
			}
			model = append(model, live{ref: ref, payload: payload, fill: fill})
		} else {
			i := rng.Intn(len(model))
			victim := model[i]
			require.NoError(t, al.Deallocate(victim.ref), "op %d: Deallocate", op)
			model[i] = model[len(model)-1]
			model = model[:len(model)-1]

			// An immediate second free of the same ref must be
			// rejected without touching anything.
			if rng.Intn(10) == 0 {
				err := al.Deallocate(victim.ref)
				require.Error(t, err, "op %d: double free must fail", op)
			}
		}

		// Live payloads are pairwise non-overlapping iff every fill
		// pattern survives all other operations.
		if op%200 == 0 {
			for _, m := range model {
				for i, b := range m.payload {
					require.Equal(t, m.fill, b,
						"op %d: payload of %x corrupted at byte %d", op, uint64(m.ref), i)
				}
			}
			assertInvariants(t, al)
		}
	}

	// Drain: everything frees cleanly and all arenas go back to the OS.
	for _, m := range model {
		require.NoError(t, al.Deallocate(m.ref))
	}
	s := al.Stats()
	require.Equal(t, 0, s.LiveArenas)
	require.Equal(t, s.ArenasMapped, s.ArenasReleased)
	require.Equal(t, NilRef, al.freeHead)
}
