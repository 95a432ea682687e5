package alloc

// Ref identifies an allocated block: the owning arena's registry ID in the
// high 32 bits, the payload's byte offset within that arena in the low 32.
// Offset 0 is the arena descriptor and never a payload, so the zero Ref is
// unambiguous.
type Ref uint64

// NilRef is the zero reference. Allocate never returns it on success and
// Deallocate rejects it.
const NilRef Ref = 0

// MakeRef builds a Ref from an arena ID and a payload offset.
func MakeRef(arenaID uint32, payloadOff int) Ref {
	return Ref(uint64(arenaID)<<32 | uint64(uint32(payloadOff)))
}

// ArenaID returns the owning arena's registry ID.
func (r Ref) ArenaID() uint32 { return uint32(r >> 32) }

// Offset returns the payload offset within the owning arena.
func (r Ref) Offset() int { return int(uint32(r)) }

// Config carries allocator tuning.
type Config struct {
	// PageSize is the granularity arenas are sized to. Zero means the OS
	// page size. Must be a power of two when set.
	PageSize int
}

// DefaultConfig sizes arenas to the OS page size.
var DefaultConfig = Config{}
