package alloc

import (
	"fmt"
	"os"
	"sync"

	"github.com/joshuapare/arenakit/arena"
	"github.com/joshuapare/arenakit/internal/format"
	"github.com/joshuapare/arenakit/internal/pages"
)

// Runtime debug flag for allocation logging - controlled by ARENA_LOG_ALLOC env var.
var logAlloc = os.Getenv("ARENA_LOG_ALLOC") != ""

// MaxAllocSize is the largest payload Allocate accepts. Block offsets are
// 32-bit, so a single allocation (plus descriptor and tag overhead) must fit
// comfortably inside one 2 GiB arena.
const MaxAllocSize = 1 << 30

// Allocator services allocate/deallocate requests over a registry of
// page-granularity arenas, tracking free blocks through an intrusive first-fit
// free list with boundary-tag coalescing.
//
// An Allocator is an explicit instance: independent allocators share nothing.
// One mutex serializes Allocate, Deallocate, and Stats against each other and
// against arena mapping/release, because coalescing rewrites a neighbor's
// metadata that a concurrent call on the same arena could be reading.
type Allocator struct {
	mu       sync.Mutex
	pageSize int

	// Arena registry. Blocks reach their arena only through the Ref /
	// header arena ID resolved against this map.
	arenas map[uint32]*arena.Arena
	lastID uint32

	// Head of the intrusive free list threading all arenas.
	freeHead Ref

	stats Stats
}

// New creates an allocator. A nil config uses DefaultConfig; a zero PageSize
// uses the OS page size.
func New(config *Config) *Allocator {
	if config == nil {
		config = &DefaultConfig
	}
	ps := config.PageSize
	if ps == 0 {
		ps = pages.Size()
	}
	return &Allocator{
		pageSize: ps,
		arenas:   make(map[uint32]*arena.Arena),
	}
}

// Allocate returns a reference to a block with at least size payload bytes,
// plus the payload itself. The search is first fit over the free list; a miss
// maps a new arena sized to the smallest page multiple that fits the request.
//
// Fails with ErrInvalidSize for a non-positive or oversized request, with
// ErrNoPages when the OS cannot supply a new arena, and with ErrCorrupt when
// a free-list node no longer decodes as a block. Failed calls leave the
// allocator state untouched.
func (al *Allocator) Allocate(size int) (Ref, []byte, error) {
	al.mu.Lock()
	defer al.mu.Unlock()
	al.stats.AllocCalls++

	if size <= 0 || size > MaxAllocSize {
		return NilRef, nil, ErrInvalidSize
	}
	need := uint32(format.Align8(size))

	ref, prev, err := al.findFit(need)
	if err != nil {
		return NilRef, nil, err
	}
	if ref == NilRef {
		grown, err := al.grow(int(need))
		if err != nil {
			return NilRef, nil, err
		}
		// The carved master block satisfies the request by construction
		// and sits at the list head.
		ref, prev = grown, NilRef
	}
	return al.carve(ref, prev, need)
}

// carve takes the free block at ref off the list, splits it when the
// remainder can hold a viable block, and returns the in-use front.
func (al *Allocator) carve(ref, prev Ref, need uint32) (Ref, []byte, error) {
	ar := al.arenas[ref.ArenaID()]
	data := ar.Bytes()
	off := format.HeaderOf(ref.Offset())

	hdr, err := format.ReadHeader(data, off)
	if err != nil {
		return NilRef, nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	al.unlink(prev, hdr.Next)
	granted := hdr.Size

	if int(granted)-int(need) >= format.MinBlockSize {
		// Split: the front becomes the allocation, the remainder becomes
		// a new free block behind it.
		rem := granted - need - format.BlockOverhead
		granted = need

		remOff := format.ForwardNeighbor(off, need)
		format.WriteHeader(data, remOff, format.Header{
			Size:  rem,
			Flags: format.FlagFree,
			Arena: hdr.Arena,
			Next:  uint64(al.freeHead),
		})
		format.WriteFooter(data, remOff)
		al.freeHead = MakeRef(hdr.Arena, format.PayloadOf(remOff))

		ar.BumpBlockCount(1)
		ar.BumpFreeCount(1)
		al.stats.SplitCount++
	}

	format.WriteHeader(data, off, format.Header{Size: granted, Arena: hdr.Arena})
	format.WriteFooter(data, off)
	ar.BumpFreeCount(-1)

	al.stats.BytesAllocated += int64(granted)
	payload := data[ref.Offset() : ref.Offset()+int(granted)]
	return ref, payload, nil
}

// grow maps a fresh arena able to hold a need-byte payload and pushes its
// master free block onto the list head.
func (al *Allocator) grow(need int) (Ref, error) {
	id := al.lastID + 1
	ar, err := arena.Map(need, al.pageSize, id)
	if err != nil {
		return NilRef, fmt.Errorf("%w: %v", ErrNoPages, err)
	}
	al.lastID = id
	al.arenas[id] = ar

	ref := MakeRef(id, format.PayloadOf(format.DescriptorSize))
	al.pushFree(ref)

	al.stats.ArenasMapped++
	al.stats.GrowBytes += int64(ar.Size())
	if logAlloc {
		fmt.Fprintf(os.Stderr, "[GROW] #%d: need=%d -> mapped arena %d (%d bytes, %d usable)\n",
			al.stats.ArenasMapped, need, id, ar.Size(), ar.Usable())
	}
	return ref, nil
}

// Deallocate returns the referenced block to the free state, merges it with
// free neighbors in both directions, and releases the owning arena once its
// sole block is free and spans the whole usable region.
//
// Fails with ErrNilRef on the zero reference, ErrBadRef when ref does not
// resolve to a block inside a managed arena, ErrDoubleFree when the block is
// already free, and ErrCorrupt on a header/footer disagreement. All
// validation happens before the first mutation, so failed calls leave the
// free list and arena registry exactly as they were.
func (al *Allocator) Deallocate(ref Ref) error {
	al.mu.Lock()
	defer al.mu.Unlock()
	al.stats.FreeCalls++

	if ref == NilRef {
		return ErrNilRef
	}
	ar, ok := al.arenas[ref.ArenaID()]
	if !ok {
		return ErrBadRef
	}
	data := ar.Bytes()
	payloadOff := ref.Offset()
	if payloadOff&format.AlignmentMask != 0 ||
		payloadOff < format.DescriptorSize+format.HeaderSize {
		return ErrBadRef
	}
	off := format.HeaderOf(payloadOff)

	hdr, err := format.ReadHeader(data, off)
	if err != nil || hdr.Arena != ref.ArenaID() {
		return ErrBadRef
	}
	if hdr.Free() {
		return ErrDoubleFree
	}
	echo, err := format.ReadFooter(data, off, hdr.Size)
	if err != nil || echo != hdr.Size {
		return ErrCorrupt
	}

	// Mark free and insert. Everything past this point preserves the
	// invariants by construction.
	hdr.Flags = format.FlagFree
	format.WriteHeader(data, off, hdr)
	al.pushFree(ref)
	ar.BumpFreeCount(1)
	al.stats.BytesFreed += int64(hdr.Size)

	al.coalesce(ar, ref, off, hdr)

	if ar.FullSpan() {
		return al.releaseArena(ar)
	}
	return nil
}

// coalesce merges the freed block at off with its forward neighbor, then
// merges the result into its backward neighbor. Because no two adjacent
// blocks are ever simultaneously free beforehand, one merge per direction is
// all that can occur.
func (al *Allocator) coalesce(ar *arena.Arena, ref Ref, off int, hdr format.Header) {
	data := ar.Bytes()
	id := ar.ID()

	// Merges rewrite only the size tags of the absorbing block. Its header
	// bytes already carry the live free-list successor (written by pushFree
	// or an unlink after the local header copies were read), so a full
	// header write here would clobber the list.

	// Forward: this block absorbs the next one.
	fwd := format.ForwardNeighbor(off, hdr.Size)
	if fwd+format.BlockOverhead <= ar.Size() {
		if fh, err := format.ReadHeader(data, fwd); err == nil && fh.Free() && fh.Arena == id {
			if al.removeRef(MakeRef(id, format.PayloadOf(fwd))) {
				hdr.Size += format.BlockOverhead + fh.Size
				format.PutU32(data, off+format.HdrSizeOffset, hdr.Size)
				format.WriteFooter(data, off)
				ar.BumpBlockCount(-1)
				ar.BumpFreeCount(-1)
				al.stats.CoalesceForward++
			}
		}
	}

	// Backward: the previous block absorbs this one.
	if prevOff, ok := format.BackwardNeighbor(data, off); ok {
		if ph, err := format.ReadHeader(data, prevOff); err == nil && ph.Free() && ph.Arena == id {
			if al.removeRef(ref) {
				ph.Size += format.BlockOverhead + hdr.Size
				format.PutU32(data, prevOff+format.HdrSizeOffset, ph.Size)
				format.WriteFooter(data, prevOff)
				ar.BumpBlockCount(-1)
				ar.BumpFreeCount(-1)
				al.stats.CoalesceBackward++
			}
		}
	}
}

// releaseArena deregisters ar and returns its pages to the OS. The sole block
// is unlinked first; after this the arena's metadata is gone, so a failed
// unmap leaves the region leaked rather than re-registered.
func (al *Allocator) releaseArena(ar *arena.Arena) error {
	id := ar.ID()
	al.removeRef(MakeRef(id, format.PayloadOf(format.DescriptorSize)))
	delete(al.arenas, id)
	al.stats.ArenasReleased++
	if logAlloc {
		fmt.Fprintf(os.Stderr, "[RELEASE] arena %d (%d bytes) returned to OS\n", id, ar.Size())
	}
	if err := ar.Release(); err != nil {
		return fmt.Errorf("%w: %v", ErrReleaseFail, err)
	}
	return nil
}
