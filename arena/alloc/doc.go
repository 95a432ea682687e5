// Package alloc implements a general-purpose dynamic allocator over
// page-granularity arenas, with an intrusive free list and boundary-tag
// coalescing.
//
// # Overview
//
// An Allocator owns a registry of arenas: page-aligned, read-write regions
// obtained from the OS and subdivided into blocks. Every block is bracketed
// by a header and a footer (the boundary tags); the footer echoes the
// header's payload size so either neighbor of a block can be located in
// constant time. Free blocks are threaded through an intrusive singly linked
// list whose successor field lives in the block headers themselves.
//
// # Operations
//
//   - Allocate(size): first-fit search of the free list; splits the chosen
//     block when the remainder stays viable, maps a new arena on a miss.
//   - Deallocate(ref): validates the reference, marks the block free, merges
//     it with free neighbors in both directions, and returns a fully
//     reclaimed arena's pages to the OS.
//
// # Usage Example
//
//	al := alloc.New(nil)
//
//	ref, payload, err := al.Allocate(256)
//	if err != nil {
//	    return err
//	}
//	copy(payload, record)
//
//	// Later, return the block.
//	err = al.Deallocate(ref)
//
// # Split Threshold
//
// A free block is split only when the remainder can hold a full boundary-tag
// pair plus format.MinPayload bytes of payload (format.MinBlockSize, 48
// bytes). Smaller remainders are granted to the caller whole, so the free
// list never carries unusably small fragments.
//
// # Arena Lifecycle
//
// A miss maps the smallest page multiple that fits the request plus the
// descriptor and one tag pair. An arena is released the moment it holds
// exactly one block, that block is free, and it spans the whole usable
// region; a steady allocate/free working set therefore does not grow
// committed memory monotonically.
//
// # References
//
// Refs pack the owning arena's ID with the payload offset. Deallocate never
// trusts a header before the Ref has been resolved against the arena
// registry and bounds checked, so a foreign or stale reference is reported
// as ErrBadRef instead of corrupting metadata, and freeing twice is reported
// as ErrDoubleFree.
//
// # Thread Safety
//
// All operations on one Allocator are serialized by a single internal mutex:
// coalescing rewrites a neighboring block's metadata, which a concurrent
// Deallocate on the same arena could otherwise be mutating. Distinct
// Allocator instances are fully independent.
package alloc
