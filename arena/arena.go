// Package arena manages page-granularity memory regions obtained from the
// operating system. Each region carries an inline descriptor at its start and
// is subdivided into boundary-tagged blocks; a freshly mapped arena holds
// exactly one free block spanning the whole usable span.
package arena

import (
	"fmt"
	"io"

	"github.com/joshuapare/arenakit/internal/buf"
	"github.com/joshuapare/arenakit/internal/format"
	"github.com/joshuapare/arenakit/internal/pages"
)

// Arena is one mapped region. The descriptor (size, block counts, ID) lives
// inside the region itself; Arena only caches the mapping and its release
// function.
type Arena struct {
	id      uint32
	data    []byte
	release func() error
}

// Map acquires a region large enough for a block with minUsable payload
// bytes, rounded up to a multiple of pageSize. It writes the descriptor,
// carves one free block spanning the entire usable span, and returns the
// arena. A failed page mapping propagates without anything to undo.
func Map(minUsable, pageSize int, id uint32) (*Arena, error) {
	if minUsable <= 0 {
		return nil, fmt.Errorf("arena: invalid usable size %d", minUsable)
	}
	if pageSize <= 0 || pageSize&(pageSize-1) != 0 {
		return nil, fmt.Errorf("arena: page size %d is not a power of two", pageSize)
	}
	raw, ok := buf.AddOverflowSafe(format.Align8(minUsable),
		format.DescriptorSize+format.BlockOverhead)
	if !ok {
		return nil, fmt.Errorf("arena: usable size %d overflows", minUsable)
	}
	rounded, ok := buf.AddOverflowSafe(raw, pageSize-1)
	if !ok {
		return nil, fmt.Errorf("arena: usable size %d overflows", minUsable)
	}
	total, ok := buf.MulOverflowSafe(rounded/pageSize, pageSize)
	if !ok || total > format.MaxArenaSize {
		return nil, fmt.Errorf("arena: region of %d bytes exceeds the %d byte limit",
			raw, format.MaxArenaSize)
	}

	data, release, err := pages.Map(total)
	if err != nil {
		return nil, err
	}

	format.WriteDescriptor(data, format.Descriptor{
		Size:   uint32(total),
		Blocks: 1,
		Free:   1,
		ID:     id,
	})

	// Master free block covering the whole usable span.
	payload := format.AlignDown8(total - format.DescriptorSize - format.BlockOverhead)
	format.WriteHeader(data, format.DescriptorSize, format.Header{
		Size:  uint32(payload),
		Flags: format.FlagFree,
		Arena: id,
	})
	format.WriteFooter(data, format.DescriptorSize)

	return &Arena{id: id, data: data, release: release}, nil
}

// Release returns the entire region (descriptor and blocks) to the OS in one
// call. Every header and footer inside becomes invalid. A failed release is
// reported; the arena must be treated as leaked and never retried.
func (a *Arena) Release() error {
	data := a.data
	a.data = nil
	if data == nil {
		return nil
	}
	return a.release()
}

// ID returns the arena's registry identifier.
func (a *Arena) ID() uint32 { return a.id }

// Bytes returns the full mapped region, descriptor included.
func (a *Arena) Bytes() []byte { return a.data }

// Size returns the total region size in bytes.
func (a *Arena) Size() int { return len(a.data) }

// Usable returns the span available for blocks (total minus descriptor).
func (a *Arena) Usable() int { return len(a.data) - format.DescriptorSize }

// BlockCount returns the number of blocks recorded in the descriptor.
func (a *Arena) BlockCount() uint32 {
	return format.ReadU32(a.data, format.DescBlockCountOffset)
}

// FreeCount returns the number of free blocks recorded in the descriptor.
func (a *Arena) FreeCount() uint32 {
	return format.ReadU32(a.data, format.DescFreeCountOffset)
}

// BumpBlockCount adjusts the descriptor's block count by delta.
func (a *Arena) BumpBlockCount(delta int32) {
	n := int32(a.BlockCount()) + delta
	format.PutU32(a.data, format.DescBlockCountOffset, uint32(n))
}

// BumpFreeCount adjusts the descriptor's free block count by delta.
func (a *Arena) BumpFreeCount(delta int32) {
	n := int32(a.FreeCount()) + delta
	format.PutU32(a.data, format.DescFreeCountOffset, uint32(n))
}

// FullSpan reports whether the arena holds exactly one block, that block is
// free, and it spans the whole usable span. Such an arena is eligible for
// release.
func (a *Arena) FullSpan() bool {
	if a.BlockCount() != 1 || a.FreeCount() != 1 {
		return false
	}
	h, err := format.ReadHeader(a.data, format.DescriptorSize)
	if err != nil || !h.Free() {
		return false
	}
	payload := format.AlignDown8(a.Size() - format.DescriptorSize - format.BlockOverhead)
	return int(h.Size) == payload
}

// BlockIter walks the blocks of one arena in address order.
type BlockIter struct {
	data []byte
	off  int
	end  int
}

// Blocks returns an iterator over the arena's blocks, first block first.
func (a *Arena) Blocks() *BlockIter {
	return &BlockIter{data: a.data, off: format.DescriptorSize, end: len(a.data)}
}

// Next returns the next block, or io.EOF once the usable span is exhausted.
func (it *BlockIter) Next() (format.Block, error) {
	// Trailing alignment slack smaller than a block terminates the walk.
	if it.off+format.BlockOverhead > it.end {
		return format.Block{}, io.EOF
	}
	blk, next, err := format.NextBlock(it.data, it.off)
	if err != nil {
		return format.Block{}, err
	}
	it.off = next
	return blk, nil
}
