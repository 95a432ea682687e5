package format

import (
	"fmt"

	"github.com/joshuapare/arenakit/internal/buf"
)

// Header is the per-block metadata prefix.
// Layout (little-endian, relative to the block start):
//
//	Offset  Size  Field
//	0x00    4     Payload size in bytes (excludes header and footer)
//	0x04    4     Flags. Bit 0 set => free.
//	0x08    4     Owning arena ID
//	0x0C    4     Reserved, zero
//	0x10    8     Free-list successor Ref. Valid only while FlagFree is set.
//
// The footer is an 8-byte trailer at the end of the payload holding the same
// payload size, so the following block can locate this header in O(1).
type Header struct {
	Size  uint32
	Flags uint32
	Arena uint32
	Next  uint64
}

// Free reports whether the header's free flag is set.
func (h Header) Free() bool { return h.Flags&FlagFree != 0 }

// Span returns the total byte span of a block with the given payload size.
func Span(payload uint32) int {
	return HeaderSize + int(payload) + FooterSize
}

// HeaderOf returns the header offset for a payload offset. The payload of a
// block begins immediately after its header.
func HeaderOf(payloadOff int) int { return payloadOff - HeaderSize }

// PayloadOf returns the payload offset for a header offset.
func PayloadOf(headerOff int) int { return headerOff + HeaderSize }

// ReadHeader decodes the block header at off. Every field read is bounds
// checked; the declared payload must keep the whole block inside the region
// and stay 8-byte aligned.
func ReadHeader(b []byte, off int) (Header, error) {
	if off < DescriptorSize || !buf.Has(b, off, HeaderSize) {
		return Header{}, fmt.Errorf("block: %w", ErrTruncated)
	}
	h := Header{
		Size:  ReadU32(b, off+HdrSizeOffset),
		Flags: ReadU32(b, off+HdrFlagsOffset),
		Arena: ReadU32(b, off+HdrArenaOffset),
		Next:  ReadU64(b, off+HdrNextOffset),
	}
	if h.Size == 0 || h.Size&AlignmentMask != 0 {
		return Header{}, fmt.Errorf("block: %w: payload size %d", ErrBadBlock, h.Size)
	}
	if !buf.Has(b, off, Span(h.Size)) {
		return Header{}, fmt.Errorf("block: %w", ErrTruncated)
	}
	return h, nil
}

// WriteHeader encodes h at off. Callers must follow any size change with
// WriteFooter so the boundary tags stay in agreement.
func WriteHeader(b []byte, off int, h Header) {
	PutU32(b, off+HdrSizeOffset, h.Size)
	PutU32(b, off+HdrFlagsOffset, h.Flags)
	PutU32(b, off+HdrArenaOffset, h.Arena)
	PutU32(b, off+0x0C, 0)
	PutU64(b, off+HdrNextOffset, h.Next)
}

// WriteFooter duplicates the header's payload size at the block's tail.
// Must be invoked after every mutation of the size field.
func WriteFooter(b []byte, off int) {
	size := ReadU32(b, off+HdrSizeOffset)
	ftr := off + HeaderSize + int(size)
	PutU32(b, ftr+FtrSizeOffset, size)
	PutU32(b, ftr+4, 0)
}

// ReadFooter returns the size echo stored in the footer of the block whose
// header is at off with the given payload size.
func ReadFooter(b []byte, off int, size uint32) (uint32, error) {
	ftr := off + HeaderSize + int(size)
	if !buf.Has(b, ftr, FooterSize) {
		return 0, fmt.Errorf("footer: %w", ErrTruncated)
	}
	return ReadU32(b, ftr+FtrSizeOffset), nil
}

// ForwardNeighbor returns the header offset of the block immediately
// following the block at off with the given payload size. The result is only
// meaningful while it lies within the region; callers bounds check it.
func ForwardNeighbor(off int, size uint32) int {
	return off + Span(size)
}

// BackwardNeighbor recovers the header offset of the block immediately
// preceding the block at off by reading the preceding footer. Returns
// ok = false when off is the first block of the region or the footer is
// implausible (out of bounds, unaligned, or disagreeing with the preceding
// block's own header).
func BackwardNeighbor(b []byte, off int) (int, bool) {
	if off <= DescriptorSize {
		return 0, false
	}
	ftr := off - FooterSize
	if ftr < DescriptorSize+HeaderSize {
		return 0, false
	}
	prevSize := ReadU32(b, ftr+FtrSizeOffset)
	if prevSize == 0 || prevSize&AlignmentMask != 0 {
		return 0, false
	}
	prevOff := off - Span(prevSize)
	if prevOff < DescriptorSize {
		return 0, false
	}
	if ReadU32(b, prevOff+HdrSizeOffset) != prevSize {
		return 0, false
	}
	return prevOff, true
}

// Block describes one decoded block for integrity walks.
type Block struct {
	Offset int    // Header offset within the region
	Size   uint32 // Payload size
	Free   bool
	Arena  uint32
}

// NextBlock decodes the block at off and returns it plus the offset of the
// following block. The caller must ensure off points at a block header; the
// first block of a region starts at DescriptorSize.
func NextBlock(b []byte, off int) (Block, int, error) {
	h, err := ReadHeader(b, off)
	if err != nil {
		return Block{}, 0, err
	}
	echo, err := ReadFooter(b, off, h.Size)
	if err != nil {
		return Block{}, 0, err
	}
	if echo != h.Size {
		return Block{}, 0, fmt.Errorf("block: %w: footer %d != header %d",
			ErrBadBlock, echo, h.Size)
	}
	return Block{
		Offset: off,
		Size:   h.Size,
		Free:   h.Free(),
		Arena:  h.Arena,
	}, off + Span(h.Size), nil
}
