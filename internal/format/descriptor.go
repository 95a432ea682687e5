package format

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/arenakit/internal/buf"
)

// Descriptor is the inline metadata at the start of every arena region.
// Layout (little-endian):
//
//	Offset  Size  Field
//	0x00    4     'A' 'R' 'N' 'A'
//	0x04    4     Total region size in bytes (descriptor included)
//	0x08    4     Block count
//	0x0C    4     Free block count
//	0x10    4     Arena ID echo
//	0x14    12    Reserved, zero
//
// The usable span of the region begins at DescriptorSize.
type Descriptor struct {
	Size   uint32
	Blocks uint32
	Free   uint32
	ID     uint32
}

// WriteDescriptor initializes the descriptor at the start of b.
func WriteDescriptor(b []byte, d Descriptor) {
	copy(b[DescSignatureOffset:DescSignatureOffset+SignatureSize], ArenaSignature)
	PutU32(b, DescSizeOffset, d.Size)
	PutU32(b, DescBlockCountOffset, d.Blocks)
	PutU32(b, DescFreeCountOffset, d.Free)
	PutU32(b, DescIDOffset, d.ID)
}

// ReadDescriptor validates and decodes the descriptor at the start of b.
func ReadDescriptor(b []byte) (Descriptor, error) {
	if !buf.Has(b, 0, DescriptorSize) {
		return Descriptor{}, fmt.Errorf("descriptor: %w", ErrTruncated)
	}
	if !bytes.Equal(b[DescSignatureOffset:DescSignatureOffset+SignatureSize], ArenaSignature) {
		return Descriptor{}, fmt.Errorf("descriptor: %w", ErrSignatureMismatch)
	}
	d := Descriptor{
		Size:   ReadU32(b, DescSizeOffset),
		Blocks: ReadU32(b, DescBlockCountOffset),
		Free:   ReadU32(b, DescFreeCountOffset),
		ID:     ReadU32(b, DescIDOffset),
	}
	if int(d.Size) != len(b) {
		return Descriptor{}, fmt.Errorf("descriptor: size %d does not match region length %d",
			d.Size, len(b))
	}
	return d, nil
}
