// Package format houses the low-level binary layout of arena regions: the
// inline arena descriptor and the boundary-tag (header + footer) metadata
// that brackets every block. The goal is to keep all offset arithmetic for
// the managed byte regions in one reviewed package, independent from the
// public API, so higher-level packages never touch raw field offsets.
package format

var (
	// ArenaSignature is the four-byte signature at the start of every
	// mapped arena region.
	// Layout (little-endian):
	//   0x00  'A' 'R' 'N' 'A'
	ArenaSignature = []byte{'A', 'R', 'N', 'A'}
)

const (
	// DescriptorSize is the size of the inline arena descriptor in bytes.
	// The usable block span of an arena begins immediately after it.
	DescriptorSize = 0x20

	// HeaderSize is the number of bytes used by the block header preceding
	// every payload (free or in-use).
	HeaderSize = 0x18

	// FooterSize is the number of bytes used by the trailing size echo at
	// the end of every block. The footer lets a neighbor recover the
	// previous block's header without a list scan.
	FooterSize = 0x08

	// BlockOverhead is the total metadata cost of one block.
	BlockOverhead = HeaderSize + FooterSize

	// MinPayload is the smallest payload a split remainder is allowed to
	// carry. Remainders below MinBlockSize are absorbed into the
	// allocation instead of becoming unusably small free fragments.
	MinPayload = 16

	// MinBlockSize is the split threshold: a free block is split only when
	// the remainder can hold a full boundary-tag pair plus MinPayload.
	MinBlockSize = BlockOverhead + MinPayload

	// Alignment is the required alignment of payload sizes and block
	// offsets within an arena.
	Alignment = 8

	// AlignmentMask is the bitmask used for aligning to 8-byte boundaries.
	AlignmentMask = Alignment - 1

	// MaxArenaSize is the maximum total size of a single arena. Block
	// offsets are carried in 32-bit reference fields, so a region can
	// never exceed 2 GiB.
	MaxArenaSize = 0x7FFFFFFF

	// Descriptor field offsets.
	DescSignatureOffset  = 0x00 // 4 bytes
	DescSizeOffset       = 0x04 // 4 bytes, total region size
	DescBlockCountOffset = 0x08 // 4 bytes
	DescFreeCountOffset  = 0x0C // 4 bytes
	DescIDOffset         = 0x10 // 4 bytes, arena ID echo

	// Header field offsets relative to the block start.
	HdrSizeOffset  = 0x00 // 4 bytes, payload size (excludes header/footer)
	HdrFlagsOffset = 0x04 // 4 bytes
	HdrArenaOffset = 0x08 // 4 bytes, owning arena ID
	HdrNextOffset  = 0x10 // 8 bytes, free-list successor Ref

	// FtrSizeOffset is the payload size echo relative to the footer start.
	FtrSizeOffset = 0x00

	// FlagFree marks a block as free. A free block's header Next field is
	// live; an in-use block's is meaningless and kept zeroed.
	FlagFree = 0x1

	// SignatureSize is the length of the arena signature.
	SignatureSize = 4
)
