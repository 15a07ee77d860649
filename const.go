package sfmm

// Tunable constants from the block format and region manager. These are
// part of the public contract: any Arena implementation and any client
// computing its own expected sizes must agree with them.
const (
	// WordSize is the width of a header or footer word, in bytes.
	WordSize = 8

	// Q is the block alignment quantum. Every block size is a multiple of
	// Q and every block address is congruent to Q - WordSize modulo Q, so
	// that payload addresses (block address + WordSize) land on a Q
	// boundary, and therefore on a PayloadAlign boundary.
	Q = 32

	// PayloadAlign is the alignment guaranteed for every pointer returned
	// by Malloc/Realloc (Memalign may promise something stronger).
	PayloadAlign = Q / 2

	// MinBlockSize is the smallest block the allocator will ever hand out
	// or keep on a free list; it must be big enough to hold a header, the
	// two free-list links, and a footer.
	MinBlockSize = Q

	// NumFreeLists is the size of the segregated free-list index,
	// including the dedicated wilderness list.
	NumFreeLists = 10

	// WildernessList is the index reserved exclusively for the block (if
	// any) abutting the epilogue.
	WildernessList = NumFreeLists - 1

	// PageSize is the unit by which the region manager grows the managed
	// region.
	PageSize = 4096

	// prologueSize is the size, in bytes, of the allocated sentinel block
	// installed at the low end of the managed region.
	prologueSize = Q

	// epilogueSize is the width of the zero-size sentinel header
	// installed at the high end of the managed region.
	epilogueSize = WordSize
)

const (
	thisAllocBit = uint64(1) << 0
	prevAllocBit = uint64(1) << 4
	sizeMask     = ^uint64(Q - 1)
)

// headerBand describes one segregated-free-list band. Lo is exclusive, Hi
// is inclusive; Hi == 0 means unbounded.
type headerBand struct {
	Lo, Hi int64
}
