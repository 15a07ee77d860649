package sfmm

import "encoding/binary"

// addr is an offset into an Arena's address space (always satisfies
// Arena.Start() <= addr < Arena.End() for a live block). It plays the
// role the distilled spec calls "ptr" at the wire level, before the
// WordSize-byte header is skipped to reach the payload.
type addr = int64

// readWord and writeWord are the only places this package touches an
// Arena directly with a fixed-size buffer, mirroring how lldb.falloc's
// nfo/setHead helpers read and write through a Filer with small stack
// buffers (cznic/exp/lldb/falloc.go).
func (h *Heap) readWord(a addr) uint64 {
	var b [WordSize]byte
	h.arena.ReadAt(b[:], a)
	return binary.LittleEndian.Uint64(b[:])
}

func (h *Heap) writeWord(a addr, v uint64) {
	var b [WordSize]byte
	binary.LittleEndian.PutUint64(b[:], v)
	h.arena.WriteAt(b[:], a)
}

func packHeader(size int64, prevAlloc, thisAlloc bool) uint64 {
	w := uint64(size) & sizeMask
	if prevAlloc {
		w |= prevAllocBit
	}
	if thisAlloc {
		w |= thisAllocBit
	}
	return w
}

func unpackHeader(w uint64) (size int64, prevAlloc, thisAlloc bool) {
	size = int64(w & sizeMask)
	prevAlloc = w&prevAllocBit != 0
	thisAlloc = w&thisAllocBit != 0
	return
}

func (h *Heap) header(a addr) uint64        { return h.readWord(a) }
func (h *Heap) setHeader(a addr, w uint64)   { h.writeWord(a, w) }
func (h *Heap) footerAddr(a addr, size int64) addr { return a + size - WordSize }
func (h *Heap) footer(a addr, size int64) uint64   { return h.readWord(h.footerAddr(a, size)) }
func (h *Heap) setFooter(a addr, size int64, w uint64) {
	h.writeWord(h.footerAddr(a, size), w)
}

// setFreeBlock writes a consistent free block: header and mirrored footer.
func (h *Heap) setFreeBlock(a addr, size int64, prevAlloc bool) {
	w := packHeader(size, prevAlloc, false)
	h.setHeader(a, w)
	h.setFooter(a, size, w)
}

// setUsedBlock writes a consistent allocated block header. Allocated
// blocks carry no footer; that space belongs to the payload.
func (h *Heap) setUsedBlock(a addr, size int64, prevAlloc bool) {
	h.setHeader(a, packHeader(size, prevAlloc, true))
}

func payloadAddr(block addr) addr { return block + WordSize }
func blockAddr(payload addr) addr { return payload - WordSize }

func (h *Heap) blockSize(a addr) int64 {
	size, _, _ := unpackHeader(h.header(a))
	return size
}

func (h *Heap) isAllocated(a addr) bool {
	_, _, thisAlloc := unpackHeader(h.header(a))
	return thisAlloc
}

func (h *Heap) prevAllocOf(a addr) bool {
	_, prevAlloc, _ := unpackHeader(h.header(a))
	return prevAlloc
}

// setPrevAllocBit updates only the PREV_BLOCK_ALLOCATED bit of the block
// at a, keeping its size and THIS_BLOCK_ALLOCATED bit, and its footer (if
// free) in sync.
func (h *Heap) setPrevAllocBit(a addr, prevAlloc bool) {
	size, _, thisAlloc := unpackHeader(h.header(a))
	w := packHeader(size, prevAlloc, thisAlloc)
	h.setHeader(a, w)
	if !thisAlloc {
		h.setFooter(a, size, w)
	}
}

// alignUp rounds n up to the next multiple of q, q a power of two.
func alignUp(n, q int64) int64 {
	return (n + q - 1) &^ (q - 1)
}

func maxI64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

// requiredBlockSize computes S from a requested payload size, per §4:
// S = align_up(max(payload, Q/2) + WordSize, Q).
func requiredBlockSize(payload int64) int64 {
	return alignUp(maxI64(payload, PayloadAlign)+WordSize, Q)
}

// bandIndex maps a free block size to its segregated-list band, 0..8. The
// dedicated wilderness list (index 9) is never returned here; membership
// on it is a structural property (abutting the epilogue), not a function
// of size alone, and is maintained directly by the region manager and
// coalescing engine.
//
// The literal spec text gives band 2 as (2Q,3Q] and band 3 as
// (4Q,8Q], leaving sizes in (3Q,4Q] unrouted. This implementation closes
// that gap by extending band 2 up to 4Q (documented as a resolved open
// question in DESIGN.md); every other band is the literal
// (Q*2^(i-1), Q*2^i], with band 8 left unbounded above.
func bandIndex(size int64) int {
	switch {
	case size == Q:
		return 0
	case size == 2*Q:
		return 1
	case size <= 4*Q:
		return 2
	}
	for i := 3; i <= 7; i++ {
		upper := int64(Q) << uint(i)
		if size <= upper {
			return i
		}
	}
	return 8
}
