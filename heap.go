package sfmm

import "github.com/pkg/errors"

// Heap is one independently managed allocator instance: one Arena, one
// segregated free-list index, one prologue/epilogue pair. It is not safe
// for concurrent use from multiple goroutines without external
// synchronization — per spec §5, callers own that responsibility.
//
// The zero Heap is not usable; construct one with New.
type Heap struct {
	arena Arena

	sentinels [NumFreeLists]freeLink

	inited       bool
	prologueAddr addr
	epilogueAddr addr
	wilderness   addr // addr of the current wilderness block, or noWilderness

	errno error
}

const noWilderness addr = -1000000

// New constructs an independent Heap over arena. The region is not
// touched (no page is grown) until the first Malloc/Memalign call,
// matching spec §5's lazy-initialization rule.
func New(arena Arena) *Heap {
	h := &Heap{arena: arena, wilderness: noWilderness}
	for i := range h.sentinels {
		h.listInit(i)
	}
	return h
}

// Arena returns the Arena backing h.
func (h *Heap) Arena() Arena { return h.arena }

// ensureInit performs the one-time region setup: grow one page, install
// the prologue and epilogue sentinels, and register the single resulting
// free block as the wilderness.
//
// Grounded on spec §4.2 (region manager) and, structurally, on
// lldb.Allocator's lazy root-handle setup in cznic/exp/lldb/falloc.go.
func (h *Heap) ensureInit() error {
	if h.inited {
		return nil
	}
	pageStart, err := h.arena.GrowByOnePage()
	if err != nil {
		return h.setErrno(errors.Wrap(err, "sfmm: initial page grow failed"))
	}

	// Choose the low pad so the prologue address is congruent to
	// (Q - WordSize) mod Q. Every later block address is congruent to the
	// prologue's (block sizes are always multiples of Q), so this single
	// choice guarantees two things for the whole heap's lifetime: every
	// payload address is 16-byte aligned (PayloadAlign == Q/2 divides Q),
	// and every payload address is also congruent to 0 mod Q — the
	// property Memalign's carve (memalign.go) relies on to avoid ever
	// producing an illegally-sized splinter.
	target := int64(Q - WordSize)
	lowPad := ((target - pageStart%Q) + Q) % Q

	h.prologueAddr = pageStart + lowPad
	h.setUsedBlock(h.prologueAddr, prologueSize, true) // no real predecessor; treat as allocated so nothing coalesces left of it

	wildernessAddr := h.prologueAddr + prologueSize
	h.epilogueAddr = h.arena.End() - epilogueSize
	wildernessSize := h.epilogueAddr - wildernessAddr

	h.setFreeBlock(wildernessAddr, wildernessSize, true)
	h.setHeader(h.epilogueAddr, packHeader(0, false, true))

	h.wilderness = wildernessAddr
	h.listInsertHead(WildernessList, wildernessAddr)

	h.inited = true
	return nil
}

// growOnePage extends the region by one page, merges the freshly
// committed space with the previous wilderness block (if any), and
// reinstalls the result as the new wilderness.
func (h *Heap) growOnePage() error {
	oldEpilogue := h.epilogueAddr
	_, prevAlloc, _ := unpackHeader(h.header(oldEpilogue))

	newStart, err := h.arena.GrowByOnePage()
	if err != nil {
		return h.setErrno(errors.Wrap(err, "sfmm: region growth failed"))
	}
	_ = newStart // the new page is contiguous with the old epilogue by construction

	newEpilogue := h.arena.End() - epilogueSize
	newFreeSize := newEpilogue - oldEpilogue

	h.setFreeBlock(oldEpilogue, newFreeSize, prevAlloc)
	h.setHeader(newEpilogue, packHeader(0, false, true))
	h.epilogueAddr = newEpilogue

	h.coalesceFree(oldEpilogue, newFreeSize)
	return nil
}

// coalesceFree takes a free block [a, a+size) that has not yet been
// linked into any free list, merges it with a free left and/or right
// neighbor (the four-case switch from spec §4.5), writes the consistent
// merged header/footer, updates the successor's PREV_BLOCK_ALLOCATED bit,
// and inserts the result onto the correct list — the wilderness list if
// the merged block now abuts the epilogue, the size-banded list
// otherwise. It returns the merged block's address and size.
//
// Grounded on lldb.Allocator.free2's latoms/ratoms four-way switch
// (cznic/exp/lldb/falloc.go).
func (h *Heap) coalesceFree(a addr, size int64) (addr, int64) {
	_, prevAllocBit, _ := unpackHeader(h.header(a))

	leftFree := false
	var leftAddr addr
	var leftSize int64
	var leftPrevAlloc bool
	if !prevAllocBit {
		leftFooter := h.readWord(a - WordSize)
		lsize, _, lthisAlloc := unpackHeader(leftFooter)
		leftSize = lsize
		leftAddr = a - lsize
		leftFree = !lthisAlloc
		if leftFree {
			_, leftPrevAlloc, _ = unpackHeader(h.header(leftAddr))
		}
	}

	rightAddr := a + size
	rsize, _, rthisAlloc := unpackHeader(h.header(rightAddr))
	rightFree := !rthisAlloc && rightAddr != h.epilogueAddr

	if leftFree {
		h.listRemove(leftAddr)
	}
	if rightFree {
		h.listRemove(rightAddr)
	}

	mergedAddr := a
	mergedSize := size
	mergedPrevAlloc := true
	if leftFree {
		mergedAddr = leftAddr
		mergedSize += leftSize
		mergedPrevAlloc = leftPrevAlloc
	}
	if rightFree {
		mergedSize += rsize
	}

	h.setFreeBlock(mergedAddr, mergedSize, mergedPrevAlloc)

	after := mergedAddr + mergedSize
	h.setPrevAllocBit(after, false)

	if after == h.epilogueAddr {
		h.wilderness = mergedAddr
		h.listInsertHead(WildernessList, mergedAddr)
	} else {
		h.listInsertHead(bandIndex(mergedSize), mergedAddr)
	}
	return mergedAddr, mergedSize
}

// findFit performs the first-fit search described in §4.3: starting at
// bandIndex(want), scan each list in increasing order, falling back to
// the wilderness block last.
func (h *Heap) findFit(want int64) (addr, int, bool) {
	start := bandIndex(want)
	for i := start; i <= 8; i++ {
		if b, ok := h.scanList(i, want); ok {
			return b, i, true
		}
	}
	if h.wilderness != noWilderness && h.blockSize(h.wilderness) >= want {
		return h.wilderness, WildernessList, true
	}
	return 0, 0, false
}

// findOrGrow repeats findFit, growing the region one page at a time,
// until a fit is found or growth fails.
func (h *Heap) findOrGrow(want int64) (addr, int, error) {
	for {
		if b, idx, ok := h.findFit(want); ok {
			return b, idx, nil
		}
		if err := h.growOnePage(); err != nil {
			return 0, 0, err
		}
	}
}
