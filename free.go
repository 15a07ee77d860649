package sfmm

// Free releases the block addressed by p back to the heap, coalescing it
// with any free neighbor.
//
// Per spec §6/§7: p == Nil is a silent no-op (mirrors free(NULL)). Any
// other failure of the C6 validity checks is a client contract violation,
// not a recoverable condition: there is no local recovery, and
// validateBlock aborts the process via fault instead of returning here.
func (h *Heap) Free(p Ptr) error {
	h.errno = nil
	if p == Nil {
		return nil
	}
	b := blockAddr(addr(p))
	h.validateBlock(b)

	size := h.blockSize(b)
	_, prevAlloc, _ := unpackHeader(h.header(b))
	h.setFreeBlock(b, size, prevAlloc)
	h.coalesceFree(b, size)
	return nil
}

// validateBlock performs the C6 validity checks spec §4.6/§7 item 3 call
// for before a block may be freed: range, alignment, size, allocation
// state, and agreement between the block's PREV_BLOCK_ALLOCATED bit and
// its left neighbor's own state. Per §7 item 3 these checks form a single
// fatal "client contract violation" category, not a mix of recoverable
// and fatal outcomes: any failure calls h.fault, which does not return.
func (h *Heap) validateBlock(b addr) {
	lowBound := h.prologueAddr + prologueSize
	if b < lowBound || b >= h.epilogueAddr {
		h.fault(b, "pointer out of range")
		return
	}
	if addr(payloadAddr(b))%PayloadAlign != 0 {
		h.fault(b, "pointer is not payload-aligned")
		return
	}
	size, prevAlloc, thisAlloc := unpackHeader(h.header(b))
	if size < MinBlockSize || size%Q != 0 {
		h.fault(b, "illegal block size")
		return
	}
	if b+size > h.epilogueAddr {
		h.fault(b, "block overruns the epilogue")
		return
	}
	if !thisAlloc {
		h.fault(b, "double free or pointer to a free block")
		return
	}

	if !prevAlloc {
		leftFooter := h.readWord(b - WordSize)
		lsize, _, lthisAlloc := unpackHeader(leftFooter)
		if lthisAlloc || lsize <= 0 || lsize > b-lowBound {
			h.fault(b, "PREV_BLOCK_ALLOCATED clear but left neighbor footer is inconsistent")
		}
	}
}
