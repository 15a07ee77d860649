package sfmm

// isPowerOfTwo reports whether n is a positive power of two.
func isPowerOfTwo(n int64) bool {
	return n > 0 && n&(n-1) == 0
}

// validAlign mirrors spec §4.8's memalign check: align must be a power of
// two and at least Q/2. Every block address this package ever creates is
// congruent mod Q to the prologue's address (see ensureInit), so a
// payload address already sits on a Q boundary; rounding it up to any
// align that is itself a multiple of Q can only ever produce an empty or
// already-legal, Q-sized splinter. The one align below Q this accepts,
// Q/2 itself, divides every payload address's existing Q-alignment, so
// alignUp is a no-op for it and the leading splinter is always empty.
func validAlign(align int64) bool {
	return isPowerOfTwo(align) && align >= PayloadAlign
}

// Memalign reserves a block of size bytes whose payload address is a
// multiple of align, returning a handle to it. align must be a power of
// two of at least Q/2; otherwise ErrInvalidAlign is reported before size
// is even inspected, matching memalign_invalid_align in
// original_source/tests/sfmm_tests.c. size == 0 (with a valid align)
// returns (Nil, nil), the same convention as Malloc(0).
//
// Grounded on spec §4.8's over-allocate/carve/return-splinters design; see
// validAlign for why the carve below never produces an illegally-sized
// splinter.
func (h *Heap) Memalign(size int, align int) (Ptr, error) {
	h.errno = nil
	if !validAlign(int64(align)) {
		return Nil, h.setErrno(ErrInvalidAlign)
	}
	if size < 0 {
		return Nil, h.setErrno(ErrInvalidSize)
	}
	if size == 0 {
		return Nil, nil
	}
	if err := h.ensureInit(); err != nil {
		return Nil, err
	}

	want := requiredBlockSize(int64(size))
	bigWant := want + int64(align)

	b, idx, err := h.findOrGrow(bigWant)
	if err != nil {
		return Nil, err
	}
	h.listRemove(b)

	bsize := h.blockSize(b)
	_, bprevAlloc, _ := unpackHeader(h.header(b))

	base := payloadAddr(b)
	alignedPayload := alignUp(base, int64(align))
	a := blockAddr(alignedPayload)

	leadGap := a - b
	trailGap := (b + bsize) - (a + want)

	if leadGap > 0 {
		h.setFreeBlock(b, leadGap, bprevAlloc)
		h.listInsertHead(bandIndex(leadGap), b)
	}

	aPrevAlloc := leadGap == 0 && bprevAlloc
	h.setUsedBlock(a, want, aPrevAlloc)

	end := b + bsize
	if trailGap > 0 {
		trailAddr := a + want
		h.setFreeBlock(trailAddr, trailGap, true)
		if end == h.epilogueAddr {
			h.wilderness = trailAddr
			h.listInsertHead(WildernessList, trailAddr)
		} else {
			h.listInsertHead(bandIndex(trailGap), trailAddr)
		}
		h.setPrevAllocBit(end, false)
	} else {
		h.setPrevAllocBit(end, true)
		if end == h.epilogueAddr && idx == WildernessList {
			h.wilderness = noWilderness
		}
	}

	return Ptr(alignedPayload), nil
}
