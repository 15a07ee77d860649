package sfmm

// Realloc resizes the block addressed by p to hold newSize bytes of
// payload, preserving its leading min(oldSize, newSize) payload bytes.
//
// Per the Open Question resolution in SPEC_FULL.md §9: Realloc(Nil, n)
// behaves like Malloc(n), and Realloc(p, 0) frees p and returns Nil.
func (h *Heap) Realloc(p Ptr, newSize int) (Ptr, error) {
	h.errno = nil
	if newSize < 0 {
		return Nil, h.setErrno(ErrInvalidSize)
	}
	if p == Nil {
		return h.Malloc(newSize)
	}
	if newSize == 0 {
		if err := h.Free(p); err != nil {
			return Nil, err
		}
		return Nil, nil
	}

	b := blockAddr(addr(p))
	h.validateBlock(b)

	oldSize := h.blockSize(b)
	want := requiredBlockSize(int64(newSize))

	// Per spec §4.7: S' > S always allocates a fresh block, copies, and
	// frees the old one; there is no in-place-grow case.
	if want > oldSize {
		return h.reallocByCopy(p, newSize)
	}

	h.shrinkInPlace(b, oldSize, want)
	return p, nil
}

// shrinkInPlace implements spec §4.7's shrink case: split off a trailing
// free remainder if it would be a legal block, otherwise leave the
// splinter attached to the still-allocated block (the
// "realloc_smaller_block_splinter" scenario).
func (h *Heap) shrinkInPlace(b addr, oldSize, want int64) {
	_, prevAlloc, _ := unpackHeader(h.header(b))
	if oldSize-want < MinBlockSize {
		return
	}
	h.setUsedBlock(b, want, prevAlloc)
	remAddr := b + want
	remSize := oldSize - want
	h.setFreeBlock(remAddr, remSize, true)
	h.coalesceFree(remAddr, remSize)
}

// reallocByCopy implements spec §4.7's S' > S case: allocate a fresh
// block, copy the old payload, free the old block.
func (h *Heap) reallocByCopy(p Ptr, newSize int) (Ptr, error) {
	newP, err := h.Malloc(newSize)
	if err != nil {
		return Nil, err
	}
	old := h.Payload(p)
	n := len(old)
	if n > newSize {
		n = newSize
	}
	h.WritePayload(newP, old[:n])
	if err := h.Free(p); err != nil {
		return Nil, err
	}
	return newP, nil
}
