package sfmm

// Ptr is an opaque handle to an allocated block's payload, analogous to a
// C pointer but expressed as an addr so it can be validated cheaply and
// never aliases raw Go memory. The zero Ptr is never returned for a
// successful, non-zero-size allocation (the prologue guarantees every
// live payload address is > 0), so it doubles as "null".
//
// Grounded on lldb.Allocator's handle-returning Alloc/Get/Free/Realloc
// (cznic/exp/lldb/falloc.go) rather than on an unsafe.Pointer-based API:
// the teacher never hands callers a raw pointer into its Filer, and
// neither does this package into its Arena.
type Ptr addr

// Nil is the null Ptr, returned by a zero-size Malloc/Memalign and by a
// Realloc(p, 0).
const Nil Ptr = 0

// Malloc reserves a block able to hold size bytes of payload and returns
// a handle to it. A size of 0 returns (Nil, nil) without touching the
// heap, matching the distilled spec's "size 0 yields a null pointer,
// errno unset" rule.
func (h *Heap) Malloc(size int) (Ptr, error) {
	h.errno = nil
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
	b, idx, err := h.findOrGrow(want)
	if err != nil {
		return Nil, err
	}
	h.listRemove(b)
	h.commitBlock(b, idx, want)
	return Ptr(payloadAddr(b)), nil
}

// commitBlock carves block b (currently free, size blockSize(b), unlinked
// from list idx) down to exactly want bytes if the remainder would still
// be a legal block (>= MinBlockSize), otherwise hands the whole block out
// as-is to avoid leaving an unusable splinter — spec §4.4's split policy.
func (h *Heap) commitBlock(b addr, idx int, want int64) {
	bsize := h.blockSize(b)
	_, bprevAlloc, _ := unpackHeader(h.header(b))

	if bsize-want >= MinBlockSize {
		h.setUsedBlock(b, want, bprevAlloc)
		remAddr := b + want
		remSize := bsize - want
		h.setFreeBlock(remAddr, remSize, true)
		h.coalesceFree(remAddr, remSize)
		return
	}

	h.setUsedBlock(b, bsize, bprevAlloc)
	h.setPrevAllocBit(b+bsize, true)
	if idx == WildernessList {
		h.wilderness = noWilderness
	}
}

// Payload returns a copy of the bytes currently backing p's allocated
// block. Mutate it with WritePayload, not by writing into the returned
// slice, which is a snapshot and not a window into the Arena.
func (h *Heap) Payload(p Ptr) []byte {
	b := blockAddr(addr(p))
	size := h.blockSize(b)
	buf := make([]byte, size-WordSize)
	h.arena.ReadAt(buf, payloadAddr(b))
	return buf
}

// WritePayload copies data into the bytes backing p, starting at
// payload offset 0. It panics if data would overflow the block, which
// indicates a caller bug rather than a recoverable heap condition.
func (h *Heap) WritePayload(p Ptr, data []byte) {
	b := blockAddr(addr(p))
	size := h.blockSize(b)
	if int64(len(data)) > size-WordSize {
		panic("sfmm: WritePayload overflows allocated block")
	}
	h.arena.WriteAt(data, payloadAddr(b))
}
