package sfmm

// freeLink holds the prev/next pointers of one participant in a
// segregated free list: either a real block (whose link words live in
// its own payload, right after the header) or one of the fixed sentinel
// heads kept in Go memory.
//
// Sentinels never touch the Arena: they are identified by a negative
// addr, per sentinelAddr below, so every link-traversal function can stay
// branch-uniform over "real block or list head" exactly as spec §9
// Design Notes prescribes ("sentinel nodes ... represented as a fixed
// array of heads; list end is sentinel identity, not a null terminator").
// This mirrors the teacher's flt.go FLTSlot.Head()/SetHead() abstraction,
// generalized from a single integer slot id to a full prev/next pair.
type freeLink struct {
	prev, next addr
}

func sentinelAddr(i int) addr { return addr(-(i + 1)) }
func isSentinel(a addr) bool  { return a < 0 }
func sentinelIndex(a addr) int {
	return int(-a - 1)
}

func (h *Heap) getLink(a addr) freeLink {
	if isSentinel(a) {
		return h.sentinels[sentinelIndex(a)]
	}
	prev := h.readWord(a + WordSize)
	next := h.readWord(a + 2*WordSize)
	return freeLink{prev: addr(int64(prev)), next: addr(int64(next))}
}

func (h *Heap) setPrevLink(a, v addr) {
	if isSentinel(a) {
		s := h.sentinels[sentinelIndex(a)]
		s.prev = v
		h.sentinels[sentinelIndex(a)] = s
		return
	}
	h.writeWord(a+WordSize, uint64(v))
}

func (h *Heap) setNextLink(a, v addr) {
	if isSentinel(a) {
		s := h.sentinels[sentinelIndex(a)]
		s.next = v
		h.sentinels[sentinelIndex(a)] = s
		return
	}
	h.writeWord(a+2*WordSize, uint64(v))
}

// listInit resets list i to empty (its sentinel points to itself).
func (h *Heap) listInit(i int) {
	s := sentinelAddr(i)
	h.sentinels[i] = freeLink{prev: s, next: s}
}

func (h *Heap) listIsEmpty(i int) bool {
	s := sentinelAddr(i)
	return h.sentinels[i].next == s
}

// listInsertHead links a in immediately after list i's sentinel (LIFO),
// the insertion discipline required by the "freelist" scenario in §8
// (the most recently freed block of a given size is the first one
// reused).
func (h *Heap) listInsertHead(i int, a addr) {
	s := sentinelAddr(i)
	old := h.sentinels[i].next
	h.setPrevLink(a, s)
	h.setNextLink(a, old)
	h.setPrevLink(old, a)
	h.setNextLink(s, a)
}

// listRemove unlinks a from whatever list it currently sits on. a must be
// a real block address (never a sentinel).
func (h *Heap) listRemove(a addr) {
	link := h.getLink(a)
	h.setNextLink(link.prev, link.next)
	h.setPrevLink(link.next, link.prev)
}

// scanList performs a first-fit search of list i, returning the first
// block whose size is >= want.
func (h *Heap) scanList(i int, want int64) (addr, bool) {
	s := sentinelAddr(i)
	for cur := h.sentinels[i].next; cur != s; cur = h.getLink(cur).next {
		if h.blockSize(cur) >= want {
			return cur, true
		}
	}
	return 0, false
}
