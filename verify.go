package sfmm

import "github.com/pkg/errors"

// Stats summarizes one Heap's current region occupancy. Grounded on
// lldb.AllocStats (cznic/exp/lldb/falloc.go), trimmed to the quantities
// this format can report without a persisted file.
type Stats struct {
	TotalBytes  int64
	AllocBytes  int64
	AllocBlocks int
	FreeBytes   int64
	FreeBlocks  int
}

// Verify walks the entire managed region once, left to right, and the
// free-list index once, cross-checking every invariant from spec §3:
// block sizes are legal multiples of Q, no two free blocks are ever
// adjacent, every PREV_BLOCK_ALLOCATED bit agrees with its predecessor's
// real state, every free block's header mirrors its footer, every free
// block sits on exactly the list its size maps to (or the wilderness
// list, exactly when it abuts the epilogue), and every listed block was
// actually seen during the linear scan.
//
// It is read-only and safe to call at any point; an uninitialized Heap
// (one that has never grown a page) reports empty Stats and a nil error.
func (h *Heap) Verify() (*Stats, error) {
	stats := &Stats{}
	if !h.inited {
		return stats, nil
	}

	seenFree := make(map[addr]int64)
	cur := h.prologueAddr + prologueSize
	prevWasFree := false

	for cur != h.epilogueAddr {
		size, prevAlloc, thisAlloc := unpackHeader(h.header(cur))
		if size < MinBlockSize || size%Q != 0 {
			return nil, errors.Errorf("sfmm: illegal block size %d at %d", size, cur)
		}
		if cur+size > h.epilogueAddr {
			return nil, errors.Errorf("sfmm: block at %d of size %d overruns the epilogue", cur, size)
		}
		if prevAlloc != !prevWasFree {
			return nil, errors.Errorf("sfmm: PREV_BLOCK_ALLOCATED mismatch at %d", cur)
		}
		if thisAlloc {
			stats.AllocBytes += size
			stats.AllocBlocks++
		} else {
			if prevWasFree {
				return nil, errors.Errorf("sfmm: two adjacent free blocks ending at %d", cur)
			}
			if h.footer(cur, size) != h.header(cur) {
				return nil, errors.Errorf("sfmm: header/footer mismatch for free block at %d", cur)
			}
			stats.FreeBytes += size
			stats.FreeBlocks++
			seenFree[cur] = size
		}
		prevWasFree = !thisAlloc
		cur += size
	}
	stats.TotalBytes = h.epilogueAddr + epilogueSize - h.prologueAddr

	listed := 0
	for i := 0; i < NumFreeLists; i++ {
		s := sentinelAddr(i)
		for c := h.sentinels[i].next; c != s; c = h.getLink(c).next {
			size, ok := seenFree[c]
			if !ok {
				return nil, errors.Errorf("sfmm: free list %d references block %d not found by linear scan", i, c)
			}
			wantsWilderness := c+size == h.epilogueAddr
			if wantsWilderness != (i == WildernessList) {
				return nil, errors.Errorf("sfmm: block %d at size %d misfiled on list %d", c, size, i)
			}
			if i != WildernessList && bandIndex(size) != i {
				return nil, errors.Errorf("sfmm: block %d of size %d misfiled on list %d (want %d)", c, size, i, bandIndex(size))
			}
			listed++
			delete(seenFree, c)
		}
	}
	if len(seenFree) != 0 {
		return nil, errors.Errorf("sfmm: %d free blocks are not linked into any free list", len(seenFree))
	}
	if listed != stats.FreeBlocks {
		return nil, errors.Errorf("sfmm: free list total %d disagrees with linear scan total %d", listed, stats.FreeBlocks)
	}
	return stats, nil
}
