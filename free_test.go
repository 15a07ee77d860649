package sfmm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMalloc(t *testing.T, h *Heap, n int) Ptr {
	t.Helper()
	p, err := h.Malloc(n)
	require.NoError(t, err)
	require.NotEqual(t, Nil, p)
	return p
}

// TestFreeNoCoalesce mirrors free_no_coalesce: freeing a block whose both
// neighbors are allocated must not merge it with anything; the heap ends
// up with exactly two free blocks, the reclaimed one and the wilderness
// remainder.
func TestFreeNoCoalesce(t *testing.T) {
	h := newTestHeap(t, 8)
	_ = mustMalloc(t, h, 8)
	y := mustMalloc(t, h, 200)
	_ = mustMalloc(t, h, 1)

	require.NoError(t, h.Free(y))

	sizes := freeBlockSizes(h)
	require.Len(t, sizes, 2)
	assert.Contains(t, sizes, requiredBlockSize(200))

	stats, err := h.Verify()
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.AllocBlocks)
}

// TestFreeCoalesce mirrors free_coalesce: freeing two adjacent blocks
// (in either order) merges them into one.
func TestFreeCoalesce(t *testing.T) {
	h := newTestHeap(t, 8)
	_ = mustMalloc(t, h, 8)
	x := mustMalloc(t, h, 200)
	y := mustMalloc(t, h, 300)
	_ = mustMalloc(t, h, 4)

	require.NoError(t, h.Free(y))
	require.NoError(t, h.Free(x))

	sizes := freeBlockSizes(h)
	require.Len(t, sizes, 2)
	assert.Contains(t, sizes, requiredBlockSize(200)+requiredBlockSize(300))

	_, err := h.Verify()
	require.NoError(t, err)
}

// TestFreelistLIFOOrdering mirrors the "freelist" scenario: equal-sized
// blocks are returned to their band in last-freed-first-reused order.
func TestFreelistLIFOOrdering(t *testing.T) {
	h := newTestHeap(t, 8)
	w := mustMalloc(t, h, 200)
	_ = mustMalloc(t, h, 300)
	x := mustMalloc(t, h, 200)
	_ = mustMalloc(t, h, 500)
	y := mustMalloc(t, h, 200)
	_ = mustMalloc(t, h, 700)

	require.NoError(t, h.Free(w))
	require.NoError(t, h.Free(x))
	require.NoError(t, h.Free(y))

	band := bandIndex(requiredBlockSize(200))
	require.NotEqual(t, WildernessList, band)
	first := h.sentinels[band].next
	assert.Equal(t, blockAddr(addr(y)), first, "the most recently freed same-size block must be reused first")

	_, err := h.Verify()
	require.NoError(t, err)
}

// TestFreeToWilderness mirrors free_to_wilderness: freeing the single
// allocated block, whose right neighbor is the wilderness, merges it back
// into the wilderness, which then spans every page grown so far (the
// region is never shrunk).
func TestFreeToWilderness(t *testing.T) {
	h := newTestHeap(t, 8)
	require.NoError(t, h.ensureInit())
	freeBefore := h.blockSize(h.wilderness)
	endBefore := h.arena.End()

	x := mustMalloc(t, h, 10000)
	require.NoError(t, h.Free(x))

	assert.Equal(t, freeBefore+(h.arena.End()-endBefore), h.blockSize(h.wilderness))
	assert.Equal(t, 1, countFreeBlocks(h))
}

// TestMallocSplitReusesFreedBlock mirrors malloc_split: freeing a
// mid-sized block and then requesting something smaller carves the
// freed block instead of growing the wilderness further.
func TestMallocSplitReusesFreedBlock(t *testing.T) {
	h := newTestHeap(t, 8)
	_ = mustMalloc(t, h, 400)
	y := mustMalloc(t, h, 200)
	_ = mustMalloc(t, h, 400)

	require.NoError(t, h.Free(y))
	before := h.arena.End()

	_ = mustMalloc(t, h, 100)
	assert.Equal(t, before, h.arena.End(), "reused the freed block instead of growing")

	_, err := h.Verify()
	require.NoError(t, err)
}

func TestFreeNilIsNoOp(t *testing.T) {
	h := newTestHeap(t, 4)
	assert.NoError(t, h.Free(Nil))
}

// TestFreeInvalidPointerIsFatal mirrors spec §7 item 3: any pointer that
// fails Free's C6 validity checks is a client contract violation with no
// local recovery, not a returnable error. raiseAbort is stubbed so the
// abort path falls through to its panic fallback instead of killing the
// test binary.
func TestFreeInvalidPointerIsFatal(t *testing.T) {
	h := newTestHeap(t, 4)
	p := mustMalloc(t, h, 16)

	old := raiseAbort
	raiseAbort = func() error { return errors.New("abort disabled for test") }
	defer func() { raiseAbort = old }()

	assert.Panics(t, func() { _ = h.Free(Ptr(int64(p) + 1)) })
	assert.Panics(t, func() { _ = h.Free(Ptr(h.arena.End() + 1000)) })

	require.NoError(t, h.Free(p))
}
