package sfmm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHeap(t *testing.T, maxPages int) *Heap {
	t.Helper()
	return New(NewMemArena(maxPages))
}

func TestEnsureInitInstallsOneWildernessBlock(t *testing.T) {
	h := newTestHeap(t, 4)
	require.NoError(t, h.ensureInit())

	assert.NotEqual(t, noWilderness, h.wilderness)
	assert.Equal(t, h.wilderness, h.sentinels[WildernessList].next)
	assert.True(t, h.listIsEmpty(0))

	wsize := h.blockSize(h.wilderness)
	stats, err := h.Verify()
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.FreeBlocks)
	assert.Zero(t, stats.AllocBlocks)
	assert.Equal(t, wsize, stats.FreeBytes)
}

func TestPayloadAddressesAreAligned(t *testing.T) {
	h := newTestHeap(t, 8)
	for _, n := range []int{1, 4, 8, 15, 16, 17, 100, 4096} {
		p, err := h.Malloc(n)
		require.NoError(t, err)
		require.NotEqual(t, Nil, p)
		assert.Zero(t, int64(p)%PayloadAlign, "size %d", n)
	}
}

func TestGrowOnePageExtendsWilderness(t *testing.T) {
	h := newTestHeap(t, 8)
	require.NoError(t, h.ensureInit())
	before := h.blockSize(h.wilderness)

	require.NoError(t, h.growOnePage())
	after := h.blockSize(h.wilderness)
	assert.Equal(t, before+PageSize, after)

	stats, err := h.Verify()
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.FreeBlocks)
}

func TestMallocTooLargeReportsNoMem(t *testing.T) {
	h := newTestHeap(t, 2)
	p, err := h.Malloc(PageSize * 100)
	assert.Equal(t, Nil, p)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoMem)
	assert.ErrorIs(t, h.Errno(), ErrNoMem)
}
