package sfmm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMemalignInvalidAlign mirrors memalign_invalid_align: an alignment
// that isn't a power of two is rejected up front, before size is even
// looked at.
func TestMemalignInvalidAlign(t *testing.T) {
	h := newTestHeap(t, 4)
	p, err := h.Memalign(0, 4000)
	assert.Equal(t, Nil, p)
	assert.ErrorIs(t, err, ErrInvalidAlign)
}

// TestMemalignAcceptsHalfQAlign mirrors spec §4.8's literal lower bound:
// align need only be a power of two and at least Q/2, so Q/2 itself
// (PayloadAlign) is a valid alignment.
func TestMemalignAcceptsHalfQAlign(t *testing.T) {
	h := newTestHeap(t, 4)
	p, err := h.Memalign(100, PayloadAlign)
	require.NoError(t, err)
	require.NotEqual(t, Nil, p)
	assert.Zero(t, int64(p)%PayloadAlign)
}

func TestMemalignRejectsBelowHalfQAlign(t *testing.T) {
	h := newTestHeap(t, 4)
	p, err := h.Memalign(100, PayloadAlign/2)
	assert.Equal(t, Nil, p)
	assert.ErrorIs(t, err, ErrInvalidAlign)
}

// TestMemalignAlignsPayload mirrors memalign_test: the returned payload
// address must be a multiple of the requested alignment, the requested
// bytes must be usable, and the heap must stay internally consistent
// (no illegally sized splinters left behind).
func TestMemalignAlignsPayload(t *testing.T) {
	h := newTestHeap(t, 8)
	_ = mustMalloc(t, h, 8) // perturb the wilderness base away from a round boundary

	for _, align := range []int{32, 64, 128, 256, 1024} {
		p, err := h.Memalign(100, align)
		require.NoError(t, err, "align %d", align)
		require.NotEqual(t, Nil, p)
		assert.Zero(t, int64(p)%int64(align), "align %d", align)

		h.WritePayload(p, make([]byte, 100))

		_, err = h.Verify()
		require.NoError(t, err, "align %d", align)
	}
}

func TestMemalignZeroSizeReturnsNil(t *testing.T) {
	h := newTestHeap(t, 4)
	p, err := h.Memalign(0, 64)
	require.NoError(t, err)
	assert.Equal(t, Nil, p)
}

func TestMemalignLeavesNoSubMinSplinters(t *testing.T) {
	h := newTestHeap(t, 8)
	for i := 0; i < 20; i++ {
		_ = mustMalloc(t, h, 8)
		p, err := h.Memalign(48, 128)
		require.NoError(t, err)
		require.NotEqual(t, Nil, p)
	}

	for i := 0; i < NumFreeLists; i++ {
		s := sentinelAddr(i)
		for c := h.sentinels[i].next; c != s; c = h.getLink(c).next {
			sz := h.blockSize(c)
			assert.GreaterOrEqual(t, sz, int64(MinBlockSize))
			assert.Zero(t, sz%Q)
		}
	}

	_, err := h.Verify()
	require.NoError(t, err)
}
