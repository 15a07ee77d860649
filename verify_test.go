package sfmm

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestVerifyAfterRandomOps runs a randomized sequence of malloc, free,
// realloc and memalign calls against a single heap and asserts that
// Verify reports no inconsistency after every single step.
func TestVerifyAfterRandomOps(t *testing.T) {
	h := newTestHeap(t, 256)
	rng := rand.New(rand.NewSource(1))

	var live []Ptr
	aligns := []int{32, 64, 128, 256}

	for step := 0; step < 2000; step++ {
		op := rng.Intn(4)
		switch {
		case op == 0 || len(live) == 0:
			size := rng.Intn(2000) + 1
			p, err := h.Malloc(size)
			if err == nil && p != Nil {
				live = append(live, p)
			}
		case op == 1:
			idx := rng.Intn(len(live))
			p := live[idx]
			live = append(live[:idx], live[idx+1:]...)
			require.NoError(t, h.Free(p))
		case op == 2:
			idx := rng.Intn(len(live))
			p := live[idx]
			size := rng.Intn(3000)
			np, err := h.Realloc(p, size)
			require.NoError(t, err)
			if np == Nil {
				live = append(live[:idx], live[idx+1:]...)
			} else {
				live[idx] = np
			}
		case op == 3:
			align := aligns[rng.Intn(len(aligns))]
			size := rng.Intn(500) + 1
			p, err := h.Memalign(size, align)
			if err == nil && p != Nil {
				live = append(live, p)
			}
		}

		if _, err := h.Verify(); err != nil {
			t.Fatalf("step %d: heap inconsistent: %v", step, err)
		}
	}
}
