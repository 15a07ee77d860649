package sfmm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemArenaGrows(t *testing.T) {
	a := NewMemArena(4)
	require.Equal(t, int64(0), a.Start())
	require.Equal(t, int64(0), a.End())

	p0, err := a.GrowByOnePage()
	require.NoError(t, err)
	assert.EqualValues(t, 0, p0)
	assert.EqualValues(t, PageSize, a.End())

	p1, err := a.GrowByOnePage()
	require.NoError(t, err)
	assert.EqualValues(t, PageSize, p1)
	assert.EqualValues(t, 2*PageSize, a.End())
}

func TestMemArenaExhaustion(t *testing.T) {
	a := NewMemArena(1)
	_, err := a.GrowByOnePage()
	require.NoError(t, err)
	_, err = a.GrowByOnePage()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoMem)
}

func TestMemArenaReadWrite(t *testing.T) {
	a := NewMemArena(1)
	_, err := a.GrowByOnePage()
	require.NoError(t, err)

	want := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	a.WriteAt(want, 16)
	got := make([]byte, len(want))
	a.ReadAt(got, 16)
	assert.Equal(t, want, got)
}

func TestMemArenaOutOfRangePanics(t *testing.T) {
	a := NewMemArena(1)
	_, err := a.GrowByOnePage()
	require.NoError(t, err)
	assert.Panics(t, func() {
		a.ReadAt(make([]byte, 8), PageSize)
	})
}
