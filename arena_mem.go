package sfmm

import (
	"fmt"

	"github.com/pkg/errors"
)

// MemArena is an Arena backed by a single Go byte slice that grows one
// page at a time. It never touches the operating system and is the
// default, portable backing used by every Heap test in this repository
// and by the package-level convenience
// API when no Arena is configured.
//
// Growth is bounded but otherwise ordinary Go slice growth: each
// GrowByOnePage call appends one more zeroed page to buf and advances the
// logical end, refusing once MaxPages is reached. Bounding it gives
// deterministic, cheap ENOMEM behavior for tests such as the
// "malloc_too_large" scenario without relying on the host actually having
// gigabytes of free memory, and nothing is allocated until the first page
// is actually grown.
//
// Grounded on lldb.MemFiler (cznic/exp/lldb/memfiler.go), which plays the
// same "byte storage with no backing file" role for the Filer interface.
type MemArena struct {
	buf      []byte
	start    int64
	end      int64
	maxPages int
}

// NewMemArena creates a MemArena able to grow up to maxPages pages of
// PageSize bytes before GrowByOnePage starts failing with ErrNoMem.
func NewMemArena(maxPages int) *MemArena {
	if maxPages <= 0 {
		maxPages = 1
	}
	return &MemArena{maxPages: maxPages}
}

func (a *MemArena) GrowByOnePage() (int64, error) {
	if int(a.end-a.start)/PageSize >= a.maxPages {
		return 0, errors.Wrapf(ErrNoMem, "sfmm: MemArena exhausted its %d-page budget", a.maxPages)
	}
	newPage := a.end
	a.buf = append(a.buf, make([]byte, PageSize)...)
	a.end += PageSize
	return newPage, nil
}

func (a *MemArena) Start() int64 { return a.start }
func (a *MemArena) End() int64   { return a.end }

func (a *MemArena) ReadAt(b []byte, off int64) {
	a.checkRange(off, len(b))
	copy(b, a.buf[off-a.start:])
}

func (a *MemArena) WriteAt(b []byte, off int64) {
	a.checkRange(off, len(b))
	copy(a.buf[off-a.start:], b)
}

func (a *MemArena) checkRange(off int64, n int) {
	if off < a.start || off+int64(n) > a.end {
		panic(fmt.Sprintf("sfmm: MemArena access [%d,%d) out of committed range [%d,%d)", off, off+int64(n), a.start, a.end))
	}
}
