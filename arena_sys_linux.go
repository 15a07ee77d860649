//go:build linux

package sfmm

import (
	"fmt"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// SysArena is an Arena backed by a real virtual-memory reservation: the
// full budget is reserved with PROT_NONE up front via mmap, and each
// GrowByOnePage commits exactly one more page with mprotect. This is the
// technique the Go runtime itself uses in mem_linux.go (sysReserve +
// sysMap) and is included here, alongside MemArena, to exercise
// golang.org/x/sys the way SeleniaProject-Orizon and several corpus
// repos do for low-level platform calls.
//
// SysArena is Linux-only; on other platforms construct a MemArena
// instead.
type SysArena struct {
	region   []byte
	start    int64
	end      int64
	maxPages int
}

// NewSysArena reserves maxPages*PageSize bytes of address space without
// committing it, returning a SysArena ready to GrowByOnePage.
func NewSysArena(maxPages int) (*SysArena, error) {
	if maxPages <= 0 {
		maxPages = 1
	}
	region, err := unix.Mmap(-1, 0, maxPages*PageSize, unix.PROT_NONE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, errors.Wrap(err, "sfmm: mmap reservation failed")
	}
	base := int64(uintptr(unsafe.Pointer(&region[0])))
	return &SysArena{
		region:   region,
		start:    base,
		end:      base,
		maxPages: maxPages,
	}, nil
}

func (a *SysArena) GrowByOnePage() (int64, error) {
	committed := int(a.end - a.start)
	if committed/PageSize >= a.maxPages {
		return 0, errors.Wrapf(ErrNoMem, "sfmm: SysArena exhausted its %d-page reservation", a.maxPages)
	}
	page := a.region[committed : committed+PageSize]
	if err := unix.Mprotect(page, unix.PROT_READ|unix.PROT_WRITE); err != nil {
		return 0, errors.Wrap(err, "sfmm: mprotect of new page failed")
	}
	newPage := a.end
	a.end += PageSize
	return newPage, nil
}

func (a *SysArena) Start() int64 { return a.start }
func (a *SysArena) End() int64   { return a.end }

func (a *SysArena) ReadAt(b []byte, off int64) {
	a.checkRange(off, len(b))
	copy(b, a.region[off-a.start:])
}

func (a *SysArena) WriteAt(b []byte, off int64) {
	a.checkRange(off, len(b))
	copy(a.region[off-a.start:], b)
}

func (a *SysArena) checkRange(off int64, n int) {
	if off < a.start || off+int64(n) > a.end {
		panic(fmt.Sprintf("sfmm: SysArena access [%d,%d) out of committed range [%d,%d)", off, off+int64(n), a.start, a.end))
	}
}

// Close releases the mmap reservation. It is not part of the Arena
// interface since MemArena needs no analogous step.
func (a *SysArena) Close() error {
	return unix.Munmap(a.region)
}
