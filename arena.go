package sfmm

import "github.com/pkg/errors"

// Arena is the page-grow primitive the region manager (C2) builds on. It
// models one contiguous, growable address range: Start and End never
// change except that End moves up by exactly PageSize on every successful
// GrowByOnePage.
//
// Grounded on lldb.Filer (cznic/exp/lldb/filer.go): a byte-addressable
// storage resource read and written through ReadAt/WriteAt rather than
// raw pointers, with growth as an explicit verb instead of implicit OS
// paging.
type Arena interface {
	// GrowByOnePage extends the managed region by PageSize bytes and
	// returns the address at which the new page begins (== the old End).
	// It wraps ErrNoMem when the arena has no more room to grow.
	GrowByOnePage() (int64, error)

	// Start is the lowest address ever returned by GrowByOnePage, i.e. the
	// low boundary of the managed region. It is constant for the life of
	// the Arena.
	Start() int64

	// End is the current high boundary of the managed region (exclusive).
	End() int64

	// ReadAt copies len(b) bytes starting at off into b. The range
	// [off, off+len(b)) must lie within [Start(), End()).
	ReadAt(b []byte, off int64)

	// WriteAt copies b into the region starting at off. The range
	// [off, off+len(b)) must lie within [Start(), End()).
	WriteAt(b []byte, off int64)
}

// ErrArenaExhausted is a sentinel for an exhausted Arena. MemArena and
// SysArena do not return it; when they refuse to grow further they return
// a wrapped ErrNoMem.
var ErrArenaExhausted = errors.New("sfmm: arena exhausted")
