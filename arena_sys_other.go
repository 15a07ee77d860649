//go:build !linux

package sfmm

import "github.com/pkg/errors"

// ErrSysArenaUnsupported is returned by NewSysArena on platforms other
// than Linux; use MemArena there instead.
var ErrSysArenaUnsupported = errors.New("sfmm: SysArena is only implemented on linux")

// NewSysArena is unavailable outside Linux.
func NewSysArena(maxPages int) (*SysArena, error) {
	return nil, ErrSysArenaUnsupported
}

// SysArena is an unusable placeholder type on non-Linux platforms, present
// only so code can reference *SysArena without build tags.
type SysArena struct{}

func (a *SysArena) GrowByOnePage() (int64, error)  { return 0, ErrSysArenaUnsupported }
func (a *SysArena) Start() int64                   { return 0 }
func (a *SysArena) End() int64                      { return 0 }
func (a *SysArena) ReadAt(b []byte, off int64)      {}
func (a *SysArena) WriteAt(b []byte, off int64)     {}
func (a *SysArena) Close() error                    { return nil }
