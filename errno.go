package sfmm

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrNoMem is returned (usually wrapped) when the region cannot grow far
// enough to satisfy a request.
var ErrNoMem = errors.New("sfmm: out of memory")

// ErrInvalidAlign is returned by Memalign when align is not a power of two
// that is also a multiple of the required pointer alignment.
var ErrInvalidAlign = errors.New("sfmm: invalid alignment")

// ErrInvalidSize is returned by Malloc/Realloc/Memalign for a negative
// requested size.
var ErrInvalidSize = errors.New("sfmm: invalid size")

// Errno reports the error left behind by the most recent call into h, or
// nil if that call succeeded. It exists for parity with a process-wide
// errno-style indicator; ordinary Go callers should just check the error
// return of the call itself.
func (h *Heap) Errno() error {
	return h.errno
}

func (h *Heap) setErrno(err error) error {
	h.errno = err
	return err
}

// fault reports an unrecoverable contract violation detected while
// validating a pointer handed back to Free or Realloc (a corrupted
// header, a pointer that was never allocated, a double free). Per spec
// §7 item 3, this is not a recoverable error: the process is aborted.
//
// Grounded on spec §7's "the implementation terminates the process by
// raising an abort signal" together with the corpus's logrus usage for
// structured diagnostics before the fatal exit.
func (h *Heap) fault(addr addr, reason string) {
	logrus.WithFields(logrus.Fields{
		"component": "sfmm",
		"address":   int64(addr),
		"reason":    reason,
	}).Error("fatal heap contract violation, aborting process")

	if err := raiseAbort(); err != nil {
		panic(fmt.Sprintf("sfmm: fatal heap contract violation at %d: %s (abort signal unavailable: %v)", int64(addr), reason, err))
	}
	// raiseAbort delivers SIGABRT asynchronously; block in case the
	// signal hasn't been handled by the time we'd otherwise return into
	// corrupted state.
	select {}
}

// raiseAbort is overridden in tests so the abort path is exercisable
// without actually killing the test binary.
var raiseAbort = func() error {
	return sendAbortSignal(os.Getpid())
}
