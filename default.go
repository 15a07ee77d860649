package sfmm

// DefaultMaxPages bounds the default heap's MemArena, chosen generously
// enough that ordinary test and CLI use never hits it by accident while
// still keeping the zero-configuration package-level API allocation-free
// at import time (the arena is only touched on first Malloc/Memalign).
const DefaultMaxPages = 1 << 16 // 256 MiB

var defaultHeap = New(NewMemArena(DefaultMaxPages))

// Reset replaces the package-level default heap's backing arena with a
// freshly constructed MemArena, discarding all of its state. It exists so
// tests can isolate the zero-configuration API the way each of the
// teacher's tests gets its own fresh MemFiler.
func Reset() {
	defaultHeap = New(NewMemArena(DefaultMaxPages))
}

// Malloc allocates size bytes of payload from the default heap.
func Malloc(size int) (Ptr, error) { return defaultHeap.Malloc(size) }

// Free releases p, allocated from the default heap, back to it.
func Free(p Ptr) error { return defaultHeap.Free(p) }

// Realloc resizes p, allocated from the default heap.
func Realloc(p Ptr, size int) (Ptr, error) { return defaultHeap.Realloc(p, size) }

// Memalign allocates size aligned bytes of payload from the default heap.
func Memalign(size, align int) (Ptr, error) { return defaultHeap.Memalign(size, align) }

// Errno reports the error left behind by the most recent default-heap
// call.
func Errno() error { return defaultHeap.Errno() }

// Verify checks the default heap's internal consistency.
func Verify() (*Stats, error) { return defaultHeap.Verify() }
