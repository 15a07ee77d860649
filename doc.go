// Package sfmm implements a boundary-tag, segregated-free-list dynamic
// storage allocator over a pluggable, growable arena.
//
// A Heap manages one contiguous address range delimited by an allocated
// prologue sentinel at the low end and a zero-size epilogue sentinel at
// the high end. Free blocks carry both a header and a footer so that a
// block's left neighbor can always be located in constant time; a
// PREV_BLOCK_ALLOCATED bit in every header lets the allocator skip that
// footer lookup whenever the left neighbor is itself allocated. Ten
// segregated free lists index free blocks by size band, with the last
// list reserved exclusively for the "wilderness" block abutting the
// epilogue.
//
// The package keeps one implicit default Heap for the zero-configuration
// Malloc/Free/Realloc/Memalign functions, and New for callers who want an
// independent instance over their own Arena. Like the region it manages,
// a Heap is not safe for concurrent use: callers synchronize externally.
package sfmm
