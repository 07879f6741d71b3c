// Package ftmalloc exposes the public allocator entry points: thin guards
// around the segregated-pool heap manager in internal/heap. The function
// names and contracts mirror the classical POSIX/GNU allocator (spec.md §6)
// so a caller can use this package directly, or link the cmd/ftmalloc-preload
// shared object to override a host process's allocator via LD_PRELOAD.
package ftmalloc

import (
	"io"
	"math"
	"unsafe"

	"github.com/orizon-lang/ftmalloc/internal/heap"
)

// Allocate returns a 16-byte-aligned pointer to n freshly allocated bytes,
// or nil on n==0 or out-of-memory.
func Allocate(n uintptr) unsafe.Pointer {
	if n == 0 {
		return nil
	}

	return heap.Global().Allocate(n)
}

// Release frees the allocation backing ptr. A null or unrecognized pointer
// is silently ignored.
func Release(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}

	heap.Global().Release(ptr)
}

// Resize changes the size of the allocation backing ptr, preserving the
// leading min(oldSize, n) bytes. resize(nil, n) behaves as Allocate(n);
// resize(p, 0) behaves as Release(p) and returns nil.
func Resize(ptr unsafe.Pointer, n uintptr) unsafe.Pointer {
	if ptr == nil {
		return Allocate(n)
	}

	if n == 0 {
		Release(ptr)
		return nil
	}

	return heap.Global().Resize(ptr, n)
}

// ZeroAllocate allocates space for m elements of size bytes each and zeroes
// it, guarding against the nmemb*size multiplication overflowing.
func ZeroAllocate(m, size uintptr) unsafe.Pointer {
	if m == 0 || size == 0 {
		return nil
	}

	if m > math.MaxInt32/size {
		return nil
	}

	total := m * size
	ptr := Allocate(total)
	if ptr == nil {
		return nil
	}

	heap.Zero(ptr, heap.AlignUp(total))

	return ptr
}

// CheckedResizeArray resizes ptr to hold m elements of size bytes each,
// guarding against the nmemb*size multiplication overflowing.
func CheckedResizeArray(ptr unsafe.Pointer, m, size uintptr) unsafe.Pointer {
	if m == 0 || size == 0 {
		return nil
	}

	if m > math.MaxInt32/size {
		return nil
	}

	return Resize(ptr, m*size)
}

// ShowAllocMem prints the allocator's live-chunk summary to w.
func ShowAllocMem(w io.Writer) {
	heap.Global().Summary(w)
}

// ShowAllocMemEx prints the allocator's full structured dump, including a
// hexdump of every live chunk's payload, to w.
func ShowAllocMemEx(w io.Writer) {
	heap.Global().Extended(w)
}

// DrawHeap prints a terminal-width-scaled visualization of each pool to w.
func DrawHeap(w io.Writer) error {
	return heap.Global().Draw(w)
}
