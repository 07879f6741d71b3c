package heap

import "unsafe"

// Allocate dispatches a request of n bytes to the appropriate pool and
// returns the payload pointer, or nil on n==0 or out-of-memory. This is the
// heap-core half of ftmalloc's allocate(n); the public entry point layers
// the null-on-zero contract described in spec.md §4.9 on top, even though
// the dispatcher itself already rejects a zero request.
func (h *Heap) Allocate(n uintptr) unsafe.Pointer {
	h.Lock()
	defer h.Unlock()
	h.BuildPools()

	c := h.alloc(n)
	if c == nil {
		return nil
	}

	return c.payload()
}

// Release locates ptr's owning chunk and frees it. Silently does nothing
// for a null or unrecognized pointer.
func (h *Heap) Release(ptr unsafe.Pointer) {
	h.Lock()
	defer h.Unlock()
	h.BuildPools()
	h.dealloc(ptr)
}

// Resize implements resize(p, n) for a non-null p and non-zero n: reuse in
// place, grow in place, or allocate-copy-release. Returns nil if p is not a
// pointer this heap manages.
func (h *Heap) Resize(ptr unsafe.Pointer, n uintptr) unsafe.Pointer {
	h.Lock()
	defer h.Unlock()
	h.BuildPools()

	c, pool := findChunkByData(h, ptr)
	if c == nil {
		return nil
	}

	grown := h.resizeChunk(pool, c, n)
	if grown == nil {
		return nil
	}

	return grown.payload()
}

// Zero writes n zero bytes starting at ptr, one byte at a time; it stands in
// for the original source's ft_bzero8. n is always 16-aligned when called
// from zero-allocate.
func Zero(ptr unsafe.Pointer, n uintptr) {
	data := unsafe.Slice((*byte)(ptr), n)
	for i := range data {
		data[i] = 0
	}
}
