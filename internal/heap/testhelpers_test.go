package heap

import "unsafe"

// withAsserts runs fn with the heap's assertion checks forced on, restoring
// the previous setting afterward — for tests that specifically exercise an
// assertf/assertChunk panic path.
func withAsserts(h *Heap, fn func()) {
	prev := h.assertsEnabled
	h.assertsEnabled = true

	defer func() { h.assertsEnabled = prev }()

	fn()
}

// unsafeByteSlice views n bytes starting at ptr as a byte slice, for tests
// that need to read or write a chunk's payload directly.
func unsafeByteSlice(ptr unsafe.Pointer, n uintptr) []byte {
	return unsafe.Slice((*byte)(ptr), n)
}
