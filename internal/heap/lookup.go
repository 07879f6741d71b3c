package heap

import "unsafe"

// findChunkByData walks each non-large pool, then the large pool's
// registry, looking for the chunk backing ptr. Returns the chunk and its
// owning pool, or (nil, nil) if ptr belongs to no pool this heap manages.
func findChunkByData(h *Heap, ptr unsafe.Pointer) (*chunkHeader, *Pool) {
	for _, pool := range h.orderedPools() {
		if c := findPoolChunkByData(pool, ptr); c != nil {
			return c, pool
		}
	}

	if c := findPoolChunkByData(&h.large, ptr); c != nil {
		return c, &h.large
	}

	return nil, nil
}
