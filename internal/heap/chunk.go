package heap

import "unsafe"

// chunkHeader is the in-band metadata immediately preceding every payload.
// It is written directly into a pool's mmap'd arena (tiny/small pools) or
// into a large chunk's own individual mapping; next/prev are raw pointers
// into that same memory, the Go analogue of the original source's
// `t_chunk* next/prev` — see SPEC_FULL.md §9 on why this stays unsafe.Pointer
// based rather than an offset/serialized encoding.
type chunkHeader struct {
	size uintptr
	used bool
	next *chunkHeader
	prev *chunkHeader
}

// headerSize is the 16-aligned footprint of chunkHeader, computed once.
var headerSize = alignUp(uintptr(unsafe.Sizeof(chunkHeader{})))

// chunkAt reinterprets the bytes at ptr as a chunk header. ptr must point at
// a previously-built chunk; callers never construct a header from arbitrary
// memory.
func chunkAt(ptr unsafe.Pointer) *chunkHeader {
	return (*chunkHeader)(ptr)
}

// addr returns c's own address as a comparable/arithmetic-capable uintptr.
func (c *chunkHeader) addr() uintptr {
	return uintptr(unsafe.Pointer(c))
}

// totalSize is header-plus-payload: the span this chunk physically occupies.
func (c *chunkHeader) totalSize() uintptr {
	return headerSize + c.size
}

// payload returns the address handed out to callers.
func (c *chunkHeader) payload() unsafe.Pointer {
	return unsafe.Pointer(c.addr() + headerSize)
}

// end returns the address immediately after this chunk's span — where the
// next physically-adjacent chunk, if any, must begin.
func (c *chunkHeader) end() unsafe.Pointer {
	return unsafe.Pointer(c.addr() + c.totalSize())
}

// chunkFromPayload recovers the header for a previously-returned payload
// pointer.
func chunkFromPayload(ptr unsafe.Pointer) *chunkHeader {
	return (*chunkHeader)(unsafe.Pointer(uintptr(ptr) - headerSize))
}

// buildPoolChunk allocates a brand-new chunk at the pool's frontier. The
// caller guarantees requested+header fits pool.maxChunkSize; returns nil if
// the reservation's unmapped tail is too small.
func buildPoolChunk(pool *Pool, requested uintptr) *chunkHeader {
	dataSize := alignUp(requested)
	total := headerSize + dataSize
	assertf(pool.heap, total <= pool.maxChunkSize, "buildPoolChunk: chunk_size > pool.maxChunkSize")

	if pool.unmappedRoom() < total {
		return nil
	}

	c := chunkAt(unsafe.Pointer(&pool.arena[pool.unmapped-pool.base()]))
	*c = chunkHeader{size: dataSize, used: true, prev: pool.lastChunk}

	if pool.chunks == nil {
		pool.chunks = c
	} else {
		pool.lastChunk.next = c
	}

	pool.lastChunk = c
	pool.unmapped = c.addr() + total

	if end := pool.base() + pool.size; pool.unmapped > end {
		pool.unmapped = end
	}

	assertf(pool.heap, pool.unmapped <= pool.base()+pool.size, "buildPoolChunk: unmapped out of bounds")
	assertChunk(pool.heap, c)

	return c
}

// mergeTwoChunks folds b into a, a's immediate right neighbour.
func mergeTwoChunks(pool *Pool, a, b *chunkHeader) {
	assertf(pool.heap, a.next == b && b.prev == a, "mergeTwoChunks: chunks are not adjacent")

	a.size += b.totalSize()
	a.next = b.next

	if b.next != nil {
		b.next.prev = a
	}

	if pool.lastChunk == b {
		pool.lastChunk = a
	}

	if pool.freeChunks == b {
		pool.freeChunks = a
	}

	assertChunk(pool.heap, a)
}

// canSplitChunk reports whether chunk can be divided into a used left half
// of splitSize bytes and a free right remainder of at least
// pool.minChunkSize.
func canSplitChunk(pool *Pool, c *chunkHeader, splitSize uintptr) bool {
	if pool.size == 0 {
		return false
	}

	total := c.totalSize()
	left := splitSize + headerSize

	if total < left+headerSize {
		return false
	}

	right := total - left
	if right < pool.minChunkSize {
		return false
	}

	return true
}

// splitPoolChunk divides chunk into a used left half sized for requested
// and a free right half, then coalesces the right half with whatever
// follows it. Returns the (possibly merged/shifted) right-hand remainder.
func splitPoolChunk(pool *Pool, c *chunkHeader, requested uintptr) *chunkHeader {
	size := alignUp(requested)
	assertf(pool.heap, canSplitChunk(pool, c, size), "splitPoolChunk: cannot split")

	total := c.totalSize()
	left := size + headerSize
	right := total - left

	rc := chunkAt(unsafe.Pointer(uintptr(unsafe.Pointer(c)) + left))
	*rc = chunkHeader{size: right - headerSize, used: false, next: c.next, prev: c}

	if c.next != nil {
		c.next.prev = rc
	}

	c.size = size
	c.used = true
	c.next = rc

	if pool.lastChunk == c {
		pool.lastChunk = rc
	}

	pool.freeChunks = nil
	pool.freeChunks = findNextUnusedChunk(pool, nil, 0)

	merged := mergePoolChunks(pool, rc)
	assertChunk(pool.heap, c)
	assertChunk(pool.heap, merged)

	return merged
}

// mergePoolChunks absorbs every free neighbour rightward, then every free
// neighbour leftward, preserving the no-adjacent-free-chunks invariant.
func mergePoolChunks(pool *Pool, c *chunkHeader) *chunkHeader {
	next := c.next
	for next != nil && !next.used {
		mergeTwoChunks(pool, c, next)
		next = c.next
	}

	prev := c.prev
	for prev != nil && !prev.used {
		mergeTwoChunks(pool, prev, c)
		c = prev
		prev = c.prev
	}

	return c
}

// findNextUnusedChunk returns the first free chunk of at least size
// starting from start; a nil start first consults the free-chunk hint
// before falling back to the pool head.
func findNextUnusedChunk(pool *Pool, start *chunkHeader, size uintptr) *chunkHeader {
	c := start

	if c == nil {
		if pool.freeChunks != nil && !pool.freeChunks.used && pool.freeChunks.size >= size {
			return pool.freeChunks
		}

		c = pool.chunks
	}

	for c != nil && (c.used || c.size < size) {
		c = c.next
	}

	if c != nil {
		assertChunk(pool.heap, c)
	}

	return c
}

// growPoolChunk attempts to satisfy a new requested size for a non-large
// pool chunk in place: no-op if already big enough, extend at the frontier
// if it is the tail, or merge-then-split with a free right neighbour.
// Returns nil if none of those apply.
func growPoolChunk(pool *Pool, c *chunkHeader, newRequested uintptr) *chunkHeader {
	newSize := alignUp(newRequested)
	newTotal := newSize + headerSize

	if newSize <= c.size {
		return c
	}

	if newTotal > pool.maxChunkSize {
		return nil
	}

	if c.next == nil {
		if pool.unmappedRoom() < newTotal {
			return nil
		}

		c.size = newSize
		pool.unmapped = c.addr() + newTotal

		return c
	}

	if !c.next.used && c.next.totalSize()+c.totalSize() >= newTotal {
		mergeTwoChunks(pool, c, c.next)

		if canSplitChunk(pool, c, newSize) {
			splitPoolChunk(pool, c, newRequested)
		}

		return c
	}

	return nil
}

// updatePoolSmallestFreedChunk refreshes the free-chunk hint if chunk is a
// smaller candidate than whatever is currently cached.
func updatePoolSmallestFreedChunk(pool *Pool, c *chunkHeader) {
	if pool.freeChunks == nil || c.size < pool.freeChunks.size {
		pool.freeChunks = c
	}
}
