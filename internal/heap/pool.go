package heap

import "unsafe"

// Pool is a homogeneous region-plus-list: either a single contiguous mmap'd
// reservation tiled by an intrusive chunk list (tiny/small), or — when size
// is 0 — a registry of individually mapped large chunks.
type Pool struct {
	heap *Heap

	slug          string
	size          uintptr
	minChunkSize  uintptr
	maxChunkSize  uintptr

	arena    []byte // nil until first use; large pool never sets this
	unmapped uintptr

	chunks, lastChunk *chunkHeader
	freeChunks        *chunkHeader

	// largeBacking retains each large chunk's own mapping so it can be
	// handed back to Munmap; grounded on the teacher's
	// internal/allocator.SystemAllocatorImpl.allocatedSlices pattern of
	// keeping a pointer->slice table so the GC-invisible mapping stays
	// reachable and munmap-able.
	largeBacking map[*chunkHeader][]byte
}

func (p *Pool) isLarge() bool { return p.size == 0 }

// base returns the address of the reservation's first byte, or 0 before the
// pool has been reserved.
func (p *Pool) base() uintptr {
	if len(p.arena) == 0 {
		return 0
	}

	return uintptr(unsafe.Pointer(&p.arena[0]))
}

// reserved reports whether the pool's backing reservation has been mapped.
func (p *Pool) reserved() bool {
	return p.isLarge() || p.arena != nil
}

// unmappedRoom returns the number of untouched bytes left in the reservation.
func (p *Pool) unmappedRoom() uintptr {
	end := p.base() + p.size
	if end < p.unmapped {
		return 0
	}

	return end - p.unmapped
}

// contains reports whether ptr falls within the tiled portion of the
// reservation — an O(1) rejection before any list walk.
func (p *Pool) contains(ptr unsafe.Pointer) bool {
	if p.isLarge() || p.arena == nil {
		return false
	}

	addr := uintptr(ptr)

	return addr >= p.base() && addr < p.unmapped
}

// initPool reserves the pool's backing mapping on first use. The large pool
// never reserves and always reports success.
func initPool(p *Pool) bool {
	if p.reserved() {
		return true
	}

	arena, err := p.heap.mapper.Mmap(int(p.size))
	if err != nil {
		return false
	}

	p.arena = arena
	p.unmapped = uintptr(unsafe.Pointer(&arena[0]))

	return true
}

// allocatePoolChunk satisfies a request from a non-large pool: reuse a free
// chunk (splitting it if there is surplus room), or build a fresh one at the
// frontier. Returns nil on an exhausted frontier.
func allocatePoolChunk(pool *Pool, requested uintptr) *chunkHeader {
	size := alignUp(requested)
	assertf(pool.heap, size+headerSize <= pool.maxChunkSize, "allocatePoolChunk: requested exceeds pool.maxChunkSize")

	c := findNextUnusedChunk(pool, nil, size)
	if c == nil {
		return buildPoolChunk(pool, requested)
	}

	if canSplitChunk(pool, c, size) {
		splitPoolChunk(pool, c, requested)
		pool.freeChunks = findNextUnusedChunk(pool, c.next, 0)
	} else {
		c.used = true
		pool.freeChunks = nil
		pool.freeChunks = findNextUnusedChunk(pool, nil, 0)
	}

	assertChunk(pool.heap, c)

	return c
}

// releasePoolChunk marks chunk free, coalesces it with its neighbours, and
// retracts the frontier if the (possibly merged) chunk is now the tail.
// Always succeeds.
func releasePoolChunk(pool *Pool, c *chunkHeader) bool {
	assertf(pool.heap, c.used, "releasePoolChunk: chunk is not used")

	c.used = false
	c = mergePoolChunks(pool, c)

	if c.next == nil {
		if pool.chunks == c {
			pool.chunks = nil
		}

		pool.lastChunk = c.prev
		if c.prev != nil {
			c.prev.next = nil
		}

		pool.unmapped = c.addr()
		pool.freeChunks = nil
		pool.freeChunks = findNextUnusedChunk(pool, nil, 0)
	} else {
		updatePoolSmallestFreedChunk(pool, c)
	}

	return true
}

// largeChunkSize computes the page-rounded total mapping size and the
// resulting payload size for a large-pool chunk sized for requested bytes.
// Both buildLargePoolChunk and growLargePoolChunk share this rule; the
// original source's grow path computed it inconsistently with its build
// path (see DESIGN.md) — this module applies the build rule uniformly.
func largeChunkSize(requested, pageSize uintptr) (chunkSize, dataSize uintptr) {
	chunkSize = alignUpTo(alignUp(requested)+headerSize, pageSize)
	if chunkSize == alignUp(requested) {
		chunkSize += pageSize
	}

	dataSize = chunkSize - headerSize

	return chunkSize, dataSize
}

// buildLargePoolChunk maps a fresh region sized for requested and links it
// as the new tail of the large pool's registry.
func buildLargePoolChunk(pool *Pool, requested uintptr) *chunkHeader {
	chunkSize, dataSize := largeChunkSize(requested, pool.heap.pageSize)
	if chunkSize > pool.heap.rlimitSoft {
		return nil
	}

	mem, err := pool.heap.mapper.Mmap(int(chunkSize))
	if err != nil {
		return nil
	}

	c := chunkAt(unsafe.Pointer(&mem[0]))
	*c = chunkHeader{size: dataSize, used: true, prev: pool.lastChunk}

	if pool.chunks == nil {
		pool.chunks = c
	} else {
		pool.lastChunk.next = c
	}

	pool.lastChunk = c
	pool.largeBacking[c] = mem
	assertChunk(pool.heap, c)

	return c
}

// releaseLargePoolChunk unlinks chunk from the large registry and unmaps its
// backing region. Reports failure if the unmap itself fails.
func releaseLargePoolChunk(pool *Pool, c *chunkHeader) bool {
	assertf(pool.heap, c.used, "releaseLargePoolChunk: chunk is not used")

	if c.prev != nil {
		c.prev.next = c.next
	}

	if c.next != nil {
		c.next.prev = c.prev
	}

	if pool.chunks == c {
		pool.chunks = c.next
	}

	if pool.lastChunk == c {
		pool.lastChunk = c.prev
	}

	mem := pool.largeBacking[c]
	delete(pool.largeBacking, c)

	return pool.heap.mapper.Munmap(mem) == nil
}

// growLargePoolChunk maps a fresh, larger region, copies the old payload,
// splices the new chunk into the large registry in place of the old one,
// and unmaps the old region.
func growLargePoolChunk(pool *Pool, c *chunkHeader, newRequested uintptr) *chunkHeader {
	chunkSize, dataSize := largeChunkSize(newRequested, pool.heap.pageSize)
	if chunkSize > pool.heap.rlimitSoft {
		return nil
	}

	mem, err := pool.heap.mapper.Mmap(int(chunkSize))
	if err != nil {
		return nil
	}

	nc := chunkAt(unsafe.Pointer(&mem[0]))
	*nc = chunkHeader{size: dataSize, used: true, next: c.next, prev: c.prev}

	if c.next != nil {
		c.next.prev = nc
	}

	if c.prev != nil {
		c.prev.next = nc
	}

	if pool.chunks == c {
		pool.chunks = nc
	}

	if pool.lastChunk == c {
		pool.lastChunk = nc
	}

	old := pool.largeBacking[c]
	copyMemory8(nc.payload(), c.payload(), c.size)
	delete(pool.largeBacking, c)
	pool.largeBacking[nc] = mem

	_ = pool.heap.mapper.Munmap(old)

	return nc
}

// copyMemory8 copies n bytes from src to dst; n is always a multiple of 8
// because chunk payload sizes are always 16-aligned.
func copyMemory8(dst, src unsafe.Pointer, n uintptr) {
	dstSlice := unsafe.Slice((*byte)(dst), n)
	srcSlice := unsafe.Slice((*byte)(src), n)
	copy(dstSlice, srcSlice)
}

// findPoolChunkByData locates the chunk, if any, backing the given payload
// pointer. Non-large pools reject out-of-range pointers in O(1) and then
// walk from whichever end of the list is nearer; the large pool always
// walks its full registry.
func findPoolChunkByData(pool *Pool, ptr unsafe.Pointer) *chunkHeader {
	if ptr == nil {
		return nil
	}

	if !pool.isLarge() {
		if !pool.contains(ptr) {
			return nil
		}

		addr := uintptr(ptr)
		closerToEnd := (addr - pool.base()) > (pool.unmapped - addr)

		if closerToEnd {
			c := pool.lastChunk
			for c != nil && c.payload() != ptr {
				c = c.prev
			}

			return c
		}
	}

	c := pool.chunks
	for c != nil {
		if c.payload() == ptr {
			return c
		}

		c = c.next
	}

	return nil
}
