package heap

import (
	"log"
	"os"
	"sync"
	"unsafe"
)

// Heap is the process-global singleton: the tiny and small pools, the large
// pool registry, the cached page size and address-space rlimit, and the two
// debug toggles. It is allocated once at package load (the Go analogue of
// the original source's `static t_heap heap = {0};`) but its fields are
// left zero until BuildPools runs — lazily, once per process, exactly like
// the original build_pools().
type Heap struct {
	mu sync.Mutex

	mapper Mapper

	tiny  Pool
	small Pool
	large Pool

	pageSize   uintptr
	rlimitSoft uintptr
	rlimitHard uintptr

	assertsEnabled bool
	logChunkAlloc  bool
	logger         *log.Logger

	built bool
}

func newHeap(m Mapper) *Heap {
	h := &Heap{mapper: m, logger: log.New(os.Stderr, "ftmalloc: ", log.Lmicroseconds)}
	h.tiny.heap = h
	h.tiny.slug = "TINY"
	h.small.heap = h
	h.small.slug = "SMALL"
	h.large.heap = h
	h.large.slug = "LARGE"
	h.large.largeBacking = make(map[*chunkHeader][]byte)

	return h
}

var globalHeap = newHeap(newOSMapper())

// Global returns the process-wide heap singleton.
func Global() *Heap { return globalHeap }

// Lock acquires the heap's process-global mutex. Every public entry holds
// this for the entirety of its critical section (spec.md §5).
func (h *Heap) Lock() { h.mu.Lock() }

// Unlock releases the mutex acquired by Lock.
func (h *Heap) Unlock() { h.mu.Unlock() }

// AlignUp rounds size up to the 16-byte payload alignment. Exported so
// callers outside this package (zero-allocate's zero-fill length, for
// instance) can compute the same rounding the allocator itself used.
func AlignUp(size uintptr) uintptr { return alignUp(size) }

// BuildPools lazily populates the heap's derived fields: page size, the
// address-space rlimit, the two debug toggles, and each ordinary pool's
// size-class bounds. Idempotent; callers must already hold the lock.
// Failure to read the rlimit leaves the heap in its zero state, which
// surfaces as every subsequent allocation failing (spec.md §4.2).
func (h *Heap) BuildPools() {
	if h.built {
		return
	}

	h.assertsEnabled = os.Getenv("FT_MALLOC_ASSERT") != ""
	h.logChunkAlloc = os.Getenv("FT_MALLOC_LOG_CHUNK_ALLOC") != ""
	h.pageSize = h.mapper.PageSize()

	soft, hardLimit, err := h.mapper.AddressSpaceLimit()
	if err != nil {
		return
	}

	h.rlimitSoft = soft
	h.rlimitHard = hardLimit

	h.tiny.size = tinyPoolMultiplier * h.pageSize
	h.tiny.maxChunkSize = alignDown(h.tiny.size / tinyMaxDivisor)
	h.tiny.minChunkSize = alignUp(1) + headerSize

	h.small.size = smallPoolMultiplier * h.pageSize
	h.small.maxChunkSize = alignDown(h.small.size / smallMaxDivisor)
	h.small.minChunkSize = alignUp(h.tiny.maxChunkSize + 1)

	// The large pool has no array slot in the original source's pool loop
	// (spec.md §9's documented latent out-of-bounds write); it is built
	// directly here instead, never through a shared loop over [tiny, small].
	h.large.minChunkSize = alignUp(h.small.maxChunkSize + 1)

	h.built = true
}

// orderedPools returns the non-large pools in routing order.
func (h *Heap) orderedPools() [2]*Pool {
	return [2]*Pool{&h.tiny, &h.small}
}

// alloc dispatches a request to the first pool whose size class fits it,
// falling through to the large pool's registry. Callers must hold the lock
// and have already called BuildPools.
func (h *Heap) alloc(requested uintptr) *chunkHeader {
	if requested == 0 {
		return nil
	}

	chunkSize := alignUp(requested) + headerSize

	for _, pool := range h.orderedPools() {
		if chunkSize > pool.maxChunkSize {
			continue
		}

		if !initPool(pool) {
			return nil
		}

		if c := allocatePoolChunk(pool, requested); c != nil {
			h.logAlloc(c)
			return c
		}

		return nil
	}

	c := buildLargePoolChunk(&h.large, requested)
	h.logAlloc(c)

	return c
}

// dealloc locates ptr's owning chunk via the global lookup and releases it.
// Silently no-ops for null or unrecognized pointers.
func (h *Heap) dealloc(ptr unsafe.Pointer) bool {
	if ptr == nil {
		return false
	}

	c, pool := findChunkByData(h, ptr)
	if c == nil {
		return false
	}

	if pool.isLarge() {
		return releaseLargePoolChunk(pool, c)
	}

	return releasePoolChunk(pool, c)
}

// resizeChunk implements the resize(p, n) policy of spec.md §4.9: reuse in
// place (splitting off surplus) if the chunk already fits, else try to grow
// in place, else allocate fresh, copy, and release the old chunk.
func (h *Heap) resizeChunk(pool *Pool, c *chunkHeader, newRequested uintptr) *chunkHeader {
	if c.size >= newRequested {
		if !pool.isLarge() && canSplitChunk(pool, c, alignUp(newRequested)) {
			splitPoolChunk(pool, c, newRequested)
		}

		h.logAlloc(c)
		return c
	}

	var grown *chunkHeader
	if pool.isLarge() {
		grown = growLargePoolChunk(pool, c, newRequested)
	} else {
		grown = growPoolChunk(pool, c, newRequested)
	}

	if grown != nil {
		h.logAlloc(grown)
		return grown
	}

	fresh := h.alloc(newRequested)
	if fresh == nil {
		return nil
	}

	copyMemory8(fresh.payload(), c.payload(), c.size)

	if pool.isLarge() {
		releaseLargePoolChunk(pool, c)
	} else {
		releasePoolChunk(pool, c)
	}

	return fresh
}

// logAlloc emits a chunk description when FT_MALLOC_LOG_CHUNK_ALLOC is set.
func (h *Heap) logAlloc(c *chunkHeader) {
	if !h.logChunkAlloc || c == nil {
		return
	}

	h.logger.Printf("chunk %p: size=%d used=%t next=%p prev=%p", unsafe.Pointer(c), c.size, c.used, c.next, c.prev)
}
