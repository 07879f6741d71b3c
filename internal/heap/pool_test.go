package heap

import "testing"

func TestAllocatePoolChunkReusesFreedSplit(t *testing.T) {
	pool := newTestPool(t)

	a := allocatePoolChunk(pool, 256)
	allocatePoolChunk(pool, 16) // guard: keeps a from being the tail, so b must split it
	releasePoolChunk(pool, a)

	b := allocatePoolChunk(pool, 32)
	if b.addr() != a.addr() {
		t.Fatal("expected the freed chunk's address to be reused for a smaller request")
	}

	if !b.used {
		t.Fatal("reused chunk should be marked used")
	}
}

func TestAllocatePoolChunkFallsBackToFrontier(t *testing.T) {
	pool := newTestPool(t)

	a := allocatePoolChunk(pool, 64)
	b := allocatePoolChunk(pool, 64)

	if a == nil || b == nil {
		t.Fatal("both allocations should succeed against an empty pool")
	}

	if a.addr() == b.addr() {
		t.Fatal("distinct live allocations must not alias")
	}
}

func TestReleasePoolChunkCoalescesNeighbours(t *testing.T) {
	pool := newTestPool(t)

	a := allocatePoolChunk(pool, 64)
	b := allocatePoolChunk(pool, 64)
	c := allocatePoolChunk(pool, 64)

	releasePoolChunk(pool, a)
	releasePoolChunk(pool, c)
	releasePoolChunk(pool, b)

	if pool.chunks != nil {
		t.Fatal("releasing every live chunk should fully retract the frontier")
	}

	if pool.unmapped != pool.base() {
		t.Fatal("frontier should retreat to the base once the pool is empty")
	}
}

func TestReleasePoolChunkRetainsLiveLeftNeighbour(t *testing.T) {
	pool := newTestPool(t)

	a := allocatePoolChunk(pool, 64)
	b := allocatePoolChunk(pool, 64)

	releasePoolChunk(pool, b)

	if pool.lastChunk != a {
		t.Fatal("frontier should retract past the freed tail chunk, leaving a as the tail")
	}

	if !a.used {
		t.Fatal("the still-live neighbour must remain used")
	}
}

func TestAllocatePoolChunkRejectsOversizedRequest(t *testing.T) {
	pool := newTestPool(t)

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected the max-chunk-size assertion to fire for an oversized request")
		}
	}()

	withAsserts(pool.heap, func() {
		allocatePoolChunk(pool, pool.maxChunkSize*2)
	})
}

func newTestLargePool(t *testing.T) *Pool {
	t.Helper()

	h := newHeap(newFakeMapper(4096))
	h.BuildPools()

	return &h.large
}

func TestBuildLargePoolChunkRoundsToPageMultiple(t *testing.T) {
	pool := newTestLargePool(t)

	c := buildLargePoolChunk(pool, 5_000_000)
	if c == nil {
		t.Fatal("buildLargePoolChunk returned nil")
	}

	total := c.totalSize()
	if total%pool.heap.pageSize != 0 {
		t.Fatalf("large chunk total size %d is not page-aligned", total)
	}

	if total <= alignUp(5_000_000)+headerSize {
		t.Fatal("large chunk should round up strictly past a request plus header that is not page-aligned")
	}

	if _, ok := pool.largeBacking[c]; !ok {
		t.Fatal("large chunk's backing mapping should be retained for munmap")
	}
}

func TestReleaseLargePoolChunkUnlinksAndUnmaps(t *testing.T) {
	pool := newTestLargePool(t)

	a := buildLargePoolChunk(pool, 1024)
	b := buildLargePoolChunk(pool, 2048)

	if !releaseLargePoolChunk(pool, a) {
		t.Fatal("release should succeed")
	}

	if pool.chunks != b || pool.lastChunk != b {
		t.Fatal("remaining chunk should become both head and tail")
	}

	if _, ok := pool.largeBacking[a]; ok {
		t.Fatal("released chunk's backing mapping should be forgotten")
	}
}

func TestGrowLargePoolChunkPreservesPayload(t *testing.T) {
	pool := newTestLargePool(t)

	c := buildLargePoolChunk(pool, 64)

	payload := unsafeByteSlice(c.payload(), 64)
	for i := range payload {
		payload[i] = byte(i)
	}

	grown := growLargePoolChunk(pool, c, 8192)
	if grown == nil {
		t.Fatal("growLargePoolChunk returned nil")
	}

	grownPayload := unsafeByteSlice(grown.payload(), 64)
	for i := range grownPayload {
		if grownPayload[i] != byte(i) {
			t.Fatalf("byte %d corrupted across grow: got %d want %d", i, grownPayload[i], byte(i))
		}
	}

	if pool.chunks != grown || pool.lastChunk != grown {
		t.Fatal("grown chunk should replace the original as sole registry entry")
	}
}

func TestFindPoolChunkByDataPrefersCloserEnd(t *testing.T) {
	pool := newTestPool(t)

	a := allocatePoolChunk(pool, 64)
	b := allocatePoolChunk(pool, 64)
	c := allocatePoolChunk(pool, 64)

	if found := findPoolChunkByData(pool, c.payload()); found != c {
		t.Fatal("expected to find the tail chunk by its payload pointer")
	}

	if found := findPoolChunkByData(pool, a.payload()); found != a {
		t.Fatal("expected to find the head chunk by its payload pointer")
	}

	_ = b
}

func TestFindPoolChunkByDataRejectsForeignPointer(t *testing.T) {
	pool := newTestPool(t)
	allocatePoolChunk(pool, 64)

	other := newTestPool(t)
	foreign := allocatePoolChunk(other, 64)

	if findPoolChunkByData(pool, foreign.payload()) != nil {
		t.Fatal("a pointer from a different arena must never resolve")
	}
}
