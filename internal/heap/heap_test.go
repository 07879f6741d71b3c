package heap

import (
	"testing"
	"unsafe"

	"go.uber.org/mock/gomock"

	"github.com/orizon-lang/ftmalloc/internal/heap/heapmock"
)

func newTestHeap(t *testing.T) *Heap {
	t.Helper()
	return newHeap(newFakeMapper(4096))
}

func TestAllocateReturnsSixteenByteAligned(t *testing.T) {
	h := newTestHeap(t)

	for _, n := range []uintptr{1, 7, 15, 16, 17, 1000, 5_000_000} {
		ptr := h.Allocate(n)
		if ptr == nil {
			t.Fatalf("Allocate(%d) returned nil", n)
		}

		if uintptr(ptr)%alignment != 0 {
			t.Fatalf("Allocate(%d) returned unaligned pointer %p", n, ptr)
		}
	}
}

func TestAllocateZeroReturnsNil(t *testing.T) {
	h := newTestHeap(t)

	if ptr := h.Allocate(0); ptr != nil {
		t.Fatal("Allocate(0) should return nil")
	}
}

func TestReleaseThenAllocateReusesTinySpace(t *testing.T) {
	h := newTestHeap(t)

	a := h.Allocate(64)
	h.Release(a)

	b := h.Allocate(64)
	if a != b {
		t.Fatal("expected the freed tiny chunk to be reused by an equally-sized request")
	}
}

func TestSplitThenCoalesceRoundTrips(t *testing.T) {
	h := newTestHeap(t)

	big := h.Allocate(512)
	h.Allocate(16) // guard: keeps big from being the tail, so its release leaves a free hole to split
	h.Release(big)

	a := h.Allocate(64)
	b := h.Allocate(64)

	h.Release(a)
	h.Release(b)

	whole := h.Allocate(512)
	if whole != big {
		t.Fatal("expected the two freed slivers to coalesce back into a chunk large enough for 512 bytes")
	}
}

func TestReleaseUnknownPointerIsNoop(t *testing.T) {
	h := newTestHeap(t)

	var local [8]byte
	h.Release(unsafe.Pointer(&local[0])) // must not panic
}

func TestResizeGrowsInPlaceAtFrontier(t *testing.T) {
	h := newTestHeap(t)

	ptr := h.Allocate(64)
	grown := h.Resize(ptr, 512)

	if grown != ptr {
		t.Fatal("growing the sole (tail) chunk should keep the same address")
	}
}

func TestResizeShrinkSplitsOffSurplus(t *testing.T) {
	h := newTestHeap(t)

	ptr := h.Allocate(512)
	shrunk := h.Resize(ptr, 32)

	if shrunk != ptr {
		t.Fatal("shrinking in place should keep the same address")
	}
}

func TestResizeUnknownPointerReturnsNil(t *testing.T) {
	h := newTestHeap(t)

	var local [8]byte
	if h.Resize(unsafe.Pointer(&local[0]), 64) != nil {
		t.Fatal("resizing a pointer this heap doesn't own should return nil")
	}
}

func TestResizePreservesLeadingBytesAcrossReallocation(t *testing.T) {
	h := newTestHeap(t)

	a := h.Allocate(64)
	b := h.Allocate(64) // keep a from being the tail so growth can't happen in place
	_ = b

	payload := unsafeByteSlice(a, 64)
	for i := range payload {
		payload[i] = byte(i + 1)
	}

	grown := h.Resize(a, 4096)
	if grown == nil {
		t.Fatal("Resize should succeed by allocating fresh and copying")
	}

	grownPayload := unsafeByteSlice(grown, 64)
	for i := range grownPayload {
		if grownPayload[i] != byte(i+1) {
			t.Fatalf("byte %d lost across reallocation: got %d want %d", i, grownPayload[i], i+1)
		}
	}
}

func TestAllocateRoutesBySizeClass(t *testing.T) {
	h := newTestHeap(t)
	h.BuildPools()

	tiny := h.Allocate(64)
	small := h.Allocate(h.tiny.maxChunkSize + 64)
	large := h.Allocate(h.small.maxChunkSize + 64)

	if !h.tiny.contains(tiny) {
		t.Fatal("a small request should route to the tiny pool")
	}

	if !h.small.contains(small) {
		t.Fatal("a request exceeding the tiny ceiling should route to the small pool")
	}

	if h.tiny.contains(large) || h.small.contains(large) {
		t.Fatal("a request exceeding the small ceiling should route to the large pool")
	}
}

func TestAllocateFailsWhenMmapRefused(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := heapmock.NewMockMapper(ctrl)

	m.EXPECT().PageSize().Return(uintptr(4096)).AnyTimes()
	m.EXPECT().AddressSpaceLimit().Return(uintptr(1<<34), uintptr(1<<34), nil).AnyTimes()
	m.EXPECT().Mmap(gomock.Any()).Return(nil, errFakeMapFailure).AnyTimes()

	h := newHeap(m)

	if ptr := h.Allocate(64); ptr != nil {
		t.Fatal("expected Allocate to fail when the pool's reservation can't be mapped")
	}
}

func TestAllocateFailsWhenRlimitUnreadable(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := heapmock.NewMockMapper(ctrl)

	m.EXPECT().PageSize().Return(uintptr(4096)).AnyTimes()
	m.EXPECT().AddressSpaceLimit().Return(uintptr(0), uintptr(0), errFakeMapFailure).AnyTimes()

	h := newHeap(m)

	if ptr := h.Allocate(64); ptr != nil {
		t.Fatal("expected Allocate to fail when the address-space rlimit can't be read")
	}
}

func TestReleaseReturnsFalseWhenMunmapFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := heapmock.NewMockMapper(ctrl)

	m.EXPECT().PageSize().Return(uintptr(4096)).AnyTimes()
	m.EXPECT().AddressSpaceLimit().Return(uintptr(1<<34), uintptr(1<<34), nil).AnyTimes()
	m.EXPECT().Mmap(gomock.Any()).DoAndReturn(func(size int) ([]byte, error) {
		return make([]byte, size), nil
	}).AnyTimes()
	m.EXPECT().Munmap(gomock.Any()).Return(errFakeMapFailure).AnyTimes()

	h := newHeap(m)

	ptr := h.Allocate(5_000_000) // large pool path, so release actually munmaps
	if ptr == nil {
		t.Fatal("large allocation should succeed")
	}

	h.Lock()
	c, pool := findChunkByData(h, ptr)
	ok := releaseLargePoolChunk(pool, c)
	h.Unlock()

	if ok {
		t.Fatal("releaseLargePoolChunk should report failure when the OS munmap call fails")
	}
}

func TestBuildPoolsIsIdempotent(t *testing.T) {
	h := newTestHeap(t)

	h.BuildPools()
	tinySize := h.tiny.size

	h.tiny.size = 0 // would be visible if BuildPools ran again
	h.BuildPools()

	if h.tiny.size != 0 {
		t.Fatal("BuildPools should be a no-op once built")
	}

	_ = tinySize
}
