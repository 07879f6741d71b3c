// Command ftmalloc-preload builds a C-ABI shared object
// (-buildmode=c-shared) exporting the conventional libc allocator names, so
// it can be LD_PRELOAD'd ahead of a host process's own allocator — the
// realization of spec.md §6's "Linkage surface" requirement.
package main

/*
#include <stddef.h>
*/
import "C"

import (
	"os"
	"unsafe"

	"github.com/orizon-lang/ftmalloc/ftmalloc"
)

//export malloc
func malloc(size C.size_t) unsafe.Pointer {
	return ftmalloc.Allocate(uintptr(size))
}

//export free
func free(ptr unsafe.Pointer) {
	ftmalloc.Release(ptr)
}

//export realloc
func realloc(ptr unsafe.Pointer, size C.size_t) unsafe.Pointer {
	return ftmalloc.Resize(ptr, uintptr(size))
}

//export calloc
func calloc(nmemb, size C.size_t) unsafe.Pointer {
	return ftmalloc.ZeroAllocate(uintptr(nmemb), uintptr(size))
}

//export reallocarray
func reallocarray(ptr unsafe.Pointer, nmemb, size C.size_t) unsafe.Pointer {
	return ftmalloc.CheckedResizeArray(ptr, uintptr(nmemb), uintptr(size))
}

//export show_alloc_mem
func show_alloc_mem() {
	ftmalloc.ShowAllocMem(os.Stdout)
}

//export show_alloc_mem_ex
func show_alloc_mem_ex() {
	ftmalloc.ShowAllocMemEx(os.Stdout)
}

//export show_alloc_mem_dump
func show_alloc_mem_dump() {
	ftmalloc.ShowAllocMemEx(os.Stdout)
}

//export draw_heap
func draw_heap() {
	ftmalloc.DrawHeap(os.Stdout)
}

func main() {}
