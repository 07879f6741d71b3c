// Command ftmalloc-inspect drives the ftmalloc package directly from Go and
// prints its introspection output, for manual exploration of pool behavior
// without building the cgo shim in cmd/ftmalloc-preload.
package main

import (
	"flag"
	"fmt"
	"os"
	"unsafe"

	"github.com/orizon-lang/ftmalloc/ftmalloc"
)

func main() {
	var (
		sizesFlag string
		ex        bool
		draw      bool
	)

	flag.StringVar(&sizesFlag, "sizes", "64,4096,5242880", "comma-separated allocation sizes to exercise")
	flag.BoolVar(&ex, "ex", false, "print the extended (show_alloc_mem_ex) dump instead of the summary")
	flag.BoolVar(&draw, "draw", false, "print the terminal-width heap visualization instead of the summary")
	flag.Parse()

	sizes, err := parseSizes(sizesFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ftmalloc-inspect:", err)
		os.Exit(1)
	}

	ptrs := make([]unsafe.Pointer, 0, len(sizes))

	for _, n := range sizes {
		ptr := ftmalloc.Allocate(n)
		if ptr == nil {
			fmt.Fprintf(os.Stderr, "ftmalloc-inspect: allocate(%d) failed\n", n)
			continue
		}

		ptrs = append(ptrs, ptr)
	}

	switch {
	case draw:
		if err := ftmalloc.DrawHeap(os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, "ftmalloc-inspect: draw_heap:", err)
		}
	case ex:
		ftmalloc.ShowAllocMemEx(os.Stdout)
	default:
		ftmalloc.ShowAllocMem(os.Stdout)
	}

	for _, ptr := range ptrs {
		ftmalloc.Release(ptr)
	}
}

func parseSizes(raw string) ([]uintptr, error) {
	var sizes []uintptr

	start := 0

	for i := 0; i <= len(raw); i++ {
		if i == len(raw) || raw[i] == ',' {
			var n uintptr
			if _, err := fmt.Sscanf(raw[start:i], "%d", &n); err != nil {
				return nil, fmt.Errorf("invalid size %q: %w", raw[start:i], err)
			}

			sizes = append(sizes, n)
			start = i + 1
		}
	}

	return sizes, nil
}
