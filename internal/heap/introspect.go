package heap

import (
	"fmt"
	"io"
	"unsafe"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const dumpBytesPerLine = 16

var numberPrinter = message.NewPrinter(language.English)

// Summary writes the show_alloc_mem diagnostic: per pool, the base address
// and one line per live chunk, then a grand total. It takes the heap lock
// for its entire traversal, matching every other public entry (spec.md §5).
func (h *Heap) Summary(w io.Writer) {
	h.Lock()
	defer h.Unlock()
	h.BuildPools()

	var total uintptr

	for _, pool := range h.orderedPools() {
		total += summarizePool(w, pool)
	}

	total += summarizePool(w, &h.large)

	numberPrinter.Fprintf(w, "Total : %d bytes\n", total)
}

func summarizePool(w io.Writer, pool *Pool) uintptr {
	base := pool.base()
	if pool.isLarge() && pool.chunks != nil {
		base = uintptr(unsafe.Pointer(pool.chunks))
	}

	fmt.Fprintf(w, "%s pool : %#x\n", pool.slug, base)

	var used uintptr

	for c := pool.chunks; c != nil; c = c.next {
		if !c.used {
			continue
		}

		numberPrinter.Fprintf(w, "%p - %p : %d bytes\n", c.payload(), c.end(), c.size)
		used += c.size
	}

	return used
}

// Extended writes the show_alloc_mem_ex diagnostic: a full structured dump
// with per-pool size-class parameters, hint pointers, every chunk's header
// (plus a hexdump of used chunks' payloads), per-pool totals and
// utilization, and a grand total.
func (h *Heap) Extended(w io.Writer) {
	h.Lock()
	defer h.Unlock()
	h.BuildPools()

	fmt.Fprintf(w, "ftmalloc heap (version %s):\n", version.Original())
	numberPrinter.Fprintf(w, "- page_size: %d bytes\n", h.pageSize)
	numberPrinter.Fprintf(w, "- address space limit: soft=%d bytes, hard=%d bytes\n", h.rlimitSoft, h.rlimitHard)

	var grandTotal, grandUsed, grandFreed uintptr

	for _, pool := range h.orderedPools() {
		total, used, freed := extendedPool(w, pool, true)
		grandTotal += total
		grandUsed += used
		grandFreed += freed
	}

	total, used, _ := extendedPool(w, &h.large, false)
	grandTotal += total
	grandUsed += used

	numberPrinter.Fprintf(w, "Total : %d bytes\n", grandTotal)
	numberPrinter.Fprintf(w, "Used : %d bytes\n", grandUsed)
	numberPrinter.Fprintf(w, "Freed : %d bytes\n", grandFreed)
}

func extendedPool(w io.Writer, pool *Pool, showUtilization bool) (total, used, freed uintptr) {
	fmt.Fprintf(w, "Pool %s[%#x]:\n", pool.slug, pool.base())
	numberPrinter.Fprintf(w, "- size: %d bytes\n", pool.size)
	numberPrinter.Fprintf(w, "- max_chunk_size: %d bytes\n", pool.maxChunkSize)
	numberPrinter.Fprintf(w, "- min_chunk_size: %d bytes\n", pool.minChunkSize)
	fmt.Fprintf(w, "- free_chunks hint: %p\n", pool.freeChunks)
	fmt.Fprintf(w, "- chunks head: %p\n", pool.chunks)
	fmt.Fprintf(w, "- last_chunk: %p\n", pool.lastChunk)

	for c := pool.chunks; c != nil; c = c.next {
		describeChunk(w, c)

		total += c.size
		if c.used {
			used += c.size
			hexdump(w, c.payload(), c.size)
		} else {
			freed += c.size
		}
	}

	if showUtilization && pool.size > 0 {
		numberPrinter.Fprintf(w, "- total: %d bytes [%d%%]\n", total, total*100/pool.size)
		numberPrinter.Fprintf(w, "- used: %d bytes [%d%%]\n", used, used*100/pool.size)
		numberPrinter.Fprintf(w, "- freed: %d bytes [%d%%]\n", freed, freed*100/pool.size)

		unmapped := pool.unmappedRoom()
		numberPrinter.Fprintf(w, "- unmapped: %d bytes [%d%%]\n", unmapped, unmapped*100/pool.size)
	} else {
		numberPrinter.Fprintf(w, "- total: %d bytes\n", total)
	}

	return total, used, freed
}

func describeChunk(w io.Writer, c *chunkHeader) {
	fmt.Fprintf(w, "  - chunk %p:\n", c)
	numberPrinter.Fprintf(w, "    - header_size: %d bytes\n", headerSize)
	numberPrinter.Fprintf(w, "    - data_size: %d bytes\n", c.size)
	numberPrinter.Fprintf(w, "    - total_size: %d bytes\n", c.totalSize())
	fmt.Fprintf(w, "    - used: %t\n", c.used)
	fmt.Fprintf(w, "    - next: %p\n", c.next)
	fmt.Fprintf(w, "    - prev: %p\n", c.prev)
}

// hexdump renders size bytes starting at ptr, 16 bytes per line, as an
// address column, a hex gutter, and an ASCII gutter — the Go analogue of
// the original source's dump_addr/hexdump helpers.
func hexdump(w io.Writer, ptr unsafe.Pointer, size uintptr) {
	data := unsafe.Slice((*byte)(ptr), size)

	for offset := 0; offset < len(data); offset += dumpBytesPerLine {
		end := offset + dumpBytesPerLine
		if end > len(data) {
			end = len(data)
		}

		line := data[offset:end]
		fmt.Fprintf(w, "      %p  ", unsafe.Pointer(uintptr(ptr)+uintptr(offset)))

		for i, b := range line {
			if i == dumpBytesPerLine/2 {
				fmt.Fprint(w, " ")
			}

			fmt.Fprintf(w, "%02x ", b)
		}

		for i := len(line); i < dumpBytesPerLine; i++ {
			fmt.Fprint(w, "   ")
		}

		fmt.Fprint(w, " |")

		for _, b := range line {
			if b >= 0x20 && b < 0x7f {
				fmt.Fprintf(w, "%c", b)
			} else {
				fmt.Fprint(w, ".")
			}
		}

		fmt.Fprint(w, "|\n")
	}
}
