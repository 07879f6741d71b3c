package heap

// Mapper is the OS collaborator the heap manager sits on top of: anonymous
// memory mapping, page size, the address-space rlimit, and a terminal-width
// query for draw_heap. Spec.md §1 lists these as out-of-scope external
// collaborators; this interface is the seam that lets tests substitute a
// fake (see internal/heap/heapmock) instead of calling golang.org/x/sys/unix
// directly.
type Mapper interface {
	// Mmap requests an anonymous, private, read-write mapping of exactly
	// size bytes.
	Mmap(size int) ([]byte, error)
	// Munmap releases a mapping previously returned by Mmap.
	Munmap(mem []byte) error
	// PageSize returns the host's page size in bytes.
	PageSize() uintptr
	// AddressSpaceLimit returns the soft and hard RLIMIT_AS limits.
	AddressSpaceLimit() (soft, hard uintptr, err error)
	// TerminalWidth returns the column width of the process's controlling
	// terminal, for draw_heap's scaled rendering.
	TerminalWidth() (int, error)
}
