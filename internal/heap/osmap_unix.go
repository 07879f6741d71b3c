//go:build unix

package heap

import (
	"os"

	"golang.org/x/sys/unix"
)

// unixMapper is the production Mapper, a thin wrapper over
// golang.org/x/sys/unix — the Go equivalent of the original source's
// mmap(2)/munmap(2)/getpagesize(2)/getrlimit(2)/ioctl(TIOCGWINSZ) calls.
type unixMapper struct{}

// newOSMapper returns the production Mapper for the running platform.
func newOSMapper() Mapper {
	return unixMapper{}
}

func (unixMapper) Mmap(size int) ([]byte, error) {
	return unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
}

func (unixMapper) Munmap(mem []byte) error {
	return unix.Munmap(mem)
}

func (unixMapper) PageSize() uintptr {
	return uintptr(unix.Getpagesize())
}

func (unixMapper) AddressSpaceLimit() (soft, hard uintptr, err error) {
	var rlimit unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_AS, &rlimit); err != nil {
		return 0, 0, err
	}

	return uintptr(rlimit.Cur), uintptr(rlimit.Max), nil
}

func (unixMapper) TerminalWidth() (int, error) {
	ws, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return 0, err
	}

	return int(ws.Col), nil
}
