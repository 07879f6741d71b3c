//go:build !unix

package heap

import "errors"

// newOSMapper has no production implementation outside POSIX hosts: this
// allocator is, per spec.md §1, a POSIX process allocator.
func newOSMapper() Mapper {
	return unsupportedMapper{}
}

type unsupportedMapper struct{}

var errUnsupportedPlatform = errors.New("ftmalloc: unsupported platform")

func (unsupportedMapper) Mmap(int) ([]byte, error)               { return nil, errUnsupportedPlatform }
func (unsupportedMapper) Munmap([]byte) error                    { return errUnsupportedPlatform }
func (unsupportedMapper) PageSize() uintptr                      { return 4096 }
func (unsupportedMapper) AddressSpaceLimit() (uintptr, uintptr, error) {
	return 0, 0, errUnsupportedPlatform
}
func (unsupportedMapper) TerminalWidth() (int, error) { return 0, errUnsupportedPlatform }
