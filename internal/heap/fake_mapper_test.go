package heap

import "errors"

// fakeMapper backs pool reservations with ordinary Go heap memory instead of
// a real mmap syscall, so the chunk/pool/heap algorithms can be exercised
// deterministically on any platform. TerminalWidth and the rlimit are fixed
// values a test can override per case.
type fakeMapper struct {
	pageSize   uintptr
	rlimitSoft uintptr
	rlimitHard uintptr
	termWidth  int

	mmapErr   error
	munmapErr error
	rlimitErr error
}

func newFakeMapper(pageSize uintptr) *fakeMapper {
	return &fakeMapper{
		pageSize:   pageSize,
		rlimitSoft: 1 << 34,
		rlimitHard: 1 << 34,
		termWidth:  80,
	}
}

func (f *fakeMapper) Mmap(size int) ([]byte, error) {
	if f.mmapErr != nil {
		return nil, f.mmapErr
	}

	return make([]byte, size), nil
}

func (f *fakeMapper) Munmap(mem []byte) error {
	if f.munmapErr != nil {
		return f.munmapErr
	}

	return nil
}

func (f *fakeMapper) PageSize() uintptr { return f.pageSize }

func (f *fakeMapper) AddressSpaceLimit() (uintptr, uintptr, error) {
	if f.rlimitErr != nil {
		return 0, 0, f.rlimitErr
	}

	return f.rlimitSoft, f.rlimitHard, nil
}

func (f *fakeMapper) TerminalWidth() (int, error) { return f.termWidth, nil }

var errFakeMapFailure = errors.New("fakeMapper: simulated mapping failure")
