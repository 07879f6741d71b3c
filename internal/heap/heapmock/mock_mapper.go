// Mock of internal/heap/osmap.go (Mapper), written by hand.
//
// Hand-maintained to the shape go.uber.org/mock's mockgen produces, in the
// style of the teacher's own generator at cmd/orizon-mockgen — kept here so
// internal/heap's fault-injection tests (mmap refusal, rlimit failure,
// munmap failure) don't need a real mapping to fail on demand.

// Package heapmock provides a generated mock of the heap.Mapper interface.
package heapmock

import (
	reflect "reflect"

	gomock "go.uber.org/mock/gomock"
)

// MockMapper is a mock of the Mapper interface.
type MockMapper struct {
	ctrl     *gomock.Controller
	recorder *MockMapperMockRecorder
}

// MockMapperMockRecorder is the mock recorder for MockMapper.
type MockMapperMockRecorder struct {
	mock *MockMapper
}

// NewMockMapper creates a new mock instance.
func NewMockMapper(ctrl *gomock.Controller) *MockMapper {
	mock := &MockMapper{ctrl: ctrl}
	mock.recorder = &MockMapperMockRecorder{mock}

	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockMapper) EXPECT() *MockMapperMockRecorder {
	return m.recorder
}

// Mmap mocks base method.
func (m *MockMapper) Mmap(size int) ([]byte, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Mmap", size)
	ret0, _ := ret[0].([]byte)
	ret1, _ := ret[1].(error)

	return ret0, ret1
}

// Mmap indicates an expected call of Mmap.
func (mr *MockMapperMockRecorder) Mmap(size any) *gomock.Call {
	mr.mock.ctrl.T.Helper()

	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Mmap", reflect.TypeOf((*MockMapper)(nil).Mmap), size)
}

// Munmap mocks base method.
func (m *MockMapper) Munmap(mem []byte) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Munmap", mem)
	ret0, _ := ret[0].(error)

	return ret0
}

// Munmap indicates an expected call of Munmap.
func (mr *MockMapperMockRecorder) Munmap(mem any) *gomock.Call {
	mr.mock.ctrl.T.Helper()

	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Munmap", reflect.TypeOf((*MockMapper)(nil).Munmap), mem)
}

// PageSize mocks base method.
func (m *MockMapper) PageSize() uintptr {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "PageSize")
	ret0, _ := ret[0].(uintptr)

	return ret0
}

// PageSize indicates an expected call of PageSize.
func (mr *MockMapperMockRecorder) PageSize() *gomock.Call {
	mr.mock.ctrl.T.Helper()

	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "PageSize", reflect.TypeOf((*MockMapper)(nil).PageSize))
}

// AddressSpaceLimit mocks base method.
func (m *MockMapper) AddressSpaceLimit() (uintptr, uintptr, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "AddressSpaceLimit")
	ret0, _ := ret[0].(uintptr)
	ret1, _ := ret[1].(uintptr)
	ret2, _ := ret[2].(error)

	return ret0, ret1, ret2
}

// AddressSpaceLimit indicates an expected call of AddressSpaceLimit.
func (mr *MockMapperMockRecorder) AddressSpaceLimit() *gomock.Call {
	mr.mock.ctrl.T.Helper()

	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AddressSpaceLimit", reflect.TypeOf((*MockMapper)(nil).AddressSpaceLimit))
}

// TerminalWidth mocks base method.
func (m *MockMapper) TerminalWidth() (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "TerminalWidth")
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)

	return ret0, ret1
}

// TerminalWidth indicates an expected call of TerminalWidth.
func (mr *MockMapperMockRecorder) TerminalWidth() *gomock.Call {
	mr.mock.ctrl.T.Helper()

	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "TerminalWidth", reflect.TypeOf((*MockMapper)(nil).TerminalWidth))
}
