package integrator_test

import (
	"reflect"

	"github.com/golang/mock/gomock"
)

// MockGriddingCollaborator is the hand-authored equivalent of what
// `go:generate mockgen` (see integrator_suite_test.go) would produce for
// GriddingCollaborator — mockgen itself was not run this session (no Go
// toolchain), but the generated shape is standard enough to write by hand
// for one two-method interface, and it is exercised below rather than left
// as an unused dependency.
type MockGriddingCollaborator struct {
	ctrl     *gomock.Controller
	recorder *MockGriddingCollaboratorMockRecorder
}

type MockGriddingCollaboratorMockRecorder struct {
	mock *MockGriddingCollaborator
}

func NewMockGriddingCollaborator(ctrl *gomock.Controller) *MockGriddingCollaborator {
	mock := &MockGriddingCollaborator{ctrl: ctrl}
	mock.recorder = &MockGriddingCollaboratorMockRecorder{mock}
	return mock
}

func (m *MockGriddingCollaborator) EXPECT() *MockGriddingCollaboratorMockRecorder {
	return m.recorder
}

func (m *MockGriddingCollaborator) GetErrorCoarsenRatio() int {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetErrorCoarsenRatio")
	ret0, _ := ret[0].(int)
	return ret0
}

func (mr *MockGriddingCollaboratorMockRecorder) GetErrorCoarsenRatio() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetErrorCoarsenRatio",
		reflect.TypeOf((*MockGriddingCollaborator)(nil).GetErrorCoarsenRatio))
}

func (m *MockGriddingCollaborator) EverUsesTimeIntegration() bool {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "EverUsesTimeIntegration")
	ret0, _ := ret[0].(bool)
	return ret0
}

func (mr *MockGriddingCollaboratorMockRecorder) EverUsesTimeIntegration() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "EverUsesTimeIntegration",
		reflect.TypeOf((*MockGriddingCollaborator)(nil).EverUsesTimeIntegration))
}
