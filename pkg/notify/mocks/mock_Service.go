// Hand-written in mockery's expecter layout. Running mockery with
// .mockery.yaml regenerates this file.

package mocks

import (
	notify "github.com/multitimer/multitimer-go/pkg/notify"
	mock "github.com/stretchr/testify/mock"
)

// MockService is an autogenerated mock type for the Service type
type MockService struct {
	mock.Mock
}

type MockService_Expecter struct {
	mock *mock.Mock
}

func (_m *MockService) EXPECT() *MockService_Expecter {
	return &MockService_Expecter{mock: &_m.Mock}
}

// Cancel provides a mock function with given fields: id
func (_m *MockService) Cancel(id string) {
	_m.Called(id)
}

// MockService_Cancel_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Cancel'
type MockService_Cancel_Call struct {
	*mock.Call
}

// Cancel is a helper method to define mock.On call
//   - id string
func (_e *MockService_Expecter) Cancel(id interface{}) *MockService_Cancel_Call {
	return &MockService_Cancel_Call{Call: _e.mock.On("Cancel", id)}
}

func (_c *MockService_Cancel_Call) Run(run func(id string)) *MockService_Cancel_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(string))
	})
	return _c
}

func (_c *MockService_Cancel_Call) Return() *MockService_Cancel_Call {
	_c.Call.Return()
	return _c
}

func (_c *MockService_Cancel_Call) RunAndReturn(run func(string)) *MockService_Cancel_Call {
	_c.Run(run)
	return _c
}

// RequestPermission provides a mock function with given fields: callback
func (_m *MockService) RequestPermission(callback func(bool, error)) {
	_m.Called(callback)
}

// MockService_RequestPermission_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'RequestPermission'
type MockService_RequestPermission_Call struct {
	*mock.Call
}

// RequestPermission is a helper method to define mock.On call
//   - callback func(bool , error)
func (_e *MockService_Expecter) RequestPermission(callback interface{}) *MockService_RequestPermission_Call {
	return &MockService_RequestPermission_Call{Call: _e.mock.On("RequestPermission", callback)}
}

func (_c *MockService_RequestPermission_Call) Run(run func(callback func(bool, error))) *MockService_RequestPermission_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(func(bool, error)))
	})
	return _c
}

func (_c *MockService_RequestPermission_Call) Return() *MockService_RequestPermission_Call {
	_c.Call.Return()
	return _c
}

func (_c *MockService_RequestPermission_Call) RunAndReturn(run func(func(bool, error))) *MockService_RequestPermission_Call {
	_c.Run(run)
	return _c
}

// Schedule provides a mock function with given fields: req
func (_m *MockService) Schedule(req notify.Request) error {
	ret := _m.Called(req)

	if len(ret) == 0 {
		panic("no return value specified for Schedule")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(notify.Request) error); ok {
		r0 = rf(req)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// MockService_Schedule_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Schedule'
type MockService_Schedule_Call struct {
	*mock.Call
}

// Schedule is a helper method to define mock.On call
//   - req notify.Request
func (_e *MockService_Expecter) Schedule(req interface{}) *MockService_Schedule_Call {
	return &MockService_Schedule_Call{Call: _e.mock.On("Schedule", req)}
}

func (_c *MockService_Schedule_Call) Run(run func(req notify.Request)) *MockService_Schedule_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(notify.Request))
	})
	return _c
}

func (_c *MockService_Schedule_Call) Return(_a0 error) *MockService_Schedule_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockService_Schedule_Call) RunAndReturn(run func(notify.Request) error) *MockService_Schedule_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockService creates a new instance of MockService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockService {
	mock := &MockService{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
