// Hand-written in mockery's expecter layout. Running mockery with
// .mockery.yaml regenerates this file.

package mocks

import (
	background "github.com/multitimer/multitimer-go/pkg/background"
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

// Begin provides a mock function with given fields: name, expired
func (_m *MockService) Begin(name string, expired func()) (background.Token, bool) {
	ret := _m.Called(name, expired)

	if len(ret) == 0 {
		panic("no return value specified for Begin")
	}

	var r0 background.Token
	var r1 bool
	if rf, ok := ret.Get(0).(func(string, func()) (background.Token, bool)); ok {
		return rf(name, expired)
	}
	if rf, ok := ret.Get(0).(func(string, func()) background.Token); ok {
		r0 = rf(name, expired)
	} else {
		r0 = ret.Get(0).(background.Token)
	}

	if rf, ok := ret.Get(1).(func(string, func()) bool); ok {
		r1 = rf(name, expired)
	} else {
		r1 = ret.Get(1).(bool)
	}

	return r0, r1
}

// MockService_Begin_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Begin'
type MockService_Begin_Call struct {
	*mock.Call
}

// Begin is a helper method to define mock.On call
//   - name string
//   - expired func()
func (_e *MockService_Expecter) Begin(name interface{}, expired interface{}) *MockService_Begin_Call {
	return &MockService_Begin_Call{Call: _e.mock.On("Begin", name, expired)}
}

func (_c *MockService_Begin_Call) Run(run func(name string, expired func())) *MockService_Begin_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(string), args[1].(func()))
	})
	return _c
}

func (_c *MockService_Begin_Call) Return(token background.Token, ok bool) *MockService_Begin_Call {
	_c.Call.Return(token, ok)
	return _c
}

func (_c *MockService_Begin_Call) RunAndReturn(run func(string, func()) (background.Token, bool)) *MockService_Begin_Call {
	_c.Call.Return(run)
	return _c
}

// End provides a mock function with given fields: token
func (_m *MockService) End(token background.Token) {
	_m.Called(token)
}

// MockService_End_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'End'
type MockService_End_Call struct {
	*mock.Call
}

// End is a helper method to define mock.On call
//   - token background.Token
func (_e *MockService_Expecter) End(token interface{}) *MockService_End_Call {
	return &MockService_End_Call{Call: _e.mock.On("End", token)}
}

func (_c *MockService_End_Call) Run(run func(token background.Token)) *MockService_End_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(background.Token))
	})
	return _c
}

func (_c *MockService_End_Call) Return() *MockService_End_Call {
	_c.Call.Return()
	return _c
}

func (_c *MockService_End_Call) RunAndReturn(run func(background.Token)) *MockService_End_Call {
	_c.Run(run)
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
