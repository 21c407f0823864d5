package records

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockTableRepository struct {
	mock.Mock
}

var _ TableRepository = (*MockTableRepository)(nil)

func (_m *MockTableRepository) Read(ctx context.Context, path string) (*Table, error) {
	ret := _m.Called(ctx, path)

	var r0 *Table
	if rf, ok := ret.Get(0).(func(context.Context, string) *Table); ok {
		r0 = rf(ctx, path)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*Table)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, path)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (_m *MockTableRepository) Write(ctx context.Context, path string, t *Table) error {
	ret := _m.Called(ctx, path, t)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, string, *Table) error); ok {
		r0 = rf(ctx, path, t)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

func (_m *MockTableRepository) Exists(path string) (bool, error) {
	ret := _m.Called(path)
	return ret.Bool(0), ret.Error(1)
}

type MockOverwriteConfirmer struct {
	mock.Mock
}

func (_m *MockOverwriteConfirmer) ConfirmOverwrite(path string) bool {
	ret := _m.Called(path)
	return ret.Bool(0)
}
