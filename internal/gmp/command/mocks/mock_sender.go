package mocks

import (
	"context"

	"gsa/internal/gmp/transport"

	"github.com/stretchr/testify/mock"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Get(ctx context.Context, p transport.Params) (*transport.Response, error) {
	args := m.Called(ctx, p)
	if r, ok := args.Get(0).(*transport.Response); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSender) Post(ctx context.Context, p transport.Params) (*transport.Response, error) {
	args := m.Called(ctx, p)
	if r, ok := args.Get(0).(*transport.Response); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSender) Download(ctx context.Context, method string, p transport.Params) (*transport.Download, error) {
	args := m.Called(ctx, method, p)
	if d, ok := args.Get(0).(*transport.Download); ok {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}
