package mocks

import (
	"context"

	"gsa/internal/gmp/transport"
	"gsa/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockEntityService struct {
	mock.Mock
}

func (m *MockEntityService) Types() []string {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

func (m *MockEntityService) List(ctx context.Context, entityType, term string) (*service.EntityList, error) {
	args := m.Called(ctx, entityType, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.EntityList), args.Error(1)
}

func (m *MockEntityService) Get(ctx context.Context, entityType, id string) (any, error) {
	args := m.Called(ctx, entityType, id)
	return args.Get(0), args.Error(1)
}

func (m *MockEntityService) Delete(ctx context.Context, entityType, id string) error {
	args := m.Called(ctx, entityType, id)
	return args.Error(0)
}

func (m *MockEntityService) Clone(ctx context.Context, entityType, id string) (string, error) {
	args := m.Called(ctx, entityType, id)
	return args.String(0), args.Error(1)
}

func (m *MockEntityService) BulkDelete(ctx context.Context, entityType string, req service.BulkRequest) ([]string, error) {
	args := m.Called(ctx, entityType, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockEntityService) Export(ctx context.Context, entityType string, req service.BulkRequest) (*transport.Download, error) {
	args := m.Called(ctx, entityType, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transport.Download), args.Error(1)
}
