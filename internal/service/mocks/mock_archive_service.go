package mocks

import (
	"context"

	"gsa/internal/model"
	"gsa/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockArchiveService struct {
	mock.Mock
}

func (m *MockArchiveService) Archive(ctx context.Context, owner, reportID string, req service.ArchiveRequest) (*model.ReportArchive, error) {
	args := m.Called(ctx, owner, reportID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReportArchive), args.Error(1)
}

func (m *MockArchiveService) List(ctx context.Context, owner, reportID string, limit, offset int) (*service.ArchiveListResult, error) {
	args := m.Called(ctx, owner, reportID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ArchiveListResult), args.Error(1)
}

func (m *MockArchiveService) Get(ctx context.Context, owner, id string) (*model.ReportArchive, error) {
	args := m.Called(ctx, owner, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReportArchive), args.Error(1)
}

func (m *MockArchiveService) Delete(ctx context.Context, owner, id string) error {
	args := m.Called(ctx, owner, id)
	return args.Error(0)
}
