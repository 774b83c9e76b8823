package mocks

import (
	"context"

	"gsa/internal/model"
	"gsa/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockArchiveRepository struct {
	mock.Mock
}

func (m *MockArchiveRepository) Create(ctx context.Context, a *model.ReportArchive) (*model.ReportArchive, error) {
	args := m.Called(ctx, a)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReportArchive), args.Error(1)
}

func (m *MockArchiveRepository) FindByID(ctx context.Context, id string) (*model.ReportArchive, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReportArchive), args.Error(1)
}

func (m *MockArchiveRepository) List(ctx context.Context, q repository.ArchiveQuery) (*repository.PageResult[model.ReportArchive], error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.ReportArchive]), args.Error(1)
}

func (m *MockArchiveRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
