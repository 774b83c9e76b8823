package mocks

import (
	"context"

	"gsa/internal/gmp/command"
	"gsa/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockFilterService struct {
	mock.Mock
}

func (m *MockFilterService) Parse(term string, filtered int) service.FilterView {
	args := m.Called(term, filtered)
	return args.Get(0).(service.FilterView)
}

func (m *MockFilterService) Create(ctx context.Context, p command.FilterParams) (string, error) {
	args := m.Called(ctx, p)
	return args.String(0), args.Error(1)
}

func (m *MockFilterService) Save(ctx context.Context, id string, p command.FilterParams) error {
	args := m.Called(ctx, id, p)
	return args.Error(0)
}
