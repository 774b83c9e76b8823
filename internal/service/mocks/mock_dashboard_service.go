package mocks

import (
	"context"

	"gsa/internal/gmp/collection"

	"github.com/stretchr/testify/mock"
)

type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Counts(ctx context.Context, types []string, term string) (map[string]collection.Counts, error) {
	args := m.Called(ctx, types, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]collection.Counts), args.Error(1)
}
