package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gsa/internal/gmp/command"
	"gsa/internal/gmp/command/mocks"
	"gsa/internal/gmp/filter"
	"gsa/internal/gmp/model"
	"gsa/internal/gmp/transport"
)

func TestEntityService_List(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		entityType   string
		term         string
		setupMocks   func(t *testing.T, m *mocks.MockSender)
		wantErr      error
		wantLen      int
		wantNext     bool
		wantPrevious bool
	}{
		{
			name:       "first page",
			entityType: "task",
			term:       "rows=10",
			setupMocks: func(t *testing.T, m *mocks.MockSender) {
				m.On("Get", ctx, gmpCommand("get_tasks", param("filter", "rows=10"))).
					Return(response(t, taskList), nil)
			},
			wantLen: 2,
		},
		{
			name:       "middle page",
			entityType: "tasks",
			setupMocks: func(t *testing.T, m *mocks.MockSender) {
				m.On("Get", ctx, mock.MatchedBy(func(p transport.Params) bool {
					return p.Command() == "get_tasks" && !p.Has("filter")
				})).Return(response(t, pagedTaskList), nil)
			},
			wantLen:      2,
			wantNext:     true,
			wantPrevious: true,
		},
		{
			name:       "unknown type",
			entityType: "widget",
			setupMocks: func(t *testing.T, m *mocks.MockSender) {},
			wantErr:    command.ErrUnknownType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(mocks.MockSender)
			tt.setupMocks(t, m)
			svc := NewEntityService(command.NewRegistry(m))

			got, err := svc.List(ctx, tt.entityType, tt.term)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "task", got.Type)
			assert.Len(t, got.Items, tt.wantLen)
			assert.Equal(t, tt.wantNext, got.Next != "")
			assert.Equal(t, tt.wantPrevious, got.Previous != "")
			m.AssertExpectations(t)
		})
	}
}

func TestEntityService_ListPaging(t *testing.T) {
	ctx := context.Background()
	m := new(mocks.MockSender)
	m.On("Get", ctx, gmpCommand("get_tasks")).Return(response(t, pagedTaskList), nil)

	got, err := NewEntityService(command.NewRegistry(m)).List(ctx, "task", "")

	require.NoError(t, err)
	assert.Equal(t, 5, filter.Parse(got.Next).First())
	assert.Equal(t, 1, filter.Parse(got.Previous).First())
	assert.Equal(t, "name", filter.Parse(got.Next).SortBy())
	assert.Equal(t, 7, got.Counts.Filtered)
	first, ok := got.Items[0].(model.Task)
	require.True(t, ok)
	assert.Equal(t, "third", first.Name)
}

func TestEntityService_Get(t *testing.T) {
	ctx := context.Background()
	m := new(mocks.MockSender)
	m.On("Get", ctx, gmpCommand("get_asset", param("asset_id", "h1"), param("asset_type", "host"))).
		Return(response(t, `<envelope><get_assets_response status="200">
			<asset id="h1"><name>10.0.0.1</name></asset>
		</get_assets_response></envelope>`), nil)
	svc := NewEntityService(command.NewRegistry(m))

	got, err := svc.Get(ctx, "host", "h1")
	require.NoError(t, err)
	host, ok := got.(model.Host)
	require.True(t, ok)
	assert.Equal(t, "10.0.0.1", host.Name)

	_, err = svc.Get(ctx, "host", "")
	assert.ErrorIs(t, err, ErrIDRequired)
	m.AssertExpectations(t)
}

func TestEntityService_DeleteAndClone(t *testing.T) {
	ctx := context.Background()
	m := new(mocks.MockSender)
	m.On("Post", ctx, gmpCommand("delete_target", param("target_id", "x1"))).Return(ok(t), nil)
	m.On("Post", ctx, gmpCommand("clone", param("resource_type", "target"), param("id", "x1"))).
		Return(created(t, "x2"), nil)
	svc := NewEntityService(command.NewRegistry(m))

	require.NoError(t, svc.Delete(ctx, "target", "x1"))
	id, err := svc.Clone(ctx, "target", "x1")
	require.NoError(t, err)
	assert.Equal(t, "x2", id)

	assert.ErrorIs(t, svc.Delete(ctx, "target", ""), ErrIDRequired)
	_, err = svc.Clone(ctx, "target", "")
	assert.ErrorIs(t, err, ErrIDRequired)
	m.AssertExpectations(t)
}

func TestEntityService_BulkDelete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		req        BulkRequest
		setupMocks func(t *testing.T, m *mocks.MockSender)
		want       []string
		wantErr    error
	}{
		{
			name: "by ids",
			req:  BulkRequest{IDs: []string{"t1", "t2"}},
			setupMocks: func(t *testing.T, m *mocks.MockSender) {
				m.On("Post", ctx, gmpCommand("bulk_delete",
					param("resource_type", "task"),
					param("bulk_selected:t1", "1"),
					param("bulk_selected:t2", "1"),
				)).Return(ok(t), nil)
			},
			want: []string{"t1", "t2"},
		},
		{
			name: "by filter",
			req:  BulkRequest{Filter: "name~scan"},
			setupMocks: func(t *testing.T, m *mocks.MockSender) {
				m.On("Get", ctx, gmpCommand("get_tasks")).Return(response(t, taskList), nil)
				m.On("Post", ctx, gmpCommand("bulk_delete", param("bulk_selected:t1", "1"))).Return(ok(t), nil)
			},
			want: []string{"t1", "t2"},
		},
		{
			name:       "nothing selected",
			setupMocks: func(t *testing.T, m *mocks.MockSender) {},
			wantErr:    ErrNothingToDo,
		},
		{
			name: "gmp error",
			req:  BulkRequest{IDs: []string{"t1"}},
			setupMocks: func(t *testing.T, m *mocks.MockSender) {
				m.On("Post", ctx, gmpCommand("bulk_delete")).Return(nil, errors.New("boom"))
			},
			wantErr: errors.New("boom"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(mocks.MockSender)
			tt.setupMocks(t, m)
			svc := NewEntityService(command.NewRegistry(m))

			got, err := svc.BulkDelete(ctx, "task", tt.req)

			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				return
			}
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, got)
			m.AssertExpectations(t)
		})
	}
}

func TestEntityService_Types(t *testing.T) {
	svc := NewEntityService(command.NewRegistry(new(mocks.MockSender)))

	assert.Contains(t, svc.Types(), "vulnerability")
	assert.Contains(t, svc.Types(), "portlist")
}
