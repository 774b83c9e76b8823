package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gsa/internal/gmp/command"
	gmpMocks "gsa/internal/gmp/command/mocks"
	"gsa/internal/gmp/transport"
	"gsa/internal/model"
	"gsa/internal/repository"
	repoMocks "gsa/internal/repository/mocks"
	"gsa/internal/storage"
	storeMocks "gsa/internal/storage/mocks"
	"gsa/internal/validation"
)

const reportWithTask = `<envelope><get_reports_response status="200">
	<report id="r1"><task id="t1"><name>Nightly</name></task><report id="r1"/></report>
</get_reports_response></envelope>`


func TestArchiveService_Archive(t *testing.T) {
	ctx := context.Background()

	download := func() *transport.Download {
		return &transport.Download{
			Body:          io.NopCloser(strings.NewReader("<report/>")),
			ContentType:   "application/xml",
			ContentLength: 9,
			Filename:      "report-r1.xml",
		}
	}
	expectReport := func(t *testing.T, m *gmpMocks.MockSender) {
		m.On("Get", ctx, gmpCommand("get_report", param("report_id", "r1"))).Return(response(t, reportWithTask), nil)
		m.On("Download", ctx, http.MethodGet, gmpCommand("get_report",
			param("report_id", "r1"),
			param("report_format_id", command.ReportFormatXML),
		)).Return(download(), nil)
	}
	stored := func(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
		return storage.ObjectInfo{Key: key, Size: opt.Size}
	}

	tests := []struct {
		name       string
		reportID   string
		req        ArchiveRequest
		setupMocks func(t *testing.T, m *gmpMocks.MockSender, mStore *storeMocks.MockStorage, mRepo *repoMocks.MockArchiveRepository)
		wantErr    error
		wantErrMsg string
	}{
		{
			name:     "happy path",
			reportID: "r1",
			setupMocks: func(t *testing.T, m *gmpMocks.MockSender, mStore *storeMocks.MockStorage, mRepo *repoMocks.MockArchiveRepository) {
				expectReport(t, m)
				mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
					return strings.HasPrefix(key, "reports/r1/") && strings.HasSuffix(key, ".xml")
				}), mock.Anything, storage.PutObjectOptions{
					Size:        9,
					ContentType: "application/xml",
					Metadata:    map[string]string{"report-id": "r1", "format-id": command.ReportFormatXML},
				}).Return(stored, nil)
				mRepo.On("Create", ctx, mock.MatchedBy(func(a *model.ReportArchive) bool {
					return a.CreatedBy == "alice" &&
						a.TaskID == "t1" &&
						a.TaskName == "Nightly" &&
						a.Filename == "report-r1.xml" &&
						a.Size == 9 &&
						strings.HasPrefix(a.StoragePath, "reports/r1/")
				})).Return(&model.ReportArchive{ID: "a1", ReportID: "r1"}, nil)
			},
		},
		{
			name:       "missing report id",
			setupMocks: func(t *testing.T, m *gmpMocks.MockSender, mStore *storeMocks.MockStorage, mRepo *repoMocks.MockArchiveRepository) {},
			wantErr:    ErrIDRequired,
		},
		{
			name:       "invalid format id",
			reportID:   "r1",
			req:        ArchiveRequest{FormatID: "pdf"},
			setupMocks: func(t *testing.T, m *gmpMocks.MockSender, mStore *storeMocks.MockStorage, mRepo *repoMocks.MockArchiveRepository) {},
			wantErrMsg: "format_id must be a valid uuid",
		},
		{
			name:     "report not found",
			reportID: "r1",
			setupMocks: func(t *testing.T, m *gmpMocks.MockSender, mStore *storeMocks.MockStorage, mRepo *repoMocks.MockArchiveRepository) {
				m.On("Get", ctx, gmpCommand("get_report")).
					Return(response(t, `<envelope><get_reports_response status="200"/></envelope>`), nil)
			},
			wantErr: command.ErrNotFound,
		},
		{
			name:     "storage error",
			reportID: "r1",
			setupMocks: func(t *testing.T, m *gmpMocks.MockSender, mStore *storeMocks.MockStorage, mRepo *repoMocks.MockArchiveRepository) {
				expectReport(t, m)
				mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{}, errors.New("storage fail"))
			},
			wantErrMsg: "upload to storage: storage fail",
		},
		{
			name:     "repository error with successful rollback",
			reportID: "r1",
			setupMocks: func(t *testing.T, m *gmpMocks.MockSender, mStore *storeMocks.MockStorage, mRepo *repoMocks.MockArchiveRepository) {
				expectReport(t, m)
				mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).Return(stored, nil)
				mRepo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
				mStore.On("Delete", ctx, mock.MatchedBy(func(key string) bool {
					return strings.HasPrefix(key, "reports/r1/")
				})).Return(nil)
			},
			wantErrMsg: "db save failed: db fail",
		},
		{
			name:     "repository error with failed rollback",
			reportID: "r1",
			setupMocks: func(t *testing.T, m *gmpMocks.MockSender, mStore *storeMocks.MockStorage, mRepo *repoMocks.MockArchiveRepository) {
				expectReport(t, m)
				mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).Return(stored, nil)
				mRepo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
				mStore.On("Delete", ctx, mock.Anything).Return(errors.New("delete fail"))
			},
			wantErrMsg: "rollback delete failed: delete fail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(gmpMocks.MockSender)
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockArchiveRepository)
			tt.setupMocks(t, m, mStore, mRepo)
			svc := NewArchiveService(m, mStore, mRepo, validation.New(), time.Hour)

			a, err := svc.Archive(ctx, "alice", tt.reportID, tt.req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else if tt.wantErrMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "a1", a.ID)
			}

			m.AssertExpectations(t)
			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestExtension(t *testing.T) {
	tests := []struct {
		filename    string
		contentType string
		want        string
	}{
		{"report.pdf", "application/xml", ".pdf"},
		{"", "application/pdf", ".pdf"},
		{"", "application/x-unknown-gsa", ".bin"},
	}
	for _, tt := range tests {
		t.Run(tt.filename+tt.contentType, func(t *testing.T) {
			assert.Equal(t, tt.want, extension(tt.filename, tt.contentType))
		})
	}
}

func TestArchiveService_List(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		limit      int
		offset     int
		setupMocks func(mRepo *repoMocks.MockArchiveRepository)
		wantTotal  int
		wantErr    bool
	}{
		{
			name:   "defaults",
			limit:  0,
			offset: -5,
			setupMocks: func(mRepo *repoMocks.MockArchiveRepository) {
				mRepo.On("List", ctx, repository.ArchiveQuery{
					PageQuery: repository.PageQuery{Limit: 10, Offset: 0},
					CreatedBy: "alice",
				}).Return(&repository.PageResult[model.ReportArchive]{
					Items: []model.ReportArchive{{ID: "a1"}},
					Total: 1,
				}, nil)
			},
			wantTotal: 1,
		},
		{
			name:   "repository error",
			limit:  5,
			offset: 10,
			setupMocks: func(mRepo *repoMocks.MockArchiveRepository) {
				mRepo.On("List", ctx, mock.Anything).Return(nil, errors.New("db fail"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockArchiveRepository)
			tt.setupMocks(mRepo)
			svc := NewArchiveService(new(gmpMocks.MockSender), new(storeMocks.MockStorage), mRepo, nil, time.Hour)

			res, err := svc.List(ctx, "alice", "", tt.limit, tt.offset)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantTotal, res.Total)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestArchiveService_Get(t *testing.T) {
	ctx := context.Background()
	archive := &model.ReportArchive{ID: "a1", CreatedBy: "alice", StoragePath: "reports/r1/a1.pdf", Filename: "report.pdf"}

	tests := []struct {
		name       string
		owner      string
		id         string
		setupMocks func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockArchiveRepository)
		wantURL    string
		wantErr    error
	}{
		{
			name:  "happy path",
			owner: "alice",
			id:    "a1",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockArchiveRepository) {
				mRepo.On("FindByID", ctx, "a1").Return(archive, nil)
				mStore.On("PresignGet", ctx, "reports/r1/a1.pdf", time.Hour, "report.pdf").
					Return("https://minio/presigned", nil)
			},
			wantURL: "https://minio/presigned",
		},
		{
			name:  "not found",
			owner: "alice",
			id:    "missing",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockArchiveRepository) {
				mRepo.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
		{
			name:  "other owner",
			owner: "bob",
			id:    "a1",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockArchiveRepository) {
				mRepo.On("FindByID", ctx, "a1").Return(archive, nil)
			},
			wantErr: ErrNotFound,
		},
		{
			name:       "empty id",
			owner:      "alice",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockArchiveRepository) {},
			wantErr:    ErrIDRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockArchiveRepository)
			tt.setupMocks(mStore, mRepo)
			svc := NewArchiveService(new(gmpMocks.MockSender), mStore, mRepo, nil, time.Hour)

			a, err := svc.Get(ctx, tt.owner, tt.id)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantURL, a.URL)
			}
			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestArchiveService_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		setupMocks func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockArchiveRepository)
		wantErrMsg string
	}{
		{
			name: "happy path",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockArchiveRepository) {
				mRepo.On("FindByID", ctx, "a1").Return(&model.ReportArchive{ID: "a1", CreatedBy: "alice", StoragePath: "k"}, nil)
				mStore.On("Delete", ctx, "k").Return(nil)
				mRepo.On("Delete", ctx, "a1").Return(nil)
			},
		},
		{
			name: "storage error keeps the record",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockArchiveRepository) {
				mRepo.On("FindByID", ctx, "a1").Return(&model.ReportArchive{ID: "a1", CreatedBy: "alice", StoragePath: "k"}, nil)
				mStore.On("Delete", ctx, "k").Return(errors.New("storage fail"))
			},
			wantErrMsg: "delete storage: storage fail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockArchiveRepository)
			tt.setupMocks(mStore, mRepo)
			svc := NewArchiveService(new(gmpMocks.MockSender), mStore, mRepo, nil, time.Hour)

			err := svc.Delete(ctx, "alice", "a1")

			if tt.wantErrMsg != "" {
				assert.EqualError(t, err, tt.wantErrMsg)
				mRepo.AssertNotCalled(t, "Delete", ctx, "a1")
			} else {
				assert.NoError(t, err)
			}
			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}
