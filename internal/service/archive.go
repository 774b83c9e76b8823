package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"mime"
	"path"
	"time"

	"github.com/google/uuid"

	"gsa/internal/gmp/command"
	"gsa/internal/gmp/filter"
	"gsa/internal/model"
	"gsa/internal/repository"
	"gsa/internal/storage"
)

// ArchiveRequest selects how a report is rendered before archiving.
type ArchiveRequest struct {
	FormatID string `json:"format_id" validate:"omitempty,uuid"`
	Filter   string `json:"filter"`
}

// ArchiveListResult is one page of archives.
type ArchiveListResult struct {
	Items []model.ReportArchive `json:"data"`
	Total int                   `json:"total"`
}

// ArchiveService keeps rendered reports in object storage.
type ArchiveService interface {
	// Archive downloads the report rendered with req, stores it and records
	// its metadata. The stored object is removed again if recording fails.
	Archive(ctx context.Context, owner, reportID string, req ArchiveRequest) (*model.ReportArchive, error)
	// List returns the archives of owner, optionally of one report only.
	List(ctx context.Context, owner, reportID string, limit, offset int) (*ArchiveListResult, error)
	// Get returns an archive of owner with a presigned download URL.
	Get(ctx context.Context, owner, id string) (*model.ReportArchive, error)
	// Delete removes the stored object, then the record.
	Delete(ctx context.Context, owner, id string) error
}

type archiveService struct {
	reports   *command.ReportCommand
	store     storage.Storage
	repo      repository.ArchiveRepository
	validator Validator
	urlExpiry time.Duration
	now       func() time.Time
}

// NewArchiveService constructs an ArchiveService. Presigned URLs are valid
// for urlExpiry.
func NewArchiveService(s command.Sender, store storage.Storage, repo repository.ArchiveRepository, v Validator, urlExpiry time.Duration) ArchiveService {
	return &archiveService{
		reports:   command.NewReportCommand(s),
		store:     store,
		repo:      repo,
		validator: v,
		urlExpiry: urlExpiry,
		now:       time.Now,
	}
}

func (s *archiveService) Archive(ctx context.Context, owner, reportID string, req ArchiveRequest) (*model.ReportArchive, error) {
	if reportID == "" {
		return nil, ErrIDRequired
	}
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	if req.FormatID == "" {
		req.FormatID = command.ReportFormatXML
	}

	report, err := s.reports.Get(ctx, reportID)
	if err != nil {
		return nil, err
	}

	f := filter.Parse(req.Filter)
	dl, err := s.reports.Download(ctx, reportID, req.FormatID, f)
	if err != nil {
		return nil, err
	}
	defer dl.Body.Close()

	contentType := dl.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	id := uuid.New().String()
	ext := extension(dl.Filename, contentType)
	key := path.Join("reports", reportID, id+ext)
	filename := dl.Filename
	if filename == "" {
		filename = "report-" + reportID + ext
	}

	size := dl.ContentLength
	if size <= 0 {
		size = -1
	}
	obj, err := s.store.Put(ctx, key, dl.Body, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"report-id": reportID,
			"format-id": req.FormatID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	a := &model.ReportArchive{
		ID:          id,
		ReportID:    reportID,
		FormatID:    req.FormatID,
		Filter:      f.String(),
		Filename:    filename,
		StoragePath: obj.Key,
		Size:        obj.Size,
		ContentType: contentType,
		CreatedBy:   owner,
		CreatedAt:   s.now().UTC(),
	}
	if report.Task != nil {
		a.TaskID = report.Task.ID
		a.TaskName = report.Task.Name
	}

	stored, err := s.repo.Create(ctx, a)
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

func extension(filename, contentType string) string {
	if ext := path.Ext(filename); ext != "" {
		return ext
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}

func (s *archiveService) List(ctx context.Context, owner, reportID string, limit, offset int) (*ArchiveListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.ArchiveQuery{
		PageQuery: repository.PageQuery{Limit: limit, Offset: offset},
		CreatedBy: owner,
		ReportID:  reportID,
	})
	if err != nil {
		return nil, err
	}
	return &ArchiveListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *archiveService) find(ctx context.Context, owner, id string) (*model.ReportArchive, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if a.CreatedBy != owner {
		return nil, ErrNotFound
	}
	return a, nil
}

func (s *archiveService) Get(ctx context.Context, owner, id string) (*model.ReportArchive, error) {
	a, err := s.find(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	u, err := s.store.PresignGet(ctx, a.StoragePath, s.urlExpiry, a.Filename)
	if err != nil {
		return nil, fmt.Errorf("presign: %w", err)
	}
	a.URL = u
	return a, nil
}

func (s *archiveService) Delete(ctx context.Context, owner, id string) error {
	a, err := s.find(ctx, owner, id)
	if err != nil {
		return err
	}
	// keep the row if the object survives, it is the only reference to it
	if err := s.store.Delete(ctx, a.StoragePath); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	return s.repo.Delete(ctx, id)
}
