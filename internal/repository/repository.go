// Package repository contains data access layer abstractions.
// Implementations live in subpackages, e.g. postgres.
package repository

import (
	"context"

	"gsa/internal/model"
)

// ArchiveRepository persists report archive metadata.
type ArchiveRepository interface {
	// Create inserts a new archive record and returns the stored row.
	Create(ctx context.Context, a *model.ReportArchive) (*model.ReportArchive, error)

	// FindByID returns sql.ErrNoRows if no archive has the id.
	FindByID(ctx context.Context, id string) (*model.ReportArchive, error)

	// List returns one page of archives matching q, newest first.
	List(ctx context.Context, q ArchiveQuery) (*PageResult[model.ReportArchive], error)

	// Delete removes an archive record. Missing rows are not an error.
	Delete(ctx context.Context, id string) error
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// ArchiveQuery selects archives. Empty fields match everything.
type ArchiveQuery struct {
	PageQuery
	CreatedBy string
	ReportID  string
}

// PageResult is a generic pagination result wrapper.
type PageResult[T any] struct {
	Items []T
	Total int
}
