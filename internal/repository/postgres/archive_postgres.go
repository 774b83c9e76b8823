package postgres

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"gsa/internal/model"
	"gsa/internal/repository"
)

// ArchivePostgres is a PostgreSQL implementation of repository.ArchiveRepository.
type ArchivePostgres struct {
	db *sql.DB
}

// NewArchivePostgres creates a new ArchivePostgres repository.
func NewArchivePostgres(db *sql.DB) *ArchivePostgres {
	return &ArchivePostgres{db: db}
}

var _ repository.ArchiveRepository = (*ArchivePostgres)(nil)

const archiveColumns = `id, report_id, task_id, task_name, format_id, filter, filename, storage_path, size, content_type, created_by, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanArchive(s scanner) (*model.ReportArchive, error) {
	var a model.ReportArchive
	if err := s.Scan(
		&a.ID,
		&a.ReportID,
		&a.TaskID,
		&a.TaskName,
		&a.FormatID,
		&a.Filter,
		&a.Filename,
		&a.StoragePath,
		&a.Size,
		&a.ContentType,
		&a.CreatedBy,
		&a.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new archive row and returns the stored record.
func (r *ArchivePostgres) Create(ctx context.Context, a *model.ReportArchive) (*model.ReportArchive, error) {
	const q = `
		INSERT INTO report_archives (` + archiveColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + archiveColumns
	row := r.db.QueryRowContext(ctx, q,
		a.ID,
		a.ReportID,
		a.TaskID,
		a.TaskName,
		a.FormatID,
		a.Filter,
		a.Filename,
		a.StoragePath,
		a.Size,
		a.ContentType,
		a.CreatedBy,
		a.CreatedAt,
	)
	return scanArchive(row)
}

// FindByID fetches a single archive by its ID.
func (r *ArchivePostgres) FindByID(ctx context.Context, id string) (*model.ReportArchive, error) {
	const q = `SELECT ` + archiveColumns + ` FROM report_archives WHERE id = $1`
	return scanArchive(r.db.QueryRowContext(ctx, q, id))
}

// List returns archives using LIMIT/OFFSET pagination and the total count
// of matching rows.
func (r *ArchivePostgres) List(ctx context.Context, aq repository.ArchiveQuery) (*repository.PageResult[model.ReportArchive], error) {
	where, args := archiveWhere(aq)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM report_archives`+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	n := len(args)
	qList := `SELECT ` + archiveColumns + ` FROM report_archives` + where +
		` ORDER BY created_at DESC, id DESC LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)
	rows, err := r.db.QueryContext(ctx, qList, append(args, aq.Limit, aq.Offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.ReportArchive, 0)
	for rows.Next() {
		a, err := scanArchive(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.ReportArchive]{Items: items, Total: total}, nil
}

func archiveWhere(aq repository.ArchiveQuery) (string, []any) {
	var conds []string
	var args []any
	add := func(col, v string) {
		if v == "" {
			return
		}
		args = append(args, v)
		conds = append(conds, col+" = $"+strconv.Itoa(len(args)))
	}
	add("created_by", aq.CreatedBy)
	add("report_id", aq.ReportID)
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// Delete removes an archive by ID. It does not return an error if the row does not exist.
func (r *ArchivePostgres) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM report_archives WHERE id = $1`, id)
	return err
}
