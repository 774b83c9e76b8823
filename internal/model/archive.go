// Package model contains the gateway's own persisted records. GMP entities
// live in internal/gmp/model.
package model

import "time"

// ReportArchive is a rendered scan report kept in object storage.
type ReportArchive struct {
	ID          string    `json:"id"`
	ReportID    string    `json:"report_id"`
	TaskID      string    `json:"task_id,omitempty"`
	TaskName    string    `json:"task_name,omitempty"`
	FormatID    string    `json:"format_id"`
	Filter      string    `json:"filter,omitempty"`
	Filename    string    `json:"filename"`
	StoragePath string    `json:"storage_path"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	// URL is a presigned download link, set on reads only.
	URL string `json:"url,omitempty"`
}
