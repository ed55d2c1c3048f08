package types

import "time"

// CreateSnapshotRequest 从一组已放行文件创建快照. 成员一经设置即冻结.
type CreateSnapshotRequest struct {
	FileIDs   []string `binding:"required,min=1" json:"file_ids"`
	CreatedBy string   `binding:"required"       json:"created_by"`
}

// SnapshotResponse 快照视图.
type SnapshotResponse struct {
	ID            uint       `json:"id"`
	Workspace     string     `json:"workspace"`
	CreatedByID   uint       `json:"created_by_id"`
	CreatedAt     time.Time  `json:"created_at"`
	PublishedByID *uint      `json:"published_by_id,omitempty"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	IsDraft       bool       `json:"is_draft"`

	Files []ReleaseFileResponse `json:"files,omitempty"`
}

// PublishSnapshotRequest 对外发布快照.
type PublishSnapshotRequest struct {
	PublishedBy string `binding:"required" json:"published_by"`
}
