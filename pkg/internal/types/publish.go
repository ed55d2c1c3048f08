package types

import "time"

// CreatePublishRequestRequest 创建公开请求.
type CreatePublishRequestRequest struct {
	ReportID          uint   `binding:"required" json:"report_id"`
	SnapshotID        uint   `binding:"required" json:"snapshot_id"`
	AnalysisRequestID string `binding:"required" json:"analysis_request_id"`
	CreatedBy         string `binding:"required" json:"created_by"`
}

// PublishRequestResponse 公开请求视图.
type PublishRequestResponse struct {
	ID                string     `json:"id"`
	ReportID          uint       `json:"report_id"`
	SnapshotID        uint       `json:"snapshot_id"`
	AnalysisRequestID string     `json:"analysis_request_id"`
	Decision          string     `json:"decision"`
	DecidedByID       *uint      `json:"decided_by_id,omitempty"`
	DecidedAt         *time.Time `json:"decided_at,omitempty"`
	CreatedByID       uint       `json:"created_by_id"`
	CreatedAt         time.Time  `json:"created_at"`
}

// DecidePublishRequestRequest 审核员裁决公开请求.
type DecidePublishRequestRequest struct {
	// Decision 仅接受 APPROVED 或 REJECTED.
	Decision  string `binding:"required,oneof=APPROVED REJECTED" json:"decision"`
	DecidedBy string `binding:"required"                         json:"decided_by"`
}

// SoftDeleteFileRequest 软删除一个已放行文件.
type SoftDeleteFileRequest struct {
	DeletedBy string `binding:"required" json:"deleted_by"`
}
