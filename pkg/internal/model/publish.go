package model

import (
	"time"
)

// Report 一份可对外的分析报告，指向其核心输出文件.
type Report struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"size:512"   json:"title"`
	ReleaseFileID string    `gorm:"size:26"    json:"release_file_id"`
	CreatedByID   uint      `gorm:"index"      json:"created_by_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AnalysisRequest 针对某项目的一次分析请求，公开流程的归属单元.
type AnalysisRequest struct {
	ID          string    `gorm:"primaryKey;size:26" json:"id"`
	ProjectID   uint      `gorm:"index"              json:"project_id"`
	ReportID    *uint     `gorm:"index"              json:"report_id,omitempty"`
	Title       string    `gorm:"size:512"           json:"title"`
	CreatedByID uint      `gorm:"index"              json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`

	Project Project `gorm:"foreignKey:ProjectID" json:"-"`
}

// PublishDecision 公开请求的裁决状态.
type PublishDecision string

const (
	PublishPending  PublishDecision = "PENDING"
	PublishApproved PublishDecision = "APPROVED"
	PublishRejected PublishDecision = "REJECTED"
)

// PublishRequest 请求将与 Report 绑定的 Snapshot 公开的裁决记录.
// 裁决三元组（decision 非 PENDING、decided_at、decided_by）必须同时设置，
// 由 check 标签生成的表级 CHECK 约束兜底.
type PublishRequest struct {
	ID                string          `gorm:"primaryKey;size:26" json:"id"`
	ReportID          uint            `gorm:"index"              json:"report_id"`
	SnapshotID        uint            `gorm:"index"              json:"snapshot_id"`
	AnalysisRequestID string          `gorm:"size:26;index"      json:"analysis_request_id"`
	Decision          PublishDecision `gorm:"size:16;index;check:chk_publish_requests_decision,(decision = 'PENDING' AND decided_at IS NULL AND decided_by_id IS NULL) OR (decision <> 'PENDING' AND decided_at IS NOT NULL AND decided_by_id IS NOT NULL)" json:"decision"`
	DecidedAt         *time.Time      `json:"decided_at,omitempty"`
	DecidedByID       *uint           `json:"decided_by_id,omitempty"`
	CreatedByID       uint            `gorm:"index"              json:"created_by_id"`
	CreatedAt         time.Time       `json:"created_at"`

	Snapshot Snapshot `gorm:"foreignKey:SnapshotID" json:"-"`
}

// TableName 指定表名，便于 CHECK 约束表达式引用.
func (PublishRequest) TableName() string { return "publish_requests" }

// IsDecided 是否已裁决（终态）.
func (p *PublishRequest) IsDecided() bool {
	return p.Decision == PublishApproved || p.Decision == PublishRejected
}
