package model

import (
	"time"
)

// Snapshot 某一时刻对一组 ReleaseFile 的不可变快照.
// 成员在创建时一次性冻结，不支持增量修改；发布是单向的，发布后不可撤回.
type Snapshot struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	WorkspaceID   uint       `gorm:"index"      json:"workspace_id"`
	CreatedByID   uint       `gorm:"index"      json:"created_by_id"`
	CreatedAt     time.Time  `json:"created_at"`
	PublishedByID *uint      `json:"published_by_id,omitempty"`
	PublishedAt   *time.Time `gorm:"index"      json:"published_at,omitempty"`

	Files []ReleaseFile `gorm:"many2many:snapshot_files" json:"files,omitempty"`
}

// IsDraft 尚未发布.
func (s *Snapshot) IsDraft() bool {
	return s.PublishedAt == nil
}

// IsPublished 返回发布时间，未发布为 nil.
func (s *Snapshot) IsPublished() *time.Time {
	return s.PublishedAt
}
