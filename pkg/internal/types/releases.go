package types

import "time"

// CreateReleaseRequest 后端发起的文件导出请求.
type CreateReleaseRequest struct {
	Files []string `binding:"required,min=1" json:"files"`
	// CreatedBy 请求发起人用户名.
	CreatedBy string `binding:"required" json:"created_by"`
}

// ReleaseResponse 单个 Release 视图.
type ReleaseResponse struct {
	ID             string     `json:"id"`
	Workspace      string     `json:"workspace"`
	Backend        string     `json:"backend"`
	Status         string     `json:"status"`
	RequestedFiles []string   `json:"requested_files"`
	CreatedByID    uint       `json:"created_by_id"`
	CreatedAt      time.Time  `json:"created_at"`
	DecidedByID    *uint      `json:"decided_by_id,omitempty"`
	DecidedAt      *time.Time `json:"decided_at,omitempty"`

	Files []ReleaseFileResponse `json:"files,omitempty"`
}

// ListReleasesResponse Release 列表视图.
type ListReleasesResponse struct {
	Releases []ReleaseResponse `json:"releases"`
	Total    int64             `json:"total"`
}

// ReleaseFileResponse 单个已落盘文件视图.
type ReleaseFileResponse struct {
	ID        string     `json:"id"`
	ReleaseID string     `json:"release_id"`
	Name      string     `json:"name"`
	SHA256    string     `json:"sha256"`
	Size      int64      `json:"size"`
	SizeHuman string     `json:"size_human,omitempty"`
	Mtime     time.Time  `json:"mtime"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// DecideReleaseRequest 审核员对 Release 的裁决.
type DecideReleaseRequest struct {
	// DecidedBy 审核员用户名.
	DecidedBy string `binding:"required" json:"decided_by"`
}
