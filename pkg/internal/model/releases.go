package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// ReleaseStatus 发布请求状态. 一旦裁决不可回退.
type ReleaseStatus string

const (
	ReleaseRequested ReleaseStatus = "REQUESTED"
	ReleaseApproved  ReleaseStatus = "APPROVED"
	ReleaseRejected  ReleaseStatus = "REJECTED"
)

// Release 数据库模型：从安全后端导出一组文件的请求.
// RequestedFilesJSON 以 JSON 文本存储文件路径列表以保持实现简单.
type Release struct {
	ID                 string        `gorm:"primaryKey;size:26" json:"id"`
	WorkspaceID        uint          `gorm:"index"              json:"workspace_id"`
	BackendID          uint          `gorm:"index"              json:"backend_id"`
	Status             ReleaseStatus `gorm:"size:16;index"      json:"status"`
	RequestedFilesJSON string        `gorm:"type:text"          json:"-"`
	CreatedByID        uint          `gorm:"index"              json:"created_by_id"`
	CreatedAt          time.Time     `json:"created_at"`
	DecidedByID        *uint         `json:"decided_by_id,omitempty"`
	DecidedAt          *time.Time    `json:"decided_at,omitempty"`

	Workspace Workspace     `gorm:"foreignKey:WorkspaceID" json:"-"`
	Backend   Backend       `gorm:"foreignKey:BackendID"   json:"-"`
	Files     []ReleaseFile `gorm:"foreignKey:ReleaseID"   json:"files,omitempty"`
}

// RequestedFiles 反序列化请求文件路径列表.
func (r *Release) RequestedFiles() ([]string, error) {
	if r.RequestedFilesJSON == "" {
		return nil, nil
	}

	var files []string
	if err := json.Unmarshal([]byte(r.RequestedFilesJSON), &files); err != nil {
		return nil, fmt.Errorf("unmarshal requested_files: %w", err)
	}

	return files, nil
}

// SetRequestedFiles 序列化请求文件路径列表.
func (r *Release) SetRequestedFiles(files []string) error {
	b, err := json.Marshal(files)
	if err != nil {
		return fmt.Errorf("marshal requested_files: %w", err)
	}

	r.RequestedFilesJSON = string(b)

	return nil
}

// IsDecided 是否已裁决（终态）.
func (r *Release) IsDecided() bool {
	return r.Status == ReleaseApproved || r.Status == ReleaseRejected
}

// SizeFormat 文件大小的展示单位.
type SizeFormat string

const (
	SizeBytes     SizeFormat = "b"
	SizeKilobytes SizeFormat = "Kb"
	SizeMegabytes SizeFormat = "Mb"

	kilobyte = 1024
	megabyte = 1024 * 1024
)

// ReleaseFile 放行后落盘的单个文件.
// 软删除标记 DeletedAt/DeletedBy 必须同时设置或同时为空，由 check 标签生成的
// 表级 CHECK 约束兜底；违反约束的写入由驱动报完整性错误，调用方不重试.
type ReleaseFile struct {
	ID          string `gorm:"primaryKey;size:26" json:"id"`
	ReleaseID   string `gorm:"size:26;index"      json:"release_id"`
	WorkspaceID uint   `gorm:"index"              json:"workspace_id"`
	// Name 研究者视角的逻辑路径.
	Name string `gorm:"size:1024;index" json:"name"`
	// Path 本地存储树里的物理路径.
	Path        string     `gorm:"size:1024"  json:"path"`
	SHA256      string     `gorm:"size:64"    json:"sha256"`
	Size        int64      `json:"size"`
	Mtime       time.Time  `json:"mtime"`
	CreatedByID uint       `gorm:"index"      json:"created_by_id"`
	CreatedAt   time.Time  `json:"created_at"`
	DeletedAt   *time.Time `gorm:"index;check:chk_release_files_deleted_pair,(deleted_at IS NULL AND deleted_by_id IS NULL) OR (deleted_at IS NOT NULL AND deleted_by_id IS NOT NULL)" json:"deleted_at,omitempty"`
	DeletedByID *uint      `json:"deleted_by_id,omitempty"`
}

// TableName 指定表名，便于 CHECK 约束表达式引用.
func (ReleaseFile) TableName() string { return "release_files" }

// IsSoftDeleted 软删除标记是否已设置. 与磁盘实际状态无关，后者见 service 层的 IsDeleted.
func (f *ReleaseFile) IsSoftDeleted() bool {
	return f.DeletedAt != nil && f.DeletedByID != nil
}

// FormatSize 按指定单位渲染文件大小.
// 字节单位输出千位分组整数；Kb/Mb 按 1024/1024² 换算，四舍六入五成双保留两位小数，
// 去除尾随零后再做千位分组.
func (f *ReleaseFile) FormatSize(format SizeFormat) (string, error) {
	switch format {
	case SizeBytes:
		return groupThousands(fmt.Sprintf("%d", f.Size)) + string(SizeBytes), nil
	case SizeKilobytes:
		return formatScaled(f.Size, kilobyte) + string(SizeKilobytes), nil
	case SizeMegabytes:
		return formatScaled(f.Size, megabyte) + string(SizeMegabytes), nil
	default:
		return "", fmt.Errorf("unknown size format: %q", format)
	}
}

// formatScaled 换算并渲染两位小数（银行家舍入），去尾零.
func formatScaled(size int64, divisor int64) string {
	// 先放大到百分位再取整，避免浮点格式化阶段的二次舍入
	hundredths := int64(math.RoundToEven(float64(size) * 100 / float64(divisor)))
	whole := hundredths / 100
	frac := hundredths % 100

	s := groupThousands(fmt.Sprintf("%d", whole))
	if frac != 0 {
		fracStr := fmt.Sprintf("%02d", frac)
		fracStr = strings.TrimRight(fracStr, "0")
		s += "." + fracStr
	}

	return s
}

// groupThousands 对十进制整数字符串做千位分组.
func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	n := len(s)
	if n <= 3 {
		if neg {
			return "-" + s
		}

		return s
	}

	var b strings.Builder

	head := n % 3
	if head > 0 {
		b.WriteString(s[:head])
	}

	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}

		b.WriteString(s[i : i+3])
	}

	out := b.String()
	if neg {
		return "-" + out
	}

	return out
}
