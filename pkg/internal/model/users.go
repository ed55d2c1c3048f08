package model

import (
	"time"
)

// 全局与项目范围角色名. 角色检查见 pkg/authz.
const (
	RoleInteractiveReporter = "interactive_reporter" // 项目范围：可发起公开请求
	RoleCoreDeveloper       = "core_developer"       // 全局：平台开发者，绕过项目范围检查
	RoleOutputChecker       = "output_checker"       // 全局：输出审核员，裁决发布与公开请求
	RoleOutputPublisher     = "output_publisher"     // 全局：可对外发布快照
)

// User 认证主体，角色通过 RoleAssignment 关联.
type User struct {
	ID        uint      `gorm:"primaryKey"              json:"id"`
	Username  string    `gorm:"size:255;uniqueIndex"    json:"username"`
	Email     string    `gorm:"size:255;index"          json:"email"`
	FullName  string    `gorm:"size:255"                json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoleAssignment 一条角色授予记录. ProjectID 为空表示全局角色.
type RoleAssignment struct {
	ID        uint      `gorm:"primaryKey"                          json:"id"`
	UserID    uint      `gorm:"index:idx_role_user_project;index"   json:"user_id"`
	Role      string    `gorm:"size:64;index"                       json:"role"`
	ProjectID *uint     `gorm:"index:idx_role_user_project"         json:"project_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Org 组织，Project 的父级.
type Org struct {
	ID        uint      `gorm:"primaryKey"           json:"id"`
	Slug      string    `gorm:"size:255;uniqueIndex" json:"slug"`
	Name      string    `gorm:"size:255"             json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Project 研究项目，项目范围角色的授权边界.
type Project struct {
	ID        uint      `gorm:"primaryKey"                             json:"id"`
	OrgID     uint      `gorm:"index"                                  json:"org_id"`
	Slug      string    `gorm:"size:255;index:idx_project_slug,unique" json:"slug"`
	Name      string    `gorm:"size:255"                               json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Workspace 工作区：绑定代码仓库与分支，拥有 Release 与 Snapshot.
type Workspace struct {
	ID        uint      `gorm:"primaryKey"           json:"id"`
	ProjectID uint      `gorm:"index"                json:"project_id"`
	Name      string    `gorm:"size:255;uniqueIndex" json:"name"`
	RepoURL   string    `gorm:"size:1024"            json:"repo_url"`
	Branch    string    `gorm:"size:255"             json:"branch"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Backend 安全执行环境，Release 的来源. Token 原样存储，入站请求据此解析主体.
type Backend struct {
	ID        uint      `gorm:"primaryKey"           json:"id"`
	Slug      string    `gorm:"size:255;uniqueIndex" json:"slug"`
	Name      string    `gorm:"size:255"             json:"name"`
	AuthToken string    `gorm:"size:255;uniqueIndex" json:"-"`
	// Bucket 对象存储中该后端的专属桶，放行时从这里拷出文件.
	Bucket    string    `gorm:"size:255"             json:"bucket"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
