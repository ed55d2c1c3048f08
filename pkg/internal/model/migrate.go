// Package model 定义数据库模型与迁移入口.
package model

import (
	"fmt"

	"gorm.io/gorm"
)

// AllModels 迁移顺序：先父表后子表.
func AllModels() []any {
	return []any{
		&User{},
		&RoleAssignment{},
		&Org{},
		&Project{},
		&Workspace{},
		&Backend{},
		&Release{},
		&ReleaseFile{},
		&Snapshot{},
		&Report{},
		&AnalysisRequest{},
		&PublishRequest{},
	}
}

// Migrate 建表并同步索引与 CHECK 约束.
// 成对字段的 CHECK 约束声明在模型的 check 标签上，AutoMigrate 会在建表语句里
// 生成表级约束，sqlite 上同样生效；缺约束的存量表由各方言的 Migrator 补齐.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	return nil
}
