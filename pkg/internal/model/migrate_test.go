package model_test

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"github.com/yeisme/airvault/pkg/internal/model"
)

func newMigratedDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := model.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}

// 软删除标记必须成对落库，半套写入应被表级 CHECK 约束拒绝.
func TestSoftDeletePairConstraint(t *testing.T) {
	db := newMigratedDB(t)
	now := time.Now().UTC()
	uid := uint(1)

	base := model.ReleaseFile{
		ReleaseID:   "01HZX0000000000000000000F0",
		WorkspaceID: 1,
		Name:        "outputs/table.csv",
		Path:        "/srv/releases/ws/table.csv",
		CreatedByID: uid,
		CreatedAt:   now,
	}

	intact := base
	intact.ID = "01HZX0000000000000000000F1"

	if err := db.Create(&intact).Error; err != nil {
		t.Fatalf("create without markers: %v", err)
	}

	halfAt := base
	halfAt.ID = "01HZX0000000000000000000F2"
	halfAt.DeletedAt = &now

	if err := db.Create(&halfAt).Error; err == nil {
		t.Fatal("expected integrity error for deleted_at without deleted_by")
	}

	halfBy := base
	halfBy.ID = "01HZX0000000000000000000F3"
	halfBy.DeletedByID = &uid

	if err := db.Create(&halfBy).Error; err == nil {
		t.Fatal("expected integrity error for deleted_by without deleted_at")
	}

	pair := base
	pair.ID = "01HZX0000000000000000000F4"
	pair.DeletedAt = &now
	pair.DeletedByID = &uid

	if err := db.Create(&pair).Error; err != nil {
		t.Fatalf("create with full marker pair: %v", err)
	}

	// 已落库的行也不允许被改成半套状态
	err := db.Model(&model.ReleaseFile{}).Where("id = ?", intact.ID).
		Update("deleted_at", now).Error
	if err == nil {
		t.Fatal("expected integrity error when setting deleted_at alone")
	}
}

// 裁决三元组必须同时设置，PENDING 以外的 decision 缺 decided_at/decided_by 应被拒绝.
func TestDecisionTripleConstraint(t *testing.T) {
	db := newMigratedDB(t)
	now := time.Now().UTC()
	uid := uint(1)

	pending := model.PublishRequest{
		ID:                "01HZX0000000000000000000P1",
		AnalysisRequestID: "01HZX0000000000000000000A1",
		Decision:          model.PublishPending,
		CreatedByID:       uid,
		CreatedAt:         now,
	}
	if err := db.Create(&pending).Error; err != nil {
		t.Fatalf("create pending: %v", err)
	}

	half := pending
	half.ID = "01HZX0000000000000000000P2"
	half.Decision = model.PublishApproved

	if err := db.Create(&half).Error; err == nil {
		t.Fatal("expected integrity error for decision without decided_at/decided_by")
	}

	full := pending
	full.ID = "01HZX0000000000000000000P3"
	full.Decision = model.PublishApproved
	full.DecidedAt = &now
	full.DecidedByID = &uid

	if err := db.Create(&full).Error; err != nil {
		t.Fatalf("create fully decided: %v", err)
	}
}
