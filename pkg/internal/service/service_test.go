package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"github.com/yeisme/airvault/pkg/authz"
	"github.com/yeisme/airvault/pkg/internal/model"
	"github.com/yeisme/airvault/pkg/internal/storage/db"
)

// newTestService 基于内存 sqlite 构造最小服务依赖. MQ/S3/KV 留空，相关路径应当降级为空操作.
func newTestService(t *testing.T) *Service {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := model.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return &Service{
		dbClient: &db.Client{DB: gdb},
		checker:  authz.NewChecker(gdb),
	}
}

func seedUser(t *testing.T, s *Service, username string, roles ...string) *model.User {
	t.Helper()

	u := &model.User{Username: username}
	if err := s.dbClient.Create(u).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}

	for _, role := range roles {
		grant := &model.RoleAssignment{UserID: u.ID, Role: role}
		if err := s.dbClient.Create(grant).Error; err != nil {
			t.Fatalf("grant %s to %s: %v", role, username, err)
		}
	}

	return u
}

func seedProjectRole(t *testing.T, s *Service, userID uint, role string, projectID uint) {
	t.Helper()

	grant := &model.RoleAssignment{UserID: userID, Role: role, ProjectID: &projectID}
	if err := s.dbClient.Create(grant).Error; err != nil {
		t.Fatalf("grant project role %s: %v", role, err)
	}
}

func seedWorkspace(t *testing.T, s *Service, name string, projectID uint) *model.Workspace {
	t.Helper()

	w := &model.Workspace{Name: name, ProjectID: projectID, Branch: "main"}
	if err := s.dbClient.Create(w).Error; err != nil {
		t.Fatalf("seed workspace %s: %v", name, err)
	}

	return w
}

func seedProject(t *testing.T, s *Service, slug string) *model.Project {
	t.Helper()

	p := &model.Project{Slug: slug, Name: slug}
	if err := s.dbClient.Create(p).Error; err != nil {
		t.Fatalf("seed project %s: %v", slug, err)
	}

	return p
}
