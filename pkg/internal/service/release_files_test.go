package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/yeisme/airvault/pkg/internal/model"
)

func seedReleaseFileOnDisk(t *testing.T, s *Service, id string, workspaceID uint) *model.ReleaseFile {
	t.Helper()

	path := filepath.Join(t.TempDir(), id+".csv")
	if err := os.WriteFile(path, []byte("col,val\n"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	f := &model.ReleaseFile{
		ID:          id,
		ReleaseID:   "REL0000000000000000000001",
		WorkspaceID: workspaceID,
		Name:        "results/" + id + ".csv",
		Path:        path,
		Size:        8,
	}
	if err := s.dbClient.Create(f).Error; err != nil {
		t.Fatalf("seed release file: %v", err)
	}

	return f
}

func TestSoftDeleteSetsMarkerPairAndRemovesFile(t *testing.T) {
	svc := &ReleaseFileService{newTestService(t)}
	ctx := context.Background()

	seedUser(t, svc.Service, "carol", model.RoleOutputChecker)
	file := seedReleaseFileOnDisk(t, svc.Service, "F0000000000000000000000001", 1)

	deleted, err := svc.IsDeleted(ctx, file.ID)
	if err != nil {
		t.Fatalf("IsDeleted before: %v", err)
	}

	if deleted {
		t.Fatal("file exists on disk, IsDeleted should be false")
	}

	if err := svc.SoftDelete(ctx, file.ID, "carol"); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}

	got, err := svc.Get(ctx, file.ID)
	if err != nil {
		t.Fatalf("Get after delete: %v", err)
	}

	// 行保留，成对标记已设置
	if !got.IsSoftDeleted() {
		t.Fatal("markers should be set after soft delete")
	}

	deleted, err = svc.IsDeleted(ctx, file.ID)
	if err != nil {
		t.Fatalf("IsDeleted after: %v", err)
	}

	if !deleted {
		t.Fatal("file should be gone from disk")
	}

	// 软删除是一次性的
	if err := svc.SoftDelete(ctx, file.ID, "carol"); !errors.Is(err, ErrAlreadyDecided) {
		t.Fatalf("second soft delete: got %v, want ErrAlreadyDecided", err)
	}
}

func TestSoftDeleteRequiresChecker(t *testing.T) {
	svc := &ReleaseFileService{newTestService(t)}
	ctx := context.Background()

	seedUser(t, svc.Service, "alice")
	file := seedReleaseFileOnDisk(t, svc.Service, "F0000000000000000000000001", 1)

	if err := svc.SoftDelete(ctx, file.ID, "alice"); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("got %v, want ErrPermissionDenied", err)
	}

	// 文件与标记均未动
	got, err := svc.Get(ctx, file.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if got.IsSoftDeleted() {
		t.Fatal("denied delete must not set markers")
	}

	if _, err := os.Stat(file.Path); err != nil {
		t.Fatalf("denied delete must not touch disk: %v", err)
	}
}

func TestListActiveExcludesDeleted(t *testing.T) {
	svc := &ReleaseFileService{newTestService(t)}
	ctx := context.Background()

	seedUser(t, svc.Service, "carol", model.RoleOutputChecker)
	keep := seedReleaseFileOnDisk(t, svc.Service, "F0000000000000000000000001", 1)
	drop := seedReleaseFileOnDisk(t, svc.Service, "F0000000000000000000000002", 1)

	if err := svc.SoftDelete(ctx, drop.ID, "carol"); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}

	active, err := svc.ListActive(ctx, 1)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}

	if len(active) != 1 || active[0].ID != keep.ID {
		t.Fatalf("active = %+v, want only %s", active, keep.ID)
	}
}
