package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yeisme/airvault/pkg/internal/model"
	"github.com/yeisme/airvault/pkg/internal/types"
)

func seedReleaseFile(t *testing.T, s *Service, id string, workspaceID uint, deleted bool) *model.ReleaseFile {
	t.Helper()

	f := &model.ReleaseFile{
		ID:          id,
		ReleaseID:   "REL0000000000000000000001",
		WorkspaceID: workspaceID,
		Name:        "results/" + id + ".csv",
		Path:        "/tmp/" + id + ".csv",
	}

	if deleted {
		now := time.Now().UTC()
		uid := uint(1)
		f.DeletedAt = &now
		f.DeletedByID = &uid
	}

	if err := s.dbClient.Create(f).Error; err != nil {
		t.Fatalf("seed release file %s: %v", id, err)
	}

	return f
}

func TestCreateSnapshotFreezesMembers(t *testing.T) {
	svc := &SnapshotService{newTestService(t)}
	ctx := context.Background()

	workspace := seedWorkspace(t, svc.Service, "study-a", 1)
	seedUser(t, svc.Service, "alice")
	seedReleaseFile(t, svc.Service, "F0000000000000000000000001", workspace.ID, false)
	seedReleaseFile(t, svc.Service, "F0000000000000000000000002", workspace.ID, false)

	snapshot, err := svc.Create(ctx, "study-a", &types.CreateSnapshotRequest{
		FileIDs:   []string{"F0000000000000000000000001", "F0000000000000000000000002"},
		CreatedBy: "alice",
	})
	if err != nil {
		t.Fatalf("create snapshot: %v", err)
	}

	if len(snapshot.Files) != 2 {
		t.Fatalf("snapshot has %d files, want 2", len(snapshot.Files))
	}

	if !snapshot.IsDraft() {
		t.Fatal("new snapshot should be draft")
	}
}

func TestCreateSnapshotRejectsDeletedOrForeignFiles(t *testing.T) {
	svc := &SnapshotService{newTestService(t)}
	ctx := context.Background()

	workspace := seedWorkspace(t, svc.Service, "study-a", 1)
	other := seedWorkspace(t, svc.Service, "study-b", 1)
	seedUser(t, svc.Service, "alice")

	seedReleaseFile(t, svc.Service, "F0000000000000000000000001", workspace.ID, false)
	seedReleaseFile(t, svc.Service, "F0000000000000000000000002", workspace.ID, true)
	seedReleaseFile(t, svc.Service, "F0000000000000000000000003", other.ID, false)

	cases := []struct {
		name    string
		fileIDs []string
	}{
		{"soft deleted member", []string{"F0000000000000000000000001", "F0000000000000000000000002"}},
		{"foreign workspace member", []string{"F0000000000000000000000001", "F0000000000000000000000003"}},
		{"missing member", []string{"F0000000000000000000000001", "F00000000000000000000000FF"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, "study-a", &types.CreateSnapshotRequest{
				FileIDs:   tc.fileIDs,
				CreatedBy: "alice",
			})
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("got %v, want ErrNotFound", err)
			}
		})
	}
}

func TestPublishSnapshotIsOneWay(t *testing.T) {
	svc := &SnapshotService{newTestService(t)}
	ctx := context.Background()

	workspace := seedWorkspace(t, svc.Service, "study-a", 1)
	seedUser(t, svc.Service, "alice")
	seedUser(t, svc.Service, "pat", model.RoleOutputPublisher)
	seedReleaseFile(t, svc.Service, "F0000000000000000000000001", workspace.ID, false)

	snapshot, err := svc.Create(ctx, "study-a", &types.CreateSnapshotRequest{
		FileIDs:   []string{"F0000000000000000000000001"},
		CreatedBy: "alice",
	})
	if err != nil {
		t.Fatalf("create snapshot: %v", err)
	}

	// 没有 output_publisher 角色不能发布
	if _, err := svc.Publish(ctx, snapshot.ID, "alice"); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("publish without role: got %v, want ErrPermissionDenied", err)
	}

	published, err := svc.Publish(ctx, snapshot.ID, "pat")
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	if published.IsDraft() || published.PublishedAt == nil || published.PublishedByID == nil {
		t.Fatalf("publish fields incomplete: %+v", published)
	}

	// 发布是单向的
	if _, err := svc.Publish(ctx, snapshot.ID, "pat"); !errors.Is(err, ErrAlreadyPublished) {
		t.Fatalf("second publish: got %v, want ErrAlreadyPublished", err)
	}
}
