package service

import (
	"context"
	"errors"
	"testing"

	"github.com/yeisme/airvault/pkg/configs"
	"github.com/yeisme/airvault/pkg/internal/model"
	"github.com/yeisme/airvault/pkg/internal/types"
)

func seedBackend(t *testing.T, s *Service, slug string) *model.Backend {
	t.Helper()

	b := &model.Backend{Slug: slug, Name: slug, AuthToken: slug + "-token", Bucket: slug + "-bucket"}
	if err := s.dbClient.Create(b).Error; err != nil {
		t.Fatalf("seed backend %s: %v", slug, err)
	}

	return b
}

// 裁决一次性：第二次裁决时内存里的预读已经过期，守卫式更新必须匹配零行并报错，
// 而不是把裁决字段凭空写回内存后返回成功.
func TestRejectReleaseIsOneWay(t *testing.T) {
	svc := newTestService(t)
	rs := &ReleaseService{svc}
	ctx := context.Background()

	p := seedProject(t, svc, "proj")
	seedWorkspace(t, svc, "ws1", p.ID)
	backend := seedBackend(t, svc, "tpp")
	seedUser(t, svc, "alice")
	seedUser(t, svc, "carol", model.RoleOutputChecker)

	release, err := rs.Create(ctx, "ws1", backend, &types.CreateReleaseRequest{
		Files:     []string{"outputs/table.csv"},
		CreatedBy: "alice",
	})
	if err != nil {
		t.Fatalf("create release: %v", err)
	}

	rejected, err := rs.Reject(ctx, release.ID, "carol")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}

	if rejected.Status != model.ReleaseRejected || rejected.DecidedAt == nil {
		t.Fatalf("rejected release not finalized: %+v", rejected)
	}

	if _, err := rs.Reject(ctx, release.ID, "carol"); !errors.Is(err, ErrAlreadyDecided) {
		t.Fatalf("second reject: got %v, want ErrAlreadyDecided", err)
	}

	if _, err := rs.Approve(ctx, release.ID, "carol"); !errors.Is(err, ErrAlreadyDecided) {
		t.Fatalf("approve after reject: got %v, want ErrAlreadyDecided", err)
	}
}

func TestApproveReleaseIsOneWay(t *testing.T) {
	svc := newTestService(t)
	rs := &ReleaseService{svc}
	ctx := context.Background()

	configs.GetConfig().Storage.ReleaseDir = t.TempDir()

	p := seedProject(t, svc, "proj")
	seedWorkspace(t, svc, "ws1", p.ID)
	backend := seedBackend(t, svc, "tpp")
	seedUser(t, svc, "alice")
	seedUser(t, svc, "carol", model.RoleOutputChecker)

	release, err := rs.Create(ctx, "ws1", backend, &types.CreateReleaseRequest{
		Files:     nil,
		CreatedBy: "alice",
	})
	if err != nil {
		t.Fatalf("create release: %v", err)
	}

	approved, err := rs.Approve(ctx, release.ID, "carol")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}

	if approved.Status != model.ReleaseApproved || approved.DecidedAt == nil || approved.DecidedByID == nil {
		t.Fatalf("approved release not finalized: %+v", approved)
	}

	if _, err := rs.Approve(ctx, release.ID, "carol"); !errors.Is(err, ErrAlreadyDecided) {
		t.Fatalf("second approve: got %v, want ErrAlreadyDecided", err)
	}

	if _, err := rs.Reject(ctx, release.ID, "carol"); !errors.Is(err, ErrAlreadyDecided) {
		t.Fatalf("reject after approve: got %v, want ErrAlreadyDecided", err)
	}
}

func TestDecideReleaseRequiresChecker(t *testing.T) {
	svc := newTestService(t)
	rs := &ReleaseService{svc}
	ctx := context.Background()

	p := seedProject(t, svc, "proj")
	seedWorkspace(t, svc, "ws1", p.ID)
	backend := seedBackend(t, svc, "tpp")
	seedUser(t, svc, "alice")
	seedUser(t, svc, "rando")

	release, err := rs.Create(ctx, "ws1", backend, &types.CreateReleaseRequest{
		Files:     []string{"outputs/table.csv"},
		CreatedBy: "alice",
	})
	if err != nil {
		t.Fatalf("create release: %v", err)
	}

	if _, err := rs.Reject(ctx, release.ID, "rando"); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("reject without role: got %v, want ErrPermissionDenied", err)
	}
}
