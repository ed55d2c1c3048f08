package service

import (
	"context"
	"errors"
	"testing"

	"github.com/yeisme/airvault/pkg/internal/model"
	"github.com/yeisme/airvault/pkg/internal/types"
)

func seedAnalysisRequest(t *testing.T, s *Service, id string, projectID uint) *model.AnalysisRequest {
	t.Helper()

	ar := &model.AnalysisRequest{ID: id, ProjectID: projectID, Title: "analysis " + id}
	if err := s.dbClient.Create(ar).Error; err != nil {
		t.Fatalf("seed analysis request %s: %v", id, err)
	}

	return ar
}

func TestCreatePublishRequestRequiresRole(t *testing.T) {
	svc := &PublishRequestService{newTestService(t)}
	ctx := context.Background()

	project := seedProject(t, svc.Service, "org-a")
	seedAnalysisRequest(t, svc.Service, "AR000000000000000000000001", project.ID)
	seedUser(t, svc.Service, "rando")

	_, err := svc.Create(ctx, &types.CreatePublishRequestRequest{
		ReportID:          1,
		SnapshotID:        1,
		AnalysisRequestID: "AR000000000000000000000001",
		CreatedBy:         "rando",
	})
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("got %v, want ErrPermissionDenied", err)
	}
}

func TestPublishRequestLock(t *testing.T) {
	svc := &PublishRequestService{newTestService(t)}
	ctx := context.Background()

	project := seedProject(t, svc.Service, "org-a")
	seedAnalysisRequest(t, svc.Service, "AR000000000000000000000001", project.ID)

	reporter := seedUser(t, svc.Service, "alice")
	seedProjectRole(t, svc.Service, reporter.ID, model.RoleInteractiveReporter, project.ID)
	seedUser(t, svc.Service, "carol", model.RoleOutputChecker)

	createReq := &types.CreatePublishRequestRequest{
		ReportID:          1,
		SnapshotID:        1,
		AnalysisRequestID: "AR000000000000000000000001",
		CreatedBy:         "alice",
	}

	pr, err := svc.Create(ctx, createReq)
	if err != nil {
		t.Fatalf("first create: %v", err)
	}

	if pr.Decision != model.PublishPending {
		t.Fatalf("new request decision = %s, want PENDING", pr.Decision)
	}

	// PENDING 锁定该分析请求
	if _, err := svc.Create(ctx, createReq); !errors.Is(err, ErrPublishLocked) {
		t.Fatalf("second create: got %v, want ErrPublishLocked", err)
	}

	decided, err := svc.Decide(ctx, pr.ID, &types.DecidePublishRequestRequest{
		Decision:  "APPROVED",
		DecidedBy: "carol",
	})
	if err != nil {
		t.Fatalf("decide: %v", err)
	}

	if !decided.IsDecided() || decided.DecidedAt == nil || decided.DecidedByID == nil {
		t.Fatalf("decision triple incomplete: %+v", decided)
	}

	// APPROVED 继续锁定
	if _, err := svc.Create(ctx, createReq); !errors.Is(err, ErrPublishLocked) {
		t.Fatalf("create after approval: got %v, want ErrPublishLocked", err)
	}

	// 裁决是一次性的
	_, err = svc.Decide(ctx, pr.ID, &types.DecidePublishRequestRequest{
		Decision:  "REJECTED",
		DecidedBy: "carol",
	})
	if !errors.Is(err, ErrAlreadyDecided) {
		t.Fatalf("second decide: got %v, want ErrAlreadyDecided", err)
	}
}

func TestPublishRequestRejectionUnlocks(t *testing.T) {
	svc := &PublishRequestService{newTestService(t)}
	ctx := context.Background()

	project := seedProject(t, svc.Service, "org-a")
	seedAnalysisRequest(t, svc.Service, "AR000000000000000000000002", project.ID)

	// 全局 core_developer 不需要项目角色
	seedUser(t, svc.Service, "dev", model.RoleCoreDeveloper)
	seedUser(t, svc.Service, "carol", model.RoleOutputChecker)

	createReq := &types.CreatePublishRequestRequest{
		ReportID:          1,
		SnapshotID:        1,
		AnalysisRequestID: "AR000000000000000000000002",
		CreatedBy:         "dev",
	}

	pr, err := svc.Create(ctx, createReq)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.Decide(ctx, pr.ID, &types.DecidePublishRequestRequest{
		Decision:  "REJECTED",
		DecidedBy: "carol",
	})
	if err != nil {
		t.Fatalf("reject: %v", err)
	}

	// REJECTED 解锁，可再次发起
	if _, err := svc.Create(ctx, createReq); err != nil {
		t.Fatalf("create after rejection: %v", err)
	}
}

func TestDecidePublishRequestRequiresChecker(t *testing.T) {
	svc := &PublishRequestService{newTestService(t)}
	ctx := context.Background()

	project := seedProject(t, svc.Service, "org-a")
	seedAnalysisRequest(t, svc.Service, "AR000000000000000000000003", project.ID)
	seedUser(t, svc.Service, "dev", model.RoleCoreDeveloper)

	pr, err := svc.Create(ctx, &types.CreatePublishRequestRequest{
		ReportID:          1,
		SnapshotID:        1,
		AnalysisRequestID: "AR000000000000000000000003",
		CreatedBy:         "dev",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.Decide(ctx, pr.ID, &types.DecidePublishRequestRequest{
		Decision:  "APPROVED",
		DecidedBy: "dev",
	})
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("got %v, want ErrPermissionDenied", err)
	}
}
