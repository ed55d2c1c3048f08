package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yeisme/airvault/pkg/internal/model"
	"github.com/yeisme/airvault/pkg/internal/types"
)

// PublishRequestService 管理公开请求的创建与裁决.
type PublishRequestService struct {
	*Service
}

// NewPublishRequestService 从 context 获取依赖实例.
func NewPublishRequestService(c context.Context) *PublishRequestService {
	return &PublishRequestService{newService(c)}
}

// Get 按 ID 取公开请求.
func (ps *PublishRequestService) Get(ctx context.Context, id string) (*model.PublishRequest, error) {
	var pr model.PublishRequest

	err := ps.dbClient.WithContext(ctx).First(&pr, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("publish request %q: %w", id, ErrNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("get publish request %q: %w", id, err)
	}

	return &pr, nil
}

// Create 创建公开请求.
// 门槛：发起人持有目标分析请求所属项目的 interactive_reporter，或全局 core_developer.
// 锁：同一分析请求存在 PENDING 或 APPROVED 的公开请求时拒绝创建（ErrPublishLocked）；
// REJECTED 裁决解锁.
func (ps *PublishRequestService) Create(ctx context.Context, req *types.CreatePublishRequestRequest) (*model.PublishRequest, error) {
	creator, err := ps.findUserByName(ctx, req.CreatedBy)
	if err != nil {
		return nil, err
	}

	var ar model.AnalysisRequest

	err = ps.dbClient.WithContext(ctx).First(&ar, "id = ?", req.AnalysisRequestID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("analysis request %q: %w", req.AnalysisRequestID, ErrNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("get analysis request: %w", err)
	}

	if err := ps.checker.CanCreatePublishRequest(ctx, creator.ID, ar.ProjectID); err != nil {
		return nil, err
	}

	var locked int64

	err = ps.dbClient.WithContext(ctx).Model(&model.PublishRequest{}).
		Where("analysis_request_id = ? AND decision IN ?", ar.ID,
			[]model.PublishDecision{model.PublishPending, model.PublishApproved}).
		Count(&locked).Error
	if err != nil {
		return nil, fmt.Errorf("check publish lock: %w", err)
	}

	if locked > 0 {
		return nil, fmt.Errorf("analysis request %q: %w", ar.ID, ErrPublishLocked)
	}

	pr := &model.PublishRequest{
		ID:                newULID(),
		ReportID:          req.ReportID,
		SnapshotID:        req.SnapshotID,
		AnalysisRequestID: ar.ID,
		Decision:          model.PublishPending,
		CreatedByID:       creator.ID,
		CreatedAt:         time.Now().UTC(),
	}

	if err := ps.dbClient.WithContext(ctx).Create(pr).Error; err != nil {
		return nil, fmt.Errorf("create publish request: %w", err)
	}

	return pr, nil
}

// Decide 裁决公开请求. 需要 output_checker；裁决一次性，三元组同时落库.
func (ps *PublishRequestService) Decide(ctx context.Context, id string, req *types.DecidePublishRequestRequest) (*model.PublishRequest, error) {
	reviewer, err := ps.findUserByName(ctx, req.DecidedBy)
	if err != nil {
		return nil, err
	}

	if err := ps.checker.RequireRole(ctx, reviewer.ID, model.RoleOutputChecker); err != nil {
		return nil, err
	}

	pr, err := ps.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	decision := model.PublishDecision(req.Decision)
	now := time.Now().UTC()

	// 守卫式更新：只有仍处 PENDING 的行会被命中，竞争中落败的一方匹配零行
	res := ps.dbClient.WithContext(ctx).Model(&model.PublishRequest{}).
		Where("id = ? AND decision = ?", id, model.PublishPending).
		Updates(map[string]any{
			"decision":      decision,
			"decided_at":    now,
			"decided_by_id": reviewer.ID,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("decide publish request %q: %w", id, res.Error)
	}

	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("publish request %q: %w", id, ErrAlreadyDecided)
	}

	pr.Decision = decision
	pr.DecidedAt = &now
	pr.DecidedByID = &reviewer.ID

	return pr, nil
}
