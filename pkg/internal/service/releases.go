package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yeisme/airvault/pkg/configs"
	"github.com/yeisme/airvault/pkg/internal/model"
	"github.com/yeisme/airvault/pkg/internal/types"
	nlog "github.com/yeisme/airvault/pkg/log"
	"github.com/yeisme/airvault/pkg/queue"
)

// copyConcurrency 放行时并发拷贝文件的上限.
const copyConcurrency = 4

// ReleaseService 管理 Release 的创建与裁决.
type ReleaseService struct {
	*Service
}

// NewReleaseService 从 context 获取依赖实例.
func NewReleaseService(c context.Context) *ReleaseService {
	return &ReleaseService{newService(c)}
}

// Create 以 REQUESTED 状态登记一个新的导出请求.
func (rs *ReleaseService) Create(ctx context.Context, workspaceName string, backend *model.Backend, req *types.CreateReleaseRequest) (*model.Release, error) {
	workspace, err := rs.findWorkspaceByName(ctx, workspaceName)
	if err != nil {
		return nil, err
	}

	creator, err := rs.findUserByName(ctx, req.CreatedBy)
	if err != nil {
		return nil, err
	}

	release := &model.Release{
		ID:          newULID(),
		WorkspaceID: workspace.ID,
		BackendID:   backend.ID,
		Status:      model.ReleaseRequested,
		CreatedByID: creator.ID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := release.SetRequestedFiles(req.Files); err != nil {
		return nil, err
	}

	if err := rs.dbClient.WithContext(ctx).Create(release).Error; err != nil {
		return nil, fmt.Errorf("create release: %w", err)
	}

	rs.publishReleaseEvent(queue.TopicReleaseRequested, release, workspace, creator.Username, req.Files, 0)

	return release, nil
}

// Get 按 ID 取 Release（含文件）.
func (rs *ReleaseService) Get(ctx context.Context, id string) (*model.Release, error) {
	var release model.Release

	err := rs.dbClient.WithContext(ctx).Preload("Files").Preload("Workspace").Preload("Backend").
		First(&release, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("release %q: %w", id, ErrNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("get release %q: %w", id, err)
	}

	return &release, nil
}

// List 列出工作区内的 Release，按创建时间倒序.
func (rs *ReleaseService) List(ctx context.Context, workspaceName string) ([]model.Release, int64, error) {
	workspace, err := rs.findWorkspaceByName(ctx, workspaceName)
	if err != nil {
		return nil, 0, err
	}

	var (
		releases []model.Release
		total    int64
	)

	q := rs.dbClient.WithContext(ctx).Model(&model.Release{}).Where("workspace_id = ?", workspace.ID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count releases: %w", err)
	}

	if err := q.Order("id DESC").Find(&releases).Error; err != nil {
		return nil, 0, fmt.Errorf("list releases: %w", err)
	}

	return releases, total, nil
}

// Approve 放行：物化 ReleaseFile 行并把文件从后端桶拷到本地发布树.
// 状态一旦裁决不可回退，重复裁决返回 ErrAlreadyDecided.
func (rs *ReleaseService) Approve(ctx context.Context, id string, decidedBy string) (*model.Release, error) {
	approver, err := rs.findUserByName(ctx, decidedBy)
	if err != nil {
		return nil, err
	}

	if err := rs.checker.RequireRole(ctx, approver.ID, model.RoleOutputChecker); err != nil {
		return nil, err
	}

	release, err := rs.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// 已裁决的快速失败，避免无谓的文件拷贝；竞争窗口由下方守卫式更新兜底
	if release.IsDecided() {
		return nil, fmt.Errorf("release %q: %w", id, ErrAlreadyDecided)
	}

	files, err := release.RequestedFiles()
	if err != nil {
		return nil, err
	}

	releaseDir := filepath.Join(
		configs.GetConfig().Storage.ReleaseDir,
		release.Workspace.Name, "releases", release.ID,
	)

	copied, err := rs.copyOut(ctx, release, releaseDir, files, approver)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	err = rs.dbClient.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 守卫式更新先行：零行说明竞争方已先裁决，整个事务回滚
		res := tx.Model(&model.Release{}).
			Where("id = ? AND status = ?", release.ID, model.ReleaseRequested).
			Updates(map[string]any{
				"status":        model.ReleaseApproved,
				"decided_by_id": approver.ID,
				"decided_at":    now,
			})
		if res.Error != nil {
			return fmt.Errorf("update release: %w", res.Error)
		}

		if res.RowsAffected == 0 {
			return fmt.Errorf("release %q: %w", id, ErrAlreadyDecided)
		}

		if len(copied) > 0 {
			if err := tx.Create(&copied).Error; err != nil {
				return fmt.Errorf("create release files: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		// 事务未提交，已拷出的文件不保留
		if rmErr := os.RemoveAll(releaseDir); rmErr != nil {
			nlog.Logger().Warn().Err(rmErr).Str("release", release.ID).Msg("cleanup release dir failed")
		}

		return nil, err
	}

	release.Status = model.ReleaseApproved
	release.DecidedByID = &approver.ID
	release.DecidedAt = &now
	release.Files = copied
	rs.publishReleaseEvent(queue.TopicReleaseApproved, release, &release.Workspace, decidedBy, files, len(copied))

	return release, nil
}

// Reject 拒绝：不物化任何文件.
func (rs *ReleaseService) Reject(ctx context.Context, id string, decidedBy string) (*model.Release, error) {
	reviewer, err := rs.findUserByName(ctx, decidedBy)
	if err != nil {
		return nil, err
	}

	if err := rs.checker.RequireRole(ctx, reviewer.ID, model.RoleOutputChecker); err != nil {
		return nil, err
	}

	release, err := rs.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	// 守卫式更新：只命中仍处 REQUESTED 的行，零行说明已被裁决
	res := rs.dbClient.WithContext(ctx).Model(&model.Release{}).
		Where("id = ? AND status = ?", release.ID, model.ReleaseRequested).
		Updates(map[string]any{
			"status":        model.ReleaseRejected,
			"decided_by_id": reviewer.ID,
			"decided_at":    now,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("reject release: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("release %q: %w", id, ErrAlreadyDecided)
	}

	release.Status = model.ReleaseRejected
	release.DecidedByID = &reviewer.ID
	release.DecidedAt = &now

	rs.publishReleaseEvent(queue.TopicReleaseRejected, release, &release.Workspace, decidedBy, nil, 0)

	return release, nil
}

// copyOut 并发地把请求文件从后端桶拷到本地发布树，返回待落库的文件行.
// 任一文件失败整体失败，不做部分放行.
func (rs *ReleaseService) copyOut(ctx context.Context, release *model.Release, releaseDir string, files []string, approver *model.User) ([]model.ReleaseFile, error) {
	if err := os.MkdirAll(releaseDir, 0o750); err != nil {
		return nil, fmt.Errorf("create release dir: %w", err)
	}

	copied := make([]model.ReleaseFile, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(copyConcurrency)

	for i, name := range files {
		g.Go(func() error {
			rf, err := rs.copyOne(gctx, release, releaseDir, name, approver)
			if err != nil {
				return err
			}

			copied[i] = *rf

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return copied, nil
}

// copyOne 拷贝单个对象并计算 sha256.
func (rs *ReleaseService) copyOne(ctx context.Context, release *model.Release, releaseDir, name string, approver *model.User) (*model.ReleaseFile, error) {
	obj, err := rs.s3Client.GetObject(ctx, release.Backend.Bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %q: %w", name, err)
	}
	defer func() { _ = obj.Close() }()

	dest := filepath.Join(releaseDir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
		return nil, fmt.Errorf("create dir for %q: %w", name, err)
	}

	out, err := os.Create(dest)
	if err != nil {
		return nil, fmt.Errorf("create %q: %w", dest, err)
	}
	defer func() { _ = out.Close() }()

	hasher := sha256.New()

	size, err := io.Copy(io.MultiWriter(out, hasher), obj)
	if err != nil {
		return nil, fmt.Errorf("copy %q: %w", name, err)
	}

	stat, err := os.Stat(dest)
	if err != nil {
		return nil, fmt.Errorf("stat %q: %w", dest, err)
	}

	now := time.Now().UTC()

	return &model.ReleaseFile{
		ID:          newULID(),
		ReleaseID:   release.ID,
		WorkspaceID: release.WorkspaceID,
		Name:        name,
		Path:        dest,
		SHA256:      hex.EncodeToString(hasher.Sum(nil)),
		Size:        size,
		Mtime:       stat.ModTime().UTC(),
		CreatedByID: approver.ID,
		CreatedAt:   now,
	}, nil
}

// publishReleaseEvent 发布流程事件是尽力而为的，失败只记录.
func (rs *ReleaseService) publishReleaseEvent(topic string, release *model.Release, workspace *model.Workspace, actor string, files []string, copiedCount int) {
	if rs.mqClient == nil || rs.mqClient.Publisher() == nil {
		return
	}

	ref := queue.ReleaseRef{
		ReleaseID: release.ID,
		Workspace: workspace.Name,
		CreatedBy: actor,
	}

	var (
		msgErr error
	)

	switch topic {
	case queue.TopicReleaseRequested:
		msg, err := queue.NewWatermillMessage(topic, queue.ReleaseRequestedPayload{Release: ref, Files: files},
			queue.WithProducer(producerName))
		if err == nil {
			msgErr = rs.mqClient.Publisher().Publish(topic, msg)
		} else {
			msgErr = err
		}
	default:
		msg, err := queue.NewWatermillMessage(topic, queue.ReleaseDecidedPayload{Release: ref, DecidedBy: actor, CopiedFiles: copiedCount},
			queue.WithProducer(producerName))
		if err == nil {
			msgErr = rs.mqClient.Publisher().Publish(topic, msg)
		} else {
			msgErr = err
		}
	}

	if msgErr != nil {
		nlog.Logger().Warn().Err(msgErr).Str("topic", topic).Str("release", release.ID).Msg("release event publish failed")
	}
}
