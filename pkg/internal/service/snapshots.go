package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yeisme/airvault/pkg/internal/model"
	"github.com/yeisme/airvault/pkg/internal/types"
	nlog "github.com/yeisme/airvault/pkg/log"
	"github.com/yeisme/airvault/pkg/queue"
)

// SnapshotService 管理快照的创建与发布.
type SnapshotService struct {
	*Service
}

// NewSnapshotService 从 context 获取依赖实例.
func NewSnapshotService(c context.Context) *SnapshotService {
	return &SnapshotService{newService(c)}
}

// Create 从一组已放行文件创建快照. 成员在这里一次性冻结，之后不支持增量修改.
func (ss *SnapshotService) Create(ctx context.Context, workspaceName string, req *types.CreateSnapshotRequest) (*model.Snapshot, error) {
	workspace, err := ss.findWorkspaceByName(ctx, workspaceName)
	if err != nil {
		return nil, err
	}

	creator, err := ss.findUserByName(ctx, req.CreatedBy)
	if err != nil {
		return nil, err
	}

	var files []model.ReleaseFile

	err = ss.dbClient.WithContext(ctx).
		Where("id IN ? AND workspace_id = ? AND deleted_at IS NULL", req.FileIDs, workspace.ID).
		Find(&files).Error
	if err != nil {
		return nil, fmt.Errorf("load snapshot files: %w", err)
	}

	if len(files) != len(req.FileIDs) {
		return nil, fmt.Errorf("some files missing or deleted: %w", ErrNotFound)
	}

	snapshot := &model.Snapshot{
		WorkspaceID: workspace.ID,
		CreatedByID: creator.ID,
		CreatedAt:   time.Now().UTC(),
		Files:       files,
	}

	if err := ss.dbClient.WithContext(ctx).Create(snapshot).Error; err != nil {
		return nil, fmt.Errorf("create snapshot: %w", err)
	}

	ss.publishSnapshotEvent(queue.TopicSnapshotCreated, snapshot, "")

	return snapshot, nil
}

// Get 按 ID 取快照（含文件）.
func (ss *SnapshotService) Get(ctx context.Context, id uint) (*model.Snapshot, error) {
	var snapshot model.Snapshot

	err := ss.dbClient.WithContext(ctx).Preload("Files").First(&snapshot, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("snapshot %d: %w", id, ErrNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("get snapshot %d: %w", id, err)
	}

	return &snapshot, nil
}

// Publish 对外发布快照. 发布是单向的：已发布快照再次发布返回 ErrAlreadyPublished.
// 需要 output_publisher 角色.
func (ss *SnapshotService) Publish(ctx context.Context, id uint, publishedBy string) (*model.Snapshot, error) {
	publisher, err := ss.findUserByName(ctx, publishedBy)
	if err != nil {
		return nil, err
	}

	if err := ss.checker.RequireRole(ctx, publisher.ID, model.RoleOutputPublisher); err != nil {
		return nil, err
	}

	snapshot, err := ss.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	// 守卫式更新：只命中未发布的行，零行说明竞争方已先发布
	res := ss.dbClient.WithContext(ctx).Model(&model.Snapshot{}).
		Where("id = ? AND published_at IS NULL", id).
		Updates(map[string]any{
			"published_by_id": publisher.ID,
			"published_at":    now,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("publish snapshot %d: %w", id, res.Error)
	}

	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("snapshot %d: %w", id, ErrAlreadyPublished)
	}

	snapshot.PublishedByID = &publisher.ID
	snapshot.PublishedAt = &now

	ss.publishSnapshotEvent(queue.TopicSnapshotPublished, snapshot, publishedBy)

	return snapshot, nil
}

// publishSnapshotEvent 快照事件是尽力而为的，失败只记录.
func (ss *SnapshotService) publishSnapshotEvent(topic string, snapshot *model.Snapshot, publishedBy string) {
	if ss.mqClient == nil || ss.mqClient.Publisher() == nil {
		return
	}

	fileIDs := make([]string, 0, len(snapshot.Files))
	for _, f := range snapshot.Files {
		fileIDs = append(fileIDs, f.ID)
	}

	payload := queue.SnapshotPayload{
		SnapshotID:  fmt.Sprintf("%d", snapshot.ID),
		Files:       fileIDs,
		PublishedBy: publishedBy,
		PublishedAt: snapshot.PublishedAt,
	}

	msg, err := queue.NewWatermillMessage(topic, payload, queue.WithProducer(producerName))
	if err == nil {
		err = ss.mqClient.Publisher().Publish(topic, msg)
	}

	if err != nil {
		nlog.Logger().Warn().Err(err).Str("topic", topic).Uint("snapshot", snapshot.ID).Msg("snapshot event publish failed")
	}
}
