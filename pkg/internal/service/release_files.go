package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/yeisme/airvault/pkg/internal/model"
	nlog "github.com/yeisme/airvault/pkg/log"
)

// ReleaseFileService 管理已放行文件的软删除与磁盘状态查询.
type ReleaseFileService struct {
	*Service
}

// NewReleaseFileService 从 context 获取依赖实例.
func NewReleaseFileService(c context.Context) *ReleaseFileService {
	return &ReleaseFileService{newService(c)}
}

// Get 按 ID 取文件行.
func (fs *ReleaseFileService) Get(ctx context.Context, id string) (*model.ReleaseFile, error) {
	var file model.ReleaseFile

	err := fs.dbClient.WithContext(ctx).First(&file, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("release file %q: %w", id, ErrNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("get release file %q: %w", id, err)
	}

	return &file, nil
}

// SoftDelete 设置软删除标记对并从磁盘移除文件.
// 行保留在表里，只从活跃列表与磁盘上隐藏. 标记对的完整性由 DB CHECK 约束兜底.
func (fs *ReleaseFileService) SoftDelete(ctx context.Context, id string, deletedBy string) error {
	actor, err := fs.findUserByName(ctx, deletedBy)
	if err != nil {
		return err
	}

	if err := fs.checker.RequireRole(ctx, actor.ID, model.RoleOutputChecker); err != nil {
		return err
	}

	file, err := fs.Get(ctx, id)
	if err != nil {
		return err
	}

	if file.IsSoftDeleted() {
		return fmt.Errorf("release file %q: %w", id, ErrAlreadyDecided)
	}

	now := time.Now().UTC()

	err = fs.dbClient.WithContext(ctx).Model(&model.ReleaseFile{}).Where("id = ?", id).
		Updates(map[string]any{
			"deleted_at":    now,
			"deleted_by_id": actor.ID,
		}).Error
	if err != nil {
		return fmt.Errorf("soft delete release file %q: %w", id, err)
	}

	// 磁盘移除失败不回滚标记；审计任务会发现两个信号的分歧
	if err := os.Remove(file.Path); err != nil && !os.IsNotExist(err) {
		nlog.Logger().Warn().Err(err).Str("file", id).Str("path", file.Path).
			Msg("release file removal from disk failed")
	}

	return nil
}

// IsDeleted 检查文件在磁盘上是否缺失. 这是一次显式 I/O 查询，
// 有意与软删除标记解耦：两个信号可能分歧，调用方不应假设二者等价.
func (fs *ReleaseFileService) IsDeleted(ctx context.Context, id string) (bool, error) {
	file, err := fs.Get(ctx, id)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(file.Path)
	if os.IsNotExist(err) {
		return true, nil
	}

	if err != nil {
		return false, fmt.Errorf("stat %q: %w", file.Path, err)
	}

	return false, nil
}

// ListActive 列出工作区内未软删除的文件.
func (fs *ReleaseFileService) ListActive(ctx context.Context, workspaceID uint) ([]model.ReleaseFile, error) {
	var files []model.ReleaseFile

	err := fs.dbClient.WithContext(ctx).
		Where("workspace_id = ? AND deleted_at IS NULL", workspaceID).
		Order("id").
		Find(&files).Error
	if err != nil {
		return nil, fmt.Errorf("list active release files: %w", err)
	}

	return files, nil
}
