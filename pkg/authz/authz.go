// Package authz 提供基于角色的授权检查.
//
// 角色分两类：全局角色（core_developer、output_checker、output_publisher）与
// 项目范围角色（interactive_reporter）. 授权记录存于 role_assignments 表，
// ProjectID 为空表示全局授予.
//
// 所有改变状态的操作在执行前显式调用这里的检查函数，检查失败返回
// ErrPermissionDenied，不产生任何部分效果.
package authz

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yeisme/airvault/pkg/internal/model"
)

// ErrPermissionDenied 授权检查未通过.
var ErrPermissionDenied = errors.New("permission denied")

// Checker 基于数据库的角色检查器.
type Checker struct {
	db *gorm.DB
}

// NewChecker 创建角色检查器.
func NewChecker(db *gorm.DB) *Checker {
	return &Checker{db: db}
}

// HasRole 用户是否持有全局角色.
func (c *Checker) HasRole(ctx context.Context, userID uint, role string) (bool, error) {
	var count int64

	err := c.db.WithContext(ctx).
		Model(&model.RoleAssignment{}).
		Where("user_id = ? AND role = ? AND project_id IS NULL", userID, role).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("query role %s: %w", role, err)
	}

	return count > 0, nil
}

// HasProjectRole 用户是否持有指定项目范围内的角色.
func (c *Checker) HasProjectRole(ctx context.Context, userID uint, role string, projectID uint) (bool, error) {
	var count int64

	err := c.db.WithContext(ctx).
		Model(&model.RoleAssignment{}).
		Where("user_id = ? AND role = ? AND project_id = ?", userID, role, projectID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("query project role %s: %w", role, err)
	}

	return count > 0, nil
}

// RequireRole 要求全局角色，未持有返回 ErrPermissionDenied.
func (c *Checker) RequireRole(ctx context.Context, userID uint, role string) error {
	ok, err := c.HasRole(ctx, userID, role)
	if err != nil {
		return err
	}

	if !ok {
		return fmt.Errorf("%w: requires %s", ErrPermissionDenied, role)
	}

	return nil
}

// CanCreatePublishRequest 公开请求的创建门槛：
// 项目范围的 interactive_reporter，或全局 core_developer 兜底.
func (c *Checker) CanCreatePublishRequest(ctx context.Context, userID uint, projectID uint) error {
	ok, err := c.HasProjectRole(ctx, userID, model.RoleInteractiveReporter, projectID)
	if err != nil {
		return err
	}

	if ok {
		return nil
	}

	ok, err = c.HasRole(ctx, userID, model.RoleCoreDeveloper)
	if err != nil {
		return err
	}

	if !ok {
		return fmt.Errorf("%w: requires %s on project or %s",
			ErrPermissionDenied, model.RoleInteractiveReporter, model.RoleCoreDeveloper)
	}

	return nil
}
