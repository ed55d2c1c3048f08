// Package service 实现发布门户的业务逻辑，不处理 HTTP 细节.
package service

import (
	"context"
	crand "crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid"
	"gorm.io/gorm"

	"github.com/yeisme/airvault/pkg/authz"
	ctxPkg "github.com/yeisme/airvault/pkg/context"
	"github.com/yeisme/airvault/pkg/internal/model"
	"github.com/yeisme/airvault/pkg/internal/storage/db"
	"github.com/yeisme/airvault/pkg/internal/storage/kv"
	"github.com/yeisme/airvault/pkg/internal/storage/mq"
	"github.com/yeisme/airvault/pkg/internal/storage/s3"
	nlog "github.com/yeisme/airvault/pkg/log"
)

// 领域哨兵错误. handler 层据此映射 HTTP 状态码.
var (
	// ErrNotFound 实体不存在.
	ErrNotFound = errors.New("not found")
	// ErrInvalidEvent 舱内事件载荷携带未知枚举值.
	ErrInvalidEvent = errors.New("invalid event")
	// ErrPermissionDenied 授权检查未通过.
	ErrPermissionDenied = authz.ErrPermissionDenied
	// ErrPublishLocked 目标分析请求已被 PENDING/APPROVED 公开请求锁定.
	ErrPublishLocked = errors.New("analysis request locked by existing publish request")
	// ErrAlreadyDecided 裁决是一次性的.
	ErrAlreadyDecided = errors.New("already decided")
	// ErrAlreadyPublished 快照发布是单向的.
	ErrAlreadyPublished = errors.New("snapshot already published")
)

// 全局单例的 ULID 熵源，使用单调递增策略，确保同一毫秒内生成的 ULID 具有排序稳定性。
var ulidEntropy = ulid.Monotonic(crand.Reader, 0)

// newULID 生成时间可排序的主键.
func newULID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now().UTC()), ulidEntropy).String()
}

// Service 汇聚各业务服务共享的客户端依赖.
type Service struct {
	dbClient *db.Client
	s3Client *s3.Client
	kvClient *kv.Client
	mqClient *mq.Client
	checker  *authz.Checker
}

// newService 从 context 获取依赖实例.
// 为了安全起见，缺失依赖直接 panic 而不是返回 nil，依赖此服务就不需要再检查.
func newService(c context.Context) *Service {
	dbc := ctxPkg.GetDBClient(c)
	s3c := ctxPkg.GetS3Client(c)
	kvc := ctxPkg.GetKVClient(c)
	mqc := ctxPkg.GetMQClient(c)

	if dbc == nil || dbc.DB == nil {
		nlog.Logger().Fatal().Msg("storage clients not initialized")
	}

	return &Service{
		dbClient: dbc,
		s3Client: s3c,
		kvClient: kvc,
		mqClient: mqc,
		checker:  authz.NewChecker(dbc.DB),
	}
}

// findUserByName 按用户名解析用户.
func (s *Service) findUserByName(ctx context.Context, username string) (*model.User, error) {
	var u model.User

	err := s.dbClient.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("find user %q: %w", username, err)
	}

	return &u, nil
}

// findWorkspaceByName 按名称解析工作区.
func (s *Service) findWorkspaceByName(ctx context.Context, name string) (*model.Workspace, error) {
	var w model.Workspace

	err := s.dbClient.WithContext(ctx).Where("name = ?", name).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("workspace %q: %w", name, ErrNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("find workspace %q: %w", name, err)
	}

	return &w, nil
}
