// Package jobs 负责注册与实现业务定时任务（基于 scheduler）。
package jobs

import (
	"context"
	"fmt"
	"os"

	"github.com/yeisme/airvault/pkg/configs"
	ctxPkg "github.com/yeisme/airvault/pkg/context"
	"github.com/yeisme/airvault/pkg/internal/model"
	"github.com/yeisme/airvault/pkg/internal/storage"
	"github.com/yeisme/airvault/pkg/log"
	"github.com/yeisme/airvault/pkg/metrics"
	"github.com/yeisme/airvault/pkg/scheduler"
)

// RegisterCronJobs 配置业务定时任务：
//   - 每小时审计放行文件：软删除标记与磁盘存在性是两个独立信号，审计发现分歧时告警
//   - 每 10 分钟清扫后端令牌缓存，触发无原生 TTL 的 KV 实现做惰性过期删除
func RegisterCronJobs(sched *scheduler.Scheduler, mgr *storage.Manager) error {
	if sched == nil {
		return fmt.Errorf("scheduler is nil")
	}

	if mgr == nil {
		return fmt.Errorf("storage manager is nil")
	}

	cfg := configs.GetConfig().Jobs

	// 将 storage manager 注入到 context，便于任务使用
	baseCtx := ctxPkg.WithStorageManager(context.Background(), mgr)

	if err := sched.AddCron(JobReleaseFileAudit, cfg.FileAuditCron, func(ctx context.Context) {
		runReleaseFileAudit(ctx, mgr)
	}, baseCtx); err != nil {
		return err
	}

	return sched.AddCron(JobAuthCacheSweep, cfg.CacheSweepCron, func(ctx context.Context) {
		runAuthCacheSweep(ctx, mgr)
	}, baseCtx)
}

// runReleaseFileAudit 对比每个放行文件的软删除标记与磁盘实际状态。
// 标记已删但文件仍在盘上、或标记未删但文件缺失，都算一次分歧。
func runReleaseFileAudit(ctx context.Context, mgr *storage.Manager) {
	l := log.Logger().With().Str("job", JobReleaseFileAudit).Logger()

	if mgr.GetDBClient() == nil || mgr.GetDBClient().GetDB() == nil {
		l.Error().Msg("db not initialized")
		return
	}

	dbx := mgr.GetDBClient().GetDB().WithContext(ctx)

	var files []model.ReleaseFile
	if err := dbx.Find(&files).Error; err != nil {
		l.Error().Err(err).Msg("list release files failed")
		return
	}

	var disagreements int

	for i := range files {
		f := &files[i]

		_, err := os.Stat(f.Path)
		onDisk := err == nil

		if err != nil && !os.IsNotExist(err) {
			l.Error().Err(err).Str("file", f.ID).Str("path", f.Path).Msg("stat failed")
			continue
		}

		if f.IsSoftDeleted() == onDisk {
			disagreements++
			l.Warn().Str("file", f.ID).Str("path", f.Path).
				Bool("marked_deleted", f.IsSoftDeleted()).Bool("on_disk", onDisk).
				Msg("deletion marker disagrees with disk state")
		}
	}

	metrics.FileAuditDisagreements.Set(float64(disagreements))

	if disagreements == 0 {
		l.Debug().Int("files", len(files)).Msg("audit clean")
	}
}

// runAuthCacheSweep 遍历令牌缓存键并做一次存在性检查，
// 让惰性过期的 KV 实现有机会清掉已过期条目。
func runAuthCacheSweep(ctx context.Context, mgr *storage.Manager) {
	l := log.Logger().With().Str("job", JobAuthCacheSweep).Logger()

	kvClient := mgr.GetKVClient()
	if kvClient == nil {
		return
	}

	keys, err := kvClient.Keys(ctx, "auth:backend:*")
	if err != nil {
		l.Error().Err(err).Msg("list cache keys failed")
		return
	}

	var swept int

	for _, k := range keys {
		ok, e := kvClient.Exists(ctx, k)
		if e != nil {
			l.Debug().Err(e).Str("key", k).Msg("probe cache key failed")
			continue
		}

		if !ok {
			swept++
		}
	}

	if swept > 0 {
		l.Info().Int("swept", swept).Int("total", len(keys)).Msg("expired token cache entries swept")
	}
}
