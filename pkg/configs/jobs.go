package configs

import "github.com/spf13/viper"

const (
	// DefaultFileAuditCron 文件在盘审计任务的默认 cron 表达式（每小时）.
	DefaultFileAuditCron = "0 * * * *"
	// DefaultCacheSweepCron 令牌缓存清理任务的默认 cron 表达式（每10分钟）.
	DefaultCacheSweepCron = "*/10 * * * *"
)

// JobsConfig 定时任务配置.
type JobsConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	FileAuditCron  string `mapstructure:"file_audit_cron"`
	CacheSweepCron string `mapstructure:"cache_sweep_cron"`
}

func (c *JobsConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("jobs.enabled", true)
	v.SetDefault("jobs.file_audit_cron", DefaultFileAuditCron)
	v.SetDefault("jobs.cache_sweep_cron", DefaultCacheSweepCron)
}
