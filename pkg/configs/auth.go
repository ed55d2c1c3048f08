package configs

import "github.com/spf13/viper"

// AuthConfig 控制安全后端的 Bearer Token 认证.
// 入站的 airlock 事件与 Release 上报接口必须携带 Authorization 头，
// 令牌解析为 Backend 主体；解析结果可写入 KV 缓存以减少数据库查询.
type AuthConfig struct {
	Enabled       bool     `mapstructure:"enabled"`         // 开启认证校验
	SkipPaths     []string `mapstructure:"skip_paths"`      // 跳过认证的路径前缀（如 /metrics、/api/v1/health）
	TokenCacheTTL int      `mapstructure:"token_cache_ttl"` // 令牌缓存秒数，0 表示不缓存
}

const (
	// DefaultTokenCacheTTL 默认令牌缓存秒数.
	DefaultTokenCacheTTL = 60
)

func (c *AuthConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("auth.enabled", true)
	v.SetDefault("auth.token_cache_ttl", DefaultTokenCacheTTL)
	v.SetDefault("auth.skip_paths", []string{
		"/metrics",
		"/debug/pprof",
		"/api/v1/health",
		"/swagger",
	})
}
