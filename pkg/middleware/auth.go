package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cespare/xxhash/v2"
	"github.com/gin-gonic/gin"

	"github.com/yeisme/airvault/pkg/configs"
	ctxPkg "github.com/yeisme/airvault/pkg/context"
	"github.com/yeisme/airvault/pkg/internal/model"
	"github.com/yeisme/airvault/pkg/log"
)

// BackendContextKey 认证中间件解析出的后端主体在 gin context 里的键.
const BackendContextKey = "auth_backend"

// AuthMiddleware 校验安全后端的 Bearer Token 并解析出 Backend 主体.
//   - Authorization: Bearer <token>，令牌对应 backends.auth_token
//   - 解析结果按 token_cache_ttl 写入 KV，命中缓存时不再查库
//   - 支持通过配置跳过某些路径（如 /metrics, /api/v1/health）.
func AuthMiddleware(conf configs.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !conf.Enabled || isSkippedPath(c.Request.URL.Path, conf.SkipPaths) {
			c.Next()
			return
		}

		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})

			return
		}

		backend, err := resolveBackend(c, token, conf.TokenCacheTTL)
		if err != nil {
			log.Logger().Warn().Err(err).Msg("backend token rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})

			return
		}

		c.Set(BackendContextKey, backend)
		c.Next()
	}
}

// resolveBackend 先查 KV 缓存，未命中再回源数据库.
func resolveBackend(c *gin.Context, token string, cacheTTL int) (*model.Backend, error) {
	ctx := c.Request.Context()
	kvClient := ctxPkg.GetKVClient(ctx)
	cacheKey := tokenCacheKey(token)

	if kvClient != nil && cacheTTL > 0 {
		if raw, err := kvClient.Get(ctx, cacheKey); err == nil && len(raw) > 0 {
			var backend model.Backend
			if err := sonic.Unmarshal(raw, &backend); err == nil {
				return &backend, nil
			}
		}
	}

	dbClient := ctxPkg.GetDBClient(ctx)
	if dbClient == nil {
		return nil, fmt.Errorf("database client unavailable")
	}

	var backend model.Backend
	if err := dbClient.GetDB().WithContext(ctx).Where("auth_token = ?", token).First(&backend).Error; err != nil {
		return nil, fmt.Errorf("lookup backend: %w", err)
	}

	if kvClient != nil && cacheTTL > 0 {
		if raw, err := sonic.Marshal(&backend); err == nil {
			if err := kvClient.Set(ctx, cacheKey, raw, time.Duration(cacheTTL)*time.Second); err != nil {
				log.Logger().Debug().Err(err).Msg("cache backend token failed")
			}
		}
	}

	return &backend, nil
}

// tokenCacheKey 不把明文令牌放进 KV 键.
func tokenCacheKey(token string) string {
	return fmt.Sprintf("auth:backend:%x", xxhash.Sum64String(token))
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}

	return strings.TrimSpace(header[len(prefix):])
}

func isSkippedPath(path string, skips []string) bool {
	if path == "" || len(skips) == 0 {
		return false
	}

	for _, p := range skips {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		if strings.HasPrefix(path, p) {
			return true
		}
	}

	return false
}
