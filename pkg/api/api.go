// Package api 组装 HTTP API 路由组.
package api

import (
	"github.com/gin-gonic/gin"

	appcache "github.com/yeisme/airvault/pkg/cache"
	"github.com/yeisme/airvault/pkg/configs"
	"github.com/yeisme/airvault/pkg/internal/router"
	"github.com/yeisme/airvault/pkg/internal/storage"
	"github.com/yeisme/airvault/pkg/middleware"
)

// RegisterGroup 注册 /api/v1 路由组到传入的 gin 引擎.
// 后端令牌认证挂在整个 v1 组上，skip_paths 控制健康检查等免认证路径.
func RegisterGroup(e *gin.Engine, manager *storage.Manager) *gin.Engine {
	cfg := configs.GetConfig()

	var cacheMw gin.HandlerFunc
	if kvClient := manager.GetKVClient(); kvClient != nil {
		c := appcache.NewCache(kvClient)
		cacheMw = middleware.CacheMiddleware(middleware.DefaultCacheConfig(c))
	}

	v1 := e.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(cfg.Auth))
	{
		router.RegisterHealthCheckRoute(v1)
		router.RegisterAirlockRoutes(v1)
		router.RegisterReleaseRoutes(v1)
		router.RegisterSnapshotRoutes(v1, cacheMw)
		router.RegisterPublishRoutes(v1)
		router.RegisterSchedulerRoutes(v1)
	}

	router.RegisterSwaggerRoute(e)

	return e
}
