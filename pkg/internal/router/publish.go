package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/airvault/pkg/internal/handle"
)

// RegisterPublishRoutes 注册公开请求路由.
func RegisterPublishRoutes(g *gin.RouterGroup) {
	publishRoutes := g.Group("/publish-requests")
	{
		publishRoutes.POST("", handle.CreatePublishRequest)              // 创建公开请求
		publishRoutes.GET("/:id", handle.GetPublishRequest)              // 公开请求详情
		publishRoutes.POST("/:id/decision", handle.DecidePublishRequest) // 审核公开请求
	}
}
