package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/airvault/pkg/internal/handle"
)

// RegisterAirlockRoutes 注册舱内事件受理路由. 上层应在该组上挂后端令牌认证.
func RegisterAirlockRoutes(g *gin.RouterGroup) {
	airlockRoutes := g.Group("/airlock")
	{
		airlockRoutes.POST("/events", handle.AirlockEvent) // 受理舱内事件并分发通知

		// 心跳上报保留位，对应 av.airlock.heartbeat 主题
		airlockRoutes.POST("/heartbeat", handle.DefaultHandler)
	}
}
