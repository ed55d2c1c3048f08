package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/airvault/pkg/internal/handle"
)

// RegisterSnapshotRoutes 注册快照路由. cacheMw 缓存快照详情响应，传 nil 则不缓存.
func RegisterSnapshotRoutes(g *gin.RouterGroup, cacheMw gin.HandlerFunc) {
	workspaceRoutes := g.Group("/workspaces/:workspace")
	{
		workspaceRoutes.POST("/snapshots", handle.CreateSnapshot) // 创建快照
	}

	snapshotRoutes := g.Group("/snapshots")
	{
		if cacheMw != nil {
			snapshotRoutes.GET("/:id", cacheMw, handle.GetSnapshot) // 快照详情（响应缓存）
		} else {
			snapshotRoutes.GET("/:id", handle.GetSnapshot)
		}

		snapshotRoutes.POST("/:id/publish", handle.PublishSnapshot) // 发布快照
	}
}
