package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/airvault/pkg/internal/handle"
)

// RegisterReleaseRoutes 注册放行请求与放行文件路由.
// 工作区下的创建/列表接口由上层挂后端令牌认证.
func RegisterReleaseRoutes(g *gin.RouterGroup) {
	workspaceRoutes := g.Group("/workspaces/:workspace")
	{
		workspaceRoutes.POST("/releases", handle.CreateRelease) // 创建放行请求
		workspaceRoutes.GET("/releases", handle.ListReleases)   // 工作区放行列表
	}

	releaseRoutes := g.Group("/releases")
	{
		releaseRoutes.GET("/:id", handle.GetRelease)             // 放行详情
		releaseRoutes.POST("/:id/approve", handle.ApproveRelease) // 批准放行并出舱拷贝
		releaseRoutes.POST("/:id/reject", handle.RejectRelease)   // 驳回放行
	}

	fileRoutes := g.Group("/release-files")
	{
		fileRoutes.DELETE("/:id", handle.DeleteReleaseFile) // 软删除放行文件
	}
}
