package handle

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/airvault/pkg/internal/model"
	"github.com/yeisme/airvault/pkg/internal/service"
	"github.com/yeisme/airvault/pkg/internal/types"
	"github.com/yeisme/airvault/pkg/log"
)

// snapshotView 组装快照响应视图.
func snapshotView(s *model.Snapshot, workspace string) types.SnapshotResponse {
	resp := types.SnapshotResponse{
		ID:            s.ID,
		Workspace:     workspace,
		CreatedByID:   s.CreatedByID,
		CreatedAt:     s.CreatedAt,
		PublishedByID: s.PublishedByID,
		PublishedAt:   s.PublishedAt,
		IsDraft:       s.IsDraft(),
	}

	for _, f := range s.Files {
		resp.Files = append(resp.Files, releaseFileView(&f))
	}

	return resp
}

// snapshotID 解析路径里的快照 ID.
func snapshotID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid snapshot id"})

		return 0, false
	}

	return uint(id), true
}

// CreateSnapshot 从一组已放行文件创建快照.
//
//	@Summary		创建快照
//	@Description	成员在创建时一次性冻结，不支持后续修改
//	@Tags			快照
//	@Accept			json
//	@Produce		json
//	@Param			workspace	path	string						true	"工作区名"
//	@Param			body		body	types.CreateSnapshotRequest	true	"创建参数"
//	@Success		200			{object}	types.SnapshotResponse
//	@Failure		400			{object}	map[string]string
//	@Failure		404			{object}	map[string]string
//	@Router			/api/v1/workspaces/{workspace}/snapshots [post]
func CreateSnapshot(c *gin.Context) {
	l := log.Logger()

	var req types.CreateSnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	svc := service.NewSnapshotService(c.Request.Context())

	snapshot, err := svc.Create(c.Request.Context(), c.Param("workspace"), &req)
	if err != nil {
		l.Error().Err(err).Msg("create snapshot failed")
		writeError(c, err)

		return
	}

	c.JSON(http.StatusOK, snapshotView(snapshot, c.Param("workspace")))
}

// GetSnapshot 快照详情（含文件）.
//
//	@Summary	快照详情
//	@Tags		快照
//	@Produce	json
//	@Param		id	path		int	true	"快照 ID"
//	@Success	200	{object}	types.SnapshotResponse
//	@Failure	404	{object}	map[string]string
//	@Router		/api/v1/snapshots/{id} [get]
func GetSnapshot(c *gin.Context) {
	id, ok := snapshotID(c)
	if !ok {
		return
	}

	svc := service.NewSnapshotService(c.Request.Context())

	snapshot, err := svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)

		return
	}

	c.JSON(http.StatusOK, snapshotView(snapshot, ""))
}

// PublishSnapshot 对外发布快照.
//
//	@Summary		发布快照
//	@Description	发布是单向的，已发布快照不可再次发布或撤回
//	@Tags			快照
//	@Accept			json
//	@Produce		json
//	@Param			id		path	int							true	"快照 ID"
//	@Param			body	body	types.PublishSnapshotRequest	true	"发布参数"
//	@Success		200		{object}	types.SnapshotResponse
//	@Failure		403		{object}	map[string]string
//	@Failure		409		{object}	map[string]string
//	@Router			/api/v1/snapshots/{id}/publish [post]
func PublishSnapshot(c *gin.Context) {
	l := log.Logger()

	id, ok := snapshotID(c)
	if !ok {
		return
	}

	var req types.PublishSnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	svc := service.NewSnapshotService(c.Request.Context())

	snapshot, err := svc.Publish(c.Request.Context(), id, req.PublishedBy)
	if err != nil {
		l.Error().Err(err).Uint("snapshot", id).Msg("publish snapshot failed")
		writeError(c, err)

		return
	}

	c.JSON(http.StatusOK, snapshotView(snapshot, ""))
}
