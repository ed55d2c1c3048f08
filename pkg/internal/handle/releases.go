package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/airvault/pkg/internal/model"
	"github.com/yeisme/airvault/pkg/internal/service"
	"github.com/yeisme/airvault/pkg/internal/types"
	"github.com/yeisme/airvault/pkg/log"
)

// releaseView 组装 Release 响应视图.
func releaseView(r *model.Release) types.ReleaseResponse {
	files, err := r.RequestedFiles()
	if err != nil {
		log.Logger().Warn().Err(err).Str("release", r.ID).Msg("requested files column unreadable")
	}

	resp := types.ReleaseResponse{
		ID:             r.ID,
		Workspace:      r.Workspace.Name,
		Backend:        r.Backend.Slug,
		Status:         string(r.Status),
		RequestedFiles: files,
		CreatedByID:    r.CreatedByID,
		CreatedAt:      r.CreatedAt,
		DecidedByID:    r.DecidedByID,
		DecidedAt:      r.DecidedAt,
	}

	for _, f := range r.Files {
		resp.Files = append(resp.Files, releaseFileView(&f))
	}

	return resp
}

// releaseFileView 组装文件视图，附带 Kb 人类可读大小.
func releaseFileView(f *model.ReleaseFile) types.ReleaseFileResponse {
	human, err := f.FormatSize(model.SizeKilobytes)
	if err != nil {
		log.Logger().Warn().Err(err).Str("file", f.ID).Msg("format size failed")
	}

	return types.ReleaseFileResponse{
		ID:        f.ID,
		ReleaseID: f.ReleaseID,
		Name:      f.Name,
		SHA256:    f.SHA256,
		Size:      f.Size,
		SizeHuman: human,
		Mtime:     f.Mtime,
		CreatedAt: f.CreatedAt,
		DeletedAt: f.DeletedAt,
	}
}

// CreateRelease 登记一个新的文件导出请求.
//
//	@Summary		创建 Release
//	@Description	由安全后端发起，登记一组待导出文件，初始状态 REQUESTED
//	@Tags			发布
//	@Accept			json
//	@Produce		json
//	@Param			workspace	path	string						true	"工作区名"
//	@Param			body		body	types.CreateReleaseRequest	true	"创建参数"
//	@Success		200			{object}	types.ReleaseResponse
//	@Failure		400			{object}	map[string]string
//	@Failure		401			{object}	map[string]string
//	@Router			/api/v1/workspaces/{workspace}/releases [post]
func CreateRelease(c *gin.Context) {
	l := log.Logger()

	backend, ok := currentBackend(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "backend principal required"})

		return
	}

	var req types.CreateReleaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	svc := service.NewReleaseService(c.Request.Context())

	release, err := svc.Create(c.Request.Context(), c.Param("workspace"), backend, &req)
	if err != nil {
		l.Error().Err(err).Msg("create release failed")
		writeError(c, err)

		return
	}

	release.Backend = *backend

	c.JSON(http.StatusOK, releaseView(release))
}

// ListReleases 列出工作区内的 Release.
//
//	@Summary	Release 列表
//	@Tags		发布
//	@Produce	json
//	@Param		workspace	path		string	true	"工作区名"
//	@Success	200			{object}	types.ListReleasesResponse
//	@Failure	404			{object}	map[string]string
//	@Router		/api/v1/workspaces/{workspace}/releases [get]
func ListReleases(c *gin.Context) {
	svc := service.NewReleaseService(c.Request.Context())

	releases, total, err := svc.List(c.Request.Context(), c.Param("workspace"))
	if err != nil {
		writeError(c, err)

		return
	}

	resp := types.ListReleasesResponse{Total: total, Releases: make([]types.ReleaseResponse, 0, len(releases))}
	for _, r := range releases {
		resp.Releases = append(resp.Releases, releaseView(&r))
	}

	c.JSON(http.StatusOK, resp)
}

// GetRelease Release 详情（含文件）.
//
//	@Summary	Release 详情
//	@Tags		发布
//	@Produce	json
//	@Param		id	path		string	true	"Release ID"
//	@Success	200	{object}	types.ReleaseResponse
//	@Failure	404	{object}	map[string]string
//	@Router		/api/v1/releases/{id} [get]
func GetRelease(c *gin.Context) {
	svc := service.NewReleaseService(c.Request.Context())

	release, err := svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)

		return
	}

	c.JSON(http.StatusOK, releaseView(release))
}

// ApproveRelease 放行 Release，物化文件.
//
//	@Summary	放行 Release
//	@Tags		发布
//	@Accept		json
//	@Produce	json
//	@Param		id		path	string						true	"Release ID"
//	@Param		body	body	types.DecideReleaseRequest	true	"裁决参数"
//	@Success	200		{object}	types.ReleaseResponse
//	@Failure	403		{object}	map[string]string
//	@Failure	409		{object}	map[string]string
//	@Router		/api/v1/releases/{id}/approve [post]
func ApproveRelease(c *gin.Context) {
	decideRelease(c, true)
}

// RejectRelease 拒绝 Release，不物化任何文件.
//
//	@Summary	拒绝 Release
//	@Tags		发布
//	@Accept		json
//	@Produce	json
//	@Param		id		path	string						true	"Release ID"
//	@Param		body	body	types.DecideReleaseRequest	true	"裁决参数"
//	@Success	200		{object}	types.ReleaseResponse
//	@Failure	403		{object}	map[string]string
//	@Failure	409		{object}	map[string]string
//	@Router		/api/v1/releases/{id}/reject [post]
func RejectRelease(c *gin.Context) {
	decideRelease(c, false)
}

func decideRelease(c *gin.Context, approve bool) {
	l := log.Logger()

	var req types.DecideReleaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	svc := service.NewReleaseService(c.Request.Context())

	var (
		release *model.Release
		err     error
	)

	if approve {
		release, err = svc.Approve(c.Request.Context(), c.Param("id"), req.DecidedBy)
	} else {
		release, err = svc.Reject(c.Request.Context(), c.Param("id"), req.DecidedBy)
	}

	if err != nil {
		l.Error().Err(err).Str("release", c.Param("id")).Bool("approve", approve).Msg("release decision failed")
		writeError(c, err)

		return
	}

	c.JSON(http.StatusOK, releaseView(release))
}

// DeleteReleaseFile 软删除一个已放行文件.
//
//	@Summary	软删除文件
//	@Tags		发布
//	@Accept		json
//	@Produce	json
//	@Param		id		path	string						true	"文件 ID"
//	@Param		body	body	types.SoftDeleteFileRequest	true	"删除参数"
//	@Success	200		{object}	map[string]string
//	@Failure	403		{object}	map[string]string
//	@Failure	404		{object}	map[string]string
//	@Router		/api/v1/release-files/{id} [delete]
func DeleteReleaseFile(c *gin.Context) {
	l := log.Logger()

	var req types.SoftDeleteFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	svc := service.NewReleaseFileService(c.Request.Context())

	if err := svc.SoftDelete(c.Request.Context(), c.Param("id"), req.DeletedBy); err != nil {
		l.Error().Err(err).Str("file", c.Param("id")).Msg("soft delete failed")
		writeError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}
