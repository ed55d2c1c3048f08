package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/airvault/pkg/internal/model"
	"github.com/yeisme/airvault/pkg/internal/service"
	"github.com/yeisme/airvault/pkg/internal/types"
	"github.com/yeisme/airvault/pkg/log"
)

// publishRequestView 组装公开请求响应视图.
func publishRequestView(p *model.PublishRequest) types.PublishRequestResponse {
	return types.PublishRequestResponse{
		ID:                p.ID,
		ReportID:          p.ReportID,
		SnapshotID:        p.SnapshotID,
		AnalysisRequestID: p.AnalysisRequestID,
		Decision:          string(p.Decision),
		DecidedByID:       p.DecidedByID,
		DecidedAt:         p.DecidedAt,
		CreatedByID:       p.CreatedByID,
		CreatedAt:         p.CreatedAt,
	}
}

// CreatePublishRequest 创建公开请求.
//
//	@Summary		创建公开请求
//	@Description	要求项目范围 interactive_reporter 或全局 core_developer；
//	@Description	目标分析请求存在 PENDING/APPROVED 公开请求时返回 409
//	@Tags			公开
//	@Accept			json
//	@Produce		json
//	@Param			body	body	types.CreatePublishRequestRequest	true	"创建参数"
//	@Success		200		{object}	types.PublishRequestResponse
//	@Failure		403		{object}	map[string]string
//	@Failure		409		{object}	map[string]string
//	@Router			/api/v1/publish-requests [post]
func CreatePublishRequest(c *gin.Context) {
	l := log.Logger()

	var req types.CreatePublishRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	svc := service.NewPublishRequestService(c.Request.Context())

	pr, err := svc.Create(c.Request.Context(), &req)
	if err != nil {
		l.Error().Err(err).Msg("create publish request failed")
		writeError(c, err)

		return
	}

	c.JSON(http.StatusOK, publishRequestView(pr))
}

// GetPublishRequest 公开请求详情.
//
//	@Summary	公开请求详情
//	@Tags		公开
//	@Produce	json
//	@Param		id	path		string	true	"公开请求 ID"
//	@Success	200	{object}	types.PublishRequestResponse
//	@Failure	404	{object}	map[string]string
//	@Router		/api/v1/publish-requests/{id} [get]
func GetPublishRequest(c *gin.Context) {
	svc := service.NewPublishRequestService(c.Request.Context())

	pr, err := svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)

		return
	}

	c.JSON(http.StatusOK, publishRequestView(pr))
}

// DecidePublishRequest 裁决公开请求.
//
//	@Summary		裁决公开请求
//	@Description	要求 output_checker；裁决一次性，重复裁决返回 409
//	@Tags			公开
//	@Accept			json
//	@Produce		json
//	@Param			id		path	string								true	"公开请求 ID"
//	@Param			body	body	types.DecidePublishRequestRequest	true	"裁决参数"
//	@Success		200		{object}	types.PublishRequestResponse
//	@Failure		403		{object}	map[string]string
//	@Failure		409		{object}	map[string]string
//	@Router			/api/v1/publish-requests/{id}/decision [post]
func DecidePublishRequest(c *gin.Context) {
	l := log.Logger()

	var req types.DecidePublishRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	svc := service.NewPublishRequestService(c.Request.Context())

	pr, err := svc.Decide(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		l.Error().Err(err).Str("publish_request", c.Param("id")).Msg("decide publish request failed")
		writeError(c, err)

		return
	}

	c.JSON(http.StatusOK, publishRequestView(pr))
}
