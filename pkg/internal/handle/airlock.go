package handle

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/airvault/pkg/internal/service"
	"github.com/yeisme/airvault/pkg/internal/types"
	"github.com/yeisme/airvault/pkg/log"
)

// AirlockEvent 受理一个舱内事件并分发通知.
//
//	@Summary		受理舱内事件
//	@Description	校验载荷、解析工作区与用户引用，然后按事件类型分发到通知处理器
//	@Tags			安全舱
//	@Accept			json
//	@Produce		json
//	@Param			body	types.AirlockEventRequest	true	"事件载荷"
//	@Success		200		{object}					types.AirlockEventResponse
//	@Failure		400		{object}					map[string]string
//	@Failure		404		{object}					map[string]string
//	@Router			/api/v1/airlock/events [post]
func AirlockEvent(c *gin.Context) {
	l := log.Logger()

	var req types.AirlockEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid airlock payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	svc := service.NewAirlockService(c.Request.Context())

	if err := svc.HandleEvent(c.Request.Context(), &req); err != nil {
		l.Warn().Err(err).Str("event_type", req.EventType).Msg("airlock event rejected")

		// 枚举值非法属于校验错误，引用不存在由通用映射处理
		if errors.Is(err, service.ErrInvalidEvent) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

			return
		}

		writeError(c, err)

		return
	}

	c.JSON(http.StatusOK, types.AirlockEventResponse{Message: "ok"})
}
