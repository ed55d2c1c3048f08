// Package handle 提供 HTTP 请求处理器的实现.
package handle

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/airvault/pkg/internal/model"
	"github.com/yeisme/airvault/pkg/internal/service"
	"github.com/yeisme/airvault/pkg/middleware"
)

func DefaultHandler(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{"message": "Not Implemented"})
}

// currentBackend 取出认证中间件解析的后端主体.
func currentBackend(c *gin.Context) (*model.Backend, bool) {
	v, ok := c.Get(middleware.BackendContextKey)
	if !ok {
		return nil, false
	}

	b, ok := v.(*model.Backend)

	return b, ok
}

// statusFor 领域错误到 HTTP 状态码的映射：
// 未找到→404、授权→403、锁/重复裁决→409，其余→500.
// 校验类 400 在各 handler 绑定阶段单独处理.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, service.ErrPublishLocked),
		errors.Is(err, service.ErrAlreadyDecided),
		errors.Is(err, service.ErrAlreadyPublished):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError 按领域错误映射状态码并输出统一错误体.
func writeError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
