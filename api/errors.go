package api

import (
	"errors"
	"strconv"

	"budgetbook/logger"
	"budgetbook/models"
	"budgetbook/store"

	"github.com/gin-gonic/gin"
)

// respondError 按错误类型返回状态码：校验失败 400，受保护实体 403，不存在 404，其余 500
func respondError(c *gin.Context, err error, fallback string) {
	var verr *models.ValidationError
	var perr *models.ProtectedEntityError
	switch {
	case errors.As(err, &verr):
		BadRequest(c, verr.Message)
	case errors.As(err, &perr):
		Forbidden(c, perr.Error())
	case errors.Is(err, store.ErrNotFound):
		NotFound(c, "记录不存在")
	default:
		logger.FromContext(c.Request.Context()).Error(fallback, "error", err)
		InternalError(c, SafeErrorMessage(err, fallback))
	}
}

// paramID 解析路径中的 id
func paramID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		BadRequest(c, "无效的ID")
		return 0, false
	}
	return id, true
}
