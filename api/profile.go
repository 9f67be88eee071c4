package api

import (
	"budgetbook/middleware"
	"budgetbook/models"
	"budgetbook/service"

	"github.com/gin-gonic/gin"
)

// ProfileHandler 用户资料处理器
type ProfileHandler struct {
	profiles *service.ProfileService
}

func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// ProfileRequest Email 为交易通知的收件邮箱
type ProfileRequest struct {
	Name    string `json:"name" binding:"required,max=100" example:"张三"`
	Avatar  string `json:"avatar" binding:"omitempty,max=500"`
	Website string `json:"website" binding:"omitempty,max=200"`
	Bio     string `json:"bio" binding:"omitempty,max=1000"`
	Email   string `json:"email" binding:"omitempty,max=100" example:"user@example.com"`
}

// Get 获取当前用户资料
// @Summary 获取当前用户资料
// @Description 首次访问时以令牌中的用户名和邮箱创建资料
// @Tags 用户资料
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.Profile} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/profile [get]
func (h *ProfileHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	if userID == 0 {
		Unauthorized(c, "未登录")
		return
	}

	p, err := h.profiles.Get(c.Request.Context(), service.Identity{
		ID:    int(userID),
		Name:  middleware.GetCurrentUsername(c),
		Email: middleware.GetCurrentEmail(c),
	})
	if err != nil {
		respondError(c, err, "获取用户资料失败")
		return
	}
	Success(c, p)
}

// Update 更新当前用户资料
// @Summary 更新当前用户资料
// @Tags 用户资料
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProfileRequest true "资料信息"
// @Success 200 {object} Response{data=models.Profile} "更新成功"
// @Failure 400 {object} Response "参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/profile [put]
func (h *ProfileHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	if userID == 0 {
		Unauthorized(c, "未登录")
		return
	}

	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	p, err := h.profiles.Update(c.Request.Context(), int(userID), models.Profile{
		Name:    req.Name,
		Avatar:  req.Avatar,
		Website: req.Website,
		Bio:     req.Bio,
		Email:   req.Email,
	})
	if err != nil {
		respondError(c, err, "更新用户资料失败")
		return
	}
	SuccessWithMessage(c, "更新成功", p)
}
