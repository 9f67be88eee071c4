package api

import (
	"strings"

	"budgetbook/models"
	"budgetbook/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// GoalHandler 储蓄目标处理器
type GoalHandler struct {
	goals *service.GoalService
}

func NewGoalHandler(goals *service.GoalService) *GoalHandler {
	return &GoalHandler{goals: goals}
}

type GoalRequest struct {
	Name          string          `json:"name" binding:"required,max=100" example:"旅行基金"`
	TargetAmount  decimal.Decimal `json:"targetAmount" swaggertype:"number" example:"5000"`
	CurrentAmount decimal.Decimal `json:"currentAmount" swaggertype:"number" example:"1200"`
	TargetDate    string          `json:"targetDate" example:"2024-12-31"`
}

func (r GoalRequest) goal(id int) (models.Goal, error) {
	g := models.Goal{ID: id, Name: r.Name, TargetAmount: r.TargetAmount, CurrentAmount: r.CurrentAmount}
	if strings.TrimSpace(r.TargetDate) != "" {
		d, err := models.ParseDate(r.TargetDate)
		if err != nil {
			return g, models.NewValidationError("targetDate", "日期格式错误，应为: 2006-01-02")
		}
		g.TargetDate = d
	}
	return g, nil
}

// GoalView 目标及完成进度
type GoalView struct {
	models.Goal
	Progress float64 `json:"progress"`
}

// List 获取储蓄目标列表
// @Summary 获取储蓄目标列表
// @Tags 储蓄目标
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]GoalView} "获取成功"
// @Router /api/v1/goals [get]
func (h *GoalHandler) List(c *gin.Context) {
	goals, err := h.goals.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "查询储蓄目标失败")
		return
	}
	views := make([]GoalView, 0, len(goals))
	for _, g := range goals {
		views = append(views, GoalView{Goal: g, Progress: g.Progress()})
	}
	Success(c, views)
}

// Get 获取储蓄目标详情
// @Summary 获取储蓄目标详情
// @Tags 储蓄目标
// @Produce json
// @Security BearerAuth
// @Param id path int true "目标ID"
// @Success 200 {object} Response{data=GoalView} "获取成功"
// @Failure 404 {object} Response "目标不存在"
// @Router /api/v1/goals/{id} [get]
func (h *GoalHandler) Get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	g, err := h.goals.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "查询储蓄目标失败")
		return
	}
	Success(c, GoalView{Goal: g, Progress: g.Progress()})
}

// Create 创建储蓄目标
// @Summary 创建储蓄目标
// @Tags 储蓄目标
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body GoalRequest true "目标信息"
// @Success 200 {object} Response{data=models.Goal} "创建成功"
// @Failure 400 {object} Response "参数错误"
// @Router /api/v1/goals [post]
func (h *GoalHandler) Create(c *gin.Context) {
	var req GoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	g, err := req.goal(0)
	if err != nil {
		respondError(c, err, "参数错误")
		return
	}
	g, err = h.goals.Create(c.Request.Context(), g)
	if err != nil {
		respondError(c, err, "创建储蓄目标失败")
		return
	}
	SuccessWithMessage(c, "创建成功", g)
}

// Update 更新储蓄目标
// @Summary 更新储蓄目标
// @Tags 储蓄目标
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "目标ID"
// @Param request body GoalRequest true "目标信息"
// @Success 200 {object} Response{data=models.Goal} "更新成功"
// @Failure 400 {object} Response "参数错误"
// @Failure 404 {object} Response "目标不存在"
// @Router /api/v1/goals/{id} [put]
func (h *GoalHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req GoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	g, err := req.goal(id)
	if err != nil {
		respondError(c, err, "参数错误")
		return
	}
	g, err = h.goals.Update(c.Request.Context(), g)
	if err != nil {
		respondError(c, err, "更新储蓄目标失败")
		return
	}
	SuccessWithMessage(c, "更新成功", g)
}

// Delete 删除储蓄目标
// @Summary 删除储蓄目标
// @Tags 储蓄目标
// @Produce json
// @Security BearerAuth
// @Param id path int true "目标ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "目标不存在"
// @Router /api/v1/goals/{id} [delete]
func (h *GoalHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.goals.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "删除储蓄目标失败")
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}
