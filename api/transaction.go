package api

import (
	"budgetbook/middleware"
	"budgetbook/models"
	"budgetbook/normalize"
	"budgetbook/service"

	"github.com/gin-gonic/gin"
)

// TransactionHandler 收支记录处理器
type TransactionHandler struct {
	transactions *service.TransactionService
}

// NewTransactionHandler 创建收支记录处理器
func NewTransactionHandler(transactions *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

// TransactionListRequest 收支记录列表请求
type TransactionListRequest struct {
	Page       int    `form:"page" example:"1"`
	PageSize   int    `form:"page_size" example:"20"`
	Type       string `form:"type" example:"expense"`
	CategoryID int    `form:"category_id" example:"1"`
	StartTime  string `form:"start_time" example:"2024-01-01"`
	EndTime    string `form:"end_time" example:"2024-12-31"`
}

// BatchDeleteRequest 批量删除请求
type BatchDeleteRequest struct {
	IDs []int `json:"ids" binding:"required,min=1"`
}

// bindDraft 请求体同时接受新旧字段名
func bindDraft(c *gin.Context) (models.TransactionDraft, bool) {
	raw := map[string]any{}
	if err := c.ShouldBindJSON(&raw); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return models.TransactionDraft{}, false
	}
	return normalize.TransactionDraft(raw), true
}

// List 获取收支记录列表
// @Summary 获取收支记录列表
// @Description 按日期倒序返回收支记录，支持分页和按类型、类别、时间筛选
// @Tags 收支记录
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Param type query string false "类型 income/expense"
// @Param category_id query int false "类别ID"
// @Param start_time query string false "开始日期 (2024-01-01)"
// @Param end_time query string false "结束日期 (2024-12-31)"
// @Success 200 {object} Response{data=PageResponse{list=[]models.Transaction}} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	var req TransactionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	// 默认分页参数
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	filter := service.TransactionFilter{CategoryID: req.CategoryID}
	if req.Type != "" {
		t, ok := models.ParseEntryType(req.Type)
		if !ok {
			BadRequest(c, "类型必须为 income 或 expense")
			return
		}
		filter.Type = t
	}
	var err error
	if filter.Start, filter.End, err = parseRange(req.StartTime, req.EndTime); err != nil {
		BadRequest(c, err.Error())
		return
	}

	list, err := h.transactions.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "查询收支记录失败")
		return
	}

	start := (req.Page - 1) * req.PageSize
	if start > len(list) {
		start = len(list)
	}
	end := start + req.PageSize
	if end > len(list) {
		end = len(list)
	}
	Success(c, PageResponse{
		Total:    len(list),
		Page:     req.Page,
		PageSize: req.PageSize,
		List:     list[start:end],
	})
}

// Get 获取单条收支记录
// @Summary 获取收支记录详情
// @Tags 收支记录
// @Produce json
// @Security BearerAuth
// @Param id path int true "记录ID"
// @Success 200 {object} Response{data=models.Transaction} "获取成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	tx, err := h.transactions.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "查询收支记录失败")
		return
	}
	Success(c, tx)
}

// Create 创建收支记录
// @Summary 创建收支记录
// @Description 保存成功后向用户资料中的邮箱发送通知；通知失败只返回警告，不影响创建结果
// @Tags 收支记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.TransactionDraft true "收支记录信息"
// @Success 200 {object} Response{data=service.CreateResult} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 500 {object} Response "保存失败"
// @Router /api/v1/transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	draft, ok := bindDraft(c)
	if !ok {
		return
	}

	userID := middleware.GetCurrentUserID(c)
	result, err := h.transactions.Create(c.Request.Context(), int(userID), draft)
	if err != nil {
		respondError(c, err, "创建收支记录失败")
		return
	}

	message := "创建成功"
	if len(result.Warnings) > 0 {
		message = "创建成功，但通知未送达"
	}
	SuccessWithMessage(c, message, result)
}

// Update 更新收支记录
// @Summary 更新收支记录
// @Description 更新不发送通知，不修改创建时间
// @Tags 收支记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "记录ID"
// @Param request body models.TransactionDraft true "收支记录信息"
// @Success 200 {object} Response{data=models.Transaction} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/transactions/{id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	draft, ok := bindDraft(c)
	if !ok {
		return
	}

	tx, err := h.transactions.Update(c.Request.Context(), id, draft)
	if err != nil {
		respondError(c, err, "更新收支记录失败")
		return
	}
	SuccessWithMessage(c, "更新成功", tx)
}

// Delete 删除收支记录
// @Summary 删除收支记录
// @Tags 收支记录
// @Produce json
// @Security BearerAuth
// @Param id path int true "记录ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.transactions.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "删除收支记录失败")
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}

// BatchDelete 批量删除收支记录
// @Summary 批量删除收支记录
// @Description 逐条删除，返回成功和失败的记录
// @Tags 收支记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BatchDeleteRequest true "记录ID列表"
// @Success 200 {object} Response{data=service.DeleteReport} "删除完成"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/transactions/batch-delete [post]
func (h *TransactionHandler) BatchDelete(c *gin.Context) {
	var req BatchDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	report, err := h.transactions.DeleteMany(c.Request.Context(), req.IDs)
	if err != nil {
		respondError(c, err, "批量删除失败")
		return
	}
	SuccessWithMessage(c, "删除完成", report)
}
