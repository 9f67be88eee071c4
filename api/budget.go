package api

import (
	"strconv"
	"strings"

	"budgetbook/budgeting"
	"budgetbook/models"
	"budgetbook/normalize"
	"budgetbook/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// BudgetHandler 预算处理器
type BudgetHandler struct {
	budgets *service.BudgetService
}

func NewBudgetHandler(budgets *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgets: budgets}
}

// BudgetRequest 月份和年份缺省为当前月
// 也接受存储字段名 title_c、category_c、limit_c、spent_c、month_c、year_c
type BudgetRequest struct {
	Title      string          `json:"title" example:"餐饮预算"`
	CategoryID int             `json:"categoryId" example:"1"`
	Limit      decimal.Decimal `json:"limit" swaggertype:"number" example:"500"`
	Spent      decimal.Decimal `json:"spent" swaggertype:"number" example:"0"`
	Month      string          `json:"month" example:"March"`
	Year       int             `json:"year" example:"2024"`
}

// bindBudget 请求体经 normalize.Budget 规范化，spentSet 表示请求是否带了已支出金额
func bindBudget(c *gin.Context, id int) (b models.Budget, spentSet bool, ok bool) {
	raw := map[string]any{}
	if err := c.ShouldBindJSON(&raw); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return b, false, false
	}
	b = normalize.Budget(raw)
	b.ID = id
	return b, normalize.Has(raw, "spent_c", "spent"), true
}

// parsePeriod 解析 year 和 month 查询参数，月份需要年份
func parsePeriod(c *gin.Context) (budgeting.Period, bool) {
	var p budgeting.Period
	if s := strings.TrimSpace(c.Query("year")); s != "" {
		year, err := strconv.Atoi(s)
		if err != nil || year < 1000 || year > 9999 {
			BadRequest(c, "年份必须为4位数字")
			return p, false
		}
		p.Year = year
	}
	if s := strings.TrimSpace(c.Query("month")); s != "" {
		m, ok := models.ParseMonth(s)
		if !ok {
			BadRequest(c, "月份无效")
			return p, false
		}
		p.Month = m
	}
	return p, true
}

// Overview 预算概览
// @Summary 获取预算概览
// @Description 按交易汇总计算每个预算的实际支出、百分比、剩余金额和状态。不传 month/year 返回全部预算
// @Tags 预算
// @Produce json
// @Security BearerAuth
// @Param month query string false "月份（英文名或 1-12）"
// @Param year query int false "年份"
// @Success 200 {object} Response{data=[]budgeting.View} "获取成功"
// @Failure 400 {object} Response "参数错误"
// @Router /api/v1/budgets [get]
func (h *BudgetHandler) Overview(c *gin.Context) {
	period, ok := parsePeriod(c)
	if !ok {
		return
	}
	views, err := h.budgets.Overview(c.Request.Context(), period)
	if err != nil {
		respondError(c, err, "查询预算失败")
		return
	}
	Success(c, views)
}

// Get 获取预算详情
// @Summary 获取预算详情
// @Tags 预算
// @Produce json
// @Security BearerAuth
// @Param id path int true "预算ID"
// @Success 200 {object} Response{data=models.Budget} "获取成功"
// @Failure 404 {object} Response "预算不存在"
// @Router /api/v1/budgets/{id} [get]
func (h *BudgetHandler) Get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	b, err := h.budgets.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "查询预算失败")
		return
	}
	Success(c, b)
}

// Create 创建预算
// @Summary 创建预算
// @Description 类别必须为支出类别；未填写标题时显示为「<类别> Budget」
// @Tags 预算
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BudgetRequest true "预算信息"
// @Success 200 {object} Response{data=models.Budget} "创建成功"
// @Failure 400 {object} Response "参数错误"
// @Router /api/v1/budgets [post]
func (h *BudgetHandler) Create(c *gin.Context) {
	req, _, ok := bindBudget(c, 0)
	if !ok {
		return
	}
	b, err := h.budgets.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "创建预算失败")
		return
	}
	SuccessWithMessage(c, "创建成功", b)
}

// Update 更新预算
// @Summary 更新预算
// @Description 未传 spent 时保留原已支出金额
// @Tags 预算
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "预算ID"
// @Param request body BudgetRequest true "预算信息"
// @Success 200 {object} Response{data=models.Budget} "更新成功"
// @Failure 400 {object} Response "参数错误"
// @Failure 404 {object} Response "预算不存在"
// @Router /api/v1/budgets/{id} [put]
func (h *BudgetHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	req, spentSet, ok := bindBudget(c, id)
	if !ok {
		return
	}
	b, err := h.budgets.Update(c.Request.Context(), req, !spentSet)
	if err != nil {
		respondError(c, err, "更新预算失败")
		return
	}
	SuccessWithMessage(c, "更新成功", b)
}

// Delete 删除预算
// @Summary 删除预算
// @Tags 预算
// @Produce json
// @Security BearerAuth
// @Param id path int true "预算ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "预算不存在"
// @Router /api/v1/budgets/{id} [delete]
func (h *BudgetHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.budgets.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "删除预算失败")
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}

// Reconcile 回写预算支出
// @Summary 回写预算支出
// @Description 将按交易汇总的支出写回与之不一致的预算
// @Tags 预算
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=service.ReconcileReport} "回写完成"
// @Router /api/v1/budgets/reconcile [post]
func (h *BudgetHandler) Reconcile(c *gin.Context) {
	report, err := h.budgets.Reconcile(c.Request.Context())
	if err != nil {
		respondError(c, err, "回写预算失败")
		return
	}
	SuccessWithMessage(c, "回写完成", report)
}

// CategoryReport 按类别汇总
// @Summary 按类别汇总收支
// @Description 按类别录入顺序汇总指定类型的交易，引用已删除类别的交易归入 Unknown category
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Param type query string false "类型 income/expense" default(expense)
// @Param month query string false "月份（英文名或 1-12）"
// @Param year query int false "年份"
// @Success 200 {object} Response{data=budgeting.Report} "获取成功"
// @Failure 400 {object} Response "参数错误"
// @Router /api/v1/reports/categories [get]
func (h *BudgetHandler) CategoryReport(c *gin.Context) {
	t := models.TypeExpense
	if s := c.Query("type"); s != "" {
		var ok bool
		if t, ok = models.ParseEntryType(s); !ok {
			BadRequest(c, "类型必须为 income 或 expense")
			return
		}
	}
	period, ok := parsePeriod(c)
	if !ok {
		return
	}
	if period.Month != 0 && period.Year == 0 {
		BadRequest(c, "按月统计时需要提供年份")
		return
	}

	report, err := h.budgets.CategoryReport(c.Request.Context(), t, period)
	if err != nil {
		respondError(c, err, "统计失败")
		return
	}
	Success(c, report)
}
