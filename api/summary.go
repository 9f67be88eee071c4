package api

import (
	"budgetbook/models"
	"budgetbook/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// IncomeExpenseSummaryResponse 支出/收入汇总返回
type IncomeExpenseSummaryResponse struct {
	TotalExpense decimal.Decimal `json:"total_expense" swaggertype:"number" example:"123.45"` // 支出总和
	TotalIncome  decimal.Decimal `json:"total_income" swaggertype:"number" example:"5000.00"` // 收入总和
	Balance      decimal.Decimal `json:"balance" swaggertype:"number" example:"4876.55"`      // 收入减支出
}

func summarize(list []models.Transaction) IncomeExpenseSummaryResponse {
	s := IncomeExpenseSummaryResponse{TotalExpense: decimal.Zero, TotalIncome: decimal.Zero}
	for _, tx := range list {
		switch tx.Type {
		case models.TypeIncome:
			s.TotalIncome = s.TotalIncome.Add(tx.Amount)
		case models.TypeExpense:
			s.TotalExpense = s.TotalExpense.Add(tx.Amount)
		}
	}
	s.Balance = s.TotalIncome.Sub(s.TotalExpense)
	return s
}

// GetIncomeExpenseSummary 获取支出和收入汇总
// @Summary 获取支出/收入汇总
// @Description 按时间范围统计支出总和与收入总和。不传 start_time/end_time 则统计全部时间。
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Param start_time query string false "开始时间 (YYYY-MM-DD)，例如 2024-01-01"
// @Param end_time query string false "结束时间 (YYYY-MM-DD)，例如 2024-12-31"
// @Success 200 {object} Response{data=IncomeExpenseSummaryResponse} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/reports/summary [get]
func (h *TransactionHandler) GetIncomeExpenseSummary(c *gin.Context) {
	start, end, err := parseRange(c.Query("start_time"), c.Query("end_time"))
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	list, err := h.transactions.List(c.Request.Context(), service.TransactionFilter{Start: start, End: end})
	if err != nil {
		respondError(c, err, "统计失败")
		return
	}
	Success(c, summarize(list))
}
