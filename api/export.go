package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"budgetbook/catfilter"
	"budgetbook/models"
	"budgetbook/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ExportHandler 导出处理器
type ExportHandler struct {
	transactions *service.TransactionService
	categories   *service.CategoryService
}

// NewExportHandler 创建导出处理器
func NewExportHandler(transactions *service.TransactionService, categories *service.CategoryService) *ExportHandler {
	return &ExportHandler{transactions: transactions, categories: categories}
}

// parseRange 解析 YYYY-MM-DD 日期范围，空串表示不限
func parseRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error
	if startStr != "" {
		if start, err = time.Parse(models.DateLayout, startStr); err != nil {
			return start, end, fmt.Errorf("开始时间格式错误，应为: 2006-01-02")
		}
	}
	if endStr != "" {
		if end, err = time.Parse(models.DateLayout, endStr); err != nil {
			return start, end, fmt.Errorf("结束时间格式错误，应为: 2006-01-02")
		}
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return start, end, fmt.Errorf("结束时间不能早于开始时间")
	}
	return start, end, nil
}

// exportRows 导出范围内的交易，类别名称以当前类别表为准
func (h *ExportHandler) exportRows(c *gin.Context) ([]models.Transaction, string, string, bool) {
	startStr := c.Query("start_time")
	endStr := c.Query("end_time")
	if startStr == "" || endStr == "" {
		BadRequest(c, "请提供开始时间和结束时间")
		return nil, "", "", false
	}
	start, end, err := parseRange(startStr, endStr)
	if err != nil {
		BadRequest(c, err.Error())
		return nil, "", "", false
	}

	ctx := c.Request.Context()
	list, err := h.transactions.List(ctx, service.TransactionFilter{Start: start, End: end})
	if err != nil {
		respondError(c, err, "查询数据失败")
		return nil, "", "", false
	}
	categories, err := h.categories.List(ctx)
	if err != nil {
		respondError(c, err, "查询数据失败")
		return nil, "", "", false
	}

	idx := catfilter.Index(categories)
	for i := range list {
		list[i].CategoryName = catfilter.Label(idx, list[i].CategoryID)
	}
	return list, startStr, endStr, true
}

func typeText(t models.EntryType) string {
	if t == models.TypeIncome {
		return "收入"
	}
	return "支出"
}

// ExportCSV 导出收支记录为 CSV
// @Summary 导出收支记录
// @Description 根据时间范围导出收支记录为 CSV 文件
// @Tags 导出
// @Produce text/csv
// @Security BearerAuth
// @Param start_time query string true "开始时间 (2024-01-01)"
// @Param end_time query string true "结束时间 (2024-12-31)"
// @Success 200 {file} file "CSV 文件"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	list, startStr, endStr, ok := h.exportRows(c)
	if !ok {
		return
	}

	buf := new(bytes.Buffer)
	// 添加 BOM 以支持 Excel 中文显示
	buf.WriteString("\xEF\xBB\xBF")
	writer := csv.NewWriter(buf)

	headers := []string{"ID", "标题", "类型", "金额", "类别", "描述", "日期", "创建时间"}
	if err := writer.Write(headers); err != nil {
		InternalError(c, "生成 CSV 失败")
		return
	}
	for _, tx := range list {
		row := []string{
			strconv.Itoa(tx.ID),
			tx.Title,
			typeText(tx.Type),
			tx.Amount.StringFixed(2),
			tx.CategoryName,
			tx.Description,
			tx.Date.Format(models.DateLayout),
			tx.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(row); err != nil {
			InternalError(c, "生成 CSV 失败")
			return
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, "生成 CSV 失败")
		return
	}

	filename := fmt.Sprintf("transactions_%s_%s.csv", startStr, endStr)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportJSON 导出收支记录为 JSON
// @Summary 导出收支记录为 JSON
// @Description 根据时间范围导出收支记录及收入、支出合计
// @Tags 导出
// @Produce json
// @Security BearerAuth
// @Param start_time query string true "开始时间 (2024-01-01)"
// @Param end_time query string true "结束时间 (2024-12-31)"
// @Success 200 {object} Response{data=map[string]interface{}} "导出成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/export/json [get]
func (h *ExportHandler) ExportJSON(c *gin.Context) {
	list, startStr, endStr, ok := h.exportRows(c)
	if !ok {
		return
	}

	totals := summarize(list)
	Success(c, gin.H{
		"start_time":    startStr,
		"end_time":      endStr,
		"total_count":   len(list),
		"total_expense": totals.TotalExpense,
		"total_income":  totals.TotalIncome,
		"transactions":  list,
	})
}

// ExportExcel 导出收支记录为 Excel
// @Summary 导出收支记录为 Excel
// @Description 根据时间范围导出收支记录为 xlsx 文件，末行为合计
// @Tags 导出
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param start_time query string true "开始时间 (2024-01-01)"
// @Param end_time query string true "结束时间 (2024-12-31)"
// @Success 200 {file} file "Excel 文件"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	list, startStr, endStr, ok := h.exportRows(c)
	if !ok {
		return
	}

	f, err := buildWorkbook(list)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "生成 Excel 失败"))
		return
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		InternalError(c, "生成 Excel 失败")
		return
	}

	filename := url.PathEscape(fmt.Sprintf("收支记录_%s_%s.xlsx", startStr, endStr))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

const excelSheet = "收支记录"

func cellBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
}

// buildWorkbook 生成带表头和合计行的工作簿
func buildWorkbook(list []models.Transaction) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", excelSheet); err != nil {
		f.Close()
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    cellBorder(),
	})
	if err != nil {
		f.Close()
		return nil, err
	}
	dataStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    cellBorder(),
	})
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    cellBorder(),
	})

	// 设置列宽
	widths := map[string]float64{"A": 8, "B": 20, "C": 8, "D": 12, "E": 12, "F": 30, "G": 14}
	for col, w := range widths {
		f.SetColWidth(excelSheet, col, col, w)
	}

	headers := []string{"ID", "标题", "类型", "金额", "类别", "描述", "日期"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(excelSheet, cell, header)
	}
	f.SetCellStyle(excelSheet, "A1", "G1", headerStyle)

	for i, tx := range list {
		row := i + 2
		amount, _ := tx.Amount.Float64()
		values := []any{tx.ID, tx.Title, typeText(tx.Type), amount, tx.CategoryName, tx.Description, tx.Date.Format(models.DateLayout)}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(excelSheet, cell, v)
		}
		f.SetCellStyle(excelSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("G%d", row), dataStyle)
	}

	// 合计行：收入为正，支出为负
	net := decimal.Zero
	for _, tx := range list {
		if tx.Type == models.TypeIncome {
			net = net.Add(tx.Amount)
		} else {
			net = net.Sub(tx.Amount)
		}
	}
	netValue, _ := net.Float64()
	summaryRow := len(list) + 2
	f.SetCellValue(excelSheet, fmt.Sprintf("A%d", summaryRow), "合计")
	f.MergeCell(excelSheet, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("C%d", summaryRow))
	f.SetCellValue(excelSheet, fmt.Sprintf("D%d", summaryRow), netValue)
	f.SetCellValue(excelSheet, fmt.Sprintf("E%d", summaryRow), fmt.Sprintf("共 %d 条记录", len(list)))
	f.MergeCell(excelSheet, fmt.Sprintf("E%d", summaryRow), fmt.Sprintf("G%d", summaryRow))
	f.SetCellStyle(excelSheet, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("G%d", summaryRow), summaryStyle)

	return f, nil
}
