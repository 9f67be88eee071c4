// Package budgeting 计算预算使用率、剩余额度和状态，以及按类别的支出汇总。
// 所有函数均为纯函数，不访问存储。
package budgeting

import (
	"fmt"
	"strings"
	"time"

	"budgetbook/catfilter"
	"budgetbook/models"

	"github.com/shopspring/decimal"
)

// Status 预算状态
type Status string

const (
	StatusOnTrack    Status = "on-track"
	StatusNearLimit  Status = "near-limit"
	StatusOverBudget Status = "over-budget"
)

var (
	hundred       = decimal.NewFromInt(100)
	nearThreshold = decimal.NewFromInt(80)
)

// Evaluation 预算评估结果，Percentage 不做舍入
type Evaluation struct {
	Percentage float64         `json:"percentage"`
	Remaining  decimal.Decimal `json:"remaining" swaggertype:"number"`
	Status     Status          `json:"status"`
}

// PercentageText 保留一位小数，用于展示
func (e Evaluation) PercentageText() string {
	return fmt.Sprintf("%.1f", e.Percentage)
}

// Overspent 剩余额度为负
func (e Evaluation) Overspent() bool {
	return e.Remaining.IsNegative()
}

// Evaluate 按预算中的 spent 评估
func Evaluate(b models.Budget) Evaluation {
	return EvaluateAmounts(b.Limit, b.Spent)
}

// EvaluateAmounts limit 为 0 时使用率记为 0
// 状态由 spent 与 limit 直接比较得出，Percentage 只用于展示
func EvaluateAmounts(limit, spent decimal.Decimal) Evaluation {
	e := Evaluation{
		Remaining: limit.Sub(spent),
		Status:    StatusOnTrack,
	}
	if !limit.IsPositive() {
		return e
	}

	e.Percentage, _ = spent.Div(limit).Mul(hundred).Float64()
	switch {
	case spent.Cmp(limit) > 0:
		e.Status = StatusOverBudget
	case spent.Mul(hundred).Cmp(limit.Mul(nearThreshold)) > 0:
		e.Status = StatusNearLimit
	}
	return e
}

// InPeriod 日期是否落在指定年月（按 UTC 日历日期）
func InPeriod(date time.Time, year int, month time.Month) bool {
	if date.IsZero() {
		return false
	}
	d := models.TruncateDate(date)
	return d.Year() == year && d.Month() == month
}

// SpentFor 汇总预算对应类别、年月内的支出交易金额
func SpentFor(b models.Budget, transactions []models.Transaction) decimal.Decimal {
	year, month, ok := b.Period()
	if !ok || b.CategoryID <= 0 {
		return decimal.Zero
	}
	total := decimal.Zero
	for _, tx := range transactions {
		if tx.Type != models.TypeExpense || tx.CategoryID != b.CategoryID {
			continue
		}
		if InPeriod(tx.Date, year, month) {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

// Recompute 返回以交易汇总值替换 spent 后的预算
func Recompute(b models.Budget, transactions []models.Transaction) models.Budget {
	b.Spent = SpentFor(b, transactions)
	return b
}

// View 预算概览中的一项
type View struct {
	Budget      models.Budget   `json:"budget"`
	Label       string          `json:"label"`
	Category    string          `json:"category"`
	StoredSpent decimal.Decimal `json:"storedSpent" swaggertype:"number"`
	Spent       decimal.Decimal `json:"spent" swaggertype:"number"`
	Diverged    bool            `json:"diverged"`
	Evaluation
}

// Overview 以交易汇总的支出评估每个预算
// 类别不存在时显示 UnknownCategoryLabel，不报错
func Overview(budgets []models.Budget, categories []models.Category, transactions []models.Transaction) []View {
	idx := catfilter.Index(categories)
	views := make([]View, 0, len(budgets))
	for _, b := range budgets {
		b = ResolveCategory(b, categories, idx)

		label := models.UnknownCategoryLabel
		if c, ok := idx[b.CategoryID]; ok {
			label = c.Name
			b.CategoryName = c.Name
		}

		stored := b.Spent
		derived := SpentFor(b, transactions)
		views = append(views, View{
			Budget:      b,
			Label:       budgetLabel(b, label),
			Category:    label,
			StoredSpent: stored,
			Spent:       derived,
			Diverged:    !stored.Equal(derived),
			Evaluation:  EvaluateAmounts(b.Limit, derived),
		})
	}
	return views
}

// ResolveCategory 旧预算只存了类别名称时，按名称匹配支出类别补全 ID
func ResolveCategory(b models.Budget, categories []models.Category, idx map[int]models.Category) models.Budget {
	if _, ok := idx[b.CategoryID]; ok || b.CategoryName == "" {
		return b
	}
	for _, c := range categories {
		if c.Type == models.TypeExpense && strings.EqualFold(c.Name, b.CategoryName) {
			b.CategoryID = c.ID
			return b
		}
	}
	return b
}

func budgetLabel(b models.Budget, category string) string {
	if b.Title != "" {
		return b.Title
	}
	return category + " Budget"
}

// CategoryTotal 报表中某个类别的汇总
type CategoryTotal struct {
	CategoryID int             `json:"categoryId"`
	Label      string          `json:"label"`
	Color      string          `json:"color,omitempty"`
	Total      decimal.Decimal `json:"total" swaggertype:"number"`
	Count      int             `json:"count"`
	Percentage float64         `json:"percentage"`
}

// Report 按类别的收支汇总
type Report struct {
	Type  models.EntryType `json:"type"`
	Year  int              `json:"year,omitempty"`
	Month string           `json:"month,omitempty"`
	Total decimal.Decimal  `json:"total" swaggertype:"number"`
	Count int              `json:"count"`
	Rows  []CategoryTotal  `json:"rows"`
}

// Period 报表时间范围，Year 为 0 表示全部时间，Month 为 0 表示全年
type Period struct {
	Year  int
	Month time.Month
}

func (p Period) contains(date time.Time) bool {
	if p.Year == 0 {
		return true
	}
	if date.IsZero() {
		return false
	}
	d := models.TruncateDate(date)
	if d.Year() != p.Year {
		return false
	}
	return p.Month == 0 || d.Month() == p.Month
}

// CategoryTotals 按类别录入顺序汇总指定类型的交易，只输出有交易的类别
// 引用不存在类别的交易归入 UnknownCategoryLabel
func CategoryTotals(categories []models.Category, transactions []models.Transaction, t models.EntryType, period Period) Report {
	report := Report{Type: t, Year: period.Year, Total: decimal.Zero, Rows: []CategoryTotal{}}
	if period.Year != 0 && period.Month != 0 {
		report.Month = models.MonthName(period.Month)
	}

	ordered := catfilter.Matching(categories, t, catfilter.OrderInsertion)
	known := make(map[int]int, len(ordered))
	rows := make([]CategoryTotal, len(ordered))
	for i, c := range ordered {
		known[c.ID] = i
		rows[i] = CategoryTotal{CategoryID: c.ID, Label: c.Name, Color: c.Color, Total: decimal.Zero}
	}
	unknown := CategoryTotal{Label: models.UnknownCategoryLabel, Total: decimal.Zero}

	for _, tx := range transactions {
		if tx.Type != t || !period.contains(tx.Date) {
			continue
		}
		report.Total = report.Total.Add(tx.Amount)
		report.Count++
		if i, ok := known[tx.CategoryID]; ok {
			rows[i].Total = rows[i].Total.Add(tx.Amount)
			rows[i].Count++
			continue
		}
		unknown.Total = unknown.Total.Add(tx.Amount)
		unknown.Count++
	}

	if unknown.Count > 0 {
		rows = append(rows, unknown)
	}
	for _, r := range rows {
		if r.Count == 0 {
			continue
		}
		if report.Total.IsPositive() {
			r.Percentage, _ = r.Total.Div(report.Total).Mul(hundred).Float64()
		}
		report.Rows = append(report.Rows, r)
	}
	return report
}
