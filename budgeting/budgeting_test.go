package budgeting

import (
	"testing"
	"time"

	"budgetbook/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func day(y int, m time.Month, dd int) time.Time {
	return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
}

func TestEvaluate_Scenarios(t *testing.T) {
	near := Evaluate(models.Budget{Limit: d("500"), Spent: d("450")})
	assert.InDelta(t, 90.0, near.Percentage, 1e-9)
	assert.True(t, d("50").Equal(near.Remaining))
	assert.Equal(t, StatusNearLimit, near.Status)
	assert.Equal(t, "90.0", near.PercentageText())

	over := Evaluate(models.Budget{Limit: d("500"), Spent: d("600")})
	assert.InDelta(t, 120.0, over.Percentage, 1e-9)
	assert.True(t, d("-100").Equal(over.Remaining))
	assert.Equal(t, StatusOverBudget, over.Status)
	assert.True(t, over.Overspent())
}

func TestEvaluate_Boundaries(t *testing.T) {
	cases := []struct {
		spent string
		want  Status
	}{
		{"0", StatusOnTrack},
		{"400", StatusOnTrack},
		{"400.01", StatusNearLimit},
		{"500", StatusNearLimit},
		{"500.01", StatusOverBudget},
	}
	for _, tc := range cases {
		e := EvaluateAmounts(d("500"), d(tc.spent))
		assert.Equal(t, tc.want, e.Status, tc.spent)
	}
}

func TestEvaluate_ZeroLimit(t *testing.T) {
	for _, spent := range []string{"0", "10", "99999"} {
		e := EvaluateAmounts(decimal.Zero, d(spent))
		assert.Equal(t, 0.0, e.Percentage)
		assert.Equal(t, StatusOnTrack, e.Status)
		assert.True(t, d(spent).Neg().Equal(e.Remaining))
	}
}

func TestEvaluate_StatusMatchesPercentageAndRemaining(t *testing.T) {
	limit := d("250")
	for spent := 0; spent <= 400; spent += 7 {
		e := EvaluateAmounts(limit, decimal.NewFromInt(int64(spent)))
		over := e.Percentage > 100
		near := e.Percentage > 80 && e.Percentage <= 100
		assert.Equal(t, over, e.Status == StatusOverBudget, spent)
		assert.Equal(t, near, e.Status == StatusNearLimit, spent)
		assert.Equal(t, !over && !near, e.Status == StatusOnTrack, spent)
		assert.Equal(t, over, e.Overspent(), spent)
	}

	// 高精度金额：超出额度极小时使用率显示为 100，状态仍以剩余额度为准
	cases := []struct {
		limit, spent string
		want         Status
	}{
		{"1000000000", "1000000000.00000001", StatusOverBudget},
		{"1000000000", "1000000000", StatusNearLimit},
		{"1000000000", "800000000.00000001", StatusNearLimit},
		{"1000000000", "800000000", StatusOnTrack},
		{"3", "2.4000000000000000001", StatusNearLimit},
	}
	for _, tc := range cases {
		e := EvaluateAmounts(d(tc.limit), d(tc.spent))
		assert.Equal(t, tc.want, e.Status, tc.spent)
		assert.Equal(t, e.Remaining.IsNegative(), e.Status == StatusOverBudget, tc.spent)
	}
}

func sampleTransactions() []models.Transaction {
	return []models.Transaction{
		{ID: 1, Type: models.TypeExpense, CategoryID: 1, Amount: d("100"), Date: day(2024, time.March, 1)},
		{ID: 2, Type: models.TypeExpense, CategoryID: 1, Amount: d("50.5"), Date: day(2024, time.March, 31)},
		{ID: 3, Type: models.TypeExpense, CategoryID: 1, Amount: d("70"), Date: day(2024, time.April, 1)},
		{ID: 4, Type: models.TypeIncome, CategoryID: 1, Amount: d("999"), Date: day(2024, time.March, 10)},
		{ID: 5, Type: models.TypeExpense, CategoryID: 2, Amount: d("20"), Date: day(2024, time.March, 10)},
		{ID: 6, Type: models.TypeExpense, CategoryID: 1, Amount: d("5"), Date: day(2023, time.March, 10)},
		{ID: 7, Type: models.TypeExpense, CategoryID: 42, Amount: d("8"), Date: day(2024, time.March, 2)},
	}
}

func TestSpentFor(t *testing.T) {
	b := models.Budget{CategoryID: 1, Month: "March", Year: 2024}
	assert.True(t, d("150.5").Equal(SpentFor(b, sampleTransactions())))

	b.Month = "garbage"
	assert.True(t, SpentFor(b, sampleTransactions()).IsZero())
}

func TestRecompute(t *testing.T) {
	b := models.Budget{ID: 9, CategoryID: 2, Month: "March", Year: 2024, Spent: d("1")}
	got := Recompute(b, sampleTransactions())
	assert.True(t, d("20").Equal(got.Spent))
	assert.Equal(t, 9, got.ID)
	assert.True(t, d("1").Equal(b.Spent))
}

func TestOverview(t *testing.T) {
	cats := []models.Category{
		{ID: 1, Name: "Food", Type: models.TypeExpense},
		{ID: 2, Name: "Rent", Type: models.TypeExpense},
	}
	budgets := []models.Budget{
		{ID: 1, CategoryID: 1, Limit: d("160"), Spent: d("150.5"), Month: "March", Year: 2024},
		{ID: 2, CategoryID: 99, Limit: d("100"), Spent: d("0"), Month: "March", Year: 2024},
		{ID: 3, CategoryName: "rent", Title: "Housing", Limit: d("10"), Spent: d("0"), Month: "March", Year: 2024},
	}

	views := Overview(budgets, cats, sampleTransactions())
	require.Len(t, views, 3)

	assert.Equal(t, "Food", views[0].Category)
	assert.Equal(t, "Food Budget", views[0].Label)
	assert.False(t, views[0].Diverged)
	assert.Equal(t, StatusNearLimit, views[0].Status)

	// 类别已删除
	assert.Equal(t, models.UnknownCategoryLabel, views[1].Category)
	assert.True(t, views[1].Spent.IsZero())

	// 旧记录按名称匹配类别
	assert.Equal(t, 2, views[2].Budget.CategoryID)
	assert.Equal(t, "Housing", views[2].Label)
	assert.True(t, d("20").Equal(views[2].Spent))
	assert.True(t, views[2].Diverged)
	assert.Equal(t, StatusOverBudget, views[2].Status)
}

func TestCategoryTotals(t *testing.T) {
	cats := []models.Category{
		{ID: 2, Name: "Rent", Type: models.TypeExpense, Color: "#111"},
		{ID: 1, Name: "Food", Type: models.TypeExpense},
		{ID: 3, Name: "Salary", Type: models.TypeIncome},
		{ID: 4, Name: "Travel", Type: models.TypeExpense},
	}

	r := CategoryTotals(cats, sampleTransactions(), models.TypeExpense, Period{Year: 2024, Month: time.March})
	assert.Equal(t, "March", r.Month)
	assert.Equal(t, 4, r.Count)
	assert.True(t, d("178.5").Equal(r.Total))
	require.Len(t, r.Rows, 3)

	// 录入顺序：Rent、Food，最后是未知类别
	assert.Equal(t, "Rent", r.Rows[0].Label)
	assert.Equal(t, "#111", r.Rows[0].Color)
	assert.Equal(t, "Food", r.Rows[1].Label)
	assert.True(t, d("150.5").Equal(r.Rows[1].Total))
	assert.Equal(t, models.UnknownCategoryLabel, r.Rows[2].Label)
	assert.Equal(t, 1, r.Rows[2].Count)

	sum := 0.0
	for _, row := range r.Rows {
		sum += row.Percentage
	}
	assert.InDelta(t, 100.0, sum, 1e-6)

	all := CategoryTotals(cats, sampleTransactions(), models.TypeExpense, Period{})
	assert.Equal(t, 6, all.Count)
	assert.Empty(t, all.Month)

	none := CategoryTotals(cats, nil, models.TypeIncome, Period{Year: 2024})
	assert.NotNil(t, none.Rows)
	assert.Empty(t, none.Rows)
	assert.Equal(t, 0.0, func() float64 { f, _ := none.Total.Float64(); return f }())
}
