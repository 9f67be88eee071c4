package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"budgetbook/models"
	"budgetbook/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionHandler_Create(t *testing.T) {
	env := newMemoryEnv(t)
	food := env.categoryID(t, "餐饮")

	// 首次访问资料时以令牌邮箱创建
	require.Equal(t, 200, env.do("GET", "/profile", "").Code)

	body := fmt.Sprintf(`{"title":"午餐","amount":35.5,"type":"expense","categoryId":%d,"description":"工作日午餐","date":"2024-03-15"}`, food)
	w := env.do("POST", "/transactions", body)
	assert.Equal(t, 200, w.Code)

	var result service.CreateResult
	resp := decode(t, w, &result)
	assert.Equal(t, "创建成功", resp.Message)
	assert.True(t, result.Notified)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, "餐饮", result.Transaction.CategoryName)
	assert.True(t, decimal.RequireFromString("35.5").Equal(result.Transaction.Amount))
	assert.Equal(t, 1, env.notifier.calls)
}

func TestTransactionHandler_Create_WarnsWithoutProfile(t *testing.T) {
	env := newMemoryEnv(t)
	food := env.categoryID(t, "餐饮")

	// 旧字段名同样可用
	body := fmt.Sprintf(`{"title_c":"晚餐","amount_c":"20","category_c":{"Id":%d},"description_c":"外卖","date_c":"2024-03-16"}`, food)
	w := env.do("POST", "/transactions", body)
	assert.Equal(t, 200, w.Code)

	var result service.CreateResult
	resp := decode(t, w, &result)
	assert.Equal(t, "创建成功，但通知未送达", resp.Message)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, models.NotificationSkipped, result.Warnings[0].Code)
	assert.Equal(t, models.TypeExpense, result.Transaction.Type)
	assert.Zero(t, env.notifier.calls)
}

func TestTransactionHandler_Create_Validation(t *testing.T) {
	env := newMemoryEnv(t)
	food := env.categoryID(t, "餐饮")
	salary := env.categoryID(t, "工资")

	cases := map[string]string{
		"empty title":     fmt.Sprintf(`{"title":"","amount":1,"categoryId":%d,"description":"x","date":"2024-03-15"}`, food),
		"negative amount": fmt.Sprintf(`{"title":"a","amount":-1,"categoryId":%d,"description":"x","date":"2024-03-15"}`, food),
		"sub-cent amount": fmt.Sprintf(`{"title":"a","amount":"12.345","categoryId":%d,"description":"x","date":"2024-03-15"}`, food),
		"bad date":        fmt.Sprintf(`{"title":"a","amount":1,"categoryId":%d,"description":"x","date":"15/03"}`, food),
		"type mismatch":   fmt.Sprintf(`{"title":"a","amount":1,"type":"expense","categoryId":%d,"description":"x","date":"2024-03-15"}`, salary),
		"no category":     `{"title":"a","amount":1,"description":"x","date":"2024-03-15"}`,
		"not json":        `{`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			w := env.do("POST", "/transactions", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	var page PageResponse
	decode(t, env.do("GET", "/transactions", ""), &page)
	assert.Equal(t, 0, page.Total)
}

func TestTransactionHandler_ListUpdateDelete(t *testing.T) {
	env := newMemoryEnv(t)
	food := env.categoryID(t, "餐饮")
	salary := env.categoryID(t, "工资")

	lunch := env.addTransaction(t, models.TransactionDraft{Title: "午餐", Amount: "30", Type: "expense", CategoryID: food, Description: "面", Date: "2024-03-01"})
	env.addTransaction(t, models.TransactionDraft{Title: "工资", Amount: "8000", Type: "income", CategoryID: salary, Description: "三月", Date: "2024-03-10"})

	w := env.do("GET", "/transactions?type=expense", "")
	assert.Equal(t, 200, w.Code)
	var page struct {
		Total int                  `json:"total"`
		List  []models.Transaction `json:"list"`
	}
	decode(t, w, &page)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, lunch.ID, page.List[0].ID)

	w = env.do("GET", "/transactions?page=2&page_size=1", "")
	decode(t, w, &page)
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.List, 1)
	assert.Equal(t, lunch.ID, page.List[0].ID)

	assert.Equal(t, http.StatusBadRequest, env.do("GET", "/transactions?start_time=2024/03/01", "").Code)

	body := fmt.Sprintf(`{"title":"午餐","amount":"45","categoryId":%d,"description":"面+饮料","date":"2024-03-01"}`, food)
	w = env.do("PUT", fmt.Sprintf("/transactions/%d", lunch.ID), body)
	assert.Equal(t, 200, w.Code)
	var updated models.Transaction
	decode(t, w, &updated)
	assert.True(t, decimal.NewFromInt(45).Equal(updated.Amount))
	assert.Equal(t, 0, env.notifier.calls)

	assert.Equal(t, http.StatusNotFound, env.do("PUT", "/transactions/999", body).Code)

	w = env.do("GET", fmt.Sprintf("/transactions/%d", lunch.ID), "")
	assert.Equal(t, 200, w.Code)

	w = env.do("DELETE", fmt.Sprintf("/transactions/%d", lunch.ID), "")
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, http.StatusNotFound, env.do("GET", fmt.Sprintf("/transactions/%d", lunch.ID), "").Code)
}

func TestTransactionHandler_BatchDelete(t *testing.T) {
	env := newMemoryEnv(t)
	food := env.categoryID(t, "餐饮")
	tx := env.addTransaction(t, models.TransactionDraft{Title: "a", Amount: "1", CategoryID: food, Description: "x", Date: "2024-03-01"})

	w := env.do("POST", "/transactions/batch-delete", fmt.Sprintf(`{"ids":[%d,77]}`, tx.ID))
	assert.Equal(t, 200, w.Code)
	var report service.DeleteReport
	decode(t, w, &report)
	assert.Equal(t, []int{tx.ID}, report.Deleted)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, 77, report.Failed[0].ID)

	assert.Equal(t, http.StatusBadRequest, env.do("POST", "/transactions/batch-delete", `{"ids":[]}`).Code)
}

func TestTransactionHandler_Summary(t *testing.T) {
	env := newMemoryEnv(t)
	food := env.categoryID(t, "餐饮")
	salary := env.categoryID(t, "工资")
	env.addTransaction(t, models.TransactionDraft{Title: "a", Amount: "100.5", CategoryID: food, Description: "x", Date: "2024-03-01"})
	env.addTransaction(t, models.TransactionDraft{Title: "b", Amount: "1000", Type: "income", CategoryID: salary, Description: "x", Date: "2024-03-02"})
	env.addTransaction(t, models.TransactionDraft{Title: "c", Amount: "50", CategoryID: food, Description: "x", Date: "2024-04-01"})

	var summary IncomeExpenseSummaryResponse
	w := env.do("GET", "/reports/summary?start_time=2024-03-01&end_time=2024-03-31", "")
	assert.Equal(t, 200, w.Code)
	decode(t, w, &summary)
	assert.True(t, decimal.RequireFromString("100.5").Equal(summary.TotalExpense))
	assert.True(t, decimal.NewFromInt(1000).Equal(summary.TotalIncome))
	assert.True(t, decimal.RequireFromString("899.5").Equal(summary.Balance))
}

func TestTransactionHandler_Create_StoreFailure(t *testing.T) {
	st, mock := setupMockDB(t)
	env := newTestEnv(t, st)

	mock.ExpectQuery("SELECT .* FROM `category_c`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "name_c", "type_c", "color_c", "is_default_c"}).
			AddRow(1, "餐饮", "餐饮", "expense", "#ef4444", true))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `transaction_c`").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	body := `{"title":"午餐","amount":"12","categoryId":1,"description":"面","date":"2024-03-15"}`
	w := env.do("POST", "/transactions", body)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decode(t, w, nil)
	assert.Contains(t, resp.Message, "disk full")
	assert.Zero(t, env.notifier.calls)
	require.NoError(t, mock.ExpectationsWereMet())
}
