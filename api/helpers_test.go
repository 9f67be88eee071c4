package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"budgetbook/models"
	"budgetbook/service"
	"budgetbook/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setUserIDMiddleware(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("username", "tester")
		c.Set("email", "tester@example.com")
		c.Next()
	}
}

// setupMockDB gorm 存储，底层为 sqlmock
func setupMockDB(t *testing.T) (store.Store, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)
	return store.NewGormStore(gormDB), mock
}

type testEnv struct {
	store        store.Store
	router       *gin.Engine
	categories   *service.CategoryService
	transactions *service.TransactionService
	notifier     *countingNotifier
}

type countingNotifier struct {
	calls int
}

func (n *countingNotifier) Notify(context.Context, service.Notification) (service.NotifyResult, error) {
	n.calls++
	return service.NotifyResult{Success: true}, nil
}

// newTestEnv 注册全部接口，默认类别已写入
func newTestEnv(t *testing.T, st store.Store) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{store: st, notifier: &countingNotifier{}}
	env.categories = service.NewCategoryService(st, nil)
	profiles := service.NewProfileService(st, nil)
	env.transactions = service.NewTransactionService(st, profiles, env.notifier, nil)
	budgets := service.NewBudgetService(st, nil)
	goals := service.NewGoalService(st, nil)

	r := gin.New()
	r.Use(setUserIDMiddleware(1))

	ch := NewCategoryHandler(env.categories)
	r.GET("/categories", ch.List)
	r.GET("/categories/options", ch.Options)
	r.GET("/categories/stats", ch.Stats)
	r.POST("/categories", ch.Create)
	r.PUT("/categories/:id", ch.Update)
	r.DELETE("/categories/:id", ch.Delete)

	th := NewTransactionHandler(env.transactions)
	r.GET("/transactions", th.List)
	r.GET("/transactions/:id", th.Get)
	r.POST("/transactions", th.Create)
	r.PUT("/transactions/:id", th.Update)
	r.DELETE("/transactions/:id", th.Delete)
	r.POST("/transactions/batch-delete", th.BatchDelete)
	r.GET("/reports/summary", th.GetIncomeExpenseSummary)

	bh := NewBudgetHandler(budgets)
	r.GET("/budgets", bh.Overview)
	r.GET("/budgets/:id", bh.Get)
	r.POST("/budgets", bh.Create)
	r.PUT("/budgets/:id", bh.Update)
	r.DELETE("/budgets/:id", bh.Delete)
	r.POST("/budgets/reconcile", bh.Reconcile)
	r.GET("/reports/categories", bh.CategoryReport)

	gh := NewGoalHandler(goals)
	r.GET("/goals", gh.List)
	r.GET("/goals/:id", gh.Get)
	r.POST("/goals", gh.Create)
	r.PUT("/goals/:id", gh.Update)
	r.DELETE("/goals/:id", gh.Delete)

	ph := NewProfileHandler(profiles)
	r.GET("/profile", ph.Get)
	r.PUT("/profile", ph.Update)

	eh := NewExportHandler(env.transactions, env.categories)
	r.GET("/export/csv", eh.ExportCSV)
	r.GET("/export/json", eh.ExportJSON)
	r.GET("/export/excel", eh.ExportExcel)

	env.router = r
	return env
}

func newMemoryEnv(t *testing.T) *testEnv {
	t.Helper()
	env := newTestEnv(t, store.NewMemoryStore())
	_, err := env.categories.SeedDefaults(context.Background())
	require.NoError(t, err)
	return env
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var req = httptest.NewRequest(method, path, nil)
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

type testResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data any) testResponse {
	t.Helper()
	var resp testResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	if data != nil {
		require.NoError(t, json.Unmarshal(resp.Data, data))
	}
	return resp
}

// categoryID 按名称查找默认类别
func (e *testEnv) categoryID(t *testing.T, name string) int {
	t.Helper()
	list, err := e.categories.List(context.Background())
	require.NoError(t, err)
	for _, c := range list {
		if c.Name == name {
			return c.ID
		}
	}
	t.Fatalf("category %s not found", name)
	return 0
}

func (e *testEnv) addTransaction(t *testing.T, draft models.TransactionDraft) models.Transaction {
	t.Helper()
	res, err := e.transactions.Create(context.Background(), 1, draft)
	require.NoError(t, err)
	return res.Transaction
}
