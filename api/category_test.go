package api

import (
	"fmt"
	"net/http"
	"testing"

	"budgetbook/catfilter"
	"budgetbook/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryHandler_ListAndStats(t *testing.T) {
	env := newMemoryEnv(t)

	w := env.do("GET", "/categories", "")
	assert.Equal(t, 200, w.Code)
	var list []models.Category
	decode(t, w, &list)
	assert.Len(t, list, 13)

	w = env.do("GET", "/categories?name=收入", "")
	decode(t, w, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "其他收入", list[0].Name)

	var stats catfilter.Stats
	decode(t, env.do("GET", "/categories/stats", ""), &stats)
	assert.Equal(t, catfilter.Stats{Total: 13, Income: 5, Expense: 8}, stats)
}

func TestCategoryHandler_Options(t *testing.T) {
	env := newMemoryEnv(t)

	var opts []catfilter.Option
	w := env.do("GET", "/categories/options?type=income&order=insertion", "")
	assert.Equal(t, 200, w.Code)
	decode(t, w, &opts)
	require.Len(t, opts, 5)
	assert.Equal(t, "工资", opts[0].Label)

	w = env.do("GET", "/categories/options?type=other", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCategoryHandler_CreateUpdateDelete(t *testing.T) {
	env := newMemoryEnv(t)

	w := env.do("POST", "/categories", `{"name":"宠物","type":"expense"}`)
	assert.Equal(t, 200, w.Code)
	var cat models.Category
	resp := decode(t, w, &cat)
	assert.Equal(t, "创建成功", resp.Message)
	assert.Equal(t, models.DefaultCategoryColor, cat.Color)
	assert.False(t, cat.IsDefault)

	w = env.do("POST", "/categories", `{"name":"宠物","type":"transfer"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do("PUT", fmt.Sprintf("/categories/%d", cat.ID), `{"name":"宠物用品","type":"expense","color":"#123456"}`)
	assert.Equal(t, 200, w.Code)
	decode(t, w, &cat)
	assert.Equal(t, "宠物用品", cat.Name)

	w = env.do("DELETE", fmt.Sprintf("/categories/%d", cat.ID), "")
	assert.Equal(t, 200, w.Code)

	w = env.do("DELETE", fmt.Sprintf("/categories/%d", cat.ID), "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do("DELETE", "/categories/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCategoryHandler_DeleteDefaultForbidden(t *testing.T) {
	env := newMemoryEnv(t)
	id := env.categoryID(t, "餐饮")

	w := env.do("DELETE", fmt.Sprintf("/categories/%d", id), "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	resp := decode(t, w, nil)
	assert.Contains(t, resp.Message, "餐饮")

	// 仍然存在
	w = env.do("GET", "/categories", "")
	var list []models.Category
	decode(t, w, &list)
	assert.Len(t, list, 13)
}

func TestCategoryHandler_DeleteNotFound_GormStore(t *testing.T) {
	st, mock := setupMockDB(t)
	env := newTestEnv(t, st)

	mock.ExpectQuery("SELECT .* FROM `category_c`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := env.do("DELETE", "/categories/42", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
