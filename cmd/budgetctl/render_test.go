package main

import (
	"bytes"
	"testing"
	"time"

	"budgetbook/budgeting"
	"budgetbook/catfilter"
	"budgetbook/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	p, err := parsePeriod("", 0)
	require.NoError(t, err)
	assert.Equal(t, budgeting.Period{}, p)

	p, err = parsePeriod("mar", 2024)
	require.NoError(t, err)
	assert.Equal(t, budgeting.Period{Year: 2024, Month: time.March}, p)

	_, err = parsePeriod("Smarch", 2024)
	assert.Error(t, err)
}

func TestRenderBudgets(t *testing.T) {
	b := models.Budget{ID: 3, CategoryID: 1, Limit: decimal.NewFromInt(500), Spent: decimal.NewFromInt(20), Month: "March", Year: 2024}
	views := budgeting.Overview(
		[]models.Budget{b},
		[]models.Category{{ID: 1, Name: "餐饮", Type: models.TypeExpense}},
		[]models.Transaction{{ID: 1, Type: models.TypeExpense, CategoryID: 1, Amount: decimal.NewFromInt(450), Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)}},
	)

	var buf bytes.Buffer
	renderBudgets(&buf, views)
	out := buf.String()
	assert.Contains(t, out, "餐饮 Budget")
	assert.Contains(t, out, "March 2024")
	assert.Contains(t, out, "450.00*")
	assert.Contains(t, out, "90.0%")
	assert.Contains(t, out, string(budgeting.StatusNearLimit))

	buf.Reset()
	renderBudgets(&buf, nil)
	assert.Contains(t, buf.String(), "没有预算")
}

func TestRenderOptions(t *testing.T) {
	var buf bytes.Buffer
	renderOptions(&buf, []catfilter.Option{{ID: 9, Label: "工资"}})
	assert.Contains(t, buf.String(), "工资")

	buf.Reset()
	renderOptions(&buf, nil)
	assert.Contains(t, buf.String(), "没有匹配的类别")
}
