package catfilter

import (
	"testing"

	"budgetbook/models"

	"github.com/stretchr/testify/assert"
)

func sampleCategories() []models.Category {
	return []models.Category{
		{ID: 1, Name: "salary", Type: models.TypeIncome},
		{ID: 2, Name: "Rent", Type: models.TypeExpense},
		{ID: 3, Name: "food", Type: models.TypeExpense},
		{ID: 4, Name: "Bonus", Type: models.TypeIncome},
		{ID: 5, Name: "Food", Type: models.TypeExpense},
	}
}

func TestFilterByType_ByName(t *testing.T) {
	cats := sampleCategories()
	before := append([]models.Category(nil), cats...)

	got := FilterByType(cats, models.TypeExpense, OrderByName)
	assert.Equal(t, []Option{
		{ID: 3, Label: "food"},
		{ID: 5, Label: "Food"},
		{ID: 2, Label: "Rent"},
	}, got)

	// 输入未被修改
	assert.Equal(t, before, cats)
}

func TestFilterByType_Insertion(t *testing.T) {
	got := FilterByType(sampleCategories(), models.TypeIncome, OrderInsertion)
	assert.Equal(t, []Option{{ID: 1, Label: "salary"}, {ID: 4, Label: "Bonus"}}, got)
}

func TestFilterByType_Exact(t *testing.T) {
	cats := sampleCategories()
	for _, typ := range []models.EntryType{models.TypeIncome, models.TypeExpense} {
		got := FilterByType(cats, typ, OrderByName)
		want := 0
		idx := Index(cats)
		for _, c := range cats {
			if c.Type == typ {
				want++
			}
		}
		assert.Len(t, got, want)
		for _, o := range got {
			assert.Equal(t, typ, idx[o.ID].Type)
		}
	}
}

func TestFilterByType_Empty(t *testing.T) {
	got := FilterByType([]models.Category{{ID: 1, Name: "x", Type: models.TypeExpense}}, models.TypeIncome, OrderByName)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	assert.Empty(t, FilterByType(nil, models.TypeIncome, OrderInsertion))
}

func TestSearchCountsLabel(t *testing.T) {
	cats := sampleCategories()

	found := Search(cats, "FOO")
	assert.Len(t, found, 2)
	assert.Len(t, Search(cats, ""), len(cats))

	assert.Equal(t, Stats{Total: 5, Income: 2, Expense: 3}, Counts(cats))

	assert.Equal(t, "Rent", Label(Index(cats), 2))
	assert.Equal(t, models.UnknownCategoryLabel, Label(Index(cats), 99))
}

func TestParseOrder(t *testing.T) {
	assert.Equal(t, OrderInsertion, ParseOrder("Insertion"))
	assert.Equal(t, OrderByName, ParseOrder(""))
	assert.Equal(t, OrderByName, ParseOrder("random"))
}
