// Package catfilter 按收支类型筛选类别，供下拉选择和报表使用。
package catfilter

import (
	"sort"
	"strings"

	"budgetbook/models"
)

// Order 结果排序方式
type Order string

const (
	// OrderByName 按名称升序（忽略大小写，稳定排序）
	OrderByName Order = "name"
	// OrderInsertion 保持输入顺序
	OrderInsertion Order = "insertion"
)

// ParseOrder 解析排序参数，未知值按名称排序
func ParseOrder(s string) Order {
	if Order(strings.ToLower(strings.TrimSpace(s))) == OrderInsertion {
		return OrderInsertion
	}
	return OrderByName
}

// Option 下拉选项
type Option struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

// FilterByType 返回类型匹配的类别选项，不修改输入，无匹配时返回空切片
func FilterByType(categories []models.Category, t models.EntryType, order Order) []Option {
	matched := Matching(categories, t, order)
	options := make([]Option, 0, len(matched))
	for _, c := range matched {
		options = append(options, Option{ID: c.ID, Label: c.Name})
	}
	return options
}

// Matching 返回类型匹配的类别副本
func Matching(categories []models.Category, t models.EntryType, order Order) []models.Category {
	out := make([]models.Category, 0, len(categories))
	for _, c := range categories {
		if c.Type == t {
			out = append(out, c)
		}
	}
	if order != OrderInsertion {
		SortByName(out)
	}
	return out
}

// SortByName 原地按名称排序（忽略大小写）
func SortByName(categories []models.Category) {
	sort.SliceStable(categories, func(i, j int) bool {
		return strings.ToLower(categories[i].Name) < strings.ToLower(categories[j].Name)
	})
}

// Search 名称包含 term 的类别（忽略大小写），term 为空时返回全部
func Search(categories []models.Category, term string) []models.Category {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]models.Category, 0, len(categories))
	for _, c := range categories {
		if term == "" || strings.Contains(strings.ToLower(c.Name), term) {
			out = append(out, c)
		}
	}
	return out
}

// Stats 类别数量统计
type Stats struct {
	Total   int `json:"total"`
	Income  int `json:"income"`
	Expense int `json:"expense"`
}

func Counts(categories []models.Category) Stats {
	s := Stats{Total: len(categories)}
	for _, c := range categories {
		switch c.Type {
		case models.TypeIncome:
			s.Income++
		case models.TypeExpense:
			s.Expense++
		}
	}
	return s
}

// Label 按 ID 在索引中查找类别名称，找不到时返回 UnknownCategoryLabel
func Label(idx map[int]models.Category, id int) string {
	if c, ok := idx[id]; ok {
		return c.Name
	}
	return models.UnknownCategoryLabel
}

// Index 构建 ID 到类别的索引
func Index(categories []models.Category) map[int]models.Category {
	idx := make(map[int]models.Category, len(categories))
	for _, c := range categories {
		idx[c.ID] = c
	}
	return idx
}
