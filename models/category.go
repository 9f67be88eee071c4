package models

import "strings"

// DefaultCategoryColor 未指定颜色时使用的灰色
const DefaultCategoryColor = "#64748b"

// Category 收支类别
type Category struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Type      EntryType `json:"type"`
	Color     string    `json:"color"`
	IsDefault bool      `json:"isDefault"`
}

// Validate 校验名称和类型，并补全颜色
func (c *Category) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return NewValidationError("name", "名称不能为空")
	}
	if !c.Type.Valid() {
		return NewValidationError("type", "类型必须为 income 或 expense")
	}
	if strings.TrimSpace(c.Color) == "" {
		c.Color = DefaultCategoryColor
	}
	return nil
}

// DefaultCategory 首次启动时写入的默认类别
type DefaultCategory struct {
	Name  string
	Type  EntryType
	Color string
}

// DefaultCategories 默认类别（与前端 CSS 颜色保持一致）
func DefaultCategories() []DefaultCategory {
	return []DefaultCategory{
		{"餐饮", TypeExpense, "#ef4444"},
		{"交通", TypeExpense, "#3b82f6"},
		{"购物", TypeExpense, "#a855f7"},
		{"娱乐", TypeExpense, "#ec4899"},
		{"医疗", TypeExpense, "#10b981"},
		{"教育", TypeExpense, "#f59e0b"},
		{"住房", TypeExpense, "#14b8a6"},
		{"其他", TypeExpense, "#64748b"},
		{"工资", TypeIncome, "#10b981"},
		{"奖金", TypeIncome, "#3b82f6"},
		{"理财", TypeIncome, "#a855f7"},
		{"兼职", TypeIncome, "#f59e0b"},
		{"其他收入", TypeIncome, "#64748b"},
	}
}
