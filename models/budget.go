package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Budget 某类别某月的支出预算
// Spent 为存储中的缓存值，实际支出以交易汇总为准
type Budget struct {
	ID           int             `json:"id"`
	Title        string          `json:"title"`
	CategoryID   int             `json:"categoryId"`
	CategoryName string          `json:"categoryName,omitempty"`
	Limit        decimal.Decimal `json:"limit" swaggertype:"number"`
	Spent        decimal.Decimal `json:"spent" swaggertype:"number"`
	Month        string          `json:"month"`
	Year         int             `json:"year"`
}

// Validate 校验预算字段，标题为空时不报错
func (b *Budget) Validate() error {
	b.Title = strings.TrimSpace(b.Title)
	if b.CategoryID <= 0 {
		return NewValidationError("category", "请选择类别")
	}
	if err := checkAmount("limit", "预算金额", b.Limit); err != nil {
		return err
	}
	if err := checkAmount("spent", "已支出金额", b.Spent); err != nil {
		return err
	}
	m, ok := ParseMonth(b.Month)
	if !ok {
		return NewValidationError("month", "月份无效")
	}
	b.Month = MonthName(m)
	if b.Year < 1000 || b.Year > 9999 {
		return NewValidationError("year", "年份必须为4位数字")
	}
	return nil
}

// Period 预算所属的年月
func (b Budget) Period() (int, time.Month, bool) {
	m, ok := ParseMonth(b.Month)
	return b.Year, m, ok
}

// MonthName 月份的英文全称
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return m.String()
}

// ParseMonth 解析英文月份名（忽略大小写，支持三字母缩写）或 1-12 的数字
func ParseMonth(s string) (time.Month, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 1 && n <= 12 {
			return time.Month(n), true
		}
		return 0, false
	}
	lower := strings.ToLower(s)
	for m := time.January; m <= time.December; m++ {
		name := strings.ToLower(m.String())
		if lower == name || lower == name[:3] {
			return m, true
		}
	}
	return 0, false
}

// MonthNames 十二个月份名，按日历顺序
func MonthNames() []string {
	names := make([]string, 0, 12)
	for m := time.January; m <= time.December; m++ {
		names = append(names, m.String())
	}
	return names
}
