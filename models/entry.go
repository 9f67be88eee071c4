package models

import (
	"strings"
	"time"
)

// EntryType 收支类型，交易和类别共用
type EntryType string

const (
	TypeIncome  EntryType = "income"
	TypeExpense EntryType = "expense"
)

// Valid 是否为合法的收支类型
func (t EntryType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// ParseEntryType 宽松解析收支类型（忽略大小写和首尾空格）
func ParseEntryType(s string) (EntryType, bool) {
	t := EntryType(strings.ToLower(strings.TrimSpace(s)))
	return t, t.Valid()
}

// UnknownCategoryLabel 引用的类别不存在时展示的名称
const UnknownCategoryLabel = "Unknown category"

// DateLayout 日期字段的标准格式
const DateLayout = "2006-01-02"

var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseDate 解析日期并截断为 UTC 零点
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return TruncateDate(t), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// TruncateDate 保留日历日期，时区统一为 UTC
func TruncateDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
