package normalize

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"budgetbook/models"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// pick 按顺序返回第一个存在且非空的字段值
func pick(raw map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			continue
		}
		return v, true
	}
	return nil, false
}

// Has 任一字段存在且非空
func Has(raw map[string]any, keys ...string) bool {
	_, ok := pick(raw, keys...)
	return ok
}

// String 任意值转字符串，nil 返回空串
func String(v any) string {
	if v == nil {
		return ""
	}
	if d, ok := v.(decimal.Decimal); ok {
		return d.String()
	}
	return strings.TrimSpace(cast.ToString(v))
}

// Int 任意值转整数，无法解析时返回 0
func Int(v any) int {
	switch x := v.(type) {
	case nil:
		return 0
	case string:
		s := strings.TrimSpace(x)
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int(f)) {
			return int(f)
		}
		return 0
	case json.Number:
		return Int(x.String())
	case decimal.Decimal:
		return int(x.IntPart())
	case float64:
		if x != float64(int(x)) {
			return 0
		}
		return int(x)
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return 0
	}
	return n
}

// Decimal 任意值转金额，无法解析时返回 0
func Decimal(v any) decimal.Decimal {
	switch x := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return x
	case *decimal.Decimal:
		if x == nil {
			return decimal.Zero
		}
		return *x
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(x))
		if err != nil {
			return decimal.Zero
		}
		return d
	case json.Number:
		return Decimal(x.String())
	case float64:
		return decimal.NewFromFloat(x)
	case float32:
		return decimal.NewFromFloat32(x)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// Bool 任意值转布尔，无法解析时返回 false
func Bool(v any) bool {
	b, err := cast.ToBoolE(v)
	if err != nil {
		return false
	}
	return b
}

// Time 任意值转时间戳，保留时分秒
func Time(v any) time.Time {
	switch x := v.(type) {
	case nil:
		return time.Time{}
	case time.Time:
		return x
	case *time.Time:
		if x == nil {
			return time.Time{}
		}
		return *x
	case string:
		s := strings.TrimSpace(x)
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t
		}
		if t, err := cast.ToTimeE(s); err == nil {
			return t
		}
		return time.Time{}
	}
	t, err := cast.ToTimeE(v)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Date 任意值转日历日期（UTC 零点）
func Date(v any) time.Time {
	if s, ok := v.(string); ok {
		if t, err := models.ParseDate(s); err == nil {
			return t
		}
	}
	return models.TruncateDate(Time(v))
}

// RefID 从引用字段中取出 ID，支持 {Id, Name} 对象或裸 ID
func RefID(v any) int {
	switch x := v.(type) {
	case map[string]any:
		if id, ok := pick(x, "Id", "id", "ID"); ok {
			return Int(id)
		}
		return 0
	default:
		return Int(v)
	}
}

// RefName 从引用字段中取出展示名，裸 ID 没有名称
func RefName(v any) string {
	switch x := v.(type) {
	case map[string]any:
		if name, ok := pick(x, "Name", "name"); ok {
			return String(name)
		}
		return ""
	case string:
		s := strings.TrimSpace(x)
		if _, err := strconv.Atoi(s); err == nil {
			return ""
		}
		return s
	default:
		return ""
	}
}

// Month 规范化月份为英文全称，无法识别时原样保留
func Month(v any) string {
	s := String(v)
	if m, ok := models.ParseMonth(s); ok {
		return models.MonthName(m)
	}
	return s
}
