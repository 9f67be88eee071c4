// Package normalize 将新旧两套字段命名的原始记录统一为领域模型。
// 规范字段（*_c）优先，其次旧字段名；缺失或无法解析的值取零值，不返回错误。
package normalize

import (
	"fmt"
	"strings"

	"budgetbook/models"
)

// Kind 实体类型，与存储表名一致
type Kind string

const (
	KindTransaction Kind = "transaction"
	KindCategory    Kind = "category"
	KindBudget      Kind = "budget"
	KindGoal        Kind = "goal"
	KindProfile     Kind = "profile"
)

// Kinds 全部实体类型
func Kinds() []Kind {
	return []Kind{KindTransaction, KindCategory, KindBudget, KindGoal, KindProfile}
}

// Normalize 按实体类型规范化原始记录
func Normalize(kind Kind, raw map[string]any) (any, error) {
	switch kind {
	case KindTransaction:
		return Transaction(raw), nil
	case KindCategory:
		return Category(raw), nil
	case KindBudget:
		return Budget(raw), nil
	case KindGoal:
		return Goal(raw), nil
	case KindProfile:
		return Profile(raw), nil
	default:
		return nil, fmt.Errorf("未知的实体类型: %s", kind)
	}
}

func recordID(raw map[string]any) int {
	v, _ := pick(raw, "Id", "id", "ID")
	return Int(v)
}

func str(raw map[string]any, keys ...string) string {
	v, _ := pick(raw, keys...)
	return String(v)
}

// Transaction 规范化交易记录
func Transaction(raw map[string]any) models.Transaction {
	tx := models.Transaction{
		ID:          recordID(raw),
		Title:       str(raw, "title_c", "title"),
		Type:        models.EntryType(strings.ToLower(str(raw, "type_c", "type"))),
		Description: str(raw, "description_c", "description"),
	}
	if v, ok := pick(raw, "amount_c", "amount"); ok {
		tx.Amount = Decimal(v)
	}
	if v, ok := pick(raw, "category_c", "category", "categoryId", "category_id"); ok {
		tx.CategoryID = RefID(v)
		tx.CategoryName = RefName(v)
	}
	if v, ok := pick(raw, "date_c", "date"); ok {
		tx.Date = Date(v)
	}
	if v, ok := pick(raw, "created_at_c", "createdAt", "created_at", "CreatedOn"); ok {
		tx.CreatedAt = Time(v)
	}
	return tx
}

// TransactionDraft 从请求体构造未校验的交易输入，保留金额和日期的原始文本
func TransactionDraft(raw map[string]any) models.TransactionDraft {
	d := models.TransactionDraft{
		Title:       str(raw, "title_c", "title"),
		Type:        str(raw, "type_c", "type"),
		Description: str(raw, "description_c", "description"),
	}
	if v, ok := pick(raw, "amount_c", "amount"); ok {
		d.Amount = String(v)
	}
	if v, ok := pick(raw, "category_c", "category", "categoryId", "category_id"); ok {
		d.CategoryID = RefID(v)
	}
	if v, ok := pick(raw, "date_c", "date"); ok {
		if t := Date(v); !t.IsZero() {
			d.Date = t.Format(models.DateLayout)
		} else {
			d.Date = String(v)
		}
	}
	return d
}

// Category 规范化类别记录
func Category(raw map[string]any) models.Category {
	c := models.Category{
		ID:    recordID(raw),
		Name:  str(raw, "name_c", "Name", "name"),
		Type:  models.EntryType(strings.ToLower(str(raw, "type_c", "type"))),
		Color: str(raw, "color_c", "color"),
	}
	if v, ok := pick(raw, "is_default_c", "isDefault", "is_default"); ok {
		c.IsDefault = Bool(v)
	}
	return c
}

// Budget 规范化预算记录，旧记录的 category 字段可能是类别名称
func Budget(raw map[string]any) models.Budget {
	b := models.Budget{
		ID:    recordID(raw),
		Title: str(raw, "title_c", "title"),
	}
	if v, ok := pick(raw, "category_c", "category", "categoryId", "category_id"); ok {
		b.CategoryID = RefID(v)
		b.CategoryName = RefName(v)
	}
	if v, ok := pick(raw, "limit_c", "limit"); ok {
		b.Limit = Decimal(v)
	}
	if v, ok := pick(raw, "spent_c", "spent"); ok {
		b.Spent = Decimal(v)
	}
	if v, ok := pick(raw, "month_c", "month"); ok {
		b.Month = Month(v)
	}
	if v, ok := pick(raw, "year_c", "year"); ok {
		b.Year = Int(v)
	}
	return b
}

// Goal 规范化储蓄目标记录
func Goal(raw map[string]any) models.Goal {
	g := models.Goal{
		ID:   recordID(raw),
		Name: str(raw, "name_c", "Name", "name"),
	}
	if v, ok := pick(raw, "target_amount_c", "targetAmount", "target_amount"); ok {
		g.TargetAmount = Decimal(v)
	}
	if v, ok := pick(raw, "current_amount_c", "currentAmount", "current_amount"); ok {
		g.CurrentAmount = Decimal(v)
	}
	if v, ok := pick(raw, "target_date_c", "targetDate", "target_date"); ok {
		g.TargetDate = Date(v)
	}
	if v, ok := pick(raw, "created_at_c", "createdAt", "created_at", "CreatedOn"); ok {
		g.CreatedAt = Time(v)
	}
	return g
}

// Profile 规范化用户资料记录
func Profile(raw map[string]any) models.Profile {
	return models.Profile{
		ID:      recordID(raw),
		Name:    str(raw, "name_c", "Name", "name"),
		Avatar:  str(raw, "avatar_c", "avatar"),
		Website: str(raw, "website_c", "website"),
		Bio:     str(raw, "bio_c", "bio"),
		Email:   str(raw, "email_id_c", "email", "emailId", "email_id"),
	}
}

// Transactions 批量规范化
func Transactions(raws []map[string]any) []models.Transaction {
	out := make([]models.Transaction, 0, len(raws))
	for _, r := range raws {
		out = append(out, Transaction(r))
	}
	return out
}

func Categories(raws []map[string]any) []models.Category {
	out := make([]models.Category, 0, len(raws))
	for _, r := range raws {
		out = append(out, Category(r))
	}
	return out
}

func Budgets(raws []map[string]any) []models.Budget {
	out := make([]models.Budget, 0, len(raws))
	for _, r := range raws {
		out = append(out, Budget(r))
	}
	return out
}

func Goals(raws []map[string]any) []models.Goal {
	out := make([]models.Goal, 0, len(raws))
	for _, r := range raws {
		out = append(out, Goal(r))
	}
	return out
}
