package normalize

import (
	"fmt"
	"time"

	"budgetbook/models"
)

// 以下函数将领域模型写回只含规范字段的记录。
// 写入用的记录中引用字段为裸 ID；Canonical 生成的读取形态保留 {Id, Name}。

func dateValue(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(models.DateLayout)
}

func timeValue(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func refValue(id int, name string, embed bool) any {
	if id <= 0 {
		if embed && name != "" {
			return map[string]any{"Name": name}
		}
		return nil
	}
	if embed && name != "" {
		return map[string]any{"Id": id, "Name": name}
	}
	return id
}

func withID(rec map[string]any, id int) map[string]any {
	if id > 0 {
		rec["Id"] = id
	}
	return rec
}

// TransactionRecord 交易写入记录，Name 取标题
func TransactionRecord(t models.Transaction) map[string]any {
	return transactionRecord(t, false)
}

func transactionRecord(t models.Transaction, embed bool) map[string]any {
	return withID(map[string]any{
		"Name":          t.DisplayName(),
		"title_c":       t.Title,
		"amount_c":      t.Amount,
		"type_c":        string(t.Type),
		"category_c":    refValue(t.CategoryID, t.CategoryName, embed),
		"description_c": t.Description,
		"date_c":        dateValue(t.Date),
		"created_at_c":  timeValue(t.CreatedAt),
	}, t.ID)
}

// TransactionUpdateRecord 更新用记录，不包含 created_at_c
func TransactionUpdateRecord(t models.Transaction) map[string]any {
	rec := TransactionRecord(t)
	delete(rec, "created_at_c")
	return rec
}

func CategoryRecord(c models.Category) map[string]any {
	return withID(map[string]any{
		"Name":         c.Name,
		"name_c":       c.Name,
		"type_c":       string(c.Type),
		"color_c":      c.Color,
		"is_default_c": c.IsDefault,
	}, c.ID)
}

// BudgetRecord 预算写入记录，没有标题时 Name 为「<类别> Budget」
func BudgetRecord(b models.Budget) map[string]any {
	return budgetRecord(b, false)
}

func budgetRecord(b models.Budget, embed bool) map[string]any {
	return withID(map[string]any{
		"Name":       BudgetLabel(b),
		"title_c":    b.Title,
		"category_c": refValue(b.CategoryID, b.CategoryName, embed),
		"limit_c":    b.Limit,
		"spent_c":    b.Spent,
		"month_c":    b.Month,
		"year_c":     b.Year,
	}, b.ID)
}

// BudgetLabel 预算的展示名
func BudgetLabel(b models.Budget) string {
	if b.Title != "" {
		return b.Title
	}
	if b.CategoryName != "" {
		return b.CategoryName + " Budget"
	}
	return fmt.Sprintf("%s %d Budget", b.Month, b.Year)
}

func GoalRecord(g models.Goal) map[string]any {
	return withID(map[string]any{
		"Name":             g.Name,
		"name_c":           g.Name,
		"target_amount_c":  g.TargetAmount,
		"current_amount_c": g.CurrentAmount,
		"target_date_c":    dateValue(g.TargetDate),
		"created_at_c":     timeValue(g.CreatedAt),
	}, g.ID)
}

// GoalUpdateRecord 更新用记录，不包含 created_at_c
func GoalUpdateRecord(g models.Goal) map[string]any {
	rec := GoalRecord(g)
	delete(rec, "created_at_c")
	return rec
}

func ProfileRecord(p models.Profile) map[string]any {
	return withID(map[string]any{
		"Name":       p.Name,
		"name_c":     p.Name,
		"avatar_c":   p.Avatar,
		"website_c":  p.Website,
		"bio_c":      p.Bio,
		"email_id_c": p.Email,
	}, p.ID)
}

// Canonical 返回规范化后的读取形态记录，对其再次调用结果不变
func Canonical(kind Kind, raw map[string]any) (map[string]any, error) {
	switch kind {
	case KindTransaction:
		return transactionRecord(Transaction(raw), true), nil
	case KindCategory:
		return CategoryRecord(Category(raw)), nil
	case KindBudget:
		return budgetRecord(Budget(raw), true), nil
	case KindGoal:
		return GoalRecord(Goal(raw)), nil
	case KindProfile:
		return ProfileRecord(Profile(raw)), nil
	default:
		return nil, fmt.Errorf("未知的实体类型: %s", kind)
	}
}
