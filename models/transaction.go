package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction 收支记录
type Transaction struct {
	ID           int             `json:"id"`
	Title        string          `json:"title"`
	Amount       decimal.Decimal `json:"amount" swaggertype:"number"`
	Type         EntryType       `json:"type"`
	CategoryID   int             `json:"categoryId"`
	CategoryName string          `json:"categoryName,omitempty"`
	Description  string          `json:"description"`
	Date         time.Time       `json:"date"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// DisplayName 存储层 Name 字段：标题，其次描述
func (t Transaction) DisplayName() string {
	if t.Title != "" {
		return t.Title
	}
	if t.Description != "" {
		return t.Description
	}
	return "Transaction"
}

// TransactionDraft 未校验的交易输入
// Amount 和 Date 保留原始文本，用于区分缺失与零值
type TransactionDraft struct {
	Title       string `json:"title"`
	Amount      string `json:"amount"`
	Type        string `json:"type"`
	CategoryID  int    `json:"categoryId"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

// Validate 本地校验，不访问存储。类型缺省为 expense
func (d TransactionDraft) Validate() (Transaction, error) {
	var tx Transaction

	tx.Title = strings.TrimSpace(d.Title)
	if tx.Title == "" {
		return tx, NewValidationError("title", "标题不能为空")
	}

	raw := strings.TrimSpace(d.Amount)
	if raw == "" {
		return tx, NewValidationError("amount", "金额不能为空")
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return tx, NewValidationError("amount", "金额格式错误")
	}
	if err := checkAmount("amount", "金额", amount); err != nil {
		return tx, err
	}
	tx.Amount = amount

	if strings.TrimSpace(d.Type) == "" {
		tx.Type = TypeExpense
	} else {
		t, ok := ParseEntryType(d.Type)
		if !ok {
			return tx, NewValidationError("type", "类型必须为 income 或 expense")
		}
		tx.Type = t
	}

	if d.CategoryID <= 0 {
		return tx, NewValidationError("category", "请选择类别")
	}
	tx.CategoryID = d.CategoryID

	tx.Description = strings.TrimSpace(d.Description)
	if tx.Description == "" {
		return tx, NewValidationError("description", "描述不能为空")
	}

	if strings.TrimSpace(d.Date) == "" {
		return tx, NewValidationError("date", "日期不能为空")
	}
	date, err := ParseDate(d.Date)
	if err != nil {
		return tx, NewValidationError("date", "日期格式错误，应为: 2006-01-02")
	}
	tx.Date = date

	return tx, nil
}
