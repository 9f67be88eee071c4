package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// 以下为数据库表模型，列名与记录字段名一致（canonical *_c）

// TransactionRow 交易表
type TransactionRow struct {
	ID           int             `gorm:"primaryKey"`
	Name         string          `gorm:"size:255"`
	TitleC       string          `gorm:"column:title_c;size:255"`
	AmountC      decimal.Decimal `gorm:"column:amount_c;type:decimal(12,2);not null"`
	TypeC        string          `gorm:"column:type_c;size:16;index"`
	CategoryC    int             `gorm:"column:category_c;index"`
	DescriptionC string          `gorm:"column:description_c;size:255"`
	DateC        *time.Time      `gorm:"column:date_c;index"`
	CreatedAtC   *time.Time      `gorm:"column:created_at_c"`
}

func (TransactionRow) TableName() string {
	return "transaction_c"
}

// CategoryRow 类别表
type CategoryRow struct {
	ID         int    `gorm:"primaryKey"`
	Name       string `gorm:"size:255"`
	NameC      string `gorm:"column:name_c;size:50;not null"`
	TypeC      string `gorm:"column:type_c;size:16;index"`
	ColorC     string `gorm:"column:color_c;size:20;default:#64748b"`
	IsDefaultC bool   `gorm:"column:is_default_c;default:false"`
}

func (CategoryRow) TableName() string {
	return "category_c"
}

// BudgetRow 预算表
type BudgetRow struct {
	ID        int             `gorm:"primaryKey"`
	Name      string          `gorm:"size:255"`
	TitleC    string          `gorm:"column:title_c;size:255"`
	CategoryC int             `gorm:"column:category_c;index"`
	LimitC    decimal.Decimal `gorm:"column:limit_c;type:decimal(12,2);not null"`
	SpentC    decimal.Decimal `gorm:"column:spent_c;type:decimal(12,2);not null"`
	MonthC    string          `gorm:"column:month_c;size:16;index:idx_budget_period"`
	YearC     int             `gorm:"column:year_c;index:idx_budget_period"`
}

func (BudgetRow) TableName() string {
	return "budget_c"
}

// GoalRow 储蓄目标表
type GoalRow struct {
	ID             int             `gorm:"primaryKey"`
	Name           string          `gorm:"size:255"`
	NameC          string          `gorm:"column:name_c;size:255"`
	TargetAmountC  decimal.Decimal `gorm:"column:target_amount_c;type:decimal(12,2)"`
	CurrentAmountC decimal.Decimal `gorm:"column:current_amount_c;type:decimal(12,2)"`
	TargetDateC    *time.Time      `gorm:"column:target_date_c"`
	CreatedAtC     *time.Time      `gorm:"column:created_at_c"`
}

func (GoalRow) TableName() string {
	return "goal_c"
}

// ProfileRow 用户资料表，ID 由调用方指定
type ProfileRow struct {
	ID       int    `gorm:"primaryKey;autoIncrement:false"`
	Name     string `gorm:"size:255"`
	NameC    string `gorm:"column:name_c;size:255"`
	AvatarC  string `gorm:"column:avatar_c;size:512"`
	WebsiteC string `gorm:"column:website_c;size:255"`
	BioC     string `gorm:"column:bio_c;type:text"`
	EmailIDC string `gorm:"column:email_id_c;size:255"`
}

func (ProfileRow) TableName() string {
	return "profiles_c"
}
