package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Goal 储蓄目标，当前金额与目标金额之间不做约束
type Goal struct {
	ID            int             `json:"id"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"targetAmount" swaggertype:"number"`
	CurrentAmount decimal.Decimal `json:"currentAmount" swaggertype:"number"`
	TargetDate    time.Time       `json:"targetDate"`
	CreatedAt     time.Time       `json:"createdAt"`
}

func (g *Goal) Validate() error {
	g.Name = strings.TrimSpace(g.Name)
	if g.Name == "" {
		return NewValidationError("name", "目标名称不能为空")
	}
	if err := checkAmount("targetAmount", "目标金额", g.TargetAmount); err != nil {
		return err
	}
	if err := checkAmount("currentAmount", "当前金额", g.CurrentAmount); err != nil {
		return err
	}
	return nil
}

// Progress 完成百分比，目标金额为 0 时返回 0
func (g Goal) Progress() float64 {
	if !g.TargetAmount.IsPositive() {
		return 0
	}
	p, _ := g.CurrentAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100)).Float64()
	return p
}
