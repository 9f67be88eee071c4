package models

import "github.com/shopspring/decimal"

// AmountPlaces 金额列的小数位数，对应 decimal(12,2)
const AmountPlaces = 2

// checkAmount 金额不能为负，小数不超过 AmountPlaces 位（尾随 0 不计）
func checkAmount(field, label string, d decimal.Decimal) error {
	if d.IsNegative() {
		return NewValidationError(field, label+"不能为负数")
	}
	if !d.Equal(d.Round(AmountPlaces)) {
		return NewValidationError(field, label+"最多两位小数")
	}
	return nil
}
