package models

import "github.com/shopspring/decimal"

// Balance partitions the RUSD collateral into free/used/total. Used is not
// reported by the venue; it is reconstructed from open-order notional divided
// by leverage and is a best-effort approximation across three separate
// requests, not a consistent read.
type Balance struct {
	Currency string
	Free     decimal.Decimal
	Used     decimal.Decimal
	Total    decimal.Decimal
	Info     map[string]interface{}
}

func NewBalance(currency string, total decimal.Decimal, used decimal.Decimal) *Balance {
	return &Balance{
		Currency: currency,
		Free:     total.Sub(used),
		Used:     used,
		Total:    total,
	}
}
