package models

import "github.com/shopspring/decimal"

// Market describes one tradable perpetual. The index built from these is
// replaced wholesale on every markets fetch, never merged.
type Market struct {
	ID              string
	Symbol          string
	Base            string
	Quote           string
	TickSize        decimal.Decimal
	MinOrderQty     decimal.Decimal
	QtyStepSize     decimal.Decimal
	MaxLeverage     int
	AmountPrecision int
	MinCost         decimal.Decimal
	Info            map[string]interface{}
}
