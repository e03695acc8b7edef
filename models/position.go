package models

import "github.com/shopspring/decimal"

// Position is a derived snapshot. UnrealizedPnl and LiquidationPrice are
// client-side approximations, not the venue's own risk numbers:
// pnl = size*(mark-entry) adjusted by negative funding, liquidation =
// entry*(1-1/leverage) without maintenance-margin mechanics.
type Position struct {
	Symbol           string
	Side             OrderSide
	Size             decimal.Decimal
	EntryPrice       decimal.Decimal
	MarkPrice        decimal.Decimal
	NotionalValue    decimal.Decimal
	UnrealizedPnl    decimal.Decimal
	FundingValue     decimal.Decimal
	Leverage         int
	LiquidationPrice decimal.Decimal
	TakeProfitPrice  decimal.Decimal
	StopLossPrice    decimal.Decimal
	Info             map[string]interface{}
}
