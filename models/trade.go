package models

import "github.com/shopspring/decimal"

// Trade is a terminal execution record.
type Trade struct {
	ID        string
	Symbol    string
	Side      OrderSide
	Price     decimal.Decimal
	Amount    decimal.Decimal
	Timestamp int64
	Info      map[string]interface{}
}
