package models

import "github.com/shopspring/decimal"

type PriceLevel struct {
	Price  decimal.Decimal
	Amount decimal.Decimal
}

// OrderBook is part of the generic client surface; the Reya adapter does not
// support depth snapshots and always fails the fetch.
type OrderBook struct {
	Symbol    string
	Bids      []PriceLevel
	Asks      []PriceLevel
	Timestamp int64
}
