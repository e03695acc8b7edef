package models

import "github.com/shopspring/decimal"

// Ticker is an ephemeral price snapshot, constructed fresh per call.
type Ticker struct {
	Symbol     string
	Last       decimal.Decimal
	Bid        decimal.Decimal
	Ask        decimal.Decimal
	High       decimal.Decimal
	Low        decimal.Decimal
	BaseVolume decimal.Decimal
	Timestamp  int64
	Info       map[string]interface{}
}

// Candle is one OHLCV bar. Timestamp is epoch milliseconds of the open.
type Candle struct {
	Timestamp int64
	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Close     decimal.Decimal
	Volume    decimal.Decimal
}
