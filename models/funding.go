package models

import "github.com/shopspring/decimal"

// FundingRate snapshot from the market summary. Funding settles hourly;
// FundingTimestamp is the next full hour in epoch milliseconds.
type FundingRate struct {
	Symbol           string
	Rate             decimal.Decimal
	Interval         string
	FundingTimestamp int64
	Info             map[string]interface{}
}
