// Package reya holds the vendor core shared by the public and private
// clients: the endpoint tables for both API generations, the request
// builder, the signing capability and the response normalizer.
package reya

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// APIVersion selects the endpoint generation. The two generations differ in
// paths, field spellings and unit scaling; everything else is shared.
type APIVersion string

const (
	V1 APIVersion = "v1"
	V2 APIVersion = "v2"
)

type Domain string

const (
	DomainPublic  Domain = "public"
	DomainPrivate Domain = "private"
)

// Endpoint maps a logical operation onto the wire: HTTP verb, path template
// with {placeholder} tokens, and the rate-limit weight one call consumes.
type Endpoint struct {
	Method string
	Path   string
	Weight int
}

// Logical endpoint names, shared by both table generations.
const (
	EpMarkets         = "markets"
	EpPrices          = "prices"
	EpMarketSummary   = "marketSummary"
	EpCandles         = "candles"
	EpPositions       = "positions"
	EpAccountBalances = "accountBalances"
	EpAccounts        = "accounts"
	EpOpenOrders      = "openOrders"
	EpExecutions      = "executions"
	EpLeverages       = "leverages"
	EpPoolBalance     = "poolBalance"
	EpCreateOrder     = "createOrder"
	EpCancelOrder     = "cancelOrder"
	EpWithdraw        = "withdraw"
)

var endpointsV2 = map[string]Endpoint{
	EpMarkets:         {"GET", "v2/marketDefinitions", 1},
	EpPrices:          {"GET", "v2/prices/{symbol}", 1},
	EpMarketSummary:   {"GET", "v2/market/{symbol}/summary", 1},
	EpCandles:         {"GET", "v2/candleHistory/{symbol}/{resolution}", 1},
	EpPositions:       {"GET", "v2/wallet/{wallet_address}/positions", 1},
	EpAccountBalances: {"GET", "v2/wallet/{wallet_address}/accountBalances", 1},
	EpAccounts:        {"GET", "v2/wallet/{wallet_address}/accounts", 1},
	EpOpenOrders:      {"GET", "v2/wallet/{wallet_address}/openOrders", 1},
	EpExecutions:      {"GET", "v2/wallet/{wallet_address}/perpExecutions", 1},
	EpLeverages:       {"GET", "api/trading/wallet/{wallet_address}/leverages", 1},
	EpPoolBalance:     {"GET", "api/trading/poolBalance/{pool_id}", 1},
	EpCreateOrder:     {"POST", "api/trading/createOrder", 5},
	EpCancelOrder:     {"POST", "api/trading/cancelOrder", 5},
	EpWithdraw:        {"POST", "api/trading/wallet/withdraw", 10},
}

// The older generation. Collateral amounts on its balance family arrive as
// raw integers scaled by 1e18.
var endpointsV1 = map[string]Endpoint{
	EpMarkets:         {"GET", "api/markets", 1},
	EpPrices:          {"GET", "api/trading/prices/{symbol}", 1},
	EpMarketSummary:   {"GET", "api/trading/market/{symbol}/summary", 1},
	EpCandles:         {"GET", "api/trading/candles/{symbol}/{resolution}", 1},
	EpPositions:       {"GET", "api/trading/wallet/{wallet_address}/positions", 1},
	EpAccountBalances: {"GET", "api/trading/wallet/{wallet_address}/accounts/balances", 1},
	EpAccounts:        {"GET", "api/trading/wallet/{wallet_address}/accounts", 1},
	EpOpenOrders:      {"GET", "api/trading/wallet/{wallet_address}/openOrders", 1},
	EpExecutions:      {"GET", "api/trading/wallet/{wallet_address}/executions", 1},
	EpLeverages:       {"GET", "api/trading/wallet/{wallet_address}/leverages", 1},
	EpPoolBalance:     {"GET", "api/trading/poolBalance/{pool_id}", 1},
	EpCreateOrder:     {"POST", "api/trading/create-order", 5},
	EpCancelOrder:     {"POST", "api/trading/cancel-order", 5},
	EpWithdraw:        {"POST", "api/trading/wallet/withdraw", 10},
}

// GetEndpoint looks up a logical endpoint in the table of the given
// generation.
func GetEndpoint(v APIVersion, name string) (Endpoint, error) {
	table := endpointsV2
	if v == V1 {
		table = endpointsV1
	}
	ep, ok := table[name]
	if !ok {
		return Endpoint{}, errors.Errorf("unknown endpoint %s for api %s", name, v)
	}
	return ep, nil
}

// UnscaleBalance converts a collateral amount from its wire encoding to a
// decimal value. The 1e18 factor applies to the v1 balance family only and
// is selected here per generation, never assumed globally.
func (v APIVersion) UnscaleBalance(d decimal.Decimal) decimal.Decimal {
	if v == V1 {
		return d.Shift(-18)
	}
	return d
}
