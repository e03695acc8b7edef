package reya

import (
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"github.com/fxpgr/go-reya-client/logger"
	"github.com/fxpgr/go-reya-client/models"
)

// The venue has renamed most fields at least once between API generations.
// Every logical field is an ordered preference list of known spellings,
// resolved by First(); the fallback logic lives only here.

func First(v gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if r := v.Get(k); r.Exists() {
			return r
		}
	}
	return gjson.Result{}
}

func FirstString(v gjson.Result, keys ...string) string {
	return First(v, keys...).String()
}

// FirstDecimal tolerates both string and numeric encodings. Unparsable or
// missing values degrade to zero.
func FirstDecimal(v gjson.Result, keys ...string) decimal.Decimal {
	r := First(v, keys...)
	if !r.Exists() {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(r.String())
	if err != nil {
		logger.Get().Warnf("unparsable decimal %q, defaulting to zero", r.String())
		return decimal.Zero
	}
	return d
}

func rawInfo(v gjson.Result) map[string]interface{} {
	if m, ok := v.Value().(map[string]interface{}); ok {
		return m
	}
	return nil
}

// parseTimestamp accepts epoch milliseconds or an ISO8601 string and falls
// back to now.
func parseTimestamp(r gjson.Result, now int64) int64 {
	if !r.Exists() {
		return now
	}
	if r.Type == gjson.Number {
		return r.Int()
	}
	if t, err := time.Parse(time.RFC3339, r.String()); err == nil {
		return t.UnixMilli()
	}
	if ms := r.Int(); ms > 0 {
		return ms
	}
	return now
}

// parseSide maps the vendor side flag ("B" means bid). Without an explicit
// flag the sign of the quantity decides; a zero quantity maps to sell.
func parseSide(v gjson.Result) models.OrderSide {
	if side := v.Get("side"); side.Exists() {
		if side.String() == "B" {
			return models.Buy
		}
		return models.Sell
	}
	if FirstDecimal(v, "qty", "amount").Sign() > 0 {
		return models.Buy
	}
	return models.Sell
}

// ParseTicker normalizes a prices payload.
func ParseTicker(raw gjson.Result, symbol string, now int64) *models.Ticker {
	return &models.Ticker{
		Symbol:     symbol,
		Last:       FirstDecimal(raw, "poolPrice", "price"),
		Bid:        FirstDecimal(raw, "best_bid", "bestBid"),
		Ask:        FirstDecimal(raw, "best_ask", "bestAsk"),
		High:       FirstDecimal(raw, "high"),
		Low:        FirstDecimal(raw, "low"),
		BaseVolume: FirstDecimal(raw, "volume", "last24hVolume", "volume24h"),
		Timestamp:  parseTimestamp(raw.Get("timestamp"), now),
		Info:       rawInfo(raw),
	}
}

// ParseTrade normalizes an execution record. Trades are always terminal.
func ParseTrade(raw gjson.Result, now int64) *models.Trade {
	amount := FirstDecimal(raw, "qty", "amount")
	if !raw.Get("side").Exists() {
		amount = amount.Abs()
	}
	return &models.Trade{
		ID:        FirstString(raw, "trade_id", "id"),
		Symbol:    FromVendorSymbol(FirstString(raw, "symbol", "ticker")),
		Side:      parseSide(raw),
		Price:     FirstDecimal(raw, "price"),
		Amount:    amount,
		Timestamp: parseTimestamp(First(raw, "timestamp", "executedAt"), now),
		Info:      rawInfo(raw),
	}
}

// ParseOrder normalizes an order snapshot. The order id is the only required
// field; everything else degrades to zero values. Remaining is computed by
// decimal subtraction, never via float.
func ParseOrder(raw gjson.Result, now int64) (*models.Order, error) {
	id := FirstString(raw, "order_id", "orderId", "id")
	if id == "" {
		return nil, errors.New("order id missing across all known aliases")
	}

	typ := models.MarketOrder
	if FirstString(raw, "orderType", "order_type") == "LIMIT" {
		typ = models.Limit
	}

	status := models.StatusOpen
	if s := FirstString(raw, "status"); s != "" {
		parsed, err := models.OrderStatusOf(s)
		if err != nil {
			logger.Get().Warnf("unknown order status %q, treating as open", s)
		} else {
			status = parsed
		}
	}

	amount := FirstDecimal(raw, "qty", "amount")
	filled := FirstDecimal(raw, "execQty", "exec_qty")

	return &models.Order{
		ExchangeOrderID: id,
		Symbol:          FromVendorSymbol(FirstString(raw, "symbol", "ticker")),
		Side:            parseSide(raw),
		Type:            typ,
		Status:          status,
		Price:           FirstDecimal(raw, "limitPx", "triggerPx", "limit_px", "trigger_px"),
		TriggerPrice:    FirstDecimal(raw, "triggerPx", "trigger_px"),
		Amount:          amount,
		Filled:          filled,
		Remaining:       amount.Sub(filled),
		Timestamp:       parseTimestamp(First(raw, "creation_timestamp_ms", "created_at", "createdAt"), now),
		Info:            rawInfo(raw),
	}, nil
}

// ParseMarket normalizes one market definition. Example: symbol
// "BTCRUSDPERP" with tickSize "0.01" yields symbol "BTC/RUSD:RUSD", base
// "BTC", quote "RUSD" and amount precision 2.
func ParseMarket(raw gjson.Result) *models.Market {
	vendorSymbol := FirstString(raw, "symbol", "ticker")
	base := BaseAsset(vendorSymbol)
	tick := FirstDecimal(raw, "tickSize", "tick_size")
	return &models.Market{
		ID:              FirstString(raw, "marketId", "market_id", "id"),
		Symbol:          FromVendorSymbol(vendorSymbol),
		Base:            base,
		Quote:           QuoteAsset,
		TickSize:        tick,
		MinOrderQty:     FirstDecimal(raw, "minOrderQty", "min_order_qty"),
		QtyStepSize:     FirstDecimal(raw, "qtyStepSize", "qty_step_size"),
		MaxLeverage:     int(First(raw, "maxLeverage", "max_leverage").Int()),
		AmountPrecision: DecimalPlaces(tick),
		MinCost:         decimal.New(1, 0),
		Info:            rawInfo(raw),
	}
}

// ParsePosition normalizes the raw fields of one position. Mark price, pnl,
// leverage and attached trigger prices are derived by the private client from
// additional requests; only the venue-reported fields are set here. Returns
// nil for zero-size entries.
func ParsePosition(raw gjson.Result) *models.Position {
	size := FirstDecimal(raw, "qty", "amount")
	if size.Sign() == 0 {
		return nil
	}
	side := parseSide(raw)
	if side == models.Sell {
		size = size.Abs().Neg()
	}
	return &models.Position{
		Symbol:       FromVendorSymbol(FirstString(raw, "symbol", "ticker")),
		Side:         side,
		Size:         size,
		EntryPrice:   FirstDecimal(raw, "avgEntryPrice", "avg_entry_price"),
		FundingValue: FirstDecimal(raw, "avgEntryFundingValue", "avg_entry_funding_value"),
		Info:         rawInfo(raw),
	}
}

// ParseFundingRate normalizes a market summary into a funding snapshot.
// Funding settles hourly; the funding timestamp is the next full hour.
func ParseFundingRate(symbol string, summary gjson.Result, now int64) *models.FundingRate {
	const hourMs = int64(60 * 60 * 1000)
	return &models.FundingRate{
		Symbol:           symbol,
		Rate:             FirstDecimal(summary, "fundingRate", "funding_rate"),
		Interval:         "1h",
		FundingTimestamp: (now/hourMs + 1) * hourMs,
		Info:             rawInfo(summary),
	}
}
