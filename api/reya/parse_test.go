package reya

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/fxpgr/go-reya-client/models"
)

func TestParseOrderRemainingIsExact(t *testing.T) {
	raw := gjson.Parse(`{"orderId":"o1","symbol":"BTCRUSDPERP","side":"B",
		"orderType":"LIMIT","status":"OPEN","limitPx":"100","qty":"0.3","execQty":"0.1"}`)
	o, err := ParseOrder(raw, 0)
	require.NoError(t, err)
	// 0.3 - 0.1 must be exactly 0.2, never 0.19999999999999998.
	assert.Equal(t, "0.2", o.Remaining.String())
	assert.Equal(t, models.Buy, o.Side)
	assert.Equal(t, models.Limit, o.Type)
	assert.Equal(t, models.StatusOpen, o.Status)
	assert.Equal(t, "BTC/RUSD:RUSD", o.Symbol)
	assert.Equal(t, "100", o.Price.String())
}

func TestParseOrderMissingIDFailsAcrossAliases(t *testing.T) {
	_, err := ParseOrder(gjson.Parse(`{"symbol":"BTCRUSDPERP","qty":"1"}`), 0)
	assert.Error(t, err)

	for _, alias := range []string{"order_id", "orderId", "id"} {
		o, err := ParseOrder(gjson.Parse(`{"`+alias+`":"o7","qty":"1"}`), 0)
		require.NoError(t, err)
		assert.Equal(t, "o7", o.ExchangeOrderID)
	}
}

func TestParseOrderUnknownStatusDegradesToOpen(t *testing.T) {
	o, err := ParseOrder(gjson.Parse(`{"orderId":"o1","status":"HALTED","qty":"1"}`), 0)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOpen, o.Status)
}

func TestParseSide(t *testing.T) {
	assert.Equal(t, models.Buy, parseSide(gjson.Parse(`{"side":"B"}`)))
	assert.Equal(t, models.Sell, parseSide(gjson.Parse(`{"side":"A"}`)))
	assert.Equal(t, models.Sell, parseSide(gjson.Parse(`{"side":"buy"}`)))

	// No side flag: the quantity sign decides, zero maps to sell.
	assert.Equal(t, models.Buy, parseSide(gjson.Parse(`{"qty":"2"}`)))
	assert.Equal(t, models.Sell, parseSide(gjson.Parse(`{"qty":"-2"}`)))
	assert.Equal(t, models.Sell, parseSide(gjson.Parse(`{"qty":"0"}`)))
}

func TestParseMarket(t *testing.T) {
	raw := gjson.Parse(`{"marketId":"1","symbol":"BTCRUSDPERP","tickSize":"0.01",
		"minOrderQty":"0.001","qtyStepSize":"0.001","maxLeverage":50}`)
	m := ParseMarket(raw)
	assert.Equal(t, "1", m.ID)
	assert.Equal(t, "BTC/RUSD:RUSD", m.Symbol)
	assert.Equal(t, "BTC", m.Base)
	assert.Equal(t, "RUSD", m.Quote)
	assert.Equal(t, 2, m.AmountPrecision)
	assert.Equal(t, 50, m.MaxLeverage)
	assert.Equal(t, "1", m.MinCost.String())
}

func TestParseTickerAliases(t *testing.T) {
	v2 := ParseTicker(gjson.Parse(`{"poolPrice":"50000.5","best_bid":"50000","best_ask":"50001"}`),
		"BTC/RUSD:RUSD", 1700000000000)
	assert.Equal(t, "50000.5", v2.Last.String())
	assert.Equal(t, "50000", v2.Bid.String())
	assert.Equal(t, int64(1700000000000), v2.Timestamp)

	v1 := ParseTicker(gjson.Parse(`{"price":"50000.5","last24hVolume":"123"}`),
		"BTC/RUSD:RUSD", 1700000000000)
	assert.Equal(t, "50000.5", v1.Last.String())
	assert.Equal(t, "123", v1.BaseVolume.String())
}

func TestParseTradeSignDerived(t *testing.T) {
	tr := ParseTrade(gjson.Parse(`{"trade_id":"t1","symbol":"ETHRUSDPERP","price":"3000","qty":"-1.5"}`), 42)
	assert.Equal(t, "t1", tr.ID)
	assert.Equal(t, models.Sell, tr.Side)
	assert.Equal(t, "1.5", tr.Amount.String())
	assert.Equal(t, "ETH/RUSD:RUSD", tr.Symbol)
	assert.Equal(t, int64(42), tr.Timestamp)
}

func TestParsePosition(t *testing.T) {
	assert.Nil(t, ParsePosition(gjson.Parse(`{"symbol":"BTCRUSDPERP","qty":"0"}`)))

	long := ParsePosition(gjson.Parse(`{"symbol":"BTCRUSDPERP","qty":"2","side":"B","avgEntryPrice":"100"}`))
	assert.Equal(t, models.Buy, long.Side)
	assert.Equal(t, "2", long.Size.String())

	short := ParsePosition(gjson.Parse(`{"symbol":"BTCRUSDPERP","qty":"2","side":"A","avgEntryPrice":"100"}`))
	assert.Equal(t, models.Sell, short.Side)
	assert.Equal(t, "-2", short.Size.String())
}

func TestParseFundingRateNextFullHour(t *testing.T) {
	now := int64(1700000000000) // 12:53:20 UTC
	fr := ParseFundingRate("BTC/RUSD:RUSD", gjson.Parse(`{"fundingRate":"0.0001"}`), now)
	assert.Equal(t, "0.0001", fr.Rate.String())
	assert.Equal(t, "1h", fr.Interval)
	assert.Equal(t, int64(1700002800000), fr.FundingTimestamp)
	assert.Zero(t, fr.FundingTimestamp%(60*60*1000))
	assert.Greater(t, fr.FundingTimestamp, now)
}

func TestParseTimestampFormats(t *testing.T) {
	assert.Equal(t, int64(1700000000000), parseTimestamp(gjson.Parse(`1700000000000`), 1))
	assert.Equal(t, int64(1136214245000), parseTimestamp(gjson.Parse(`"2006-01-02T15:04:05Z"`), 1))
	assert.Equal(t, int64(1), parseTimestamp(gjson.Result{}, 1))
}

func TestUnscaleBalance(t *testing.T) {
	d := FirstDecimal(gjson.Parse(`{"balance":"1000000000000000000000"}`), "balance")
	assert.Equal(t, "1000", V1.UnscaleBalance(d).String())
	assert.True(t, V2.UnscaleBalance(d).Equal(d))
}
