package reya

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// QuoteAsset is the only settlement currency the venue trades against.
	QuoteAsset = "RUSD"

	vendorSuffix = "RUSDPERP"
	symbolSuffix = "/RUSD:RUSD"
)

// ToVendorSymbol converts "BTC/RUSD:RUSD" to "BTCRUSDPERP". Vendor symbols
// pass through unchanged.
func ToVendorSymbol(symbol string) string {
	if strings.Contains(symbol, vendorSuffix) {
		return symbol
	}
	return strings.Replace(symbol, symbolSuffix, "", 1) + vendorSuffix
}

// FromVendorSymbol converts "BTCRUSDPERP" to "BTC/RUSD:RUSD". Already
// converted symbols pass through unchanged.
func FromVendorSymbol(symbol string) string {
	if strings.Contains(symbol, symbolSuffix) {
		return symbol
	}
	return strings.ToUpper(BaseAsset(symbol)) + symbolSuffix
}

// BaseAsset strips the perp suffix from a vendor symbol: "BTCRUSDPERP" ->
// "BTC".
func BaseAsset(vendorSymbol string) string {
	return strings.TrimSuffix(vendorSymbol, vendorSuffix)
}

// DecimalPlaces derives the amount precision from a tick size, e.g. 0.01 -> 2.
func DecimalPlaces(tick decimal.Decimal) int {
	f, _ := tick.Float64()
	if f <= 0 {
		return 0
	}
	return int(math.Round(-math.Log10(f)))
}
