package reya

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletSignerNonOrderPath(t *testing.T) {
	s := &WalletSigner{WalletAddress: "0xdead", ChainID: ChainMainnet}
	extra, err := s.Sign(map[string]interface{}{"orderId": "o1"}, "api/trading/cancelOrder", "POST")
	require.NoError(t, err)
	assert.Equal(t, "0xdead", extra["signerWallet"])
	assert.Equal(t, DefaultExchangeID, extra["exchangeId"])
	assert.NotContains(t, extra, "signature")
}

func TestWalletSignerOrderDigest(t *testing.T) {
	var got OrderDigest
	s := &WalletSigner{
		WalletAddress: "0xdead",
		ChainID:       ChainMainnet,
		SignDigest: func(d OrderDigest) (string, error) {
			got = d
			return "0xsig", nil
		},
		now: func() time.Time { return time.UnixMilli(1700000000000) },
	}
	payload := map[string]interface{}{
		"accountId": "42",
		"market_id": "1",
		"is_buy":    true,
		"limit_px":  "50000",
		"qty":       "0.5",
	}
	extra, err := s.Sign(payload, "api/trading/createOrder", "POST")
	require.NoError(t, err)
	assert.Equal(t, "0xsig", extra["signature"])
	assert.Equal(t, "1700000000000", extra["nonce"])
	assert.Equal(t, int64(1700000000+600), extra["expiresAfter"])

	assert.Equal(t, "42", got.AccountID)
	assert.Equal(t, "1", got.MarketID)
	assert.True(t, got.IsBuy)
	assert.Equal(t, "50000", got.Price)
	assert.Equal(t, "0.5", got.Size)
	assert.Equal(t, DefaultExchangeID, got.ExchangeID)
}

func TestWalletSignerRequiresDigestCallbackForOrders(t *testing.T) {
	s := &WalletSigner{WalletAddress: "0xdead"}
	_, err := s.Sign(map[string]interface{}{}, "api/trading/create-order", "POST")
	assert.Error(t, err)
}

func TestWalletSignerRequiresWallet(t *testing.T) {
	s := &WalletSigner{}
	_, err := s.Sign(map[string]interface{}{}, "api/trading/cancelOrder", "POST")
	assert.Equal(t, ErrNoWalletAddress, err)
}
