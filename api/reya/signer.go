package reya

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Chain ids of the venue's networks.
const (
	ChainMainnet int64 = 1729
	ChainTestnet int64 = 89346162
)

// DefaultExchangeID is the venue's DEX id carried on every order payload.
const DefaultExchangeID int64 = 1

// Signer supplies the authentication fields merged into a private request
// payload. It is the sole place where authentication happens; the request
// builder never inspects the returned fields.
type Signer interface {
	Sign(payload map[string]interface{}, path string, method string) (map[string]interface{}, error)
}

// SignerFunc adapts a plain function to the Signer capability.
type SignerFunc func(payload map[string]interface{}, path string, method string) (map[string]interface{}, error)

func (f SignerFunc) Sign(payload map[string]interface{}, path string, method string) (map[string]interface{}, error) {
	return f(payload, path, method)
}

// OrderDigest is the subset of an order payload covered by the wallet
// signature.
type OrderDigest struct {
	AccountID  interface{}
	MarketID   interface{}
	ExchangeID int64
	IsBuy      bool
	Price      string
	Size       string
	Nonce      string
	Deadline   int64
}

// WalletSigner shapes order payloads for the orders gateway and forwards the
// digest to an injected wallet callback. No cryptography happens in this
// package; SignDigest is the wallet SDK boundary.
type WalletSigner struct {
	WalletAddress string
	ChainID       int64
	ExchangeID    int64
	SignDigest    func(d OrderDigest) (string, error)

	// now is overridable for tests.
	now func() time.Time
}

func (s *WalletSigner) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

func (s *WalletSigner) exchangeID() int64 {
	if s.ExchangeID != 0 {
		return s.ExchangeID
	}
	return DefaultExchangeID
}

func (s *WalletSigner) Sign(payload map[string]interface{}, path string, method string) (map[string]interface{}, error) {
	if s.WalletAddress == "" {
		return nil, ErrNoWalletAddress
	}
	extra := map[string]interface{}{
		"signerWallet": s.WalletAddress,
		"exchangeId":   s.exchangeID(),
	}
	if !strings.Contains(path, "createOrder") && !strings.Contains(path, "create-order") {
		return extra, nil
	}
	if s.SignDigest == nil {
		return nil, errors.New("wallet signer requires a digest callback for order signing")
	}

	nonce := strconv.FormatInt(s.clock().UnixMilli(), 10)
	deadline := s.clock().Unix() + 600
	if v, ok := payload["expires_after"].(int64); ok && v > 0 {
		deadline = v
	}

	isBuy, _ := payload["is_buy"].(bool)
	price, _ := payload["limit_px"].(string)
	if price == "" {
		price, _ = payload["trigger_px"].(string)
	}
	size, _ := payload["qty"].(string)

	signature, err := s.SignDigest(OrderDigest{
		AccountID:  payload["accountId"],
		MarketID:   payload["market_id"],
		ExchangeID: s.exchangeID(),
		IsBuy:      isBuy,
		Price:      price,
		Size:       size,
		Nonce:      nonce,
		Deadline:   deadline,
	})
	if err != nil {
		return nil, errors.Wrap(err, "wallet digest callback failed")
	}

	extra["signature"] = signature
	extra["nonce"] = nonce
	extra["expiresAfter"] = deadline
	return extra, nil
}
