package reya

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestBuildSubstitutesPlaceholders(t *testing.T) {
	b := &Builder{BaseURL: "https://api.reya.xyz"}
	ep, err := GetEndpoint(V2, EpPositions)
	require.NoError(t, err)

	req, err := b.Build(ep, DomainPublic, map[string]interface{}{"wallet_address": "0xdead"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://api.reya.xyz/v2/wallet/0xdead/positions", req.URL)
	assert.Equal(t, "GET", req.Method)
	assert.Empty(t, req.Body)
}

func TestBuildLeftoverParamsBecomeQuery(t *testing.T) {
	b := &Builder{BaseURL: "https://api.reya.xyz"}
	ep, err := GetEndpoint(V2, EpPrices)
	require.NoError(t, err)

	req, err := b.Build(ep, DomainPublic, map[string]interface{}{
		"symbol": "BTCRUSDPERP",
		"limit":  50,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://api.reya.xyz/v2/prices/BTCRUSDPERP?limit=50", req.URL)
}

func TestBuildPrivateWithoutSignerFails(t *testing.T) {
	b := &Builder{BaseURL: "https://api.reya.xyz"}
	ep, err := GetEndpoint(V2, EpCreateOrder)
	require.NoError(t, err)

	_, err = b.Build(ep, DomainPrivate, nil, map[string]interface{}{"qty": "1"})
	assert.Equal(t, ErrNoSigner, errors.Cause(err))
}

func TestBuildPrivateMergesAccountAndSignature(t *testing.T) {
	signer := SignerFunc(func(payload map[string]interface{}, path string, method string) (map[string]interface{}, error) {
		assert.Equal(t, "api/trading/createOrder", path)
		assert.Equal(t, "POST", method)
		return map[string]interface{}{"signature": "0xabc"}, nil
	})
	b := &Builder{BaseURL: "https://api.reya.xyz", Signer: signer, AccountID: "42"}
	ep, err := GetEndpoint(V2, EpCreateOrder)
	require.NoError(t, err)

	req, err := b.Build(ep, DomainPrivate, nil, map[string]interface{}{"qty": "1"})
	require.NoError(t, err)
	body := gjson.Parse(req.Body)
	assert.Equal(t, "42", body.Get("accountId").String())
	assert.Equal(t, "0xabc", body.Get("signature").String())
	assert.Equal(t, "1", body.Get("qty").String())
	assert.Equal(t, "application/json", req.Headers["Content-Type"])
}

func TestBuildPrivateKeepsExplicitAccount(t *testing.T) {
	signer := SignerFunc(func(payload map[string]interface{}, path string, method string) (map[string]interface{}, error) {
		return nil, nil
	})
	b := &Builder{BaseURL: "https://api.reya.xyz", Signer: signer, AccountID: "42"}
	ep, err := GetEndpoint(V2, EpCancelOrder)
	require.NoError(t, err)

	req, err := b.Build(ep, DomainPrivate, nil, map[string]interface{}{"accountId": "7"})
	require.NoError(t, err)
	assert.Equal(t, "7", gjson.Parse(req.Body).Get("accountId").String())
}

func TestJsonSafeFlattensStringers(t *testing.T) {
	safe := jsonSafe(map[string]interface{}{
		"price": decimal.RequireFromString("100.5"),
		"qty":   "1",
		"buy":   true,
	})
	assert.Equal(t, "100.5", safe["price"])
	assert.Equal(t, "1", safe["qty"])
	assert.Equal(t, true, safe["buy"])
}

func TestGetEndpointUnknownName(t *testing.T) {
	_, err := GetEndpoint(V2, "nosuch")
	assert.Error(t, err)

	v1, err := GetEndpoint(V1, EpCreateOrder)
	require.NoError(t, err)
	assert.Equal(t, "api/trading/create-order", v1.Path)
	v2, err := GetEndpoint(V2, EpCreateOrder)
	require.NoError(t, err)
	assert.Equal(t, "api/trading/createOrder", v2.Path)
	assert.Equal(t, 5, v2.Weight)
}
