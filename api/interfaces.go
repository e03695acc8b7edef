// Package api exposes the exchange client factories. Public clients read
// market data without credentials; private clients are bound to a wallet
// and sign mutating requests.
package api

import (
	"github.com/fxpgr/go-reya-client/api/private"
	"github.com/fxpgr/go-reya-client/api/public"
	"github.com/fxpgr/go-reya-client/api/reya"
)

type ExchangePublicRepository = public.PublicClient

type ExchangePrivateRepository = private.PrivateClient

func NewExchangePublicRepository(exchangeName string) (ExchangePublicRepository, error) {
	return public.NewClient(exchangeName)
}

func NewExchangePrivateRepository(exchangeName string, walletAddress string, accountID string, signer reya.Signer) (ExchangePrivateRepository, error) {
	return private.NewClient(exchangeName, walletAddress, accountID, signer)
}
