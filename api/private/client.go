package private

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/fxpgr/go-reya-client/api/reya"
	"github.com/fxpgr/go-reya-client/models"
)

//go:generate mockery -name=PrivateClient
type PrivateClient interface {
	CreateOrder(symbol string, typ models.OrderType, side models.OrderSide,
		amount decimal.Decimal, price decimal.Decimal, opts *OrderOptions) (*models.Order, error)
	CancelOrder(id string) (bool, error)
	FetchBalance() (*models.Balance, error)
	FetchPositions() ([]*models.Position, error)
	FetchPosition(symbol string) (*models.Position, error)
	FetchOrder(id string, symbol string) (*models.Order, error)
	FetchOpenOrders(symbol string) ([]*models.Order, error)
	FetchOrders(symbol string) ([]*models.Order, error)
	FetchMyTrades(symbol string, since int64, limit int) ([]*models.Trade, error)
	FetchLeverage(symbol string) (int, error)
	FetchLeverages() (map[string]int, error)
	FetchAccounts() ([]*models.Account, error)
	SetMarginMode(mode string, symbol string) error
	Withdraw(code string, amount decimal.Decimal, address string) (map[string]interface{}, error)
}

func NewClient(exchangeName string, walletAddress string, accountID string, signer reya.Signer) (PrivateClient, error) {
	switch strings.ToLower(exchangeName) {
	case "reya":
		return NewReyaPrivateApi(walletAddress, accountID, signer)
	}
	return nil, errors.New("failed to init exchange api")
}
