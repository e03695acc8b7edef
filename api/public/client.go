package public

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/fxpgr/go-reya-client/models"
)

//go:generate mockery -name=PublicClient
type PublicClient interface {
	FetchMarkets() ([]*models.Market, error)
	FetchTicker(symbol string) (*models.Ticker, error)
	FetchTickers() (map[string]*models.Ticker, error)
	FetchOrderBook(symbol string) (*models.OrderBook, error)
	FetchFundingRate(symbol string) (*models.FundingRate, error)
	FetchOHLCV(symbol string, resolution string, since int64, limit int) ([]models.Candle, error)
	FetchPoolAPY(poolID int) (decimal.Decimal, error)
}

func NewClient(exchangeName string) (PublicClient, error) {
	switch strings.ToLower(exchangeName) {
	case "reya":
		return NewReyaPublicApi()
	}
	return nil, errors.New("failed to init exchange api")
}
