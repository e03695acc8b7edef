package public

import (
	"io/ioutil"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"github.com/fxpgr/go-reya-client/api/reya"
	"github.com/fxpgr/go-reya-client/logger"
	"github.com/fxpgr/go-reya-client/models"
)

const (
	REYA_BASE_URL = "https://api.reya.xyz"
)

type ReyaApiConfig struct {
	BaseURL              string
	APIVersion           reya.APIVersion
	MarketsCacheDuration time.Duration
	RateLimitPerSecond   float64
}

func NewReyaPublicApi() (*ReyaApi, error) {
	return NewReyaApiUsingConfigFunc(func(*ReyaApiConfig) {})
}

func NewReyaApiUsingConfigFunc(f func(*ReyaApiConfig)) (*ReyaApi, error) {
	conf := &ReyaApiConfig{
		BaseURL:              REYA_BASE_URL,
		APIVersion:           reya.V2,
		MarketsCacheDuration: 30 * time.Second,
		RateLimitPerSecond:   10,
	}
	f(conf)

	api := &ReyaApi{
		marketMap:          nil,
		marketsLastUpdated: time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
		builder:            &reya.Builder{BaseURL: conf.BaseURL},
		limiter:            reya.NewLimiter(conf.RateLimitPerSecond, 20),
		delegate:           NewBinanceApi(),
		m:                  new(sync.Mutex),
		c:                  conf,
	}
	return api, nil
}

// ReyaApi is the unauthenticated read side of the adapter. The market index
// is rebuilt with total replacement semantics on every markets fetch; symbols
// absent from the new payload disappear.
type ReyaApi struct {
	HttpClient http.Client

	marketMap          map[string]*models.Market
	marketsLastUpdated time.Time

	builder  *reya.Builder
	limiter  *reya.Limiter
	delegate *BinanceApi

	m *sync.Mutex
	c *ReyaApiConfig
}

func (r *ReyaApi) get(name string, params map[string]interface{}) ([]byte, error) {
	ep, err := reya.GetEndpoint(r.c.APIVersion, name)
	if err != nil {
		return nil, err
	}
	req, err := r.builder.Build(ep, reya.DomainPublic, params, nil)
	if err != nil {
		return nil, err
	}
	if err := r.limiter.Wait(ep.Weight); err != nil {
		return nil, errors.Wrap(err, "rate limiter interrupted")
	}
	httpReq, err := http.NewRequest(req.Method, req.URL, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create request %s", req.URL)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	resp, err := r.HttpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch %s", req.URL)
	}
	defer resp.Body.Close()
	byteArray, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch %s", req.URL)
	}
	if resp.StatusCode != 200 {
		return nil, errors.Errorf("HttpStatusCode:%d ,Desc:%s", resp.StatusCode, string(byteArray))
	}
	return byteArray, nil
}

// fetchMarkets replaces the symbol index wholesale. Caller holds the lock.
func (r *ReyaApi) fetchMarkets() ([]*models.Market, error) {
	bs, err := r.get(reya.EpMarkets, nil)
	if err != nil {
		return nil, err
	}
	value := gjson.ParseBytes(bs)
	list := value
	if value.IsObject() {
		list = value.Get("data")
	}

	marketMap := make(map[string]*models.Market)
	var out []*models.Market
	for _, v := range list.Array() {
		mkt := reya.ParseMarket(v)
		if mkt.ID == "" {
			logger.Get().Warnf("skipping market definition without id: %s", v.Raw)
			continue
		}
		marketMap[mkt.Symbol] = mkt
		out = append(out, mkt)
	}
	r.marketMap = marketMap
	r.marketsLastUpdated = time.Now()
	return out, nil
}

func (r *ReyaApi) FetchMarkets() ([]*models.Market, error) {
	r.m.Lock()
	defer r.m.Unlock()
	return r.fetchMarkets()
}

// Market resolves a symbol (either notation) against the cached index,
// refetching when the cache is stale.
func (r *ReyaApi) Market(symbol string) (*models.Market, error) {
	r.m.Lock()
	defer r.m.Unlock()

	now := time.Now()
	if r.marketMap == nil || now.Sub(r.marketsLastUpdated) >= r.c.MarketsCacheDuration {
		if _, err := r.fetchMarkets(); err != nil {
			return nil, err
		}
	}
	mkt, ok := r.marketMap[reya.FromVendorSymbol(symbol)]
	if !ok {
		return nil, errors.Errorf("symbol %s not found in markets", symbol)
	}
	return mkt, nil
}

func (r *ReyaApi) FetchTicker(symbol string) (*models.Ticker, error) {
	market, err := r.Market(symbol)
	if err != nil {
		return nil, err
	}
	bs, err := r.get(reya.EpPrices, map[string]interface{}{
		"symbol": reya.ToVendorSymbol(market.Symbol),
	})
	if err != nil {
		return nil, err
	}
	return reya.ParseTicker(gjson.ParseBytes(bs), market.Symbol, time.Now().UnixMilli()), nil
}

func (r *ReyaApi) FetchTickers() (map[string]*models.Ticker, error) {
	return nil, errors.Wrap(models.ErrNotSupported, "multi-ticker fetch")
}

func (r *ReyaApi) FetchOrderBook(symbol string) (*models.OrderBook, error) {
	return nil, errors.Wrap(models.ErrNotSupported, "order book fetch")
}

func (r *ReyaApi) FetchFundingRate(symbol string) (*models.FundingRate, error) {
	market, err := r.Market(symbol)
	if err != nil {
		return nil, err
	}
	bs, err := r.get(reya.EpMarketSummary, map[string]interface{}{
		"symbol": reya.ToVendorSymbol(market.Symbol),
	})
	if err != nil {
		return nil, err
	}
	return reya.ParseFundingRate(market.Symbol, gjson.ParseBytes(bs), time.Now().UnixMilli()), nil
}

// FetchOHLCV delegates entirely to the Binance candle endpoint; the venue
// does not serve the resolutions callers need. The RUSD pair is rewritten to
// its USDT stand-in.
func (r *ReyaApi) FetchOHLCV(symbol string, resolution string, since int64, limit int) ([]models.Candle, error) {
	market, err := r.Market(symbol)
	if err != nil {
		return nil, err
	}
	return r.delegate.FetchOHLCV(market.Base+"USDT", resolution, since, limit)
}

func (r *ReyaApi) FetchPoolAPY(poolID int) (decimal.Decimal, error) {
	bs, err := r.get(reya.EpPoolBalance, map[string]interface{}{"pool_id": poolID})
	if err != nil {
		return decimal.Zero, err
	}
	value := gjson.ParseBytes(bs)
	apyStr := value.Get("apy").String()
	if apyStr == "" {
		apyStr = value.Get("currentApy").String()
	}
	apy, err := decimal.NewFromString(strings.TrimSpace(apyStr))
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "failed to parse apy %q", apyStr)
	}
	return apy, nil
}
