package private

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/Jeffail/gabs"
	"github.com/antonholmquist/jason"
	cache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"github.com/fxpgr/go-reya-client/api/public"
	"github.com/fxpgr/go-reya-client/api/reya"
	"github.com/fxpgr/go-reya-client/logger"
	"github.com/fxpgr/go-reya-client/models"
)

const (
	REYA_BASE_URL = "https://api.reya.xyz"

	// v1 balance entries are keyed by collateral token address; this one is
	// plain RUSD, everything else is staked collateral.
	rusdCollateralAddress = "0xa9f32a851b1800742e47725da54a09a7ef2556a3"

	leverageCacheKey = "leverages"
)

// Staked collateral counts at 90% of face value.
var stakedHaircut = decimal.New(9, -1)

type ReyaApiConfig struct {
	BaseURL               string
	APIVersion            reya.APIVersion
	WalletAddress         string
	AccountID             string
	DefaultLeverage       int
	RateLimitPerSecond    float64
	LeverageCacheDuration time.Duration
	Signer                reya.Signer
}

func NewReyaPrivateApi(walletAddress string, accountID string, signer reya.Signer) (*ReyaApi, error) {
	return NewReyaApiUsingConfigFunc(func(c *ReyaApiConfig) {
		c.WalletAddress = walletAddress
		c.AccountID = accountID
		c.Signer = signer
	})
}

func NewReyaApiUsingConfigFunc(f func(*ReyaApiConfig)) (*ReyaApi, error) {
	conf := &ReyaApiConfig{
		BaseURL:               REYA_BASE_URL,
		APIVersion:            reya.V2,
		DefaultLeverage:       3,
		RateLimitPerSecond:    10,
		LeverageCacheDuration: 30 * time.Second,
	}
	f(conf)
	if conf.WalletAddress == "" {
		return nil, reya.ErrNoWalletAddress
	}

	pub, err := public.NewReyaApiUsingConfigFunc(func(c *public.ReyaApiConfig) {
		c.BaseURL = conf.BaseURL
		c.APIVersion = conf.APIVersion
	})
	if err != nil {
		return nil, err
	}

	return &ReyaApi{
		c: conf,
		builder: &reya.Builder{
			BaseURL:   conf.BaseURL,
			Signer:    conf.Signer,
			AccountID: conf.AccountID,
		},
		limiter:  reya.NewLimiter(conf.RateLimitPerSecond, 20),
		public:   pub,
		levCache: cache.New(conf.LeverageCacheDuration, 10*time.Minute),
	}, nil
}

// ReyaApi is the account-scoped side of the adapter. Reads and writes share
// one REST transport; every operation is a single blocking request/response
// cycle (or a short fixed sequence of them) with no retries.
type ReyaApi struct {
	HttpClient http.Client

	c       *ReyaApiConfig
	builder *reya.Builder
	limiter *reya.Limiter
	public  *public.ReyaApi

	// Best-effort leverage lookup, overwritten on every refetch. Not safe
	// for concurrent mutation beyond what go-cache provides.
	levCache *cache.Cache
}

// Public returns the read-side client sharing this configuration.
func (r *ReyaApi) Public() *public.ReyaApi {
	return r.public
}

func (r *ReyaApi) do(name string, domain reya.Domain, params map[string]interface{}, body map[string]interface{}) ([]byte, error) {
	ep, err := reya.GetEndpoint(r.c.APIVersion, name)
	if err != nil {
		return nil, err
	}
	req, err := r.builder.Build(ep, domain, params, body)
	if err != nil {
		return nil, err
	}
	if err := r.limiter.Wait(ep.Weight); err != nil {
		return nil, errors.Wrap(err, "rate limiter interrupted")
	}
	httpReq, err := http.NewRequest(req.Method, req.URL, strings.NewReader(req.Body))
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

func (r *ReyaApi) walletParams() map[string]interface{} {
	return map[string]interface{}{"wallet_address": r.c.WalletAddress}
}

// listItems unwraps optional {data: [...]} envelopes.
func listItems(bs []byte) gjson.Result {
	value := gjson.ParseBytes(bs)
	if value.IsObject() && value.Get("data").Exists() {
		return value.Get("data")
	}
	return value
}

// OrderOptions carries the optional order parameters. Setting
// TakeProfitPrice or StopLossPrice turns the call into a trigger order.
type OrderOptions struct {
	AccountID       string
	TakeProfitPrice decimal.Decimal
	StopLossPrice   decimal.Decimal
	ReduceOnly      bool
	ExpiresAfter    int64
}

// CreateOrder places an order. Market orders are submitted as IOC limit
// payloads at the given price; resting limit orders are GTC.
//
// When opts requests a take-profit or stop-loss trigger, the venue's trigger
// endpoint is used instead and the order is always submitted sell-side,
// regardless of the side argument: the trigger flow exists to close long
// exposure. Callers needing buy-side triggers cannot express them through
// this adapter; the returned Order reports the sell side actually sent.
//
// Fails with ErrNoAccountID before any network call when no trading account
// id is resolvable from opts or the configuration.
func (r *ReyaApi) CreateOrder(symbol string, typ models.OrderType, side models.OrderSide,
	amount decimal.Decimal, price decimal.Decimal, opts *OrderOptions) (*models.Order, error) {
	accountID := r.c.AccountID
	if opts != nil && opts.AccountID != "" {
		accountID = opts.AccountID
	}
	if accountID == "" {
		return nil, errors.Wrap(reya.ErrNoAccountID, "create order")
	}

	market, err := r.public.Market(symbol)
	if err != nil {
		return nil, err
	}
	vendorSymbol := reya.ToVendorSymbol(market.Symbol)

	effectiveSide := side
	triggerPrice := decimal.Zero
	var body map[string]interface{}
	switch {
	case opts != nil && opts.TakeProfitPrice.Sign() > 0:
		effectiveSide = models.Sell
		triggerPrice = opts.TakeProfitPrice
		body = triggerOrderBody(accountID, market.ID, vendorSymbol, opts.TakeProfitPrice, "TP")
	case opts != nil && opts.StopLossPrice.Sign() > 0:
		effectiveSide = models.Sell
		triggerPrice = opts.StopLossPrice
		body = triggerOrderBody(accountID, market.ID, vendorSymbol, opts.StopLossPrice, "SL")
	default:
		timeInForce := "IOC"
		if typ == models.Limit {
			timeInForce = "GTC"
		}
		body = map[string]interface{}{
			"accountId":     accountID,
			"market_id":     market.ID,
			"symbol":        vendorSymbol,
			"is_buy":        side == models.Buy,
			"limit_px":      price.String(),
			"qty":           amount.String(),
			"time_in_force": timeInForce,
			"reduce_only":   opts != nil && opts.ReduceOnly,
		}
		if opts != nil && opts.ExpiresAfter > 0 {
			body["expires_after"] = opts.ExpiresAfter
		}
	}

	bs, err := r.do(reya.EpCreateOrder, reya.DomainPrivate, nil, body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create order")
	}
	resp := gjson.ParseBytes(bs)

	status := models.StatusOpen
	if s := reya.FirstString(resp, "status"); s != "" {
		parsed, err := models.OrderStatusOf(s)
		if err != nil {
			logger.Get().Warnf("unknown order status %q, treating as open", s)
		} else {
			status = parsed
		}
	}

	return &models.Order{
		ExchangeOrderID: reya.FirstString(resp, "order_id", "orderId", "id"),
		Symbol:          market.Symbol,
		Side:            effectiveSide,
		Type:            typ,
		Status:          status,
		Price:           price,
		TriggerPrice:    triggerPrice,
		Amount:          amount,
		Filled:          decimal.Zero,
		Remaining:       amount,
		Timestamp:       time.Now().UnixMilli(),
		Info:            rawMap(resp),
	}, nil
}

func triggerOrderBody(accountID string, marketID string, vendorSymbol string, triggerPrice decimal.Decimal, triggerType string) map[string]interface{} {
	return map[string]interface{}{
		"accountId":    accountID,
		"market_id":    marketID,
		"symbol":       vendorSymbol,
		"is_buy":       false,
		"trigger_px":   triggerPrice.String(),
		"trigger_type": triggerType,
	}
}

func rawMap(v gjson.Result) map[string]interface{} {
	if m, ok := v.Value().(map[string]interface{}); ok {
		return m
	}
	return nil
}

// CancelOrder reports success as a vendor-status equality check.
func (r *ReyaApi) CancelOrder(id string) (bool, error) {
	bs, err := r.do(reya.EpCancelOrder, reya.DomainPrivate, nil, map[string]interface{}{
		"orderId": id,
	})
	if err != nil {
		return false, errors.Wrapf(err, "failed to cancel order %s", id)
	}
	status := gjson.ParseBytes(bs).Get("status").String()
	return strings.EqualFold(status, "CANCELLED"), nil
}

// FetchBalance reconstructs free/used/total for RUSD from three requests:
// collateral balances, the leverage table and open orders. Used is the sum
// of open-order notional divided by leverage. The three reads are not
// atomic; an order placed in between skews the snapshot.
func (r *ReyaApi) FetchBalance() (*models.Balance, error) {
	bs, err := r.do(reya.EpAccountBalances, reya.DomainPublic, r.walletParams(), nil)
	if err != nil {
		return nil, err
	}

	var total decimal.Decimal
	if r.c.APIVersion == reya.V1 {
		total, err = r.parseBalanceV1(bs)
	} else {
		total, err = r.parseBalanceV2(bs)
	}
	if err != nil {
		return nil, err
	}

	openOrders, err := r.FetchOpenOrders("")
	if err != nil {
		return nil, err
	}
	levs, err := r.FetchLeverages()
	if err != nil {
		return nil, err
	}

	used := decimal.Zero
	for _, o := range openOrders {
		lev, ok := levs[o.Symbol]
		if !ok || lev <= 0 {
			lev = r.c.DefaultLeverage
		}
		notional := o.Amount.Mul(o.Price)
		used = used.Add(notional.Div(decimal.NewFromInt(int64(lev))))
	}

	bal := models.NewBalance(reya.QuoteAsset, total, used)
	bal.Info = map[string]interface{}{"balances": string(bs)}
	return bal, nil
}

// v2 entries: [{"asset": "SRUSD", "realBalance": "1000"}, ...]. Staked RUSD
// counts at 90%.
func (r *ReyaApi) parseBalanceV2(bs []byte) (decimal.Decimal, error) {
	root, err := jason.NewValueFromBytes(bs)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "failed to parse balances json")
	}
	entries, err := root.Array()
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "balances payload is not a list")
	}

	total := decimal.Zero
	for _, entry := range entries {
		obj, err := entry.Object()
		if err != nil {
			return decimal.Zero, errors.Wrap(err, "balance entry is not an object")
		}
		asset, err := obj.GetString("asset")
		if err != nil {
			continue
		}
		realBalance, err := obj.GetString("realBalance")
		if err != nil {
			continue
		}
		amount, err := decimal.NewFromString(realBalance)
		if err != nil {
			logger.Get().Warnf("unparsable balance %q for %s, skipping", realBalance, asset)
			continue
		}
		switch asset {
		case "SRUSD":
			total = total.Add(amount.Mul(stakedHaircut))
		case "RUSD":
			total = total.Add(amount)
		}
	}
	return total, nil
}

// v1 entries: [{"collateral": "0x...", "balance": "1000000000000000000000"}]
// with amounts at 1e18. The plain RUSD token counts in full, any other
// collateral is staked and takes the haircut.
func (r *ReyaApi) parseBalanceV1(bs []byte) (decimal.Decimal, error) {
	parsed, err := gabs.ParseJSON(bs)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "failed to parse balances json")
	}
	items := parsed
	if parsed.Exists("data") {
		items = parsed.Path("data")
	}
	children, err := items.Children()
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "balances payload is not a list")
	}

	total := decimal.Zero
	for _, child := range children {
		collateral, _ := child.Path("collateral").Data().(string)
		balanceStr, ok := child.Path("balance").Data().(string)
		if !ok {
			if f, okf := child.Path("balance").Data().(float64); okf {
				balanceStr = decimal.NewFromFloat(f).String()
			}
		}
		amount, err := decimal.NewFromString(balanceStr)
		if err != nil {
			logger.Get().Warnf("unparsable balance %q for %s, skipping", balanceStr, collateral)
			continue
		}
		amount = r.c.APIVersion.UnscaleBalance(amount)
		if strings.EqualFold(collateral, rusdCollateralAddress) {
			total = total.Add(amount)
		} else {
			total = total.Add(amount.Mul(stakedHaircut))
		}
	}
	return total, nil
}

// FetchLeverages refetches the leverage table and overwrites the cache.
func (r *ReyaApi) FetchLeverages() (map[string]int, error) {
	bs, err := r.do(reya.EpLeverages, reya.DomainPublic, r.walletParams(), nil)
	if err != nil {
		return nil, err
	}

	byMarketID := make(map[string]int)
	for _, v := range listItems(bs).Array() {
		marketID := reya.FirstString(v, "marketId", "market_id")
		if marketID == "" {
			continue
		}
		byMarketID[marketID] = int(v.Get("leverage").Int())
	}

	markets, err := r.public.FetchMarkets()
	if err != nil {
		return nil, err
	}
	bySymbol := make(map[string]int)
	for _, m := range markets {
		if lev, ok := byMarketID[m.ID]; ok {
			bySymbol[m.Symbol] = lev
		}
	}

	r.levCache.Set(leverageCacheKey, bySymbol, cache.DefaultExpiration)
	return bySymbol, nil
}

// FetchLeverage reads the cached leverage table, refetching when stale.
// Markets without an explicit setting default to the configured leverage.
func (r *ReyaApi) FetchLeverage(symbol string) (int, error) {
	var levs map[string]int
	if cached, found := r.levCache.Get(leverageCacheKey); found {
		levs = cached.(map[string]int)
	} else {
		fetched, err := r.FetchLeverages()
		if err != nil {
			return 0, err
		}
		levs = fetched
	}
	if lev, ok := levs[reya.FromVendorSymbol(symbol)]; ok && lev > 0 {
		return lev, nil
	}
	return r.c.DefaultLeverage, nil
}

func (r *ReyaApi) fetchOpenOrdersRaw() ([]gjson.Result, error) {
	bs, err := r.do(reya.EpOpenOrders, reya.DomainPublic, r.walletParams(), nil)
	if err != nil {
		return nil, err
	}
	return listItems(bs).Array(), nil
}

// filterByMarket keeps items whose market id matches the given symbol's
// market. An empty symbol keeps everything.
func (r *ReyaApi) filterByMarket(items []gjson.Result, symbol string) ([]gjson.Result, error) {
	if symbol == "" {
		return items, nil
	}
	market, err := r.public.Market(symbol)
	if err != nil {
		return nil, err
	}
	var filtered []gjson.Result
	for _, v := range items {
		if reya.FirstString(v, "market_id", "marketId") == market.ID ||
			reya.FirstString(v, "symbol", "ticker") == reya.ToVendorSymbol(market.Symbol) {
			filtered = append(filtered, v)
		}
	}
	return filtered, nil
}

func (r *ReyaApi) FetchOpenOrders(symbol string) ([]*models.Order, error) {
	items, err := r.fetchOpenOrdersRaw()
	if err != nil {
		return nil, err
	}
	items, err = r.filterByMarket(items, symbol)
	if err != nil {
		return nil, err
	}
	now := time.Now().UnixMilli()
	var orders []*models.Order
	for _, v := range items {
		o, err := reya.ParseOrder(v, now)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse open order")
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// FetchOrder scans the open-orders snapshot for the id; closed or unknown
// ids yield ErrOrderNotFound.
func (r *ReyaApi) FetchOrder(id string, symbol string) (*models.Order, error) {
	orders, err := r.FetchOpenOrders(symbol)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		if o.ExchangeOrderID == id {
			return o, nil
		}
	}
	return nil, errors.Wrapf(models.ErrOrderNotFound, "order id %s", id)
}

// FetchOrders merges the open-orders snapshot with historical executions,
// the latter represented as closed orders.
func (r *ReyaApi) FetchOrders(symbol string) ([]*models.Order, error) {
	orders, err := r.FetchOpenOrders(symbol)
	if err != nil {
		return nil, err
	}
	trades, err := r.FetchMyTrades(symbol, 0, 0)
	if err != nil {
		return nil, err
	}
	for _, t := range trades {
		orders = append(orders, orderFromTrade(t))
	}
	return orders, nil
}

func orderFromTrade(t *models.Trade) *models.Order {
	return &models.Order{
		ExchangeOrderID: t.ID,
		Symbol:          t.Symbol,
		Side:            t.Side,
		Type:            models.MarketOrder,
		Status:          models.StatusClosed,
		Price:           t.Price,
		Amount:          t.Amount,
		Filled:          t.Amount,
		Remaining:       decimal.Zero,
		Timestamp:       t.Timestamp,
		Info:            t.Info,
	}
}

func (r *ReyaApi) FetchMyTrades(symbol string, since int64, limit int) ([]*models.Trade, error) {
	bs, err := r.do(reya.EpExecutions, reya.DomainPublic, r.walletParams(), nil)
	if err != nil {
		return nil, err
	}
	items, err := r.filterByMarket(listItems(bs).Array(), symbol)
	if err != nil {
		return nil, err
	}
	now := time.Now().UnixMilli()
	var trades []*models.Trade
	for _, v := range items {
		t := reya.ParseTrade(v, now)
		if since > 0 && t.Timestamp < since {
			continue
		}
		trades = append(trades, t)
		if limit > 0 && len(trades) >= limit {
			break
		}
	}
	return trades, nil
}

func (r *ReyaApi) FetchPositions() ([]*models.Position, error) {
	return r.fetchPositions("")
}

// FetchPosition returns the open position for the symbol, or nil when flat.
func (r *ReyaApi) FetchPosition(symbol string) (*models.Position, error) {
	positions, err := r.fetchPositions(symbol)
	if err != nil {
		return nil, err
	}
	if len(positions) == 0 {
		return nil, nil
	}
	return positions[0], nil
}

// fetchPositions enriches each raw position with one ticker fetch (mark
// price) and one open-orders scan (attached TP/SL), then derives pnl,
// notional and the liquidation estimate.
func (r *ReyaApi) fetchPositions(symbol string) ([]*models.Position, error) {
	bs, err := r.do(reya.EpPositions, reya.DomainPublic, r.walletParams(), nil)
	if err != nil {
		return nil, err
	}

	canonical := ""
	if symbol != "" {
		canonical = reya.FromVendorSymbol(symbol)
	}

	var result []*models.Position
	for _, v := range listItems(bs).Array() {
		p := reya.ParsePosition(v)
		if p == nil {
			continue
		}
		if canonical != "" && p.Symbol != canonical {
			continue
		}

		ticker, err := r.public.FetchTicker(p.Symbol)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to fetch mark price for %s", p.Symbol)
		}
		p.MarkPrice = ticker.Last

		leverage, err := r.FetchLeverage(p.Symbol)
		if err != nil {
			return nil, err
		}
		p.Leverage = leverage

		pnl := p.Size.Mul(p.MarkPrice.Sub(p.EntryPrice))
		if p.FundingValue.Sign() < 0 {
			pnl = pnl.Add(p.FundingValue)
		}
		p.UnrealizedPnl = pnl
		p.NotionalValue = p.Size.Mul(p.MarkPrice)

		// entry*(1-1/leverage): a rough long-side estimate that ignores the
		// venue's maintenance-margin mechanics.
		one := decimal.New(1, 0)
		p.LiquidationPrice = p.EntryPrice.Mul(one.Sub(one.Div(decimal.NewFromInt(int64(leverage)))))

		orders, err := r.FetchOpenOrders(p.Symbol)
		if err != nil {
			return nil, err
		}
		for _, o := range orders {
			switch orderTriggerKind(o) {
			case "TP":
				p.TakeProfitPrice = o.Price
			case "SL":
				p.StopLossPrice = o.Price
			}
		}

		result = append(result, p)
	}
	return result, nil
}

func orderTriggerKind(o *models.Order) string {
	if o.Info == nil {
		return ""
	}
	kind, _ := o.Info["orderType"].(string)
	if kind == "" {
		kind, _ = o.Info["order_type"].(string)
	}
	switch kind {
	case "TP", "Take Profit":
		return "TP"
	case "SL", "Stop Loss":
		return "SL"
	}
	return ""
}

func (r *ReyaApi) FetchAccounts() ([]*models.Account, error) {
	bs, err := r.do(reya.EpAccounts, reya.DomainPublic, r.walletParams(), nil)
	if err != nil {
		return nil, err
	}
	root, err := jason.NewValueFromBytes(bs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse accounts json")
	}
	entries, err := root.Array()
	if err != nil {
		return nil, errors.Wrap(err, "accounts payload is not a list")
	}

	var accounts []*models.Account
	for _, entry := range entries {
		obj, err := entry.Object()
		if err != nil {
			return nil, errors.Wrap(err, "account entry is not an object")
		}
		acc := &models.Account{}
		if id, err := obj.GetString("accountId"); err == nil {
			acc.ID = id
		} else if id, err := obj.GetInt64("accountId"); err == nil {
			acc.ID = decimal.NewFromInt(id).String()
		}
		if name, err := obj.GetString("name"); err == nil {
			acc.Name = name
		}
		if status, err := obj.GetString("status"); err == nil {
			acc.Status = status
		}
		if bs, err := entry.Marshal(); err == nil {
			var m map[string]interface{}
			if json.Unmarshal(bs, &m) == nil {
				acc.Info = m
			}
		}
		accounts = append(accounts, acc)
	}
	return accounts, nil
}

// SetMarginMode is accepted but does nothing; the venue manages margin mode
// on-chain per account.
func (r *ReyaApi) SetMarginMode(mode string, symbol string) error {
	return nil
}

// Withdraw submits a signed withdrawal for the wallet.
func (r *ReyaApi) Withdraw(code string, amount decimal.Decimal, address string) (map[string]interface{}, error) {
	body := map[string]interface{}{
		"currency": code,
		"amount":   amount.String(),
		"address":  address,
	}
	bs, err := r.do(reya.EpWithdraw, reya.DomainPrivate, nil, body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to withdraw")
	}
	return rawMap(gjson.ParseBytes(bs)), nil
}
