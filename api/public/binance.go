package public

import (
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"github.com/fxpgr/go-reya-client/logger"
	"github.com/fxpgr/go-reya-client/models"
)

const (
	BINANCE_BASE_URL = "https://api.binance.com"
)

// BinanceApi is the external candle collaborator. Reya serves no usable
// candle resolutions, so OHLCV reads go to the Binance spot klines endpoint
// for the matching USDT pair.
type BinanceApi struct {
	BaseURL    string
	HttpClient *http.Client
}

func NewBinanceApi() *BinanceApi {
	return &BinanceApi{
		BaseURL:    BINANCE_BASE_URL,
		HttpClient: http.DefaultClient,
	}
}

func requestGetAsChrome(url string) (*http.Request, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return req, err
	}
	req.Header.Add("User-Agent", "Mozilla/5.0 (Windows NT 6.3; WOW64; Trident/7.0; MAFSJS; rv:11.0) like Gecko")
	return req, err
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		logger.Get().Warnf("unparsable decimal %q, defaulting to zero", s)
		return decimal.Zero
	}
	return d
}

// FetchOHLCV fetches klines for a raw pair like "BTCUSDT". Resolution uses
// the venue interval notation (1m, 5m, 1h, 4h, 1d, 1w, 1M).
func (b *BinanceApi) FetchOHLCV(pair string, resolution string, since int64, limit int) ([]models.Candle, error) {
	val := url.Values{}
	val.Set("symbol", pair)
	val.Set("interval", resolution)
	if since > 0 {
		val.Set("startTime", strconv.FormatInt(since, 10))
	}
	if limit > 0 {
		val.Set("limit", strconv.Itoa(limit))
	}
	reqURL := fmt.Sprintf("%s/api/v3/klines?%s", b.BaseURL, val.Encode())
	req, err := requestGetAsChrome(reqURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch %s", reqURL)
	}
	resp, err := b.HttpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch %s", reqURL)
	}
	defer resp.Body.Close()
	byteArray, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch %s", reqURL)
	}
	if resp.StatusCode != 200 {
		return nil, errors.Errorf("HttpStatusCode:%d ,Desc:%s", resp.StatusCode, string(byteArray))
	}

	value := gjson.ParseBytes(byteArray)
	var candles []models.Candle
	for _, row := range value.Array() {
		cols := row.Array()
		if len(cols) < 6 {
			continue
		}
		candles = append(candles, models.Candle{
			Timestamp: cols[0].Int(),
			Open:      parseDecimal(cols[1].String()),
			High:      parseDecimal(cols[2].String()),
			Low:       parseDecimal(cols[3].String()),
			Close:     parseDecimal(cols[4].String()),
			Volume:    parseDecimal(cols[5].String()),
		})
	}
	return candles, nil
}
