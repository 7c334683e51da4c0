// Package mexc implements the exchange capability set on the MEXC spot REST
// API. MEXC publishes no official Go SDK, so this is a thin signed HTTP
// client; responses are picked apart with gjson rather than mirrored into
// full response structs.
package mexc

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"vortex/internal/gateway/exchange"
	"vortex/internal/market"
	symbolpkg "vortex/internal/pkg/symbol"
)

const (
	baseURL       = "https://api.mexc.com"
	maxKlineLimit = 1000
)

// MEXC uses minute-denominated interval names where Binance uses hour ones.
var intervalMap = map[string]string{
	"1h": "60m",
}

type Config struct {
	APIKey      string
	Secret      string
	BaseURL     string // override, mainly for tests
	HTTPTimeout time.Duration
}

type Venue struct {
	cfg    Config
	base   string
	client *http.Client
	nowFn  func() time.Time
}

func New(cfg Config) (*Venue, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = baseURL
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Venue{
		cfg:    cfg,
		base:   strings.TrimRight(base, "/"),
		client: &http.Client{Timeout: timeout},
		nowFn:  time.Now,
	}, nil
}

func (v *Venue) Name() string { return "mexc" }

func (v *Venue) FetchOHLCV(ctx context.Context, symbol, timeframe string, limit int) ([]market.Candle, error) {
	if v == nil || v.client == nil {
		return nil, exchange.ErrUnavailable
	}
	if limit <= 0 {
		limit = 100
	}
	if limit > maxKlineLimit {
		limit = maxKlineLimit
	}
	interval := strings.ToLower(strings.TrimSpace(timeframe))
	if mapped, ok := intervalMap[interval]; ok {
		interval = mapped
	}
	params := url.Values{}
	params.Set("symbol", symbolpkg.ToExchange(symbol))
	params.Set("interval", interval)
	params.Set("limit", strconv.Itoa(limit))
	body, err := v.public(ctx, "/api/v3/klines", params)
	if err != nil {
		return nil, err
	}
	rows := gjson.ParseBytes(body).Array()
	out := make([]market.Candle, 0, len(rows))
	for _, row := range rows {
		cols := row.Array()
		if len(cols) < 7 {
			continue
		}
		out = append(out, market.Candle{
			OpenTime:  cols[0].Int(),
			Open:      cols[1].Float(),
			High:      cols[2].Float(),
			Low:       cols[3].Float(),
			Close:     cols[4].Float(),
			Volume:    cols[5].Float(),
			CloseTime: cols[6].Int(),
		})
	}
	return out, nil
}

func (v *Venue) FetchLastPrice(ctx context.Context, symbol string) (float64, error) {
	if v == nil || v.client == nil {
		return 0, exchange.ErrUnavailable
	}
	params := url.Values{}
	params.Set("symbol", symbolpkg.ToExchange(symbol))
	body, err := v.public(ctx, "/api/v3/ticker/price", params)
	if err != nil {
		return 0, err
	}
	px := gjson.GetBytes(body, "price").Float()
	if px <= 0 {
		return 0, exchange.Transient(fmt.Errorf("zero price for %s", symbol))
	}
	return px, nil
}

func (v *Venue) FetchEquity(ctx context.Context, quote string) (float64, error) {
	if v == nil || v.client == nil {
		return 0, exchange.ErrUnavailable
	}
	body, err := v.signed(ctx, http.MethodGet, "/api/v3/account", url.Values{})
	if err != nil {
		return 0, err
	}
	quote = strings.ToUpper(strings.TrimSpace(quote))
	total := 0.0
	gjson.GetBytes(body, "balances").ForEach(func(_, bal gjson.Result) bool {
		if strings.ToUpper(bal.Get("asset").String()) == quote {
			total = bal.Get("free").Float() + bal.Get("locked").Float()
			return false
		}
		return true
	})
	return total, nil
}

func (v *Venue) PlaceMarketOrder(ctx context.Context, symbol string, side exchange.Side, baseAmount, priceRef float64) (exchange.OrderResult, error) {
	if v == nil || v.client == nil {
		return exchange.OrderResult{}, exchange.ErrUnavailable
	}
	params := url.Values{}
	params.Set("symbol", symbolpkg.ToExchange(symbol))
	params.Set("side", string(side))
	params.Set("type", "MARKET")
	params.Set("quantity", strconv.FormatFloat(baseAmount, 'f', 8, 64))
	body, err := v.signed(ctx, http.MethodPost, "/api/v3/order", params)
	if err != nil {
		return exchange.OrderResult{}, err
	}
	res := gjson.ParseBytes(body)
	price := res.Get("price").Float()
	if price <= 0 {
		price = priceRef
	}
	amount := res.Get("executedQty").Float()
	if amount <= 0 {
		amount = baseAmount
	}
	return exchange.OrderResult{
		ID:     res.Get("orderId").String(),
		Symbol: symbolpkg.FromExchange(res.Get("symbol").String()),
		Side:   side,
		Type:   exchange.TypeMarket,
		Amount: amount,
		Price:  price,
		Status: exchange.StatusFilled,
	}, nil
}

func (v *Venue) Close() error { return nil }

func (v *Venue) public(ctx context.Context, path string, params url.Values) ([]byte, error) {
	return v.do(ctx, http.MethodGet, path, params, false)
}

func (v *Venue) signed(ctx context.Context, method, path string, params url.Values) ([]byte, error) {
	params.Set("timestamp", strconv.FormatInt(v.nowFn().UnixMilli(), 10))
	params.Set("recvWindow", "5000")
	params.Set("signature", v.sign(params.Encode()))
	return v.do(ctx, method, path, params, true)
}

func (v *Venue) sign(query string) string {
	mac := hmac.New(sha256.New, []byte(v.cfg.Secret))
	mac.Write([]byte(query))
	return hex.EncodeToString(mac.Sum(nil))
}

func (v *Venue) do(ctx context.Context, method, path string, params url.Values, auth bool) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, v.base+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, exchange.Permanent(err)
	}
	if auth {
		req.Header.Set("X-MEXC-APIKEY", v.cfg.APIKey)
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return nil, exchange.Transient(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, exchange.Transient(err)
	}
	if resp.StatusCode == http.StatusOK {
		return body, nil
	}
	return nil, classifyHTTP(resp.StatusCode, body)
}

func classifyHTTP(status int, body []byte) error {
	code := gjson.GetBytes(body, "code").Int()
	msg := gjson.GetBytes(body, "msg").String()
	err := fmt.Errorf("mexc http %d code=%d msg=%s", status, code, msg)
	switch {
	case code == -1121 || strings.Contains(strings.ToLower(msg), "invalid symbol"):
		return exchange.ErrSymbolUnknown
	case status == http.StatusTooManyRequests || status >= 500:
		return exchange.Transient(err)
	default:
		return exchange.Permanent(err)
	}
}
