// Package binance implements the exchange capability set on the Binance spot
// API via the go-binance SDK. Sandbox mode points the client at the spot
// testnet; order placement is otherwise identical.
package binance

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"

	"vortex/internal/gateway/exchange"
	"vortex/internal/market"
	symbolpkg "vortex/internal/pkg/symbol"
)

const (
	mainnetBaseURL = "https://api.binance.com"
	testnetBaseURL = "https://testnet.binance.vision"

	maxKlineLimit = 1000
)

type Config struct {
	APIKey      string
	Secret      string
	Sandbox     bool
	BaseURL     string // override, mainly for tests
	HTTPTimeout time.Duration
}

type Venue struct {
	client *binance.Client
}

func New(cfg Config) (*Venue, error) {
	client := binance.NewClient(cfg.APIKey, cfg.Secret)
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = mainnetBaseURL
		if cfg.Sandbox {
			base = testnetBaseURL
		}
	}
	client.BaseURL = base
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client.HTTPClient = &http.Client{Timeout: timeout}
	return &Venue{client: client}, nil
}

func (v *Venue) Name() string { return "binance" }

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
	if interval == "" {
		return nil, exchange.Permanent(fmt.Errorf("timeframe is required"))
	}
	clean := symbolpkg.ToExchange(symbol)
	kls, err := v.client.NewKlinesService().Symbol(clean).Interval(interval).Limit(limit).Do(ctx)
	if err != nil {
		return nil, classify(err)
	}
	out := make([]market.Candle, 0, len(kls))
	for _, kl := range kls {
		if kl == nil {
			continue
		}
		out = append(out, market.Candle{
			OpenTime:  kl.OpenTime,
			CloseTime: kl.CloseTime,
			Open:      parseFloat(kl.Open),
			High:      parseFloat(kl.High),
			Low:       parseFloat(kl.Low),
			Close:     parseFloat(kl.Close),
			Volume:    parseFloat(kl.Volume),
		})
	}
	return out, nil
}

func (v *Venue) FetchLastPrice(ctx context.Context, symbol string) (float64, error) {
	if v == nil || v.client == nil {
		return 0, exchange.ErrUnavailable
	}
	clean := symbolpkg.ToExchange(symbol)
	prices, err := v.client.NewListPricesService().Symbol(clean).Do(ctx)
	if err != nil {
		return 0, classify(err)
	}
	for _, p := range prices {
		if p != nil && p.Symbol == clean {
			px := parseFloat(p.Price)
			if px <= 0 {
				return 0, exchange.Transient(fmt.Errorf("zero price for %s", symbol))
			}
			return px, nil
		}
	}
	return 0, exchange.ErrSymbolUnknown
}

func (v *Venue) FetchEquity(ctx context.Context, quote string) (float64, error) {
	if v == nil || v.client == nil {
		return 0, exchange.ErrUnavailable
	}
	acct, err := v.client.NewGetAccountService().Do(ctx)
	if err != nil {
		return 0, classify(err)
	}
	quote = strings.ToUpper(strings.TrimSpace(quote))
	for _, bal := range acct.Balances {
		if strings.ToUpper(bal.Asset) == quote {
			return parseFloat(bal.Free) + parseFloat(bal.Locked), nil
		}
	}
	return 0, nil
}

func (v *Venue) PlaceMarketOrder(ctx context.Context, symbol string, side exchange.Side, baseAmount, priceRef float64) (exchange.OrderResult, error) {
	if v == nil || v.client == nil {
		return exchange.OrderResult{}, exchange.ErrUnavailable
	}
	clean := symbolpkg.ToExchange(symbol)
	sideType := binance.SideTypeBuy
	if side == exchange.SideSell {
		sideType = binance.SideTypeSell
	}
	qty := strconv.FormatFloat(baseAmount, 'f', 8, 64)
	resp, err := v.client.NewCreateOrderService().
		Symbol(clean).
		Side(sideType).
		Type(binance.OrderTypeMarket).
		Quantity(qty).
		Do(ctx)
	if err != nil {
		return exchange.OrderResult{}, classify(err)
	}
	filled := parseFloat(resp.ExecutedQuantity)
	price := avgFillPrice(resp)
	if price <= 0 {
		price = priceRef
	}
	return exchange.OrderResult{
		ID:     strconv.FormatInt(resp.OrderID, 10),
		Symbol: symbolpkg.FromExchange(resp.Symbol),
		Side:   side,
		Type:   exchange.TypeMarket,
		Amount: filled,
		Price:  price,
		Status: exchange.StatusFilled,
	}, nil
}

func (v *Venue) Close() error { return nil }

func avgFillPrice(resp *binance.CreateOrderResponse) float64 {
	var qty, quote float64
	for _, f := range resp.Fills {
		if f == nil {
			continue
		}
		q := parseFloat(f.Quantity)
		qty += q
		quote += q * parseFloat(f.Price)
	}
	if qty <= 0 {
		return 0
	}
	return quote / qty
}

// classify maps SDK failures onto the shared taxonomy. Binance error codes:
// -1121 invalid symbol, -1003/-1015 rate limits, -2010/-2011/-1013 order
// rejections.
func classify(err error) error {
	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case -1121:
			return exchange.ErrSymbolUnknown
		case -1003, -1015:
			return exchange.Transient(err)
		case -2010, -2011, -1013, -1100, -1102:
			return exchange.Permanent(err)
		}
		if apiErr.Code >= 500 && apiErr.Code < 600 {
			return exchange.Transient(err)
		}
		return exchange.Permanent(err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	// Anything else at this point is the transport misbehaving.
	return exchange.Transient(err)
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}
