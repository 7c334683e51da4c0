package binance

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
	"github.com/stretchr/testify/assert"

	"vortex/internal/gateway/exchange"
)

func apiErr(code int64, msg string) error {
	return &common.APIError{Code: code, Message: msg}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want func(error) bool
	}{
		{"invalid symbol", apiErr(-1121, "Invalid symbol."), func(e error) bool { return errors.Is(e, exchange.ErrSymbolUnknown) }},
		{"rate limit", apiErr(-1003, "Too many requests."), exchange.IsTransient},
		{"ip ban", apiErr(-1015, "Too many orders."), exchange.IsTransient},
		{"insufficient balance", apiErr(-2010, "Account has insufficient balance."), exchange.IsPermanent},
		{"unknown order", apiErr(-2011, "Unknown order sent."), exchange.IsPermanent},
		{"filter failure", apiErr(-1013, "Filter failure: LOT_SIZE"), exchange.IsPermanent},
		{"illegal chars", apiErr(-1100, "Illegal characters."), exchange.IsPermanent},
		{"server side", apiErr(503, "Service unavailable."), exchange.IsTransient},
		{"unmapped api code", apiErr(-9999, "something new"), exchange.IsPermanent},
		{"transport error", fmt.Errorf("connection reset"), exchange.IsTransient},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, tc.want(classify(tc.err)))
		})
	}
}

func TestClassifyPropagatesCancellation(t *testing.T) {
	err := classify(fmt.Errorf("request: %w", context.Canceled))
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, exchange.IsTransient(err))
	assert.False(t, exchange.IsPermanent(err))
}

func TestAvgFillPrice(t *testing.T) {
	resp := &binance.CreateOrderResponse{
		Fills: []*binance.Fill{
			{Price: "100", Quantity: "1"},
			{Price: "110", Quantity: "3"},
		},
	}
	assert.InDelta(t, 107.5, avgFillPrice(resp), 1e-9)

	assert.Zero(t, avgFillPrice(&binance.CreateOrderResponse{}))
	assert.Zero(t, avgFillPrice(&binance.CreateOrderResponse{
		Fills: []*binance.Fill{{Price: "100", Quantity: "0"}},
	}))
}

func TestParseFloat(t *testing.T) {
	assert.Equal(t, 1.5, parseFloat("1.5"))
	assert.Equal(t, 1.5, parseFloat(" 1.5 "))
	assert.Zero(t, parseFloat(""))
	assert.Zero(t, parseFloat("abc"))
}

func TestSandboxBaseURL(t *testing.T) {
	v, err := New(Config{Sandbox: true})
	assert.NoError(t, err)
	assert.Equal(t, testnetBaseURL, v.client.BaseURL)

	v, err = New(Config{})
	assert.NoError(t, err)
	assert.Equal(t, mainnetBaseURL, v.client.BaseURL)
}
