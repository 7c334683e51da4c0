package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vortex/internal/config"
	"vortex/internal/gateway/simulated"
	"vortex/internal/ledger"
	"vortex/internal/order"
	"vortex/internal/pulse"
)

func testEngine(t *testing.T) (*gin.Engine, *ledger.Ledger, *pulse.Supervisor) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.NewHandle(&config.Config{
		Trading: config.TradingConfig{
			Mode:                 "SIMULATED",
			MaxNotional:          100,
			Aggression:           5,
			PositionFraction:     0.04,
			PositionFloor:        5,
			PositionCeiling:      15,
			PulseIntervalSeconds: 0.001,
			Timeframe:            "1h",
		},
	})
	venue := simulated.New(true)
	led := ledger.New(100)
	mgr := order.NewManager(cfg, venue, led)
	sup := pulse.NewSupervisor(context.Background(), cfg, venue, mgr, led)
	t.Cleanup(func() { sup.StopAll(5 * time.Second) })

	r := NewRouter(mgr, sup, venue, led, "1h")
	engine := gin.New()
	r.Register(engine.Group("/api"))
	return engine, led, sup
}

func doJSON(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestOrderEndpointSimulatedFill(t *testing.T) {
	engine, led, _ := testEngine(t)

	w := doJSON(engine, http.MethodPost, "/api/order",
		`{"symbol":"BTC/USDT","side":"buy","amount":10}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "SIMULATED", res["status"])
	assert.Equal(t, "BTC/USDT", res["symbol"])
	assert.Equal(t, 1, led.Len())
}

func TestOrderEndpointRejectsInvalidSymbol(t *testing.T) {
	engine, led, _ := testEngine(t)

	w := doJSON(engine, http.MethodPost, "/api/order",
		`{"symbol":"BTC-USDT","side":"BUY","amount":10}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var res map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "REJECTED", res["status"])
	// A rejection is still one ledger entry.
	assert.Equal(t, 1, led.Len())
	assert.Equal(t, int64(1), led.Summary().Rejections)
}

func TestOrderEndpointValidation(t *testing.T) {
	engine, led, _ := testEngine(t)

	// Missing side fails binding before reaching the manager.
	w := doJSON(engine, http.MethodPost, "/api/order", `{"symbol":"BTC/USDT"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, led.Len())

	w = doJSON(engine, http.MethodPost, "/api/order",
		`{"symbol":"BTC/USDT","side":"BUY","type":"LIMIT"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "MARKET")
	assert.Equal(t, 0, led.Len())
}

func TestOrderEndpointOverCeiling(t *testing.T) {
	engine, _, _ := testEngine(t)

	w := doJSON(engine, http.MethodPost, "/api/order",
		`{"symbol":"BTC/USDT","side":"BUY","amount":99}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "safety-adjusted limit")
}

func TestAnalyzeEndpoint(t *testing.T) {
	engine, _, _ := testEngine(t)

	w := doJSON(engine, http.MethodGet, "/api/analyze/BTC/USDT", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res struct {
		Symbol      string           `json:"symbol"`
		Signal      string           `json:"signal"`
		LastCandles []map[string]any `json:"last_candles"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "BTC/USDT", res.Symbol)
	assert.Contains(t, []string{"BUY", "SELL", "NEUTRAL"}, res.Signal)
	assert.Len(t, res.LastCandles, 5)
}

func TestAnalyzeEndpointUnknownSymbol(t *testing.T) {
	engine, _, _ := testEngine(t)

	w := doJSON(engine, http.MethodGet, "/api/analyze/BTCUSDT", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPulseLifecycle(t *testing.T) {
	engine, _, sup := testEngine(t)

	w := doJSON(engine, http.MethodPost, "/api/pulse/start/BTC/USDT", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Eventually(t, func() bool {
		return sup.Status()["BTC/USDT"].State == pulse.StateRunning
	}, 5*time.Second, 5*time.Millisecond)

	// Second start is a no-op, not an error.
	w = doJSON(engine, http.MethodPost, "/api/pulse/start/BTC/USDT", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(engine, http.MethodGet, "/api/pulse/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	var status map[string]pulse.Status
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	require.Contains(t, status, "BTC/USDT")

	w = doJSON(engine, http.MethodPost, "/api/pulse/stop", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, pulse.StateIdle, sup.Status()["BTC/USDT"].State)
}

func TestPulseStartInvalidSymbol(t *testing.T) {
	engine, _, _ := testEngine(t)

	w := doJSON(engine, http.MethodPost, "/api/pulse/start/BTCUSDT", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid symbol")
}

func TestLedgerEndpoints(t *testing.T) {
	engine, _, _ := testEngine(t)

	for i := 0; i < 3; i++ {
		doJSON(engine, http.MethodPost, "/api/order",
			`{"symbol":"BTC/USDT","side":"BUY","amount":10}`)
	}

	w := doJSON(engine, http.MethodGet, "/api/ledger?limit=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	var tail struct {
		Entries []map[string]any `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tail))
	assert.Len(t, tail.Entries, 2)

	w = doJSON(engine, http.MethodGet, "/api/ledger/summary", "")
	require.Equal(t, http.StatusOK, w.Code)
	var sum ledger.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sum))
	assert.Equal(t, int64(3), sum.Total)
	assert.Equal(t, int64(3), sum.Simulated)
}
