package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"vortex/internal/gateway/exchange"
	"vortex/internal/ledger"
	"vortex/internal/order"
	"vortex/internal/pulse"
	"vortex/internal/strategy"
)

const analyzeWindow = 100

type Router struct {
	Manager    *order.Manager
	Supervisor *pulse.Supervisor
	Venue      exchange.Exchange
	Ledger     *ledger.Ledger
	Timeframe  string
}

func NewRouter(manager *order.Manager, sup *pulse.Supervisor, venue exchange.Exchange, led *ledger.Ledger, timeframe string) *Router {
	return &Router{Manager: manager, Supervisor: sup, Venue: venue, Ledger: led, Timeframe: timeframe}
}

func (r *Router) Register(group *gin.RouterGroup) {
	if group == nil {
		return
	}
	group.POST("/order", r.handleOrder)
	group.GET("/analyze/*symbol", r.handleAnalyze)
	group.POST("/pulse/start/*symbol", r.handlePulseStart)
	group.POST("/pulse/stop", r.handlePulseStop)
	group.GET("/pulse/status", r.handlePulseStatus)
	group.GET("/ledger", r.handleLedgerTail)
	group.GET("/ledger/summary", r.handleLedgerSummary)
}

type orderRequest struct {
	Symbol string  `json:"symbol" binding:"required"`
	Side   string  `json:"side" binding:"required"`
	Amount float64 `json:"amount"`
	Type   string  `json:"type"`
}

func (r *Router) handleOrder(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	typ := strings.ToUpper(strings.TrimSpace(req.Type))
	if typ != "" && typ != string(exchange.TypeMarket) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only MARKET orders are supported"})
		return
	}
	side := exchange.Side(strings.ToUpper(strings.TrimSpace(req.Side)))
	res := r.Manager.Place(c.Request.Context(), req.Symbol, side, req.Amount, strategy.SignalNeutral)
	c.JSON(statusCode(res.Status), res)
}

func statusCode(s exchange.OrderStatus) int {
	switch s {
	case exchange.StatusRejected:
		return http.StatusBadRequest
	case exchange.StatusError:
		return http.StatusInternalServerError
	default:
		return http.StatusOK
	}
}

func (r *Router) handleAnalyze(c *gin.Context) {
	sym := strings.ToUpper(strings.Trim(c.Param("symbol"), "/"))
	candles, err := r.Venue.FetchOHLCV(c.Request.Context(), sym, r.Timeframe, analyzeWindow)
	if err != nil {
		code := http.StatusBadGateway
		if exchange.IsPermanent(err) {
			code = http.StatusBadRequest
		}
		c.JSON(code, gin.H{"error": err.Error()})
		return
	}
	sig := strategy.Crossover(candles)
	tail := candles
	if len(tail) > 5 {
		tail = tail[len(tail)-5:]
	}
	c.JSON(http.StatusOK, gin.H{
		"symbol":       sym,
		"signal":       sig,
		"last_candles": tail,
	})
}

func (r *Router) handlePulseStart(c *gin.Context) {
	sym := strings.Trim(c.Param("symbol"), "/")
	if err := r.Supervisor.Start(sym); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"symbol": strings.ToUpper(sym), "status": "running"})
}

func (r *Router) handlePulseStop(c *gin.Context) {
	r.Supervisor.StopAll(60 * time.Second)
	c.JSON(http.StatusOK, gin.H{"status": "stopped"})
}

func (r *Router) handlePulseStatus(c *gin.Context) {
	c.JSON(http.StatusOK, r.Supervisor.Status())
}

func (r *Router) handleLedgerTail(c *gin.Context) {
	n, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if n <= 0 {
		n = 50
	}
	if n > 500 {
		n = 500
	}
	c.JSON(http.StatusOK, gin.H{"entries": r.Ledger.Tail(n)})
}

func (r *Router) handleLedgerSummary(c *gin.Context) {
	c.JSON(http.StatusOK, r.Ledger.Summary())
}
