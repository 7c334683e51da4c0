package exchange

type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Opposite returns the offsetting side, used by the flatten pass.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

type OrderStatus string

const (
	StatusFilled    OrderStatus = "FILLED"
	StatusRejected  OrderStatus = "REJECTED"
	StatusError     OrderStatus = "ERROR"
	StatusSimulated OrderStatus = "SIMULATED"
)

type OrderType string

const (
	TypeMarket OrderType = "MARKET"
	TypeLimit  OrderType = "LIMIT"
)

// OrderResult is the uniform outcome of an order attempt, regardless of mode
// or venue.
type OrderResult struct {
	ID     string      `json:"id"`
	Symbol string      `json:"symbol"`
	Side   Side        `json:"side"`
	Type   OrderType   `json:"type"`
	Amount float64     `json:"amount"`
	Price  float64     `json:"price"`
	Status OrderStatus `json:"status"`
	Reason string      `json:"reason,omitempty"`
}
