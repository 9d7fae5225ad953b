package types

import "github.com/shopspring/decimal"

// OrderType distinguishes market and limit orders.
type OrderType string

const (
	OrderMarket OrderType = "market"
	OrderLimit  OrderType = "limit"
)

// ExecParams carries exchange execution flags attached to an order.
type ExecParams struct {
	ReduceOnly  bool   `json:"reduce_only"`
	PostOnly    bool   `json:"post_only"`
	TimeInForce string `json:"time_in_force"` // e.g. "GTC"
}

// TradeIntent is a fully specified order request built by the execution loop
// and consumed by a MarketClient. LimitPrice is nil for market orders.
type TradeIntent struct {
	Symbol     string     `json:"symbol"`
	Side       Side       `json:"side"`
	Type       OrderType  `json:"type"`
	Amount     float64    `json:"amount"`
	LimitPrice *float64   `json:"limit_price,omitempty"`
	Params     ExecParams `json:"params"`
}

// AmountDecimal returns the order quantity as a decimal suitable for
// exchange APIs that reject float formatting artifacts.
func (ti TradeIntent) AmountDecimal() decimal.Decimal {
	return decimal.NewFromFloat(ti.Amount)
}

// LimitPriceDecimal returns the limit price rounded to the given number of
// decimal places, or false for market orders.
func (ti TradeIntent) LimitPriceDecimal(places int32) (decimal.Decimal, bool) {
	if ti.LimitPrice == nil {
		return decimal.Decimal{}, false
	}
	return decimal.NewFromFloat(*ti.LimitPrice).Round(places), true
}

// OrderOutcome is the terminal result of one order submission. It is never
// mutated after creation; a failed submission is reported here rather than
// raised as an error out of the loop.
type OrderOutcome struct {
	OK       bool   `json:"ok"`
	DryRun   bool   `json:"dry_run,omitempty"`
	Failover bool   `json:"failover,omitempty"`
	OrderID  string `json:"order_id,omitempty"`
	Error    string `json:"error,omitempty"`
}

// TradeRecord is the persisted form of a submitted order, owned by the
// journal and read back by PnL accounting in timestamp order. Append-only.
type TradeRecord struct {
	Timestamp int64     `json:"ts"`
	Symbol    string    `json:"symbol"`
	Side      Side      `json:"side"`
	Type      OrderType `json:"type"`
	Amount    float64   `json:"amount"`
	Price     float64   `json:"price"`
	DryRun    bool      `json:"dry_run"`
	OK        bool      `json:"ok"`
}
