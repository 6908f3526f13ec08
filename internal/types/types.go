package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Mode selects which vendor environment a call is executed against.
type Mode string

const (
	ModePaper Mode = "paper"
	ModeLive  Mode = "live"
)

// Valid reports whether m is one of the recognized trading modes.
func (m Mode) Valid() bool {
	return m == ModePaper || m == ModeLive
}

// TradingModeConfig carries the two switches that decide whether an
// order-producing call may execute. It is evaluated at call time, never
// cached, so flipping AutoExecute takes effect on the next call.
type TradingModeConfig struct {
	Mode        Mode `yaml:"mode"`
	AutoExecute bool `yaml:"auto_execute"`
}

// Armed reports whether order submission is permitted: paper mode is always
// armed, live mode only with the explicit auto-execute opt-in.
func (c TradingModeConfig) Armed() bool {
	return c.Mode == ModePaper || (c.Mode == ModeLive && c.AutoExecute)
}

// Action is a logical operation routed through the provider registry.
type Action string

const (
	ActionPlaceOrder     Action = "place_order"
	ActionCancelOrder    Action = "cancel_order"
	ActionGetPositions   Action = "get_positions"
	ActionGetAccount     Action = "get_account"
	ActionGetBars        Action = "get_bars"
	ActionGetLatestQuote Action = "get_latest_quote"
)

// Known reports whether a is part of the fixed action set.
func (a Action) Known() bool {
	switch a {
	case ActionPlaceOrder, ActionCancelOrder, ActionGetPositions,
		ActionGetAccount, ActionGetBars, ActionGetLatestQuote:
		return true
	}
	return false
}

// OrderProducing reports whether a mutates order state at the vendor.
// These are the actions that pass through the trading-mode safety gate.
func (a Action) OrderProducing() bool {
	return a == ActionPlaceOrder || a == ActionCancelOrder
}

// Side is the direction of an order.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// OrderKind is the execution style of an order.
type OrderKind string

const (
	OrderKindMarket       OrderKind = "market"
	OrderKindLimit        OrderKind = "limit"
	OrderKindStop         OrderKind = "stop"
	OrderKindStopLimit    OrderKind = "stop_limit"
	OrderKindTrailingStop OrderKind = "trailing_stop"
)

// OrderRequest describes an order to be submitted to a vendor. Exactly one
// of Qty and Notional must be set. Kind-specific price fields are required
// per kind (limit price for limit/stop_limit, stop price for stop/stop_limit,
// one of trail amount or trail percent for trailing_stop).
//
// A request is validated and normalized once before submission and treated
// as immutable afterwards.
type OrderRequest struct {
	Symbol        string
	Side          Side
	Kind          OrderKind
	Qty           *decimal.Decimal
	Notional      *decimal.Decimal
	LimitPrice    *decimal.Decimal
	StopPrice     *decimal.Decimal
	TrailAmount   *decimal.Decimal
	TrailPercent  *decimal.Decimal
	ClientOrderID string
}

// OrderResult is the vendor's acknowledgement of a submitted order.
type OrderResult struct {
	OrderID       string
	ClientOrderID string
	Symbol        string
	Status        string
	SubmittedAt   time.Time
}

// Position is a holding reported by the trading vendor.
type Position struct {
	Symbol        string
	Qty           decimal.Decimal
	AvgEntryPrice decimal.Decimal
	MarketValue   decimal.Decimal
	UnrealizedPL  decimal.Decimal
}

// AccountSnapshot is a point-in-time view of the trading account.
type AccountSnapshot struct {
	ID          string
	Currency    string
	Cash        decimal.Decimal
	BuyingPower decimal.Decimal
	Equity      decimal.Decimal
}

// Quote is the latest top-of-book quote for a symbol.
type Quote struct {
	Symbol    string
	BidPrice  float64
	BidSize   int64
	AskPrice  float64
	AskSize   int64
	Timestamp time.Time
}

// Bar is a single OHLCV bar.
type Bar struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
}

// BarsQuery selects a window of bars for a symbol.
type BarsQuery struct {
	Symbol string
	Start  time.Time
	End    time.Time
	Limit  int
}
