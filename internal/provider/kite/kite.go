// Package kite adapts the Zerodha Kite Connect API to the gateway's vendor
// contract. Kite has no sandbox, so paper and live sessions hit the same
// endpoint; the handle registry still keys them separately. The secret half
// of the credential pair is the access token produced by Kite's login flow.
package kite

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/shopspring/decimal"
	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"agent-trading-gateway/internal/interfaces"
	"agent-trading-gateway/internal/types"
)

// Name is the provider key this adapter registers under.
const Name = "zerodha"

var _ interfaces.VendorClient = (*Client)(nil)

// Client is one Kite Connect session.
type Client struct {
	kc       *kiteconnect.Client
	exchange string

	mu     sync.Mutex
	tokens map[string]int // tradingsymbol -> instrument token, built lazily
}

// Dialer returns a dialer for Kite sessions on the given exchange
// (e.g. "NSE").
func Dialer(exchange string) interfaces.Dialer {
	return func(key, secret string, _ types.Mode) (interfaces.VendorClient, error) {
		kc := kiteconnect.New(key)
		kc.SetAccessToken(secret)
		return &Client{kc: kc, exchange: exchange}, nil
	}
}

// PlaceOrder submits a validated order. Kite takes whole-share quantities
// only; notional sizing and trailing stops are rejected up front rather
// than mistranslated.
func (c *Client) PlaceOrder(_ context.Context, req types.OrderRequest) (types.OrderResult, error) {
	if req.Notional != nil {
		return types.OrderResult{}, &types.VendorRejectedError{
			Provider: Name, Code: http.StatusBadRequest,
			Message: "notional orders are not supported by this vendor",
		}
	}
	if req.Kind == types.OrderKindTrailingStop {
		return types.OrderResult{}, &types.VendorRejectedError{
			Provider: Name, Code: http.StatusBadRequest,
			Message: "trailing stop orders are not supported by this vendor",
		}
	}

	params := kiteconnect.OrderParams{
		Exchange:        c.exchange,
		Tradingsymbol:   req.Symbol,
		Product:         kiteconnect.ProductCNC,
		OrderType:       orderType(req.Kind),
		TransactionType: transactionType(req.Side),
		Quantity:        int(req.Qty.IntPart()),
		Validity:        kiteconnect.ValidityDay,
	}
	if req.LimitPrice != nil {
		params.Price, _ = req.LimitPrice.Float64()
	}
	if req.StopPrice != nil {
		params.TriggerPrice, _ = req.StopPrice.Float64()
	}

	resp, err := c.kc.PlaceOrder(kiteconnect.VarietyRegular, params)
	if err != nil {
		return types.OrderResult{}, mapErr(err)
	}
	return types.OrderResult{
		OrderID:       resp.OrderID,
		ClientOrderID: req.ClientOrderID,
		Symbol:        req.Symbol,
		Status:        "submitted",
	}, nil
}

// CancelOrder requests cancellation of an open order.
func (c *Client) CancelOrder(_ context.Context, orderID string) error {
	if _, err := c.kc.CancelOrder(kiteconnect.VarietyRegular, orderID, nil); err != nil {
		return mapErr(err)
	}
	return nil
}

// Positions returns net holdings.
func (c *Client) Positions(_ context.Context) ([]types.Position, error) {
	positions, err := c.kc.GetPositions()
	if err != nil {
		return nil, mapErr(err)
	}

	out := make([]types.Position, 0, len(positions.Net))
	for _, p := range positions.Net {
		out = append(out, types.Position{
			Symbol:        p.Tradingsymbol,
			Qty:           decimalFromInt(p.Quantity),
			AvgEntryPrice: decimalFromFloat(p.AveragePrice),
			MarketValue:   decimalFromFloat(p.LastPrice * float64(p.Quantity)),
			UnrealizedPL:  decimalFromFloat(p.PnL),
		})
	}
	return out, nil
}

// Account returns the equity segment margins as an account snapshot.
func (c *Client) Account(_ context.Context) (types.AccountSnapshot, error) {
	margins, err := c.kc.GetUserMargins()
	if err != nil {
		return types.AccountSnapshot{}, mapErr(err)
	}
	return types.AccountSnapshot{
		Currency:    "INR",
		Cash:        decimalFromFloat(margins.Equity.Available.Cash),
		BuyingPower: decimalFromFloat(margins.Equity.Net),
		Equity:      decimalFromFloat(margins.Equity.Net),
	}, nil
}

// Bars returns daily OHLCV bars via the historical-data API. Kite keys
// history by instrument token, so the symbol is resolved through a lazily
// built instrument map.
func (c *Client) Bars(_ context.Context, q types.BarsQuery) ([]types.Bar, error) {
	token, err := c.instrumentToken(q.Symbol)
	if err != nil {
		return nil, err
	}

	candles, err := c.kc.GetHistoricalData(token, "day", q.Start, q.End, false, false)
	if err != nil {
		return nil, mapErr(err)
	}

	out := make([]types.Bar, 0, len(candles))
	for _, h := range candles {
		out = append(out, types.Bar{
			Timestamp: h.Date.Time,
			Open:      h.Open,
			High:      h.High,
			Low:       h.Low,
			Close:     h.Close,
			Volume:    int64(h.Volume),
		})
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[len(out)-q.Limit:]
	}
	return out, nil
}

// LatestQuote returns the top of book from the full-quote API.
func (c *Client) LatestQuote(_ context.Context, symbol string) (types.Quote, error) {
	instrument := fmt.Sprintf("%s:%s", c.exchange, symbol)
	quotes, err := c.kc.GetQuote(instrument)
	if err != nil {
		return types.Quote{}, mapErr(err)
	}

	q, ok := quotes[instrument]
	if !ok {
		return types.Quote{}, &types.VendorRejectedError{
			Provider: Name, Code: http.StatusNotFound,
			Message: fmt.Sprintf("no quote for %s", instrument),
		}
	}

	out := types.Quote{Symbol: symbol, Timestamp: q.Timestamp.Time}
	if len(q.Depth.Buy) > 0 {
		out.BidPrice = q.Depth.Buy[0].Price
		out.BidSize = int64(q.Depth.Buy[0].Quantity)
	}
	if len(q.Depth.Sell) > 0 {
		out.AskPrice = q.Depth.Sell[0].Price
		out.AskSize = int64(q.Depth.Sell[0].Quantity)
	}
	return out, nil
}

// Close releases the session. Kite sessions are plain HTTP; nothing to
// tear down.
func (c *Client) Close() error { return nil }

// instrumentToken resolves a tradingsymbol to its instrument token,
// building the exchange's instrument map on first use.
func (c *Client) instrumentToken(symbol string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.tokens == nil {
		instruments, err := c.kc.GetInstrumentsByExchange(c.exchange)
		if err != nil {
			return 0, mapErr(err)
		}
		c.tokens = make(map[string]int, len(instruments))
		for _, in := range instruments {
			c.tokens[in.Tradingsymbol] = in.InstrumentToken
		}
	}

	token, ok := c.tokens[symbol]
	if !ok {
		return 0, &types.VendorRejectedError{
			Provider: Name, Code: http.StatusNotFound,
			Message: fmt.Sprintf("unknown instrument %s on %s", symbol, c.exchange),
		}
	}
	return token, nil
}

func orderType(kind types.OrderKind) string {
	switch kind {
	case types.OrderKindLimit:
		return kiteconnect.OrderTypeLimit
	case types.OrderKindStop:
		return kiteconnect.OrderTypeSLM
	case types.OrderKindStopLimit:
		return kiteconnect.OrderTypeSL
	default:
		return kiteconnect.OrderTypeMarket
	}
}

func decimalFromInt(v int) decimal.Decimal {
	return decimal.NewFromInt(int64(v))
}

func decimalFromFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func transactionType(side types.Side) string {
	if side == types.SideSell {
		return kiteconnect.TransactionTypeSell
	}
	return kiteconnect.TransactionTypeBuy
}

// mapErr folds Kite SDK errors into the gateway taxonomy. The SDK tags
// every API failure with an error type and the HTTP status.
func mapErr(err error) error {
	var kerr kiteconnect.Error
	if !errors.As(err, &kerr) {
		return &types.TransientError{Provider: Name, Err: err}
	}

	if kerr.Code == http.StatusTooManyRequests {
		return &types.RateLimitedError{Provider: Name, Message: kerr.Message}
	}
	switch kerr.ErrorType {
	case kiteconnect.TokenError, kiteconnect.PermissionError, kiteconnect.TwoFAError:
		return &types.AuthenticationError{Provider: Name, Message: kerr.Message}
	case kiteconnect.NetworkError, kiteconnect.GeneralError:
		return &types.TransientError{Provider: Name, Err: err}
	default:
		return &types.VendorRejectedError{Provider: Name, Code: kerr.Code, Message: kerr.Message}
	}
}
