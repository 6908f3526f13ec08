// Package alpaca adapts the Alpaca brokerage and market-data API to the
// gateway's vendor contract. Paper and live sessions differ only in the
// trading base URL; market data is served from the shared data endpoint.
package alpaca

import (
	"context"
	"errors"
	"net/http"

	alpacaapi "github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/google/uuid"

	"agent-trading-gateway/internal/interfaces"
	"agent-trading-gateway/internal/types"
)

// Name is the provider key this adapter registers under.
const Name = "alpaca"

const (
	paperBaseURL = "https://paper-api.alpaca.markets"
	liveBaseURL  = "https://api.alpaca.markets"
)

var _ interfaces.VendorClient = (*Client)(nil)

// Client is one Alpaca session: a trading client bound to the paper or live
// endpoint plus a market-data client.
type Client struct {
	trading *alpacaapi.Client
	data    *marketdata.Client
}

// Dial constructs an Alpaca session for the given mode.
func Dial(key, secret string, mode types.Mode) (interfaces.VendorClient, error) {
	base := paperBaseURL
	if mode == types.ModeLive {
		base = liveBaseURL
	}
	return &Client{
		trading: alpacaapi.NewClient(alpacaapi.ClientOpts{
			APIKey:    key,
			APISecret: secret,
			BaseURL:   base,
			// Retry policy lives in internal/client; keep the SDK's own
			// 429 retrying out of the way.
			RetryLimit: 1,
		}),
		data: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    key,
			APISecret: secret,
		}),
	}, nil
}

// PlaceOrder submits a validated order. A client order ID is stamped when
// the caller did not supply one, so vendor-side dedup works across retries.
func (c *Client) PlaceOrder(_ context.Context, req types.OrderRequest) (types.OrderResult, error) {
	clientOrderID := req.ClientOrderID
	if clientOrderID == "" {
		clientOrderID = uuid.NewString()
	}

	order, err := c.trading.PlaceOrder(alpacaapi.PlaceOrderRequest{
		Symbol:        req.Symbol,
		Qty:           req.Qty,
		Notional:      req.Notional,
		Side:          alpacaapi.Side(req.Side),
		Type:          orderType(req.Kind),
		TimeInForce:   alpacaapi.Day,
		LimitPrice:    req.LimitPrice,
		StopPrice:     req.StopPrice,
		TrailPrice:    req.TrailAmount,
		TrailPercent:  req.TrailPercent,
		ClientOrderID: clientOrderID,
	})
	if err != nil {
		return types.OrderResult{}, mapErr(err)
	}
	return types.OrderResult{
		OrderID:       order.ID,
		ClientOrderID: order.ClientOrderID,
		Symbol:        order.Symbol,
		Status:        string(order.Status),
		SubmittedAt:   order.SubmittedAt,
	}, nil
}

// CancelOrder requests cancellation of an open order.
func (c *Client) CancelOrder(_ context.Context, orderID string) error {
	if err := c.trading.CancelOrder(orderID); err != nil {
		return mapErr(err)
	}
	return nil
}

// Positions returns all holdings in the account.
func (c *Client) Positions(_ context.Context) ([]types.Position, error) {
	positions, err := c.trading.GetPositions()
	if err != nil {
		return nil, mapErr(err)
	}

	out := make([]types.Position, 0, len(positions))
	for _, p := range positions {
		pos := types.Position{
			Symbol:        p.Symbol,
			Qty:           p.Qty,
			AvgEntryPrice: p.AvgEntryPrice,
		}
		if p.MarketValue != nil {
			pos.MarketValue = *p.MarketValue
		}
		if p.UnrealizedPL != nil {
			pos.UnrealizedPL = *p.UnrealizedPL
		}
		out = append(out, pos)
	}
	return out, nil
}

// Account returns a snapshot of the account's financial state.
func (c *Client) Account(_ context.Context) (types.AccountSnapshot, error) {
	acct, err := c.trading.GetAccount()
	if err != nil {
		return types.AccountSnapshot{}, mapErr(err)
	}
	return types.AccountSnapshot{
		ID:          acct.ID,
		Currency:    acct.Currency,
		Cash:        acct.Cash,
		BuyingPower: acct.BuyingPower,
		Equity:      acct.Equity,
	}, nil
}

// Bars returns OHLCV bars for the query window.
func (c *Client) Bars(_ context.Context, q types.BarsQuery) ([]types.Bar, error) {
	bars, err := c.data.GetBars(q.Symbol, marketdata.GetBarsRequest{
		TimeFrame:  marketdata.OneDay,
		Start:      q.Start,
		End:        q.End,
		TotalLimit: q.Limit,
	})
	if err != nil {
		return nil, mapErr(err)
	}

	out := make([]types.Bar, 0, len(bars))
	for _, b := range bars {
		out = append(out, types.Bar{
			Timestamp: b.Timestamp,
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    int64(b.Volume),
		})
	}
	return out, nil
}

// LatestQuote returns the latest top-of-book quote for a symbol.
func (c *Client) LatestQuote(_ context.Context, symbol string) (types.Quote, error) {
	quote, err := c.data.GetLatestQuote(symbol, marketdata.GetLatestQuoteRequest{})
	if err != nil {
		return types.Quote{}, mapErr(err)
	}
	return types.Quote{
		Symbol:    symbol,
		BidPrice:  quote.BidPrice,
		BidSize:   int64(quote.BidSize),
		AskPrice:  quote.AskPrice,
		AskSize:   int64(quote.AskSize),
		Timestamp: quote.Timestamp,
	}, nil
}

// Close releases the session. The Alpaca SDK holds no persistent
// connection beyond its HTTP client, so there is nothing to tear down.
func (c *Client) Close() error { return nil }

func orderType(kind types.OrderKind) alpacaapi.OrderType {
	switch kind {
	case types.OrderKindLimit:
		return alpacaapi.Limit
	case types.OrderKindStop:
		return alpacaapi.Stop
	case types.OrderKindStopLimit:
		return alpacaapi.StopLimit
	case types.OrderKindTrailingStop:
		return alpacaapi.TrailingStop
	default:
		return alpacaapi.Market
	}
}

// mapErr folds Alpaca SDK errors into the gateway taxonomy. Both the
// trading and the market-data package surface HTTP failures as their own
// APIError type.
func mapErr(err error) error {
	var tradeErr *alpacaapi.APIError
	if errors.As(err, &tradeErr) {
		return mapStatus(tradeErr.StatusCode, tradeErr.Message, err)
	}
	var dataErr *alpacaapi.APIError
	if errors.As(err, &dataErr) {
		return mapStatus(dataErr.StatusCode, dataErr.Message, err)
	}
	return &types.TransientError{Provider: Name, Err: err}
}

func mapStatus(status int, message string, err error) error {
	switch {
	case status == http.StatusTooManyRequests:
		return &types.RateLimitedError{Provider: Name, Message: message}
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &types.AuthenticationError{Provider: Name, Message: message}
	case status >= 400 && status < 500:
		return &types.VendorRejectedError{Provider: Name, Code: status, Message: message}
	default:
		return &types.TransientError{Provider: Name, Err: err}
	}
}
