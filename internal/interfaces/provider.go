package interfaces

import (
	"context"

	"agent-trading-gateway/internal/types"
)

// VendorClient is a live session with one vendor in one trading mode. All
// methods are blocking round-trips; implementations map their SDK errors
// into the gateway error taxonomy.
type VendorClient interface {
	// PlaceOrder submits a validated order and returns the vendor's ack.
	PlaceOrder(ctx context.Context, req types.OrderRequest) (types.OrderResult, error)

	// CancelOrder requests cancellation of an open order by vendor order ID.
	CancelOrder(ctx context.Context, orderID string) error

	// Positions returns all holdings in the account.
	Positions(ctx context.Context) ([]types.Position, error)

	// Account returns a snapshot of the account's financial state.
	Account(ctx context.Context) (types.AccountSnapshot, error)

	// Bars returns OHLCV bars for the query window.
	Bars(ctx context.Context, q types.BarsQuery) ([]types.Bar, error)

	// LatestQuote returns the latest top-of-book quote for a symbol.
	LatestQuote(ctx context.Context, symbol string) (types.Quote, error)

	// Close releases the underlying network session.
	Close() error
}

// Dialer constructs a vendor session from resolved credentials. The mode
// selects the vendor environment (paper sandbox vs. production).
type Dialer func(key, secret string, mode types.Mode) (VendorClient, error)
