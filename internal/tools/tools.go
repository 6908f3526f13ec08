// Package tools exposes the gateway to the agent framework as three
// callable tools taking plain scalar arguments and returning formatted
// result strings. Every tool goes through the routing registry, so the
// safety gate and validator cannot be bypassed from above.
package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"agent-trading-gateway/internal/gateway"
	"agent-trading-gateway/internal/types"
)

// Tools is the agent-facing surface.
type Tools interface {
	// SubmitTrade places a market order and describes the vendor's ack.
	SubmitTrade(ctx context.Context, symbol, side string, qty float64) (string, error)

	// Positions lists current holdings.
	Positions(ctx context.Context) (string, error)

	// AccountBalance summarizes the account's financial state.
	AccountBalance(ctx context.Context) (string, error)
}

type gatewayTools struct {
	registry        *gateway.Registry
	tradingProvider string
}

var _ Tools = (*gatewayTools)(nil)

// New returns Tools routing trades to tradingProvider and reads to the
// providers wired into the registry.
func New(registry *gateway.Registry, tradingProvider string) Tools {
	return &gatewayTools{
		registry:        registry,
		tradingProvider: tradingProvider,
	}
}

func (t *gatewayTools) SubmitTrade(ctx context.Context, symbol, side string, qty float64) (string, error) {
	q := decimal.NewFromFloat(qty)
	order := types.OrderRequest{
		Symbol:        symbol,
		Side:          types.Side(side),
		Kind:          types.OrderKindMarket,
		Qty:           &q,
		ClientOrderID: uuid.NewString(),
	}

	res, err := t.registry.Route(ctx, types.ActionPlaceOrder, t.tradingProvider, gateway.Request{Order: &order})
	if err != nil {
		return "", err
	}
	ack := res.(types.OrderResult)
	return fmt.Sprintf("Order %s accepted: %s %s %s %s (status %s)",
		ack.OrderID, strings.ToLower(side), q.String(), strings.ToUpper(strings.TrimSpace(symbol)), "market", ack.Status), nil
}

func (t *gatewayTools) Positions(ctx context.Context) (string, error) {
	res, err := t.registry.Route(ctx, types.ActionGetPositions, t.tradingProvider, gateway.Request{})
	if err != nil {
		return "", err
	}
	positions := res.([]types.Position)
	if len(positions) == 0 {
		return "No open positions.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d open position(s):\n", len(positions))
	for _, p := range positions {
		fmt.Fprintf(&b, "  %-8s qty %s @ avg %s, market value %s, unrealized P/L %s\n",
			p.Symbol, p.Qty.String(), p.AvgEntryPrice.String(), p.MarketValue.String(), p.UnrealizedPL.String())
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (t *gatewayTools) AccountBalance(ctx context.Context) (string, error) {
	res, err := t.registry.Route(ctx, types.ActionGetAccount, t.tradingProvider, gateway.Request{})
	if err != nil {
		return "", err
	}
	acct := res.(types.AccountSnapshot)
	return fmt.Sprintf("Account %s: cash %s %s, buying power %s, equity %s",
		acct.ID, acct.Cash.String(), acct.Currency, acct.BuyingPower.String(), acct.Equity.String()), nil
}
