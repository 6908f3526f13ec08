package tools

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"agent-trading-gateway/internal/gateway"
	"agent-trading-gateway/internal/types"
)

func newTestRegistry(cfg types.TradingModeConfig) *gateway.Registry {
	return gateway.NewRegistry(func() types.TradingModeConfig { return cfg })
}

func TestSubmitTradeFormatsAck(t *testing.T) {
	reg := newTestRegistry(types.TradingModeConfig{Mode: types.ModePaper})
	reg.Register(types.ActionPlaceOrder, "alpaca", func(ctx context.Context, req gateway.Request) (any, error) {
		return types.OrderResult{
			OrderID: "ord-42",
			Symbol:  req.Order.Symbol,
			Status:  "accepted",
		}, nil
	})

	out, err := New(reg, "alpaca").SubmitTrade(context.Background(), "aapl", "buy", 1)
	if err != nil {
		t.Fatalf("SubmitTrade returned error: %v", err)
	}
	for _, want := range []string{"ord-42", "AAPL", "buy", "accepted"} {
		if !strings.Contains(out, want) {
			t.Errorf("result %q missing %q", out, want)
		}
	}
}

func TestSubmitTradeBlockedSurfacesGateError(t *testing.T) {
	reg := newTestRegistry(types.TradingModeConfig{Mode: types.ModeLive, AutoExecute: false})
	reg.Register(types.ActionPlaceOrder, "alpaca", func(ctx context.Context, req gateway.Request) (any, error) {
		t.Fatal("blocked trade must not reach the handler")
		return nil, nil
	})

	_, err := New(reg, "alpaca").SubmitTrade(context.Background(), "AAPL", "buy", 1)
	var blocked *types.LiveTradingNotEnabledError
	if !errors.As(err, &blocked) {
		t.Fatalf("expected LiveTradingNotEnabledError, got %v", err)
	}
}

func TestPositionsFormatting(t *testing.T) {
	reg := newTestRegistry(types.TradingModeConfig{Mode: types.ModePaper})
	reg.Register(types.ActionGetPositions, "alpaca", func(ctx context.Context, req gateway.Request) (any, error) {
		return []types.Position{{
			Symbol:        "MSFT",
			Qty:           decimal.NewFromInt(3),
			AvgEntryPrice: decimal.RequireFromString("410.25"),
		}}, nil
	})

	out, err := New(reg, "alpaca").Positions(context.Background())
	if err != nil {
		t.Fatalf("Positions returned error: %v", err)
	}
	if !strings.Contains(out, "MSFT") || !strings.Contains(out, "410.25") {
		t.Errorf("unexpected positions output: %q", out)
	}
}

func TestPositionsEmpty(t *testing.T) {
	reg := newTestRegistry(types.TradingModeConfig{Mode: types.ModePaper})
	reg.Register(types.ActionGetPositions, "alpaca", func(ctx context.Context, req gateway.Request) (any, error) {
		return []types.Position{}, nil
	})

	out, err := New(reg, "alpaca").Positions(context.Background())
	if err != nil {
		t.Fatalf("Positions returned error: %v", err)
	}
	if out != "No open positions." {
		t.Errorf("unexpected empty-positions output: %q", out)
	}
}

func TestAccountBalanceFormatting(t *testing.T) {
	reg := newTestRegistry(types.TradingModeConfig{Mode: types.ModePaper})
	reg.Register(types.ActionGetAccount, "alpaca", func(ctx context.Context, req gateway.Request) (any, error) {
		return types.AccountSnapshot{
			ID:          "acct-1",
			Currency:    "USD",
			Cash:        decimal.RequireFromString("2500.50"),
			BuyingPower: decimal.RequireFromString("5001"),
			Equity:      decimal.RequireFromString("10000"),
		}, nil
	})

	out, err := New(reg, "alpaca").AccountBalance(context.Background())
	if err != nil {
		t.Fatalf("AccountBalance returned error: %v", err)
	}
	for _, want := range []string{"acct-1", "2500.5", "USD", "5001", "10000"} {
		if !strings.Contains(out, want) {
			t.Errorf("result %q missing %q", out, want)
		}
	}
}
