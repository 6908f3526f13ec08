package gateway

import (
	"context"
	"errors"
	"testing"

	"agent-trading-gateway/internal/types"
)

func staticTrading(cfg types.TradingModeConfig) func() types.TradingModeConfig {
	return func() types.TradingModeConfig { return cfg }
}

func TestRouteUnknownAction(t *testing.T) {
	r := NewRegistry(staticTrading(types.TradingModeConfig{Mode: types.ModePaper}))

	_, err := r.Route(context.Background(), "nonexistent_action", "vendor-a", Request{})
	var unknown *types.UnknownActionError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownActionError, got %v", err)
	}
}

func TestRouteUnsupportedProvider(t *testing.T) {
	r := NewRegistry(staticTrading(types.TradingModeConfig{Mode: types.ModePaper}))
	r.Register(types.ActionGetPositions, "vendor-a", func(ctx context.Context, req Request) (any, error) {
		return nil, nil
	})

	_, err := r.Route(context.Background(), types.ActionGetPositions, "vendor-b", Request{})
	var unsupported *types.UnsupportedProviderError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedProviderError, got %v", err)
	}
	if unsupported.Provider != "vendor-b" {
		t.Errorf("expected provider vendor-b in error, got %q", unsupported.Provider)
	}
}

func TestRouteBlockedLiveOrderNeverReachesHandler(t *testing.T) {
	calls := 0
	r := NewRegistry(staticTrading(types.TradingModeConfig{Mode: types.ModeLive, AutoExecute: false}))
	r.Register(types.ActionPlaceOrder, "alpaca", func(ctx context.Context, req Request) (any, error) {
		calls++
		return types.OrderResult{}, nil
	})

	req := validMarketBuy()
	req.Symbol = "AAPL"
	_, err := r.Route(context.Background(), types.ActionPlaceOrder, "alpaca", Request{Order: &req})

	var blocked *types.LiveTradingNotEnabledError
	if !errors.As(err, &blocked) {
		t.Fatalf("expected LiveTradingNotEnabledError, got %v", err)
	}
	if calls != 0 {
		t.Errorf("blocked order must not reach the handler, got %d calls", calls)
	}
}

func TestRouteArmedPaperOrderReachesHandlerOnceNormalized(t *testing.T) {
	var seen []types.OrderRequest
	r := NewRegistry(staticTrading(types.TradingModeConfig{Mode: types.ModePaper}))
	r.Register(types.ActionPlaceOrder, "alpaca", func(ctx context.Context, req Request) (any, error) {
		seen = append(seen, *req.Order)
		return types.OrderResult{OrderID: "o-1"}, nil
	})

	req := validMarketBuy()
	req.Symbol = " aapl "
	res, err := r.Route(context.Background(), types.ActionPlaceOrder, "alpaca", Request{Order: &req})
	if err != nil {
		t.Fatalf("Route returned error: %v", err)
	}
	if res.(types.OrderResult).OrderID != "o-1" {
		t.Errorf("handler result not propagated: %+v", res)
	}
	if len(seen) != 1 {
		t.Fatalf("expected exactly one handler call, got %d", len(seen))
	}
	if seen[0].Symbol != "AAPL" || seen[0].Side != types.SideBuy || seen[0].Kind != types.OrderKindMarket {
		t.Errorf("handler received unnormalized order: %+v", seen[0])
	}
}

func TestRouteInvalidOrderNeverReachesHandler(t *testing.T) {
	calls := 0
	r := NewRegistry(staticTrading(types.TradingModeConfig{Mode: types.ModePaper}))
	r.Register(types.ActionPlaceOrder, "alpaca", func(ctx context.Context, req Request) (any, error) {
		calls++
		return nil, nil
	})

	req := validMarketBuy()
	req.Kind = types.OrderKindLimit // missing limit price
	_, err := r.Route(context.Background(), types.ActionPlaceOrder, "alpaca", Request{Order: &req})

	var invalid *types.InvalidOrderError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidOrderError, got %v", err)
	}
	if calls != 0 {
		t.Errorf("invalid order must not reach the handler, got %d calls", calls)
	}
}

func TestRouteGateReevaluatedPerCall(t *testing.T) {
	cfg := types.TradingModeConfig{Mode: types.ModeLive, AutoExecute: true}
	r := NewRegistry(func() types.TradingModeConfig { return cfg })
	r.Register(types.ActionCancelOrder, "alpaca", func(ctx context.Context, req Request) (any, error) {
		return nil, nil
	})

	if _, err := r.Route(context.Background(), types.ActionCancelOrder, "alpaca", Request{OrderID: "o-1"}); err != nil {
		t.Fatalf("armed cancel failed: %v", err)
	}

	cfg.AutoExecute = false
	_, err := r.Route(context.Background(), types.ActionCancelOrder, "alpaca", Request{OrderID: "o-2"})
	var blocked *types.LiveTradingNotEnabledError
	if !errors.As(err, &blocked) {
		t.Fatalf("gate flip must take effect on the next call, got %v", err)
	}
}

func TestRouteDataActionSkipsGate(t *testing.T) {
	r := NewRegistry(staticTrading(types.TradingModeConfig{Mode: types.ModeLive, AutoExecute: false}))
	r.Register(types.ActionGetBars, "alpaca", func(ctx context.Context, req Request) (any, error) {
		return []types.Bar{}, nil
	})

	if _, err := r.Route(context.Background(), types.ActionGetBars, "alpaca", Request{Bars: &types.BarsQuery{Symbol: "AAPL"}}); err != nil {
		t.Errorf("data retrieval carries no safety gate, got %v", err)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	r := NewRegistry(staticTrading(types.TradingModeConfig{Mode: types.ModePaper}))
	h := func(ctx context.Context, req Request) (any, error) { return nil, nil }
	r.Register(types.ActionGetAccount, "alpaca", h)

	defer func() {
		if recover() == nil {
			t.Error("expected duplicate registration to panic")
		}
	}()
	r.Register(types.ActionGetAccount, "alpaca", h)
}
