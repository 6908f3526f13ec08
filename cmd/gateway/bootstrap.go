package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"agent-trading-gateway/internal/client"
	"agent-trading-gateway/internal/gateway"
	"agent-trading-gateway/internal/logger"
	"agent-trading-gateway/internal/provider/alpaca"
	"agent-trading-gateway/internal/provider/kite"
	"agent-trading-gateway/internal/store"
	"agent-trading-gateway/internal/tools"
	"agent-trading-gateway/internal/tools/toolsobs"
	"agent-trading-gateway/internal/trace"
	"agent-trading-gateway/internal/types"
)

// initializeSystem loads environment variables and brings up the logger and
// tracer.
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
	return nil
}

// buildGateway wires the routing registry, handle registry, trading state
// and agent-facing tools from the loaded config.
func buildGateway(ctx context.Context, cfg *store.Config) (*gateway.Registry, *client.Registry, *store.TradingState, tools.Tools) {
	handles := client.NewRegistry()
	handles.RegisterDialer(alpaca.Name, alpaca.Dial)
	handles.RegisterDialer(kite.Name, kite.Dialer(cfg.Zerodha.Exchange))

	state := store.NewTradingState(types.TradingModeConfig{
		Mode:        cfg.Trading.Mode,
		AutoExecute: cfg.Trading.AutoExecute,
	})

	gw := gateway.NewRegistry(state.Snapshot)
	registerTradingActions(gw, handles, cfg)
	registerDataActions(gw, handles, cfg)

	if cfg.Trading.Mode == types.ModeLive && !cfg.Trading.AutoExecute {
		logger.Warn(ctx, "Live mode without auto_execute: order submission is blocked until armed")
	}
	if cfg.Trading.Mode == types.ModePaper {
		logger.Info(ctx, "Paper mode: orders go to the vendor sandbox")
	}

	return gw, handles, state, toolsobs.Wrap(tools.New(gw, cfg.Trading.Provider))
}

func policyFrom(cfg *store.Config) client.Policy {
	return client.Policy{
		MaxRetries:  cfg.Client.MaxRetries,
		BaseBackoff: cfg.Backoff(),
		CallTimeout: cfg.CallTimeout(),
	}
}

// registerTradingActions wires place/cancel/positions/account to the single
// configured trading provider. Order semantics are never duplicated across
// brokers, so these chains contain exactly one provider.
func registerTradingActions(gw *gateway.Registry, handles *client.Registry, cfg *store.Config) {
	pol := policyFrom(cfg)
	mode := cfg.Trading.Mode
	provider := cfg.Trading.Provider
	chain := []string{provider}

	gw.Register(types.ActionPlaceOrder, provider, func(ctx context.Context, req gateway.Request) (any, error) {
		res, err := client.Do(ctx, handles, pol, client.OpOrder, mode, chain,
			func(ctx context.Context, h *client.Handle) (types.OrderResult, error) {
				return h.Vendor.PlaceOrder(ctx, *req.Order)
			})
		if err != nil {
			return nil, err
		}
		logger.Trade(ctx, res.Symbol, string(req.Order.Side), string(req.Order.Kind), res.OrderID, res.Status,
			"provider", provider, "mode", string(mode))
		return res, nil
	})

	gw.Register(types.ActionCancelOrder, provider, func(ctx context.Context, req gateway.Request) (any, error) {
		return client.Do(ctx, handles, pol, client.OpOrder, mode, chain,
			func(ctx context.Context, h *client.Handle) (any, error) {
				return nil, h.Vendor.CancelOrder(ctx, req.OrderID)
			})
	})

	gw.Register(types.ActionGetPositions, provider, func(ctx context.Context, req gateway.Request) (any, error) {
		positions, err := client.Do(ctx, handles, pol, client.OpData, mode, chain,
			func(ctx context.Context, h *client.Handle) ([]types.Position, error) {
				return h.Vendor.Positions(ctx)
			})
		if err != nil {
			return nil, err
		}
		return positions, nil
	})

	gw.Register(types.ActionGetAccount, provider, func(ctx context.Context, req gateway.Request) (any, error) {
		acct, err := client.Do(ctx, handles, pol, client.OpData, mode, chain,
			func(ctx context.Context, h *client.Handle) (types.AccountSnapshot, error) {
				return h.Vendor.Account(ctx)
			})
		if err != nil {
			return nil, err
		}
		return acct, nil
	})
}

// registerDataActions wires bar and quote retrieval for every configured
// data provider. Each provider's handler fronts the chain starting at that
// provider, so a rate-limited primary falls back in configured order.
func registerDataActions(gw *gateway.Registry, handles *client.Registry, cfg *store.Config) {
	pol := policyFrom(cfg)
	mode := cfg.Trading.Mode
	providers := cfg.DataProviders()

	for i, provider := range providers {
		chain := providers[i:]

		gw.Register(types.ActionGetBars, provider, func(ctx context.Context, req gateway.Request) (any, error) {
			bars, err := client.Do(ctx, handles, pol, client.OpData, mode, chain,
				func(ctx context.Context, h *client.Handle) ([]types.Bar, error) {
					return h.Vendor.Bars(ctx, *req.Bars)
				})
			if err != nil {
				return nil, err
			}
			return bars, nil
		})

		gw.Register(types.ActionGetLatestQuote, provider, func(ctx context.Context, req gateway.Request) (any, error) {
			quote, err := client.Do(ctx, handles, pol, client.OpData, mode, chain,
				func(ctx context.Context, h *client.Handle) (types.Quote, error) {
					return h.Vendor.LatestQuote(ctx, req.Symbol)
				})
			if err != nil {
				return nil, err
			}
			return quote, nil
		})
	}
}
