package gateway

import (
	"context"
	"fmt"
	"sync"

	"agent-trading-gateway/internal/types"
)

// Request carries the arguments of a routed call. Only the fields the
// action needs are set.
type Request struct {
	Order   *types.OrderRequest // place_order
	OrderID string              // cancel_order
	Symbol  string              // get_latest_quote
	Bars    *types.BarsQuery    // get_bars
}

// Handler executes one action against one provider. Handlers receive
// already-gated, already-validated requests; they must not re-implement
// either check.
type Handler func(ctx context.Context, req Request) (any, error)

// Registry maps (action, provider) pairs to handlers. It is pure dispatch
// plus the safety gate and order validator, centralized so every
// order-producing call passes through the gate exactly once and no handler
// can bypass it.
type Registry struct {
	mu       sync.RWMutex
	handlers map[types.Action]map[string]Handler

	// trading is read afresh on every order-producing call; the registry
	// never caches a gate decision.
	trading func() types.TradingModeConfig
}

// NewRegistry returns an empty registry. trading supplies the current
// trading-mode config and is consulted at the moment of each call.
func NewRegistry(trading func() types.TradingModeConfig) *Registry {
	return &Registry{
		handlers: make(map[types.Action]map[string]Handler),
		trading:  trading,
	}
}

// Register installs the handler for (action, provider). Registering the
// same pair twice is a wiring bug and panics at startup.
func (r *Registry) Register(action types.Action, provider string, h Handler) {
	if !action.Known() {
		panic(fmt.Sprintf("gateway: registering unknown action %q", string(action)))
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	byProvider, ok := r.handlers[action]
	if !ok {
		byProvider = make(map[string]Handler)
		r.handlers[action] = byProvider
	}
	if _, dup := byProvider[provider]; dup {
		panic(fmt.Sprintf("gateway: handler for (%s, %s) registered twice", string(action), provider))
	}
	byProvider[provider] = h
}

// Route dispatches a call to the handler registered for (action, provider).
// It fails closed: an action outside the fixed set is UnknownActionError,
// a registered action with no handler for the provider is
// UnsupportedProviderError, and there is no implicit default provider.
//
// Order-producing actions pass the safety gate first; place_order requests
// are additionally validated and normalized. Both checks complete before
// the handler runs, so a blocked or invalid call causes no network traffic.
func (r *Registry) Route(ctx context.Context, action types.Action, provider string, req Request) (any, error) {
	if !action.Known() {
		return nil, &types.UnknownActionError{Action: action}
	}

	r.mu.RLock()
	h := r.handlers[action][provider]
	r.mu.RUnlock()
	if h == nil {
		return nil, &types.UnsupportedProviderError{Action: action, Provider: provider}
	}

	if action.OrderProducing() {
		if err := CheckGate(r.trading()); err != nil {
			return nil, err
		}
	}
	if action == types.ActionPlaceOrder {
		if req.Order == nil {
			return nil, &types.InvalidOrderError{Field: "order", Reason: "request is missing the order"}
		}
		normalized, err := ValidateOrder(*req.Order)
		if err != nil {
			return nil, err
		}
		req.Order = &normalized
	}

	return h(ctx, req)
}
