// Package gateway is the dispatch core: the provider routing registry plus
// the two cross-cutting checks every order-producing call passes through,
// the trading-mode safety gate and the order validator. It holds no vendor
// logic and performs no I/O of its own.
package gateway

import "agent-trading-gateway/internal/types"

// GateState is the safety gate's position for one call.
type GateState int

const (
	// Blocked: the call must fail before any network traffic occurs.
	Blocked GateState = iota
	// Armed: the call may proceed to the client wrapper.
	Armed
)

// EvaluateGate computes the gate state purely from the trading-mode config.
// It is called with a freshly read config on every order-producing call, so
// flipping auto_execute off takes effect on the very next call.
func EvaluateGate(cfg types.TradingModeConfig) GateState {
	if cfg.Armed() {
		return Armed
	}
	return Blocked
}

// CheckGate returns LiveTradingNotEnabledError when the gate is blocked.
func CheckGate(cfg types.TradingModeConfig) error {
	if EvaluateGate(cfg) == Blocked {
		return &types.LiveTradingNotEnabledError{Mode: cfg.Mode}
	}
	return nil
}
