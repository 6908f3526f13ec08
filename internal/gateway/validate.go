package gateway

import (
	"strings"

	"agent-trading-gateway/internal/types"
)

// ValidateOrder checks an order request and returns a normalized copy, or
// an InvalidOrderError naming the offending field. It is a pure function:
// no I/O, deterministic, and idempotent (validating an already-normalized
// request returns it unchanged).
//
// Normalization trims and uppercases the symbol and lowercases side and
// kind; caller-supplied numeric values are never altered.
func ValidateOrder(req types.OrderRequest) (types.OrderRequest, error) {
	req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))
	if req.Symbol == "" {
		return req, &types.InvalidOrderError{Field: "symbol", Reason: "must not be empty"}
	}

	req.Side = types.Side(strings.ToLower(string(req.Side)))
	if req.Side != types.SideBuy && req.Side != types.SideSell {
		return req, &types.InvalidOrderError{Field: "side", Reason: `must be "buy" or "sell"`}
	}

	req.Kind = types.OrderKind(strings.ToLower(string(req.Kind)))
	switch req.Kind {
	case types.OrderKindMarket, types.OrderKindLimit, types.OrderKindStop,
		types.OrderKindStopLimit, types.OrderKindTrailingStop:
	default:
		return req, &types.InvalidOrderError{Field: "kind", Reason: "unrecognized order kind"}
	}

	if err := checkSizing(req); err != nil {
		return req, err
	}
	if err := checkKindFields(req); err != nil {
		return req, err
	}
	return req, nil
}

// checkSizing enforces exactly-one-of(qty, notional), both positive.
func checkSizing(req types.OrderRequest) error {
	switch {
	case req.Qty == nil && req.Notional == nil:
		return &types.InvalidOrderError{Field: "qty", Reason: "one of qty or notional must be set"}
	case req.Qty != nil && req.Notional != nil:
		return &types.InvalidOrderError{Field: "notional", Reason: "qty and notional are mutually exclusive"}
	case req.Qty != nil && !req.Qty.IsPositive():
		return &types.InvalidOrderError{Field: "qty", Reason: "must be positive"}
	case req.Notional != nil && !req.Notional.IsPositive():
		return &types.InvalidOrderError{Field: "notional", Reason: "must be positive"}
	}
	return nil
}

// checkKindFields enforces the per-kind required price fields.
func checkKindFields(req types.OrderRequest) error {
	needLimit := req.Kind == types.OrderKindLimit || req.Kind == types.OrderKindStopLimit
	needStop := req.Kind == types.OrderKindStop || req.Kind == types.OrderKindStopLimit

	if needLimit {
		if req.LimitPrice == nil {
			return &types.InvalidOrderError{Field: "limit_price", Reason: "required for " + string(req.Kind) + " orders"}
		}
		if !req.LimitPrice.IsPositive() {
			return &types.InvalidOrderError{Field: "limit_price", Reason: "must be positive"}
		}
	}
	if needStop {
		if req.StopPrice == nil {
			return &types.InvalidOrderError{Field: "stop_price", Reason: "required for " + string(req.Kind) + " orders"}
		}
		if !req.StopPrice.IsPositive() {
			return &types.InvalidOrderError{Field: "stop_price", Reason: "must be positive"}
		}
	}

	if req.Kind == types.OrderKindTrailingStop {
		switch {
		case req.TrailAmount == nil && req.TrailPercent == nil:
			return &types.InvalidOrderError{Field: "trail_amount", Reason: "one of trail_amount or trail_percent must be set"}
		case req.TrailAmount != nil && req.TrailPercent != nil:
			return &types.InvalidOrderError{Field: "trail_percent", Reason: "trail_amount and trail_percent are mutually exclusive"}
		case req.TrailAmount != nil && !req.TrailAmount.IsPositive():
			return &types.InvalidOrderError{Field: "trail_amount", Reason: "must be positive"}
		case req.TrailPercent != nil && !req.TrailPercent.IsPositive():
			return &types.InvalidOrderError{Field: "trail_percent", Reason: "must be positive"}
		}
	}
	return nil
}
