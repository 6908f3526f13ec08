// Package toolsobs wraps the agent-facing tools with observability
// middleware (spans plus structured logs).
package toolsobs

import (
	"context"

	"agent-trading-gateway/internal/logger"
	"agent-trading-gateway/internal/tools"
	"agent-trading-gateway/internal/trace"
)

type observableTools struct {
	tools tools.Tools
}

var _ tools.Tools = (*observableTools)(nil)

// Wrap wraps t with tracing and logging middleware.
func Wrap(t tools.Tools) tools.Tools {
	return &observableTools{tools: t}
}

func (o *observableTools) SubmitTrade(ctx context.Context, symbol, side string, qty float64) (string, error) {
	ctx, span := trace.StartSpan(ctx, "tools.SubmitTrade")
	defer span.End()

	logger.InfoSkip(ctx, 1, "Submitting trade", "symbol", symbol, "side", side, "qty", qty)

	out, err := o.tools.SubmitTrade(ctx, symbol, side, qty)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Trade submission failed", err, "symbol", symbol, "side", side)
		return "", err
	}

	logger.InfoSkip(ctx, 1, "Trade submitted", "symbol", symbol, "result", out)
	return out, nil
}

func (o *observableTools) Positions(ctx context.Context) (string, error) {
	ctx, span := trace.StartSpan(ctx, "tools.Positions")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching positions")

	out, err := o.tools.Positions(ctx)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch positions", err)
		return "", err
	}

	logger.DebugSkip(ctx, 1, "Positions fetched")
	return out, nil
}

func (o *observableTools) AccountBalance(ctx context.Context) (string, error) {
	ctx, span := trace.StartSpan(ctx, "tools.AccountBalance")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching account balance")

	out, err := o.tools.AccountBalance(ctx)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch account balance", err)
		return "", err
	}

	logger.DebugSkip(ctx, 1, "Account balance fetched")
	return out, nil
}
