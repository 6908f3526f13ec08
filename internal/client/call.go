package client

import (
	"context"
	"errors"
	"net"
	"time"

	"agent-trading-gateway/internal/logger"
	"agent-trading-gateway/internal/types"
)

// OpKind classifies an outbound call for fallback purposes. Only data
// retrieval may be re-routed to a secondary provider; order semantics must
// never be duplicated across brokers.
type OpKind int

const (
	OpData OpKind = iota
	OpOrder
)

// Policy is the retry/backoff/timeout policy applied to every outbound call.
type Policy struct {
	// MaxRetries is the number of retries after the initial call, so a
	// provider sees MaxRetries+1 attempts before the error surfaces.
	MaxRetries int
	// BaseBackoff is the sleep before the first retry; it doubles after
	// each failed attempt (1s, 2s, 4s with the defaults).
	BaseBackoff time.Duration
	// CallTimeout bounds each individual attempt, not the whole sequence,
	// so backoff sleeps never eat the operation budget.
	CallTimeout time.Duration
}

// DefaultPolicy returns the stock 3-retry, 1s-base, 10s-per-call policy.
func DefaultPolicy() Policy {
	return Policy{MaxRetries: 3, BaseBackoff: time.Second, CallTimeout: 10 * time.Second}
}

// Do executes fn against the first provider in providers, retrying transient
// and rate-limited failures per pol. For data operations, if the primary is
// still rate limited after the retry budget, the call falls back to the next
// configured provider for this single call; order operations never fall
// back. Authentication and vendor-rejection errors surface immediately.
func Do[T any](ctx context.Context, reg *Registry, pol Policy, kind OpKind, mode types.Mode, providers []string, fn func(ctx context.Context, h *Handle) (T, error)) (T, error) {
	var zero T
	if len(providers) == 0 {
		return zero, errors.New("client: no providers configured for call")
	}

	candidates := providers
	if kind == OpOrder {
		candidates = providers[:1]
	}

	var lastErr error
	for i, provider := range candidates {
		h, err := reg.Get(provider, mode)
		if err != nil {
			// A handle we cannot dial means missing credentials or an
			// unregistered provider. That is a configuration problem, not
			// a vendor outage, so it surfaces verbatim with no fallback.
			return zero, err
		}

		v, err := attempt(ctx, pol, h, fn)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if kind == OpOrder || !isRateLimited(err) || i == len(candidates)-1 {
			return zero, err
		}
		logger.Warn(ctx, "data provider rate limited after retries, falling back",
			"provider", provider, "next", candidates[i+1])
	}
	return zero, lastErr
}

// attempt runs fn against one handle with the retry/backoff loop.
func attempt[T any](ctx context.Context, pol Policy, h *Handle, fn func(ctx context.Context, h *Handle) (T, error)) (T, error) {
	var zero T
	var err error
	delay := pol.BaseBackoff

	attempts := pol.MaxRetries + 1
	for i := 0; i < attempts; i++ {
		attemptCtx, cancel := context.WithTimeout(ctx, pol.CallTimeout)
		var v T
		v, err = fn(attemptCtx, h)
		cancel()
		if err == nil {
			return v, nil
		}

		err = classify(h.Provider, err)
		if !retryable(err) {
			return zero, err
		}
		if i < attempts-1 {
			logger.Debug(ctx, "retrying vendor call",
				"provider", h.Provider, "attempt", i+1, "backoff", delay.String(), "error", err)
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
	}
	return zero, err
}

// classify folds transport-level failures the vendor adapters did not map
// (timeouts from the per-attempt context, connection resets below the SDK)
// into the taxonomy. Already-typed errors pass through unchanged.
func classify(provider string, err error) error {
	var (
		auth      *types.AuthenticationError
		limited   *types.RateLimitedError
		transient *types.TransientError
		rejected  *types.VendorRejectedError
	)
	if errors.As(err, &auth) || errors.As(err, &limited) ||
		errors.As(err, &transient) || errors.As(err, &rejected) {
		return err
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.As(err, &netErr) {
		return &types.TransientError{Provider: provider, Err: err}
	}

	// Unrecognized SDK errors are treated as vendor rejections: retrying an
	// unknown failure against a brokerage is the wrong default.
	return &types.VendorRejectedError{Provider: provider, Message: err.Error()}
}

func retryable(err error) bool {
	var transient *types.TransientError
	return isRateLimited(err) || errors.As(err, &transient)
}

func isRateLimited(err error) bool {
	var limited *types.RateLimitedError
	return errors.As(err, &limited)
}
