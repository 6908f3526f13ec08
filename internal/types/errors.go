package types

import "fmt"

// The gateway error taxonomy. Every failure a caller can observe is one of
// these types, checkable with errors.As, so callers handle each case
// explicitly instead of matching on message strings.

// MissingCredentialsError reports a credential environment variable that is
// required but unset. It names the exact variable so the deployment can be
// fixed without reading code.
type MissingCredentialsError struct {
	Variable string
}

func (e *MissingCredentialsError) Error() string {
	return fmt.Sprintf("missing credential environment variable %s", e.Variable)
}

// InvalidOrderError reports an order request that failed validation. It is
// raised before any network call is made.
type InvalidOrderError struct {
	Field  string
	Reason string
}

func (e *InvalidOrderError) Error() string {
	return fmt.Sprintf("invalid order: field %s: %s", e.Field, e.Reason)
}

// LiveTradingNotEnabledError is the safety-gate denial: the configured
// trading mode does not permit order submission. No network traffic occurs
// for a blocked call.
type LiveTradingNotEnabledError struct {
	Mode Mode
}

func (e *LiveTradingNotEnabledError) Error() string {
	return fmt.Sprintf("live trading not enabled (mode=%s): set auto_execute to submit live orders", e.Mode)
}

// AuthenticationError reports vendor-rejected credentials. Never retried.
type AuthenticationError struct {
	Provider string
	Message  string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("%s: authentication failed: %s", e.Provider, e.Message)
}

// RateLimitedError reports vendor throttling that survived the retry budget.
// Data calls mitigate it via the fallback provider; trading calls surface it.
type RateLimitedError struct {
	Provider string
	Message  string
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("%s: rate limited: %s", e.Provider, e.Message)
}

// TransientError reports a transport-level failure that survived the retry
// budget.
type TransientError struct {
	Provider string
	Err      error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: transient failure: %v", e.Provider, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// VendorRejectedError carries a vendor 4xx rejection verbatim. Never retried.
type VendorRejectedError struct {
	Provider string
	Code     int
	Message  string
}

func (e *VendorRejectedError) Error() string {
	return fmt.Sprintf("%s: rejected (%d): %s", e.Provider, e.Code, e.Message)
}

// UnknownActionError reports a route for an action outside the fixed set.
// Always a deployment wiring bug.
type UnknownActionError struct {
	Action Action
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("unknown action %q", string(e.Action))
}

// UnsupportedProviderError reports a route for an action no handler is
// registered for under the requested provider key. Always a deployment
// wiring bug; routing never falls back to a default provider.
type UnsupportedProviderError struct {
	Action   Action
	Provider string
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("provider %q does not support action %q", e.Provider, string(e.Action))
}
