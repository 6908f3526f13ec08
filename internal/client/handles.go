// Package client is the single point of contact with the vendor network
// boundary. It owns one long-lived session per (provider, mode) and wraps
// every outbound call with the retry, backoff, and fallback policy, so no
// caller above it ever sees a raw SDK failure.
package client

import (
	"fmt"
	"sync"

	"agent-trading-gateway/internal/creds"
	"agent-trading-gateway/internal/interfaces"
	"agent-trading-gateway/internal/types"
)

// Handle is a live vendor session bound to one (provider, mode) pair. A
// paper handle is never reused for live calls or vice versa: the mode is
// part of the cache key.
type Handle struct {
	Provider string
	Mode     types.Mode
	Vendor   interfaces.VendorClient
}

type handleKey struct {
	provider string
	mode     types.Mode
}

// entry guards lazy construction of one handle. Construction holds only
// this entry's lock, so dialing one provider never blocks another.
type entry struct {
	mu     sync.Mutex
	handle *Handle
}

// Registry caches one Handle per (provider, mode). It is an explicit object
// rather than package state so tests get a fresh registry each run, while
// the one-handle-per-key invariant still holds for concurrent callers.
type Registry struct {
	mu      sync.Mutex
	dialers map[string]interfaces.Dialer
	entries map[handleKey]*entry

	// resolve is creds.Resolve unless a test substitutes it.
	resolve func(provider string, mode types.Mode) (string, string, error)
}

// NewRegistry returns an empty handle registry resolving credentials from
// the process environment.
func NewRegistry() *Registry {
	return &Registry{
		dialers: make(map[string]interfaces.Dialer),
		entries: make(map[handleKey]*entry),
		resolve: creds.Resolve,
	}
}

// RegisterDialer installs the session constructor for a provider key.
// Called once at startup, before any Get.
func (r *Registry) RegisterDialer(provider string, d interfaces.Dialer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.dialers[provider]; dup {
		panic(fmt.Sprintf("client: dialer for provider %q registered twice", provider))
	}
	r.dialers[provider] = d
}

// Get returns the handle for (provider, mode), dialing it on first use.
// Concurrent callers for the same key receive the same handle; a failed
// dial is not cached, so the next call resolves credentials afresh.
func (r *Registry) Get(provider string, mode types.Mode) (*Handle, error) {
	k := handleKey{provider: provider, mode: mode}

	r.mu.Lock()
	d, ok := r.dialers[provider]
	if !ok {
		r.mu.Unlock()
		return nil, fmt.Errorf("client: no dialer registered for provider %q", provider)
	}
	e, ok := r.entries[k]
	if !ok {
		e = &entry{}
		r.entries[k] = e
	}
	r.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.handle != nil {
		return e.handle, nil
	}

	key, secret, err := r.resolve(provider, mode)
	if err != nil {
		return nil, err
	}
	vendor, err := d(key, secret, mode)
	if err != nil {
		return nil, fmt.Errorf("client: dialing %s (%s): %w", provider, mode, err)
	}
	e.handle = &Handle{Provider: provider, Mode: mode, Vendor: vendor}
	return e.handle, nil
}

// Close closes every constructed handle and empties the registry. The first
// close error is returned; remaining handles are still closed.
func (r *Registry) Close() error {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[handleKey]*entry)
	r.mu.Unlock()

	var firstErr error
	for _, e := range entries {
		e.mu.Lock()
		if e.handle != nil {
			if err := e.handle.Vendor.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
			e.handle = nil
		}
		e.mu.Unlock()
	}
	return firstErr
}
