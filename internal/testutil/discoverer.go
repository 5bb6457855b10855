package testutil

import (
	"context"
	"sync"

	"github.com/smarr/graal-jvmci-9/internal/scope"
)

// ScriptedDiscoverer is a discovery.Discoverer test double backed by canned
// results. It records every call so tests can assert which contracts were
// actually discovered, and in particular that degraded lookups never reach
// the discoverer again.
type ScriptedDiscoverer struct {
	mu      sync.Mutex
	calls   []scope.Contract
	results map[scope.Contract][]any

	// Err, when set, fails every Discover call.
	Err error
}

// NewScriptedDiscoverer creates a discoverer returning the given providers
// per contract. Contracts without an entry resolve to zero providers.
func NewScriptedDiscoverer(results map[scope.Contract][]any) *ScriptedDiscoverer {
	return &ScriptedDiscoverer{results: results}
}

// Discover implements discovery.Discoverer.
func (d *ScriptedDiscoverer) Discover(ctx context.Context, contract scope.Contract, sc *scope.Scope) ([]any, error) {
	d.mu.Lock()
	d.calls = append(d.calls, contract)
	d.mu.Unlock()
	if d.Err != nil {
		return nil, d.Err
	}
	return d.results[contract], nil
}

// Calls returns the contracts Discover was invoked for, in call order.
func (d *ScriptedDiscoverer) Calls() []scope.Contract {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]scope.Contract(nil), d.calls...)
}
