// Package discovery defines the interface the bridge consumes to locate
// provider instances for a service contract, and its catalog-backed default
// implementation.
//
// A discoverer must fail distinguishably between "the subsystem is
// unavailable" (ErrUnavailable, ErrDisabled) and "the subsystem is available
// but found zero providers" (an empty result with a nil error). The bridge
// treats the former as a permanent, process-wide degradation and the latter
// as an ordinary answer.
package discovery

import (
	"context"
	"errors"
	"fmt"

	"github.com/smarr/graal-jvmci-9/internal/catalog"
	"github.com/smarr/graal-jvmci-9/internal/scope"
)

var (
	// ErrUnavailable reports a low-level failure that makes the discovery
	// subsystem unusable, such as a declared implementation whose code was
	// never linked into this binary.
	ErrUnavailable = errors.New("discovery subsystem unavailable")

	// ErrDisabled reports that the discovery subsystem is explicitly
	// switched off for this deployment.
	ErrDisabled = errors.New("discovery subsystem disabled")
)

// Discoverer locates all provider instances for a contract within a
// resolution scope. Zero providers is a nil error with an empty result.
type Discoverer interface {
	Discover(ctx context.Context, contract scope.Contract, sc *scope.Scope) ([]any, error)
}

// CatalogDiscoverer resolves providers from a catalog's manifest bindings,
// instantiating each bound implementation through its registered
// constructor.
type CatalogDiscoverer struct {
	catalog *catalog.Catalog
}

// NewCatalogDiscoverer creates a discoverer backed by c.
func NewCatalogDiscoverer(c *catalog.Catalog) *CatalogDiscoverer {
	return &CatalogDiscoverer{catalog: c}
}

// Discover implements Discoverer. The scope chain is searched from sc up to
// the root; within each scope, bindings keep their declaration order.
func (d *CatalogDiscoverer) Discover(ctx context.Context, contract scope.Contract, sc *scope.Scope) ([]any, error) {
	if d.catalog.Disabled() {
		return nil, ErrDisabled
	}

	var providers []any
	for s := sc; s != nil; s = s.Parent() {
		for _, b := range s.Bindings(contract) {
			ctor, ok := d.catalog.Constructor(b.Implementation)
			if !ok {
				// A declared implementation with no compiled-in constructor
				// is the link failure case, not a zero-provider answer.
				return nil, fmt.Errorf("%w: no constructor linked for implementation %q", ErrUnavailable, b.Implementation)
			}
			provider, err := ctor(ctx, b.Settings)
			if err != nil {
				return nil, fmt.Errorf("constructing provider %q for contract %s: %w", b.Implementation, contract, err)
			}
			providers = append(providers, provider)
		}
	}
	return providers, nil
}
