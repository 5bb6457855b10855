package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/smarr/graal-jvmci-9/internal/catalog"
	"github.com/smarr/graal-jvmci-9/internal/ctxlog"
	"github.com/smarr/graal-jvmci-9/internal/discovery"
	"github.com/smarr/graal-jvmci-9/internal/mode"
	"github.com/smarr/graal-jvmci-9/internal/scope"
	"github.com/smarr/graal-jvmci-9/internal/snapshot"
)

// Snapshot properties quoted in operator-facing diagnostics.
const (
	homeProp    = "java.home"
	runtimeProp = "java.vm.name"
)

// Bridge is the provider registry consumers resolve services through. It
// owns the per-contract provider lists; callers must treat every returned
// slice as a read-only view.
//
// Behavior depends on the execution mode:
//
//   - normal: every lookup runs a fresh discovery pass, unless the discovery
//     subsystem has been detected as unavailable, after which all lookups
//     for all contracts resolve empty for the rest of the process.
//   - build: the first lookup per contract runs discovery and freezes the
//     result, even an empty one; later lookups return the frozen list.
//   - image: no discovery ever runs; only lists frozen at build time exist.
//
// All methods are safe for concurrent use.
type Bridge struct {
	flags mode.Flags
	props *snapshot.Store
	cat   *catalog.Catalog
	disc  discovery.Discoverer

	// resolveOnce guards the lazy choice of the isolated resolution scope.
	resolveOnce sync.Once
	resScope    *scope.Scope

	// mu is the single freeze lock shared across all contracts.
	mu     sync.Mutex
	frozen map[scope.Contract][]any

	// degraded flips false->true, at most once, when discovery reports
	// unavailability. It is never reset.
	degraded atomic.Bool
}

// New creates a bridge for the given mode, resolving environment diagnostics
// from props and providers through disc. The catalog supplies the scope
// chain that discovery is isolated to.
func New(flags mode.Flags, props *snapshot.Store, cat *catalog.Catalog, disc discovery.Discoverer) *Bridge {
	b := &Bridge{
		flags: flags,
		props: props,
		cat:   cat,
		disc:  disc,
	}
	if flags.BuildingImage || flags.InImage {
		b.frozen = make(map[scope.Contract][]any)
	}
	return b
}

// LoadAll returns all providers for a contract, per the mode rules described
// on Bridge. The returned slice is owned by the bridge when it is a frozen
// list; callers must not mutate it.
func (b *Bridge) LoadAll(ctx context.Context, contract scope.Contract) ([]any, error) {
	if b.flags.InImage || b.flags.BuildingImage {
		b.mu.Lock()
		list, ok := b.frozen[contract]
		b.mu.Unlock()
		if ok {
			return list, nil
		}
		if b.flags.InImage {
			return nil, fmt.Errorf("%w: no %s providers were frozen when this image was built", ErrMissingProviders, contract)
		}
	}

	providers, err := b.discover(ctx, contract)
	if err != nil {
		return nil, err
	}

	if b.flags.BuildingImage {
		b.mu.Lock()
		defer b.mu.Unlock()
		if list, ok := b.frozen[contract]; ok {
			// Another builder thread froze this contract first; its list wins.
			return list, nil
		}
		b.frozen[contract] = providers
	}
	return providers, nil
}

// LoadSingle returns the provider for a contract that must have at most one
// implementation. Zero providers yields nil unless required is set, in which
// case a RequiredProviderError carries operator diagnostics. More than one
// provider is always an AmbiguousProviderError, regardless of required.
func (b *Bridge) LoadSingle(ctx context.Context, contract scope.Contract, required bool) (any, error) {
	providers, err := b.LoadAll(ctx, contract)
	if err != nil {
		return nil, err
	}
	if len(providers) > 1 {
		return nil, &AmbiguousProviderError{
			Contract: contract,
			First:    fmt.Sprintf("%T", providers[0]),
			Second:   fmt.Sprintf("%T", providers[1]),
		}
	}
	if len(providers) == 0 {
		if !required {
			return nil, nil
		}
		return nil, &RequiredProviderError{
			Contract: contract,
			Home:     b.diagProp(homeProp),
			Runtime:  b.diagProp(runtimeProp),
		}
	}
	return providers[0], nil
}

// InstallFrozen installs a provider list frozen at image-build time. It is
// only valid inside an image, once per contract; this is how the image
// assembler seeds the registry of an image-run process.
func (b *Bridge) InstallFrozen(contract scope.Contract, providers []any) error {
	if !b.flags.InImage {
		return fmt.Errorf("%w: frozen providers can only be installed inside an image", snapshot.ErrInvalidMode)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.frozen[contract]; ok {
		return fmt.Errorf("%w: providers for contract %s already installed", snapshot.ErrInvalidMode, contract)
	}
	b.frozen[contract] = providers
	return nil
}

// discover runs one discovery pass through the isolated resolution scope.
// Unavailability of the subsystem is not an error: it permanently degrades
// the bridge to empty results and is reported only through the log.
func (b *Bridge) discover(ctx context.Context, contract scope.Contract) ([]any, error) {
	if b.degraded.Load() {
		return nil, nil
	}

	providers, err := b.disc.Discover(ctx, contract, b.resolutionScope())
	if err != nil {
		if errors.Is(err, discovery.ErrUnavailable) || errors.Is(err, discovery.ErrDisabled) {
			b.degraded.Store(true)
			ctxlog.FromContext(ctx).Warn("Provider discovery is unavailable; all further lookups resolve empty.",
				"contract", contract, "reason", err)
			return nil, nil
		}
		return nil, err
	}
	return providers, nil
}

// resolutionScope picks the discovery scope once and reuses it: the
// runtime's dedicated internal scope when the deployment has one, otherwise
// the primordial boundary above the application scope. Never the application
// scope itself.
func (b *Bridge) resolutionScope() *scope.Scope {
	b.resolveOnce.Do(func() {
		if sc, ok := b.cat.RuntimeScope(); ok {
			b.resScope = sc
			return
		}
		b.resScope = scope.Primordial(b.cat.ApplicationScope())
	})
	return b.resScope
}

// diagProp reads a snapshot property for an error message, degrading to a
// placeholder instead of masking the original failure with a snapshot one.
func (b *Bridge) diagProp(name string) string {
	value, err := b.props.PropDefault(name, "<unknown>")
	if err != nil {
		return "<unavailable>"
	}
	return value
}
