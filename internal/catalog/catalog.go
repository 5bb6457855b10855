package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zclconf/go-cty/cty"

	"github.com/smarr/graal-jvmci-9/internal/scope"
)

// Constructor builds one provider instance from its manifest settings.
type Constructor func(ctx context.Context, settings map[string]cty.Value) (any, error)

// Module is the interface compiled-in provider modules implement to
// register their constructors with a catalog.
type Module interface {
	Register(c *Catalog)
}

// Catalog is the host module subsystem the bridge consumes: a registry of
// provider constructors keyed by implementation name, plus the scope chain
// that manifest declarations are bound into.
//
// A catalog is populated during startup (Register, LoadManifests, Validate)
// and read-only afterwards.
type Catalog struct {
	constructors map[string]Constructor

	root        *scope.Scope
	runtime     *scope.Scope // nil when the deployment has no dedicated runtime scope
	application *scope.Scope

	disabled bool
}

// New creates a catalog with the full scope chain: a primordial root, the
// runtime's dedicated internal scope, and an application scope on top.
func New() *Catalog {
	root := scope.New("root", nil)
	runtime := scope.New("runtime", root)
	application := scope.NewApplication("application", runtime)
	return &Catalog{
		constructors: make(map[string]Constructor),
		root:         root,
		runtime:      runtime,
		application:  application,
	}
}

// NewWithoutRuntimeScope creates a catalog for deployments where the
// runtime's dedicated scope is unavailable. Manifest declarations with
// scope "runtime" are bound to the root instead, and RuntimeScope reports
// absence so that callers fall back to a primordial boundary.
func NewWithoutRuntimeScope() *Catalog {
	root := scope.New("root", nil)
	application := scope.NewApplication("application", root)
	return &Catalog{
		constructors: make(map[string]Constructor),
		root:         root,
		application:  application,
	}
}

// Register registers the constructor for an implementation name. Registering
// the same name twice is a programmer error.
func (c *Catalog) Register(implementation string, ctor Constructor) {
	if _, exists := c.constructors[implementation]; exists {
		panic(fmt.Sprintf("provider constructor %q already registered", implementation))
	}
	slog.Debug("Registering provider constructor.", "implementation", implementation)
	c.constructors[implementation] = ctor
}

// Constructor looks up a registered constructor by implementation name.
func (c *Catalog) Constructor(implementation string) (Constructor, bool) {
	ctor, ok := c.constructors[implementation]
	return ctor, ok
}

// RuntimeScope returns the runtime's dedicated internal scope, or false when
// the deployment does not provide one.
func (c *Catalog) RuntimeScope() (*scope.Scope, bool) {
	if c.runtime == nil {
		return nil, false
	}
	return c.runtime, true
}

// ApplicationScope returns the outermost scope, which may carry
// application-level bindings.
func (c *Catalog) ApplicationScope() *scope.Scope {
	return c.application
}

// Disable marks the whole discovery subsystem as switched off for this
// deployment. Must be called during startup, before discovery begins.
func (c *Catalog) Disable() {
	c.disabled = true
}

// Disabled reports whether the discovery subsystem is switched off.
func (c *Catalog) Disabled() bool {
	return c.disabled
}
