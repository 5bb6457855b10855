// Package noopcompiler provides a compiler backend that compiles nothing.
// It exists so that a bare deployment still has a resolvable implementation
// of the compiler contract, and doubles as the reference for how provider
// modules register with the catalog.
package noopcompiler

import (
	"context"

	"github.com/zclconf/go-cty/cty"

	"github.com/smarr/graal-jvmci-9/internal/catalog"
	"github.com/smarr/graal-jvmci-9/internal/scope"
)

// Contract is the service contract this module's provider satisfies.
const Contract scope.Contract = "compiler"

// Module implements the catalog.Module interface for this package.
type Module struct{}

// Compiler is the provider instance handed to consumers of the compiler
// contract. It accepts every compilation request and does nothing.
type Compiler struct {
	name string
}

// Name returns the backend name configured in the manifest settings.
func (c *Compiler) Name() string { return c.name }

// NewCompiler is the constructor bound to the "noop-compiler"
// implementation name. The optional 'name' setting overrides the backend
// name reported by the provider.
func NewCompiler(ctx context.Context, settings map[string]cty.Value) (any, error) {
	name := "noop"
	if v, ok := settings["name"]; ok && v.Type() == cty.String && !v.IsNull() {
		name = v.AsString()
	}
	return &Compiler{name: name}, nil
}

// Register registers the constructor with the catalog.
func (m *Module) Register(c *catalog.Catalog) {
	c.Register("noop-compiler", NewCompiler)
}
