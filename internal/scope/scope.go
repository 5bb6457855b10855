// Package scope models the nested resolution scopes that provider discovery
// searches. Scopes form a parent chain from an application scope down to a
// primordial root, mirroring how the embedding runtime layers its component
// resolution.
//
// The bridge deliberately resolves providers through a scope that carries no
// application bindings, so that service discovery never silently picks up an
// application-supplied implementation of a runtime contract.
package scope

import "github.com/zclconf/go-cty/cty"

// Contract identifies a capability that provider implementations satisfy.
// Many contracts may be resolved over a process lifetime; each is
// independent.
type Contract string

// Binding declares that a named implementation satisfies a contract within
// one scope, together with the settings its constructor receives.
type Binding struct {
	Contract       Contract
	Implementation string
	Settings       map[string]cty.Value
}

// Scope is one level of the resolution chain. Bindings are installed during
// startup, before any discovery begins; a Scope is read-only afterwards and
// safe for concurrent lookup.
type Scope struct {
	name        string
	parent      *Scope
	application bool
	bindings    map[Contract][]Binding
}

// New creates a runtime-internal scope with the given parent. A nil parent
// makes this a root scope.
func New(name string, parent *Scope) *Scope {
	return &Scope{name: name, parent: parent, bindings: make(map[Contract][]Binding)}
}

// NewApplication creates a scope that may carry application-level bindings.
// Discovery must never resolve through such a scope directly.
func NewApplication(name string, parent *Scope) *Scope {
	s := New(name, parent)
	s.application = true
	return s
}

// Name returns the scope's name, used in logs and error messages.
func (s *Scope) Name() string { return s.name }

// Parent returns the enclosing scope, or nil for a root scope.
func (s *Scope) Parent() *Scope { return s.parent }

// Bind installs a binding in this scope. Bindings for one contract keep
// their installation order.
func (s *Scope) Bind(b Binding) {
	s.bindings[b.Contract] = append(s.bindings[b.Contract], b)
}

// Bindings returns this scope's own bindings for a contract, in installation
// order. Enclosing scopes are not consulted.
func (s *Scope) Bindings(c Contract) []Binding {
	return s.bindings[c]
}

// AllBindings returns every binding installed in this scope, in
// installation order within each contract.
func (s *Scope) AllBindings() []Binding {
	var all []Binding
	for _, bs := range s.bindings {
		all = append(all, bs...)
	}
	return all
}

// Primordial walks up from start and returns the narrowest enclosing scope
// that carries no application bindings. If every scope on the chain is
// application-scoped, the root is returned. This is the fallback resolution
// boundary used when no dedicated runtime scope is available: it is as
// close to the root as necessary, never the broadest ambient scope.
func Primordial(start *Scope) *Scope {
	s := start
	for s.parent != nil && s.application {
		s = s.parent
	}
	return s
}
