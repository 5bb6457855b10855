// Package catalog implements the module subsystem the provider bridge
// discovers through.
//
// The catalog stores mappings between the implementation names used in
// provider manifests (e.g., "noop-compiler") and the compiled Go
// constructors that build those providers. Manifests are .hcl files that
// declare which implementation satisfies which service contract and in
// which resolution scope.
//
// During startup the catalog is populated and then validated, so that a
// manifest naming an implementation with no compiled-in constructor fails
// loudly before any discovery happens instead of at first lookup.
package catalog
