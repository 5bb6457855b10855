// Package bridge implements the provider registry that lets runtime
// internals resolve pluggable service providers consistently across the
// three execution modes: a normal session with live discovery, an
// image-assembly session that freezes discovery results, and an image-run
// session that can only serve what was frozen.
//
// The bridge never resolves through the application's own scope: discovery
// is routed through an isolated resolution scope so that application code
// cannot silently satisfy a runtime contract.
package bridge
