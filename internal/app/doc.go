// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the startup lifecycle that wires the
// environment source, catalog, and provider bridge together, decoupled from
// any specific entrypoint like a CLI.
//
// The App is the single process-wide context object: mode flags, the cached
// snapshot, and the frozen provider cache all live on it rather than in
// package-level state, so tests can simulate several processes in one run.
package app
