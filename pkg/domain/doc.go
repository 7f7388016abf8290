// Package domain defines the shared types the cipher adapters agree on.
//
// It contains pure data types with no dependencies outside the Go
// standard library and the cipher engine: the wire-level error model
// and the mapping from engine validation kinds to stable machine codes.
// Adapters (HTTP server, CLI) depend on domain; domain never depends on
// an adapter.
package domain
